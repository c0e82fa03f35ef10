package sample

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/scienceol/rockin/internal/config"
	"github.com/scienceol/rockin/pkg/common"
	"github.com/scienceol/rockin/pkg/common/code"
	"github.com/scienceol/rockin/pkg/core/notify"
	"github.com/scienceol/rockin/pkg/core/notify/events"
	"github.com/scienceol/rockin/pkg/core/sample"
	"github.com/scienceol/rockin/pkg/core/sample/guard"
	"github.com/scienceol/rockin/pkg/core/sample/identity"
	"github.com/scienceol/rockin/pkg/core/sample/sequence"
	"github.com/scienceol/rockin/pkg/core/sample/validate"
	"github.com/scienceol/rockin/pkg/middleware/auth"
	"github.com/scienceol/rockin/pkg/middleware/logger"
	"github.com/scienceol/rockin/pkg/middleware/redis"
	"github.com/scienceol/rockin/pkg/repo"
	"github.com/scienceol/rockin/pkg/repo/model"
	sStore "github.com/scienceol/rockin/pkg/repo/sample"
	"github.com/scienceol/rockin/pkg/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"gorm.io/datatypes"
)

// Locker serializes allocations on one sequence scope.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

type noopLocker struct{}

func (noopLocker) Lock(context.Context, string) (func(), error) { return func() {}, nil }

// errKeys marks a payload whose scope fields cannot be read.
var errKeys = errors.New("sample keys unavailable")

var keyFields = map[sample.Kind][]string{
	sample.KindCore:     {"core_number"},
	sample.KindCoreChip: {"core_number", "core_section_number", "from_top_bottom"},
}

type Options struct {
	Repo   repo.SampleRepo
	Conf   config.Sample
	Locker Locker
	Center notify.MsgCenter
	Now    func() time.Time
}

type sampleImpl struct {
	repo          repo.SampleRepo
	conf          config.Sample
	scheme        identity.Scheme
	allocator     *sequence.Allocator
	guard         *guard.Guard
	gate          *validate.Gate
	locker        Locker
	center        notify.MsgCenter
	now           func() time.Time
	registrations metric.Int64Counter
}

func New() sample.Service {
	conf := config.Global().Sample
	var locker Locker = noopLocker{}
	if client := redis.GetClient(); client != nil {
		locker = redis.NewLocker(client, conf.LockTTL)
	}
	return NewWith(Options{
		Repo:   sStore.New(),
		Conf:   conf,
		Locker: locker,
		Center: events.NewEvents(),
	})
}

func NewWith(opts Options) sample.Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	locker := opts.Locker
	if locker == nil {
		locker = noopLocker{}
	}
	scheme := identity.DefaultScheme()
	scheme.MicroCoreToken = utils.Or(opts.Conf.MicroCoreToken, scheme.MicroCoreToken)
	scheme.CuttingsToken = utils.Or(opts.Conf.CuttingsToken, scheme.CuttingsToken)

	counter, err := otel.Meter("github.com/scienceol/rockin/pkg/core/sample").Int64Counter(
		"rockin.sample.registrations",
		metric.WithDescription("sample registrations by kind and outcome"),
	)
	if err != nil {
		logger.Warnf(context.Background(), "create registrations counter err: %+v", err)
		counter, _ = noop.NewMeterProvider().Meter("").Int64Counter("rockin.sample.registrations")
	}

	return &sampleImpl{
		repo:          opts.Repo,
		conf:          opts.Conf,
		scheme:        scheme,
		allocator:     sequence.NewAllocator(opts.Repo).WithLimit(model.MaxCounter),
		guard:         guard.New(opts.Repo),
		gate:          validate.New(now),
		locker:        locker,
		center:        opts.Center,
		now:           now,
		registrations: counter,
	}
}

func unknownKind(kind sample.Kind) error {
	return code.UnknownSampleKindErr.WithMsg(string(kind))
}

func (s *sampleImpl) Register(ctx context.Context, req *sample.RegisterReq) (*sample.RegisterResp, error) {
	user := auth.GetCurrentUser(ctx)
	if user == nil {
		return nil, code.UnLogin
	}
	if req.Kind == sample.KindWell {
		return s.registerWell(ctx, user, req.Payload)
	}

	rc, err := s.register(ctx, newContext(req.Kind, user, req.Payload), req.Well)
	s.count(ctx, rc.Kind, err)
	if err != nil {
		var idErr *identity.Error
		if errors.As(err, &idErr) {
			logger.Errorf(ctx, "register %s in well %s identity err: %+v", rc.Kind, req.Well, err)
		}
		return nil, err
	}

	s.broadcast(ctx, rc.Well, user.ID, notify.Registered{
		Kind:     string(rc.Kind),
		UUID:     rc.Record.GetUUID(),
		Name:     rc.Name,
		Sequence: rc.Sequence,
	})
	return &sample.RegisterResp{
		Kind:     rc.Kind,
		ID:       rc.Record.GetID(),
		UUID:     rc.Record.GetUUID(),
		Name:     rc.Name,
		Sequence: rc.Sequence,
		Record:   rc.Record,
	}, nil
}

func (s *sampleImpl) register(ctx context.Context, rc RegistrationContext, wellRef string) (RegistrationContext, error) {
	spec, err := specFor(rc.Kind)
	if err != nil {
		return rc.rejected(err), err
	}

	rc, err = s.resolve(ctx, rc, wellRef)
	if errors.Is(err, errKeys) {
		err = s.payloadErrors(rc, spec)
	}
	if err != nil {
		return rc.rejected(err), err
	}

	scope := scopeOf(rc, spec, s.conf.SequenceScope)
	unlock, err := s.locker.Lock(ctx, scope.Key())
	if err != nil {
		return rc.rejected(err), err
	}
	// 事务提交后再释放
	defer unlock()

	err = s.repo.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		if rc, err = s.allocate(txCtx, rc, spec, scope); err != nil {
			return err
		}
		if rc, err = s.identify(rc); err != nil {
			return err
		}
		if rc, err = s.validate(rc, spec); err != nil {
			return err
		}
		if rc, err = s.check(txCtx, rc, spec); err != nil {
			return err
		}
		rc, err = s.persist(txCtx, rc, spec)
		return err
	})
	if err != nil {
		return rc.rejected(err), err
	}
	return rc, nil
}

func (s *sampleImpl) findWell(ctx context.Context, ref string) (*model.Well, error) {
	well, err := s.repo.GetWell(ctx, ref)
	if errors.Is(err, code.RecordNotFound) {
		return nil, &sample.NotFoundError{Code: code.WellNotFound, Field: "well", Value: ref}
	}
	return well, err
}

// peek reads the scope fields of rc without validating the rest of the payload.
func (s *sampleImpl) peek(rc RegistrationContext) (keys, bool) {
	var k keys
	switch rc.Kind {
	case sample.KindCore:
		cn, ok := s.gate.CoreNumber(rc.Payload)
		if !ok {
			return k, false
		}
		k.coreNumber = cn
		k.coreType = s.gate.Text(rc.Payload, "core_type")
	case sample.KindCoreChip:
		cn, ok := s.gate.CoreNumber(rc.Payload)
		if !ok {
			return k, false
		}
		section, ok, _ := s.gate.Counter(rc.Payload, "core_section_number")
		if !ok {
			return k, false
		}
		side := s.gate.Text(rc.Payload, "from_top_bottom")
		if side != model.FromTop && side != model.FromBottom {
			return k, false
		}
		k.coreNumber, k.section, k.fromTopBottom = cn, section, side
	}
	return k, true
}

func (s *sampleImpl) resolve(ctx context.Context, rc RegistrationContext, wellRef string) (RegistrationContext, error) {
	well, err := s.findWell(ctx, wellRef)
	if err != nil {
		return rc, err
	}
	short, err := identity.ShortName(well.WellName)
	if err != nil {
		return rc, err
	}
	k, ok := s.peek(rc)
	if !ok {
		return rc, errKeys
	}

	var parent *model.Core
	switch rc.Kind {
	case sample.KindCore:
		if k.coreType != model.CoreTypeCatcher {
			break
		}
		exists, err := s.repo.Exists(ctx, &model.Core{}, map[string]any{
			"well_id":     well.ID,
			"core_number": k.coreNumber,
			"core_type":   model.CoreTypeCore,
		})
		if err != nil {
			return rc, err
		}
		if !exists {
			return rc, &sample.NotFoundError{
				Code:  code.CoreNotFound,
				Field: "core_type",
				Value: k.coreType,
				Msg:   fmt.Sprintf("A core catcher needs a registered %s core section in this well.", k.coreNumber),
			}
		}
	case sample.KindCoreChip:
		parent = &model.Core{}
		found, err := s.repo.FindOne(ctx, parent, map[string]any{
			"well_id":             well.ID,
			"core_number":         k.coreNumber,
			"core_section_number": k.section,
		})
		if err != nil {
			return rc, err
		}
		if !found {
			return rc, &sample.NotFoundError{
				Code:  code.CoreNotFound,
				Field: "core_section_number",
				Value: fmt.Sprint(k.section),
				Msg:   fmt.Sprintf("Core section %s-%s-%d does not exist.", short, k.coreNumber, k.section),
			}
		}
	}
	return rc.resolved(well, short, k, parent), nil
}

func (s *sampleImpl) allocate(ctx context.Context, rc RegistrationContext, spec kindSpec, scope sequence.Scope) (RegistrationContext, error) {
	allocated, err := s.allocator.Next(ctx, scope)
	if err != nil {
		return rc, allocErr(spec, err)
	}
	n, ok, present := s.gate.Counter(rc.Payload, spec.counterField)
	if !present {
		return rc.sequenced(scope, allocated, allocated, false), nil
	}
	if !ok {
		return rc, s.payloadErrors(rc, spec)
	}
	return rc.sequenced(scope, n, allocated, true), nil
}

func allocErr(spec kindSpec, err error) error {
	if errors.Is(err, sequence.ErrExhausted) {
		return sample.FieldErrors{spec.counterField: {
			fmt.Sprintf("Every %s up to %d is taken in this scope.", spec.counterField, model.MaxCounter),
		}}
	}
	return code.SequenceAllocErr.WithErr(err)
}

func (s *sampleImpl) identify(rc RegistrationContext) (RegistrationContext, error) {
	name, err := nameOf(s.scheme, rc, rc.Sequence)
	if err != nil {
		return rc, err
	}
	return rc.identified(name), nil
}

func (s *sampleImpl) validate(rc RegistrationContext, spec kindSpec) (RegistrationContext, error) {
	payload := maps.Clone(rc.Payload)
	payload[spec.counterField] = rc.Sequence
	payload[spec.nameField] = rc.Name

	record, errs := s.gate.Validate(rc.Kind, payload)
	if errs != nil {
		return rc, errs
	}
	smp, ok := record.(model.Sample)
	if !ok {
		return rc, unknownKind(rc.Kind)
	}
	rc.Payload = payload
	return rc.validated(smp), nil
}

func (s *sampleImpl) target(rc RegistrationContext, spec kindSpec) guard.Target {
	return guard.Target{
		Table:        spec.table,
		NameField:    spec.nameField,
		Name:         rc.Name,
		CounterField: spec.counterField,
		Suggested:    rc.suggestion(),
	}
}

func (s *sampleImpl) check(ctx context.Context, rc RegistrationContext, spec kindSpec) (RegistrationContext, error) {
	if err := s.guard.EnsureUnique(ctx, s.target(rc, spec)); err != nil {
		return rc, err
	}
	return rc.checked(), nil
}

func (s *sampleImpl) persist(ctx context.Context, rc RegistrationContext, spec kindSpec) (RegistrationContext, error) {
	rec := rc.Record
	rec.SetWell(rc.Well.ID)
	meta := rec.Meta()
	meta.RegisteredBy = rc.User.ID
	meta.RegistrationDate = s.now().UTC()
	if chip, ok := rec.(*model.CoreChip); ok {
		chip.CoreID = rc.Parent.ID
	}

	if err := s.repo.CreateData(ctx, rec); err != nil {
		if errors.Is(err, code.DuplicateRecordErr) {
			return rc, guard.Conflict(s.target(rc, spec))
		}
		return rc, err
	}

	payload, err := json.Marshal(rc.Payload)
	if err != nil {
		return rc, code.CreateDataErr.WithErr(err)
	}
	event := &model.SampleEvent{
		WellID:     rc.Well.ID,
		Kind:       string(rc.Kind),
		SampleID:   rec.GetID(),
		SampleName: rc.Name,
		UserID:     rc.User.ID,
		Payload:    datatypes.JSON(payload),
	}
	if err := s.repo.CreateData(ctx, event); err != nil {
		return rc, err
	}
	return rc.persisted(), nil
}

// payloadErrors validates the raw payload when no name can be derived, derived fields are left out.
func (s *sampleImpl) payloadErrors(rc RegistrationContext, spec kindSpec) sample.FieldErrors {
	_, errs := s.gate.Validate(rc.Kind, rc.Payload)
	out := sample.FieldErrors{}
	out.Merge(errs)
	delete(out, spec.nameField)
	if _, _, present := s.gate.Counter(rc.Payload, spec.counterField); !present {
		delete(out, spec.counterField)
	}
	if len(out) == 0 {
		field := spec.nameField
		if fields := keyFields[rc.Kind]; len(fields) > 0 {
			field = fields[0]
		}
		out.Add(field, "The sample could not be identified.")
	}
	return out
}

// keyErrors keeps only the errors on the fields a proposal depends on.
func (s *sampleImpl) keyErrors(kind sample.Kind, known map[string]any) sample.FieldErrors {
	_, errs := s.gate.Validate(kind, known)
	out := sample.FieldErrors{}
	for _, field := range keyFields[kind] {
		if errs.Has(field) {
			out[field] = errs[field]
		}
	}
	if len(out) == 0 && len(keyFields[kind]) > 0 {
		out.Add(keyFields[kind][0], "This field is required.")
	}
	return out
}

func (s *sampleImpl) InitialContext(ctx context.Context, req *sample.InitialContextReq) (*sample.InitialContextResp, error) {
	spec, err := specFor(req.Kind)
	if err != nil {
		return nil, err
	}
	rc, err := s.resolve(ctx, newContext(req.Kind, auth.GetCurrentUser(ctx), req.Known), req.Well)
	if errors.Is(err, errKeys) {
		return nil, s.keyErrors(req.Kind, req.Known)
	}
	if err != nil {
		return nil, err
	}

	n, err := s.allocator.Next(ctx, scopeOf(rc, spec, s.conf.SequenceScope))
	if err != nil {
		return nil, allocErr(spec, err)
	}
	name, err := nameOf(s.scheme, rc, n)
	if err != nil {
		logger.Errorf(ctx, "propose %s identity in well %s err: %+v", req.Kind, req.Well, err)
		return nil, err
	}
	return &sample.InitialContextResp{
		ProposedSequence:           n,
		ProposedIdentity:           name,
		CollectionTimestampDefault: s.now().UTC(),
	}, nil
}

func (s *sampleImpl) registerWell(ctx context.Context, user *model.UserData, payload map[string]any) (*sample.RegisterResp, error) {
	well, errs := s.gate.Well(payload)
	if errs != nil {
		s.count(ctx, sample.KindWell, errs)
		return nil, errs
	}
	well.RegisteredBy = user.ID

	target := guard.Target{Table: &model.Well{}, NameField: "well_name", Name: well.WellName}
	conflict := guard.Conflict(target)
	conflict.Code = code.WellAlreadyExistErr
	conflict.Msg = code.WellAlreadyExistErr.String()

	err := s.repo.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.guard.EnsureUnique(txCtx, target); err != nil {
			var c *sample.ConflictError
			if errors.As(err, &c) {
				return conflict
			}
			return err
		}
		// "Test Well" and "TestWell" would share every sample name
		taken, err := s.repo.Exists(txCtx, &model.Well{}, map[string]any{"short_name": well.ShortName})
		if err != nil {
			return err
		}
		if taken {
			return &sample.ConflictError{
				Code:  code.WellAlreadyExistErr,
				Field: "well_name",
				Name:  well.WellName,
				Msg:   fmt.Sprintf("A well with short name %s already exists.", well.ShortName),
			}
		}
		if err := s.repo.CreateData(txCtx, well); err != nil {
			if errors.Is(err, code.DuplicateRecordErr) {
				return conflict
			}
			return err
		}
		return nil
	})
	s.count(ctx, sample.KindWell, err)
	if err != nil {
		return nil, err
	}

	s.broadcast(ctx, well, user.ID, notify.Registered{
		Kind: string(sample.KindWell),
		UUID: well.UUID,
		Name: well.WellName,
	})
	return &sample.RegisterResp{
		Kind:   sample.KindWell,
		ID:     well.ID,
		UUID:   well.UUID,
		Name:   well.WellName,
		Record: wellResp(well),
	}, nil
}

func wellResp(w *model.Well) *sample.WellResp {
	short := w.ShortName
	if short == "" {
		short, _ = identity.ShortName(w.WellName)
	}
	return &sample.WellResp{
		ID:           w.ID,
		UUID:         w.UUID,
		WellName:     w.WellName,
		ShortName:    short,
		RegisteredBy: w.RegisteredBy,
		CreatedAt:    w.CreatedAt,
	}
}

func (s *sampleImpl) GetWell(ctx context.Context, ref string) (*sample.WellResp, error) {
	well, err := s.findWell(ctx, ref)
	if err != nil {
		return nil, err
	}
	return wellResp(well), nil
}

func (s *sampleImpl) ListWells(ctx context.Context, req *sample.WellListReq) (*common.PageResp[*sample.WellResp], error) {
	req.Normalize()
	wells, total, err := s.repo.ListWells(ctx, &repo.WellQuery{
		NameLike: req.Name,
		Offset:   req.Offset(),
		Limit:    req.PageSize,
	})
	if err != nil {
		return nil, err
	}
	return &common.PageResp[*sample.WellResp]{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Data: utils.FilterSlice(wells, func(w *model.Well) (*sample.WellResp, bool) {
			return wellResp(w), true
		}),
	}, nil
}

func (s *sampleImpl) ListSamples(ctx context.Context, req *sample.SampleListReq) (*sample.SampleListResp, error) {
	spec, err := specFor(req.Kind)
	if err != nil {
		return nil, err
	}
	well, err := s.findWell(ctx, req.Well)
	if err != nil {
		return nil, err
	}
	req.Normalize()
	out := spec.newSlice()
	total, err := s.repo.ListSamples(ctx, &repo.SampleQuery{
		Table:  spec.table,
		WellID: well.ID,
		Offset: req.Offset(),
		Limit:  req.PageSize,
	}, out)
	if err != nil {
		return nil, err
	}
	return &sample.SampleListResp{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Data:     out,
	}, nil
}

func (s *sampleImpl) broadcast(ctx context.Context, well *model.Well, userID string, data notify.Registered) {
	if s.center == nil || well == nil {
		return
	}
	if err := s.center.Broadcast(ctx, &notify.SendMsg{
		Channel:  notify.SampleRegistered,
		WellUUID: well.UUID,
		UserID:   userID,
		Data:     data,
	}); err != nil {
		logger.Warnf(ctx, "broadcast registration %s err: %+v", data.Name, err)
	}
}

func outcome(err error) string {
	var (
		fieldErrs sample.FieldErrors
		conflict  *sample.ConflictError
		notFound  *sample.NotFoundError
		idErr     *identity.Error
	)
	switch {
	case err == nil:
		return Persisted.String()
	case errors.As(err, &fieldErrs):
		return "invalid"
	case errors.As(err, &conflict):
		return "conflict"
	case errors.As(err, &notFound):
		return "not_found"
	case errors.As(err, &idErr):
		return "identity"
	default:
		return "error"
	}
}

func (s *sampleImpl) count(ctx context.Context, kind sample.Kind, err error) {
	s.registrations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", string(kind)),
		attribute.String("outcome", outcome(err)),
	))
}
