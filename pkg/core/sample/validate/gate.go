package validate

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/scienceol/rockin/pkg/core/sample"
	"github.com/scienceol/rockin/pkg/core/sample/identity"
	"github.com/scienceol/rockin/pkg/repo/model"
)

var enums = map[string][]string{
	"core_number":       model.CoreNumbers,
	"core_type":         model.CoreTypes,
	"from_top_bottom":   model.FromTopBottoms,
	"sample_state":      model.SampleStates,
	"drilling_mud":      model.DrillingMuds,
	"coring_method":     model.CoringMethods,
	"drilling_method":   model.DrillingMethods,
	"core_status":       model.CoreStatuses,
	"preservation":      model.Preservations,
	"collection_method": model.CollectionMethods,
}

// Gate turns loosely typed payloads into typed records. It never touches storage.
type Gate struct {
	validate *validator.Validate
	now      func() time.Time
}

func New(now func() time.Time) *Gate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
		return slices.Contains(enums[fl.Param()], fl.Field().String())
	})
	if now == nil {
		now = time.Now
	}
	return &Gate{validate: v, now: now}
}

// Validate dispatches to the schema of kind.
func (g *Gate) Validate(kind sample.Kind, payload map[string]any) (any, sample.FieldErrors) {
	switch kind {
	case sample.KindWell:
		return g.Well(payload)
	case sample.KindCore:
		return g.Core(payload)
	case sample.KindCoreChip:
		return g.CoreChip(payload)
	case sample.KindMicroCore:
		return g.MicroCore(payload)
	case sample.KindCuttings:
		return g.Cuttings(payload)
	default:
		return nil, sample.FieldErrors{"kind": {fmt.Sprintf("Unknown sample kind %q.", kind)}}
	}
}

// CoreNumber reads core_number when it is present and valid.
func (g *Gate) CoreNumber(payload map[string]any) (string, bool) {
	r := newReader(payload)
	v := r.String("core_number", true)
	if v == nil || !slices.Contains(model.CoreNumbers, *v) {
		return "", false
	}
	return *v, true
}

// Counter reads an integer field in [1, model.MaxCounter]. present reports whether the client sent it at all.
func (g *Gate) Counter(payload map[string]any, field string) (n int64, ok bool, present bool) {
	r := newReader(payload)
	if _, present = r.raw(field); !present {
		return 0, false, false
	}
	v := r.Int(field, true)
	if v == nil || *v < 1 || *v > model.MaxCounter {
		return 0, false, true
	}
	return *v, true, true
}

// Text reads a trimmed string field, empty when absent or malformed.
func (g *Gate) Text(payload map[string]any, field string) string {
	r := newReader(payload)
	if v := r.String(field, false); v != nil {
		return *v
	}
	return ""
}

func (g *Gate) Well(payload map[string]any) (*model.Well, sample.FieldErrors) {
	r := newReader(payload)
	well := &model.Well{}
	if name := r.String("well_name", true); name != nil {
		well.WellName = *name
		short, err := identity.ShortName(*name)
		if err != nil {
			r.errs.Add("well_name", "Well name must contain at least one letter or digit.")
		}
		well.ShortName = short
	}
	return well, g.finish(well, r.errs)
}

func (g *Gate) meta(r *reader) model.RegistrationMeta {
	meta := model.RegistrationMeta{
		DrillingMud: r.String("drilling_mud", false),
		Lithology:   r.String("lithology", false),
	}
	if remarks := r.String("remarks", false); remarks != nil {
		meta.Remarks = *remarks
	}
	if collected := r.Time("collection_date", false); collected != nil {
		meta.CollectionDate = *collected
	} else {
		meta.CollectionDate = g.now().UTC()
	}
	return meta
}

func (g *Gate) Core(payload map[string]any) (*model.Core, sample.FieldErrors) {
	r := newReader(payload)
	core := &model.Core{
		RegistrationMeta:  g.meta(r),
		BottomDepth:       r.Float("bottom_depth", false),
		CoreSectionLength: r.Float("core_section_length", false),
		CoreRecovery:      r.Float("core_recovery", false),
		CoreDiameter:      r.Float("core_diameter", false),
		CoringMethod:      r.String("coring_method", false),
		Coreliner:         r.String("coreliner", false),
		Formation:         r.String("formation", false),
		CoreStatus:        r.String("core_status", false),
		Preservation:      r.String("preservation", false),
		CoreWeight:        r.Float("core_weight", false),
		CTScanned:         r.Bool("ct_scanned"),
		GammaRay:          r.Bool("gamma_ray"),
		Radiation:         r.Float("radiation", false),
	}
	if v := r.String("core_number", true); v != nil {
		core.CoreNumber = *v
	}
	if v := r.String("planned_core_number", false); v != nil {
		core.PlannedCoreNumber = *v
	} else if slices.Contains(model.CoreNumbers, core.CoreNumber) {
		core.PlannedCoreNumber = core.CoreNumber
	}
	if v := r.Int("core_section_number", true); v != nil {
		core.CoreSectionNumber = *v
	}
	if v := r.String("core_section_name", true); v != nil {
		core.CoreSectionName = *v
	}
	if v := r.String("core_type", true); v != nil {
		core.CoreType = *v
	}
	if v := r.Float("top_depth", true); v != nil {
		core.TopDepth = *v
		if core.BottomDepth != nil && *core.BottomDepth < *v {
			r.errs.Add("bottom_depth", "Bottom depth must not be shallower than top depth.")
		}
	}
	return core, g.finish(core, r.errs)
}

func (g *Gate) CoreChip(payload map[string]any) (*model.CoreChip, sample.FieldErrors) {
	r := newReader(payload)
	chip := &model.CoreChip{
		RegistrationMeta: g.meta(r),
		Debris:           r.Bool("debris"),
		Formation:        r.String("formation", false),
	}
	if v := r.String("core_number", true); v != nil {
		chip.CoreNumber = *v
	}
	if v := r.Int("core_section_number", true); v != nil {
		chip.CoreSectionNumber = *v
	}
	if v := r.Int("corechip_number", true); v != nil {
		chip.CoreChipNumber = *v
	}
	if v := r.String("from_top_bottom", true); v != nil {
		chip.FromTopBottom = *v
	}
	if v := r.String("corechip_name", true); v != nil {
		chip.CoreChipName = *v
	}
	if v := r.Float("core_chip_depth", true); v != nil {
		chip.CoreChipDepth = *v
	}
	// a chip record always carries its own lithology and remarks
	if chip.Lithology == nil && !r.errs.Has("lithology") {
		r.missing("lithology", true)
	}
	if chip.Remarks == "" && !r.errs.Has("remarks") {
		r.missing("remarks", true)
	}
	return chip, g.finish(chip, r.errs)
}

func (g *Gate) MicroCore(payload map[string]any) (*model.MicroCore, sample.FieldErrors) {
	r := newReader(payload)
	mc := &model.MicroCore{
		RegistrationMeta: g.meta(r),
		DrillingMethod:   r.String("drilling_method", false),
		DrillingBit:      r.String("drilling_bit", false),
	}
	if v := r.Int("micro_core_number", true); v != nil {
		mc.MicroCoreNumber = *v
	}
	if v := r.String("micro_core_name", true); v != nil {
		mc.MicroCoreName = *v
	}
	return mc, g.finish(mc, r.errs)
}

func (g *Gate) Cuttings(payload map[string]any) (*model.Cuttings, sample.FieldErrors) {
	r := newReader(payload)
	c := &model.Cuttings{
		RegistrationMeta: g.meta(r),
		CollectionMethod: r.String("collection_method", false),
		DrillingMethod:   r.String("drilling_method", false),
		SampleWeight:     r.Float("sample_weight", false),
		DriedSample:      r.Bool("dried_sample"),
		DriedBy:          r.String("dried_by", false),
		DriedDate:        r.Time("dried_date", false),
	}
	if v := r.Int("cuttings_number", true); v != nil {
		c.CuttingsNumber = *v
	}
	if v := r.String("cuttings_name", true); v != nil {
		c.CuttingsName = *v
	}
	if v := r.Float("cuttings_depth", true); v != nil {
		c.CuttingsDepth = *v
	}
	if v := r.String("sample_state", true); v != nil {
		c.SampleState = *v
	}
	return c, g.finish(c, r.errs)
}

// finish runs the struct rules, skipping fields that already failed coercion.
func (g *Gate) finish(record any, errs sample.FieldErrors) sample.FieldErrors {
	if err := g.validate.Struct(record); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			errs.Add("__all__", err.Error())
			return errs
		}
		coerced := make(map[string]bool, len(errs))
		for field := range errs {
			coerced[field] = true
		}
		for _, fe := range verrs {
			if coerced[fe.Field()] {
				continue
			}
			errs.Add(fe.Field(), message(fe))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "lte":
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "enum":
		return fmt.Sprintf("Select a valid choice. %v is not one of the available choices.", fe.Value())
	default:
		return "Enter a valid value."
	}
}
