package sample

import (
	"maps"

	"github.com/scienceol/rockin/pkg/core/sample"
	"github.com/scienceol/rockin/pkg/core/sample/sequence"
	"github.com/scienceol/rockin/pkg/repo/model"
)

type Stage int

const (
	Initialized Stage = iota
	ContextResolved
	SequenceComputed
	IdentityComputed
	Validated
	UniquenessChecked
	Persisted
	Rejected
)

var stageNames = [...]string{
	Initialized:       "initialized",
	ContextResolved:   "context_resolved",
	SequenceComputed:  "sequence_computed",
	IdentityComputed:  "identity_computed",
	Validated:         "validated",
	UniquenessChecked: "uniqueness_checked",
	Persisted:         "persisted",
	Rejected:          "rejected",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// keys are the payload fields a kind needs before a sequence or a name can be computed.
type keys struct {
	coreNumber    string
	section       int64
	coreType      string
	fromTopBottom string
}

// RegistrationContext is the state of one submission. Every transition returns a new value.
type RegistrationContext struct {
	Stage   Stage
	Kind    sample.Kind
	User    *model.UserData
	Payload map[string]any

	Well   *model.Well
	Short  string
	Parent *model.Core
	keys   keys

	Scope sequence.Scope
	// Sequence is the counter used for the name, Allocated is max+1 in scope.
	Sequence  int64
	Allocated int64
	Explicit  bool

	Name   string
	Record model.Sample
	Err    error
}

func newContext(kind sample.Kind, user *model.UserData, payload map[string]any) RegistrationContext {
	p := make(map[string]any, len(payload)+2)
	maps.Copy(p, payload)
	return RegistrationContext{Stage: Initialized, Kind: kind, User: user, Payload: p}
}

func (rc RegistrationContext) resolved(well *model.Well, short string, k keys, parent *model.Core) RegistrationContext {
	rc.Stage = ContextResolved
	rc.Well = well
	rc.Short = short
	rc.keys = k
	rc.Parent = parent
	return rc
}

func (rc RegistrationContext) sequenced(scope sequence.Scope, seq, allocated int64, explicit bool) RegistrationContext {
	rc.Stage = SequenceComputed
	rc.Scope = scope
	rc.Sequence = seq
	rc.Allocated = allocated
	rc.Explicit = explicit
	return rc
}

func (rc RegistrationContext) identified(name string) RegistrationContext {
	rc.Stage = IdentityComputed
	rc.Name = name
	return rc
}

func (rc RegistrationContext) validated(record model.Sample) RegistrationContext {
	rc.Stage = Validated
	rc.Record = record
	return rc
}

func (rc RegistrationContext) checked() RegistrationContext {
	rc.Stage = UniquenessChecked
	return rc
}

func (rc RegistrationContext) persisted() RegistrationContext {
	rc.Stage = Persisted
	return rc
}

func (rc RegistrationContext) rejected(err error) RegistrationContext {
	rc.Stage = Rejected
	rc.Err = err
	return rc
}

// suggestion is the counter offered back on a name conflict.
func (rc RegistrationContext) suggestion() int64 {
	if rc.Explicit && rc.Sequence != rc.Allocated {
		return rc.Allocated
	}
	return rc.Sequence + 1
}
