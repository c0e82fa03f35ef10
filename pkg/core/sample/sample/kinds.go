package sample

import (
	"github.com/scienceol/rockin/internal/config"
	"github.com/scienceol/rockin/pkg/core/sample"
	"github.com/scienceol/rockin/pkg/core/sample/identity"
	"github.com/scienceol/rockin/pkg/core/sample/sequence"
	"github.com/scienceol/rockin/pkg/repo/model"
	"gorm.io/gorm/schema"
)

// kindSpec is the per kind wiring of table, canonical name and counter.
type kindSpec struct {
	kind         sample.Kind
	table        schema.Tabler
	nameField    string
	counterField string
	// newSlice returns a pointer to an empty slice of the kind's model for listing.
	newSlice func() any
}

var specs = map[sample.Kind]kindSpec{
	sample.KindCore: {
		kind:         sample.KindCore,
		table:        &model.Core{},
		nameField:    "core_section_name",
		counterField: "core_section_number",
		newSlice:     func() any { return &[]*model.Core{} },
	},
	sample.KindCoreChip: {
		kind:         sample.KindCoreChip,
		table:        &model.CoreChip{},
		nameField:    "corechip_name",
		counterField: "corechip_number",
		newSlice:     func() any { return &[]*model.CoreChip{} },
	},
	sample.KindMicroCore: {
		kind:         sample.KindMicroCore,
		table:        &model.MicroCore{},
		nameField:    "micro_core_name",
		counterField: "micro_core_number",
		newSlice:     func() any { return &[]*model.MicroCore{} },
	},
	sample.KindCuttings: {
		kind:         sample.KindCuttings,
		table:        &model.Cuttings{},
		nameField:    "cuttings_name",
		counterField: "cuttings_number",
		newSlice:     func() any { return &[]*model.Cuttings{} },
	},
}

func specFor(kind sample.Kind) (kindSpec, error) {
	spec, ok := specs[kind]
	if !ok {
		return kindSpec{}, unknownKind(kind)
	}
	return spec, nil
}

// scopeOf returns the rows the counter of rc is computed over.
func scopeOf(rc RegistrationContext, spec kindSpec, mode config.SequenceScope) sequence.Scope {
	scope := sequence.Scope{Table: spec.table, Field: spec.counterField, Conds: map[string]any{}}
	switch rc.Kind {
	case sample.KindCore:
		scope.Conds["core_number"] = rc.keys.coreNumber
		if mode != config.ScopeGlobal {
			scope.Conds["well_id"] = rc.Well.ID
		}
	case sample.KindCoreChip:
		scope.Conds["core_id"] = rc.Parent.ID
	default:
		scope.Conds["well_id"] = rc.Well.ID
	}
	return scope
}

func nameOf(scheme identity.Scheme, rc RegistrationContext, n int64) (string, error) {
	switch rc.Kind {
	case sample.KindCore:
		return scheme.CoreSection(rc.Short, rc.keys.coreNumber, n)
	case sample.KindCoreChip:
		return scheme.CoreChip(rc.Short, rc.keys.coreNumber, rc.keys.section, n, rc.keys.fromTopBottom)
	case sample.KindMicroCore:
		return scheme.MicroCore(rc.Short, n)
	case sample.KindCuttings:
		return scheme.Cuttings(rc.Short, n)
	default:
		return "", unknownKind(rc.Kind)
	}
}
