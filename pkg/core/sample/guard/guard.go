package guard

import (
	"context"

	"github.com/scienceol/rockin/pkg/common/code"
	"github.com/scienceol/rockin/pkg/core/sample"
	"gorm.io/gorm/schema"
)

type Store interface {
	Exists(ctx context.Context, tableModel schema.Tabler, conds map[string]any) (bool, error)
}

// Target names the canonical column being checked and the counter that feeds it.
type Target struct {
	Table        schema.Tabler
	NameField    string
	Name         string
	CounterField string
	Suggested    int64
}

type Guard struct {
	store Store
}

func New(store Store) *Guard {
	return &Guard{store: store}
}

// EnsureUnique returns a *sample.ConflictError when t.Name is taken, storage errors pass through.
func (g *Guard) EnsureUnique(ctx context.Context, t Target) error {
	exists, err := g.store.Exists(ctx, t.Table, map[string]any{t.NameField: t.Name})
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	return Conflict(t)
}

func Conflict(t Target) *sample.ConflictError {
	return &sample.ConflictError{
		Code:         code.SampleNameConflictErr,
		Field:        t.NameField,
		Name:         t.Name,
		CounterField: t.CounterField,
		Suggested:    t.Suggested,
	}
}
