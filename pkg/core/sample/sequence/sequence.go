package sequence

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"gorm.io/gorm/schema"
)

// Scope selects the rows a counter is computed over.
type Scope struct {
	Table schema.Tabler
	Field string
	Conds map[string]any
}

// Key is stable for equal scopes and used to serialize allocations.
func (s Scope) Key() string {
	keys := make([]string, 0, len(s.Conds))
	for k := range s.Conds {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(s.Table.TableName())
	b.WriteString(":")
	b.WriteString(s.Field)
	for _, k := range keys {
		fmt.Fprintf(&b, ":%s=%v", k, s.Conds[k])
	}
	return b.String()
}

type Store interface {
	FindMax(ctx context.Context, tableModel schema.Tabler, field string, conds map[string]any) (int64, bool, error)
}

// ErrExhausted means the scope already holds the largest allowed counter.
var ErrExhausted = errors.New("sequence exhausted")

type Allocator struct {
	store Store
	limit int64
}

func NewAllocator(store Store) *Allocator {
	return &Allocator{store: store, limit: math.MaxInt64}
}

// WithLimit caps the values Next may hand out.
func (a *Allocator) WithLimit(limit int64) *Allocator {
	if limit > 0 {
		a.limit = limit
	}
	return a
}

// Next returns max(field)+1 within scope, or 1 for an empty scope.
func (a *Allocator) Next(ctx context.Context, scope Scope) (int64, error) {
	max, ok, err := a.store.FindMax(ctx, scope.Table, scope.Field, scope.Conds)
	if err != nil {
		return 0, err
	}
	if !ok || max < 0 {
		return 1, nil
	}
	if max >= a.limit {
		return 0, fmt.Errorf("%w: %s reached %d", ErrExhausted, scope.Key(), a.limit)
	}
	return max + 1, nil
}
