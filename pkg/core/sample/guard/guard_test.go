package guard

import (
	"context"
	"errors"
	"testing"

	"github.com/scienceol/rockin/pkg/common/code"
	"github.com/scienceol/rockin/pkg/core/sample"
	"github.com/scienceol/rockin/pkg/repo/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

type fakeStore struct {
	taken map[string]bool
	err   error
}

func (f *fakeStore) Exists(_ context.Context, _ schema.Tabler, conds map[string]any) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, v := range conds {
		if f.taken[v.(string)] {
			return true, nil
		}
	}
	return false, nil
}

func TestEnsureUniqueFree(t *testing.T) {
	g := New(&fakeStore{taken: map[string]bool{}})
	err := g.EnsureUnique(context.Background(), Target{Table: &model.Core{}, NameField: "core_section_name", Name: "TestWell-C1-1"})
	assert.NoError(t, err)
}

func TestEnsureUniqueConflict(t *testing.T) {
	g := New(&fakeStore{taken: map[string]bool{"TestWell-C1-1": true}})
	err := g.EnsureUnique(context.Background(), Target{
		Table:        &model.Core{},
		NameField:    "core_section_name",
		Name:         "TestWell-C1-1",
		CounterField: "core_section_number",
		Suggested:    3,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, code.SampleNameConflictErr)

	var conflict *sample.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "core_section_name", conflict.Field)
	assert.EqualValues(t, 3, conflict.Suggested)
	assert.Contains(t, conflict.Error(), "next available core_section_number is 3")
	assert.Contains(t, conflict.FieldMessages(), "core_section_name")
}

func TestEnsureUniqueStorageError(t *testing.T) {
	boom := errors.New("connection reset")
	err := New(&fakeStore{err: boom}).EnsureUnique(context.Background(), Target{Table: &model.Core{}, NameField: "core_section_name", Name: "x"})
	assert.ErrorIs(t, err, boom)
}
