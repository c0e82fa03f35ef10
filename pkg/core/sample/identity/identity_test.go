package identity

import (
	"testing"

	"github.com/scienceol/rockin/pkg/common/code"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortName(t *testing.T) {
	cases := map[string]string{
		"DEL-GT-01":       "DELGT01",
		"DEL GT 01":       "DELGT01",
		"Test Well":       "TestWell",
		" DEL --  GT\t01": "DELGT01",
		"TestWell":        "TestWell",
	}
	for in, want := range cases {
		got, err := ShortName(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestShortNameEmpty(t *testing.T) {
	for _, in := range []string{"", "   ", "- - -"} {
		_, err := ShortName(in)
		assert.ErrorIs(t, err, ErrEmptyShortName, in)
		assert.ErrorIs(t, err, code.SampleIdentityErr, in)
	}
}

func TestSchemeNames(t *testing.T) {
	s := DefaultScheme()

	name, err := s.CoreSection("TestWell", "C1", 1)
	require.NoError(t, err)
	assert.Equal(t, "TestWell-C1-1", name)

	name, err = s.CoreChip("DELGT01", "C1", 53, 2, "Top")
	require.NoError(t, err)
	assert.Equal(t, "DELGT01-C1-53-2-Top", name)

	name, err = s.MicroCore("TestWell", 1)
	require.NoError(t, err)
	assert.Equal(t, "TestWell-MC-1", name)

	name, err = s.Cuttings("TestWell", 12)
	require.NoError(t, err)
	assert.Equal(t, "TestWell-CUT-12", name)
}

func TestSchemeCustomTokens(t *testing.T) {
	s := Scheme{MicroCoreToken: "MCR", CuttingsToken: "CT"}
	name, err := s.Cuttings("W1", 3)
	require.NoError(t, err)
	assert.Equal(t, "W1-CT-3", name)

	name, err = s.MicroCore("W1", 3)
	require.NoError(t, err)
	assert.Equal(t, "W1-MCR-3", name)
}

func TestSchemeDeterministic(t *testing.T) {
	s := DefaultScheme()
	for n := int64(1); n <= 50; n++ {
		a, errA := s.CoreSection("DELGT01", "C4", n)
		b, errB := s.CoreSection("DELGT01", "C4", n)
		require.NoError(t, errA)
		require.NoError(t, errB)
		assert.Equal(t, a, b)
	}
}

func TestSchemeRejectsEmptyShortName(t *testing.T) {
	s := DefaultScheme()
	_, err := s.CoreSection("", "C1", 1)
	assert.ErrorIs(t, err, ErrEmptyShortName)
	_, err = s.CoreChip(" ", "C1", 1, 1, "Top")
	assert.ErrorIs(t, err, ErrEmptyShortName)
	_, err = s.MicroCore("", 1)
	assert.ErrorIs(t, err, ErrEmptyShortName)
	_, err = s.Cuttings("", 1)
	assert.ErrorIs(t, err, ErrEmptyShortName)
}
