package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOr(t *testing.T) {
	assert.Equal(t, "b", Or("", "b", "c"))
	assert.Equal(t, "", Or("", ""))
	assert.Equal(t, 3, Or(0, 3))
}

func TestFilterSlice(t *testing.T) {
	out := FilterSlice([]int{1, 2, 3, 4}, func(i int) (string, bool) {
		return string(rune('a' + i)), i%2 == 0
	})
	assert.Equal(t, []string{"c", "e"}, out)
}

func TestSafeValue(t *testing.T) {
	var m map[string]*int
	v := SafeValue(func() int { return *m["x"] }, 7)
	assert.Equal(t, 7, v)
}

func TestSafelyRunRecoversPanic(t *testing.T) {
	err := SafelyRun(func() { panic("boom") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestSafelyGoReportsPanic(t *testing.T) {
	done := make(chan error, 1)
	SafelyGo(func() { panic(errors.New("bad")) }, func(err error) { done <- err })
	select {
	case err := <-done:
		assert.Contains(t, err.Error(), "bad")
	case <-time.After(time.Second):
		t.Fatal("panic was not reported")
	}
}
