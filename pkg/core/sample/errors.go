package sample

import (
	"fmt"
	"sort"
	"strings"

	"github.com/scienceol/rockin/pkg/common/code"
)

// FieldErrors maps a payload field to every message raised against it.
type FieldErrors map[string][]string

func (f FieldErrors) Add(field string, msg string) {
	f[field] = append(f[field], msg)
}

func (f FieldErrors) Has(field string) bool {
	return len(f[field]) > 0
}

func (f FieldErrors) Merge(o FieldErrors) {
	for field, msgs := range o {
		f[field] = append(f[field], msgs...)
	}
}

func (f FieldErrors) Fields() []string {
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

func (f FieldErrors) Error() string {
	parts := make([]string, 0, len(f))
	for _, field := range f.Fields() {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(f[field], " ")))
	}
	return strings.Join(parts, "; ")
}

func (f FieldErrors) Unwrap() error {
	return code.SampleValidateErr
}

func (f FieldErrors) FieldMessages() map[string][]string {
	return f
}

// ConflictError reports a canonical name that is already taken.
type ConflictError struct {
	Code  code.ErrCode
	Field string
	Name  string
	// CounterField and Suggested are empty for kinds without a counter.
	CounterField string
	Suggested    int64
	Msg          string
}

func (c *ConflictError) Error() string {
	if c.Msg != "" {
		return c.Msg
	}
	if c.CounterField == "" {
		return fmt.Sprintf("%s %q already exists.", c.Field, c.Name)
	}
	return fmt.Sprintf("%s %q already exists, the next available %s is %d.", c.Field, c.Name, c.CounterField, c.Suggested)
}

func (c *ConflictError) Unwrap() error {
	return c.Code
}

func (c *ConflictError) FieldMessages() map[string][]string {
	return map[string][]string{c.Field: {c.Error()}}
}

// NotFoundError reports a missing parent entity against the field that referenced it.
type NotFoundError struct {
	Code  code.ErrCode
	Field string
	Value string
	Msg   string
}

func (n *NotFoundError) Error() string {
	if n.Msg != "" {
		return n.Msg
	}
	return fmt.Sprintf("%s %q does not exist.", n.Field, n.Value)
}

func (n *NotFoundError) Unwrap() error {
	return n.Code
}

func (n *NotFoundError) FieldMessages() map[string][]string {
	return map[string][]string{n.Field: {n.Error()}}
}
