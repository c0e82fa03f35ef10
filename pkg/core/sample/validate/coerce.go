package validate

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/scienceol/rockin/pkg/core/sample"
	"github.com/spf13/cast"
)

const (
	msgRequired = "This field is required."
	msgNumber   = "Enter a number."
	msgInteger  = "Enter a whole number."
	msgBool     = "Enter a valid boolean."
	msgDateTime = "Enter a valid date/time."
	msgText     = "Enter a valid text value."
)

var localLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// reader coerces payload values and records every failure instead of stopping at the first.
type reader struct {
	payload map[string]any
	errs    sample.FieldErrors
}

func newReader(payload map[string]any) *reader {
	return &reader{payload: payload, errs: sample.FieldErrors{}}
}

// raw returns the value for field, treating nil and blank strings as absent.
func (r *reader) raw(field string) (any, bool) {
	v, ok := r.payload[field]
	if !ok || v == nil {
		return nil, false
	}
	if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
		return nil, false
	}
	return v, true
}

func (r *reader) missing(field string, required bool) {
	if required {
		r.errs.Add(field, msgRequired)
	}
}

func (r *reader) String(field string, required bool) *string {
	v, ok := r.raw(field)
	if !ok {
		r.missing(field, required)
		return nil
	}
	s, err := toString(v)
	if err != nil {
		r.errs.Add(field, msgText)
		return nil
	}
	return &s
}

func (r *reader) Float(field string, required bool) *float64 {
	v, ok := r.raw(field)
	if !ok {
		r.missing(field, required)
		return nil
	}
	f, err := toFloat(v)
	if err != nil {
		r.errs.Add(field, msgNumber)
		return nil
	}
	return &f
}

func (r *reader) Int(field string, required bool) *int64 {
	v, ok := r.raw(field)
	if !ok {
		r.missing(field, required)
		return nil
	}
	n, err := toInt(v)
	if err != nil {
		r.errs.Add(field, msgInteger)
		return nil
	}
	return &n
}

func (r *reader) Bool(field string) *bool {
	v, ok := r.raw(field)
	if !ok {
		return nil
	}
	b, err := toBool(v)
	if err != nil {
		r.errs.Add(field, msgBool)
		return nil
	}
	return &b
}

func (r *reader) Time(field string, required bool) *time.Time {
	v, ok := r.raw(field)
	if !ok {
		r.missing(field, required)
		return nil
	}
	t, err := toTime(v)
	if err != nil {
		r.errs.Add(field, msgDateTime)
		return nil
	}
	return &t
}

func toString(v any) (string, error) {
	switch v.(type) {
	case map[string]any, []any:
		return "", fmt.Errorf("unexpected %T", v)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

func toFloat(v any) (float64, error) {
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	if _, ok := v.(bool); ok {
		return 0, fmt.Errorf("unexpected bool")
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return f, nil
}

func toInt(v any) (int64, error) {
	switch t := v.(type) {
	case string:
		return strconv.ParseInt(strings.TrimSpace(t), 10, 64)
	case bool:
		return 0, fmt.Errorf("unexpected bool")
	case float32, float64:
		f := cast.ToFloat64(t)
		if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, fmt.Errorf("not a whole number")
		}
		if f >= math.MaxInt64 || f < math.MinInt64 {
			return 0, fmt.Errorf("out of range")
		}
		return int64(f), nil
	}
	return cast.ToInt64E(v)
}

func toBool(v any) (bool, error) {
	if s, ok := v.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "on", "yes", "y":
			return true, nil
		case "off", "no", "n":
			return false, nil
		}
	}
	return cast.ToBoolE(v)
}

func toTime(v any) (time.Time, error) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		for _, layout := range localLayouts {
			if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
				return t, nil
			}
		}
		v = s
	}
	t, err := cast.ToTimeInDefaultLocationE(v, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
