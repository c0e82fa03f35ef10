// Package identity builds canonical sample names. Every function is pure.
package identity

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/scienceol/rockin/pkg/common/code"
)

const sep = "-"

type Error struct {
	Reason string
}

func (e *Error) Error() string {
	return "identity: " + e.Reason
}

func (e *Error) Unwrap() error {
	return code.SampleIdentityErr
}

var ErrEmptyShortName = &Error{Reason: "well short name is empty"}

// ShortName drops every run of hyphens and whitespace: "DEL-GT-01" and "DEL GT 01" both give "DELGT01".
func ShortName(wellName string) (string, error) {
	segments := strings.FieldsFunc(wellName, func(r rune) bool {
		return r == '-' || unicode.IsSpace(r)
	})
	short := strings.Join(segments, "")
	if short == "" {
		return "", ErrEmptyShortName
	}
	return short, nil
}

type Scheme struct {
	MicroCoreToken string
	CuttingsToken  string
}

func DefaultScheme() Scheme {
	return Scheme{MicroCoreToken: "MC", CuttingsToken: "CUT"}
}

func join(short string, tokens ...string) (string, error) {
	if strings.TrimSpace(short) == "" {
		return "", ErrEmptyShortName
	}
	return strings.Join(append([]string{short}, tokens...), sep), nil
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

// CoreSection returns {short}-{core_number}-{section}.
func (Scheme) CoreSection(short string, coreNumber string, section int64) (string, error) {
	return join(short, coreNumber, itoa(section))
}

// CoreChip returns {short}-{core_number}-{section}-{chip}-{Top|Bottom}.
func (Scheme) CoreChip(short string, coreNumber string, section int64, chip int64, fromTopBottom string) (string, error) {
	return join(short, coreNumber, itoa(section), itoa(chip), fromTopBottom)
}

func (s Scheme) MicroCore(short string, n int64) (string, error) {
	return join(short, s.MicroCoreToken, itoa(n))
}

func (s Scheme) Cuttings(short string, n int64) (string, error) {
	return join(short, s.CuttingsToken, itoa(n))
}
