package fsp

import (
	"fmt"
	"math"
	"strings"
)

// FieldParameter is one raw filter parameter. A leading '+' or '-' on the
// field name selects inclusion or exclusion; without a sigil the parameter
// includes. Values are comparable with ==.
type FieldParameter struct {
	field     string
	value     string
	hasValue  bool
	including bool
}

// NewFieldParameter parses a raw field name and pairs it with a match value.
func NewFieldParameter(rawField, value string) (FieldParameter, error) {
	p, err := parseFieldName(rawField)
	if err != nil {
		return FieldParameter{}, err
	}
	p.value = value
	p.hasValue = true
	return p, nil
}

// NewNullFieldParameter is like NewFieldParameter but carries no match value.
func NewNullFieldParameter(rawField string) (FieldParameter, error) {
	return parseFieldName(rawField)
}

func parseFieldName(rawField string) (FieldParameter, error) {
	if rawField == "" {
		return FieldParameter{}, EmptyFieldNameError()
	}

	including := true
	name := rawField
	switch rawField[0] {
	case '+':
		name = rawField[1:]
	case '-':
		name = rawField[1:]
		including = false
	}

	name = strings.ToLower(name)
	if name == "" {
		return FieldParameter{}, EmptyFieldNameError()
	}
	return FieldParameter{field: name, including: including}, nil
}

// Field returns the normalized (lower case, sigil stripped) field name.
func (p FieldParameter) Field() string { return p.field }

// Value returns the raw match value and whether one was given.
func (p FieldParameter) Value() (string, bool) { return p.value, p.hasValue }

func (p FieldParameter) Including() bool { return p.including }

func (p FieldParameter) String() string {
	value := "<null>"
	if p.hasValue {
		value = fmt.Sprintf("%q", p.value)
	}
	return fmt.Sprintf("FieldParameter(field=%s, match=%s, including=%t)", p.field, value, p.including)
}

type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

func (d SortDirection) String() string {
	if d == Descending {
		return "D"
	}
	return "A"
}

// ParseSortDirection accepts the single letter codes "A"/"D" and the words
// "asc"/"desc" in any case. Anything else sorts ascending.
func ParseSortDirection(s string) SortDirection {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "d", "desc", "descending":
		return Descending
	default:
		return Ascending
	}
}

// SortParameter is one raw sort parameter.
type SortParameter struct {
	field     string
	direction SortDirection
}

func NewSortParameter(field string, direction SortDirection) (SortParameter, error) {
	name := strings.ToLower(field)
	if name == "" {
		return SortParameter{}, EmptyFieldNameError()
	}
	return SortParameter{field: name, direction: direction}, nil
}

func (p SortParameter) Field() string { return p.field }

func (p SortParameter) Direction() SortDirection { return p.direction }

func (p SortParameter) String() string {
	return fmt.Sprintf("SortParameter(field=%s, direction=%s)", p.field, p.direction)
}

// PageParameter is a requested window. Both ends are optional; when a limit
// is given without a start the start defaults to 0.
type PageParameter struct {
	start    int
	limit    int
	hasStart bool
	hasLimit bool
}

func NewPageParameter(start, limit int) PageParameter {
	return PageParameter{start: start, limit: limit, hasStart: true, hasLimit: true}
}

func PageStart(start int) PageParameter {
	return PageParameter{start: start, hasStart: true}
}

func PageLimit(limit int) PageParameter {
	return PageParameter{limit: limit, hasLimit: true}
}

// Start returns the resolved start offset (0-based).
func (p PageParameter) Start() (int, bool) {
	if !p.hasStart && p.hasLimit {
		return 0, true
	}
	return p.start, p.hasStart
}

func (p PageParameter) Limit() (int, bool) { return p.limit, p.hasLimit }

// Validate rejects negative offsets and limits.
func (p PageParameter) Validate() error {
	if p.hasStart && p.start < 0 {
		return InvalidParameterError("start", "page start must not be negative")
	}
	if p.hasStart && p.start == math.MaxInt {
		return InvalidParameterError("start", "page start out of range")
	}
	if p.hasLimit && p.limit < 0 {
		return InvalidParameterError("limit", "page limit must not be negative")
	}
	return nil
}
