package fsp

import (
	"strconv"
	"strings"
)

// equalityCriterion builds a null-safe equality criterion: it never matches
// when either the match or the element value is absent.
func equalityCriterion[T any, V comparable](column string, p FieldParameter, match V, matchOK bool, adapter Adapter[T, V]) *FilterCriterion[T] {
	c := &FilterCriterion[T]{
		Cost:      costFor(column),
		Including: p.Including(),
		Column:    column,
		Kind:      MatchEqual,
	}
	if matchOK {
		c.Match = match
	}
	c.Evaluate = func(t T) bool {
		if !matchOK {
			return false
		}
		v, ok := adapter(t)
		if !ok {
			return false
		}
		return v == match
	}
	return c
}

// BoolFactory filters on a boolean value. An empty column makes every
// criterion expensive.
type BoolFactory[T any] struct {
	column  string
	adapter Adapter[T, bool]
}

func NewBoolFactory[T any](column string, adapter Adapter[T, bool]) *BoolFactory[T] {
	return &BoolFactory[T]{column: column, adapter: adapter}
}

func (f *BoolFactory[T]) FilterCriterion(p FieldParameter) (*FilterCriterion[T], error) {
	raw, ok := p.Value()
	var match bool
	if ok {
		match = parseBool(raw)
	}
	return equalityCriterion(f.column, p, match, ok, f.adapter), nil
}

// parseBool never fails: anything that is not a known truthy word is false.
func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "on", "yes", "y", "t", "1":
		return true
	default:
		return false
	}
}

// IntFactory filters on 32-bit integer values. A raw value that does not
// parse gives a criterion that matches nothing.
type IntFactory[T any] struct {
	column  string
	adapter Adapter[T, int]
}

func NewIntFactory[T any](column string, adapter Adapter[T, int]) *IntFactory[T] {
	return &IntFactory[T]{column: column, adapter: adapter}
}

func (f *IntFactory[T]) FilterCriterion(p FieldParameter) (*FilterCriterion[T], error) {
	raw, ok := p.Value()
	var match int
	if ok {
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			ok = false
		}
		match = int(n)
	}
	return equalityCriterion(f.column, p, match, ok, f.adapter), nil
}

// LongFactory filters on 64-bit integer values. A raw value that does not
// parse gives a criterion that matches nothing.
type LongFactory[T any] struct {
	column  string
	adapter Adapter[T, int64]
}

func NewLongFactory[T any](column string, adapter Adapter[T, int64]) *LongFactory[T] {
	return &LongFactory[T]{column: column, adapter: adapter}
}

func (f *LongFactory[T]) FilterCriterion(p FieldParameter) (*FilterCriterion[T], error) {
	raw, ok := p.Value()
	var match int64
	if ok {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			ok = false
		}
		match = n
	}
	return equalityCriterion(f.column, p, match, ok, f.adapter), nil
}

type StringMatchType int

const (
	CaseSensitiveExact StringMatchType = iota
	CaseInsensitiveExact
	CaseSensitivePartial
	CaseInsensitivePartial
)

func (mt StringMatchType) valid() bool {
	return mt >= CaseSensitiveExact && mt <= CaseInsensitivePartial
}

func (mt StringMatchType) exact() bool {
	return mt == CaseSensitiveExact || mt == CaseInsensitiveExact
}

func (mt StringMatchType) kind() MatchKind {
	switch mt {
	case CaseInsensitiveExact:
		return MatchEqualFold
	case CaseSensitivePartial:
		return MatchContains
	case CaseInsensitivePartial:
		return MatchContainsFold
	default:
		return MatchEqual
	}
}

// matchString compares one element value against the match. Exact matches
// treat two absent values as equal; partial matches never match an absent
// value on either side.
func matchString(mt StringMatchType, value string, valueOK bool, match string, matchOK bool) (bool, error) {
	switch mt {
	case CaseSensitiveExact:
		if !valueOK || !matchOK {
			return !valueOK && !matchOK, nil
		}
		return value == match, nil
	case CaseInsensitiveExact:
		if !valueOK || !matchOK {
			return !valueOK && !matchOK, nil
		}
		return strings.EqualFold(value, match), nil
	case CaseSensitivePartial:
		if !valueOK || !matchOK {
			return false, nil
		}
		return strings.Contains(value, match), nil
	case CaseInsensitivePartial:
		if !valueOK || !matchOK {
			return false, nil
		}
		return strings.Contains(strings.ToLower(value), strings.ToLower(match)), nil
	default:
		return false, UnrecognizedMatchTypeError(mt)
	}
}

// mustMatchString is used inside predicates, where an unknown match type is
// an invariant violation: factories reject it when building the criterion.
func mustMatchString(mt StringMatchType, value string, valueOK bool, match string, matchOK bool) bool {
	ok, err := matchString(mt, value, valueOK, match, matchOK)
	if err != nil {
		panic(err)
	}
	return ok
}

// StringFactory filters on a single string value.
type StringFactory[T any] struct {
	matchType StringMatchType
	column    string
	adapter   Adapter[T, string]
}

func NewStringFactory[T any](matchType StringMatchType, column string, adapter Adapter[T, string]) *StringFactory[T] {
	return &StringFactory[T]{matchType: matchType, column: column, adapter: adapter}
}

func (f *StringFactory[T]) FilterCriterion(p FieldParameter) (*FilterCriterion[T], error) {
	if !f.matchType.valid() {
		return nil, UnrecognizedMatchTypeError(f.matchType)
	}
	match, matchOK := p.Value()
	c := &FilterCriterion[T]{
		Cost:      costFor(f.column),
		Including: p.Including(),
		Column:    f.column,
		Kind:      f.matchType.kind(),
	}
	if matchOK {
		c.Match = match
	} else {
		c.MatchesAbsent = f.matchType.exact()
	}
	mt := f.matchType
	c.Evaluate = func(t T) bool {
		v, ok := f.adapter(t)
		return mustMatchString(mt, v, ok, match, matchOK)
	}
	return c, nil
}

// StringsFactory filters on a collection of strings; an element matches when
// any of its values matches.
type StringsFactory[T any] struct {
	matchType StringMatchType
	column    string
	adapter   func(T) []string
}

func NewStringsFactory[T any](matchType StringMatchType, column string, adapter func(T) []string) *StringsFactory[T] {
	return &StringsFactory[T]{matchType: matchType, column: column, adapter: adapter}
}

func (f *StringsFactory[T]) FilterCriterion(p FieldParameter) (*FilterCriterion[T], error) {
	if !f.matchType.valid() {
		return nil, UnrecognizedMatchTypeError(f.matchType)
	}
	match, matchOK := p.Value()
	c := &FilterCriterion[T]{
		Cost:      costFor(f.column),
		Including: p.Including(),
		Column:    f.column,
		Kind:      f.matchType.kind(),
	}
	if matchOK {
		c.Match = match
	}
	mt := f.matchType
	c.Evaluate = func(t T) bool {
		for _, v := range f.adapter(t) {
			if mustMatchString(mt, v, true, match, matchOK) {
				return true
			}
		}
		return false
	}
	return c, nil
}
