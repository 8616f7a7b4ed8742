package fsp

import (
	"cmp"
	"time"
)

// CompareNullable compares two optional values. An absent value is smaller
// than any present one and two absent values are equal.
func CompareNullable[V cmp.Ordered](a V, aOK bool, b V, bOK bool) int {
	switch {
	case !aOK && !bOK:
		return 0
	case !aOK:
		return -1
	case !bOK:
		return 1
	}
	return cmp.Compare(a, b)
}

// FuncSortFactory sorts by a key extracted with an adapter and ordered with
// compare. An empty column makes every criterion expensive.
type FuncSortFactory[T, V any] struct {
	column     string
	nullsFirst bool
	adapter    Adapter[T, V]
	compare    func(a, b V) int
}

func NewFuncSortFactory[T, V any](column string, nullsFirst bool, adapter Adapter[T, V], compare func(a, b V) int) *FuncSortFactory[T, V] {
	return &FuncSortFactory[T, V]{column: column, nullsFirst: nullsFirst, adapter: adapter, compare: compare}
}

// NewSortFactory sorts by the natural ordering of the key.
func NewSortFactory[T any, V cmp.Ordered](column string, nullsFirst bool, adapter Adapter[T, V]) *FuncSortFactory[T, V] {
	return NewFuncSortFactory(column, nullsFirst, adapter, cmp.Compare[V])
}

// NewTimeSortFactory sorts chronologically.
func NewTimeSortFactory[T any](column string, nullsFirst bool, adapter Adapter[T, time.Time]) *FuncSortFactory[T, time.Time] {
	return NewFuncSortFactory(column, nullsFirst, adapter, time.Time.Compare)
}

func (f *FuncSortFactory[T, V]) SortCriterion(p SortParameter) (*SortCriterion[T], error) {
	adapter, compare := f.adapter, f.compare
	return &SortCriterion[T]{
		Descending: p.Direction() == Descending,
		NullsFirst: f.nullsFirst,
		Cost:       costFor(f.column),
		Column:     f.column,
		IsNull: func(t T) bool {
			_, ok := adapter(t)
			return !ok
		},
		Compare: func(a, b T) int {
			av, _ := adapter(a)
			bv, _ := adapter(b)
			return compare(av, bv)
		},
	}, nil
}
