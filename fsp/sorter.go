package fsp

import (
	"iter"
	"slices"

	"go.uber.org/zap"

	"github.com/ministore/fsp/internal/log"
)

// OrderSpec is one pushdown sort key.
type OrderSpec struct {
	Column     string
	Descending bool
	NullsFirst bool
}

// Sorter orders elements by its criteria in the order they were added; the
// first criterion is the primary key. Sorting is all-or-nothing: a single
// expensive criterion moves the whole sort into memory.
type Sorter[T any] struct {
	cost     Cost
	criteria []*SortCriterion[T]
}

// NewSorter builds a criterion for every parameter with the factory
// registered under its field name. cost=Expensive forces an in-memory sort.
func NewSorter[T any](params []SortParameter, factories map[string]SortFactory[T], cost Cost) (*Sorter[T], error) {
	s := &Sorter[T]{cost: cost}
	for _, p := range params {
		factory, ok := factories[p.Field()]
		if !ok {
			return nil, UnknownFieldError(p.Field(), "sorting")
		}
		c, err := factory.SortCriterion(p)
		if err != nil {
			return nil, err
		}
		s.Add(c)
	}
	return s, nil
}

func (s *Sorter[T]) Add(c *SortCriterion[T]) {
	s.criteria = append(s.criteria, c)
}

// IsCheap reports whether the sort can be left to the store. No criteria at
// all is cheap.
func (s *Sorter[T]) IsCheap() bool {
	if s.cost == Expensive {
		return false
	}
	for _, c := range s.criteria {
		if c.IsExpensive() {
			return false
		}
	}
	return true
}

// IsActive reports whether there is a real sort for the store to apply.
func (s *Sorter[T]) IsActive() bool {
	return s.IsCheap() && len(s.criteria) > 0
}

// Criteria returns a copy of the criteria in priority order.
func (s *Sorter[T]) Criteria() []*SortCriterion[T] {
	return slices.Clone(s.criteria)
}

// PushdownOrder returns the store sort keys, or nil when the sort is not
// active.
func (s *Sorter[T]) PushdownOrder() []OrderSpec {
	if !s.IsActive() {
		return nil
	}
	order := make([]OrderSpec, 0, len(s.criteria))
	for _, c := range s.criteria {
		order = append(order, OrderSpec{Column: c.Column, Descending: c.Descending, NullsFirst: c.NullsFirst})
	}
	return order
}

// Compare is the lexicographic composition of every criterion.
func (s *Sorter[T]) Compare(a, b T) int {
	for _, c := range s.criteria {
		if r := c.Order(a, b); r != 0 {
			return r
		}
	}
	return 0
}

// Sort returns elements unchanged when the sort is cheap. Otherwise it
// returns a stably sorted copy.
func (s *Sorter[T]) Sort(elements []T) []T {
	if s.IsCheap() {
		return elements
	}
	log.Debug("sorting in memory", zap.Int("criteria", len(s.criteria)), zap.Int("elements", len(elements)))
	out := slices.Clone(elements)
	slices.SortStableFunc(out, s.Compare)
	return out
}

// SortSeq drains seq, sorts, and yields. It is a no-op when cheap.
func (s *Sorter[T]) SortSeq(seq iter.Seq[T]) iter.Seq[T] {
	if s.IsCheap() {
		return seq
	}
	return func(yield func(T) bool) {
		sorted := slices.Collect(seq)
		slices.SortStableFunc(sorted, s.Compare)
		for _, e := range sorted {
			if !yield(e) {
				return
			}
		}
	}
}
