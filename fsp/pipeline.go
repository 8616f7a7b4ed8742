package fsp

import "iter"

// Registry maps the field names a caller accepts to the factories that
// build criteria for them. Keys are lower case.
type Registry[T any] struct {
	Filters map[string]FilterFactory[T]
	Sorts   map[string]SortFactory[T]
}

// Query is a parsed request: filters, sort keys in priority order, and a
// page window.
type Query struct {
	Filters []FieldParameter
	Sorts   []SortParameter
	Page    PageParameter
}

// Pipeline holds the three engines for one request.
type Pipeline[T any] struct {
	Filter *Filter[T]
	Sorter *Sorter[T]
	Pager  *Pager[T]
}

// NewPipeline builds all engines up front, so unknown fields and invalid
// parameters are reported before any element is touched.
func NewPipeline[T any](reg Registry[T], q Query, opts Options) (*Pipeline[T], error) {
	if err := q.Page.Validate(); err != nil {
		return nil, err
	}
	filter, err := NewFilter(q.Filters, reg.Filters, opts.FilterCost)
	if err != nil {
		return nil, err
	}
	sorter, err := NewSorter(q.Sorts, reg.Sorts, opts.SortCost)
	if err != nil {
		return nil, err
	}
	return &Pipeline[T]{
		Filter: filter,
		Sorter: sorter,
		Pager:  NewPager(q.Page, filter, sorter),
	}, nil
}

// Apply runs the in-memory remainder over elements already narrowed by the
// store: filter, then sort, then page.
func (p *Pipeline[T]) Apply(elements []T) []T {
	return p.Pager.Page(p.Sorter.Sort(p.Filter.Filter(elements)))
}

// ApplySeq is the lazy form of Apply. An in-memory sort has to drain its
// input before yielding.
func (p *Pipeline[T]) ApplySeq(seq iter.Seq[T]) iter.Seq[T] {
	return p.Pager.PageSeq(p.Sorter.SortSeq(p.Filter.FilterSeq(seq)))
}
