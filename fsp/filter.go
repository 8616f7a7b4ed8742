package fsp

import (
	"iter"
	"sync"

	"go.uber.org/zap"

	"github.com/ministore/fsp/internal/log"
)

// Match is one value of a cheap group, as seen by a store query builder.
type Match struct {
	Value     any
	Including bool
	Kind      MatchKind
	// Absent is set on a nil Value that matches rows without a value.
	Absent bool
}

// GroupSpec is a snapshot of a cheap group.
type GroupSpec struct {
	Field   string
	Column  string
	Matches []Match
}

// Group collects every criterion added for one field. Include criteria are
// OR-ed together, exclude criteria are OR-ed together, and the group accepts
// an element that matches an include (or there are none) and no exclude.
type Group[T any] struct {
	field     string
	column    string
	expensive bool
	matches   []Match
	include   func(T) bool
	exclude   func(T) bool
}

func newGroup[T any](field string, c *FilterCriterion[T]) *Group[T] {
	g := &Group[T]{field: field, column: c.Column}
	g.add(c)
	return g
}

func (g *Group[T]) add(c *FilterCriterion[T]) {
	// Exclusion cannot be pushed down as an inclusion set.
	if c.IsExpensive() || !c.Including {
		g.expensive = true
	}
	g.matches = append(g.matches, Match{Value: c.Match, Including: c.Including, Kind: c.Kind, Absent: c.MatchesAbsent})

	if c.Including {
		g.include = or(g.include, c.Evaluate)
	} else {
		g.exclude = or(g.exclude, c.Evaluate)
	}
}

func or[T any](prev, next func(T) bool) func(T) bool {
	if prev == nil {
		return next
	}
	return func(t T) bool { return prev(t) || next(t) }
}

func (g *Group[T]) Field() string { return g.field }

func (g *Group[T]) Column() string { return g.column }

// IsExpensive reports whether any member is expensive or excluding.
func (g *Group[T]) IsExpensive() bool { return g.expensive }

// IsSingle reports whether the group holds exactly one criterion.
func (g *Group[T]) IsSingle() bool { return len(g.matches) == 1 }

// Accept evaluates the group predicate.
func (g *Group[T]) Accept(t T) bool {
	if g.include != nil && !g.include(t) {
		return false
	}
	return g.exclude == nil || !g.exclude(t)
}

func (g *Group[T]) spec() GroupSpec {
	matches := make([]Match, len(g.matches))
	copy(matches, g.matches)
	return GroupSpec{Field: g.field, Column: g.column, Matches: matches}
}

// Filter splits criteria into groups that can be pushed down to the store
// (cheap) and groups that must run in memory (expensive).
//
// A group is bucketed once, when its first criterion arrives, and stays in
// that bucket. All Add calls must complete before Filter or FilterSeq is
// used; Add and the cost flags are safe for concurrent use.
type Filter[T any] struct {
	mu           sync.RWMutex
	cost         Cost
	groups       map[string]*Group[T]
	cheap        []*Group[T]
	expensive    []*Group[T]
	hasCheap     bool
	hasExpensive bool
}

// NewFilter builds a criterion for every parameter with the factory
// registered under its field name. cost=Expensive forces every group in
// memory.
func NewFilter[T any](params []FieldParameter, factories map[string]FilterFactory[T], cost Cost) (*Filter[T], error) {
	f := &Filter[T]{cost: cost, groups: make(map[string]*Group[T])}
	for _, p := range params {
		factory, ok := factories[p.Field()]
		if !ok {
			return nil, UnknownFieldError(p.Field(), "filtering")
		}
		c, err := factory.FilterCriterion(p)
		if err != nil {
			return nil, err
		}
		f.Add(p.Field(), c)
	}
	return f, nil
}

// Add appends a criterion to the group of field, creating the group on first
// use.
func (f *Filter[T]) Add(field string, c *FilterCriterion[T]) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if g, ok := f.groups[field]; ok {
		g.add(c)
		return
	}

	g := newGroup(field, c)
	f.groups[field] = g
	if f.cost == Expensive || g.expensive {
		f.expensive = append(f.expensive, g)
		f.hasExpensive = true
	} else {
		f.cheap = append(f.cheap, g)
		f.hasCheap = true
	}
	log.Debug("filter group classified",
		zap.String("field", field),
		zap.Bool("expensive", f.cost == Expensive || g.expensive))
}

// IsExpensive reports whether at least one group runs in memory.
func (f *Filter[T]) IsExpensive() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.hasExpensive
}

// IsCheap reports whether at least one group can be pushed down.
func (f *Filter[T]) IsCheap() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.hasCheap
}

// CheapGroups returns the pushdown groups in first-insertion order.
func (f *Filter[T]) CheapGroups() []GroupSpec {
	f.mu.RLock()
	defer f.mu.RUnlock()
	specs := make([]GroupSpec, 0, len(f.cheap))
	for _, g := range f.cheap {
		specs = append(specs, g.spec())
	}
	return specs
}

// Predicate is the conjunction of every expensive group.
func (f *Filter[T]) Predicate() func(T) bool {
	f.mu.RLock()
	groups := make([]*Group[T], len(f.expensive))
	copy(groups, f.expensive)
	f.mu.RUnlock()

	return func(t T) bool {
		for _, g := range groups {
			if !g.Accept(t) {
				return false
			}
		}
		return true
	}
}

// Filter runs the expensive groups over elements, which are assumed to be
// narrowed by the cheap groups already. Without expensive groups elements is
// returned as is; otherwise a new slice is returned and elements is left
// untouched.
func (f *Filter[T]) Filter(elements []T) []T {
	if !f.IsExpensive() {
		return elements
	}
	accept := f.Predicate()
	out := make([]T, 0, len(elements))
	for _, e := range elements {
		if accept(e) {
			out = append(out, e)
		}
	}
	return out
}

// FilterSeq is the lazy form of Filter. It pulls from seq once, in order.
func (f *Filter[T]) FilterSeq(seq iter.Seq[T]) iter.Seq[T] {
	if !f.IsExpensive() {
		return seq
	}
	accept := f.Predicate()
	return func(yield func(T) bool) {
		for e := range seq {
			if accept(e) && !yield(e) {
				return
			}
		}
	}
}
