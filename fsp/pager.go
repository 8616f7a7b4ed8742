package fsp

import (
	"iter"
	"math"
)

// Pager selects a window of elements, either by handing bounds to the store
// (cheap) or by skipping and counting in memory (expensive).
type Pager[T any] struct {
	start    int
	limit    int
	hasStart bool
	hasLimit bool
	cost     Cost
	filter   *Filter[T]
	sorter   *Sorter[T]
}

// NewPager derives its cost from the attached engines: as soon as either
// filtering or sorting runs in memory, paging has to as well. Both engines
// may be nil.
func NewPager[T any](p PageParameter, filter *Filter[T], sorter *Sorter[T]) *Pager[T] {
	cost := Cheap
	if filter != nil && filter.IsExpensive() {
		cost = Expensive
	} else if sorter != nil && !sorter.IsCheap() {
		cost = Expensive
	}
	pg := NewPagerWithCost[T](p, cost)
	pg.filter = filter
	pg.sorter = sorter
	return pg
}

// NewPagerWithCost uses an explicit cost and no attached engines.
func NewPagerWithCost[T any](p PageParameter, cost Cost) *Pager[T] {
	pg := &Pager[T]{cost: cost}
	pg.start, pg.hasStart = p.Start()
	pg.limit, pg.hasLimit = p.Limit()
	return pg
}

func (p *Pager[T]) Cost() Cost { return p.cost }

// Start returns the resolved 0-based start, if paging was requested.
func (p *Pager[T]) Start() (int, bool) { return p.start, p.hasStart }

func (p *Pager[T]) Limit() (int, bool) { return p.limit, p.hasLimit }

func (p *Pager[T]) Filter() *Filter[T] { return p.filter }

func (p *Pager[T]) Sorter() *Sorter[T] { return p.sorter }

// LowerBound is the 1-based first row for the store, set only when paging is
// cheap and the start is not 0.
func (p *Pager[T]) LowerBound() (int, bool) {
	if p.cost == Cheap && p.hasStart && p.start != 0 {
		return p.start + 1, true
	}
	return 0, false
}

// UpperBound is the 1-based row one past the window, set only when paging is
// cheap and a limit was given. A limit reaching past math.MaxInt leaves the
// window open-ended.
func (p *Pager[T]) UpperBound() (int, bool) {
	if p.cost == Cheap && p.hasLimit && p.limit < math.MaxInt-p.start {
		return p.start + 1 + p.limit, true
	}
	return 0, false
}

func (p *Pager[T]) inMemory() bool {
	return p.hasStart && p.cost == Expensive
}

// window tracks one pass: skipping until start, then emitting until the
// limit runs out.
type window struct {
	skip      int
	remaining int
	unlimited bool
}

func (p *Pager[T]) newWindow() *window {
	return &window{skip: p.start, remaining: p.limit, unlimited: !p.hasLimit}
}

// next reports whether the current element is emitted and whether the
// window is exhausted.
func (w *window) next() (emit, done bool) {
	if w.skip > 0 {
		w.skip--
		return false, false
	}
	if w.unlimited {
		return true, false
	}
	if w.remaining <= 0 {
		return false, true
	}
	w.remaining--
	return true, w.remaining == 0
}

func (w *window) exhausted() bool {
	return w.skip == 0 && !w.unlimited && w.remaining <= 0
}

// Page returns elements unchanged when no start was given or the store does
// the paging. Otherwise it returns the window as a sub-slice of elements.
func (p *Pager[T]) Page(elements []T) []T {
	if !p.inMemory() {
		return elements
	}
	if p.start >= len(elements) {
		return elements[len(elements):]
	}
	end := len(elements)
	if p.hasLimit && p.limit < end-p.start {
		end = p.start + p.limit
	}
	return elements[p.start:end:end]
}

// PageSeq is the lazy form of Page. It keeps its counters per iteration and
// stops pulling from seq once the window is exhausted.
func (p *Pager[T]) PageSeq(seq iter.Seq[T]) iter.Seq[T] {
	if !p.inMemory() {
		return seq
	}
	return func(yield func(T) bool) {
		w := p.newWindow()
		if w.exhausted() {
			return
		}
		for e := range seq {
			emit, done := w.next()
			if emit && !yield(e) {
				return
			}
			if done {
				return
			}
		}
	}
}
