package fsp

// Cost says where an operation runs. Cheap operations are pushed down to the
// store, expensive ones run in memory.
type Cost int

const (
	Cheap Cost = iota
	Expensive
)

func (c Cost) String() string {
	if c == Expensive {
		return "expensive"
	}
	return "cheap"
}

// costFor returns Expensive when there is no column to push down to.
func costFor(column string) Cost {
	if column == "" {
		return Expensive
	}
	return Cheap
}

// Adapter extracts a comparison value from a domain element. The boolean is
// false when the element has no value for the field.
type Adapter[T, V any] func(T) (V, bool)

// Always wraps an extractor whose values are never absent.
func Always[T, V any](f func(T) V) Adapter[T, V] {
	return func(t T) (V, bool) { return f(t), true }
}

// MatchKind tells a store query builder how a match value compares.
type MatchKind int

const (
	MatchEqual MatchKind = iota
	MatchEqualFold
	MatchContains
	MatchContainsFold
)

func (k MatchKind) String() string {
	switch k {
	case MatchEqualFold:
		return "equal_fold"
	case MatchContains:
		return "contains"
	case MatchContainsFold:
		return "contains_fold"
	default:
		return "equal"
	}
}

// FilterCriterion is a single field filter built from one parameter. It is
// used once by the engine it is added to.
type FilterCriterion[T any] struct {
	Cost      Cost
	Including bool
	// Column is empty when the criterion cannot be pushed down.
	Column string
	// Match is the parsed match value; nil when the raw value was absent or
	// malformed.
	Match any
	// MatchesAbsent marks a null match that selects elements without a
	// value, as exact string matches do.
	MatchesAbsent bool
	Kind          MatchKind
	Evaluate      func(T) bool
}

func (c *FilterCriterion[T]) IsExpensive() bool { return c.Cost == Expensive }

// SortCriterion is a single sort key built from one parameter.
type SortCriterion[T any] struct {
	Descending bool
	NullsFirst bool
	Cost       Cost
	Column     string
	// IsNull reports an element without a value for this key.
	IsNull func(T) bool
	// Compare orders two elements that both have a value.
	Compare func(a, b T) int
}

func (c *SortCriterion[T]) IsExpensive() bool { return c.Cost == Expensive }

// Order compares two elements under this criterion. Nulls are placed by
// NullsFirst regardless of direction; only non-null comparisons are reversed
// for descending keys.
func (c *SortCriterion[T]) Order(a, b T) int {
	an, bn := c.IsNull(a), c.IsNull(b)
	switch {
	case an && bn:
		return 0
	case an:
		if c.NullsFirst {
			return -1
		}
		return 1
	case bn:
		if c.NullsFirst {
			return 1
		}
		return -1
	}
	r := c.Compare(a, b)
	if c.Descending {
		return -r
	}
	return r
}

// FilterFactory builds a fresh criterion for one field parameter.
type FilterFactory[T any] interface {
	FilterCriterion(p FieldParameter) (*FilterCriterion[T], error)
}

// SortFactory builds a fresh criterion for one sort parameter.
type SortFactory[T any] interface {
	SortCriterion(p SortParameter) (*SortCriterion[T], error)
}
