package fsp

// Options configures how a Pipeline classifies its criteria.
type Options struct {
	// FilterCost=Expensive keeps every filter group in memory.
	FilterCost Cost
	// SortCost=Expensive keeps the sort in memory.
	SortCost Cost
}

// DefaultOptions lets every criterion decide its own cost.
func DefaultOptions() Options {
	return Options{
		FilterCost: Cheap,
		SortCost:   Cheap,
	}
}

// InMemoryOptions forces filtering, sorting and paging into memory.
func InMemoryOptions() Options {
	return Options{
		FilterCost: Expensive,
		SortCost:   Expensive,
	}
}
