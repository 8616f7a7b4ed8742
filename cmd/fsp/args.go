package main

import (
	"strings"

	"github.com/ministore/fsp/fsp"
	"github.com/ministore/fsp/fsp/ops"
)

// parseFilter reads "[+|-]field=value". Without '=' the value is null.
func parseFilter(s string) (fsp.FieldParameter, error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok {
		return fsp.NewNullFieldParameter(name)
	}
	return fsp.NewFieldParameter(name, value)
}

// parseSort reads "field[:a|d]".
func parseSort(s string) (fsp.SortParameter, error) {
	name, dir, _ := strings.Cut(s, ":")
	return fsp.NewSortParameter(name, fsp.ParseSortDirection(dir))
}

// parsePage treats negative values as not given.
func parsePage(start, limit int) fsp.PageParameter {
	switch {
	case start >= 0 && limit >= 0:
		return fsp.NewPageParameter(start, limit)
	case start >= 0:
		return fsp.PageStart(start)
	case limit >= 0:
		return fsp.PageLimit(limit)
	}
	return fsp.PageParameter{}
}

func parseQuery(filters, sorts []string, start, limit int) (fsp.Query, error) {
	q := fsp.Query{Page: parsePage(start, limit)}
	for _, s := range filters {
		p, err := parseFilter(s)
		if err != nil {
			return fsp.Query{}, err
		}
		q.Filters = append(q.Filters, p)
	}
	for _, s := range sorts {
		p, err := parseSort(s)
		if err != nil {
			return fsp.Query{}, err
		}
		q.Sorts = append(q.Sorts, p)
	}
	return q, nil
}

func parseColumns(specs []string) ([]ops.ColumnSpec, error) {
	cols := make([]ops.ColumnSpec, 0, len(specs))
	for _, s := range specs {
		c, err := ops.ParseColumn(s)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, nil
}
