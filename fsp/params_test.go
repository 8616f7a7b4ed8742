package fsp_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ministore/fsp/fsp"
)

func mustField(t *testing.T, name, value string) fsp.FieldParameter {
	t.Helper()
	p, err := fsp.NewFieldParameter(name, value)
	require.NoError(t, err)
	return p
}

func mustSort(t *testing.T, name string, dir fsp.SortDirection) fsp.SortParameter {
	t.Helper()
	p, err := fsp.NewSortParameter(name, dir)
	require.NoError(t, err)
	return p
}

func TestFieldParameterEmptyNames(t *testing.T) {
	for _, name := range []string{"", "+", "-"} {
		_, err := fsp.NewFieldParameter(name, "false")
		require.Error(t, err, "name %q", name)
		assert.True(t, fsp.IsKind(err, fsp.ErrEmptyField), "name %q: %v", name, err)
	}
}

func TestFieldParameterSigils(t *testing.T) {
	tests := []struct {
		raw       string
		field     string
		including bool
	}{
		{"Value", "value", true},
		{"+Value", "value", true},
		{"-VALUE", "value", false},
		{"--x", "-x", false},
	}
	for _, tt := range tests {
		p := mustField(t, tt.raw, "v")
		assert.Equal(t, tt.field, p.Field(), tt.raw)
		assert.Equal(t, tt.including, p.Including(), tt.raw)
	}
}

func TestFieldParameterEquality(t *testing.T) {
	p1 := mustField(t, "value", "true")
	p2 := mustField(t, "value", "false")
	p3 := mustField(t, "+value", "true")
	p4 := mustField(t, "-value", "true")
	p5 := mustField(t, "value2", "false")

	assert.NotEqual(t, p1, p2)
	assert.NotEqual(t, p1, p4)
	assert.NotEqual(t, p1, p5)
	assert.NotEqual(t, p2, p3)
	assert.NotEqual(t, p3, p4)
	assert.NotEqual(t, p4, p5)

	// Default is inclusive.
	assert.True(t, p1 == p3)

	set := map[fsp.FieldParameter]int{p1: 1}
	set[p3]++
	assert.Len(t, set, 1)
	assert.Equal(t, 2, set[p1])
}

func TestNullFieldParameter(t *testing.T) {
	p, err := fsp.NewNullFieldParameter("-Flag")
	require.NoError(t, err)
	v, ok := p.Value()
	assert.False(t, ok)
	assert.Empty(t, v)
	assert.False(t, p.Including())
	assert.NotEqual(t, mustField(t, "-flag", ""), p)
	assert.Contains(t, p.String(), "<null>")
}

func TestSortParameter(t *testing.T) {
	p := mustSort(t, "Integer", fsp.Descending)
	assert.Equal(t, "integer", p.Field())
	assert.Equal(t, fsp.Descending, p.Direction())

	_, err := fsp.NewSortParameter("", fsp.Ascending)
	assert.True(t, fsp.IsKind(err, fsp.ErrEmptyField))
}

func TestParseSortDirection(t *testing.T) {
	assert.Equal(t, fsp.Descending, fsp.ParseSortDirection("D"))
	assert.Equal(t, fsp.Descending, fsp.ParseSortDirection("desc"))
	assert.Equal(t, fsp.Ascending, fsp.ParseSortDirection("A"))
	assert.Equal(t, fsp.Ascending, fsp.ParseSortDirection(""))
	assert.Equal(t, fsp.Ascending, fsp.ParseSortDirection("sideways"))
	assert.Equal(t, "D", fsp.Descending.String())
}

func TestPageParameterDefaults(t *testing.T) {
	start, ok := fsp.PageLimit(4).Start()
	assert.True(t, ok)
	assert.Equal(t, 0, start)

	_, ok = fsp.PageParameter{}.Start()
	assert.False(t, ok)
	_, ok = fsp.PageParameter{}.Limit()
	assert.False(t, ok)

	start, ok = fsp.PageStart(3).Start()
	assert.True(t, ok)
	assert.Equal(t, 3, start)
	_, ok = fsp.PageStart(3).Limit()
	assert.False(t, ok)

	assert.NoError(t, fsp.NewPageParameter(0, 0).Validate())
	assert.True(t, fsp.IsKind(fsp.NewPageParameter(-1, 2).Validate(), fsp.ErrInvalidParameter))
	assert.True(t, fsp.IsKind(fsp.PageLimit(-2).Validate(), fsp.ErrInvalidParameter))
	assert.True(t, fsp.IsKind(fsp.PageStart(math.MaxInt).Validate(), fsp.ErrInvalidParameter))
	assert.NoError(t, fsp.NewPageParameter(math.MaxInt-1, math.MaxInt).Validate())
}
