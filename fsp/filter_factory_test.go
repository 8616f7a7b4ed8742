package fsp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ministore/fsp/fsp"
)

func TestFactoryCostFollowsColumn(t *testing.T) {
	p := mustField(t, "quantity", "4")

	cheap, err := fsp.NewIntFactory[int]("qty", identity[int]).FilterCriterion(p)
	require.NoError(t, err)
	assert.Equal(t, fsp.Cheap, cheap.Cost)
	assert.Equal(t, "qty", cheap.Column)
	assert.Equal(t, 4, cheap.Match)
	assert.True(t, cheap.Including)

	expensive, err := fsp.NewIntFactory[int]("", identity[int]).FilterCriterion(p)
	require.NoError(t, err)
	assert.True(t, expensive.IsExpensive())
}

func TestFactoriesReturnFreshCriteria(t *testing.T) {
	factory := fsp.NewLongFactory[int64]("n", identity[int64])
	a, err := factory.FilterCriterion(mustField(t, "n", "1"))
	require.NoError(t, err)
	b, err := factory.FilterCriterion(mustField(t, "-n", "2"))
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Equal(t, int64(1), a.Match)
	assert.Equal(t, int64(2), b.Match)
	assert.False(t, b.Including)
}

func TestBoolFactoryParsing(t *testing.T) {
	factory := fsp.NewBoolFactory[bool]("flag", identity[bool])
	for raw, want := range map[string]bool{
		"true": true, "TRUE": true, "on": true, "Yes": true, "y": true, "t": true, "1": true,
		"false": false, "0": false, "no": false, "off": false, "": false, "maybe": false,
	} {
		c, err := factory.FilterCriterion(mustField(t, "flag", raw))
		require.NoError(t, err)
		assert.Equal(t, want, c.Match, "raw %q", raw)
		assert.Equal(t, want, c.Evaluate(true), "raw %q", raw)
		assert.Equal(t, !want, c.Evaluate(false), "raw %q", raw)
	}
}

func TestBoolFactoryNullSafe(t *testing.T) {
	factory := fsp.NewBoolFactory[*bool]("flag", func(b *bool) (bool, bool) {
		if b == nil {
			return false, false
		}
		return *b, true
	})
	yes := true
	no := false

	c, err := factory.FilterCriterion(mustField(t, "flag", "false"))
	require.NoError(t, err)
	assert.False(t, c.Evaluate(nil))
	assert.True(t, c.Evaluate(&no))

	null, err := fsp.NewNullFieldParameter("flag")
	require.NoError(t, err)
	c, err = factory.FilterCriterion(null)
	require.NoError(t, err)
	assert.Nil(t, c.Match)
	assert.False(t, c.Evaluate(nil))
	assert.False(t, c.Evaluate(&yes))
	assert.False(t, c.Evaluate(&no))
}

func TestIntFactoryMalformed(t *testing.T) {
	factory := fsp.NewIntFactory[int]("n", identity[int])
	for _, raw := range []string{"", "four", "4.0", "99999999999"} {
		c, err := factory.FilterCriterion(mustField(t, "n", raw))
		require.NoError(t, err, raw)
		assert.Nil(t, c.Match, raw)
		assert.False(t, c.Evaluate(0), raw)
		assert.False(t, c.Evaluate(4), raw)
	}

	c, err := factory.FilterCriterion(mustField(t, "n", "-12"))
	require.NoError(t, err)
	assert.True(t, c.Evaluate(-12))
}

func TestLongFactoryRange(t *testing.T) {
	factory := fsp.NewLongFactory[int64]("n", identity[int64])
	c, err := factory.FilterCriterion(mustField(t, "n", "99999999999"))
	require.NoError(t, err)
	assert.True(t, c.Evaluate(99999999999))
	assert.False(t, c.Evaluate(1))
}

func TestStringMatchTypes(t *testing.T) {
	tests := []struct {
		mt    fsp.StringMatchType
		kind  fsp.MatchKind
		match string
		value string
		want  bool
	}{
		{fsp.CaseSensitiveExact, fsp.MatchEqual, "Joe", "Joe", true},
		{fsp.CaseSensitiveExact, fsp.MatchEqual, "joe", "Joe", false},
		{fsp.CaseInsensitiveExact, fsp.MatchEqualFold, "joe", "JOE", true},
		{fsp.CaseInsensitiveExact, fsp.MatchEqualFold, "joe", "Joe Bob", false},
		{fsp.CaseSensitivePartial, fsp.MatchContains, "Bob", "Joe Bob", true},
		{fsp.CaseSensitivePartial, fsp.MatchContains, "bob", "Joe Bob", false},
		{fsp.CaseInsensitivePartial, fsp.MatchContainsFold, "bob", "Joe Bob", true},
		{fsp.CaseInsensitivePartial, fsp.MatchContainsFold, "jim", "Joe Bob", false},
	}
	for _, tt := range tests {
		factory := fsp.NewStringFactory[string](tt.mt, "name", identity[string])
		c, err := factory.FilterCriterion(mustField(t, "name", tt.match))
		require.NoError(t, err)
		assert.Equal(t, tt.kind, c.Kind)
		assert.Equal(t, tt.want, c.Evaluate(tt.value), "%v %q in %q", tt.kind, tt.match, tt.value)
	}
}

func TestStringAbsentValues(t *testing.T) {
	absent := func(string) (string, bool) { return "", false }
	null, err := fsp.NewNullFieldParameter("name")
	require.NoError(t, err)

	exact, err := fsp.NewStringFactory[string](fsp.CaseSensitiveExact, "", absent).FilterCriterion(null)
	require.NoError(t, err)
	assert.True(t, exact.Evaluate("x"))

	exact, err = fsp.NewStringFactory[string](fsp.CaseInsensitiveExact, "", absent).FilterCriterion(mustField(t, "name", "x"))
	require.NoError(t, err)
	assert.False(t, exact.Evaluate("x"))

	partial, err := fsp.NewStringFactory[string](fsp.CaseInsensitivePartial, "", absent).FilterCriterion(null)
	require.NoError(t, err)
	assert.False(t, partial.Evaluate("x"))
}

func TestUnrecognizedMatchType(t *testing.T) {
	_, err := fsp.NewStringFactory[string](fsp.StringMatchType(42), "name", identity[string]).FilterCriterion(mustField(t, "name", "x"))
	require.Error(t, err)
	assert.True(t, fsp.IsKind(err, fsp.ErrMatchType))

	_, err = fsp.NewStringsFactory[[]string](fsp.StringMatchType(-1), "", func(s []string) []string { return s }).FilterCriterion(mustField(t, "name", "x"))
	assert.True(t, fsp.IsKind(err, fsp.ErrMatchType))

	_, err = fsp.NewFilter(
		[]fsp.FieldParameter{mustField(t, "name", "x")},
		map[string]fsp.FilterFactory[string]{"name": fsp.NewStringFactory[string](fsp.StringMatchType(7), "", identity[string])},
		fsp.Cheap,
	)
	assert.True(t, fsp.IsKind(err, fsp.ErrMatchType))
}

func TestStringsFactoryAnyMatch(t *testing.T) {
	factory := fsp.NewStringsFactory[[]string](fsp.CaseInsensitiveExact, "", func(s []string) []string { return s })
	c, err := factory.FilterCriterion(mustField(t, "tags", "URGENT"))
	require.NoError(t, err)

	assert.True(t, c.Evaluate([]string{"work", "urgent"}))
	assert.False(t, c.Evaluate([]string{"work"}))
	assert.False(t, c.Evaluate(nil))

	null, err := fsp.NewNullFieldParameter("tags")
	require.NoError(t, err)
	c, err = factory.FilterCriterion(null)
	require.NoError(t, err)
	assert.False(t, c.Evaluate([]string{"work", ""}))
}

func TestStringsFactoryFiltering(t *testing.T) {
	type doc struct {
		path string
		tags []string
	}
	factories := map[string]fsp.FilterFactory[doc]{
		"tags": fsp.NewStringsFactory[doc](fsp.CaseSensitivePartial, "", func(d doc) []string { return d.tags }),
	}
	docs := []doc{
		{"/1", []string{"work"}},
		{"/2", []string{"work", "urgent"}},
		{"/3", []string{"home"}},
	}
	params := []fsp.FieldParameter{mustField(t, "tags", "or"), mustField(t, "-tags", "urg")}
	f, err := fsp.NewFilter(params, factories, fsp.Cheap)
	require.NoError(t, err)

	got := f.Filter(docs)
	require.Len(t, got, 1)
	assert.Equal(t, "/1", got[0].path)
}

func TestNullStringMatchExportsAbsent(t *testing.T) {
	null, err := fsp.NewNullFieldParameter("name")
	require.NoError(t, err)

	for mt, want := range map[fsp.StringMatchType]bool{
		fsp.CaseSensitiveExact:     true,
		fsp.CaseInsensitiveExact:   true,
		fsp.CaseSensitivePartial:   false,
		fsp.CaseInsensitivePartial: false,
	} {
		c, err := fsp.NewStringFactory[string](mt, "name", identity[string]).FilterCriterion(null)
		require.NoError(t, err)
		assert.Equal(t, want, c.MatchesAbsent, "match type %d", mt)
	}

	c, err := fsp.NewStringFactory[string](fsp.CaseSensitiveExact, "name", identity[string]).FilterCriterion(mustField(t, "name", "x"))
	require.NoError(t, err)
	assert.False(t, c.MatchesAbsent)

	n, err := fsp.NewIntFactory[int]("qty", identity[int]).FilterCriterion(mustField(t, "qty", ""))
	require.NoError(t, err)
	assert.Nil(t, n.Match)
	assert.False(t, n.MatchesAbsent)

	f, err := fsp.NewFilter(
		[]fsp.FieldParameter{null},
		map[string]fsp.FilterFactory[string]{"name": fsp.NewStringFactory[string](fsp.CaseSensitiveExact, "name", identity[string])},
		fsp.Cheap,
	)
	require.NoError(t, err)
	groups := f.CheapGroups()
	require.Len(t, groups, 1)
	assert.Equal(t, []fsp.Match{{Value: nil, Including: true, Kind: fsp.MatchEqual, Absent: true}}, groups[0].Matches)
}
