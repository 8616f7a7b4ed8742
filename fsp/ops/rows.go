package ops

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ministore/fsp/fsp"
)

// Row is a table row keyed by column name.
type Row map[string]any

type ColumnType string

const (
	ColumnString   ColumnType = "string"   // case-sensitive exact match
	ColumnIString  ColumnType = "istring"  // case-insensitive exact match
	ColumnContains ColumnType = "contains" // case-sensitive substring match
	ColumnText     ColumnType = "text"     // case-insensitive substring match
	ColumnInt      ColumnType = "int"
	ColumnLong     ColumnType = "long"
	ColumnBool     ColumnType = "bool"
	ColumnTime     ColumnType = "time" // sort only
)

// ColumnSpec declares one filterable and sortable column.
type ColumnSpec struct {
	Name string
	Type ColumnType
	// Pushdown=false keeps every criterion on the column in memory.
	Pushdown   bool
	NullsFirst bool
}

// ParseColumn parses "name:type[:memory]".
func ParseColumn(s string) (ColumnSpec, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 || parts[0] == "" {
		return ColumnSpec{}, fsp.InvalidParameterError(s, "column must be name:type[:memory]")
	}
	c := ColumnSpec{Name: parts[0], Type: ColumnType(strings.ToLower(parts[1])), Pushdown: true}
	if len(parts) == 3 {
		if !strings.EqualFold(parts[2], "memory") {
			return ColumnSpec{}, fsp.InvalidParameterError(s, fmt.Sprintf("unknown column option %q", parts[2]))
		}
		c.Pushdown = false
	}
	if _, ok := stringMatchTypes[c.Type]; !ok && !c.Type.scalar() {
		return ColumnSpec{}, fsp.InvalidParameterError(s, fmt.Sprintf("unknown column type %q", parts[1]))
	}
	return c, nil
}

var stringMatchTypes = map[ColumnType]fsp.StringMatchType{
	ColumnString:   fsp.CaseSensitiveExact,
	ColumnIString:  fsp.CaseInsensitiveExact,
	ColumnContains: fsp.CaseSensitivePartial,
	ColumnText:     fsp.CaseInsensitivePartial,
}

func (t ColumnType) scalar() bool {
	switch t {
	case ColumnInt, ColumnLong, ColumnBool, ColumnTime:
		return true
	}
	return false
}

func (c ColumnSpec) column() string {
	if c.Pushdown {
		return c.Name
	}
	return ""
}

// RowRegistry derives filter and sort factories from column specs. Field
// names are the lower-cased column names.
func RowRegistry(cols []ColumnSpec) (fsp.Registry[Row], error) {
	reg := fsp.Registry[Row]{
		Filters: make(map[string]fsp.FilterFactory[Row]),
		Sorts:   make(map[string]fsp.SortFactory[Row]),
	}
	for _, c := range cols {
		field := strings.ToLower(c.Name)
		name := c.Name
		if mt, ok := stringMatchTypes[c.Type]; ok {
			adapter := func(r Row) (string, bool) { return rowString(r[name]) }
			reg.Filters[field] = fsp.NewStringFactory[Row](mt, c.column(), adapter)
			reg.Sorts[field] = fsp.NewSortFactory[Row](c.column(), c.NullsFirst, adapter)
			continue
		}
		switch c.Type {
		case ColumnInt:
			adapter := func(r Row) (int, bool) {
				n, ok := rowInt(r[name])
				return int(n), ok
			}
			reg.Filters[field] = fsp.NewIntFactory[Row](c.column(), adapter)
			reg.Sorts[field] = fsp.NewSortFactory[Row](c.column(), c.NullsFirst, adapter)
		case ColumnLong:
			adapter := func(r Row) (int64, bool) { return rowInt(r[name]) }
			reg.Filters[field] = fsp.NewLongFactory[Row](c.column(), adapter)
			reg.Sorts[field] = fsp.NewSortFactory[Row](c.column(), c.NullsFirst, adapter)
		case ColumnBool:
			adapter := func(r Row) (bool, bool) { return rowBool(r[name]) }
			reg.Filters[field] = fsp.NewBoolFactory[Row](c.column(), adapter)
			reg.Sorts[field] = fsp.NewFuncSortFactory[Row](c.column(), c.NullsFirst, adapter, compareBool)
		case ColumnTime:
			reg.Sorts[field] = fsp.NewTimeSortFactory[Row](c.column(), c.NullsFirst, func(r Row) (time.Time, bool) {
				return rowTime(r[name])
			})
		default:
			return fsp.Registry[Row]{}, fsp.InvalidParameterError(c.Name, fmt.Sprintf("unknown column type %q", c.Type))
		}
	}
	return reg, nil
}

// ScanRow reads the current row into a Row. Byte slices become strings.
func ScanRow(rows *sql.Rows) (Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	row := make(Row, len(cols))
	for i, c := range cols {
		if b, ok := vals[i].([]byte); ok {
			row[c] = string(b)
			continue
		}
		row[c] = vals[i]
	}
	return row, nil
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func rowString(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case []byte:
		return string(x), true
	default:
		return fmt.Sprint(x), true
	}
}

func rowInt(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	case int16:
		return int64(x), true
	case float64:
		return int64(x), true
	case string:
		n, err := strconv.ParseInt(x, 10, 64)
		return n, err == nil
	case []byte:
		n, err := strconv.ParseInt(string(x), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

func rowBool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case int64:
		return x != 0, true
	case int:
		return x != 0, true
	case string:
		b, err := strconv.ParseBool(x)
		return b, err == nil
	default:
		return false, false
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func rowTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case string:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, x); err == nil {
				return t, true
			}
		}
	case int64:
		return time.UnixMilli(x), true
	}
	return time.Time{}, false
}

// Columns returns the column names of cols in order.
func Columns(cols []ColumnSpec) []string {
	names := make([]string, 0, len(cols))
	for _, c := range cols {
		names = append(names, c.Name)
	}
	return names
}
