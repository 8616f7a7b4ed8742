package planner

import (
	"fmt"
	"strings"

	"github.com/ministore/fsp/fsp"
	"github.com/ministore/fsp/fsp/storage"
)

// Select is the part of a request the store can answer: cheap filter
// groups, the pushdown sort order and the 1-based page bounds.
type Select struct {
	Table   string
	Columns []string // empty selects every column

	Groups []fsp.GroupSpec
	Order  []fsp.OrderSpec

	Lower    int
	HasLower bool
	Upper    int
	HasUpper bool
}

// FromPipeline collects the pushdown verdicts of p.
func FromPipeline[T any](table string, columns []string, p *fsp.Pipeline[T]) Select {
	sel := Select{
		Table:   table,
		Columns: columns,
		Groups:  p.Filter.CheapGroups(),
		Order:   p.Sorter.PushdownOrder(),
	}
	sel.Lower, sel.HasLower = p.Pager.LowerBound()
	sel.Upper, sel.HasUpper = p.Pager.UpperBound()
	return sel
}

// Plan is a parameterized statement plus a readable account of what was
// pushed down.
type Plan struct {
	SQL          string
	Args         []any
	ExplainSteps []string
}

// BuildSelect renders sel for backend. Placeholders are allocated from b in
// statement order.
func BuildSelect(backend storage.Backend, sel Select, b storage.Builder) (*Plan, error) {
	if backend != storage.BackendSQLite && backend != storage.BackendPostgres {
		return nil, fmt.Errorf("unsupported backend %q", backend)
	}
	plan := &Plan{}

	table, err := quoteIdent(sel.Table)
	if err != nil {
		return nil, fmt.Errorf("table: %w", err)
	}
	cols := "*"
	if len(sel.Columns) > 0 {
		quoted := make([]string, 0, len(sel.Columns))
		for _, c := range sel.Columns {
			q, err := quoteIdent(c)
			if err != nil {
				return nil, fmt.Errorf("column: %w", err)
			}
			quoted = append(quoted, q)
		}
		cols = strings.Join(quoted, ", ")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s", cols, table)

	var where []string
	for _, g := range sel.Groups {
		clause, err := groupSQL(backend, g, b)
		if err != nil {
			return nil, fmt.Errorf("filter %s: %w", g.Field, err)
		}
		where = append(where, clause)
		plan.ExplainSteps = append(plan.ExplainSteps, fmt.Sprintf("pushdown filter %s: %s", g.Field, clause))
	}
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}

	if len(sel.Order) > 0 {
		keys := make([]string, 0, len(sel.Order))
		for _, o := range sel.Order {
			key, err := orderSQL(o)
			if err != nil {
				return nil, err
			}
			keys = append(keys, key)
		}
		order := strings.Join(keys, ", ")
		sb.WriteString(" ORDER BY ")
		sb.WriteString(order)
		plan.ExplainSteps = append(plan.ExplainSteps, "pushdown order: "+order)
	}

	if page := pageSQL(backend, sel); page != "" {
		sb.WriteString(" ")
		sb.WriteString(page)
		plan.ExplainSteps = append(plan.ExplainSteps, "pushdown page: "+page)
	}

	plan.SQL = sb.String()
	plan.Args = b.Args()
	return plan, nil
}

// groupSQL renders one cheap group: any include matches OR-ed, then every
// exclude match negated. A row without a value is only excluded by a match
// on absent values.
func groupSQL(backend storage.Backend, g fsp.GroupSpec, b storage.Builder) (string, error) {
	col, err := quoteIdent(g.Column)
	if err != nil {
		return "", err
	}
	var incl, excl []string
	hasInclude, exclAbsent := false, false
	for _, m := range g.Matches {
		if m.Including {
			hasInclude = true
		} else if m.Value == nil && m.Absent {
			exclAbsent = true
			continue
		}
		expr, ok, err := matchSQL(backend, col, m, b)
		if err != nil {
			return "", err
		}
		if !ok {
			continue
		}
		if m.Including {
			incl = append(incl, expr)
		} else {
			excl = append(excl, expr)
		}
	}

	var parts []string
	switch {
	case hasInclude && len(incl) == 0:
		parts = append(parts, "1=0")
	case len(incl) == 1:
		parts = append(parts, incl[0])
	case len(incl) > 1:
		parts = append(parts, "("+joinOr(incl)+")")
	}
	switch {
	case exclAbsent:
		parts = append(parts, col+" IS NOT NULL")
		if len(excl) > 0 {
			parts = append(parts, fmt.Sprintf("NOT (%s)", joinOr(excl)))
		}
	case len(excl) > 0:
		parts = append(parts, fmt.Sprintf("(%s IS NULL OR NOT (%s))", col, joinOr(excl)))
	}
	if len(parts) == 0 {
		return "1=1", nil
	}
	return strings.Join(parts, " AND "), nil
}

// matchSQL renders one match. ok is false for a null match that cannot
// select any row.
//
// SQLite LIKE ignores ASCII case, so a case-sensitive substring match uses
// instr there. LOWER folds ASCII only on SQLite.
func matchSQL(backend storage.Backend, col string, m fsp.Match, b storage.Builder) (expr string, ok bool, err error) {
	if m.Value == nil {
		if m.Absent {
			return col + " IS NULL", true, nil
		}
		return "", false, nil
	}
	if m.Kind == fsp.MatchEqual {
		return fmt.Sprintf("%s = %s", col, b.Arg(m.Value)), true, nil
	}
	s, isString := m.Value.(string)
	if !isString {
		return "", false, fmt.Errorf("%s match needs a string value, got %T", m.Kind, m.Value)
	}
	switch m.Kind {
	case fsp.MatchEqualFold:
		return fmt.Sprintf("LOWER(%s) = LOWER(%s)", col, b.Arg(s)), true, nil
	case fsp.MatchContains:
		if s == "" {
			return col + " IS NOT NULL", true, nil
		}
		if backend == storage.BackendSQLite {
			return fmt.Sprintf("instr(%s, %s) > 0", col, b.Arg(s)), true, nil
		}
		return fmt.Sprintf(`%s LIKE %s ESCAPE '\'`, col, b.Arg(containsPattern(s))), true, nil
	case fsp.MatchContainsFold:
		return fmt.Sprintf(`LOWER(%s) LIKE LOWER(%s) ESCAPE '\'`, col, b.Arg(containsPattern(s))), true, nil
	default:
		return "", false, fmt.Errorf("unknown match kind %d", int(m.Kind))
	}
}

func orderSQL(o fsp.OrderSpec) (string, error) {
	col, err := quoteIdent(o.Column)
	if err != nil {
		return "", fmt.Errorf("order: %w", err)
	}
	dir := "ASC"
	if o.Descending {
		dir = "DESC"
	}
	nulls := "NULLS LAST"
	if o.NullsFirst {
		nulls = "NULLS FIRST"
	}
	return fmt.Sprintf("%s %s %s", col, dir, nulls), nil
}

// pageSQL turns the 1-based bounds into LIMIT/OFFSET. SQLite needs a LIMIT
// before an OFFSET, -1 meaning no limit.
func pageSQL(backend storage.Backend, sel Select) string {
	switch {
	case sel.HasLower && sel.HasUpper:
		return fmt.Sprintf("LIMIT %d OFFSET %d", sel.Upper-sel.Lower, sel.Lower-1)
	case sel.HasUpper:
		return fmt.Sprintf("LIMIT %d", sel.Upper-1)
	case sel.HasLower && backend == storage.BackendSQLite:
		return fmt.Sprintf("LIMIT -1 OFFSET %d", sel.Lower-1)
	case sel.HasLower:
		return fmt.Sprintf("OFFSET %d", sel.Lower-1)
	}
	return ""
}
