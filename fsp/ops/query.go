package ops

import (
	"context"
	"database/sql"
	"iter"

	"go.uber.org/zap"

	"github.com/ministore/fsp/fsp"
	"github.com/ministore/fsp/fsp/planner"
	"github.com/ministore/fsp/fsp/storage"
	"github.com/ministore/fsp/internal/log"
)

// Request is one filter/sort/page request against a table.
type Request[T any] struct {
	Table string
	// Columns to select; empty selects every column.
	Columns  []string
	Registry fsp.Registry[T]
	Query    fsp.Query
	Options  fsp.Options
	// Scan reads the current row.
	Scan    func(*sql.Rows) (T, error)
	Explain bool
}

// Result holds the final page of elements. Fetched counts the rows read
// from the store, which is larger than len(Items) when work ran in memory.
type Result[T any] struct {
	Items        []T
	Fetched      int
	ExplainSQL   string
	ExplainArgs  []any
	ExplainSteps []string
}

// Query runs the cheap part of req in the database and the rest in memory.
func Query[T any](ctx context.Context, db *sql.DB, adapter storage.Adapter, req Request[T]) (*Result[T], error) {
	// 1. Build engines; unknown fields and bad parameters fail here
	pipeline, err := fsp.NewPipeline(req.Registry, req.Query, req.Options)
	if err != nil {
		return nil, err
	}

	// 2. Create builder for placeholder management
	builder := storage.NewBuilder(adapter)

	// 3. Render the pushdown statement
	plan, err := planner.BuildSelect(adapter.Backend(), planner.FromPipeline(req.Table, req.Columns, pipeline), builder)
	if err != nil {
		return nil, fsp.Wrap(fsp.ErrSQL, "build select", err)
	}
	log.Debug("pushdown query",
		zap.String("target", adapter.Target()),
		zap.String("sql", plan.SQL),
		zap.Int("args", len(plan.Args)))

	// 4. Execute query
	rows, err := db.QueryContext(ctx, plan.SQL, plan.Args...)
	if err != nil {
		log.Warn("pushdown query failed", zap.String("target", adapter.Target()), zap.Error(err))
		return nil, fsp.Wrap(fsp.ErrSQL, "execute query", err)
	}
	defer rows.Close()

	// 5. Scan and run the in-memory remainder; paging stops the scan early
	result := &Result[T]{}
	var scanErr error
	seq := func(yield func(T) bool) {
		for rows.Next() {
			item, err := req.Scan(rows)
			if err != nil {
				scanErr = err
				return
			}
			result.Fetched++
			if !yield(item) {
				return
			}
		}
	}
	result.Items = collect(pipeline.ApplySeq(seq))
	if scanErr != nil {
		return nil, fsp.Wrap(fsp.ErrSQL, "scan row", scanErr)
	}
	if err := rows.Err(); err != nil {
		return nil, fsp.Wrap(fsp.ErrSQL, "iterate rows", err)
	}

	// 6. Shape output
	if req.Explain {
		result.ExplainSQL = plan.SQL
		result.ExplainArgs = plan.Args
		result.ExplainSteps = append(plan.ExplainSteps, memorySteps(pipeline)...)
	}
	log.Debug("query done",
		zap.String("target", adapter.Target()),
		zap.Int("fetched", result.Fetched),
		zap.Int("items", len(result.Items)))
	return result, nil
}

func collect[T any](seq iter.Seq[T]) []T {
	out := make([]T, 0)
	for v := range seq {
		out = append(out, v)
	}
	return out
}

func memorySteps[T any](p *fsp.Pipeline[T]) []string {
	var steps []string
	if p.Filter.IsExpensive() {
		steps = append(steps, "in-memory filter")
	}
	if !p.Sorter.IsCheap() {
		steps = append(steps, "in-memory sort")
	}
	if _, ok := p.Pager.Start(); ok && p.Pager.Cost() == fsp.Expensive {
		steps = append(steps, "in-memory page")
	}
	return steps
}
