package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ministore/fsp/fsp"
	"github.com/ministore/fsp/fsp/ops"
	"github.com/ministore/fsp/fsp/storage"
	"github.com/ministore/fsp/fsp/storage/postgres"
	"github.com/ministore/fsp/fsp/storage/sqlite"
	"github.com/ministore/fsp/internal/config"
	"github.com/ministore/fsp/internal/log"
)

type queryFlags struct {
	configPath string
	filters    []string
	sorts      []string
	start      int
	limit      int
	explain    bool
	inMemory   bool
}

func newQueryCmd() *cobra.Command {
	qf := &queryFlags{}
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a filter/sort/page request and print matching rows as JSON lines",
		Example: `  fsp query --dsn items.db --table items --column qty:int --column name:text \
    --filter qty=4 --filter -name=bob --sort name:d --start 10 --limit 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load("FSP_", qf.configPath, cmd.Flags())
			if err != nil {
				return fsp.Wrap(fsp.ErrConfig, "load config", err)
			}
			if err := cfg.Validate(); err != nil {
				return fsp.Wrap(fsp.ErrConfig, "validate config", err)
			}
			if err := log.SetLevel(cfg.LogLevel); err != nil {
				return fsp.Wrap(fsp.ErrConfig, "log level", err)
			}
			return runQuery(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, qf)
		},
	}

	f := cmd.Flags()
	f.StringVar(&qf.configPath, "config", "", "config file (yaml, json or toml)")
	f.String("backend", "sqlite", "backend: sqlite or postgres")
	f.String("dsn", "", "SQLite path or PostgreSQL connection string")
	f.String("driver", "sqlite", "SQLite driver: sqlite (pure Go) or sqlite3 (cgo)")
	f.String("schema", "", "PostgreSQL schema for the search_path")
	f.String("table", "", "table to query")
	f.StringArray("column", nil, "column as name:type[:memory]; repeatable")
	f.String("log-level", "info", "log level: debug, info, warn, error")
	f.StringArrayVar(&qf.filters, "filter", nil, "filter as [+|-]field=value, or [+|-]field for null; repeatable")
	f.StringArrayVar(&qf.sorts, "sort", nil, "sort key as field[:a|d]; repeatable, highest priority first")
	f.IntVar(&qf.start, "start", -1, "0-based index of the first row")
	f.IntVar(&qf.limit, "limit", -1, "maximum number of rows")
	f.BoolVar(&qf.explain, "explain", false, "print the SQL and pushdown steps to stderr")
	f.BoolVar(&qf.inMemory, "in-memory", false, "run filtering, sorting and paging in memory")
	return cmd
}

func runQuery(ctx context.Context, stdout, stderr io.Writer, cfg config.Config, qf *queryFlags) error {
	cols, err := parseColumns(cfg.Columns)
	if err != nil {
		return err
	}
	reg, err := ops.RowRegistry(cols)
	if err != nil {
		return err
	}
	q, err := parseQuery(qf.filters, qf.sorts, qf.start, qf.limit)
	if err != nil {
		return err
	}
	opts := fsp.DefaultOptions()
	if qf.inMemory {
		opts = fsp.InMemoryOptions()
	}

	adapter := createAdapter(cfg)
	db, err := adapter.Connect(ctx)
	if err != nil {
		return fsp.Wrap(fsp.ErrIO, "connect "+adapter.Target(), err)
	}
	defer db.Close()
	defer adapter.Close()

	res, err := ops.Query(ctx, db, adapter, ops.Request[ops.Row]{
		Table:    cfg.Table,
		Columns:  ops.Columns(cols),
		Registry: reg,
		Query:    q,
		Options:  opts,
		Scan:     ops.ScanRow,
		Explain:  qf.explain,
	})
	if err != nil {
		return err
	}

	if qf.explain {
		fmt.Fprintf(stderr, "SQL: %s\n", res.ExplainSQL)
		fmt.Fprintf(stderr, "Args: %v\n", res.ExplainArgs)
		for _, step := range res.ExplainSteps {
			fmt.Fprintf(stderr, "  - %s\n", step)
		}
	}

	enc := json.NewEncoder(stdout)
	for _, row := range res.Items {
		if err := enc.Encode(row); err != nil {
			return fsp.Wrap(fsp.ErrIO, "write row", err)
		}
	}
	log.Debug("query printed", zap.Int("rows", len(res.Items)), zap.Int("fetched", res.Fetched))
	return nil
}

// createAdapter creates the appropriate storage adapter based on backend
func createAdapter(cfg config.Config) storage.Adapter {
	switch cfg.Backend {
	case "postgres", "pg":
		return postgres.New(cfg.DSN, cfg.Schema)
	default:
		return sqlite.NewWithDriver(cfg.DSN, cfg.Driver)
	}
}
