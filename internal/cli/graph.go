package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/tqlsh/internal/ir"
	"github.com/roach88/tqlsh/internal/plot"
	"github.com/roach88/tqlsh/internal/session"
)

// GraphOptions holds flags for the graph command.
type GraphOptions struct {
	*RootOptions
	Fixture     string
	Database    string
	Transaction string
	Graph       string
}

// NewGraphCommand creates the graph command.
func NewGraphCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GraphOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "graph <query|->",
		Short: "Run a match query and draw its answer graph",
		Long: `Run a match query against a fixture database and print the answer
graph as Graphviz DOT or JSON.

Entities are drawn as blue ellipses, relations as green diamonds and
attributes as orange boxes. Vertices and edges shared by several answers
are drawn once.

Examples:
  tqlsh graph --fixture social.yaml --db social 'match $m isa marriage, links (husband: $h);'
  tqlsh graph --fixture social.yaml --db social --graph json - < query.tql | jq .
  tqlsh graph --fixture social.yaml --db social - < query.tql | dot -Tsvg > answers.svg`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(opts, cmd, args)
		},
	}

	cmd.Flags().StringVar(&opts.Fixture, "fixture", "", "path to a fixture file (required)")
	_ = cmd.MarkFlagRequired("fixture")
	cmd.Flags().StringVar(&opts.Database, "db", "", "database to query (defaults to the configured database)")
	cmd.Flags().StringVarP(&opts.Transaction, "tx", "t", "", "transaction type override (read|write|schema)")
	cmd.Flags().StringVar(&opts.Graph, "graph", "", "graph rendering (dot|json, defaults to the configured graph format)")

	return cmd
}

func runGraph(opts *GraphOptions, cmd *cobra.Command, args []string) error {
	formatter := opts.formatter(cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	query, err := readQuery(cmd, args)
	if err != nil {
		return err
	}
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	database := opts.Database
	if database == "" {
		database = cfg.Database
	}
	if database == "" {
		return formatter.Fail("no database", ir.NewArgumentError("No database given. Use --db or set database in the config."))
	}
	graphFormat := opts.Graph
	if graphFormat == "" {
		graphFormat = cfg.Graph
	}
	format, err := plot.ParseFormat(graphFormat)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid graph format", err)
	}

	m := newManager(cfg)
	if err := m.Open(ctx, session.Address{Kind: "fixture", Address: opts.Fixture}); err != nil {
		return WrapExitError(ExitCommandError, "failed to open fixture", err)
	}
	defer func() {
		if closeErr := m.Close(); closeErr != nil {
			slog.Error("error closing connection", "error", closeErr)
		}
	}()

	res, err := m.Run(ctx, database, query, opts.Transaction)
	if err != nil {
		return formatter.Fail("query failed", err)
	}
	if res.Answer.Kind != session.AnswerRows {
		return formatter.Fail("nothing to draw",
			ir.NewArgumentError("A %s query returns no concept rows to draw.", res.Type))
	}
	formatter.VerboseLog("%d answer(s) from %s (%s transaction)", res.Answer.Len(), database, res.Transaction)

	p, err := visualise(query, res.Answer.Rows)
	if err != nil {
		return formatter.Fail("cannot build answer graph", err)
	}
	slog.Debug("answer graph built", "nodes", len(p.Nodes), "edges", len(p.Edges))
	return p.Render(formatter.Writer, format)
}
