package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/tqlsh/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	History   string
	SessionID string
	QueryType string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List queries run in past shell sessions",
		Long: `List the cells recorded by the shell, ordered by session and then by
their position in the session.

Examples:
  tqlsh history
  tqlsh history --type insert
  tqlsh history --session 0190a4c2-8d1e-7b3a-9f00-2c4d5e6f7a8b --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.History, "history", "", "path to the history database (defaults to the configured path)")
	cmd.Flags().StringVar(&opts.SessionID, "session", "", "only cells of this session")
	cmd.Flags().StringVar(&opts.QueryType, "type", "", "only cells of this query type")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := opts.openStore(opts.History)
	if err != nil {
		return err
	}
	defer st.Close()

	cells, err := st.Cells(ctx, store.CellFilter{SessionID: opts.SessionID, QueryType: opts.QueryType})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read history", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(cells)
	}
	if len(cells) == 0 {
		fmt.Fprintln(formatter.Writer, "No history.")
		return nil
	}
	tw := tabwriter.NewWriter(formatter.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SESSION\tSEQ\tTYPE\tDATABASE\tTX\tANSWERS\tQUERY")
	for _, c := range cells {
		answers := fmt.Sprint(c.Answers)
		if c.Error != "" {
			answers = "error"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			shortID(c.SessionID), c.Seq, orDash(c.QueryType), orDash(c.Database),
			orDash(c.Transaction), answers, firstLine(c.Query))
	}
	return tw.Flush()
}

// openStore opens the history database at path, or at the configured
// path when path is empty.
func (o *RootOptions) openStore(path string) (*store.Store, error) {
	if path == "" {
		cfg, err := o.loadConfig()
		if err != nil {
			return nil, err
		}
		if path, err = cfg.HistoryPath(); err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to locate history", err)
		}
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open history", err)
	}
	return st, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// firstLine returns the first non-blank line of s, marked with "..." when
// more follows.
func firstLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	first := strings.TrimSpace(lines[0])
	if len(lines) > 1 {
		return first + " ..."
	}
	return first
}
