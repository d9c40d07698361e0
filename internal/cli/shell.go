package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/tqlsh/internal/classify"
	"github.com/roach88/tqlsh/internal/config"
	"github.com/roach88/tqlsh/internal/ir"
	"github.com/roach88/tqlsh/internal/plot"
	"github.com/roach88/tqlsh/internal/session"
	"github.com/roach88/tqlsh/internal/store"
)

// ShellOptions holds flags for the shell command.
type ShellOptions struct {
	*RootOptions
	Fixture   string
	Database  string
	History   string
	NoHistory bool
	Resume    string
	Visualise bool

	// SessionIDs allows overriding the session ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	SessionIDs session.IDGenerator
}

// NewShellCommand creates the shell command.
func NewShellCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShellOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive query shell",
		Long: `Start an interactive shell.

Type a query over one or more lines and end it with a blank line to run
it. Lines starting with % are shell commands:

  %connect open [kind://]address | close | status
  %database list | use NAME | create NAME | recreate NAME | delete NAME | schema NAME
  %transaction open [DATABASE] read|write|schema | close | commit | rollback
  %visualise on | off
  %help

Outside a transaction each query runs in a transaction of its own on the
selected database, committed for writes and closed for reads.

Examples:
  tqlsh shell --fixture social.yaml --db social
  tqlsh shell --fixture social.yaml --visualise --no-history < session.tql`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Fixture, "fixture", "", "fixture file to connect to on start")
	cmd.Flags().StringVar(&opts.Database, "db", "", "database for queries run outside a transaction")
	cmd.Flags().StringVar(&opts.History, "history", "", "path to the history database (defaults to the configured path)")
	cmd.Flags().BoolVar(&opts.NoHistory, "no-history", false, "do not record queries")
	cmd.Flags().StringVar(&opts.Resume, "resume", "", "continue recording into an earlier session")
	cmd.Flags().BoolVar(&opts.Visualise, "visualise", false, "draw the answer graph of match queries")

	return cmd
}

func runShell(opts *ShellOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	output := cfg.Output
	if cmd.Flags().Changed("format") {
		output = opts.Format
	}
	graph, err := plot.ParseFormat(cfg.Graph)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid graph format", err)
	}

	sh := &Shell{
		Manager:   newManager(cfg),
		Config:    cfg,
		Out:       cmd.OutOrStdout(),
		Output:    output,
		Graph:     graph,
		Database:  firstNonEmpty(opts.Database, cfg.Database),
		Visualise: opts.Visualise,
	}
	defer func() {
		if closeErr := sh.Manager.Close(); closeErr != nil {
			slog.Error("error closing connection", "error", closeErr)
		}
	}()

	var addr *session.Address
	switch {
	case opts.Fixture != "":
		addr = &session.Address{Kind: "fixture", Address: opts.Fixture}
	case cfg.Connection != nil:
		a := cfg.Connection.Address()
		addr = &a
	}
	if addr != nil {
		if err := sh.Manager.Open(ctx, *addr); err != nil {
			return WrapExitError(ExitCommandError, "failed to connect", err)
		}
	}

	if opts.NoHistory && opts.Resume != "" {
		return NewExitError(ExitCommandError, "--resume needs history; drop --no-history")
	}
	if !opts.NoHistory {
		st, err := opts.openStore(opts.History)
		if err != nil {
			return err
		}
		defer st.Close()

		ids := opts.SessionIDs
		if ids == nil {
			ids = session.UUIDv7Generator{}
		}
		sess := store.Session{
			ID:           opts.Resume,
			StartedAt:    time.Now(),
			ShellVersion: ir.ShellVersion,
		}
		if sess.ID == "" {
			sess.ID = ids.Generate()
		}
		if addr != nil {
			sess.Address = addr.String()
		}
		if err := st.StartSession(ctx, sess); err != nil {
			return WrapExitError(ExitCommandError, "failed to start history session", err)
		}
		clock, err := st.ResumeClock(ctx, sess.ID)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to resume history session", err)
		}
		sh.History = st
		sh.SessionID = sess.ID
		sh.Clock = clock
		slog.Debug("history session started", "session", sess.ID, "seq", clock.Current())
	}

	return sh.Run(ctx, cmd.InOrStdin())
}

// Shell is the interactive read-eval-print loop. Input lines accumulate
// into a cell that runs at the next blank line.
type Shell struct {
	Manager   *session.Manager
	Config    *config.Config
	Out       io.Writer
	Output    string // "text" | "json"
	Graph     plot.Format
	Database  string
	Visualise bool

	// History records executed cells under SessionID. Nil disables it.
	History   *store.Store
	SessionID string

	// Clock numbers cells. Nil starts a new count at 1.
	Clock *store.Clock
}

// Run reads commands and cells from in until EOF or "exit". A cell still
// pending at EOF is run.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var cell []string
	for {
		fmt.Fprint(s.Out, s.prompt(len(cell) > 0))

		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if len(cell) == 0 {
			switch {
			case trimmed == "":
				continue
			case trimmed == "exit" || trimmed == "quit":
				fmt.Fprintln(s.Out)
				return nil
			case strings.HasPrefix(trimmed, "%"):
				s.handleCommand(ctx, trimmed)
				continue
			}
		}
		if trimmed == "" {
			s.execute(ctx, strings.Join(cell, "\n"))
			cell = nil
			continue
		}
		cell = append(cell, line)
	}
	fmt.Fprintln(s.Out)
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if len(cell) > 0 {
		s.execute(ctx, strings.Join(cell, "\n"))
	}
	return nil
}

func (s *Shell) prompt(continuation bool) string {
	if continuation {
		return "... "
	}
	if tx, err := s.Manager.ActiveTransaction(); err == nil {
		return fmt.Sprintf("%s::%s> ", tx.Database(), tx.Type())
	}
	if s.Database != "" {
		return s.Database + "> "
	}
	return "tqlsh> "
}

// execute runs one cell and records it.
func (s *Shell) execute(ctx context.Context, text string) {
	if s.Clock == nil {
		s.Clock = store.NewClock()
	}
	cell := store.Cell{SessionID: s.SessionID, Seq: s.Clock.Next(), Query: text}

	res, err := s.run(ctx, text)
	if err != nil {
		s.printError(err)
		cell.Error = err.Error()
		if qt, cerr := classify.Classify(text); cerr == nil {
			cell.QueryType = string(qt)
		}
		s.record(ctx, cell)
		return
	}
	cell.QueryType = string(res.Type)
	cell.Database = res.Database
	cell.Transaction = string(res.Transaction)
	cell.Answers = res.Answer.Len()
	s.record(ctx, cell)

	if err := s.printResult(res); err != nil {
		s.printError(err)
	}
}

func (s *Shell) run(ctx context.Context, text string) (*session.Result, error) {
	if _, err := s.Manager.ActiveTransaction(); err == nil {
		return s.Manager.Query(ctx, text)
	}
	if s.Database == "" {
		return nil, ir.NewArgumentError("No database selected. Use `%%database use NAME` or `%%transaction open`.")
	}
	return s.Manager.Run(ctx, s.Database, text, "")
}

func (s *Shell) record(ctx context.Context, cell store.Cell) {
	if s.History == nil {
		return
	}
	if _, err := s.History.RecordCell(ctx, cell); err != nil {
		slog.Warn("failed to record cell", "seq", cell.Seq, "error", err)
	}
}

// ResultJSON is a query result in JSON output mode.
type ResultJSON struct {
	QueryType   classify.QueryType       `json:"query_type"`
	Database    string                   `json:"database"`
	Transaction classify.TransactionType `json:"transaction"`
	Kind        session.AnswerKind       `json:"kind"`
	Rows        []map[string]ConceptJSON `json:"rows,omitempty"`
	Documents   []map[string]any         `json:"documents,omitempty"`
	Graph       *plot.Plot               `json:"graph,omitempty"`
}

func (s *Shell) printResult(res *session.Result) error {
	var p *plot.Plot
	if s.Visualise && res.Answer.Kind == session.AnswerRows && res.Answer.Len() > 0 {
		var err error
		if p, err = visualise(res.Query, res.Answer.Rows); err != nil {
			slog.Warn("cannot draw answers", "error", err)
			fmt.Fprintf(s.Out, "Cannot draw answers: %v\n", err)
			p = nil
		}
	}

	if s.Output == "json" {
		return json.NewEncoder(s.Out).Encode(ResultJSON{
			QueryType:   res.Type,
			Database:    res.Database,
			Transaction: res.Transaction,
			Kind:        res.Answer.Kind,
			Rows:        rowsJSON(res.Answer.Rows),
			Documents:   res.Answer.Documents,
			Graph:       p,
		})
	}

	if s.Config.ShowInfo {
		inference := ""
		if s.Config.GlobalInference {
			inference = ", inference on"
		}
		fmt.Fprintf(s.Out, "# %s query on %s (%s transaction%s)\n", res.Type, res.Database, res.Transaction, inference)
	}
	if err := writeAnswer(s.Out, res.Answer); err != nil {
		return err
	}
	if p != nil {
		return p.Render(s.Out, s.Graph)
	}
	return nil
}

func (s *Shell) printError(err error) {
	fmt.Fprintf(s.Out, "Error [%s]: %v\n", ErrorCode(err), err)
	if se, ok := errorDetails(err).(map[string]any); ok {
		fmt.Fprintf(s.Out, "  at line %v, column %v\n", se["line"], se["column"])
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
