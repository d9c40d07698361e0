package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tqlsh/internal/config"
	"github.com/roach88/tqlsh/internal/fixture"
	"github.com/roach88/tqlsh/internal/ir"
	"github.com/roach88/tqlsh/internal/session"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the tqlsh CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "tqlsh",
		Short: "tqlsh - a TypeQL query shell",
		Long: `A TypeQL query shell that classifies queries, runs them in the right
transaction and draws their answers as a graph.`,
		Version: ir.ShellVersion,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			setupLogging(cmd.ErrOrStderr(), opts.Verbose)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a CUE configuration file")

	cmd.AddCommand(NewClassifyCommand(opts))
	cmd.AddCommand(NewParseCommand(opts))
	cmd.AddCommand(NewGraphCommand(opts))
	cmd.AddCommand(NewShellCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// setupLogging installs the default slog logger: text on w, Debug when
// verbose and Info otherwise.
func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

func (o *RootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	return cfg, nil
}

// readQuery returns the query named by args: the joined arguments, or
// all of stdin when the only argument is "-".
func readQuery(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", WrapExitError(ExitCommandError, "failed to read query from stdin", err)
		}
		return string(data), nil
	}
	return strings.Join(args, " "), nil
}

// dial opens drivers for the connection kinds this build supports.
func dial(ctx context.Context, addr session.Address) (session.Driver, error) {
	switch addr.Kind {
	case "", "fixture":
		return fixture.Dial(ctx, addr)
	}
	return nil, ir.NewArgumentError("No driver for %q connections in this build. Use a fixture.", addr.Kind)
}

// parseAddress splits "kind://address". A bare address is a fixture path.
func parseAddress(s string) session.Address {
	if kind, addr, ok := strings.Cut(s, "://"); ok {
		return session.Address{Kind: kind, Address: addr}
	}
	return session.Address{Kind: "fixture", Address: s}
}

// newManager builds a session manager configured from cfg.
func newManager(cfg *config.Config) *session.Manager {
	return session.NewManager(dial,
		session.WithCreateDatabase(cfg.CreateDatabase),
		session.WithStrictTransactions(cfg.StrictTransactions),
		session.WithLogger(slog.Default()),
	)
}
