package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tqlsh/internal/parser"
	"github.com/roach88/tqlsh/internal/querygraph"
)

// ParseResult is the parse command's output.
type ParseResult struct {
	Constraints []string `json:"constraints"`
	Edges       []string `json:"edges"`
	Variables   []string `json:"variables"`
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <query|->",
		Short: "Print a match clause's constraints and query graph",
		Long: `Parse the match clause of a query into constraints and print the
query graph built from them.

Anything from the first stage keyword (get, fetch, insert, ...) on is
ignored.

Examples:
  tqlsh parse 'match $x isa cow, has name "Spider Georg";'
  tqlsh parse --format json - < query.tql`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(rootOpts, cmd, args)
		},
	}

	return cmd
}

func runParse(opts *RootOptions, cmd *cobra.Command, args []string) error {
	formatter := opts.formatter(cmd)

	query, err := readQuery(cmd, args)
	if err != nil {
		return err
	}
	m, err := parser.ParseQuery(query)
	if err != nil {
		return formatter.Fail("parse failed", err)
	}
	qg := querygraph.Build(m)
	formatter.VerboseLog("%d constraint(s), %d edge(s)", len(m.Constraints), len(qg.Edges))

	result := ParseResult{
		Constraints: make([]string, 0, len(m.Constraints)),
		Edges:       make([]string, 0, len(qg.Edges)),
		Variables:   make([]string, 0),
	}
	for _, c := range m.Constraints {
		result.Constraints = append(result.Constraints, c.String())
	}
	for _, e := range qg.Edges {
		result.Edges = append(result.Edges, e.String())
	}
	for _, v := range qg.Vars() {
		result.Variables = append(result.Variables, v.String())
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	printSection(formatter, "Constraints", result.Constraints)
	printSection(formatter, "Edges", result.Edges)
	printSection(formatter, "Variables", result.Variables)
	return nil
}

func printSection(f *OutputFormatter, title string, lines []string) {
	fmt.Fprintf(f.Writer, "%s:\n", title)
	if len(lines) == 0 {
		fmt.Fprintln(f.Writer, "  (none)")
	}
	for _, l := range lines {
		fmt.Fprintf(f.Writer, "  %s\n", l)
	}
}
