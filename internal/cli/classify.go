package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tqlsh/internal/classify"
)

// ClassifyOptions holds flags for the classify command.
type ClassifyOptions struct {
	*RootOptions
	Transaction string
}

// ClassifyResult is the classify command's output.
type ClassifyResult struct {
	QueryType   classify.QueryType       `json:"query_type"`
	Transaction classify.TransactionType `json:"transaction"`
}

// NewClassifyCommand creates the classify command.
func NewClassifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClassifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "classify <query|->",
		Short: "Print a query's type and transaction",
		Long: `Classify a query by its top-level keywords and print the
transaction it would run in.

Keywords inside string literals and comments are ignored.

Examples:
  tqlsh classify 'match $x isa person; get;'
  tqlsh classify --tx write 'insert $x isa person;'
  echo 'define person sub entity;' | tqlsh classify -`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(opts, cmd, args)
		},
	}

	cmd.Flags().StringVarP(&opts.Transaction, "tx", "t", "", "transaction type override (read|write|schema)")

	return cmd
}

func runClassify(opts *ClassifyOptions, cmd *cobra.Command, args []string) error {
	formatter := opts.formatter(cmd)

	query, err := readQuery(cmd, args)
	if err != nil {
		return err
	}
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	qt, err := classify.Classify(query)
	if err != nil {
		return formatter.Fail("classification failed", err)
	}
	tx, err := classify.TransactionFor(qt, opts.Transaction, cfg.StrictTransactions)
	if err != nil {
		return formatter.Fail("no transaction for query", err)
	}
	formatter.VerboseLog("tokens: %q", classify.Tokenize(query))

	result := ClassifyResult{QueryType: qt, Transaction: tx}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "%s (%s transaction)\n", qt, tx)
	return nil
}
