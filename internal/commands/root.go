package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/books/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "books",
		Short:   "Ledger statements and bank reconciliation over a books directory",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&a.dir, "books", ".", "books directory")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (overrides config)")

	rootCmd.AddCommand(
		newInitCommand(),
		newLedgerCommand(a),
		newTrialBalanceCommand(a),
		newBalanceSheetCommand(a),
		newProfitLossCommand(a),
		newAgeingCommand(a),
		newReportCommand(a),
		newReconCommand(a),
		newServeCommand(a),
	)
	return rootCmd
}
