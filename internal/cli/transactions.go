package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// transactionsCmd lists transactions sent from an address.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var transactionsCmd = &cobra.Command{
	Use:     "transactions <address>",
	Aliases: []string{"txs"},
	Short:   "List transactions sent from an address",
	Args:    cobra.ExactArgs(1),
	RunE:    runTransactions,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	transactionsCmd.GroupID = "wallet"
	rootCmd.AddCommand(transactionsCmd)
}

func runTransactions(cmd *cobra.Command, args []string) error {
	w, err := openWallet()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	txns, err := w.Transactions(ctx, args[0])
	if err != nil {
		return err
	}
	return formatter.Render(cmd.OutOrStdout(), txns, func(w io.Writer) error {
		return writeTransactions(w, txns)
	})
}
