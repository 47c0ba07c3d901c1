package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// fundCmd mints coins to an address.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var fundCmd = &cobra.Command{
	Use:   "fund <address> <amount>",
	Short: "Mint coins to an address from the faucet",
	Long: `Ask the faucet to mint an amount of octas to an address. The faucet is
not retried: a failed mint may still have landed.

Example:
  corecall fund 0x2d3c... 5000`,
	Args: cobra.ExactArgs(2),
	RunE: runFund,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	fundCmd.GroupID = "wallet"
	rootCmd.AddCommand(fundCmd)
}

func runFund(cmd *cobra.Command, args []string) error {
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}
	w, err := openWallet()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	txns, err := w.Fund(ctx, args[0], amount)
	if err != nil {
		return err
	}
	return formatter.Render(cmd.OutOrStdout(), txns, func(w io.Writer) error {
		formatter.Successf(w, "Minted %d octas to %s", amount, args[0])
		return writeTransactions(w, txns)
	})
}
