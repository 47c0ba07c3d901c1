package cli

import (
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/corecall/internal/output"
)

// accountBalance is the balance of one address.
type accountBalance struct {
	Address string `json:"address"`
	Balance uint64 `json:"balance"`
}

// balanceCmd reads balances.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var balanceCmd = &cobra.Command{
	Use:   "balance <address>...",
	Short: "Show the coin balance of one or more addresses",
	Long: `Read the coin balance of each address. Several addresses are queried
concurrently, each as its own core call; the first failure stops the rest.

Example:
  corecall balance 0x2d3c...
  corecall balance 0x2d3c... 0x9a1f... -o json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBalance,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	balanceCmd.GroupID = "wallet"
	rootCmd.AddCommand(balanceCmd)
}

func runBalance(cmd *cobra.Command, args []string) error {
	w, err := openWallet()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	balances := make([]accountBalance, len(args))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, cfg.Core.Workers))
	for i, addr := range args {
		g.Go(func() error {
			n, err := w.Balance(gctx, addr)
			if err != nil {
				return err
			}
			balances[i] = accountBalance{Address: addr, Balance: n}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return formatter.Render(cmd.OutOrStdout(), balances, func(w io.Writer) error {
		table := output.NewTable("ADDRESS", "BALANCE")
		for _, b := range balances {
			table.AddRow(b.Address, strconv.FormatUint(b.Balance, 10))
		}
		return table.Render(w)
	})
}
