package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// walletCmd is the parent command for shared wallet operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage shared wallets",
	Long:  `Shared wallets are multi-key accounts that every listed key signs for.`,
}

// walletCreateCmd derives a shared wallet address.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var walletCreateCmd = &cobra.Command{
	Use:   "create <public key>...",
	Short: "Derive a shared wallet address from public keys",
	Long: `Derive the address of a shared wallet from the public keys of its members.
The order of the keys matters.

Example:
  corecall wallet create 0x5d1c... 0x7be2... 0x0a44...`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWalletCreate,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	walletCmd.GroupID = "wallet"
	rootCmd.AddCommand(walletCmd)
	walletCmd.AddCommand(walletCreateCmd)
}

func runWalletCreate(cmd *cobra.Command, args []string) error {
	w, err := openWallet()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	addr, err := w.CreateWallet(ctx, args)
	if err != nil {
		return err
	}

	result := struct {
		Address    string   `json:"address"`
		PublicKeys []string `json:"public_keys"`
	}{addr, args}
	return formatter.Render(cmd.OutOrStdout(), result, func(w io.Writer) error {
		formatter.Successf(w, "Shared wallet derived from %d keys", len(args))
		out(w, "  Address: %s\n", addr)
		return nil
	})
}
