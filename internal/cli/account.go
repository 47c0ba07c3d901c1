package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/corecall/internal/envelope"
	"github.com/mrz1836/corecall/internal/output"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	// accountFund is the faucet amount minted to a new account.
	accountFund uint64
	// accountQR draws the address as a QR code on terminals.
	accountQR bool
)

// accountCmd is the parent command for account operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Create or restore single-key accounts",
	Long:  `Create a new ed25519 account from a fresh BIP39 mnemonic, or restore one from its phrase.`,
}

// accountCreateCmd creates a new account.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var accountCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new account",
	Long: `Generate a mnemonic and derive an account from it. With --fund the
faucet mints that many octas to the new account before it is returned.

Example:
  corecall account create
  corecall account create --fund 5000 --qr`,
	Args: cobra.NoArgs,
	RunE: runAccountCreate,
}

// accountRestoreCmd restores an account from its mnemonic.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var accountRestoreCmd = &cobra.Command{
	Use:   "restore <mnemonic words...>",
	Short: "Restore an account from its mnemonic",
	Long: `Rebuild the account behind a BIP39 phrase. The phrase is checked before
it reaches the core and misspelled words come back with suggestions.

Example:
  corecall account restore "abandon abandon ... about"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAccountRestore,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	accountCmd.GroupID = "wallet"
	rootCmd.AddCommand(accountCmd)
	accountCmd.AddCommand(accountCreateCmd, accountRestoreCmd)

	accountCreateCmd.Flags().Uint64Var(&accountFund, "fund", 0, "octas to mint to the new account")
	accountCreateCmd.Flags().BoolVar(&accountQR, "qr", false, "show the address as a QR code")
}

func runAccountCreate(cmd *cobra.Command, _ []string) error {
	w, err := openWallet()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	acct, err := w.CreateAccount(ctx, accountFund)
	if err != nil {
		return err
	}
	return displayAccount(cmd.OutOrStdout(), acct, true)
}

func runAccountRestore(cmd *cobra.Command, args []string) error {
	w, err := openWallet()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	acct, err := w.RestoreAccount(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	return displayAccount(cmd.OutOrStdout(), acct, false)
}

func displayAccount(w io.Writer, acct *envelope.CreateAccountResponse, created bool) error {
	return formatter.Render(w, acct, func(w io.Writer) error {
		if created {
			formatter.Successf(w, "Account created")
		} else {
			formatter.Successf(w, "Account restored")
		}
		outln(w)
		out(w, "  Address:    %s\n", acct.Address)
		out(w, "  Public key: %s\n", acct.PublicKey)
		out(w, "  Keypair:    %s\n", acct.Keypair)
		if created {
			outln(w)
			outln(w, "  Mnemonic (write it down, it is shown only once):")
			out(w, "    %s\n", acct.Mnemonic)
		}
		if len(acct.FundingTransactions) > 0 {
			outln(w)
			outln(w, "  Funding transactions:")
			for _, tx := range acct.FundingTransactions {
				out(w, "    %s\n", tx.Hash)
			}
		}
		if accountQR {
			outln(w)
			return output.RenderQR(w, acct.Address, output.DefaultQRConfig())
		}
		return nil
	})
}
