package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/corecall/internal/envelope"
	"github.com/mrz1836/corecall/internal/fileutil"
	coreerr "github.com/mrz1836/corecall/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	txFrom       string
	txTo         string
	txAmount     string
	txDocument   string
	txKeypair    string
	txSignatures []string
)

// txCmd is the parent command for transaction operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "Build, sign and submit transfers",
	Long: `Transfers go through three steps so that each signer can sign offline:
create builds the unsigned transaction, sign produces one signature, and
submit sends the transaction with every signature attached.

A transaction argument is the JSON text itself, @path to read it from a
file, or - to read it from standard input.`,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var txCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Build an unsigned transfer",
	Long: `Build an unsigned coin transfer with the sender's next sequence number.

Example:
  corecall tx create --from 0x2d3c... --to 0x9a1f... --amount 100 > txn.json`,
	Args: cobra.NoArgs,
	RunE: runTxCreate,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var txSignCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign a transaction with a keypair",
	Long: `Sign a transaction with the hex keypair printed by 'account create'.

Example:
  corecall tx sign --txn @txn.json --keypair 0x...`,
	Args: cobra.NoArgs,
	RunE: runTxSign,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var txSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a signed transaction",
	Long: `Submit a transaction with one --sig per signer, each as
<public key>:<signature>. Several signatures make a shared wallet submission.

Example:
  corecall tx submit --txn @txn.json --sig 0x5d1c...:0x8f02...`,
	Args: cobra.NoArgs,
	RunE: runTxSubmit,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	txCmd.GroupID = "wallet"
	rootCmd.AddCommand(txCmd)
	txCmd.AddCommand(txCreateCmd, txSignCmd, txSubmitCmd)

	txCreateCmd.Flags().StringVar(&txFrom, "from", "", "sender address")
	txCreateCmd.Flags().StringVar(&txTo, "to", "", "recipient address")
	txCreateCmd.Flags().StringVar(&txAmount, "amount", "", "octas to transfer")
	for _, name := range []string{"from", "to", "amount"} {
		_ = txCreateCmd.MarkFlagRequired(name)
	}

	txSignCmd.Flags().StringVar(&txDocument, "txn", "", "transaction JSON, @file or -")
	txSignCmd.Flags().StringVar(&txKeypair, "keypair", "", "hex keypair of the signer")
	_ = txSignCmd.MarkFlagRequired("txn")
	_ = txSignCmd.MarkFlagRequired("keypair")

	txSubmitCmd.Flags().StringVar(&txDocument, "txn", "", "transaction JSON, @file or -")
	txSubmitCmd.Flags().StringArrayVar(&txSignatures, "sig", nil, "signature as <public key>:<signature>, repeatable")
	_ = txSubmitCmd.MarkFlagRequired("txn")
	_ = txSubmitCmd.MarkFlagRequired("sig")
}

func runTxCreate(cmd *cobra.Command, _ []string) error {
	amount, err := parseAmount(txAmount)
	if err != nil {
		return err
	}
	w, err := openWallet()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	txn, err := w.CreateTransaction(ctx, txFrom, txTo, amount)
	if err != nil {
		return err
	}
	// The transaction is already JSON; print it as is in every format.
	outln(cmd.OutOrStdout(), txn)
	return nil
}

func runTxSign(cmd *cobra.Command, _ []string) error {
	txn, err := readDocument(cmd.InOrStdin(), txDocument)
	if err != nil {
		return err
	}
	w, err := openWallet()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	sig, err := w.SignTransaction(ctx, txn, txKeypair)
	if err != nil {
		return err
	}
	result := struct {
		Signature string `json:"signature"`
	}{sig}
	return formatter.Render(cmd.OutOrStdout(), result, func(w io.Writer) error {
		outln(w, sig)
		return nil
	})
}

func runTxSubmit(cmd *cobra.Command, _ []string) error {
	txn, err := readDocument(cmd.InOrStdin(), txDocument)
	if err != nil {
		return err
	}
	payloads := make([]*envelope.SignedPayload, 0, len(txSignatures))
	for _, s := range txSignatures {
		p, err := parseSignedPayload(s)
		if err != nil {
			return err
		}
		payloads = append(payloads, p)
	}

	w, err := openWallet()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	tx, err := w.SubmitTransaction(ctx, txn, payloads)
	if err != nil {
		return err
	}
	return formatter.Render(cmd.OutOrStdout(), tx, func(w io.Writer) error {
		formatter.Successf(w, "Transaction submitted")
		out(w, "  Hash: %s\n", tx.Hash)
		return nil
	})
}

// readDocument resolves a transaction argument: literal text, @path, or -
// for stdin.
// maxDocumentSize bounds transaction documents read from files.
const maxDocumentSize = 1 << 20

func readDocument(stdin io.Reader, arg string) (string, error) {
	var (
		b   []byte
		err error
	)
	switch {
	case arg == "-":
		b, err = io.ReadAll(stdin)
	case strings.HasPrefix(arg, "@"):
		b, err = fileutil.ReadBounded(arg[1:], maxDocumentSize)
	default:
		b = []byte(arg)
	}
	if err != nil {
		return "", coreerr.Wrap(err, "read transaction")
	}

	doc := strings.TrimSpace(string(b))
	if doc == "" {
		return "", coreerr.WithDetails(coreerr.ErrInvalidTransaction, map[string]string{"reason": "empty"})
	}
	return doc, nil
}
