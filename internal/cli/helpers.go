package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mrz1836/corecall/internal/envelope"
	"github.com/mrz1836/corecall/internal/output"
	coreerr "github.com/mrz1836/corecall/pkg/errors"
)

// out is a helper for CLI output with format.
//
//nolint:errcheck // CLI output writes to stdout are intentionally unchecked
func out(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}

// outln is a helper for CLI output with newline.
//
//nolint:errcheck // CLI output writes to stdout are intentionally unchecked
func outln(w io.Writer, args ...any) {
	fmt.Fprintln(w, args...)
}

// parseAmount parses a positive amount of octas.
func parseAmount(s string) (uint64, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || n == 0 {
		return 0, coreerr.WithSuggestion(
			coreerr.WithDetails(coreerr.ErrInvalidInput, map[string]string{"amount": s}),
			"amounts are whole numbers of octas greater than zero",
		)
	}
	return n, nil
}

// parseSignedPayload parses "<public key>:<signature>".
func parseSignedPayload(s string) (*envelope.SignedPayload, error) {
	pub, sig, ok := strings.Cut(s, ":")
	if !ok || pub == "" || sig == "" {
		return nil, coreerr.WithSuggestion(
			coreerr.WithDetails(coreerr.ErrInvalidInput, map[string]string{"signature": s}),
			"pass each signature as <public key>:<signature>",
		)
	}
	return &envelope.SignedPayload{PublicKey: pub, Signature: sig}, nil
}

// writeTransactions renders transaction summaries as a table.
func writeTransactions(w io.Writer, txns []*envelope.Transaction) error {
	if len(txns) == 0 {
		outln(w, "No transactions.")
		return nil
	}
	table := output.NewTable("HASH", "TYPE", "SEQUENCE")
	for _, tx := range txns {
		table.AddRow(tx.Hash, tx.Type, tx.SequenceNumber)
	}
	return table.Render(w)
}
