package aptos

import (
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"

	coreerr "github.com/mrz1836/corecall/pkg/errors"
)

// maxAddressHexLen is the length of a full 32-byte address in hex digits.
const maxAddressHexLen = 64

// decodeHex decodes s with or without a 0x prefix.
func decodeHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if !has0xPrefix(s) {
		s = "0x" + s
	}
	return hexutil.Decode(s)
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// NormalizeAddress returns addr as 0x-prefixed lowercase hex. Short forms
// such as 0x1 are kept short.
func NormalizeAddress(addr string) (string, error) {
	digits := strings.ToLower(strings.TrimSpace(addr))
	if has0xPrefix(digits) {
		digits = digits[2:]
	}
	if digits == "" || len(digits) > maxAddressHexLen {
		return "", coreerr.WithDetails(coreerr.ErrInvalidAddress, map[string]string{"address": addr})
	}

	padded := digits
	if len(padded)%2 == 1 {
		padded = "0" + padded
	}
	if _, err := hexutil.Decode("0x" + padded); err != nil {
		return "", coreerr.WithDetails(coreerr.ErrInvalidAddress, map[string]string{"address": addr})
	}
	return "0x" + digits, nil
}

// stripHexPrefix returns s without a leading 0x.
func stripHexPrefix(s string) string {
	if has0xPrefix(s) {
		return s[2:]
	}
	return s
}
