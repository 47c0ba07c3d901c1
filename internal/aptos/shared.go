package aptos

import (
	"crypto/ed25519"
	"encoding/binary"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"

	coreerr "github.com/mrz1836/corecall/pkg/errors"
)

// MaxSharedKeys is the largest key set a multi-ed25519 wallet may hold.
const MaxSharedKeys = 32

// ParsePublicKey decodes a hex ed25519 public key.
func ParsePublicKey(s string) (ed25519.PublicKey, error) {
	b, err := decodeHex(s)
	if err != nil || len(b) != ed25519.PublicKeySize {
		return nil, coreerr.WithDetails(coreerr.ErrInvalidPublicKey, map[string]string{"public_key": s})
	}
	return ed25519.PublicKey(b), nil
}

// SharedWalletAddress derives the address of a wallet that requires
// threshold of the given keys to sign. Key order matters.
func SharedWalletAddress(publicKeys []string, threshold int) (string, error) {
	keys, err := parseKeySet(publicKeys, threshold)
	if err != nil {
		return "", err
	}
	parts := make([][]byte, 0, len(keys)+1)
	for _, k := range keys {
		parts = append(parts, k)
	}
	parts = append(parts, []byte{byte(threshold)})
	return hexutil.Encode(authKey(schemeMultiEd25519, parts...)), nil
}

func parseKeySet(publicKeys []string, threshold int) ([]ed25519.PublicKey, error) {
	if len(publicKeys) == 0 || len(publicKeys) > MaxSharedKeys {
		return nil, coreerr.WithDetails(coreerr.ErrInvalidPublicKey, map[string]string{
			"keys": strconv.Itoa(len(publicKeys)),
		})
	}
	if threshold < 1 || threshold > len(publicKeys) {
		return nil, coreerr.WithDetails(coreerr.ErrInvalidInput, map[string]string{
			"threshold": strconv.Itoa(threshold),
		})
	}
	keys := make([]ed25519.PublicKey, len(publicKeys))
	for i, s := range publicKeys {
		k, err := ParsePublicKey(s)
		if err != nil {
			return nil, err
		}
		keys[i] = k
	}
	return keys, nil
}

// SignedPayload is one signer's public key and signature over a signing
// message, both hex.
type SignedPayload struct {
	PublicKey string
	Signature string
}

// Ed25519Signature is the transaction authenticator of a single-key account.
type Ed25519Signature struct {
	Type      string `json:"type"`
	PublicKey string `json:"public_key"`
	Signature string `json:"signature"`
}

// MultiEd25519Signature is the transaction authenticator of a shared wallet.
type MultiEd25519Signature struct {
	Type       string   `json:"type"`
	PublicKeys []string `json:"public_keys"`
	Signatures []string `json:"signatures"`
	Threshold  int      `json:"threshold"`
	Bitmap     string   `json:"bitmap"`
}

// SignatureFor builds the authenticator for payloads. One payload yields an
// ed25519 signature; several yield a multi-ed25519 signature in which every
// listed key signed.
func SignatureFor(payloads []SignedPayload) (any, error) {
	if len(payloads) == 0 || len(payloads) > MaxSharedKeys {
		return nil, coreerr.WithDetails(coreerr.ErrInvalidTransaction, map[string]string{
			"signatures": strconv.Itoa(len(payloads)),
		})
	}

	keys := make([]string, len(payloads))
	sigs := make([]string, len(payloads))
	for i, p := range payloads {
		k, err := ParsePublicKey(p.PublicKey)
		if err != nil {
			return nil, err
		}
		s, err := decodeHex(p.Signature)
		if err != nil || len(s) != ed25519.SignatureSize {
			return nil, coreerr.WithDetails(coreerr.ErrInvalidTransaction, map[string]string{
				"signature": strconv.Itoa(i),
			})
		}
		keys[i] = hexutil.Encode(k)
		sigs[i] = hexutil.Encode(s)
	}

	if len(payloads) == 1 {
		return &Ed25519Signature{
			Type:      "ed25519_signature",
			PublicKey: keys[0],
			Signature: sigs[0],
		}, nil
	}
	return &MultiEd25519Signature{
		Type:       "multi_ed25519_signature",
		PublicKeys: keys,
		Signatures: sigs,
		Threshold:  len(payloads),
		Bitmap:     hexutil.Encode(signerBitmap(len(payloads))),
	}, nil
}

// signerBitmap marks the first n key positions as signed, most significant
// bit first.
func signerBitmap(n int) []byte {
	var bits uint32
	for i := range n {
		bits |= 1 << (31 - i)
	}
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, bits)
	return b
}
