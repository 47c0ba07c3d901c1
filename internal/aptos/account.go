package aptos

import (
	"crypto/ed25519"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/crypto/sha3"

	coreerr "github.com/mrz1836/corecall/pkg/errors"
)

// Authentication key scheme suffixes.
const (
	schemeEd25519      byte = 0x00
	schemeMultiEd25519 byte = 0x01
)

// Account is an ed25519 signing key. The private half is kept in locked
// memory until Destroy.
type Account struct {
	public   ed25519.PublicKey
	secret   *secretKey
	mnemonic string
}

// AccountOption configures account construction.
type AccountOption func(*accountOptions)

type accountOptions struct {
	lockMemory bool
}

// WithMemoryLock controls whether private key memory is mlocked.
func WithMemoryLock(lock bool) AccountOption {
	return func(o *accountOptions) { o.lockMemory = lock }
}

func newAccount(priv ed25519.PrivateKey, mnemonic string, opts []AccountOption) *Account {
	o := accountOptions{lockMemory: true}
	for _, opt := range opts {
		opt(&o)
	}
	pub := make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(pub, priv.Public().(ed25519.PublicKey))
	a := &Account{public: pub, secret: newSecretKey(priv, o.lockMemory), mnemonic: mnemonic}
	clear(priv)
	return a
}

// GenerateAccount creates an account from a fresh 12-word mnemonic.
func GenerateAccount(opts ...AccountOption) (*Account, error) {
	m, err := GenerateMnemonic(12)
	if err != nil {
		return nil, err
	}
	return AccountFromMnemonic(m, opts...)
}

// AccountFromMnemonic derives an account from a BIP39 phrase: the ed25519
// seed is the first 32 bytes of the BIP39 seed with an empty passphrase.
func AccountFromMnemonic(mnemonic string, opts ...AccountOption) (*Account, error) {
	seed, err := SeedFromMnemonic(mnemonic, "")
	if err != nil {
		return nil, err
	}
	defer clear(seed)
	return newAccount(ed25519.NewKeyFromSeed(seed[:ed25519.SeedSize]), NormalizeMnemonic(mnemonic), opts), nil
}

// AccountFromKeypair restores an account from its 64-byte keypair encoding
// (private seed followed by public key), hex encoded.
func AccountFromKeypair(keypair string, opts ...AccountOption) (*Account, error) {
	b, err := decodeHex(keypair)
	if err != nil || len(b) != ed25519.PrivateKeySize {
		return nil, coreerr.WithDetails(coreerr.ErrInvalidKeypair, map[string]string{
			"expected": fmt.Sprintf("%d bytes", ed25519.PrivateKeySize),
		})
	}
	priv := ed25519.NewKeyFromSeed(b[:ed25519.SeedSize])
	consistent := priv.Public().(ed25519.PublicKey).Equal(ed25519.PublicKey(b[ed25519.SeedSize:]))
	clear(b)
	if !consistent {
		clear(priv)
		return nil, coreerr.WithDetails(coreerr.ErrInvalidKeypair, map[string]string{
			"reason": "public key does not match private key",
		})
	}
	return newAccount(priv, "", opts), nil
}

// PublicKey returns the 32-byte public key.
func (a *Account) PublicKey() ed25519.PublicKey { return a.public }

// PublicKeyHex returns the public key as 0x-prefixed hex.
func (a *Account) PublicKeyHex() string { return hexutil.Encode(a.public) }

// AuthKey returns the account's authentication key as 0x-prefixed hex.
func (a *Account) AuthKey() string {
	return hexutil.Encode(authKey(schemeEd25519, a.public))
}

// Address returns the account address, which equals its authentication key
// until the key is rotated.
func (a *Account) Address() string { return a.AuthKey() }

// Mnemonic returns the phrase the account was derived from, if any.
func (a *Account) Mnemonic() string { return a.mnemonic }

// KeypairHex returns the 64-byte keypair encoding as 0x-prefixed hex.
func (a *Account) KeypairHex() string { return hexutil.Encode(a.secret.Bytes()) }

// Locked reports whether the private key memory is mlocked.
func (a *Account) Locked() bool { return a.secret.Locked() }

// Sign signs msg with the private key.
func (a *Account) Sign(msg []byte) ([]byte, error) {
	priv := a.secret.Bytes()
	if priv == nil {
		return nil, coreerr.WithDetails(coreerr.ErrInvalidKeypair, map[string]string{"reason": "account destroyed"})
	}
	return ed25519.Sign(ed25519.PrivateKey(priv), msg), nil
}

// Destroy zeroes the private key.
func (a *Account) Destroy() { a.secret.Destroy() }

// authKey hashes the key material followed by the scheme byte.
func authKey(scheme byte, parts ...[]byte) []byte {
	h := sha3.New256()
	for _, p := range parts {
		_, _ = h.Write(p)
	}
	_, _ = h.Write([]byte{scheme})
	return h.Sum(nil)
}
