package aptos

import (
	"crypto/ed25519"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"

	coreerr "github.com/mrz1836/corecall/pkg/errors"
)

func TestAccountFromMnemonicIsDeterministic(t *testing.T) {
	t.Parallel()
	a, err := AccountFromMnemonic(abandonAbout, WithMemoryLock(false))
	require.NoError(t, err)
	b, err := AccountFromMnemonic("  "+strings.ToUpper(abandonAbout), WithMemoryLock(false))
	require.NoError(t, err)

	assert.Equal(t, a.PublicKeyHex(), b.PublicKeyHex())
	assert.Equal(t, a.Address(), b.Address())
	assert.Equal(t, abandonAbout, b.Mnemonic())
	assert.False(t, a.Locked())
}

func TestAccountAddressIsAuthKey(t *testing.T) {
	t.Parallel()
	a, err := GenerateAccount(WithMemoryLock(false))
	require.NoError(t, err)

	want := sha3.Sum256(append(append([]byte{}, a.PublicKey()...), 0x00))
	assert.Equal(t, hexutil.Encode(want[:]), a.Address())
	assert.Equal(t, a.Address(), a.AuthKey())
	assert.Len(t, strings.Fields(a.Mnemonic()), 12)
}

func TestAccountKeypairRoundTrip(t *testing.T) {
	t.Parallel()
	a, err := GenerateAccount(WithMemoryLock(false))
	require.NoError(t, err)

	kp := a.KeypairHex()
	assert.Len(t, kp, 2+2*ed25519.PrivateKeySize)

	b, err := AccountFromKeypair(strings.TrimPrefix(kp, "0x"), WithMemoryLock(false))
	require.NoError(t, err)
	assert.Equal(t, a.PublicKeyHex(), b.PublicKeyHex())
	assert.Empty(t, b.Mnemonic())

	msg := []byte("signing message")
	sig, err := b.Sign(msg)
	require.NoError(t, err)
	assert.True(t, ed25519.Verify(a.PublicKey(), msg, sig))
}

func TestAccountFromKeypairRejects(t *testing.T) {
	t.Parallel()
	a, err := GenerateAccount(WithMemoryLock(false))
	require.NoError(t, err)
	b, err := GenerateAccount(WithMemoryLock(false))
	require.NoError(t, err)

	mismatched := a.KeypairHex()[:2+2*ed25519.SeedSize] + strings.TrimPrefix(b.PublicKeyHex(), "0x")

	for name, kp := range map[string]string{
		"not hex":    "zz",
		"short":      "0x0102",
		"mismatched": mismatched,
	} {
		_, err := AccountFromKeypair(kp)
		require.ErrorIs(t, err, coreerr.ErrInvalidKeypair, name)
	}
}

func TestAccountDestroy(t *testing.T) {
	t.Parallel()
	a, err := GenerateAccount()
	require.NoError(t, err)
	key := a.secret.Bytes()

	a.Destroy()
	a.Destroy()
	assert.Equal(t, make([]byte, len(key)), key)
	assert.False(t, a.Locked())

	_, err = a.Sign([]byte("x"))
	require.ErrorIs(t, err, coreerr.ErrInvalidKeypair)
}

func TestNormalizeAddress(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in, want string
		ok       bool
	}{
		{"0x1", "0x1", true},
		{"ABCDEF", "0xabcdef", true},
		{" 0Xabc ", "0xabc", true},
		{"", "", false},
		{"0x", "", false},
		{"0xzz", "", false},
		{"0x" + strings.Repeat("a", 65), "", false},
	}
	for _, tc := range tests {
		got, err := NormalizeAddress(tc.in)
		if !tc.ok {
			require.ErrorIs(t, err, coreerr.ErrInvalidAddress, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
}
