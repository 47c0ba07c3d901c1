package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/corecall/internal/version"
	coreerr "github.com/mrz1836/corecall/pkg/errors"
)

func TestParseAmount(t *testing.T) {
	t.Parallel()

	n, err := parseAmount(" 100 ")
	require.NoError(t, err)
	assert.Equal(t, uint64(100), n)

	for _, bad := range []string{"0", "-1", "1.5", "", "many"} {
		_, err := parseAmount(bad)
		require.ErrorIs(t, err, coreerr.ErrInvalidInput, bad)
	}
}

func TestParseSignedPayload(t *testing.T) {
	t.Parallel()

	p, err := parseSignedPayload("0xab:0xcd")
	require.NoError(t, err)
	assert.Equal(t, "0xab", p.PublicKey)
	assert.Equal(t, "0xcd", p.Signature)

	for _, bad := range []string{"0xab", ":0xcd", "0xab:"} {
		_, err := parseSignedPayload(bad)
		require.ErrorIs(t, err, coreerr.ErrInvalidInput, bad)
	}
}

func TestReadDocument(t *testing.T) {
	t.Parallel()

	doc, err := readDocument(nil, ` {"a":1} `)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, doc)

	doc, err = readDocument(strings.NewReader(`{"b":2}`+"\n"), "-")
	require.NoError(t, err)
	assert.Equal(t, `{"b":2}`, doc)

	path := filepath.Join(t.TempDir(), "txn.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"c":3}`), 0o600))
	doc, err = readDocument(nil, "@"+path)
	require.NoError(t, err)
	assert.Equal(t, `{"c":3}`, doc)

	_, err = readDocument(nil, "@"+filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	_, err = readDocument(strings.NewReader("  "), "-")
	require.ErrorIs(t, err, coreerr.ErrInvalidTransaction)
}

func TestWriteTransactionsEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, writeTransactions(&buf, nil))
	assert.Equal(t, "No transactions.\n", buf.String())
}

func TestVersionCheck(t *testing.T) {
	e := setupTestEnv(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"tag_name":"v9.9.9"}`))
	}))
	defer srv.Close()

	orig := releaseClient
	releaseClient = version.NewClient(version.WithBaseURL(srv.URL))
	t.Cleanup(func() { releaseClient = orig })

	stdout, err := e.run(t, "-o", "json", "version", "--check")
	require.NoError(t, err)
	got := decodeJSON[struct {
		Version string         `json:"version"`
		Update  *version.Check `json:"update"`
	}](t, stdout)
	require.NotNil(t, got.Update)
	assert.Equal(t, "v9.9.9", got.Update.Latest)
	assert.True(t, got.Update.IsNewer)

	stdout, err = e.run(t, "-o", "text", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "corecall "), stdout)
}
