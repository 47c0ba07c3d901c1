package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/corecall/internal/aptos"
	"github.com/mrz1836/corecall/internal/config"
)

// fakeChain is a minimal Aptos node and faucet.
type fakeChain struct {
	mu        sync.Mutex
	submitted map[string]any
	minted    []string
}

func (c *fakeChain) node(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		path := r.URL.Path
		switch {
		case r.Method == http.MethodPost && path == "/transactions/signing_message":
			_ = json.NewEncoder(w).Encode(map[string]string{"message": hexutil.Encode([]byte("sign me"))})
		case r.Method == http.MethodPost && path == "/transactions":
			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			c.mu.Lock()
			c.submitted = body
			c.mu.Unlock()
			w.WriteHeader(http.StatusAccepted)
			_ = json.NewEncoder(w).Encode(aptos.Transaction{Type: "pending_transaction", Hash: "0xfeed", SequenceNumber: "5"})
		case strings.Contains(path, "/resource/"):
			_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"coin": map[string]string{"value": "4200"}}})
		case strings.HasSuffix(path, "/transactions"):
			_ = json.NewEncoder(w).Encode([]aptos.Transaction{{Type: "user_transaction", Hash: "0x1", SequenceNumber: "0"}})
		case strings.HasPrefix(path, "/accounts/"):
			_ = json.NewEncoder(w).Encode(aptos.AccountInfo{SequenceNumber: "5"})
		default:
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "no route " + path})
		}
	})
}

func (c *fakeChain) faucet() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		c.minted = append(c.minted, r.URL.Query().Get("auth_key"))
		c.mu.Unlock()
		_ = json.NewEncoder(w).Encode([]string{"0xmint"})
	})
}

func (c *fakeChain) mintedKeys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.minted...)
}

// testEnv points the CLI at a fake chain and a temporary home.
type testEnv struct {
	home   string
	node   string
	faucet string
	chain  *fakeChain
}

// setupTestEnv isolates the CLI from the real home directory and network.
// Tests using it must not call t.Parallel() as they modify package-level
// globals.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	c := &fakeChain{}
	node := httptest.NewServer(c.node(t))
	t.Cleanup(node.Close)
	faucet := httptest.NewServer(c.faucet())
	t.Cleanup(faucet.Close)

	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvLogLevel, "off")
	t.Setenv(config.EnvOutputFormat, "")
	t.Setenv(config.EnvVerbose, "")
	t.Setenv(config.EnvBackend, "")

	return &testEnv{home: home, node: node.URL, faucet: faucet.URL, chain: c}
}

// run executes the root command with the fake endpoints and returns stdout.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append([]string{"--rest-url", e.node, "--faucet-url", e.faucet}, args...))
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	cleanup()
	return buf.String(), err
}

// resetFlags restores flag variables that persist between executions.
func resetFlags() {
	homeDir, outputFormat, verbose, syncCalls = "", "auto", false, false
	restURL, faucetURL = "", ""
	accountFund, accountQR = 0, false
	backtraceAsync, configForce, versionCheck = false, false, false
	txFrom, txTo, txAmount, txDocument, txKeypair = "", "", "", "", ""
	txSignatures = nil
}

func decodeJSON[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(s), &v), s)
	return v
}
