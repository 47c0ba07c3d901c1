package output_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/corecall/internal/bridge"
	"github.com/mrz1836/corecall/internal/output"
	coreerr "github.com/mrz1836/corecall/pkg/errors"
)

// failingWriter implements io.Writer but always returns an error.
type failingWriter struct{}

func (failingWriter) Write(_ []byte) (n int, err error) {
	//nolint:err113 // Test error, not wrapped
	return 0, errors.New("write failed")
}

func decodeError(t *testing.T, b []byte) output.ErrorDetail {
	t.Helper()
	var result output.ErrorOutput
	require.NoError(t, json.Unmarshal(b, &result))
	return result.Error
}

func TestFormatError_NilError(t *testing.T) {
	t.Parallel()

	for _, format := range []output.Format{output.FormatJSON, output.FormatText} {
		var buf bytes.Buffer
		require.NoError(t, output.FormatError(&buf, nil, format))
		assert.Empty(t, buf.String())
	}
}

func TestFormatError_GenericError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, output.FormatError(&buf, assert.AnError, output.FormatJSON))

	d := decodeError(t, buf.Bytes())
	assert.Equal(t, "GENERAL_ERROR", d.Code)
	assert.Equal(t, assert.AnError.Error(), d.Message)
	assert.Equal(t, coreerr.ExitGeneral, d.ExitCode)
	assert.Empty(t, d.Origin)
}

func TestFormatError_CoreError(t *testing.T) {
	t.Parallel()

	err := coreerr.WithDetails(coreerr.ErrInvalidInput, map[string]string{
		"zeta":  "last",
		"alpha": "first",
	})
	err = coreerr.WithSuggestion(err, "Check the address with 'corecall balance'")

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, output.FormatError(&buf, err, output.FormatJSON))

		d := decodeError(t, buf.Bytes())
		assert.Equal(t, "INVALID_INPUT", d.Code)
		assert.Equal(t, "first", d.Details["alpha"])
		assert.Equal(t, coreerr.ExitInput, d.ExitCode)
		assert.Contains(t, d.Suggestion, "corecall balance")
	})

	t.Run("text lists details sorted", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, output.FormatError(&buf, err, output.FormatText))

		text := buf.String()
		assert.Contains(t, text, "Error: ")
		assert.Less(t, bytes.Index(buf.Bytes(), []byte("alpha: first")), bytes.Index(buf.Bytes(), []byte("zeta: last")))
		assert.Contains(t, text, "Suggestion: Check the address")
	})
}

func TestFormatError_NativeCallErrorKeepsMessage(t *testing.T) {
	t.Parallel()

	nce := &bridge.NativeCallError{Message: "faucet unreachable: connection refused", Origin: bridge.OriginNative}
	err := fmt.Errorf("create account: %w", nce)

	var buf bytes.Buffer
	require.NoError(t, output.FormatError(&buf, err, output.FormatJSON))
	d := decodeError(t, buf.Bytes())
	assert.Equal(t, "faucet unreachable: connection refused", d.Message)
	assert.Equal(t, "native", d.Origin)
	assert.Equal(t, coreerr.ExitNative, d.ExitCode)

	buf.Reset()
	require.NoError(t, output.FormatError(&buf, err, output.FormatText))
	assert.Equal(t, "Error: faucet unreachable: connection refused\n  (failed in native)\n", buf.String())
}

func TestFormatError_DecodeOrigin(t *testing.T) {
	t.Parallel()

	nce := &bridge.NativeCallError{Message: "decode response: truncated", Origin: bridge.OriginDecode}

	var buf bytes.Buffer
	require.NoError(t, output.FormatError(&buf, nce, output.FormatJSON))
	d := decodeError(t, buf.Bytes())
	assert.Equal(t, "decode", d.Origin)
	assert.Equal(t, coreerr.ErrDecode.Code, d.Code)
	assert.Equal(t, coreerr.ExitInternal, d.ExitCode)
}

func TestFormatError_WriterError(t *testing.T) {
	t.Parallel()
	require.Error(t, output.FormatError(failingWriter{}, assert.AnError, output.FormatText))
}

func TestFormatSuccess(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, output.FormatSuccess(&buf, "Configuration initialized", output.FormatJSON))

	var result map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, "success", result["status"])
	assert.Equal(t, "Configuration initialized", result["message"])

	buf.Reset()
	require.NoError(t, output.FormatSuccess(&buf, "done", output.FormatText))
	assert.Equal(t, "done\n", buf.String())
}
