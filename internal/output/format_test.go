package output_test

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/corecall/internal/output"
)

func TestFormatterRender(t *testing.T) {
	t.Parallel()

	value := map[string]uint64{"balance": 4200}
	text := func(w io.Writer) error {
		_, err := io.WriteString(w, "Balance: 4200\n")
		return err
	}

	var buf bytes.Buffer
	require.NoError(t, output.NewFormatter(output.FormatJSON, &buf).Render(&buf, value, text))
	assert.JSONEq(t, `{"balance": 4200}`, buf.String())

	buf.Reset()
	require.NoError(t, output.NewFormatter(output.FormatText, &buf).Render(&buf, value, text))
	assert.Equal(t, "Balance: 4200\n", buf.String())
}

func TestFormatterPrint(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	f := output.NewFormatter(output.FormatText, &buf)
	require.NoError(t, f.Print("hello"))
	require.NoError(t, f.Printf("%d-%s\n", 7, "x"))
	assert.Equal(t, "hello\n7-x\n", buf.String())
	assert.False(t, f.IsJSON())
	assert.Same(t, &buf, f.Writer())
}

func TestFormatterStatusLinesSilentInJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	f := output.NewFormatter(output.FormatJSON, &buf)
	f.Infof(&buf, "working")
	f.Successf(&buf, "done")
	assert.Empty(t, buf.String())

	f = output.NewFormatter(output.FormatText, &buf)
	f.Successf(&buf, "funded %d", 2)
	assert.Contains(t, buf.String(), "funded 2")

	var warn bytes.Buffer
	output.Warnf(&warn, "slow %s", "node")
	assert.Contains(t, warn.String(), "slow node")
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want output.Format
	}{
		{"json", output.FormatJSON},
		{" JSON ", output.FormatJSON},
		{"text", output.FormatText},
		{"auto", output.FormatAuto},
		{"yaml", output.FormatAuto},
		{"", output.FormatAuto},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, output.ParseFormat(tc.in), tc.in)
	}
}

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.Equal(t, output.FormatText, output.DetectFormat(&buf, output.FormatText))
	assert.Equal(t, output.FormatJSON, output.DetectFormat(&buf, output.FormatAuto))

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, output.FormatJSON, output.DetectFormat(f, output.FormatAuto))
}

func TestTable(t *testing.T) {
	t.Parallel()

	table := output.NewTable("ADDRESS", "BALANCE")
	table.AddRow("0xa", "4200")
	table.AddRow("0xbbbb")
	assert.Equal(t, 2, table.Len())

	want := "" +
		"ADDRESS  BALANCE\n" +
		"-------  -------\n" +
		"0xa      4200\n" +
		"0xbbbb\n"
	assert.Equal(t, want, table.String())

	var buf bytes.Buffer
	require.NoError(t, output.NewTable().Render(&buf))
	assert.Empty(t, buf.String())
}

func TestRenderQRSkipsNonTerminal(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.False(t, output.CanRenderQR(&buf))
	assert.False(t, output.CanRenderQR(nil))
	require.NoError(t, output.RenderQR(&buf, "0x"+string(bytes.Repeat([]byte("ab"), 32)), output.DefaultQRConfig()))
	assert.Empty(t, buf.String())
}
