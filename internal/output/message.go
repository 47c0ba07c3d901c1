package output

import (
	"fmt"
	"io"
)

// Status line prefixes.
const (
	prefixInfo    = "ℹ️  "
	prefixWarn    = "⚠️  "
	prefixSuccess = "✅ "
)

// Infof prints an informational line to w. Nothing is printed in JSON mode
// so the document on the writer stays parseable.
func (f *Formatter) Infof(w io.Writer, format string, args ...any) {
	f.status(w, prefixInfo, format, args...)
}

// Successf prints a success line to w. Nothing is printed in JSON mode.
func (f *Formatter) Successf(w io.Writer, format string, args ...any) {
	f.status(w, prefixSuccess, format, args...)
}

// Warnf prints a warning to w, usually stderr, in every mode.
func Warnf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintln(w, prefixWarn+fmt.Sprintf(format, args...))
}

func (f *Formatter) status(w io.Writer, prefix, format string, args ...any) {
	if f.IsJSON() {
		return
	}
	_, _ = fmt.Fprintln(w, prefix+fmt.Sprintf(format, args...))
}
