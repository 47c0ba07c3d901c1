package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mrz1836/corecall/internal/bridge"
	coreerr "github.com/mrz1836/corecall/pkg/errors"
)

// ErrorOutput represents a structured error for JSON output.
type ErrorOutput struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error details.
type ErrorDetail struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Origin     string            `json:"origin,omitempty"`
	Details    map[string]string `json:"details,omitempty"`
	Suggestion string            `json:"suggestion,omitempty"`
	ExitCode   int               `json:"exit_code"`
}

// FormatError formats an error for display.
func FormatError(w io.Writer, err error, format Format) error {
	if err == nil {
		return nil
	}

	detail := describe(err)
	if format == FormatJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(ErrorOutput{Error: detail})
	}
	return formatErrorText(w, detail)
}

// describe flattens err into the fields shown to the user. A failed core
// call keeps the core's message verbatim and reports where it failed.
func describe(err error) ErrorDetail {
	detail := ErrorDetail{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		ExitCode: coreerr.ExitCode(err),
	}

	var nce *bridge.NativeCallError
	if errors.As(err, &nce) {
		detail.Code = coreerr.Code(nce)
		detail.Message = nce.Message
		detail.Origin = nce.Origin.String()
		return detail
	}

	var ce *coreerr.CoreError
	if errors.As(err, &ce) {
		detail.Code = ce.Code
		detail.Message = ce.Message
		detail.Details = ce.Details
		detail.Suggestion = ce.Suggestion
		detail.ExitCode = ce.ExitCode
		// A structured cause already contributed its message on wrapping.
		var inner *coreerr.CoreError
		if ce.Cause != nil && !errors.As(ce.Cause, &inner) {
			detail.Message = fmt.Sprintf("%s: %v", ce.Message, ce.Cause)
		}
	}
	return detail
}

// formatErrorText outputs error in text format.
func formatErrorText(w io.Writer, d ErrorDetail) error {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Error: %s\n", d.Message))
	if d.Origin != "" {
		sb.WriteString(fmt.Sprintf("  (failed in %s)\n", d.Origin))
	}

	if len(d.Details) > 0 {
		keys := make([]string, 0, len(d.Details))
		for k := range d.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString("\nDetails:\n")
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", k, d.Details[k]))
		}
	}

	if d.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("\nSuggestion: %s\n", d.Suggestion))
	}

	_, writeErr := io.WriteString(w, sb.String())
	return writeErr
}

// FormatSuccess formats a success message.
func FormatSuccess(w io.Writer, message string, format Format) error {
	if format == FormatJSON {
		output := map[string]string{"status": "success", "message": message}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(output)
	}
	_, err := fmt.Fprintln(w, message)
	return err
}
