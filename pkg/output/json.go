package output

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// JSONFormatter writes the report as indented JSON, or only the summary in
// quiet mode. Raw timestamps and app names are written without HTML escaping
// so unparseable values read exactly as the backend sent them.
type JSONFormatter struct {
	quiet bool
}

// NewJSONFormatter creates a JSON formatter. Verbose has no effect; the
// JSON rows always carry run type and event counts.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{quiet: opts.Quiet}
}

// Name returns "json".
func (f *JSONFormatter) Name() string { return "json" }

// Format encodes into memory first so nothing reaches w when encoding fails.
func (f *JSONFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var v any = report
	if f.quiet {
		v = report.Summary
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	_, err := buf.WriteTo(w)
	return err
}
