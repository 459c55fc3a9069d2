package output

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ccollicutt/etlwatch/pkg/monitor"
)

// TextFormatter formats reports as an aligned table.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(_ context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "etlwatch: %s\n", summaryLine(report.Summary))
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	fmt.Fprintln(w, "=== ETL Job History ===")
	fmt.Fprintln(w)

	if len(report.Rows) == 0 {
		fmt.Fprintln(w, "No jobs found")
	} else if err := f.formatTable(report.Rows, w); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %s\n", summaryLine(report.Summary))

	p := report.Pagination
	if p.TotalPages > 0 {
		fmt.Fprintf(w, "Page %d of %d (%d records)\n", p.Page, p.TotalPages, p.TotalRecords)
	}

	if f.opts.Verbose {
		fmt.Fprintf(w, "Backend: %s\n", report.Metadata.Backend)
		fmt.Fprintf(w, "Generated: %s\n", report.Metadata.GeneratedAt.Format(monitor.DisplayLayout))
	}

	return nil
}

func (f *TextFormatter) formatTable(rows []monitor.Row, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if f.opts.Verbose {
		fmt.Fprintln(tw, "ID\tAPP\tSTATUS\tTYPE\tSTARTED\tFINISHED\tDURATION\tEVENTS\t")
	} else {
		fmt.Fprintln(tw, "ID\tAPP\tSTATUS\tSTARTED\tFINISHED\tDURATION\t")
	}

	for _, r := range rows {
		status := r.Status
		if r.DataIssue {
			status += " (!)"
		}
		if f.opts.Verbose {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%d\t\n",
				r.ID, r.App, status, r.RunType, r.Started, r.Finished, r.Duration, r.Events)
		} else {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t\n",
				r.ID, r.App, status, r.Started, r.Finished, r.Duration)
		}
	}

	return tw.Flush()
}

func summaryLine(s monitor.Summary) string {
	line := fmt.Sprintf("%d jobs, %d running, %d succeeded, %d failed",
		s.Total, s.Running, s.Succeeded, s.Failed)
	if s.Cancelled > 0 {
		line += fmt.Sprintf(", %d cancelled", s.Cancelled)
	}
	if s.DataIssues > 0 {
		line += fmt.Sprintf(", %d with unreadable timestamps", s.DataIssues)
	}
	return line
}
