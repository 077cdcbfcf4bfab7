package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/inventoryaudit/internal/model"
)

const ruleWidth = 70

// SimpleWriter outputs plain text for the terminal.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with nothing to report are shown.
	showEmpty bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteSummary outputs the run summary.
func (w *SimpleWriter) WriteSummary(s *model.RunSummary) (int, error) {
	var sb strings.Builder

	writeBanner(&sb, "WEBSITE INVENTORY AUDIT")
	fmt.Fprintf(&sb, "Run ID:    %s\n", s.ID)
	fmt.Fprintf(&sb, "Started:   %s\n", s.StartedAt.Format(timeLayout))
	fmt.Fprintf(&sb, "Duration:  %s\n", s.FinishedAt.Sub(s.StartedAt).Round(time.Millisecond))
	fmt.Fprintf(&sb, "Agencies:  %d\n", s.AgencyCount)
	switch {
	case s.Failed():
		sb.WriteString("Status:    FAILED\n")
		for _, e := range s.Errors {
			fmt.Fprintf(&sb, "  [!] %s\n", e)
		}
	case len(s.UnavailableSources()) > 0:
		sb.WriteString("Status:    Complete (missing sources)\n")
	default:
		sb.WriteString("Status:    Complete\n")
	}
	sb.WriteString("\n")

	writeSection(&sb, "SOURCES")
	rows := make([][]string, len(s.Sources))
	for i, src := range s.Sources {
		rows[i] = []string{src.Name, strconv.Itoa(src.Rows), sourceStatus(src), truncateString(src.Digest, 12)}
	}
	if err := WriteTable(&sb, []string{"Source", "Rows", "Status", "SHA3-256"}, rows, 1); err != nil {
		return 0, err
	}
	sb.WriteString("\n")

	writeSection(&sb, "REPORTS")
	rows = make([][]string, 0, len(s.Outputs)+len(s.Skipped))
	for _, o := range s.Outputs {
		rows = append(rows, []string{o.Name, strconv.Itoa(o.Rows), ""})
	}
	for _, sk := range s.Skipped {
		rows = append(rows, []string{sk.Name, "-", sk.Reason})
	}
	if err := WriteTable(&sb, []string{"Report", "Rows", "Note"}, rows, 1); err != nil {
		return 0, err
	}
	sb.WriteString("\n")

	if total := s.TotalScanErrors(); total > 0 || w.showEmpty {
		writeSection(&sb, "SCAN ERRORS")
		for _, issue := range model.Issues {
			fmt.Fprintf(&sb, "  %-24s %d\n", string(issue)+":", s.IssueCounts[issue])
		}
		fmt.Fprintf(&sb, "  %-24s %d\n\n", "TOTAL:", total)
	}

	if len(s.UnacceptableURLs) > 0 || w.showEmpty {
		writeSection(&sb, "UNACCEPTABLE URLS")
		if len(s.UnacceptableURLs) == 0 {
			sb.WriteString("  None\n")
		}
		for _, u := range s.UnacceptableURLs {
			fmt.Fprintf(&sb, "  [-] %s: %d\n", u.Agency, u.Count)
		}
		sb.WriteString("\n")
	}

	return w.output.Write([]byte(sb.String()))
}

// WriteComparison outputs the comparison.
func (w *SimpleWriter) WriteComparison(c *model.Comparison) (int, error) {
	var sb strings.Builder

	writeBanner(&sb, "AUDIT COMPARISON")
	fmt.Fprintf(&sb, "Previous:  %s (%s)\n", c.Previous.ID, c.Previous.FinishedAt.Format(timeLayout))
	fmt.Fprintf(&sb, "Current:   %s (%s)\n\n", c.Current.ID, c.Current.FinishedAt.Format(timeLayout))

	if !c.HasChanges() {
		sb.WriteString("No changes between the two runs.\n")
		return w.output.Write([]byte(sb.String()))
	}

	writeSection(&sb, "CANDIDATES")
	rows := [][]string{
		deltaRow(model.FileAdditions, c.Additions),
		deltaRow(model.FileRemovals, c.Removals),
		deltaRow(model.FileScanErrors, c.ScanErrors),
	}
	if err := WriteTable(&sb, []string{"Report", "Previous", "Current", "Change"}, rows, 1, 2, 3); err != nil {
		return 0, err
	}
	sb.WriteString("\n")

	if len(c.AddedAgencies) > 0 || len(c.RemovedAgencies) > 0 {
		writeSection(&sb, "AGENCIES")
		for _, a := range c.AddedAgencies {
			fmt.Fprintf(&sb, "  [+] %s\n", a)
		}
		for _, a := range c.RemovedAgencies {
			fmt.Fprintf(&sb, "  [-] %s\n", a)
		}
		sb.WriteString("\n")
	}

	if len(c.ChangedAgencies) > 0 {
		writeSection(&sb, "CHANGED AGENCIES")
		header := []string{"Agency", "Counter", "Previous", "Current", "Change"}
		if err := WriteTable(&sb, header, agencyDeltaRows(c.ChangedAgencies), 2, 3, 4); err != nil {
			return 0, err
		}
		sb.WriteString("\n")
	}

	return w.output.Write([]byte(sb.String()))
}

func writeBanner(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")
}

func writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
}
