package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/inventoryaudit/internal/model"
)

const timeLayout = "2006-01-02 15:04:05 MST"

// MarkdownWriter outputs GitHub-flavored markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// WriteSummary outputs the run summary.
func (w *MarkdownWriter) WriteSummary(s *model.RunSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, s)
	w.writeSources(md, s)
	w.writeOutputs(md, s)
	w.writeScanErrors(md, s)
	w.writeRemovalReasons(md, s)
	w.writeUnacceptableURLs(md, s)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, s *model.RunSummary) {
	md.H1("Website Inventory Audit")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run ID", "`" + s.ID.String() + "`"},
			{"Started", s.StartedAt.Format(timeLayout)},
			{"Duration", s.FinishedAt.Sub(s.StartedAt).Round(time.Millisecond).String()},
			{"Steps", strconv.Itoa(len(s.Steps))},
			{"Agencies", strconv.Itoa(s.AgencyCount)},
			{"Status", statusText(s)},
		},
	})
	md.PlainText("")

	for _, e := range s.Errors {
		md.Cautionf("Run stopped early: %s", e)
		md.PlainText("")
	}
	unavailable := s.UnavailableSources()
	for _, src := range unavailable {
		md.Warningf("Source %s could not be read (%s). Reports depending on it were skipped.",
			src.Name, sourceStatus(src))
		md.PlainText("")
	}
	if !s.Failed() && len(unavailable) == 0 {
		md.Tip("All sources were available and every flow completed.")
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeSources(md *markdown.Markdown, s *model.RunSummary) {
	md.H2("Sources")
	md.PlainText("")

	rows := make([][]string, len(s.Sources))
	for i, src := range s.Sources {
		rows[i] = []string{
			src.Name,
			"`" + src.Location + "`",
			strconv.Itoa(src.Rows),
			sourceStatus(src),
			shortDigest(src.Digest),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Source", "Location", "Rows", "Status", "SHA3-256"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeOutputs(md *markdown.Markdown, s *model.RunSummary) {
	md.H2("Reports")
	md.PlainText("")

	if len(s.Outputs) == 0 {
		md.PlainText("No report was written.")
	} else {
		rows := make([][]string, len(s.Outputs))
		for i, o := range s.Outputs {
			rows[i] = []string{o.Name, strconv.Itoa(o.Rows)}
		}
		md.Table(markdown.TableSet{Header: []string{"Report", "Rows"}, Rows: rows})
	}
	md.PlainText("")

	if len(s.Skipped) > 0 {
		md.H3("Skipped")
		md.PlainText("")
		rows := make([][]string, len(s.Skipped))
		for i, sk := range s.Skipped {
			rows[i] = []string{sk.Name, sk.Reason}
		}
		md.Table(markdown.TableSet{Header: []string{"Report", "Reason"}, Rows: rows})
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeScanErrors(md *markdown.Markdown, s *model.RunSummary) {
	md.H2("Scan Errors")
	md.PlainText("")

	total := s.TotalScanErrors()
	if total == 0 {
		md.PlainText("No scan errors were found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(model.Issues)+1)
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Scan Errors by Issue"),
		piechart.WithShowData(true),
	)
	for _, issue := range model.Issues {
		n := s.IssueCounts[issue]
		rows = append(rows, []string{string(issue), strconv.Itoa(n)})
		if n > 0 {
			chart.LabelAndIntValue(string(issue), uint64(n)) //nolint:gosec // counts are never negative
		}
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(total) + "**"})

	md.Table(markdown.TableSet{Header: []string{"Issue", "Count"}, Rows: rows})
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeRemovalReasons(md *markdown.Markdown, s *model.RunSummary) {
	if s.OutputRows(model.FileRemovals) < 0 {
		return
	}
	md.H2("Removal Reasons")
	md.PlainText("")

	rows := make([][]string, len(model.RemovalReasons))
	for i, reason := range model.RemovalReasons {
		rows[i] = []string{string(reason), strconv.Itoa(s.ReasonCounts[reason])}
	}
	md.Table(markdown.TableSet{Header: []string{"Reason", "Candidates"}, Rows: rows})
	md.PlainText("")
}

func (w *MarkdownWriter) writeUnacceptableURLs(md *markdown.Markdown, s *model.RunSummary) {
	md.H2("Unacceptable URLs")
	md.PlainText("")

	if len(s.UnacceptableURLs) == 0 {
		md.PlainText("No agency listed a malformed website URL.")
		md.PlainText("")
		return
	}

	md.Importantf("%d agencies list website URLs with a backslash, port, query string or www prefix.",
		len(s.UnacceptableURLs))
	md.PlainText("")

	rows := make([][]string, len(s.UnacceptableURLs))
	for i, u := range s.UnacceptableURLs {
		rows[i] = []string{u.Agency, strconv.Itoa(u.Count)}
	}
	md.Table(markdown.TableSet{Header: []string{"Agency", "URLs"}, Rows: rows})
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Generated by inventoryaudit*")
}

// WriteComparison outputs the comparison.
func (w *MarkdownWriter) WriteComparison(c *model.Comparison) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Website Inventory Audit Comparison")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"", "Run ID", "Finished"},
		Rows: [][]string{
			{"Previous", "`" + c.Previous.ID.String() + "`", c.Previous.FinishedAt.Format(timeLayout)},
			{"Current", "`" + c.Current.ID.String() + "`", c.Current.FinishedAt.Format(timeLayout)},
		},
	})
	md.PlainText("")

	if !c.HasChanges() {
		md.Note("No changes between the two runs.")
		md.PlainText("")
		return len(md.String()), md.Build()
	}

	md.H2("Candidates")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Report", "Previous", "Current", "Change"},
		Rows: [][]string{
			deltaRow(model.FileAdditions, c.Additions),
			deltaRow(model.FileRemovals, c.Removals),
			deltaRow(model.FileScanErrors, c.ScanErrors),
		},
	})
	md.PlainText("")

	if len(c.AddedAgencies) > 0 {
		md.H2("Added Agencies")
		md.PlainText("")
		md.BulletList(c.AddedAgencies...)
		md.PlainText("")
	}
	if len(c.RemovedAgencies) > 0 {
		md.H2("Removed Agencies")
		md.PlainText("")
		md.BulletList(c.RemovedAgencies...)
		md.PlainText("")
	}
	if len(c.ChangedAgencies) > 0 {
		md.H2("Changed Agencies")
		md.PlainText("")
		md.Table(markdown.TableSet{
			Header: []string{"Agency", "Counter", "Previous", "Current", "Change"},
			Rows:   agencyDeltaRows(c.ChangedAgencies),
		})
		md.PlainText("")
	}

	return len(md.String()), md.Build()
}

func statusText(s *model.RunSummary) string {
	if s.Failed() {
		return "❌ Failed"
	}
	if len(s.UnavailableSources()) > 0 {
		return "⚠️ Completed with missing sources"
	}
	return "✅ Complete"
}

func sourceStatus(src model.SourceInfo) string {
	switch {
	case src.Available && src.StatusCode != 0:
		return "HTTP " + strconv.Itoa(src.StatusCode)
	case src.Available:
		return "ok"
	case src.StatusCode != 0:
		return "HTTP " + strconv.Itoa(src.StatusCode)
	default:
		return "unavailable"
	}
}

func shortDigest(d string) string {
	if d == "" {
		return "-"
	}
	return "`" + truncateString(d, 12) + "`"
}

func deltaRow(name string, d model.Delta) []string {
	return []string{name, strconv.Itoa(d.Previous), strconv.Itoa(d.Current), signed(d.Change())}
}

// agencyDeltaRows returns one row per moved counter.
func agencyDeltaRows(deltas []model.AgencyDelta) [][]string {
	var rows [][]string
	for _, a := range deltas {
		for _, c := range a.Counters() {
			if !c.Delta.Changed() {
				continue
			}
			rows = append(rows, []string{
				a.Agency,
				c.Name,
				strconv.Itoa(c.Delta.Previous),
				strconv.Itoa(c.Delta.Current),
				signed(c.Delta.Change()),
			})
		}
	}
	return rows
}

func signed(n int) string {
	return fmt.Sprintf("%+d", n)
}

// truncateString truncates a string to maxLen bytes.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
