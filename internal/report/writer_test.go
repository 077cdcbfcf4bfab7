package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/nao1215/inventoryaudit/internal/model"
)

var testStart = time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

// createTestSummary creates a summary with sample data for testing.
func createTestSummary() *model.RunSummary {
	stats := model.NewRun("stats")
	stats.PerformedSteps = []string{"inventory_map", "federal_registry", "inventory_stats"}
	stats.AddSource(model.SourceInfo{Name: model.SourceInventoryMap, Location: "map.csv", Rows: 2, Available: true})
	stats.AddSource(model.SourceInfo{
		Name:       model.SourceFederalRegistry,
		Location:   "https://registry.example/current-federal.csv",
		StatusCode: 404,
		Error:      "unexpected status 404",
	})
	stats.AddOutput(model.FileInventoryStats, "reports/inventory_stats.csv", 2)
	stats.Skip(model.FileInventoryAnalysis, "federal registry unavailable")
	gsa := model.NewInventoryStats("GSA")
	gsa.UnacceptableURLs = 3
	stats.Stats = []model.InventoryStats{gsa, model.NewInventoryStats("NASA")}

	reports := model.NewRun("reports")
	reports.AddSource(model.SourceInfo{
		Name:       model.SourceSiteScanner,
		Location:   "https://scanner.example/latest.csv",
		Rows:       10,
		StatusCode: 200,
		Digest:     "0123456789abcdef0123",
		Available:  true,
	})
	reports.AddOutput(model.FileAdditions, "reports/candidates_for_addition.csv", 4)
	reports.AddOutput(model.FileRemovals, "reports/candidates_for_removal.csv", 2)
	reports.AddOutput(model.FileScanErrors, "reports/scan_errors.csv", 3)
	reports.IssueCounts[model.IssueSSL] = 2
	reports.IssueCounts[model.IssueWWWForbidden] = 1
	reports.ReasonCounts[model.ReasonFilter] = 2

	return model.NewRunSummary(uuid.MustParse("8f14e45f-ea3b-4c1a-9f3e-0d2b5c7a1e90"),
		testStart, testStart.Add(90*time.Second), stats, reports)
}

func createTestComparison() *model.Comparison {
	return &model.Comparison{
		Previous:        model.RunRef{ID: uuid.New(), FinishedAt: testStart},
		Current:         model.RunRef{ID: uuid.New(), FinishedAt: testStart.Add(24 * time.Hour)},
		AddedAgencies:   []string{"NSF"},
		RemovedAgencies: []string{"OPM"},
		ChangedAgencies: []model.AgencyDelta{{
			Agency:       "GSA",
			WebsiteCount: model.Delta{Previous: 10, Current: 12},
			BureauCount:  model.Delta{Previous: 3, Current: 3},
		}},
		Additions: model.Delta{Previous: 4, Current: 1},
	}
}

// TestSimpleWriter tests the terminal writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes summary sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewSimpleWriter(&buf).WriteSummary(createTestSummary())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("expected %d bytes reported, got %d", buf.Len(), n)
		}

		output := buf.String()
		for _, want := range []string{
			"WEBSITE INVENTORY AUDIT",
			"8f14e45f-ea3b-4c1a-9f3e-0d2b5c7a1e90",
			"Complete (missing sources)",
			"inventory_analysis.csv",
			"federal registry unavailable",
			"SCAN ERRORS",
			"0123456789ab",
			"[-] GSA: 3",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
		if strings.Contains(output, "0123456789abc") {
			t.Error("expected digest to be shortened")
		}
	})

	t.Run("hides empty sections by default", func(t *testing.T) {
		t.Parallel()

		s := model.NewRunSummary(uuid.New(), testStart, testStart)
		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteSummary(s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(buf.String(), "SCAN ERRORS") {
			t.Error("expected scan error section to be hidden")
		}

		buf.Reset()
		if _, err := NewSimpleWriter(&buf, WithShowEmpty(true)).WriteSummary(s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "UNACCEPTABLE URLS") {
			t.Error("expected empty sections to be shown")
		}
	})

	t.Run("reports failed runs", func(t *testing.T) {
		t.Parallel()

		run := model.NewRun("stats")
		run.Error = errors.New("failed to read required source")
		s := model.NewRunSummary(uuid.New(), testStart, testStart, run)

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteSummary(s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "FAILED") || !strings.Contains(buf.String(), "stats: failed to read") {
			t.Errorf("expected failure in output:\n%s", buf.String())
		}
	})

	t.Run("writes comparison", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteComparison(createTestComparison()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		for _, want := range []string{"[+] NSF", "[-] OPM", "website_count", "+2", "-3"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
		if strings.Contains(output, "bureau_count") {
			t.Error("unchanged counters should not be listed")
		}
	})

	t.Run("writes unchanged comparison", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		c := &model.Comparison{}
		if _, err := NewSimpleWriter(&buf).WriteComparison(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No changes") {
			t.Error("expected no-change message")
		}
	})
}

// TestJSONWriter tests the JSON writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("summary round trips", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		summary := createTestSummary()
		if _, err := NewJSONWriter(&buf).WriteSummary(summary); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got model.RunSummary
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got.ID != summary.ID {
			t.Errorf("expected ID %s, got %s", summary.ID, got.ID)
		}
		if diff := cmp.Diff(summary.IssueCounts, got.IssueCounts); diff != "" {
			t.Errorf("issue counts mismatch (-want +got):\n%s", diff)
		}
		if !strings.HasSuffix(buf.String(), "}\n") {
			t.Error("expected trailing newline")
		}
	})

	t.Run("pretty print", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).WriteComparison(createTestComparison()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"previous\"") {
			t.Errorf("expected indented output, got:\n%s", buf.String())
		}
	})

	t.Run("custom indent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithIndent(">", "\t")).WriteComparison(&model.Comparison{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n>\t\"previous\"") {
			t.Errorf("expected prefixed output, got:\n%s", buf.String())
		}
	})
}

// TestMarkdownWriter tests the markdown writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteSummary(createTestSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		for _, want := range []string{
			"# Website Inventory Audit",
			"## Sources",
			"[!WARNING]",
			"federal_registry",
			"HTTP 404",
			"```mermaid",
			"pie",
			"## Removal Reasons",
			"| GSA",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("tip when every source is available", func(t *testing.T) {
		t.Parallel()

		run := model.NewRun("reports")
		run.AddSource(model.SourceInfo{Name: model.SourceSiteScanner, Available: true, StatusCode: 200})
		s := model.NewRunSummary(uuid.New(), testStart, testStart, run)

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteSummary(s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "[!TIP]") {
			t.Error("expected tip alert")
		}
		if strings.Contains(output, "```mermaid") {
			t.Error("expected no chart without scan errors")
		}
		if strings.Contains(output, "## Removal Reasons") {
			t.Error("expected no removal section when the report was not written")
		}
	})

	t.Run("writes comparison", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteComparison(createTestComparison()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		for _, want := range []string{"## Added Agencies", "- NSF", "## Removed Agencies", "## Changed Agencies", "+2"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("note when nothing changed", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteComparison(&model.Comparison{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "[!NOTE]") {
			t.Error("expected note alert")
		}
	})
}

// failingWriter fails every write.
type failingWriter struct{}

func (failingWriter) WriteSummary(*model.RunSummary) (int, error) { return 0, errors.New("write failed") }
func (failingWriter) WriteComparison(*model.Comparison) (int, error) {
	return 0, errors.New("write failed")
}

// TestMultiWriter tests writing to several writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var a, b bytes.Buffer
		m := NewMultiWriter(NewSimpleWriter(&a), NewJSONWriter(&b))
		n, err := m.WriteSummary(createTestSummary())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != a.Len()+b.Len() {
			t.Errorf("expected %d total bytes, got %d", a.Len()+b.Len(), n)
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		m := NewMultiWriter(failingWriter{}, NewSimpleWriter(&buf))
		if _, err := m.WriteComparison(&model.Comparison{}); err == nil {
			t.Error("expected error")
		}
		if buf.Len() != 0 {
			t.Error("expected later writers to be skipped")
		}
	})
}

// TestWriteTable tests terminal table rendering.
func TestWriteTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := WriteTable(&buf, []string{"Agency", "Count"}, [][]string{{"GSA", "12"}, {"NASA", "3"}}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	output := strings.ToUpper(buf.String())
	for _, want := range []string{"AGENCY", "GSA", "NASA", "12"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected table to contain %q, got:\n%s", want, output)
		}
	}
}

// TestTruncateString tests digest shortening.
func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"0123456789abcdef", 12, "0123456789ab"},
	}
	for _, tt := range tests {
		if got := truncateString(tt.in, tt.max); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
