package audit

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/inventoryaudit/internal/model"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		record model.ScannerRecord
		want   model.Issue
		ok     bool
	}{
		{
			name: "redirect wins over ssl",
			record: scanner(
				model.ColumnRedirect, "true",
				model.ColumnPrimaryScanStatus, "invalid_ssl_cert",
			),
			want: model.IssueMetaRedirect,
			ok:   true,
		},
		{
			name:   "ssl",
			record: scanner(model.ColumnPrimaryScanStatus, "ssl_protocol_error"),
			want:   model.IssueSSL,
			ok:     true,
		},
		{
			name: "ssl wins over www",
			record: scanner(
				model.ColumnPrimaryScanStatus, "ssl_version_cipher_mismatch",
				model.ColumnStatusCode, "404",
				model.ColumnWWWStatusCode, "200",
			),
			want: model.IssueSSL,
			ok:   true,
		},
		{
			name: "www required",
			record: scanner(
				model.ColumnInitialDomain, "example.gov",
				model.ColumnBaseDomain, "other.gov",
				model.ColumnStatusCode, "503",
				model.ColumnWWWStatusCode, "204",
			),
			want: model.IssueWWWRequired,
			ok:   true,
		},
		{
			name: "www forbidden uses base gov domain",
			record: scanner(
				model.ColumnInitialDomain, "example.gov",
				model.ColumnBaseDomain, "www.example.gov",
				model.ColumnStatusCode, "400",
				model.ColumnWWWStatusCode, "200",
			),
			want: model.IssueWWWForbidden,
			ok:   true,
		},
		{
			name: "www status out of range",
			record: scanner(
				model.ColumnStatusCode, "404",
				model.ColumnWWWStatusCode, "301",
			),
			ok: false,
		},
		{
			name: "status 600",
			record: scanner(
				model.ColumnStatusCode, "600",
				model.ColumnWWWStatusCode, "200",
			),
			ok: false,
		},
		{
			name:   "redirect false and ok site",
			record: scanner(model.ColumnRedirect, "false", model.ColumnStatusCode, "200"),
			ok:     false,
		},
		{
			name:   "empty row",
			record: scanner(),
			ok:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := Classify(tt.record)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Classify() = %q, %v; expected %q, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestScanErrors(t *testing.T) {
	t.Parallel()

	records := []model.ScannerRecord{
		scanner(model.ColumnAgency, "B", model.ColumnBureau, "X", model.ColumnRedirect, "true", model.ColumnURL, "first"),
		scanner(model.ColumnAgency, "A", model.ColumnRedirect, "false"),
		scanner(model.ColumnAgency, "A", model.ColumnBureau, "Y", model.ColumnPrimaryScanStatus, "invalid_ssl_cert"),
		scanner(model.ColumnAgency, "B", model.ColumnBureau, "X", model.ColumnRedirect, "true", model.ColumnURL, "second"),
	}

	got := ScanErrors(records)
	want := []model.ScanError{
		{Agency: "A", Bureau: "Y", Issue: model.IssueSSL},
		{Agency: "B", Bureau: "X", URL: "first", Issue: model.IssueMetaRedirect},
		{Agency: "B", Bureau: "X", URL: "second", Issue: model.IssueMetaRedirect},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("scan errors mismatch (-want +got):\n%s", diff)
	}

	counts := CountIssues(got)
	if counts[model.IssueMetaRedirect] != 2 || counts[model.IssueSSL] != 1 {
		t.Errorf("unexpected issue counts %v", counts)
	}
}
