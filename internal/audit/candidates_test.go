package audit

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/inventoryaudit/internal/model"
)

// scanner builds a scanner row from column/value pairs.
func scanner(kv ...string) model.ScannerRecord {
	f := make(model.Fields, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		f[kv[i]] = kv[i+1]
	}
	return model.NewScannerRecord(f)
}

// addition returns a row that qualifies for addition, with overrides applied.
func addition(agency, bureau, domain string, overrides ...string) model.ScannerRecord {
	kv := []string{
		model.ColumnAgency, agency,
		model.ColumnBureau, bureau,
		model.ColumnInitialDomain, domain,
		model.ColumnSourceList, "gov",
		model.ColumnBranch, "Executive",
		model.ColumnFilter, "false",
		model.ColumnStatusCode, "200",
		model.ColumnDAP, "true",
		model.ColumnRedirect, "false",
	}
	return scanner(append(kv, overrides...)...)
}

func TestIsAdditionCandidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		overrides []string
		want      bool
	}{
		{"qualifies", nil, true},
		{"status 399", []string{model.ColumnStatusCode, "399"}, true},
		{"already in inventory", []string{model.ColumnSourceList, "gov,omb_idea"}, false},
		{"branch is case sensitive", []string{model.ColumnBranch, "executive"}, false},
		{"filtered", []string{model.ColumnFilter, "true"}, false},
		{"filter empty", []string{model.ColumnFilter, ""}, false},
		{"status 400", []string{model.ColumnStatusCode, "400"}, false},
		{"status 199", []string{model.ColumnStatusCode, "199"}, false},
		{"status empty", []string{model.ColumnStatusCode, ""}, false},
		{"no dap", []string{model.ColumnDAP, "false"}, false},
		{"redirect", []string{model.ColumnRedirect, "true"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := addition("A", "B", "a.gov", tt.overrides...)
			if got := IsAdditionCandidate(r, DefaultMarker); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	t.Run("missing status column", func(t *testing.T) {
		t.Parallel()
		r := addition("A", "B", "a.gov")
		delete(r.Fields, model.ColumnStatusCode)
		if IsAdditionCandidate(r, DefaultMarker) {
			t.Error("expected absent status code to disqualify")
		}
	})
}

func TestAdditions(t *testing.T) {
	t.Parallel()

	records := []model.ScannerRecord{
		addition("B", "", "b.gov"),
		addition("A", "Y", "a2.gov"),
		addition("A", "X", "z.gov"),
		addition("A", "X", "a.gov"),
		addition("C", "", "c.gov", model.ColumnDAP, "false"),
	}
	want := []model.AdditionCandidate{
		{Agency: "A", Bureau: "X", InitialDomain: "a.gov"},
		{Agency: "A", Bureau: "X", InitialDomain: "z.gov"},
		{Agency: "A", Bureau: "Y", InitialDomain: "a2.gov"},
		{Agency: "B", Bureau: "", InitialDomain: "b.gov"},
	}

	if diff := cmp.Diff(want, Additions(records, DefaultMarker)); diff != "" {
		t.Errorf("additions mismatch (-want +got):\n%s", diff)
	}

	rng := rand.New(rand.NewPCG(3, 4))
	for i := range 20 {
		shuffled := slices.Clone(records)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		if diff := cmp.Diff(want, Additions(shuffled, DefaultMarker)); diff != "" {
			t.Fatalf("permutation %d changed the output (-want +got):\n%s", i, diff)
		}
	}

	if got := Additions(nil, DefaultMarker); len(got) != 0 {
		t.Errorf("expected no candidates, got %d", len(got))
	}
}

func TestRemovals(t *testing.T) {
	t.Parallel()

	row := func(agency, filter, redirect, status string) model.ScannerRecord {
		return scanner(
			model.ColumnAgency, agency,
			model.ColumnSourceList, "gov",
			model.ColumnBranch, "Executive",
			model.ColumnFilter, filter,
			model.ColumnRedirect, redirect,
			model.ColumnStatusCode, status,
		)
	}

	records := []model.ScannerRecord{
		row("D", "true", "false", "200"),
		row("C", "false", "true", "404"),
		row("B", "true", "true", ""),
		row("A", "true", "false", "500"),
		scanner(model.ColumnAgency, "E", model.ColumnBranch, "Executive", model.ColumnSourceList, "omb_idea", model.ColumnFilter, "false"),
		scanner(model.ColumnAgency, "F", model.ColumnBranch, "Legislative", model.ColumnFilter, "false"),
	}

	got := Removals(records, DefaultMarker)
	want := []model.RemovalCandidate{
		{Agency: "A", Reasons: []model.RemovalReason{model.ReasonStatusCode}},
		{Agency: "B", Reasons: []model.RemovalReason{model.ReasonRedirect}},
		{Agency: "C", Reasons: []model.RemovalReason{model.ReasonFilter, model.ReasonRedirect, model.ReasonStatusCode}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("removals mismatch (-want +got):\n%s", diff)
	}
	for _, c := range got {
		if len(c.Reasons) == 0 {
			t.Errorf("%s: candidate without reasons", c.Agency)
		}
	}

	counts := CountReasons(got)
	if counts[model.ReasonStatusCode] != 2 || counts[model.ReasonRedirect] != 2 || counts[model.ReasonFilter] != 1 {
		t.Errorf("unexpected reason counts %v", counts)
	}
}
