package audit

import (
	"cmp"
	"slices"
	"strings"

	"github.com/nao1215/inventoryaudit/internal/model"
)

const (
	// DefaultMarker is the source_list token of sites already in the public inventory.
	DefaultMarker = "omb_idea"

	// ExecutiveBranch is the branch value of sites in scope.
	ExecutiveBranch = "Executive"

	textTrue  = "true"
	textFalse = "false"
)

// inScope reports whether a scanner row is an executive-branch site that
// is not yet in the public inventory.
func inScope(r model.ScannerRecord, marker string) bool {
	return !strings.Contains(r.SourceList(), marker) && r.Branch() == ExecutiveBranch
}

// IsAdditionCandidate reports whether a scanned site qualifies for addition.
func IsAdditionCandidate(r model.ScannerRecord, marker string) bool {
	if !inScope(r, marker) {
		return false
	}
	if r.Filter() != textFalse || r.DAP() != textTrue || r.Redirect() != textFalse {
		return false
	}
	code, ok := r.StatusCode()
	return ok && code >= 200 && code < 400
}

// Additions returns the addition candidates sorted by agency, bureau and
// initial domain.
func Additions(records []model.ScannerRecord, marker string) []model.AdditionCandidate {
	var out []model.AdditionCandidate
	for _, r := range records {
		if !IsAdditionCandidate(r, marker) {
			continue
		}
		out = append(out, model.AdditionCandidate{
			Agency:        r.Agency(),
			Bureau:        r.Bureau(),
			InitialDomain: r.InitialDomain(),
		})
	}
	slices.SortFunc(out, func(a, b model.AdditionCandidate) int {
		return compareKeys(a.Agency, a.Bureau, a.InitialDomain, b.Agency, b.Bureau, b.InitialDomain)
	})
	return out
}

// RemovalReasonsFor returns the removal reasons that apply to a scanned
// site, in collection order. It returns nil for rows out of scope.
func RemovalReasonsFor(r model.ScannerRecord, marker string) []model.RemovalReason {
	if !inScope(r, marker) {
		return nil
	}
	var reasons []model.RemovalReason
	if r.Filter() == textFalse {
		reasons = append(reasons, model.ReasonFilter)
	}
	if r.Redirect() == textTrue {
		reasons = append(reasons, model.ReasonRedirect)
	}
	if code, ok := r.StatusCode(); ok && code >= 400 {
		reasons = append(reasons, model.ReasonStatusCode)
	}
	return reasons
}

// Removals returns the removal candidates sorted by agency, bureau and
// initial domain. Every candidate carries at least one reason.
func Removals(records []model.ScannerRecord, marker string) []model.RemovalCandidate {
	var out []model.RemovalCandidate
	for _, r := range records {
		reasons := RemovalReasonsFor(r, marker)
		if len(reasons) == 0 {
			continue
		}
		out = append(out, model.RemovalCandidate{
			Agency:        r.Agency(),
			Bureau:        r.Bureau(),
			InitialDomain: r.InitialDomain(),
			Reasons:       reasons,
		})
	}
	slices.SortFunc(out, func(a, b model.RemovalCandidate) int {
		return compareKeys(a.Agency, a.Bureau, a.InitialDomain, b.Agency, b.Bureau, b.InitialDomain)
	})
	return out
}

// CountReasons counts the candidates carrying each reason.
func CountReasons(candidates []model.RemovalCandidate) map[model.RemovalReason]int {
	counts := make(map[model.RemovalReason]int)
	for _, c := range candidates {
		for _, r := range c.Reasons {
			counts[r]++
		}
	}
	return counts
}

func compareKeys(a1, a2, a3, b1, b2, b3 string) int {
	return cmp.Or(
		strings.Compare(a1, b1),
		strings.Compare(a2, b2),
		strings.Compare(a3, b3),
	)
}
