package audit

import (
	"cmp"
	"slices"
	"strings"

	"github.com/nao1215/inventoryaudit/internal/model"
)

// sslFailures are the primary_scan_status values reported as "ssl".
var sslFailures = map[string]struct{}{
	"invalid_ssl_cert":            {},
	"ssl_protocol_error":          {},
	"ssl_version_cipher_mismatch": {},
}

// Classify returns the issue of a scanned site and whether it has one.
// Conditions are checked in priority order and the first match wins:
// meta redirect, SSL failure, then www-required or www-forbidden.
func Classify(r model.ScannerRecord) (model.Issue, bool) {
	if r.Redirect() == textTrue {
		return model.IssueMetaRedirect, true
	}
	if _, ok := sslFailures[r.PrimaryScanStatus()]; ok {
		return model.IssueSSL, true
	}
	if !wwwMismatch(r) {
		return "", false
	}
	if r.InitialDomain() != BaseGovDomain(r.BaseDomain()) {
		return model.IssueWWWRequired, true
	}
	return model.IssueWWWForbidden, true
}

// wwwMismatch reports whether the bare domain fails with a client or server
// error while the www host answers with success.
func wwwMismatch(r model.ScannerRecord) bool {
	code, ok := r.StatusCode()
	if !ok || code < 400 || code >= 600 {
		return false
	}
	www, ok := r.WWWStatusCode()
	return ok && www >= 200 && www < 300
}

// ScanErrors classifies every scanned site and returns the ones with an
// issue, stable-sorted by agency and bureau.
func ScanErrors(records []model.ScannerRecord) []model.ScanError {
	var out []model.ScanError
	for _, r := range records {
		issue, ok := Classify(r)
		if !ok {
			continue
		}
		out = append(out, model.ScanError{
			Agency:        r.Agency(),
			Bureau:        r.Bureau(),
			InitialURL:    r.InitialURL(),
			InitialDomain: r.InitialDomain(),
			URL:           r.URL(),
			Domain:        r.Domain(),
			Issue:         issue,
		})
	}
	slices.SortStableFunc(out, func(a, b model.ScanError) int {
		return cmp.Or(strings.Compare(a.Agency, b.Agency), strings.Compare(a.Bureau, b.Bureau))
	})
	return out
}

// CountIssues counts scan errors per issue.
func CountIssues(errs []model.ScanError) map[model.Issue]int {
	counts := make(map[model.Issue]int)
	for _, e := range errs {
		counts[e.Issue]++
	}
	return counts
}
