package model

import "strings"

// Output column orders for the site-scanner reports.
var (
	AdditionCandidateHeader = []string{"agency", "bureau", "initial_domain"}
	RemovalCandidateHeader  = []string{"agency", "bureau", "initial_domain", "reason"}
	ScanErrorHeader         = []string{"agency", "bureau", "initial_url", "initial_domain", "url", "domain", "issue"}
)

// RemovalReason explains why a site should leave the public inventory.
type RemovalReason string

// Removal reasons, in the order they are collected.
const (
	ReasonFilter     RemovalReason = "Filter"
	ReasonRedirect   RemovalReason = "Redirect"
	ReasonStatusCode RemovalReason = "Status Code"
)

// RemovalReasons lists every reason in collection order.
var RemovalReasons = []RemovalReason{ReasonFilter, ReasonRedirect, ReasonStatusCode}

// Issue classifies an inconsistency found in a scanned site.
type Issue string

// Scan-error issues, in classification priority order.
const (
	IssueMetaRedirect Issue = "Suspected Meta Redirect"
	IssueSSL          Issue = "ssl"
	IssueWWWRequired  Issue = "www-required"
	IssueWWWForbidden Issue = "www-forbidden"
)

// Issues lists every issue in priority order.
var Issues = []Issue{IssueMetaRedirect, IssueSSL, IssueWWWRequired, IssueWWWForbidden}

// AdditionCandidate is a scanned site that belongs in the public inventory.
type AdditionCandidate struct {
	Agency        string `json:"agency"`
	Bureau        string `json:"bureau"`
	InitialDomain string `json:"initial_domain"`
}

// CSVRecord returns the row in AdditionCandidateHeader order.
func (c AdditionCandidate) CSVRecord() []string {
	return []string{c.Agency, c.Bureau, c.InitialDomain}
}

// RemovalCandidate is a scanned site that should be removed, with at least
// one reason.
type RemovalCandidate struct {
	Agency        string          `json:"agency"`
	Bureau        string          `json:"bureau"`
	InitialDomain string          `json:"initial_domain"`
	Reasons       []RemovalReason `json:"reason"`
}

// ReasonText joins the reasons with commas.
func (c RemovalCandidate) ReasonText() string {
	parts := make([]string, len(c.Reasons))
	for i, r := range c.Reasons {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}

// CSVRecord returns the row in RemovalCandidateHeader order.
func (c RemovalCandidate) CSVRecord() []string {
	return []string{c.Agency, c.Bureau, c.InitialDomain, c.ReasonText()}
}

// ScanError is a scanned site with a redirect, SSL or www inconsistency.
type ScanError struct {
	Agency        string `json:"agency"`
	Bureau        string `json:"bureau"`
	InitialURL    string `json:"initial_url"`
	InitialDomain string `json:"initial_domain"`
	URL           string `json:"url"`
	Domain        string `json:"domain"`
	Issue         Issue  `json:"issue"`
}

// CSVRecord returns the row in ScanErrorHeader order.
func (e ScanError) CSVRecord() []string {
	return []string{e.Agency, e.Bureau, e.InitialURL, e.InitialDomain, e.URL, e.Domain, string(e.Issue)}
}
