package model

// Site-scanner column names used by the classifiers.
// The feed carries many more columns; they stay available through Fields.
const (
	ColumnAgency            = "agency"
	ColumnBureau            = "bureau"
	ColumnBranch            = "branch"
	ColumnSourceList        = "source_list"
	ColumnFilter            = "filter"
	ColumnStatusCode        = "status_code"
	ColumnDAP               = "dap"
	ColumnRedirect          = "redirect"
	ColumnPrimaryScanStatus = "primary_scan_status"
	ColumnInitialURL        = "initial_url"
	ColumnInitialDomain     = "initial_domain"
	ColumnBaseDomain        = "base_domain"
	ColumnURL               = "url"
	ColumnDomain            = "domain"
	ColumnWWWStatusCode     = "www_status_code"
)

// ScannerRecord is one row of the site-scanning dataset.
//
// The upstream feed encodes booleans as text, so flag accessors return the
// raw string and callers compare against "true" or "false" literally.
type ScannerRecord struct {
	Fields Fields
}

// NewScannerRecord wraps a CSV row.
func NewScannerRecord(f Fields) ScannerRecord {
	if f == nil {
		f = Fields{}
	}
	return ScannerRecord{Fields: f}
}

// Agency returns the owning agency, or "" when absent.
func (r ScannerRecord) Agency() string { return r.Fields.Value(ColumnAgency) }

// Bureau returns the owning bureau, or "" when absent.
func (r ScannerRecord) Bureau() string { return r.Fields.Value(ColumnBureau) }

// Branch returns the government branch, e.g. "Executive".
func (r ScannerRecord) Branch() string { return r.Fields.Value(ColumnBranch) }

// SourceList returns the list of source registries the site came from.
func (r ScannerRecord) SourceList() string { return r.Fields.Value(ColumnSourceList) }

// Filter returns the raw filter flag.
func (r ScannerRecord) Filter() string { return r.Fields.Value(ColumnFilter) }

// DAP returns the raw Digital Analytics Program flag.
func (r ScannerRecord) DAP() string { return r.Fields.Value(ColumnDAP) }

// Redirect returns the raw redirect flag.
func (r ScannerRecord) Redirect() string { return r.Fields.Value(ColumnRedirect) }

// PrimaryScanStatus returns the status of the primary scan.
func (r ScannerRecord) PrimaryScanStatus() string {
	return r.Fields.Value(ColumnPrimaryScanStatus)
}

// InitialURL returns the URL the scan started from.
func (r ScannerRecord) InitialURL() string { return r.Fields.Value(ColumnInitialURL) }

// InitialDomain returns the domain the scan started from.
func (r ScannerRecord) InitialDomain() string { return r.Fields.Value(ColumnInitialDomain) }

// BaseDomain returns the registrable base domain of the final URL.
func (r ScannerRecord) BaseDomain() string { return r.Fields.Value(ColumnBaseDomain) }

// URL returns the final URL after redirects.
func (r ScannerRecord) URL() string { return r.Fields.Value(ColumnURL) }

// Domain returns the domain of the final URL.
func (r ScannerRecord) Domain() string { return r.Fields.Value(ColumnDomain) }

// StatusCode returns the HTTP status of the primary scan.
// It reports false when the value is absent or not numeric.
func (r ScannerRecord) StatusCode() (float64, bool) {
	return r.Fields.Number(ColumnStatusCode)
}

// WWWStatusCode returns the HTTP status of the www-prefixed variant.
func (r ScannerRecord) WWWStatusCode() (float64, bool) {
	return r.Fields.Number(ColumnWWWStatusCode)
}
