package model

import "strconv"

// InventoryAnalysisHeader is the column order of inventory_analysis.csv.
var InventoryAnalysisHeader = []string{
	"website",
	"website_agency",
	"website_bureau",
	"website_office",
	"domain_agency_in_registry",
	"domain_bureau_in_registry",
	"agency_matches",
	"bureau_matches",
	"website_agency_name_in_registry",
	"website_bureau_name_in_registry",
}

// InventoryAnalysis compares one public inventory row with the federal registry.
//
// The registry fields and the two *Matches flags describe the registry row
// compared most recently. The *NameInRegistry flags are true when the name
// appears anywhere in the registry.
type InventoryAnalysis struct {
	Website       string `json:"website"`
	WebsiteAgency string `json:"website_agency"`
	WebsiteBureau string `json:"website_bureau"`
	WebsiteOffice string `json:"website_office"`

	DomainAgencyInRegistry string `json:"domain_agency_in_registry"`
	DomainBureauInRegistry string `json:"domain_bureau_in_registry"`
	AgencyMatches          bool   `json:"agency_matches"`
	BureauMatches          bool   `json:"bureau_matches"`

	WebsiteAgencyNameInRegistry bool `json:"website_agency_name_in_registry"`
	WebsiteBureauNameInRegistry bool `json:"website_bureau_name_in_registry"`
}

// NewInventoryAnalysis starts an analysis for a public inventory row.
func NewInventoryAnalysis(r PublicInventoryRecord) InventoryAnalysis {
	return InventoryAnalysis{
		Website:       r.Website,
		WebsiteAgency: r.Agency,
		WebsiteBureau: r.Bureau,
		WebsiteOffice: r.Office,
	}
}

// CSVRecord returns the row in InventoryAnalysisHeader order.
func (a InventoryAnalysis) CSVRecord() []string {
	return []string{
		a.Website,
		a.WebsiteAgency,
		a.WebsiteBureau,
		a.WebsiteOffice,
		a.DomainAgencyInRegistry,
		a.DomainBureauInRegistry,
		strconv.FormatBool(a.AgencyMatches),
		strconv.FormatBool(a.BureauMatches),
		strconv.FormatBool(a.WebsiteAgencyNameInRegistry),
		strconv.FormatBool(a.WebsiteBureauNameInRegistry),
	}
}
