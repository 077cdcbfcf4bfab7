package model

import "strconv"

// InventoryStatsHeader is the column order of inventory_stats.csv.
var InventoryStatsHeader = []string{
	"agency",
	"website_inventory",
	"last_updated_date",
	"website_count",
	"bureau_count",
	"office_count",
	"entries_without_bureau",
	"entries_without_office",
	"duplicate_websites",
}

// InventoryStats holds the data-quality statistics of one agency.
//
// Counters only grow during aggregation. DuplicateWebsites stays zero until
// the duplicate resolver runs. WebsiteCount is always at least the number of
// unique websites because repeated websites count again without growing the set.
type InventoryStats struct {
	// Agency is the aggregation key, matched exactly.
	Agency string `json:"agency"`

	// WebsiteInventory is the inventory URL taken from the inventory map.
	WebsiteInventory string `json:"website_inventory"`

	// LastUpdatedDate is the last commit date of the agency snapshot, MM-DD-YY.
	LastUpdatedDate string `json:"last_updated_date"`

	WebsiteCount         int `json:"website_count"`
	BureauCount          int `json:"bureau_count"`
	OfficeCount          int `json:"office_count"`
	EntriesWithoutBureau int `json:"entries_without_bureau"`
	EntriesWithoutOffice int `json:"entries_without_office"`
	DuplicateWebsites    int `json:"duplicate_websites"`

	// UnacceptableURLs counts websites containing a backslash, colon,
	// question mark or "www.".
	UnacceptableURLs int `json:"unacceptable_urls"`

	// UniqueWebsites is working state for the resolver. It is not written
	// to any report.
	UniqueWebsites map[string]struct{} `json:"-"`
}

// NewInventoryStats creates zeroed statistics for an agency.
func NewInventoryStats(agency string) InventoryStats {
	return InventoryStats{
		Agency:         agency,
		UniqueWebsites: make(map[string]struct{}),
	}
}

// UniqueWebsiteCount returns the number of distinct websites seen.
func (s InventoryStats) UniqueWebsiteCount() int {
	return len(s.UniqueWebsites)
}

// HasWebsite reports whether the website was seen for this agency.
func (s InventoryStats) HasWebsite(website string) bool {
	_, ok := s.UniqueWebsites[website]
	return ok
}

// CSVRecord returns the row in InventoryStatsHeader order.
func (s InventoryStats) CSVRecord() []string {
	return []string{
		s.Agency,
		s.WebsiteInventory,
		s.LastUpdatedDate,
		strconv.Itoa(s.WebsiteCount),
		strconv.Itoa(s.BureauCount),
		strconv.Itoa(s.OfficeCount),
		strconv.Itoa(s.EntriesWithoutBureau),
		strconv.Itoa(s.EntriesWithoutOffice),
		strconv.Itoa(s.DuplicateWebsites),
	}
}
