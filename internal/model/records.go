package model

// InventoryMapEntry is one row of the local inventory map CSV.
// It maps an agency to the URL of the inventory it publishes.
type InventoryMapEntry struct {
	// Agency is the agency name exactly as written in the CSV.
	Agency string `json:"agency"`

	// WebsiteInventory is the URL of the agency's website inventory.
	WebsiteInventory string `json:"website_inventory"`
}

// NewInventoryMapEntry builds an entry from a CSV row.
func NewInventoryMapEntry(f Fields) InventoryMapEntry {
	return InventoryMapEntry{
		Agency:           f.Value("agency"),
		WebsiteInventory: f.Value("website_inventory"),
	}
}

// InventoryMap is an insertion-ordered mapping from agency to inventory URL.
// Setting an agency that already exists replaces its URL but keeps the
// position of the first occurrence.
type InventoryMap struct {
	order []string
	urls  map[string]string
}

// NewInventoryMap creates an empty InventoryMap.
func NewInventoryMap() *InventoryMap {
	return &InventoryMap{urls: make(map[string]string)}
}

// Set records the inventory URL for an agency.
func (m *InventoryMap) Set(agency, url string) {
	if _, ok := m.urls[agency]; !ok {
		m.order = append(m.order, agency)
	}
	m.urls[agency] = url
}

// Get returns the inventory URL for an agency.
func (m *InventoryMap) Get(agency string) (string, bool) {
	url, ok := m.urls[agency]
	return url, ok
}

// Len returns the number of agencies in the map.
func (m *InventoryMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

// Entries returns the entries in insertion order.
func (m *InventoryMap) Entries() []InventoryMapEntry {
	if m == nil {
		return nil
	}
	entries := make([]InventoryMapEntry, len(m.order))
	for i, agency := range m.order {
		entries[i] = InventoryMapEntry{Agency: agency, WebsiteInventory: m.urls[agency]}
	}
	return entries
}

// PublicInventoryRecord is one row of the public website inventory.
// Header names are lower-cased on read, so "Agency" and "agency" both land here.
type PublicInventoryRecord struct {
	Agency  string
	Website string
	Bureau  string
	Office  string
}

// NewPublicInventoryRecord builds a record from a CSV row.
// Absent columns become empty strings.
func NewPublicInventoryRecord(f Fields) PublicInventoryRecord {
	return PublicInventoryRecord{
		Agency:  f.Value("agency"),
		Website: f.Value("website"),
		Bureau:  f.Value("bureau"),
		Office:  f.Value("office"),
	}
}

// HasWebsite reports whether the website is non-blank after trimming.
func (r PublicInventoryRecord) HasWebsite() bool { return !isBlank(r.Website) }

// HasBureau reports whether the bureau is non-blank after trimming.
func (r PublicInventoryRecord) HasBureau() bool { return !isBlank(r.Bureau) }

// HasOffice reports whether the office is non-blank after trimming.
func (r PublicInventoryRecord) HasOffice() bool { return !isBlank(r.Office) }

// FederalRecord is one row of the federal .gov domain registry.
type FederalRecord struct {
	DomainName           string `json:"domain_name"`
	DomainType           string `json:"domain_type"`
	Agency               string `json:"agency"`
	OrganizationName     string `json:"organization_name"`
	City                 string `json:"city"`
	State                string `json:"state"`
	SecurityContactEmail string `json:"security_contact_email"`
}

// NewFederalRecord builds a record from a CSV row whose headers were
// trimmed, lower-cased and had whitespace runs replaced by underscores.
func NewFederalRecord(f Fields) FederalRecord {
	return FederalRecord{
		DomainName:           f.Value("domain_name"),
		DomainType:           f.Value("domain_type"),
		Agency:               f.Value("agency"),
		OrganizationName:     f.Value("organization_name"),
		City:                 f.Value("city"),
		State:                f.Value("state"),
		SecurityContactEmail: f.Value("security_contact_email"),
	}
}
