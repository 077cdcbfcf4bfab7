package audit

import "github.com/nao1215/inventoryaudit/internal/model"

// Registry is the federal registry with its distinct agency and
// organization names.
type Registry struct {
	records       []model.FederalRecord
	agencies      map[string]struct{}
	organizations map[string]struct{}
}

// NewRegistry indexes the registry records.
func NewRegistry(records []model.FederalRecord) *Registry {
	r := &Registry{
		records:       records,
		agencies:      make(map[string]struct{}),
		organizations: make(map[string]struct{}),
	}
	for _, rec := range records {
		r.agencies[rec.Agency] = struct{}{}
		r.organizations[rec.OrganizationName] = struct{}{}
	}
	return r
}

// Len returns the number of registry records.
func (r *Registry) Len() int {
	return len(r.records)
}

// HasAgency reports whether any record names the agency.
func (r *Registry) HasAgency(name string) bool {
	_, ok := r.agencies[name]
	return ok
}

// HasOrganization reports whether any record names the organization.
func (r *Registry) HasOrganization(name string) bool {
	_, ok := r.organizations[name]
	return ok
}

// MatchRecord compares rec with every registry record and emits one
// analysis row per comparison.
//
// The same analysis value is updated in place on every iteration, so each
// emitted row carries the fields of the registry record just compared. An
// error from emit stops the iteration and is returned.
func MatchRecord(rec model.PublicInventoryRecord, reg *Registry, emit func(model.InventoryAnalysis) error) error {
	a := model.NewInventoryAnalysis(rec)
	for _, fed := range reg.records {
		a.DomainAgencyInRegistry = fed.Agency
		a.DomainBureauInRegistry = fed.OrganizationName
		a.AgencyMatches = fed.Agency == rec.Agency
		a.BureauMatches = fed.OrganizationName == rec.Bureau
		a.WebsiteAgencyNameInRegistry = a.AgencyMatches || reg.HasAgency(rec.Agency)
		a.WebsiteBureauNameInRegistry = a.BureauMatches || reg.HasOrganization(rec.Bureau)
		if err := emit(a); err != nil {
			return err
		}
	}
	return nil
}
