package entity

import "time"

// CompanyStatus is the qualification lifecycle state of a lead.
type CompanyStatus string

const (
	StatusDiscovered CompanyStatus = "discovered"
	StatusInReview   CompanyStatus = "in_review"
	StatusQualified  CompanyStatus = "qualified"
	StatusContacted  CompanyStatus = "contacted"
	StatusRejected   CompanyStatus = "rejected"
)

// Valid reports whether the value is a known lifecycle state. The backend is
// the authority on transition legality; this only guards against typos.
func (s CompanyStatus) Valid() bool {
	switch s {
	case StatusDiscovered, StatusInReview, StatusQualified, StatusContacted, StatusRejected:
		return true
	}
	return false
}

// Company represents a prospective lead in the catalogue.
type Company struct {
	ID          int           `json:"id"`
	Name        string        `json:"name"`
	Website     *string       `json:"website,omitempty"`
	City        *string       `json:"city,omitempty"`
	Country     *string       `json:"country,omitempty"`
	EntityType  *string       `json:"entity_type,omitempty"`
	SubIndustry *string       `json:"sub_industry,omitempty"`
	ICPName     *string       `json:"icp_name,omitempty"`
	ICPScore    *int          `json:"icp_score,omitempty"`
	Status      CompanyStatus `json:"status"`

	// ContactEnrichmentStatus is a snapshot cached on the entity by the
	// backend; it may lag behind the job. The live polled status takes
	// precedence whenever one is available.
	ContactEnrichmentStatus EnrichmentStatus `json:"contact_enrichment_status,omitempty"`
	ContactPersons          []ContactPerson  `json:"contact_persons"`
	ContactEnrichedAt       *time.Time       `json:"contact_enriched_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
