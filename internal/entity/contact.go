package entity

// ContactPerson is a person attached to a company by the enrichment job.
// The backend replaces the whole list when a job completes.
type ContactPerson struct {
	Name        string  `json:"name"`
	Role        *string `json:"role,omitempty"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	LinkedInURL *string `json:"linkedin_url,omitempty"`
	Source      *string `json:"source,omitempty"`
}
