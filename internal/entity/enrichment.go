package entity

import "time"

// EnrichmentStatus is the lifecycle state of a contact enrichment job.
type EnrichmentStatus string

const (
	EnrichmentNotStarted EnrichmentStatus = "not_started"
	EnrichmentPending    EnrichmentStatus = "pending"
	EnrichmentCompleted  EnrichmentStatus = "completed"
	EnrichmentFailed     EnrichmentStatus = "failed"
)

// Terminal reports whether the job can make no further progress.
func (s EnrichmentStatus) Terminal() bool {
	return s == EnrichmentCompleted || s == EnrichmentFailed
}

// Defined reports whether a status has been observed at all.
func (s EnrichmentStatus) Defined() bool {
	return s != ""
}

// EnrichmentStep records one finished stage of a job.
type EnrichmentStep struct {
	Description string    `json:"description"`
	CompletedAt time.Time `json:"completed_at"`
}

// EnrichmentErrorDetails carries a business-level job failure. This is
// distinct from a transport error: the poll itself succeeded.
type EnrichmentErrorDetails struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// EnrichmentStatusSnapshot is the most recently polled state of a job,
// keyed by company id. Progress is meaningful only while the job is pending.
type EnrichmentStatusSnapshot struct {
	CompanyID      int                     `json:"company_id"`
	Status         EnrichmentStatus        `json:"status"`
	Progress       int                     `json:"progress"`
	CurrentStep    *string                 `json:"current_step,omitempty"`
	StepsCompleted []EnrichmentStep        `json:"steps_completed"`
	ContactsFound  int                     `json:"contacts_found"`
	ErrorDetails   *EnrichmentErrorDetails `json:"error_details,omitempty"`
	RetryCount     int                     `json:"retry_count"`
}
