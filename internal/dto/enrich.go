package dto

// EnrichStartResponse acknowledges an accepted enrichment job.
type EnrichStartResponse struct {
	Message   string `json:"message"`
	CompanyID int    `json:"companyId"`
}
