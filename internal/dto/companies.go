package dto

import (
	"net/url"
	"strconv"

	"github.com/elio-longevai/medicapital-lead-generator-sub000/internal/entity"
)

// ListFilter contains query parameters for the company listing endpoint.
type ListFilter struct {
	Skip        int
	Search      string
	Status      string
	ICPName     string
	EntityType  string
	SubIndustry string
	SortBy      string
}

// Values encodes the filter as request query parameters, omitting empty fields.
func (f ListFilter) Values() url.Values {
	v := url.Values{}
	if f.Skip > 0 {
		v.Set("skip", strconv.Itoa(f.Skip))
	}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	if f.Status != "" {
		v.Set("status", f.Status)
	}
	if f.ICPName != "" {
		v.Set("icp_name", f.ICPName)
	}
	if f.EntityType != "" {
		v.Set("entity_type", f.EntityType)
	}
	if f.SubIndustry != "" {
		v.Set("sub_industry", f.SubIndustry)
	}
	if f.SortBy != "" {
		v.Set("sort_by", f.SortBy)
	}
	return v
}

// CacheParams returns a canonical encoding of the filter, used to key the
// list cache so equal filters share one entry.
func (f ListFilter) CacheParams() string {
	return f.Values().Encode()
}

// CompanyList is the listing response envelope.
type CompanyList struct {
	Companies []entity.Company `json:"companies"`
	Total     int              `json:"total"`
}

// UpdateStatusRequest is the PATCH body for a status transition.
type UpdateStatusRequest struct {
	Status entity.CompanyStatus `json:"status"`
}

// DashboardStats aggregates catalogue counts for the dashboard cards.
type DashboardStats struct {
	Total      int `json:"total"`
	Discovered int `json:"discovered"`
	InReview   int `json:"in_review"`
	Qualified  int `json:"qualified"`
	Contacted  int `json:"contacted"`
	Rejected   int `json:"rejected"`
	Enriched   int `json:"enriched"`
}
