package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"google.golang.org/api/idtoken"

	"github.com/elio-longevai/medicapital-lead-generator-sub000/internal/config"
	"github.com/elio-longevai/medicapital-lead-generator-sub000/internal/dto"
	"github.com/elio-longevai/medicapital-lead-generator-sub000/internal/entity"
)

// Client talks to the CRM backend REST API.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	log     *logrus.Entry
}

// NewClient builds an API client, auto-configuring an ID token client when
// the backend sits behind IAM (Cloud Run). Pass a non-nil httpClient to
// override transport selection, e.g. in tests.
func NewClient(httpClient *http.Client, cfg *config.Config, log *logrus.Entry) *Client {
	baseURL := strings.TrimRight(cfg.APIBaseURL, "/")
	if baseURL == "" {
		panic("APIBaseURL must not be empty")
	}

	if httpClient == nil {
		if cfg.UseIDToken {
			if idc, err := idtoken.NewClient(context.Background(), baseURL); err == nil {
				httpClient = idc
			}
		}
		if httpClient == nil {
			httpClient = &http.Client{Timeout: cfg.RequestTimeout}
		}
	}

	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	c := &Client{
		limiter: newLimiter(cfg.RateLimitAPI),
		log:     log.WithField("component", "api"),
	}

	rc := resty.NewWithClient(httpClient)
	rc.SetBaseURL(baseURL)
	rc.SetHeader("Accept", "application/json")
	rc.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		c.log.WithFields(logrus.Fields{
			"method":  resp.Request.Method,
			"url":     resp.Request.URL,
			"status":  resp.StatusCode(),
			"latency": resp.Time(),
		}).Debug("backend request")
		return nil
	})
	c.http = rc

	return c
}

func newLimiter(cfg config.RateLimitConfig) *rate.Limiter {
	if cfg.Requests <= 0 || cfg.Interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	perRequest := cfg.Interval / time.Duration(cfg.Requests)
	if perRequest <= 0 {
		perRequest = time.Second
	}
	return rate.NewLimiter(rate.Every(perRequest), cfg.Requests)
}

type errorBody struct {
	Detail string `json:"detail"`
}

// newRequest waits for the rate limiter and prepares a request carrying a
// fresh X-Request-ID for traceability.
func (c *Client) newRequest(ctx context.Context) (*resty.Request, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", uuid.NewString()).
		SetError(&errorBody{}), nil
}

func toAPIError(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	detail := ""
	if body, ok := resp.Error().(*errorBody); ok && body != nil {
		detail = body.Detail
	}
	return &Error{StatusCode: resp.StatusCode(), Detail: detail}
}

// ListCompanies fetches the catalogue page described by the filter.
func (c *Client) ListCompanies(ctx context.Context, filter dto.ListFilter) (*dto.CompanyList, error) {
	req, err := c.newRequest(ctx)
	if err != nil {
		return nil, err
	}
	var out dto.CompanyList
	resp, err := req.SetQueryParamsFromValues(filter.Values()).SetResult(&out).Get("/api/companies")
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	if err := toAPIError(resp); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetCompany fetches a single lead profile.
func (c *Client) GetCompany(ctx context.Context, id int) (*entity.Company, error) {
	req, err := c.newRequest(ctx)
	if err != nil {
		return nil, err
	}
	var out entity.Company
	resp, err := req.SetResult(&out).Get(fmt.Sprintf("/api/companies/%d", id))
	if err != nil {
		return nil, fmt.Errorf("get company %d: %w", id, err)
	}
	if err := toAPIError(resp); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStatus transitions a lead to the given lifecycle state. The response
// is the complete updated entity.
func (c *Client) UpdateStatus(ctx context.Context, id int, status entity.CompanyStatus) (*entity.Company, error) {
	req, err := c.newRequest(ctx)
	if err != nil {
		return nil, err
	}
	var out entity.Company
	resp, err := req.
		SetBody(dto.UpdateStatusRequest{Status: status}).
		SetResult(&out).
		Patch(fmt.Sprintf("/api/companies/%d/status", id))
	if err != nil {
		return nil, fmt.Errorf("update status for company %d: %w", id, err)
	}
	if err := toAPIError(resp); err != nil {
		return nil, err
	}
	return &out, nil
}

// StartEnrichment asks the backend to begin contact enrichment for the
// company. Idempotency is enforced server-side; a conflict response means a
// job is already running (see IsConflict).
func (c *Client) StartEnrichment(ctx context.Context, id int) (*dto.EnrichStartResponse, error) {
	req, err := c.newRequest(ctx)
	if err != nil {
		return nil, err
	}
	var out dto.EnrichStartResponse
	resp, err := req.SetResult(&out).Post(fmt.Sprintf("/api/companies/%d/enrich-contacts", id))
	if err != nil {
		return nil, fmt.Errorf("start enrichment for company %d: %w", id, err)
	}
	if err := toAPIError(resp); err != nil {
		return nil, err
	}
	return &out, nil
}

// EnrichmentStatus fetches the current state of the enrichment job for the
// company. Callers treat every response as immediately stale.
func (c *Client) EnrichmentStatus(ctx context.Context, id int) (*entity.EnrichmentStatusSnapshot, error) {
	req, err := c.newRequest(ctx)
	if err != nil {
		return nil, err
	}
	var out entity.EnrichmentStatusSnapshot
	resp, err := req.SetResult(&out).Get(fmt.Sprintf("/api/companies/%d/enrichment-status", id))
	if err != nil {
		return nil, fmt.Errorf("enrichment status for company %d: %w", id, err)
	}
	if err := toAPIError(resp); err != nil {
		return nil, err
	}
	if out.CompanyID == 0 {
		out.CompanyID = id
	}
	return &out, nil
}

// DashboardStats fetches the aggregate counts behind the dashboard cards.
func (c *Client) DashboardStats(ctx context.Context) (*dto.DashboardStats, error) {
	req, err := c.newRequest(ctx)
	if err != nil {
		return nil, err
	}
	var out dto.DashboardStats
	resp, err := req.SetResult(&out).Get("/api/dashboard/stats")
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	if err := toAPIError(resp); err != nil {
		return nil, err
	}
	return &out, nil
}
