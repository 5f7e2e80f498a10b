package enrich

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/elio-longevai/medicapital-lead-generator-sub000/internal/api"
	"github.com/elio-longevai/medicapital-lead-generator-sub000/internal/dto"
)

// ErrTriggerInFlight means Start was called while this trigger's previous
// request had not resolved yet. Races between different views are resolved
// server-side, not here.
var ErrTriggerInFlight = errors.New("enrichment trigger already in flight")

// TriggerSource starts an enrichment job on the backend.
type TriggerSource interface {
	StartEnrichment(ctx context.Context, companyID int) (*dto.EnrichStartResponse, error)
}

// Trigger issues the fire-and-forget "start enrichment" request and tracks
// the pending state of that single request. This pending flag is distinct
// from the poll loop's own state: it covers the window between the click and
// the first poll tick that observes the new job.
//
// A trigger never writes any cache entry; the subsequent poll is solely
// responsible for observing the transition to pending.
type Trigger struct {
	source TriggerSource
	log    *logrus.Entry

	mu      sync.Mutex
	pending bool
	lastErr error
}

// NewTrigger wires a trigger.
func NewTrigger(source TriggerSource, log *logrus.Entry) *Trigger {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Trigger{source: source, log: log.WithField("component", "trigger")}
}

// Start begins enrichment for the company. Conflict errors (a job already
// running server-side) are returned as-is; callers distinguish them with
// api.IsConflict to show the softer advisory notice.
func (t *Trigger) Start(ctx context.Context, companyID int) (*dto.EnrichStartResponse, error) {
	t.mu.Lock()
	if t.pending {
		t.mu.Unlock()
		return nil, ErrTriggerInFlight
	}
	t.pending = true
	t.mu.Unlock()

	resp, err := t.source.StartEnrichment(ctx, companyID)

	t.mu.Lock()
	t.pending = false
	t.lastErr = err
	t.mu.Unlock()

	if err != nil {
		if api.IsConflict(err) {
			t.log.WithField("company_id", companyID).Info("enrichment already in progress")
		} else {
			t.log.WithField("company_id", companyID).WithError(err).Error("enrichment trigger failed")
		}
		return nil, err
	}
	t.log.WithField("company_id", companyID).Info("enrichment job accepted")
	return resp, nil
}

// Pending reports whether a trigger request is currently in flight.
func (t *Trigger) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// Err returns the error of the most recent request, if any.
func (t *Trigger) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastErr
}
