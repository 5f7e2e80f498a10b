package poller

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/elio-longevai/medicapital-lead-generator-sub000/internal/cache"
	"github.com/elio-longevai/medicapital-lead-generator-sub000/internal/entity"
)

// DefaultInterval is the poll cadence while a job is pending.
const DefaultInterval = 2 * time.Second

// StatusSource fetches the current enrichment job state for a company.
type StatusSource interface {
	EnrichmentStatus(ctx context.Context, companyID int) (*entity.EnrichmentStatusSnapshot, error)
}

// Invalidator marks cached entries stale when a job finishes.
type Invalidator interface {
	Invalidate(key cache.Key)
	InvalidateKind(kind cache.Kind)
}

// Options tune a Poller.
type Options struct {
	// Interval between scheduled fetches while the job is pending.
	// Defaults to DefaultInterval.
	Interval time.Duration
	// OnResult, when set, receives every successfully fetched snapshot.
	OnResult func(*entity.EnrichmentStatusSnapshot)
	Logger   *logrus.Entry
}

// Poller drives the adaptive enrichment-status poll loop for one company.
//
// The cadence is keyed off the last successfully observed status: another
// fetch is scheduled after the fixed interval if and only if that status is
// pending. For any other status no fetch is scheduled; the loop parks until
// a Refresh kick or cancellation. Transient fetch errors do not change the
// last observed status and therefore do not change the cadence decision.
type Poller struct {
	source    StatusSource
	cache     Invalidator
	companyID int
	interval  time.Duration
	onResult  func(*entity.EnrichmentStatusSnapshot)
	log       *logrus.Entry

	refresh chan struct{}

	mu       sync.Mutex
	snapshot *entity.EnrichmentStatusSnapshot
	fetchErr error
	observed entity.EnrichmentStatus
}

// New constructs a poller for the company.
func New(source StatusSource, store Invalidator, companyID int, opts Options) *Poller {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	log := opts.Logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Poller{
		source:    source,
		cache:     store,
		companyID: companyID,
		interval:  interval,
		onResult:  opts.OnResult,
		log:       log.WithField("component", "poller").WithField("company_id", companyID),
		refresh:   make(chan struct{}, 1),
	}
}

// Run polls until ctx is cancelled. It fetches once immediately, then follows
// the cadence rule. Run returns only when ctx is done.
func (p *Poller) Run(ctx context.Context) {
	if p.companyID <= 0 {
		<-ctx.Done()
		return
	}
	for {
		p.fetchOnce(ctx)
		if ctx.Err() != nil {
			return
		}
		if delay, ok := IntervalFor(p.Status(), p.interval); ok {
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			case <-p.refresh:
			}
		} else {
			select {
			case <-ctx.Done():
				return
			case <-p.refresh:
			}
		}
	}
}

// IntervalFor is the cadence rule: it returns the delay until the next
// scheduled fetch, or false when polling must not continue for the status.
// Only a pending job keeps the schedule alive; not_started and both terminal
// statuses park the loop.
func IntervalFor(status entity.EnrichmentStatus, interval time.Duration) (time.Duration, bool) {
	if status == entity.EnrichmentPending {
		return interval, true
	}
	return 0, false
}

// Refresh forces an immediate fetch regardless of the cadence state. Used
// when the view regains focus and right after a trigger request succeeds.
// It never blocks; overlapping kicks coalesce.
func (p *Poller) Refresh() {
	select {
	case p.refresh <- struct{}{}:
	default:
	}
}

// Snapshot returns the latest successfully polled state and the error of the
// most recent fetch, if it failed.
func (p *Poller) Snapshot() (*entity.EnrichmentStatusSnapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot, p.fetchErr
}

// Status returns the last successfully observed job status, or the undefined
// status when nothing has been observed yet.
func (p *Poller) Status() entity.EnrichmentStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.observed
}

func (p *Poller) fetchOnce(ctx context.Context) {
	snap, err := p.source.EnrichmentStatus(ctx, p.companyID)
	if ctx.Err() != nil {
		// The view tore down while the request was in flight; discard.
		return
	}
	if err != nil {
		p.mu.Lock()
		p.fetchErr = err
		p.mu.Unlock()
		p.log.WithError(err).Warn("enrichment status fetch failed")
		return
	}

	p.mu.Lock()
	prev := p.observed
	p.snapshot = snap
	p.fetchErr = nil
	p.observed = snap.Status
	p.mu.Unlock()

	if snap.Status.Terminal() && snap.Status != prev {
		p.cache.Invalidate(cache.CompanyKey(p.companyID))
		p.cache.InvalidateKind(cache.KindCompanies)
		p.log.WithField("status", snap.Status).Info("enrichment reached terminal status, company data marked stale")
	}

	if p.onResult != nil {
		p.onResult(snap)
	}
}
