package watch

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/elio-longevai/medicapital-lead-generator-sub000/internal/api"
	"github.com/elio-longevai/medicapital-lead-generator-sub000/internal/enrich"
	"github.com/elio-longevai/medicapital-lead-generator-sub000/internal/entity"
	"github.com/elio-longevai/medicapital-lead-generator-sub000/internal/poller"
	"github.com/elio-longevai/medicapital-lead-generator-sub000/internal/service"
)

// Options tune a Session.
type Options struct {
	PollInterval time.Duration
	// StopOnTerminal ends Run once the job reaches a terminal status,
	// instead of staying parked until the context is cancelled.
	StopOnTerminal bool
	Logger         *logrus.Entry
}

// Session drives the detail view of one company: it runs the poll loop,
// derives the pending signal from its three sources and reports one-shot
// notifications on terminal transitions. Cancelling the Run context is the
// unmount; a new Session is a fresh mount and re-seeds its watcher from
// whatever snapshot is currently cached, so transitions that happened while
// unmounted are not re-notified.
type Session struct {
	svc       *service.LeadsService
	trigger   *enrich.Trigger
	poller    *poller.Poller
	watcher   *enrich.Watcher
	log       *logrus.Entry
	companyID int
	stop      bool

	mu      sync.Mutex
	company *entity.Company
	cancel  context.CancelFunc
}

// NewSession mounts a view session for the company.
func NewSession(svc *service.LeadsService, companyID int, opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	log = log.WithField("company_id", companyID)

	var initial entity.EnrichmentStatus
	if snap, ok := svc.CachedEnrichmentStatus(companyID); ok {
		initial = snap.Status
	}

	s := &Session{
		svc:       svc,
		watcher:   enrich.NewWatcher(initial),
		trigger:   enrich.NewTrigger(svc, log),
		log:       log.WithField("component", "watch"),
		companyID: companyID,
		stop:      opts.StopOnTerminal,
	}
	s.poller = poller.New(svc, svc.Store(), companyID, poller.Options{
		Interval: opts.PollInterval,
		OnResult: s.onResult,
		Logger:   log,
	})
	return s
}

// Run loads the company and polls until the context is cancelled, or until
// the job reaches a terminal status when StopOnTerminal is set.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	company, err := s.svc.GetCompany(ctx, s.companyID)
	if err != nil {
		return err
	}
	s.setCompany(company)

	s.poller.Run(ctx)
	return nil
}

// StartEnrichment triggers a new job and kicks the poll loop so the
// transition to pending is observed promptly. A conflict (job already
// running server-side) is reported as an advisory, not a failure.
func (s *Session) StartEnrichment(ctx context.Context) error {
	_, err := s.trigger.Start(ctx, s.companyID)
	switch {
	case err == nil:
		s.render(enrich.Notification{
			Level:   enrich.LevelInfo,
			Title:   "Contact enrichment started",
			Message: "searching for contact persons",
		})
	case api.IsConflict(err):
		s.render(enrich.Notification{
			Level:   enrich.LevelInfo,
			Title:   "Enrichment already running",
			Message: "a job for this company is already in progress",
		})
	default:
		s.render(enrich.Notification{
			Level:   enrich.LevelError,
			Title:   "Could not start enrichment",
			Message: err.Error(),
		})
		return err
	}
	s.poller.Refresh()
	return nil
}

// Refresh forces an immediate poll, e.g. when the view regains focus.
func (s *Session) Refresh() {
	s.poller.Refresh()
}

// IsPending derives the "enrichment in progress" signal from the in-flight
// trigger, the live polled status and the entity's cached flag. Recomputed
// on every call.
func (s *Session) IsPending() bool {
	var entityFlag entity.EnrichmentStatus
	if c := s.Company(); c != nil {
		entityFlag = c.ContactEnrichmentStatus
	}
	return enrich.IsPending(s.trigger.Pending(), s.poller.Status(), entityFlag)
}

// Company returns the loaded entity, or nil before Run has fetched it.
func (s *Session) Company() *entity.Company {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.company
}

// Snapshot exposes the latest polled job state.
func (s *Session) Snapshot() (*entity.EnrichmentStatusSnapshot, error) {
	return s.poller.Snapshot()
}

func (s *Session) setCompany(c *entity.Company) {
	s.mu.Lock()
	s.company = c
	s.mu.Unlock()
}

func (s *Session) onResult(snap *entity.EnrichmentStatusSnapshot) {
	if n := s.watcher.Observe(snap); n != nil {
		s.render(*n)
	} else if snap.Status == entity.EnrichmentPending {
		fields := logrus.Fields{"progress": snap.Progress}
		if snap.CurrentStep != nil {
			fields["step"] = *snap.CurrentStep
		}
		s.log.WithFields(fields).Info("enrichment in progress")
	}

	if snap.Status.Terminal() && s.stop {
		s.mu.Lock()
		cancel := s.cancel
		s.mu.Unlock()
		if cancel != nil {
			cancel()
		}
	}
}

func (s *Session) render(n enrich.Notification) {
	entry := s.log.WithField("title", n.Title)
	switch n.Level {
	case enrich.LevelError:
		entry.Error(n.Message)
	case enrich.LevelSuccess:
		entry.Info(n.Message)
	default:
		entry.Info(n.Message)
	}
}
