package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/elio-longevai/medicapital-lead-generator-sub000/internal/api"
	"github.com/elio-longevai/medicapital-lead-generator-sub000/internal/cache"
	"github.com/elio-longevai/medicapital-lead-generator-sub000/internal/dto"
	"github.com/elio-longevai/medicapital-lead-generator-sub000/internal/entity"
)

// Backend is the REST surface the service consumes.
type Backend interface {
	ListCompanies(ctx context.Context, filter dto.ListFilter) (*dto.CompanyList, error)
	GetCompany(ctx context.Context, id int) (*entity.Company, error)
	UpdateStatus(ctx context.Context, id int, status entity.CompanyStatus) (*entity.Company, error)
	StartEnrichment(ctx context.Context, id int) (*dto.EnrichStartResponse, error)
	EnrichmentStatus(ctx context.Context, id int) (*entity.EnrichmentStatusSnapshot, error)
	DashboardStats(ctx context.Context) (*dto.DashboardStats, error)
}

var _ Backend = (*api.Client)(nil)

// LeadsService is the fetch-through-cache layer between the UI and the
// backend. Reads serve from the store within its freshness window; mutations
// go through the two documented write paths: the status-mutation response
// directly overwrites the company entry, and everything else coordinates via
// invalidation.
type LeadsService struct {
	backend    Backend
	store      *cache.Store
	normalizer *ContactNormalizer
	log        *logrus.Entry
}

// NewLeadsService wires the service.
func NewLeadsService(backend Backend, store *cache.Store, normalizer *ContactNormalizer, log *logrus.Entry) *LeadsService {
	if normalizer == nil {
		normalizer = NewContactNormalizer("")
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &LeadsService{
		backend:    backend,
		store:      store,
		normalizer: normalizer,
		log:        log.WithField("component", "leads"),
	}
}

// Store exposes the cache for collaborators that coordinate via invalidation,
// such as the status poller.
func (s *LeadsService) Store() *cache.Store {
	return s.store
}

// ListCompanies returns the catalogue page for the filter, cache-first.
func (s *LeadsService) ListCompanies(ctx context.Context, filter dto.ListFilter) (*dto.CompanyList, error) {
	key := cache.CompaniesKey(filter.CacheParams())
	if v, ok := s.store.Get(key); ok {
		return v.(*dto.CompanyList), nil
	}
	out, err := s.backend.ListCompanies(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.store.Put(key, out)
	return out, nil
}

// GetCompany returns a single lead profile, cache-first.
func (s *LeadsService) GetCompany(ctx context.Context, id int) (*entity.Company, error) {
	key := cache.CompanyKey(id)
	if v, ok := s.store.Get(key); ok {
		return v.(*entity.Company), nil
	}
	out, err := s.backend.GetCompany(ctx, id)
	if err != nil {
		return nil, err
	}
	s.store.Put(key, out)
	return out, nil
}

// DashboardStats returns the aggregate counts, cache-first.
func (s *LeadsService) DashboardStats(ctx context.Context) (*dto.DashboardStats, error) {
	key := cache.DashboardStatsKey()
	if v, ok := s.store.Get(key); ok {
		return v.(*dto.DashboardStats), nil
	}
	out, err := s.backend.DashboardStats(ctx)
	if err != nil {
		return nil, err
	}
	s.store.Put(key, out)
	return out, nil
}

// UpdateStatus transitions a lead. On success the response entity replaces
// the cached company directly (it is a complete, authoritative replacement)
// and the list and dashboard entries are invalidated. On error the cache is
// left untouched; no optimistic update was applied, so there is nothing to
// roll back.
func (s *LeadsService) UpdateStatus(ctx context.Context, id int, status entity.CompanyStatus) (*entity.Company, error) {
	updated, err := s.backend.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.store.Put(cache.CompanyKey(id), updated)
	s.store.InvalidateKind(cache.KindCompanies)
	s.store.InvalidateKind(cache.KindDashboardStats)
	s.log.WithFields(logrus.Fields{"company_id": id, "status": status}).Info("company status updated")
	return updated, nil
}

// StartEnrichment asks the backend to begin contact enrichment. It performs
// no cache writes; the poll loop alone observes the transition to pending.
func (s *LeadsService) StartEnrichment(ctx context.Context, id int) (*dto.EnrichStartResponse, error) {
	return s.backend.StartEnrichment(ctx, id)
}

// EnrichmentStatus fetches the current job state. It is never served from the
// store: the poll cadence decision depends on the freshest status, so every
// read hits the network. The result is stored so the detail view can seed
// its watcher from the last observed state.
func (s *LeadsService) EnrichmentStatus(ctx context.Context, id int) (*entity.EnrichmentStatusSnapshot, error) {
	snap, err := s.backend.EnrichmentStatus(ctx, id)
	if err != nil {
		return nil, err
	}
	s.store.Put(cache.EnrichmentStatusKey(id), snap)
	return snap, nil
}

// CachedEnrichmentStatus returns the last stored snapshot without a network
// round trip, for seeding display state at mount.
func (s *LeadsService) CachedEnrichmentStatus(id int) (*entity.EnrichmentStatusSnapshot, bool) {
	v, ok := s.store.Peek(cache.EnrichmentStatusKey(id))
	if !ok {
		return nil, false
	}
	snap, ok := v.(*entity.EnrichmentStatusSnapshot)
	return snap, ok
}

// NormalizeContacts cleans the contact list for display.
func (s *LeadsService) NormalizeContacts(persons []entity.ContactPerson) []entity.ContactPerson {
	return s.normalizer.Normalize(persons)
}
