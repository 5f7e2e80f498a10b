package cache

import (
	"sync"
	"time"
)

// Kind identifies the family a cache key belongs to.
type Kind string

const (
	KindCompanies        Kind = "companies"
	KindCompany          Kind = "company"
	KindEnrichmentStatus Kind = "enrichment-status"
	KindDashboardStats   Kind = "dashboard-stats"
)

// Key addresses a single cached entry. Params distinguishes list entries
// fetched with different filters.
type Key struct {
	Kind   Kind
	ID     int
	Params string
}

// CompaniesKey keys a list response for a canonical filter encoding.
func CompaniesKey(params string) Key { return Key{Kind: KindCompanies, Params: params} }

// CompanyKey keys a single company entity.
func CompanyKey(id int) Key { return Key{Kind: KindCompany, ID: id} }

// EnrichmentStatusKey keys the polled job snapshot for a company.
func EnrichmentStatusKey(id int) Key { return Key{Kind: KindEnrichmentStatus, ID: id} }

// DashboardStatsKey keys the aggregate dashboard counts.
func DashboardStatsKey() Key { return Key{Kind: KindDashboardStats} }

type entry struct {
	value     any
	fetchedAt time.Time
	stale     bool
}

// Store is an injectable keyed cache with per-kind freshness windows.
// Invalidation marks entries stale rather than deleting them; the next Get
// misses and the caller refetches. Enrichment-status entries have a zero
// freshness window, so every Get for them misses and forces a live read.
type Store struct {
	mu      sync.Mutex
	entries map[Key]entry
	ttl     map[Kind]time.Duration
	now     func() time.Time
}

// Options configure a Store. Now is overridable for tests.
type Options struct {
	ListTTL time.Duration
	Now     func() time.Time
}

// New constructs an empty store.
func New(opts Options) *Store {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		entries: make(map[Key]entry),
		ttl: map[Kind]time.Duration{
			KindCompanies:        opts.ListTTL,
			KindCompany:          opts.ListTTL,
			KindDashboardStats:   opts.ListTTL,
			KindEnrichmentStatus: 0,
		},
		now: now,
	}
}

// Get returns the cached value when it is present, fresh and not invalidated.
func (s *Store) Get(key Key) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || e.stale {
		return nil, false
	}
	ttl := s.ttl[key.Kind]
	if ttl <= 0 {
		return nil, false
	}
	if s.now().Sub(e.fetchedAt) > ttl {
		return nil, false
	}
	return e.value, true
}

// Peek returns the stored value even when stale or past its freshness window.
// Used to seed UI state from whatever was last observed, never as a substitute
// for a live read.
func (s *Store) Peek(key Key) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Put stores a fresh value under the key.
func (s *Store) Put(key Key, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{value: value, fetchedAt: s.now()}
}

// Invalidate marks a single entry stale.
func (s *Store) Invalidate(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok {
		e.stale = true
		s.entries[key] = e
	}
}

// InvalidateKind marks every entry of the kind stale, e.g. all list pages
// regardless of filter.
func (s *Store) InvalidateKind(kind Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, e := range s.entries {
		if key.Kind == kind {
			e.stale = true
			s.entries[key] = e
		}
	}
}
