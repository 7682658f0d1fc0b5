// Package reports owns the process-wide merged report list: population from
// the remote collaborators, lookups, and funding updates.
package reports

import (
	"context"
	"fmt"
	"sync"

	"github.com/apex/log"

	"github.com/openvillage/reportd/internal/model"
)

// ClaimSource lists the on-chain claims owned by an address
type ClaimSource interface {
	ClaimsByOwner(ctx context.Context, owner string) ([]model.Claim, error)
}

// MetadataSource resolves a claim's metadata pointer
type MetadataSource interface {
	Metadata(ctx context.Context, uri string) (*model.Metadata, error)
}

// EditorialSource provides the CMS report list and the funding ledger lookup
type EditorialSource interface {
	ListReports(ctx context.Context) ([]model.CMSReport, error)
	FundedAmount(ctx context.Context, hypercertID string) (float64, error)
}

// State describes the population lifecycle of the store
type State int

const (
	StateUninitialized State = iota
	StatePopulating
	StatePopulated
)

func (s State) String() string {
	switch s {
	case StatePopulating:
		return "populating"
	case StatePopulated:
		return "populated"
	default:
		return "uninitialized"
	}
}

// population is one in-flight cache fill shared by concurrent callers
type population struct {
	done    chan struct{}
	reports []model.Report
	err     error
}

// Store holds the merged report list for the lifetime of the process.
// Population happens at most once per process unless it fails, in which
// case the next caller retries from scratch. Concurrent first callers share
// a single in-flight population rather than racing (single-flight).
type Store struct {
	owner     string
	claims    ClaimSource
	metadata  MetadataSource
	editorial EditorialSource
	workers   int

	mu       sync.Mutex // guards reports, state, inflight, and funding mutation
	reports  []model.Report
	state    State
	inflight *population
}

// NewStore creates a report store over the given collaborators. The owner
// address may be empty; FetchReports reports the missing configuration.
func NewStore(owner string, claims ClaimSource, metadata MetadataSource, editorial EditorialSource, workers int) *Store {
	if workers <= 0 {
		workers = 1
	}
	return &Store{
		owner:     owner,
		claims:    claims,
		metadata:  metadata,
		editorial: editorial,
		workers:   workers,
	}
}

// State reports the current lifecycle state
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// FetchReports returns a snapshot of the merged report list, populating it
// on first use. Once populated, the cached list is served without any remote
// call or freshness check. A failed population leaves the store empty; the
// next call retries.
func (s *Store) FetchReports(ctx context.Context) ([]model.Report, error) {
	if s.owner == "" {
		return nil, ErrMissingOwner
	}

	s.mu.Lock()
	if s.state == StatePopulated {
		reports := cloneReports(s.reports)
		s.mu.Unlock()
		return reports, nil
	}
	if p := s.inflight; p != nil {
		s.mu.Unlock()
		select {
		case <-p.done:
			return cloneReports(p.reports), p.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	p := &population{done: make(chan struct{})}
	s.inflight = p
	s.state = StatePopulating
	s.mu.Unlock()

	reports, err := s.populate(ctx)

	s.mu.Lock()
	if err != nil {
		s.state = StateUninitialized
		log.WithError(err).WithField("owner", s.owner).Error("report population failed")
	} else {
		s.reports = reports
		s.state = StatePopulated
		log.WithField("count", len(reports)).Info("report cache populated")
	}
	s.inflight = nil
	// Waiters read p outside the lock; give them their own copy, untouched
	// by later funding updates.
	p.reports, p.err = cloneReports(reports), err
	close(p.done)
	s.mu.Unlock()

	return cloneReports(reports), err
}

// ReportBySlug returns the report with the given slug, populating the store
// if needed
func (s *Store) ReportBySlug(ctx context.Context, slug string) (model.Report, error) {
	reports, err := s.FetchReports(ctx)
	if err != nil {
		return model.Report{}, err
	}

	for _, r := range reports {
		if r.Slug == slug {
			return r, nil
		}
	}

	return model.Report{}, fmt.Errorf("%w: slug %q", ErrNotFound, slug)
}

// ReportByHypercertID returns the report with the given claim identifier,
// populating the store if needed
func (s *Store) ReportByHypercertID(ctx context.Context, id string) (model.Report, error) {
	reports, err := s.FetchReports(ctx)
	if err != nil {
		return model.Report{}, err
	}

	for _, r := range reports {
		if r.HypercertID == id {
			return r, nil
		}
	}

	return model.Report{}, fmt.Errorf("%w: hypercert %q", ErrNotFound, id)
}

// Reports returns a snapshot of the current cache contents without
// triggering a fetch. It returns an empty slice before the first successful
// population and never blocks on I/O.
func (s *Store) Reports() []model.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePopulated {
		return []model.Report{}
	}
	return cloneReports(s.reports)
}

// cloneReports copies the list so callers never share backing storage with
// the cache; funding updates mutate reports in place under the store lock.
func cloneReports(reports []model.Report) []model.Report {
	if reports == nil {
		return nil
	}
	out := make([]model.Report, len(reports))
	copy(out, reports)
	return out
}

// UpdateFundedAmount adds amount to the funding total of the report with
// the given hypercert id. Updates are serialized; a missing target is a
// logged no-op rather than an error, since funding events can reference
// claims that are not cached in this process.
func (s *Store) UpdateFundedAmount(id string, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.reports {
		if s.reports[i].HypercertID == id {
			s.reports[i].FundedSoFar += amount
			return nil
		}
	}

	log.WithFields(log.Fields{
		"hypercert": id,
		"amount":    amount,
	}).Warn("funding update for unknown hypercert ignored")
	return nil
}
