package report

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/cogniscan/cogniscan/internal/npq"
)

// CohortSource supplies the stored scores the population cache is built from.
// *store.Store satisfies it.
type CohortSource interface {
	CohortScores(ctx context.Context) (map[string][]int, error)
	ScoredPatientIDs(ctx context.Context) ([]int, error)
	FetchDomainScores(ctx context.Context, patientID int) ([]npq.DomainScore, error)
}

// PopulationCache holds per-domain score distributions for the whole cohort.
// Reads vastly outnumber writes: the cache is only rebuilt when a requested
// patient is missing from the cached cohort, with the rebuild holding the
// write lock exclusively.
type PopulationCache struct {
	mu       sync.RWMutex
	cohort   map[string][]int // sorted ascending per domain
	patients map[int]struct{}

	source CohortSource
	logger *slog.Logger
}

// NewPopulationCache creates an empty cache over the given source. The first
// Percentiles call populates it. A nil logger disables logging.
func NewPopulationCache(source CohortSource, logger *slog.Logger) *PopulationCache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &PopulationCache{source: source, logger: logger}
}

// Percentiles maps each of the patient's domains to a cohort percentile (the
// share of cohort scores at or below the patient's score) and returns the
// domains outside the known vocabulary, which the radar chart marks invalid.
func (c *PopulationCache) Percentiles(ctx context.Context, patientID int) (map[string]int, []string, error) {
	c.mu.RLock()
	_, cached := c.patients[patientID]
	c.mu.RUnlock()

	if !cached {
		if err := c.rebuild(ctx); err != nil {
			return nil, nil, err
		}
	}

	scores, err := c.source.FetchDomainScores(ctx, patientID)
	if err != nil {
		return nil, nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	percentiles := make(map[string]int, len(scores))
	var invalid []string
	for _, record := range scores {
		distribution := c.cohort[record.Domain]
		if len(distribution) == 0 {
			continue
		}
		atOrBelow := sort.SearchInts(distribution, record.RawScore+1)
		percentiles[record.Domain] = atOrBelow * 100 / len(distribution)
		if record.Unknown {
			invalid = append(invalid, record.Domain)
		}
	}
	return percentiles, invalid, nil
}

// rebuild replaces the cached cohort with a fresh snapshot from the source.
func (c *PopulationCache) rebuild(ctx context.Context) error {
	cohort, err := c.source.CohortScores(ctx)
	if err != nil {
		return fmt.Errorf("failed to rebuild population cache: %w", err)
	}
	ids, err := c.source.ScoredPatientIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to rebuild population cache: %w", err)
	}

	for _, scores := range cohort {
		sort.Ints(scores)
	}
	patients := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		patients[id] = struct{}{}
	}

	c.mu.Lock()
	c.cohort = cohort
	c.patients = patients
	c.mu.Unlock()

	c.logger.Debug("population cache rebuilt", "domains", len(cohort), "patients", len(ids))
	return nil
}
