package prospect

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jonathan/geo-prospector/internal/logging"
	"github.com/jonathan/geo-prospector/internal/types"
)

// Outcome is the result of one save attempt.
type Outcome string

// Save outcomes.
const (
	OutcomeCreated       Outcome = "created"
	OutcomeAlreadyExists Outcome = "already_exists"
	OutcomeError         Outcome = "error"
)

// SaveResult describes one save attempt. Err is set only for OutcomeError.
type SaveResult struct {
	Outcome Outcome
	Err     error
	DryRun  bool
}

// Saver persists records at most once per place id. It is safe for
// concurrent use.
type Saver struct {
	store  Store
	dryRun bool
	logger *slog.Logger

	// mu guards seen, the place ids a dry run has reported as created.
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewSaver creates a Saver. With dryRun set the lookup runs but nothing is
// inserted; a place id seen twice by the same Saver is then reported as
// already existing, as a real insert would have made it.
func NewSaver(store Store, dryRun bool, logger *slog.Logger) *Saver {
	return &Saver{
		store:  store,
		dryRun: dryRun,
		logger: logging.OrDefault(logger).With("component", "save"),
		seen:   make(map[string]struct{}),
	}
}

// Save stores rec unless a record with the same place id already exists.
// Existing records are never updated.
func (s *Saver) Save(ctx context.Context, rec *types.BusinessRecord) SaveResult {
	existing, err := s.store.FindBusinessByPlaceID(ctx, rec.PlaceID)
	if err != nil {
		s.logger.Warn("lookup failed", "place_id", rec.PlaceID, "error", err)
		return SaveResult{Outcome: OutcomeError, Err: &StoreError{Op: "lookup", PlaceID: rec.PlaceID, Cause: err}}
	}
	if existing != nil {
		return SaveResult{Outcome: OutcomeAlreadyExists, DryRun: s.dryRun}
	}
	if s.dryRun {
		if s.markSeen(rec.PlaceID) {
			return SaveResult{Outcome: OutcomeAlreadyExists, DryRun: true}
		}
		return SaveResult{Outcome: OutcomeCreated, DryRun: true}
	}

	inserted, err := s.store.InsertBusiness(ctx, rec)
	if err != nil {
		s.logger.Warn("insert failed", "place_id", rec.PlaceID, "error", err)
		return SaveResult{Outcome: OutcomeError, Err: &StoreError{Op: "insert", PlaceID: rec.PlaceID, Cause: err}}
	}
	if !inserted {
		// Another invocation inserted the same place between lookup and insert.
		return SaveResult{Outcome: OutcomeAlreadyExists}
	}
	return SaveResult{Outcome: OutcomeCreated}
}

// markSeen records placeID and reports whether it was already recorded.
func (s *Saver) markSeen(placeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[placeID]; ok {
		return true
	}
	s.seen[placeID] = struct{}{}
	return false
}

// StoreError wraps a persistence failure for one record.
type StoreError struct {
	Op      string
	PlaceID string
	Cause   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s for %s: %v", e.Op, e.PlaceID, e.Cause)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}
