package prospect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/jonathan/geo-prospector/internal/catalog"
	"github.com/jonathan/geo-prospector/internal/logging"
	"github.com/jonathan/geo-prospector/internal/places"
	"github.com/jonathan/geo-prospector/internal/types"
)

// State is a step of one orchestrator invocation.
type State string

// Orchestrator states.
const (
	StateIdle                  State = "idle"
	StateValidatingCredentials State = "validating_credentials"
	StateAborted               State = "aborted"
	StateRunning               State = "running"
	StateCompleted             State = "completed"
)

// Defaults applied when Options leaves a field unset.
const (
	DefaultMaxResults      = 100
	DefaultMaxResultsLimit = 1000
)

// AbortError is returned when credential validation fails before any search.
type AbortError struct {
	Result types.ValidationResult
}

func (e *AbortError) Error() string {
	if e.Result.Error != "" {
		return fmt.Sprintf("prospecting aborted: %s: %s", e.Result.Kind, e.Result.Error)
	}
	return fmt.Sprintf("prospecting aborted: %s", e.Result.Kind)
}

// Options tunes the orchestrator. A zero WriteDelay disables pacing.
type Options struct {
	DefaultCities     []string
	DefaultCategories []string
	DefaultMaxResults int
	MaxResultsLimit   int
	SearchRadiusM     int
	WriteDelay        time.Duration
	Workers           int
}

func (o Options) normalize() Options {
	if len(o.DefaultCities) == 0 {
		o.DefaultCities = []string{"Montréal"}
	}
	if len(o.DefaultCategories) == 0 {
		o.DefaultCategories = []string{"restaurant", "dentiste", "plombier"}
	}
	if o.DefaultMaxResults <= 0 {
		o.DefaultMaxResults = DefaultMaxResults
	}
	if o.MaxResultsLimit <= 0 {
		o.MaxResultsLimit = DefaultMaxResultsLimit
	}
	if o.SearchRadiusM <= 0 {
		o.SearchRadiusM = DefaultSearchRadiusM
	}
	if o.WriteDelay < 0 {
		o.WriteDelay = 0
	}
	if o.Workers <= 0 {
		o.Workers = 1
	}
	return o
}

// Deps are the collaborators of an Orchestrator. Publisher and Archiver are optional.
type Deps struct {
	Validator *Validator
	Store     Store
	Publisher EventPublisher
	Archiver  SummaryArchiver
	Logger    *slog.Logger
}

// Request is one prospecting invocation. Zero values fall back to Options.
type Request struct {
	Cities     []string
	Categories []string
	MaxResults int
	TestMode   bool
	OnState    func(State)
}

// Orchestrator runs cities x categories x hits under a global result cap.
type Orchestrator struct {
	deps    Deps
	opts    Options
	logger  *slog.Logger
	limiter *rate.Limiter
}

// NewOrchestrator creates an Orchestrator. The write limiter is shared by
// every invocation so concurrent requests respect the same pace.
func NewOrchestrator(deps Deps, opts Options) *Orchestrator {
	opts = opts.normalize()
	limit := rate.Inf
	if opts.WriteDelay > 0 {
		limit = rate.Every(opts.WriteDelay)
	}
	return &Orchestrator{
		deps:    deps,
		opts:    opts,
		logger:  logging.OrDefault(deps.Logger).With("component", "orchestrator"),
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Options returns the normalized options.
func (o *Orchestrator) Options() Options {
	return o.opts
}

// TestAPI runs credential validation only.
func (o *Orchestrator) TestAPI(ctx context.Context) types.ValidationResult {
	return o.deps.Validator.TestAPI(ctx)
}

// run holds the state of one invocation.
type run struct {
	req      Request
	logger   *slog.Logger
	searcher *Searcher
	enricher *Enricher
	saver    *Saver
	acc      *accumulator
	reserved atomic.Int64
	capped   atomic.Bool
}

// reserve claims one slot of the global cap.
func (r *run) reserve() bool {
	if r.reserved.Add(1) > int64(r.req.MaxResults) {
		r.reserved.Add(-1)
		r.capped.Store(true)
		return false
	}
	return true
}

func (r *run) full() bool {
	return r.reserved.Load() >= int64(r.req.MaxResults)
}

// Run executes one invocation. A failed credential check returns
// *AbortError and makes no search, details or store call.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*types.RunSummary, error) {
	req = o.resolveRequest(req)
	emit := func(s State) {
		if req.OnState != nil {
			req.OnState(s)
		}
	}
	emit(StateIdle)

	started := time.Now()
	summary := &types.RunSummary{
		RunID:      uuid.NewString(),
		StartedAt:  started.UTC(),
		MaxResults: req.MaxResults,
		TestMode:   req.TestMode,
	}
	logger := o.logger.With("run_id", summary.RunID)

	emit(StateValidatingCredentials)
	result, api := o.deps.Validator.validate(ctx)
	if !result.Valid {
		emit(StateAborted)
		logger.Warn("run aborted", "error_type", result.Kind)
		return nil, &AbortError{Result: result}
	}

	emit(StateRunning)
	logger.Info("run started",
		"cities", req.Cities, "categories", req.Categories,
		"max_results", req.MaxResults, "test_mode", req.TestMode, "workers", o.opts.Workers)

	r := &run{
		req:      req,
		logger:   logger,
		searcher: NewSearcher(api, logger),
		enricher: NewEnricher(api, logger),
		saver:    NewSaver(o.deps.Store, req.TestMode, logger),
		acc:      newAccumulator(),
	}

	cities := make([]types.CityDescriptor, 0, len(req.Cities))
	seen := make(map[string]struct{}, len(req.Cities))
	for _, name := range req.Cities {
		city, ok := catalog.ResolveCity(name)
		if !ok {
			logger.Warn("unknown city skipped", "city", name)
			r.acc.skipCity(name)
			continue
		}
		if _, dup := seen[city.Name]; dup {
			continue
		}
		seen[city.Name] = struct{}{}
		cities = append(cities, city)
	}

	err := o.runCities(ctx, r, cities)

	r.acc.fill(summary)
	summary.Capped = r.capped.Load()
	summary.DurationMS = time.Since(started).Milliseconds()
	summary.Success = err == nil

	emit(StateCompleted)
	logger.Info("run completed",
		"processed", summary.TotalProcessed, "saved", summary.TotalSaved,
		"existing", summary.TotalExisting, "errors", summary.TotalErrors,
		"capped", summary.Capped, "duration_ms", summary.DurationMS)

	o.archive(ctx, logger, summary)
	return summary, err
}

func (o *Orchestrator) resolveRequest(req Request) Request {
	req.Cities = cleanList(req.Cities)
	if len(req.Cities) == 0 {
		req.Cities = o.opts.DefaultCities
	}
	req.Categories = cleanList(req.Categories)
	if len(req.Categories) == 0 {
		req.Categories = o.opts.DefaultCategories
	}
	if req.MaxResults <= 0 {
		req.MaxResults = o.opts.DefaultMaxResults
	}
	req.MaxResults = min(req.MaxResults, o.opts.MaxResultsLimit)
	return req
}

// runCities walks the cities, sequentially or over a bounded worker group.
func (o *Orchestrator) runCities(ctx context.Context, r *run, cities []types.CityDescriptor) error {
	if o.opts.Workers == 1 {
		for _, city := range cities {
			if err := o.runCity(ctx, r, city); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.Workers)
	for _, city := range cities {
		g.Go(func() error {
			return o.runCity(gctx, r, city)
		})
	}
	return g.Wait()
}

// runCity walks one city's categories. Only context errors stop the run.
func (o *Orchestrator) runCity(ctx context.Context, r *run, city types.CityDescriptor) error {
	for _, category := range r.req.Categories {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.full() {
			r.capped.Store(true)
			return nil
		}
		r.acc.touch(city.Name, category)

		page, err := r.searcher.SearchPage(ctx, city, category, o.opts.SearchRadiusM)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			r.logger.Warn("search failed", "city", city.Name, "category", category, "error", err)
			r.acc.searchFailed(pairFailure(city.Name, category, err))
			continue
		}
		if page.HasMore {
			r.acc.markTruncated()
		}

		for _, hit := range page.Hits {
			if !r.reserve() {
				return nil
			}
			if err := o.processHit(ctx, r, hit, city.Name, category); err != nil {
				return err
			}
		}
	}
	return nil
}

func (o *Orchestrator) processHit(ctx context.Context, r *run, hit types.BusinessHit, city, category string) error {
	rec, ok := r.enricher.Enrich(ctx, hit, city, category)
	if !ok {
		r.acc.record(city, category, false, OutcomeError)
		return ctx.Err()
	}

	res := r.saver.Save(ctx, rec)
	r.acc.record(city, category, true, res.Outcome)
	if res.Err != nil {
		r.acc.hitFailed(types.PairFailure{
			City:     city,
			Category: category,
			Kind:     types.KindStoreError,
			Message:  res.Err.Error(),
		})
	}
	if res.Outcome == OutcomeCreated && !res.DryRun {
		o.publish(ctx, r.logger, rec)
	}

	if err := o.limiter.Wait(ctx); err != nil {
		return err
	}
	return nil
}

func (o *Orchestrator) publish(ctx context.Context, logger *slog.Logger, rec *types.BusinessRecord) {
	if o.deps.Publisher == nil {
		return
	}
	if err := o.deps.Publisher.PublishCreated(ctx, rec); err != nil {
		logger.Warn("failed to publish discovery event", "place_id", rec.PlaceID, "error", err)
	}
}

func (o *Orchestrator) archive(ctx context.Context, logger *slog.Logger, summary *types.RunSummary) {
	if o.deps.Archiver == nil {
		return
	}
	if err := o.deps.Archiver.ArchiveSummary(context.WithoutCancel(ctx), summary); err != nil {
		logger.Warn("failed to archive run summary", "error", err)
	}
}

func pairFailure(city, category string, err error) types.PairFailure {
	kind := types.KindUnexpectedStatus
	var statusErr *places.StatusError
	var transportErr *places.TransportError
	switch {
	case errors.As(err, &statusErr):
		kind = statusErr.Kind
	case errors.As(err, &transportErr):
		kind = types.KindTransportError
	}
	return types.PairFailure{City: city, Category: category, Kind: kind, Message: err.Error()}
}

// cleanList trims entries and drops blanks and case-insensitive duplicates.
func cleanList(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}
