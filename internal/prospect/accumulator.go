package prospect

import (
	"sort"
	"sync"

	"github.com/jonathan/geo-prospector/internal/types"
)

// maxFailures bounds the failure list carried in a summary.
const maxFailures = 50

// accumulator collects run counters. It is safe for concurrent use.
type accumulator struct {
	mu         sync.Mutex
	byCity     map[string]*types.CityStats
	byCategory map[string]*types.Counters
	total      types.Counters
	skipped    []string
	truncated  int
	failures   []types.PairFailure
}

func newAccumulator() *accumulator {
	return &accumulator{
		byCity:     make(map[string]*types.CityStats),
		byCategory: make(map[string]*types.Counters),
	}
}

// counters returns the three counter sets touched by one city/category pair.
// Callers must hold mu.
func (a *accumulator) counters(city, category string) []*types.Counters {
	cs, ok := a.byCity[city]
	if !ok {
		cs = &types.CityStats{ByCategory: make(map[string]*types.Counters)}
		a.byCity[city] = cs
	}
	pair, ok := cs.ByCategory[category]
	if !ok {
		pair = &types.Counters{}
		cs.ByCategory[category] = pair
	}
	cat, ok := a.byCategory[category]
	if !ok {
		cat = &types.Counters{}
		a.byCategory[category] = cat
	}
	return []*types.Counters{&cs.Counters, pair, cat, &a.total}
}

// touch registers a pair so it shows up in the summary even with no hits.
func (a *accumulator) touch(city, category string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.counters(city, category)
}

// record tallies one processed hit. enriched=false counts as an error.
func (a *accumulator) record(city, category string, enriched bool, outcome Outcome) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, c := range a.counters(city, category) {
		c.Processed++
		switch {
		case !enriched:
			c.Errors++
		case outcome == OutcomeCreated:
			c.Saved++
		case outcome == OutcomeAlreadyExists:
			c.Existing++
		default:
			c.Errors++
		}
	}
}

// searchFailed counts a failed search as one error for the pair.
func (a *accumulator) searchFailed(failure types.PairFailure) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, c := range a.counters(failure.City, failure.Category) {
		c.Errors++
	}
	a.appendFailure(failure)
}

// hitFailed lists a per-hit failure already counted by record.
func (a *accumulator) hitFailed(failure types.PairFailure) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.appendFailure(failure)
}

// appendFailure keeps the first maxFailures failures. Callers must hold mu.
func (a *accumulator) appendFailure(failure types.PairFailure) {
	if len(a.failures) < maxFailures {
		a.failures = append(a.failures, failure)
	}
}

func (a *accumulator) skipCity(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.skipped = append(a.skipped, name)
}

func (a *accumulator) markTruncated() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.truncated++
}

// fill copies the collected counters into s.
func (a *accumulator) fill(s *types.RunSummary) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s.TotalProcessed = a.total.Processed
	s.TotalSaved = a.total.Saved
	s.TotalExisting = a.total.Existing
	s.TotalErrors = a.total.Errors
	s.ByCity = a.byCity
	s.ByCategory = a.byCategory
	s.TopCategoriesByCity = topCategories(a.byCity)
	s.SkippedCities = append([]string(nil), a.skipped...)
	s.TruncatedPairs = a.truncated
	s.Failures = append([]types.PairFailure(nil), a.failures...)
}

// topCategories ranks each city's categories by saved count descending,
// then by category name.
func topCategories(byCity map[string]*types.CityStats) map[string][]types.CategoryRank {
	out := make(map[string][]types.CategoryRank, len(byCity))
	for city, stats := range byCity {
		ranks := make([]types.CategoryRank, 0, len(stats.ByCategory))
		for category, c := range stats.ByCategory {
			ranks = append(ranks, types.CategoryRank{Category: category, Saved: c.Saved})
		}
		sort.Slice(ranks, func(i, j int) bool {
			if ranks[i].Saved != ranks[j].Saved {
				return ranks[i].Saved > ranks[j].Saved
			}
			return ranks[i].Category < ranks[j].Category
		})
		out[city] = ranks
	}
	return out
}
