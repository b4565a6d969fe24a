package prospect

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jonathan/geo-prospector/internal/places"
	"github.com/jonathan/geo-prospector/internal/types"
)

// fakePlaces serves canned provider responses and counts calls.
type fakePlaces struct {
	mu           sync.Mutex
	nearby       func(req places.NearbyRequest) (*places.NearbyResponse, error)
	details      func(placeID string) (*places.DetailsResponse, error)
	nearbyCalls  []places.NearbyRequest
	detailsCalls []string
}

func (f *fakePlaces) Nearby(_ context.Context, req places.NearbyRequest) (*places.NearbyResponse, error) {
	f.mu.Lock()
	f.nearbyCalls = append(f.nearbyCalls, req)
	fn := f.nearby
	f.mu.Unlock()
	if fn == nil {
		return &places.NearbyResponse{Status: places.StatusZeroResults}, nil
	}
	return fn(req)
}

func (f *fakePlaces) Details(_ context.Context, placeID string) (*places.DetailsResponse, error) {
	f.mu.Lock()
	f.detailsCalls = append(f.detailsCalls, placeID)
	fn := f.details
	f.mu.Unlock()
	if fn == nil {
		return &places.DetailsResponse{Status: places.StatusOK, Result: places.PlaceDetails{PlaceID: placeID}}, nil
	}
	return fn(placeID)
}

func (f *fakePlaces) NearbyCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.nearbyCalls)
}

func (f *fakePlaces) DetailsCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.detailsCalls)
}

func (f *fakePlaces) factory() PlacesFactory {
	return func(string) PlacesAPI { return f }
}

// nearbyResults builds an OK response with n places prefixed by prefix.
func nearbyResults(prefix string, n int) *places.NearbyResponse {
	resp := &places.NearbyResponse{Status: places.StatusOK}
	for i := 1; i <= n; i++ {
		resp.Results = append(resp.Results, places.NearbyPlace{
			PlaceID:          fmt.Sprintf("%s-%d", prefix, i),
			Name:             fmt.Sprintf("Business %s %d", prefix, i),
			Vicinity:         fmt.Sprintf("%d rue Principale", i),
			Rating:           4.0,
			UserRatingsTotal: 12,
			Geometry:         places.Geometry{Location: places.LatLng{Lat: 45.5, Lng: -73.6}},
		})
	}
	return resp
}

type fakeCreds struct {
	mu        sync.Mutex
	key       string
	validated []int
	invalid   []types.ErrorKind
}

func (c *fakeCreds) EnvKey() string { return "GOOGLE_PLACES_API_KEY" }

func (c *fakeCreds) APIKey(context.Context) (string, bool) {
	return c.key, c.key != ""
}

func (c *fakeCreds) MarkValidated(_ context.Context, count int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.validated = append(c.validated, count)
}

func (c *fakeCreds) MarkInvalid(_ context.Context, kind types.ErrorKind, _ string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalid = append(c.invalid, kind)
}

// fakeStore is an in-memory Store keyed by place id.
type fakeStore struct {
	mu        sync.Mutex
	records   map[string]*types.BusinessRecord
	findErr   error
	insertErr error
	conflict  bool
	finds     int
	inserts   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]*types.BusinessRecord)}
}

func (s *fakeStore) FindBusinessByPlaceID(_ context.Context, placeID string) (*types.BusinessRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finds++
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.records[placeID], nil
}

func (s *fakeStore) InsertBusiness(_ context.Context, rec *types.BusinessRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserts++
	if s.insertErr != nil {
		return false, s.insertErr
	}
	if s.conflict {
		return false, nil
	}
	if _, ok := s.records[rec.PlaceID]; ok {
		return false, nil
	}
	s.records[rec.PlaceID] = rec
	return true, nil
}

func (s *fakeStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

type fakePublisher struct {
	mu       sync.Mutex
	placeIDs []string
	err      error
}

func (p *fakePublisher) PublishCreated(_ context.Context, rec *types.BusinessRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.placeIDs = append(p.placeIDs, rec.PlaceID)
	return p.err
}

type fakeArchiver struct {
	summaries []*types.RunSummary
}

func (a *fakeArchiver) ArchiveSummary(_ context.Context, s *types.RunSummary) error {
	a.summaries = append(a.summaries, s)
	return errors.New("bucket unavailable")
}
