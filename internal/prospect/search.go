package prospect

import (
	"context"
	"log/slog"

	"github.com/jonathan/geo-prospector/internal/catalog"
	"github.com/jonathan/geo-prospector/internal/logging"
	"github.com/jonathan/geo-prospector/internal/places"
	"github.com/jonathan/geo-prospector/internal/types"
)

// DefaultSearchRadiusM is the Nearby Search radius around a city center.
const DefaultSearchRadiusM = 25000

// SearchPage is the first page of hits for one city/category pair.
type SearchPage struct {
	Hits []types.BusinessHit
	// HasMore is set when the provider offered a next page that was not fetched.
	HasMore bool
}

// Searcher issues Nearby Search queries.
type Searcher struct {
	api    PlacesAPI
	logger *slog.Logger
}

// NewSearcher creates a Searcher over api.
func NewSearcher(api PlacesAPI, logger *slog.Logger) *Searcher {
	return &Searcher{api: api, logger: logging.OrDefault(logger).With("component", "search")}
}

// Search returns the hits for category around city.
func (s *Searcher) Search(ctx context.Context, city types.CityDescriptor, category string, radiusM int) ([]types.BusinessHit, error) {
	page, err := s.SearchPage(ctx, city, category, radiusM)
	if err != nil {
		return nil, err
	}
	return page.Hits, nil
}

// SearchPage is Search plus the truncation flag. Provider failures come back
// as *places.StatusError or *places.TransportError.
func (s *Searcher) SearchPage(ctx context.Context, city types.CityDescriptor, category string, radiusM int) (SearchPage, error) {
	if radiusM <= 0 {
		radiusM = DefaultSearchRadiusM
	}
	keyword := catalog.Translate(category)

	resp, err := s.api.Nearby(ctx, places.NearbyRequest{
		Location: places.LatLng{Lat: city.Latitude, Lng: city.Longitude},
		RadiusM:  radiusM,
		Keyword:  keyword,
	})
	if err != nil {
		return SearchPage{}, err
	}
	if err := places.CheckStatus(resp.Status, resp.ErrorMessage); err != nil {
		return SearchPage{}, err
	}

	hits := make([]types.BusinessHit, 0, len(resp.Results))
	for _, p := range resp.Results {
		if p.PlaceID == "" {
			continue
		}
		hits = append(hits, types.BusinessHit{
			PlaceID:     p.PlaceID,
			Name:        p.Name,
			Vicinity:    p.Vicinity,
			Rating:      p.Rating,
			ReviewCount: p.UserRatingsTotal,
			HasPhotos:   len(p.Photos) > 0,
			Latitude:    p.Geometry.Location.Lat,
			Longitude:   p.Geometry.Location.Lng,
			Types:       p.Types,
		})
	}

	s.logger.Debug("search complete",
		"city", city.Name, "category", category, "keyword", keyword,
		"status", resp.Status, "hits", len(hits))
	return SearchPage{Hits: hits, HasMore: resp.NextPageToken != ""}, nil
}
