package prospect

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/jonathan/geo-prospector/internal/logging"
	"github.com/jonathan/geo-prospector/internal/places"
	"github.com/jonathan/geo-prospector/internal/types"
)

// Visibility score weights.
const (
	ratingWeight      = 10
	reviewBonus       = 20
	reviewBonusAfter  = 10
	photoBonus        = 15
	websiteBonus      = 25
	maxVisibility     = 100
	maxProviderRating = 5.0
)

// VisibilityScore rates how discoverable a business already is online.
// The result is always within [0, 100].
func VisibilityScore(rating float64, reviews int, hasPhotos, hasWebsite bool) int {
	if math.IsNaN(rating) || rating < 0 {
		rating = 0
	}
	if rating > maxProviderRating {
		rating = maxProviderRating
	}

	score := rating * ratingWeight
	if reviews > reviewBonusAfter {
		score += reviewBonus
	}
	if hasPhotos {
		score += photoBonus
	}
	if hasWebsite {
		score += websiteBonus
	}
	return min(maxVisibility, int(math.Round(score)))
}

// Enricher turns search hits into full records with one Place Details call each.
type Enricher struct {
	api    PlacesAPI
	logger *slog.Logger
}

// NewEnricher creates an Enricher over api.
func NewEnricher(api PlacesAPI, logger *slog.Logger) *Enricher {
	return &Enricher{api: api, logger: logging.OrDefault(logger).With("component", "enrich")}
}

// Enrich fetches details for hit. Any failure is logged and reported as false.
func (e *Enricher) Enrich(ctx context.Context, hit types.BusinessHit, city, category string) (*types.BusinessRecord, bool) {
	resp, err := e.api.Details(ctx, hit.PlaceID)
	if err == nil {
		err = places.CheckStatus(resp.Status, resp.ErrorMessage)
	}
	if err != nil {
		e.logger.Warn("place details failed", "place_id", hit.PlaceID, "name", hit.Name, "error", err)
		return nil, false
	}
	return buildRecord(hit, resp.Result, city, category), true
}

// buildRecord merges details over the hit; hit values fill gaps.
func buildRecord(hit types.BusinessHit, d places.PlaceDetails, city, category string) *types.BusinessRecord {
	rec := &types.BusinessRecord{
		PlaceID:     hit.PlaceID,
		Name:        firstNonEmpty(d.Name, hit.Name),
		Address:     firstNonEmpty(d.FormattedAddress, hit.Vicinity),
		Phone:       optional(d.FormattedPhoneNumber),
		Website:     optional(d.Website),
		Rating:      hit.Rating,
		ReviewCount: hit.ReviewCount,
		HasPhotos:   hit.HasPhotos || len(d.Photos) > 0,
		Latitude:    hit.Latitude,
		Longitude:   hit.Longitude,
		City:        city,
		Sector:      category,
		Source:      types.SourceGooglePlaces,
		Status:      types.StatusProspect,
	}
	if d.Rating > 0 {
		rec.Rating = d.Rating
	}
	if d.UserRatingsTotal > 0 {
		rec.ReviewCount = d.UserRatingsTotal
	}
	if loc := d.Geometry.Location; loc.Lat != 0 || loc.Lng != 0 {
		rec.Latitude = loc.Lat
		rec.Longitude = loc.Lng
	}
	rec.Rating = math.Max(0, math.Min(maxProviderRating, rec.Rating))
	rec.ReviewCount = max(0, rec.ReviewCount)
	rec.VisibilityScore = VisibilityScore(rec.Rating, rec.ReviewCount, rec.HasPhotos, rec.HasWebsite())
	return rec
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
