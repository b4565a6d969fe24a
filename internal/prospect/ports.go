// Package prospect runs the prospecting workflow: credential validation,
// per-city search, detail enrichment, deduplicated persistence and the
// orchestration that ties them together.
package prospect

import (
	"context"

	"github.com/jonathan/geo-prospector/internal/places"
	"github.com/jonathan/geo-prospector/internal/types"
)

// PlacesAPI is the subset of the provider client used by this package.
type PlacesAPI interface {
	Nearby(ctx context.Context, req places.NearbyRequest) (*places.NearbyResponse, error)
	Details(ctx context.Context, placeID string) (*places.DetailsResponse, error)
}

// PlacesFactory builds a provider client bound to one API key.
type PlacesFactory func(apiKey string) PlacesAPI

// CredentialSource resolves the API key and records its status.
type CredentialSource interface {
	EnvKey() string
	APIKey(ctx context.Context) (string, bool)
	MarkValidated(ctx context.Context, resultCount int)
	MarkInvalid(ctx context.Context, kind types.ErrorKind, message string)
}

// Store is the persistence surface used for deduplicated saves.
type Store interface {
	FindBusinessByPlaceID(ctx context.Context, placeID string) (*types.BusinessRecord, error)
	InsertBusiness(ctx context.Context, rec *types.BusinessRecord) (bool, error)
}

// EventPublisher receives every newly created record.
type EventPublisher interface {
	PublishCreated(ctx context.Context, rec *types.BusinessRecord) error
}

// SummaryArchiver receives every completed run summary.
type SummaryArchiver interface {
	ArchiveSummary(ctx context.Context, summary *types.RunSummary) error
}
