package prospect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonathan/geo-prospector/internal/catalog"
	"github.com/jonathan/geo-prospector/internal/logging"
	"github.com/jonathan/geo-prospector/internal/places"
	"github.com/jonathan/geo-prospector/internal/types"
)

// Reference probe: Montréal city hall, one restaurant query.
const (
	probeCity    = "Montréal"
	probeKeyword = "restaurant"
)

// DefaultProbeRadiusM is the radius of the validation probe.
const DefaultProbeRadiusM = 1000

var permissionChecklist = []string{
	"Enable the Places API for the key's Google Cloud project",
	"Make sure billing is enabled on that project",
	"Check the key's restrictions allow server-side calls (no HTTP referrer restriction)",
}

var quotaChecklist = []string{
	"Wait for the quota window to reset or raise the Places API quota",
	"Lower maxResults or the number of cities per run",
}

// Validator checks that the configured API key can call the provider.
type Validator struct {
	creds   CredentialSource
	factory PlacesFactory
	radiusM int
	logger  *slog.Logger
}

// NewValidator creates a Validator. A non-positive radius uses DefaultProbeRadiusM.
func NewValidator(creds CredentialSource, factory PlacesFactory, radiusM int, logger *slog.Logger) *Validator {
	if radiusM <= 0 {
		radiusM = DefaultProbeRadiusM
	}
	return &Validator{
		creds:   creds,
		factory: factory,
		radiusM: radiusM,
		logger:  logging.OrDefault(logger).With("component", "validator"),
	}
}

// TestAPI probes the provider once and describes the outcome. It never
// returns an error; every failure is folded into the result.
func (v *Validator) TestAPI(ctx context.Context) types.ValidationResult {
	result, _ := v.validate(ctx)
	return result
}

// validate returns the result and, when valid, the client bound to the key.
func (v *Validator) validate(ctx context.Context) (types.ValidationResult, PlacesAPI) {
	key, ok := v.creds.APIKey(ctx)
	if !ok {
		return types.ValidationResult{
			Valid: false,
			Kind:  types.KindMissingCredential,
			Error: fmt.Sprintf("Places API key is not configured (%s is empty)", v.creds.EnvKey()),
			Remediation: []string{
				fmt.Sprintf("Set the %s environment variable to a valid Google Places API key", v.creds.EnvKey()),
				"Restart the service after changing the environment",
			},
		}, nil
	}

	api := v.factory(key)
	city, _ := catalog.ResolveCity(probeCity)
	resp, err := api.Nearby(ctx, places.NearbyRequest{
		Location: places.LatLng{Lat: city.Latitude, Lng: city.Longitude},
		RadiusM:  v.radiusM,
		Keyword:  probeKeyword,
	})
	if err == nil {
		err = places.CheckStatus(resp.Status, resp.ErrorMessage)
	}
	if err != nil {
		result := failureResult(err)
		v.logger.Warn("API key validation failed", "error_type", result.Kind, "error", result.Error)
		v.creds.MarkInvalid(ctx, result.Kind, result.Error)
		return result, nil
	}

	count := len(resp.Results)
	v.creds.MarkValidated(ctx, count)
	v.logger.Info("API key validated", "status", resp.Status, "results", count)
	return types.ValidationResult{
		Valid: true,
		Details: map[string]any{
			"status":       resp.Status,
			"result_count": count,
		},
	}, api
}

func failureResult(err error) types.ValidationResult {
	var statusErr *places.StatusError
	var transportErr *places.TransportError

	switch {
	case errors.As(err, &statusErr):
		result := types.ValidationResult{
			Kind:    statusErr.Kind,
			Error:   statusErr.Error(),
			Details: map[string]any{"status": statusErr.Status},
		}
		if statusErr.Message != "" {
			result.Details["provider_message"] = statusErr.Message
		}
		switch statusErr.Kind {
		case types.KindPermissionDenied:
			result.Remediation = permissionChecklist
		case types.KindQuotaExceeded:
			result.Remediation = quotaChecklist
		}
		return result
	case errors.As(err, &transportErr):
		return types.ValidationResult{
			Kind:        types.KindTransportError,
			Error:       transportErr.Error(),
			Remediation: []string{"Check outbound network access to maps.googleapis.com"},
		}
	default:
		return types.ValidationResult{
			Kind:  types.KindUnexpectedStatus,
			Error: err.Error(),
		}
	}
}
