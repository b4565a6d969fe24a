package prospect

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/geo-prospector/internal/catalog"
	"github.com/jonathan/geo-prospector/internal/places"
	"github.com/jonathan/geo-prospector/internal/types"
)

func montreal(t *testing.T) types.CityDescriptor {
	t.Helper()
	city, ok := catalog.ResolveCity("Montreal")
	require.True(t, ok)
	return city
}

func TestSearch_TranslatesAndCenters(t *testing.T) {
	api := &fakePlaces{nearby: func(places.NearbyRequest) (*places.NearbyResponse, error) {
		return nearbyResults("d", 2), nil
	}}
	s := NewSearcher(api, nil)

	hits, err := s.Search(context.Background(), montreal(t), "dentiste", 0)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	require.Len(t, api.nearbyCalls, 1)
	req := api.nearbyCalls[0]
	assert.Equal(t, "dentist", req.Keyword)
	assert.Equal(t, DefaultSearchRadiusM, req.RadiusM)
	assert.InDelta(t, 45.5017, req.Location.Lat, 0.0001)

	assert.Equal(t, "d-1", hits[0].PlaceID)
	assert.Equal(t, 12, hits[0].ReviewCount)
	assert.Equal(t, "1 rue Principale", hits[0].Vicinity)
}

func TestSearch_UnknownCategoryPassesThrough(t *testing.T) {
	api := &fakePlaces{}
	s := NewSearcher(api, nil)

	_, err := s.Search(context.Background(), montreal(t), "boulangerie artisanale", 5000)
	require.NoError(t, err)
	assert.Equal(t, "boulangerie artisanale", api.nearbyCalls[0].Keyword)
	assert.Equal(t, 5000, api.nearbyCalls[0].RadiusM)
}

func TestSearch_ZeroResultsIsEmpty(t *testing.T) {
	s := NewSearcher(&fakePlaces{}, nil)

	hits, err := s.Search(context.Background(), montreal(t), "plombier", 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearch_ProviderFailures(t *testing.T) {
	tests := []struct {
		name     string
		resp     *places.NearbyResponse
		err      error
		wantKind types.ErrorKind
	}{
		{"denied", &places.NearbyResponse{Status: places.StatusRequestDenied}, nil, types.KindPermissionDenied},
		{"quota", &places.NearbyResponse{Status: places.StatusOverQueryLimit}, nil, types.KindQuotaExceeded},
		{"unknown", &places.NearbyResponse{Status: places.StatusUnknownError}, nil, types.KindUnexpectedStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakePlaces{nearby: func(places.NearbyRequest) (*places.NearbyResponse, error) {
				return tt.resp, tt.err
			}}
			_, err := NewSearcher(api, nil).Search(context.Background(), montreal(t), "dentiste", 0)

			var statusErr *places.StatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, tt.wantKind, statusErr.Kind)
		})
	}
}

func TestSearch_TransportError(t *testing.T) {
	api := &fakePlaces{nearby: func(places.NearbyRequest) (*places.NearbyResponse, error) {
		return nil, &places.TransportError{Op: "nearbysearch", Cause: errors.New("connection reset")}
	}}
	_, err := NewSearcher(api, nil).Search(context.Background(), montreal(t), "dentiste", 0)

	var transportErr *places.TransportError
	assert.True(t, errors.As(err, &transportErr))
}

func TestSearchPage_HasMoreAndSkipsBlankIDs(t *testing.T) {
	api := &fakePlaces{nearby: func(places.NearbyRequest) (*places.NearbyResponse, error) {
		resp := nearbyResults("r", 2)
		resp.Results = append(resp.Results, places.NearbyPlace{Name: "no id"})
		resp.Results[0].Photos = []places.Photo{{Reference: "ref"}}
		resp.NextPageToken = "token"
		return resp, nil
	}}
	page, err := NewSearcher(api, nil).SearchPage(context.Background(), montreal(t), "restaurant", 0)
	require.NoError(t, err)

	assert.True(t, page.HasMore)
	require.Len(t, page.Hits, 2)
	assert.True(t, page.Hits[0].HasPhotos)
	assert.False(t, page.Hits[1].HasPhotos)
}
