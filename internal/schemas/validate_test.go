package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateProspectRequest_Valid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"empty object", `{}`},
		{"full request", `{"cities":["Montréal","Laval"],"categories":["dentiste"],"maxResults":5,"testMode":true}`},
		{"test-api action", `{"action":"test-api"}`},
		{"unknown fields are ignored", `{"cities":["Laval"],"source":"dashboard"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, ValidateProspectRequest([]byte(tt.body)))
		})
	}
}

func TestValidateProspectRequest_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"cities not an array", `{"cities":"Montréal"}`, "cities"},
		{"city not a string", `{"cities":[42]}`, "cities.0"},
		{"blank category", `{"categories":[""]}`, "categories.0"},
		{"maxResults negative", `{"maxResults":-1}`, "maxResults"},
		{"maxResults fractional", `{"maxResults":2.5}`, "maxResults"},
		{"maxResults string", `{"maxResults":"10"}`, "maxResults"},
		{"testMode string", `{"testMode":"yes"}`, "testMode"},
		{"unknown action", `{"action":"drop-table"}`, "action"},
		{"array body", `[]`, "(root)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProspectRequest([]byte(tt.body))
			require.Error(t, err)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "got %T", err)
			require.NotEmpty(t, ve.Errors)
			assert.Equal(t, tt.wantField, ve.Errors[0].Field)
			assert.Contains(t, ve.Error(), "validation failed")
		})
	}
}

func TestValidateProspectRequest_MalformedJSON(t *testing.T) {
	err := ValidateProspectRequest([]byte(`{"cities":`))
	require.Error(t, err)

	var de *DocumentError
	assert.True(t, errors.As(err, &de))
}
