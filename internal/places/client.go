// Package places is a minimal client for the Google Places Nearby Search and
// Place Details web services.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the Places web service root.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api/place"

// DefaultTimeout bounds each provider call.
const DefaultTimeout = 10 * time.Second

// detailsFields is the field mask sent with every Place Details call.
var detailsFields = []string{
	"place_id",
	"name",
	"formatted_address",
	"formatted_phone_number",
	"website",
	"rating",
	"user_ratings_total",
	"photos",
	"geometry",
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Language   string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client calls the Places web service with a single API key.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
}

// NewClient creates a Places client. Zero-valued options fall back to defaults.
func NewClient(apiKey string, opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		language:   opts.Language,
		httpClient: httpClient,
	}
}

// Nearby runs one Nearby Search query. Provider-level statuses are returned
// in the response; only transport and decoding failures become errors.
func (c *Client) Nearby(ctx context.Context, req NearbyRequest) (*NearbyResponse, error) {
	params := url.Values{}
	params.Set("location", fmt.Sprintf("%.6f,%.6f", req.Location.Lat, req.Location.Lng))
	params.Set("radius", strconv.Itoa(req.RadiusM))
	if req.Keyword != "" {
		params.Set("keyword", req.Keyword)
	}

	var out NearbyResponse
	if err := c.get(ctx, "nearbysearch", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Details fetches Place Details for a single place id.
func (c *Client) Details(ctx context.Context, placeID string) (*DetailsResponse, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", strings.Join(detailsFields, ","))

	var out DetailsResponse
	if err := c.get(ctx, "details", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	params.Set("key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	fullURL := c.baseURL + "/" + endpoint + "/json?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return &TransportError{Op: endpoint, Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: endpoint, Cause: redactKey(err, c.apiKey)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{
			Kind:    kindForHTTP(resp.StatusCode),
			Status:  fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message: strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: endpoint, Cause: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// redactKey keeps the API key out of error strings; url.Error embeds the full
// request URL.
func redactKey(err error, key string) error {
	if key == "" {
		return err
	}
	msg := err.Error()
	if !strings.Contains(msg, key) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(msg, key, "REDACTED"), cause: err}
}

type redactedError struct {
	msg   string
	cause error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.cause }
