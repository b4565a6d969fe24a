package places

// Provider status values returned in the "status" field of every response.
const (
	StatusOK             = "OK"
	StatusZeroResults    = "ZERO_RESULTS"
	StatusRequestDenied  = "REQUEST_DENIED"
	StatusOverQueryLimit = "OVER_QUERY_LIMIT"
	StatusInvalidRequest = "INVALID_REQUEST"
	StatusUnknownError   = "UNKNOWN_ERROR"
)

// LatLng is a coordinate pair as encoded by the provider.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geometry wraps a place location.
type Geometry struct {
	Location LatLng `json:"location"`
}

// Photo is a photo reference attached to a place.
type Photo struct {
	Reference string `json:"photo_reference"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// NearbyPlace is one entry of a Nearby Search response.
type NearbyPlace struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	Vicinity         string   `json:"vicinity"`
	Rating           float64  `json:"rating"`
	UserRatingsTotal int      `json:"user_ratings_total"`
	Types            []string `json:"types"`
	Photos           []Photo  `json:"photos"`
	Geometry         Geometry `json:"geometry"`
	BusinessStatus   string   `json:"business_status"`
}

// NearbyResponse is the decoded body of a Nearby Search call.
type NearbyResponse struct {
	Results       []NearbyPlace `json:"results"`
	Status        string        `json:"status"`
	ErrorMessage  string        `json:"error_message,omitempty"`
	NextPageToken string        `json:"next_page_token,omitempty"`
}

// PlaceDetails is the "result" object of a Place Details call.
type PlaceDetails struct {
	PlaceID              string   `json:"place_id"`
	Name                 string   `json:"name"`
	FormattedAddress     string   `json:"formatted_address"`
	FormattedPhoneNumber string   `json:"formatted_phone_number"`
	Website              string   `json:"website"`
	Rating               float64  `json:"rating"`
	UserRatingsTotal     int      `json:"user_ratings_total"`
	Photos               []Photo  `json:"photos"`
	Geometry             Geometry `json:"geometry"`
}

// DetailsResponse is the decoded body of a Place Details call.
type DetailsResponse struct {
	Result       PlaceDetails `json:"result"`
	Status       string       `json:"status"`
	ErrorMessage string       `json:"error_message,omitempty"`
}

// NearbyRequest describes one Nearby Search query.
type NearbyRequest struct {
	Location LatLng
	RadiusM  int
	Keyword  string
}
