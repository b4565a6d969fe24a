// Package types provides type definitions for structured data used throughout the geo-prospector system.
package types

import (
	"time"

	"github.com/google/uuid"
)

// Record lifecycle and provenance values.
const (
	StatusProspect     = "prospect"
	SourceGooglePlaces = "google_places"
)

// BusinessRecord represents one discovered physical business as stored in the businesses table.
type BusinessRecord struct {
	ID              uuid.UUID `json:"id"`
	PlaceID         string    `json:"place_id"`
	Name            string    `json:"name"`
	Address         string    `json:"address"`
	Phone           *string   `json:"phone,omitempty"`
	Website         *string   `json:"website,omitempty"`
	Rating          float64   `json:"rating"`
	ReviewCount     int       `json:"review_count"`
	HasPhotos       bool      `json:"has_photos"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	City            string    `json:"city"`
	Sector          string    `json:"sector"`
	Source          string    `json:"source"`
	Status          string    `json:"status"`
	VisibilityScore int       `json:"visibility_score"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// HasWebsite reports whether the record carries a non-empty website.
func (r *BusinessRecord) HasWebsite() bool {
	return r.Website != nil && *r.Website != ""
}

// BusinessHit is a single Nearby Search result before enrichment.
type BusinessHit struct {
	PlaceID     string   `json:"place_id"`
	Name        string   `json:"name"`
	Vicinity    string   `json:"vicinity"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"review_count"`
	HasPhotos   bool     `json:"has_photos"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Types       []string `json:"types,omitempty"`
}

// CityDescriptor maps a canonical city name and its aliases to coordinates.
type CityDescriptor struct {
	Name      string   `json:"name"`
	Aliases   []string `json:"aliases,omitempty"`
	Province  string   `json:"province"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
}
