package db

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/geo-prospector/internal/types"
)

var businessColumns = []string{
	"id", "place_id", "name", "address", "phone", "website", "rating", "review_count",
	"has_photos", "latitude", "longitude", "city", "sector", "source", "status",
	"visibility_score", "created_at", "updated_at",
}

func scanBusiness(row pgx.Row) (*types.BusinessRecord, error) {
	var b types.BusinessRecord
	err := row.Scan(
		&b.ID, &b.PlaceID, &b.Name, &b.Address, &b.Phone, &b.Website, &b.Rating, &b.ReviewCount,
		&b.HasPhotos, &b.Latitude, &b.Longitude, &b.City, &b.Sector, &b.Source, &b.Status,
		&b.VisibilityScore, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// FindBusinessByPlaceID returns the stored business for a Google place id, or
// nil when none exists.
func (db *DB) FindBusinessByPlaceID(ctx context.Context, placeID string) (*types.BusinessRecord, error) {
	query, args, err := psql.Select(businessColumns...).
		From("businesses").
		Where(sq.Eq{"place_id": placeID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build business lookup: %w", err)
	}

	b, err := scanBusiness(db.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get business %s: %w", placeID, err)
	}
	return b, nil
}

// InsertBusiness stores a new business. It returns false without error when a
// row with the same place id already exists; existing rows are never updated.
// On success the record's ID and timestamps are filled in.
func (db *DB) InsertBusiness(ctx context.Context, rec *types.BusinessRecord) (bool, error) {
	status := rec.Status
	if status == "" {
		status = types.StatusProspect
	}
	source := rec.Source
	if source == "" {
		source = types.SourceGooglePlaces
	}

	query, args, err := psql.Insert("businesses").
		Columns(
			"place_id", "name", "address", "phone", "website", "rating", "review_count",
			"has_photos", "latitude", "longitude", "city", "sector", "source", "status",
			"visibility_score",
		).
		Values(
			rec.PlaceID, rec.Name, rec.Address, rec.Phone, rec.Website, rec.Rating, rec.ReviewCount,
			rec.HasPhotos, rec.Latitude, rec.Longitude, rec.City, rec.Sector, source, status,
			rec.VisibilityScore,
		).
		Suffix("ON CONFLICT (place_id) DO NOTHING RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build business insert: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx, query, args...).Scan(&id, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to insert business %s: %w", rec.PlaceID, err)
	}
	rec.ID = id
	rec.Status = status
	rec.Source = source
	return true, nil
}

// BusinessFilters holds optional filters for listing businesses
type BusinessFilters struct {
	City   string
	Sector string
	Limit  int
}

// ListBusinesses returns stored businesses, highest visibility score first.
func (db *DB) ListBusinesses(ctx context.Context, filters BusinessFilters) ([]types.BusinessRecord, error) {
	if filters.Limit <= 0 {
		filters.Limit = 50
	}

	q := psql.Select(businessColumns...).From("businesses")
	if filters.City != "" {
		q = q.Where(sq.Eq{"city": filters.City})
	}
	if filters.Sector != "" {
		q = q.Where(sq.Eq{"sector": filters.Sector})
	}
	query, args, err := q.OrderBy("visibility_score DESC", "created_at DESC").
		Limit(uint64(filters.Limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build business list: %w", err)
	}

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list businesses: %w", err)
	}
	defer rows.Close()

	var out []types.BusinessRecord
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan business: %w", err)
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate businesses: %w", err)
	}
	return out, nil
}
