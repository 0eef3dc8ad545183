// README: Venue store backed by PostgreSQL.
package venue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"valetquotes/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

type ListFilter struct {
	ActiveOnly bool
	Limit      int
	Offset     int
}

const defaultListLimit = 50

const venueColumns = `id, name, address, zone, lat, lng, place_id, active, notes, created_at, updated_at`

func (s *Store) Create(ctx context.Context, v *Venue) error {
	var lat, lng *float64
	if v.Coords != nil {
		lat, lng = &v.Coords.Lat, &v.Coords.Lng
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO locations (
			id, name, address, zone, lat, lng, place_id, active, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		string(v.ID), v.Name, v.Address, string(v.Zone), lat, lng, v.PlaceID, v.Active, v.Notes,
		v.CreatedAt, v.UpdatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Venue, error) {
	row := s.db.QueryRow(ctx, `SELECT `+venueColumns+` FROM locations WHERE id = $1`, string(id))
	v, err := scanVenue(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Store) List(ctx context.Context, f ListFilter) ([]Venue, int64, error) {
	where := " WHERE 1=1"
	args := []any{}
	if f.ActiveOnly {
		where += " AND active"
	}

	var total int64
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM locations"+where).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	query := "SELECT " + venueColumns + " FROM locations" + where +
		fmt.Sprintf(" ORDER BY name LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, f.Offset)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Venue
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *v)
	}
	return out, total, rows.Err()
}

func (s *Store) Update(ctx context.Context, v *Venue) error {
	var lat, lng *float64
	if v.Coords != nil {
		lat, lng = &v.Coords.Lat, &v.Coords.Lng
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE locations
		SET name = $1, address = $2, zone = $3, lat = $4, lng = $5, place_id = $6,
		    active = $7, notes = $8, updated_at = $9
		WHERE id = $10`,
		v.Name, v.Address, string(v.Zone), lat, lng, v.PlaceID, v.Active, v.Notes, v.UpdatedAt,
		string(v.ID),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id types.ID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM locations WHERE id = $1`, string(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVenue(row rowScanner) (*Venue, error) {
	var v Venue
	var lat, lng sql.NullFloat64
	err := row.Scan(
		&v.ID, &v.Name, &v.Address, &v.Zone, &lat, &lng, &v.PlaceID, &v.Active, &v.Notes,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lat.Valid && lng.Valid {
		v.Coords = &types.Point{Lat: lat.Float64, Lng: lng.Float64}
	}
	return &v, nil
}
