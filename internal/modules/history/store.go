// README: Historical store — PostgreSQL append/query plus an in-memory variant for tests.
package history

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"valetquotes/internal/modules/pricing"
)

// Filter narrows a history query. Zero-valued fields match everything.
type Filter struct {
	ServiceType     pricing.ServiceType
	VehicleCategory pricing.VehicleCategory
	Accepted        *bool
	Since           time.Time
}

// Store is the persistence port for quote history.
type Store interface {
	Append(ctx context.Context, rec *Record) error
	Query(ctx context.Context, f Filter) ([]Record, error)
}

// PgStore persists quote history in PostgreSQL.
type PgStore struct {
	db *pgxpool.Pool
}

func NewPgStore(db *pgxpool.Pool) *PgStore {
	return &PgStore{db: db}
}

func (s *PgStore) Append(ctx context.Context, rec *Record) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO quote_history (
			id, service_type, vehicle_category, location_text, duration_band,
			quoted_price, final_price, accepted, conversion_seconds, satisfaction, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		string(rec.ID),
		string(rec.ServiceType),
		string(rec.VehicleCategory),
		rec.LocationText,
		string(rec.DurationBand),
		rec.QuotedPrice,
		rec.FinalPrice,
		rec.Accepted,
		rec.ConversionSeconds,
		rec.Satisfaction,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append quote history: %w", err)
	}
	return nil
}

func (s *PgStore) Query(ctx context.Context, f Filter) ([]Record, error) {
	query := `
		SELECT id, service_type, vehicle_category, location_text, duration_band,
		       quoted_price, final_price, accepted, conversion_seconds, satisfaction, created_at
		FROM quote_history
		WHERE 1=1`
	args := []any{}
	n := 0
	add := func(clause string, v any) {
		n++
		args = append(args, v)
		query += fmt.Sprintf(clause, n)
	}
	if f.ServiceType != "" {
		add(" AND service_type = $%d", string(f.ServiceType))
	}
	if f.VehicleCategory != "" {
		add(" AND vehicle_category = $%d", string(f.VehicleCategory))
	}
	if f.Accepted != nil {
		add(" AND accepted = $%d", *f.Accepted)
	}
	if !f.Since.IsZero() {
		add(" AND created_at >= $%d", f.Since)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query quote history: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID, &rec.ServiceType, &rec.VehicleCategory, &rec.LocationText, &rec.DurationBand,
			&rec.QuotedPrice, &rec.FinalPrice, &rec.Accepted, &rec.ConversionSeconds, &rec.Satisfaction, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// MemStore is an in-memory Store used by tests and local demos.
type MemStore struct {
	mu   sync.RWMutex
	recs []Record
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Append(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, *rec)
	return nil
}

func (s *MemStore) Query(_ context.Context, f Filter) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Record
	for _, rec := range s.recs {
		if f.ServiceType != "" && rec.ServiceType != f.ServiceType {
			continue
		}
		if f.VehicleCategory != "" && rec.VehicleCategory != f.VehicleCategory {
			continue
		}
		if f.Accepted != nil && rec.Accepted != *f.Accepted {
			continue
		}
		if !f.Since.IsZero() && rec.CreatedAt.Before(f.Since) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
