// README: Quote store backed by PostgreSQL.
package quote

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"valetquotes/internal/modules/pricing"
	"valetquotes/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// ListFilter narrows and pages a quote listing. Zero-valued fields match
// everything; Limit 0 falls back to the store default.
type ListFilter struct {
	Status      Status
	ServiceType pricing.ServiceType
	Limit       int
	Offset      int
}

const defaultListLimit = 20

// Stats is the aggregate snapshot used by the operator dashboard.
type Stats struct {
	Total      int64            `json:"total"`
	ByStatus   map[Status]int64 `json:"by_status"`
	AvgTotal   float64          `json:"avg_total"`
	AcceptRate float64          `json:"accept_rate"`
}

func (s *Store) Create(ctx context.Context, q *Quote) error {
	factors, err := json.Marshal(q.Factors)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO quotes (
			id, customer_name, customer_email, customer_phone,
			service_type, vehicle_category, location_text, duration_band, event_date, notes,
			base_price, additional_fees, total, factors, confidence, conversion_rate, strategy,
			status, status_version, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17,
			$18, $19, $20, $21
		)`,
		string(q.ID), q.CustomerName, q.CustomerEmail, q.CustomerPhone,
		string(q.ServiceType), string(q.VehicleCategory), q.LocationText, string(q.DurationBand), q.EventDate, q.Notes,
		q.BasePrice, q.AdditionalFees, q.Total, factors, q.Confidence, q.ExpectedConversionRate, string(q.Strategy),
		string(q.Status), q.StatusVersion, q.CreatedAt, q.UpdatedAt,
	)
	return err
}

const quoteColumns = `id, customer_name, customer_email, customer_phone,
	       service_type, vehicle_category, location_text, duration_band, event_date, notes,
	       base_price, additional_fees, total, factors, confidence, conversion_rate, strategy,
	       status, status_version, created_at, updated_at`

func (s *Store) Get(ctx context.Context, id types.ID) (*Quote, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+quoteColumns+`
		FROM quotes
		WHERE id = $1`, string(id),
	)
	q, err := scanQuote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (s *Store) List(ctx context.Context, f ListFilter) ([]Quote, int64, error) {
	where := " WHERE 1=1"
	args := []any{}
	n := 0
	add := func(clause string, v any) {
		n++
		args = append(args, v)
		where += fmt.Sprintf(clause, n)
	}
	if f.Status != "" {
		add(" AND status = $%d", string(f.Status))
	}
	if f.ServiceType != "" {
		add(" AND service_type = $%d", string(f.ServiceType))
	}

	var total int64
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM quotes"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	query := "SELECT " + quoteColumns + " FROM quotes" + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", n+1, n+2)
	args = append(args, limit, f.Offset)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *q)
	}
	return out, total, rows.Err()
}

// Update persists the mutable customer-facing fields. Pricing fields never
// change after creation.
func (s *Store) Update(ctx context.Context, q *Quote) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE quotes
		SET customer_name = $1, customer_email = $2, customer_phone = $3,
		    event_date = $4, notes = $5, updated_at = $6
		WHERE id = $7`,
		q.CustomerName, q.CustomerEmail, q.CustomerPhone,
		q.EventDate, q.Notes, q.UpdatedAt,
		string(q.ID),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatus moves a quote between statuses with optimistic concurrency:
// the row must still hold the expected status and version.
func (s *Store) UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE quotes
		SET status = $1,
		    status_version = status_version + 1,
		    updated_at = NOW()
		WHERE id = $2 AND status = $3 AND status_version = $4`,
		string(to), string(id), string(from), version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) Delete(ctx context.Context, id types.ID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM quotes WHERE id = $1`, string(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{ByStatus: make(map[Status]int64)}

	rows, err := s.db.Query(ctx, `SELECT status, COUNT(*), COALESCE(AVG(total), 0) FROM quotes GROUP BY status`)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()

	var weightedSum float64
	for rows.Next() {
		var status string
		var count int64
		var avg float64
		if err := rows.Scan(&status, &count, &avg); err != nil {
			return Stats{}, err
		}
		stats.ByStatus[Status(status)] = count
		stats.Total += count
		weightedSum += avg * float64(count)
	}
	if err := rows.Err(); err != nil {
		return Stats{}, err
	}
	if stats.Total > 0 {
		stats.AvgTotal = weightedSum / float64(stats.Total)
	}
	decided := stats.ByStatus[StatusApproved] + stats.ByStatus[StatusRejected]
	if decided > 0 {
		stats.AcceptRate = float64(stats.ByStatus[StatusApproved]) / float64(decided)
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuote(row rowScanner) (*Quote, error) {
	var q Quote
	var eventDate sql.NullTime
	var factors []byte

	err := row.Scan(
		&q.ID, &q.CustomerName, &q.CustomerEmail, &q.CustomerPhone,
		&q.ServiceType, &q.VehicleCategory, &q.LocationText, &q.DurationBand, &eventDate, &q.Notes,
		&q.BasePrice, &q.AdditionalFees, &q.Total, &factors, &q.Confidence, &q.ExpectedConversionRate, &q.Strategy,
		&q.Status, &q.StatusVersion, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if eventDate.Valid {
		t := eventDate.Time
		q.EventDate = &t
	}
	if len(factors) > 0 {
		if err := json.Unmarshal(factors, &q.Factors); err != nil {
			return nil, err
		}
	}
	return &q, nil
}
