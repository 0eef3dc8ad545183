// README: Lead store backed by PostgreSQL.
package lead

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
	Status Status
	Limit  int
	Offset int
}

const defaultListLimit = 20

const leadColumns = `id, name, email, phone, service_type, message, source, status, quote_id, created_at, updated_at`

func (s *Store) Create(ctx context.Context, l *Lead) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO leads (
			id, name, email, phone, service_type, message, source, status, quote_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		string(l.ID), l.Name, l.Email, l.Phone, string(l.ServiceType), l.Message, l.Source,
		string(l.Status), toStringPtr(l.QuoteID), l.CreatedAt, l.UpdatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Lead, error) {
	row := s.db.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, string(id))
	l, err := scanLead(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Store) List(ctx context.Context, f ListFilter) ([]Lead, int64, error) {
	where := " WHERE 1=1"
	args := []any{}
	if f.Status != "" {
		args = append(args, string(f.Status))
		where += " AND status = $1"
	}

	var total int64
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM leads"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	n := len(args)
	query := "SELECT " + leadColumns + " FROM leads" + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", n+1, n+2)
	args = append(args, limit, f.Offset)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *l)
	}
	return out, total, rows.Err()
}

func (s *Store) Update(ctx context.Context, l *Lead) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE leads
		SET name = $1, email = $2, phone = $3, message = $4, status = $5, quote_id = $6, updated_at = $7
		WHERE id = $8`,
		l.Name, l.Email, l.Phone, l.Message, string(l.Status), toStringPtr(l.QuoteID), l.UpdatedAt,
		string(l.ID),
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
	tag, err := s.db.Exec(ctx, `DELETE FROM leads WHERE id = $1`, string(id))
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

func scanLead(row rowScanner) (*Lead, error) {
	var l Lead
	var quoteID sql.NullString
	err := row.Scan(
		&l.ID, &l.Name, &l.Email, &l.Phone, &l.ServiceType, &l.Message, &l.Source,
		&l.Status, &quoteID, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if quoteID.Valid {
		id := types.ID(quoteID.String)
		l.QuoteID = &id
	}
	return &l, nil
}

func toStringPtr(v *types.ID) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}
