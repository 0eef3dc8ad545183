// README: Lead service tests (DB-backed funnel flow).
package lead

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"valetquotes/internal/modules/pricing"
	"valetquotes/internal/types"
)

func TestLeadFunnelFlow(t *testing.T) {
	svc := NewService(setupTestStore(t))
	ctx := context.Background()

	l, err := svc.Create(ctx, CreateCommand{
		Name:        "Kai",
		Phone:       "555-0142",
		ServiceType: pricing.ServiceCorporate,
		Message:     "monthly garage coverage",
		Source:      "website",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if l.Status != StatusNew {
		t.Fatalf("status = %s, want new", l.Status)
	}

	contacted := StatusContacted
	if _, err := svc.Update(ctx, UpdateCommand{LeadID: l.ID, Status: &contacted}); err != nil {
		t.Fatalf("mark contacted: %v", err)
	}

	converted := StatusConverted
	quoteID := types.ID("q_123")
	got, err := svc.Update(ctx, UpdateCommand{LeadID: l.ID, Status: &converted, QuoteID: &quoteID})
	if err != nil {
		t.Fatalf("mark converted: %v", err)
	}
	if got.Status != StatusConverted {
		t.Errorf("status = %s, want converted", got.Status)
	}
	if got.QuoteID == nil || *got.QuoteID != quoteID {
		t.Errorf("quote id = %v, want %s", got.QuoteID, quoteID)
	}

	list, total, err := svc.List(ctx, ListFilter{Status: StatusConverted})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(list) != 1 {
		t.Fatalf("converted leads = %d/%d, want 1/1", len(list), total)
	}

	if err := svc.Delete(ctx, l.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, l.ID); err != ErrNotFound {
		t.Errorf("get deleted: expected ErrNotFound, got %v", err)
	}
}

func TestLeadCreateValidation(t *testing.T) {
	svc := NewService(setupTestStore(t))
	ctx := context.Background()

	cases := []struct {
		name string
		cmd  CreateCommand
	}{
		{"missing name", CreateCommand{Phone: "555", ServiceType: pricing.ServiceEvent}},
		{"missing contact", CreateCommand{Name: "Lee", ServiceType: pricing.ServiceEvent}},
		{"bad service type", CreateCommand{Name: "Lee", Phone: "555", ServiceType: "boat"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tc.cmd); err != ErrBadRequest {
				t.Errorf("expected ErrBadRequest, got %v", err)
			}
		})
	}

	bad := Status("stale")
	l, err := svc.Create(ctx, CreateCommand{Name: "Mia", Email: "m@example.com", ServiceType: pricing.ServiceHotel})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Update(ctx, UpdateCommand{LeadID: l.ID, Status: &bad}); err != ErrBadRequest {
		t.Errorf("bad status: expected ErrBadRequest, got %v", err)
	}
}

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := os.Getenv("VALET_TEST_DSN")
	if dsn == "" {
		t.Skip("VALET_TEST_DSN not set; skipping DB-backed tests")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := applyMigration(ctx, db); err != nil {
		t.Fatalf("apply migration: %v", err)
	}
	if _, err := db.Exec(ctx, "TRUNCATE TABLE leads"); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	return NewStore(db)
}

func applyMigration(ctx context.Context, db *pgxpool.Pool) error {
	root, err := repoRoot()
	if err != nil {
		return err
	}
	content, err := os.ReadFile(filepath.Join(root, "migrations", "0001_init.sql"))
	if err != nil {
		return err
	}
	for _, stmt := range splitSQL(stripSQLComments(string(content))) {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func repoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for i := 0; i < 6; i++ {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

func stripSQLComments(input string) string {
	var b strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		b.WriteString(scanner.Text())
		b.WriteString("\n")
	}
	return b.String()
}

func splitSQL(input string) []string {
	parts := strings.Split(input, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		stmt := strings.TrimSpace(p)
		if stmt == "" {
			continue
		}
		out = append(out, stmt)
	}
	return out
}
