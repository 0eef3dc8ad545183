// README: Smoke-test cases for the valet API; HTTP, DB, Redis, and quote-flow checks.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		results = append(results, res)
		fmt.Printf("%-7s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}

	return results
}

func validQuotePayload() map[string]any {
	return map[string]any{
		"customer_name":    "Bench Customer",
		"customer_email":   "bench@example.com",
		"service_type":     "event",
		"vehicle_category": "standard",
		"location":         "downtown convention center",
		"duration":         "2-4",
	}
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	return []TestCase{
		{
			Name: "Env: Postgres connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: "FAIL", Note: "db not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.db.Ping(ctx); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "Env: Redis connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: "FAIL", Note: "redis not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "Migration: apply (optional)",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.ApplyMigration {
					return Result{Status: "SKIP", Note: "apply-migration=false"}
				}
				if r.db == nil {
					return Result{Status: "FAIL", Note: "db not configured"}
				}
				sql, err := os.ReadFile(r.cfg.MigrationPath)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				for _, s := range splitSQL(string(sql)) {
					if _, err := r.db.Exec(ctx, s); err != nil {
						return Result{Status: "FAIL", Note: err.Error()}
					}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "Migration: tables exist",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: "FAIL", Note: "db not configured"}
				}
				tables, err := extractTables(r.cfg.MigrationPath)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				for _, t := range tables {
					var exists bool
					err := r.db.QueryRow(ctx,
						"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)",
						t,
					).Scan(&exists)
					if err != nil {
						return Result{Status: "FAIL", Note: err.Error()}
					}
					if !exists {
						return Result{Status: "FAIL", Note: "missing table: " + t}
					}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "API: health",
			Run: func(ctx context.Context, r *Runner) Result {
				start := time.Now()
				resp, err := r.httpc.Get(base + "/health")
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				_ = resp.Body.Close()
				if resp.StatusCode != http.StatusOK {
					return Result{Status: "FAIL", Latency: time.Since(start), Note: fmt.Sprintf("status=%d", resp.StatusCode)}
				}
				return Result{Status: "PASS", Latency: time.Since(start)}
			},
		},

		httpCaseMethod("Pricing: options", http.MethodGet, base+"/api/pricing/options", nil, "", []int{200}),

		httpCase("Quote: create (valid)", base+"/api/quotes", validQuotePayload(), "", []int{201}),

		httpCase("Quote: create (missing contact -> 400)", base+"/api/quotes", map[string]any{
			"customer_name":    "Bench Customer",
			"service_type":     "event",
			"vehicle_category": "standard",
			"location":         "downtown",
			"duration":         "2-4",
		}, "", []int{400}),

		httpCase("Quote: create (unknown service -> 400)", base+"/api/quotes", map[string]any{
			"customer_name":    "Bench Customer",
			"customer_email":   "bench@example.com",
			"service_type":     "boat",
			"vehicle_category": "standard",
			"location":         "downtown",
			"duration":         "2-4",
		}, "", []int{400}),

		httpCase("Lead: submit", base+"/api/leads", map[string]any{
			"name":         "Bench Lead",
			"email":        "lead@example.com",
			"service_type": "corporate",
			"message":      "smoke test",
			"source":       "bench",
		}, "", []int{201}),

		httpCaseMethod("Operator: list quotes without token -> 401", http.MethodGet, base+"/api/quotes", nil, "", []int{401}),

		{
			Name: "Operator: quote lifecycle",
			Run:  func(ctx context.Context, r *Runner) Result { return quoteLifecycle(ctx, r, base) },
		},
		{
			Name: "Operator: concurrent decide keeps one winner",
			Run:  func(ctx context.Context, r *Runner) Result { return concurrentDecide(ctx, r, base) },
		},

		{
			Name: "Perf: quote throughput",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, base+"/api/quotes", validQuotePayload())
			},
		},
	}
}

func httpCase(name, url string, body any, token string, okStatuses []int) TestCase {
	return httpCaseMethod(name, http.MethodPost, url, body, token, okStatuses)
}

func httpCaseMethod(name, method, url string, body any, token string, okStatuses []int) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			start := time.Now()
			status, _, err := r.do(ctx, method, url, body, token)
			if err != nil {
				return Result{Status: "FAIL", Note: err.Error()}
			}
			latency := time.Since(start)
			if contains(okStatuses, status) {
				return Result{Status: "PASS", Latency: latency, Note: fmt.Sprintf("status=%d", status)}
			}
			return Result{Status: "FAIL", Latency: latency, Note: fmt.Sprintf("status=%d", status)}
		},
	}
}

func (r *Runner) do(ctx context.Context, method, url string, body any, token string) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, respBody, nil
}

// quoteLifecycle creates a quote and walks it to approved through the
// operator routes.
func quoteLifecycle(ctx context.Context, r *Runner, base string) Result {
	if r.cfg.OperatorToken == "" {
		return Result{Status: "SKIP", Note: "operator-token not set"}
	}

	status, body, err := r.do(ctx, http.MethodPost, base+"/api/quotes", validQuotePayload(), "")
	if err != nil {
		return Result{Status: "FAIL", Note: err.Error()}
	}
	if status != http.StatusCreated {
		return Result{Status: "FAIL", Note: fmt.Sprintf("create status=%d", status)}
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil || created.ID == "" {
		return Result{Status: "FAIL", Note: "create returned no id"}
	}

	status, _, err = r.do(ctx, http.MethodPost, base+"/api/quotes/"+created.ID+"/approve", nil, r.cfg.OperatorToken)
	if err != nil {
		return Result{Status: "FAIL", Note: err.Error()}
	}
	if status != http.StatusOK {
		return Result{Status: "FAIL", Note: fmt.Sprintf("approve status=%d", status)}
	}

	// A decided quote must reject a second decision.
	status, _, err = r.do(ctx, http.MethodPost, base+"/api/quotes/"+created.ID+"/reject", nil, r.cfg.OperatorToken)
	if err != nil {
		return Result{Status: "FAIL", Note: err.Error()}
	}
	if status != http.StatusConflict {
		return Result{Status: "FAIL", Note: fmt.Sprintf("re-decide status=%d, want 409", status)}
	}
	return Result{Status: "PASS"}
}

// concurrentDecide fires approve and reject at the same pending quote from
// many goroutines; exactly one decision may win.
func concurrentDecide(ctx context.Context, r *Runner, base string) Result {
	if r.cfg.OperatorToken == "" {
		return Result{Status: "SKIP", Note: "operator-token not set"}
	}

	status, body, err := r.do(ctx, http.MethodPost, base+"/api/quotes", validQuotePayload(), "")
	if err != nil || status != http.StatusCreated {
		return Result{Status: "FAIL", Note: fmt.Sprintf("create status=%d err=%v", status, err)}
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil || created.ID == "" {
		return Result{Status: "FAIL", Note: "create returned no id"}
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	succ := 0
	for i := 0; i < r.cfg.Concurrency; i++ {
		action := "approve"
		if i%2 == 1 {
			action = "reject"
		}
		wg.Add(1)
		go func(action string) {
			defer wg.Done()
			status, _, err := r.do(ctx, http.MethodPost, base+"/api/quotes/"+created.ID+"/"+action, nil, r.cfg.OperatorToken)
			if err != nil {
				return
			}
			mu.Lock()
			if status >= 200 && status < 300 {
				succ++
			}
			mu.Unlock()
		}(action)
	}
	wg.Wait()

	if succ == 1 {
		return Result{Status: "PASS"}
	}
	return Result{Status: "FAIL", Note: fmt.Sprintf("success=%d, want 1", succ)}
}

func perfLoad(ctx context.Context, r *Runner, url string, payload any) Result {
	b, _ := json.Marshal(payload)
	end := time.Now().Add(r.cfg.Duration)
	var count int64
	var errCount int64
	var mu sync.Mutex
	wg := sync.WaitGroup{}

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) {
				req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(b)))
				req.Header.Set("Content-Type", "application/json")
				resp, err := r.httpc.Do(req)
				if err != nil {
					mu.Lock()
					errCount++
					mu.Unlock()
					continue
				}
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				mu.Lock()
				count++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if count == 0 {
		return Result{Status: "FAIL", Note: "no requests completed"}
	}
	rps := float64(count) / r.cfg.Duration.Seconds()
	return Result{Status: "PASS", Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount)}
}

func contains(list []int, v int) bool {
	for _, i := range list {
		if i == v {
			return true
		}
	}
	return false
}

func extractTables(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	re := regexp.MustCompile(`(?i)create\s+table\s+if\s+not\s+exists\s+([a-zA-Z0-9_]+)`)
	matches := re.FindAllStringSubmatch(string(b), -1)
	tables := make([]string, 0, len(matches))
	for _, m := range matches {
		tables = append(tables, m[1])
	}
	return tables, nil
}

func splitSQL(sql string) []string {
	lines := strings.Split(sql, "\n")
	filtered := make([]string, 0, len(lines))
	for _, line := range lines {
		l := strings.TrimSpace(line)
		if strings.HasPrefix(l, "--") || l == "" {
			continue
		}
		filtered = append(filtered, line)
	}
	cleaned := strings.Join(filtered, "\n")
	parts := strings.Split(cleaned, ";")
	stmts := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}
