// README: Router-level tests for the public quoting surface and operator auth.
package handlers_test

import (
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"valetquotes/internal/http"
	"valetquotes/internal/modules/analytics"
	"valetquotes/internal/modules/history"
	"valetquotes/internal/modules/lead"
	"valetquotes/internal/modules/pricing"
	"valetquotes/internal/modules/quote"
	"valetquotes/internal/modules/venue"
)

const testOperatorToken = "op-token"

// buildTestRouter wires the full router without a database. The quote
// service gets a real pricer but a nil store, which is safe for requests
// that fail validation before any persistence happens.
func buildTestRouter() stdhttp.Handler {
	gin.SetMode(gin.TestMode)
	return http.NewRouter(http.ServerDeps{
		Quote:            quote.NewService(nil, pricing.NewService(nil, nil), nil),
		Lead:             lead.NewService(nil),
		Venue:            venue.NewService(nil, nil),
		Analytics:        analytics.NewService(history.NewMemStore(), analytics.NewMemCache(), 0),
		OperatorToken:    testOperatorToken,
		DefaultTimeframe: "30d",
	})
}

func doRequest(r stdhttp.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := buildTestRouter()
	if w := doRequest(r, stdhttp.MethodGet, "/health", "", ""); w.Code != stdhttp.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestCreateQuoteInvalidJSON(t *testing.T) {
	r := buildTestRouter()
	w := doRequest(r, stdhttp.MethodPost, "/api/quotes", "{not json", "")
	if w.Code != stdhttp.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateQuoteValidation(t *testing.T) {
	r := buildTestRouter()
	cases := []struct {
		name string
		body string
	}{
		{
			"missing customer name",
			`{"customer_email":"a@b.com","service_type":"event","vehicle_category":"standard","location":"downtown","duration":"1-2"}`,
		},
		{
			"no contact info",
			`{"customer_name":"Ann","service_type":"event","vehicle_category":"standard","location":"downtown","duration":"1-2"}`,
		},
		{
			"unknown service type",
			`{"customer_name":"Ann","customer_email":"a@b.com","service_type":"boat","vehicle_category":"standard","location":"downtown","duration":"1-2"}`,
		},
		{
			"unknown duration",
			`{"customer_name":"Ann","customer_email":"a@b.com","service_type":"event","vehicle_category":"standard","location":"downtown","duration":"12-14"}`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(r, stdhttp.MethodPost, "/api/quotes", tc.body, "")
			if w.Code != stdhttp.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestApproveRejectsOutOfRangeSatisfaction(t *testing.T) {
	r := buildTestRouter()
	for _, body := range []string{`{"satisfaction":5.5}`, `{"satisfaction":0.5}`} {
		w := doRequest(r, stdhttp.MethodPost, "/api/quotes/abc/approve", body, testOperatorToken)
		if w.Code != stdhttp.StatusBadRequest {
			t.Errorf("satisfaction body %s: expected 400, got %d: %s", body, w.Code, w.Body.String())
		}
	}
}

func TestOperatorRoutesRequireToken(t *testing.T) {
	r := buildTestRouter()
	cases := []struct {
		method string
		path   string
	}{
		{stdhttp.MethodGet, "/api/quotes"},
		{stdhttp.MethodGet, "/api/quotes/stats"},
		{stdhttp.MethodPost, "/api/quotes/abc/approve"},
		{stdhttp.MethodDelete, "/api/quotes/abc"},
		{stdhttp.MethodGet, "/api/leads"},
		{stdhttp.MethodPost, "/api/venues"},
		{stdhttp.MethodGet, "/api/analytics/dashboard"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			if w := doRequest(r, tc.method, tc.path, "", ""); w.Code != stdhttp.StatusUnauthorized {
				t.Errorf("expected 401, got %d", w.Code)
			}
		})
	}
}

func TestOperatorDashboardWithToken(t *testing.T) {
	r := buildTestRouter()
	w := doRequest(r, stdhttp.MethodGet, "/api/analytics/dashboard", "", testOperatorToken)
	if w.Code != stdhttp.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var d analytics.Dashboard
	if err := json.Unmarshal(w.Body.Bytes(), &d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.Timeframe != "30d" {
		t.Errorf("timeframe = %s, want 30d", d.Timeframe)
	}
}

func TestPricingOptions(t *testing.T) {
	r := buildTestRouter()
	w := doRequest(r, stdhttp.MethodGet, "/api/pricing/options", "", "")
	if w.Code != stdhttp.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var opts struct {
		ServiceTypes      []string `json:"service_types"`
		VehicleCategories []string `json:"vehicle_categories"`
		Durations         []string `json:"durations"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &opts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(opts.ServiceTypes) != 5 || len(opts.VehicleCategories) != 5 || len(opts.Durations) != 5 {
		t.Errorf("options = %+v", opts)
	}
}
