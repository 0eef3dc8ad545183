// README: Quote handlers for the public quoting flow and the operator lifecycle.
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"valetquotes/internal/modules/pricing"
	"valetquotes/internal/modules/quote"
	"valetquotes/internal/types"
)

type QuoteHandler struct {
	quote *quote.Service
}

func NewQuoteHandler(svc *quote.Service) *QuoteHandler {
	return &QuoteHandler{quote: svc}
}

type createQuoteReq struct {
	CustomerName    string     `json:"customer_name"`
	CustomerEmail   string     `json:"customer_email"`
	CustomerPhone   string     `json:"customer_phone"`
	ServiceType     string     `json:"service_type"`
	VehicleCategory string     `json:"vehicle_category"`
	Location        string     `json:"location"`
	Duration        string     `json:"duration"`
	EventDate       *time.Time `json:"event_date"`
	Notes           string     `json:"notes"`
}

type quoteResp struct {
	ID                     types.ID   `json:"id"`
	CustomerName           string     `json:"customer_name"`
	CustomerEmail          string     `json:"customer_email,omitempty"`
	CustomerPhone          string     `json:"customer_phone,omitempty"`
	ServiceType            string     `json:"service_type"`
	VehicleCategory        string     `json:"vehicle_category"`
	Location               string     `json:"location"`
	Duration               string     `json:"duration"`
	EventDate              *time.Time `json:"event_date,omitempty"`
	Notes                  string     `json:"notes,omitempty"`
	BasePrice              int64      `json:"base_price"`
	AdditionalFees         int64      `json:"additional_fees"`
	Total                  int64      `json:"total"`
	Factors                []string   `json:"factors"`
	Confidence             float64    `json:"confidence"`
	ExpectedConversionRate float64    `json:"expected_conversion_rate"`
	Strategy               string     `json:"strategy"`
	Status                 string     `json:"status"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

func toQuoteResp(q *quote.Quote) quoteResp {
	return quoteResp{
		ID:                     q.ID,
		CustomerName:           q.CustomerName,
		CustomerEmail:          q.CustomerEmail,
		CustomerPhone:          q.CustomerPhone,
		ServiceType:            string(q.ServiceType),
		VehicleCategory:        string(q.VehicleCategory),
		Location:               q.LocationText,
		Duration:               string(q.DurationBand),
		EventDate:              q.EventDate,
		Notes:                  q.Notes,
		BasePrice:              q.BasePrice,
		AdditionalFees:         q.AdditionalFees,
		Total:                  q.Total,
		Factors:                q.Factors,
		Confidence:             q.Confidence,
		ExpectedConversionRate: q.ExpectedConversionRate,
		Strategy:               string(q.Strategy),
		Status:                 string(q.Status),
		CreatedAt:              q.CreatedAt,
		UpdatedAt:              q.UpdatedAt,
	}
}

// Create handles POST /api/quotes.
func (h *QuoteHandler) Create(c *gin.Context) {
	var req createQuoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	q, err := h.quote.Create(c.Request.Context(), quote.CreateCommand{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Request: pricing.Request{
			ServiceType:     pricing.ServiceType(req.ServiceType),
			VehicleCategory: pricing.VehicleCategory(req.VehicleCategory),
			LocationText:    req.Location,
			DurationBand:    pricing.DurationBand(req.Duration),
		},
		EventDate: req.EventDate,
		Notes:     req.Notes,
	})
	if err != nil {
		writeQuoteError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, toQuoteResp(q))
}

// Get handles GET /api/quotes/:id.
func (h *QuoteHandler) Get(c *gin.Context) {
	q, err := h.quote.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeQuoteError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toQuoteResp(q))
}

// List handles GET /api/quotes.
func (h *QuoteHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	quotes, total, err := h.quote.List(c.Request.Context(), quote.ListFilter{
		Status:      quote.Status(c.Query("status")),
		ServiceType: pricing.ServiceType(c.Query("service_type")),
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		writeQuoteError(c, err)
		return
	}
	items := make([]quoteResp, 0, len(quotes))
	for i := range quotes {
		items = append(items, toQuoteResp(&quotes[i]))
	}
	writeJSON(c, http.StatusOK, map[string]any{"quotes": items, "total": total})
}

type updateQuoteReq struct {
	CustomerName  *string    `json:"customer_name"`
	CustomerEmail *string    `json:"customer_email"`
	CustomerPhone *string    `json:"customer_phone"`
	EventDate     *time.Time `json:"event_date"`
	Notes         *string    `json:"notes"`
}

// Update handles PATCH /api/quotes/:id.
func (h *QuoteHandler) Update(c *gin.Context) {
	var req updateQuoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	q, err := h.quote.Update(c.Request.Context(), quote.UpdateCommand{
		QuoteID:       types.ID(c.Param("id")),
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		EventDate:     req.EventDate,
		Notes:         req.Notes,
	})
	if err != nil {
		writeQuoteError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toQuoteResp(q))
}

type decideReq struct {
	FinalPrice   *int64   `json:"final_price"`
	Satisfaction *float64 `json:"satisfaction"`
}

// Approve handles POST /api/quotes/:id/approve.
func (h *QuoteHandler) Approve(c *gin.Context) {
	cmd, ok := h.decideCommand(c)
	if !ok {
		return
	}
	if err := h.quote.Approve(c.Request.Context(), cmd); err != nil {
		writeQuoteError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"status": quote.StatusApproved})
}

// Reject handles POST /api/quotes/:id/reject.
func (h *QuoteHandler) Reject(c *gin.Context) {
	cmd, ok := h.decideCommand(c)
	if !ok {
		return
	}
	if err := h.quote.Reject(c.Request.Context(), cmd); err != nil {
		writeQuoteError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"status": quote.StatusRejected})
}

// decideCommand parses the optional final_price/satisfaction body shared by
// approve and reject. An empty body means the quote closed at the quoted
// price with no rating.
func (h *QuoteHandler) decideCommand(c *gin.Context) (quote.DecideCommand, bool) {
	cmd := quote.DecideCommand{QuoteID: types.ID(c.Param("id"))}
	if c.Request.ContentLength == 0 {
		return cmd, true
	}
	var req decideReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return cmd, false
	}
	if req.Satisfaction != nil && (*req.Satisfaction < 1 || *req.Satisfaction > 5) {
		writeError(c, http.StatusBadRequest, "satisfaction must be between 1 and 5")
		return cmd, false
	}
	cmd.FinalPrice = req.FinalPrice
	cmd.Satisfaction = req.Satisfaction
	return cmd, true
}

// Cancel handles POST /api/quotes/:id/cancel.
func (h *QuoteHandler) Cancel(c *gin.Context) {
	if err := h.quote.Cancel(c.Request.Context(), types.ID(c.Param("id"))); err != nil {
		writeQuoteError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"status": quote.StatusCancelled})
}

// Duplicate handles POST /api/quotes/:id/duplicate.
func (h *QuoteHandler) Duplicate(c *gin.Context) {
	q, err := h.quote.Duplicate(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeQuoteError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, toQuoteResp(q))
}

// Delete handles DELETE /api/quotes/:id.
func (h *QuoteHandler) Delete(c *gin.Context) {
	if err := h.quote.Delete(c.Request.Context(), types.ID(c.Param("id"))); err != nil {
		writeQuoteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Stats handles GET /api/quotes/stats.
func (h *QuoteHandler) Stats(c *gin.Context) {
	stats, err := h.quote.Stats(c.Request.Context())
	if err != nil {
		writeQuoteError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, stats)
}

// Options handles GET /api/pricing/options: the enums the quote form needs.
func (h *QuoteHandler) Options(c *gin.Context) {
	writeJSON(c, http.StatusOK, map[string]any{
		"service_types":      pricing.ServiceTypes(),
		"vehicle_categories": pricing.VehicleCategories(),
		"durations":          pricing.DurationBands(),
	})
}
