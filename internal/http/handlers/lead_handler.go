// README: Lead handlers for intake and funnel management.
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"valetquotes/internal/modules/lead"
	"valetquotes/internal/modules/pricing"
	"valetquotes/internal/types"
)

type LeadHandler struct {
	lead *lead.Service
}

func NewLeadHandler(svc *lead.Service) *LeadHandler {
	return &LeadHandler{lead: svc}
}

type createLeadReq struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	ServiceType string `json:"service_type"`
	Message     string `json:"message"`
	Source      string `json:"source"`
}

type leadResp struct {
	ID          types.ID  `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	ServiceType string    `json:"service_type"`
	Message     string    `json:"message,omitempty"`
	Source      string    `json:"source,omitempty"`
	Status      string    `json:"status"`
	QuoteID     *types.ID `json:"quote_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toLeadResp(l *lead.Lead) leadResp {
	return leadResp{
		ID:          l.ID,
		Name:        l.Name,
		Email:       l.Email,
		Phone:       l.Phone,
		ServiceType: string(l.ServiceType),
		Message:     l.Message,
		Source:      l.Source,
		Status:      string(l.Status),
		QuoteID:     l.QuoteID,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

// Create handles POST /api/leads.
func (h *LeadHandler) Create(c *gin.Context) {
	var req createLeadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	l, err := h.lead.Create(c.Request.Context(), lead.CreateCommand{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		ServiceType: pricing.ServiceType(req.ServiceType),
		Message:     req.Message,
		Source:      req.Source,
	})
	if err != nil {
		writeLeadError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, toLeadResp(l))
}

// Get handles GET /api/leads/:id.
func (h *LeadHandler) Get(c *gin.Context) {
	l, err := h.lead.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeLeadError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toLeadResp(l))
}

// List handles GET /api/leads.
func (h *LeadHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	leads, total, err := h.lead.List(c.Request.Context(), lead.ListFilter{
		Status: lead.Status(c.Query("status")),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeLeadError(c, err)
		return
	}
	items := make([]leadResp, 0, len(leads))
	for i := range leads {
		items = append(items, toLeadResp(&leads[i]))
	}
	writeJSON(c, http.StatusOK, map[string]any{"leads": items, "total": total})
}

type updateLeadReq struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Message *string `json:"message"`
	Status  *string `json:"status"`
	QuoteID *string `json:"quote_id"`
}

// Update handles PATCH /api/leads/:id.
func (h *LeadHandler) Update(c *gin.Context) {
	var req updateLeadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	cmd := lead.UpdateCommand{
		LeadID:  types.ID(c.Param("id")),
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	}
	if req.Status != nil {
		status := lead.Status(*req.Status)
		cmd.Status = &status
	}
	if req.QuoteID != nil {
		id := types.ID(*req.QuoteID)
		cmd.QuoteID = &id
	}
	l, err := h.lead.Update(c.Request.Context(), cmd)
	if err != nil {
		writeLeadError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toLeadResp(l))
}

// Delete handles DELETE /api/leads/:id.
func (h *LeadHandler) Delete(c *gin.Context) {
	if err := h.lead.Delete(c.Request.Context(), types.ID(c.Param("id"))); err != nil {
		writeLeadError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
