// README: Venue handlers for the operator's serviced-location list.
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"valetquotes/internal/modules/venue"
	"valetquotes/internal/types"
)

type VenueHandler struct {
	venue *venue.Service
}

func NewVenueHandler(svc *venue.Service) *VenueHandler {
	return &VenueHandler{venue: svc}
}

type createVenueReq struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

type venueResp struct {
	ID        types.ID     `json:"id"`
	Name      string       `json:"name"`
	Address   string       `json:"address"`
	Zone      string       `json:"zone"`
	Coords    *types.Point `json:"coords,omitempty"`
	PlaceID   string       `json:"place_id,omitempty"`
	Active    bool         `json:"active"`
	Notes     string       `json:"notes,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func toVenueResp(v *venue.Venue) venueResp {
	return venueResp{
		ID:        v.ID,
		Name:      v.Name,
		Address:   v.Address,
		Zone:      string(v.Zone),
		Coords:    v.Coords,
		PlaceID:   v.PlaceID,
		Active:    v.Active,
		Notes:     v.Notes,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

// Create handles POST /api/venues.
func (h *VenueHandler) Create(c *gin.Context) {
	var req createVenueReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	v, err := h.venue.Create(c.Request.Context(), venue.CreateCommand{
		Name:    req.Name,
		Address: req.Address,
		Notes:   req.Notes,
	})
	if err != nil {
		writeVenueError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, toVenueResp(v))
}

// Get handles GET /api/venues/:id.
func (h *VenueHandler) Get(c *gin.Context) {
	v, err := h.venue.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeVenueError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toVenueResp(v))
}

// List handles GET /api/venues.
func (h *VenueHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	venues, total, err := h.venue.List(c.Request.Context(), venue.ListFilter{
		ActiveOnly: c.Query("active") == "true",
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		writeVenueError(c, err)
		return
	}
	items := make([]venueResp, 0, len(venues))
	for i := range venues {
		items = append(items, toVenueResp(&venues[i]))
	}
	writeJSON(c, http.StatusOK, map[string]any{"venues": items, "total": total})
}

type updateVenueReq struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Active  *bool   `json:"active"`
	Notes   *string `json:"notes"`
}

// Update handles PATCH /api/venues/:id.
func (h *VenueHandler) Update(c *gin.Context) {
	var req updateVenueReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	v, err := h.venue.Update(c.Request.Context(), venue.UpdateCommand{
		VenueID: types.ID(c.Param("id")),
		Name:    req.Name,
		Address: req.Address,
		Active:  req.Active,
		Notes:   req.Notes,
	})
	if err != nil {
		writeVenueError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toVenueResp(v))
}

// Delete handles DELETE /api/venues/:id.
func (h *VenueHandler) Delete(c *gin.Context) {
	if err := h.venue.Delete(c.Request.Context(), types.ID(c.Param("id"))); err != nil {
		writeVenueError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
