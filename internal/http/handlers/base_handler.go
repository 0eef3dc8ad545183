// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"valetquotes/internal/modules/lead"
	"valetquotes/internal/modules/quote"
	"valetquotes/internal/modules/venue"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeQuoteError(c *gin.Context, err error) {
	switch err {
	case quote.ErrBadRequest:
		writeError(c, http.StatusBadRequest, err.Error())
	case quote.ErrNotFound:
		writeError(c, http.StatusNotFound, err.Error())
	case quote.ErrInvalidState, quote.ErrConflict:
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeLeadError(c *gin.Context, err error) {
	switch err {
	case lead.ErrBadRequest:
		writeError(c, http.StatusBadRequest, err.Error())
	case lead.ErrNotFound:
		writeError(c, http.StatusNotFound, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeVenueError(c *gin.Context, err error) {
	switch err {
	case venue.ErrBadRequest:
		writeError(c, http.StatusBadRequest, err.Error())
	case venue.ErrNotFound:
		writeError(c, http.StatusNotFound, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
