package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rongwang/shiftlog-server/internal/apperr"
	"github.com/rongwang/shiftlog-server/internal/filter"
	"github.com/rongwang/shiftlog-server/internal/models"
)

// ListHandovers handles GET /api/handovers with the filter in the query string
func (h *Handler) ListHandovers(c *gin.Context) {
	f, err := filter.ParseHandoverQuery(c.Request.URL.Query())
	if err != nil {
		respondError(c, apperr.Validation("%v", err))
		return
	}

	handovers, err := h.service.ListHandovers(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.HandoversResponse{
		Status:    "success",
		Total:     len(handovers),
		Handovers: handovers,
	})
}

func (h *Handler) GetHandover(c *gin.Context) {
	handover, err := h.service.GetHandover(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.HandoverResponse{Status: "success", Handover: handover})
}

func (h *Handler) CreateHandover(c *gin.Context) {
	var req models.CreateHandoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	handover, err := h.service.CreateHandover(c.Request.Context(), callerFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.HandoverResponse{Status: "success", Handover: handover})
}

// AcceptHandover handles POST /api/handovers/:id/accept. The body is optional.
func (h *Handler) AcceptHandover(c *gin.Context) {
	var req models.AcceptHandoverRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBindError(c, err)
		return
	}

	handover, err := h.service.AcceptHandover(c.Request.Context(), callerFrom(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.HandoverResponse{Status: "success", Handover: handover})
}

func (h *Handler) CompleteHandover(c *gin.Context) {
	handover, err := h.service.CompleteHandover(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.HandoverResponse{Status: "success", Handover: handover})
}

func (h *Handler) CancelHandover(c *gin.Context) {
	handover, err := h.service.CancelHandover(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.HandoverResponse{Status: "success", Handover: handover})
}
