package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rongwang/shiftlog-server/internal/apperr"
	"github.com/rongwang/shiftlog-server/internal/filter"
	"github.com/rongwang/shiftlog-server/internal/models"
)

// ListEntries handles GET /api/entries with the filter in the query string
func (h *Handler) ListEntries(c *gin.Context) {
	f, err := filter.ParseEntryQuery(c.Request.URL.Query())
	if err != nil {
		respondError(c, apperr.Validation("%v", err))
		return
	}

	entries, err := h.service.ListEntries(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.EntriesResponse{
		Status:  "success",
		Total:   len(entries),
		Entries: entries,
	})
}

func (h *Handler) GetEntry(c *gin.Context) {
	entry, err := h.service.GetEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.EntryResponse{Status: "success", Entry: entry})
}

func (h *Handler) CreateEntry(c *gin.Context) {
	var req models.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	entry, err := h.service.CreateEntry(c.Request.Context(), callerFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.EntryResponse{Status: "success", Entry: entry})
}

func (h *Handler) ActivateEntry(c *gin.Context) {
	entry, err := h.service.ActivateEntry(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.EntryResponse{Status: "success", Entry: entry})
}

func (h *Handler) CancelEntry(c *gin.Context) {
	var req models.CancelEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	entry, err := h.service.CancelEntry(c.Request.Context(), callerFrom(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.EntryResponse{Status: "success", Entry: entry})
}
