package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rongwang/shiftlog-server/internal/apperr"
	"github.com/rongwang/shiftlog-server/internal/filter"
	"github.com/rongwang/shiftlog-server/internal/report"
)

// ExportEntries handles GET /api/reports/entries. It accepts the entry
// filter parameters plus format, groupBy, title, stats and filters.
func (h *Handler) ExportEntries(c *gin.Context) {
	query := c.Request.URL.Query()

	f, err := filter.ParseEntryQuery(query)
	if err != nil {
		respondError(c, apperr.Validation("%v", err))
		return
	}
	loc, err := filter.Location(query)
	if err != nil {
		respondError(c, apperr.Validation("%v", err))
		return
	}
	format, err := report.ParseFormat(query.Get("format"))
	if err != nil {
		respondError(c, apperr.Validation("%v", err))
		return
	}

	opts := report.Options{
		Title:          query.Get("title"),
		IncludeStats:   boolQuery(query.Get("stats"), true),
		IncludeFilters: boolQuery(query.Get("filters"), true),
		GroupBy:        report.GroupBy(query.Get("groupBy")),
		Location:       loc,
	}

	artifact, err := h.service.ExportEntries(c.Request.Context(), callerFrom(c), f, format, opts)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	c.Data(http.StatusOK, artifact.ContentType, artifact.Body)
}

func boolQuery(value string, fallback bool) bool {
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}
