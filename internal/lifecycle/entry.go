// Package lifecycle holds the transition tables for journal entries and
// shift handovers. Guards are pure functions: they evaluate a transition
// against the current record and the caller without touching storage.
package lifecycle

import (
	"strings"
	"time"

	"github.com/rongwang/shiftlog-server/internal/apperr"
	"github.com/rongwang/shiftlog-server/internal/models"
)

// EntryAction is a transition that can be requested on a journal entry
type EntryAction string

const (
	EntryActivate EntryAction = "activate"
	EntryCancel   EntryAction = "cancel"
)

// entryTransitions lists every legal move. Cancelled has no row, so it is
// terminal.
var entryTransitions = map[models.EntryStatus]map[EntryAction]models.EntryStatus{
	models.EntryDraft: {
		EntryActivate: models.EntryActive,
		EntryCancel:   models.EntryCancelled,
	},
	models.EntryActive: {
		EntryCancel: models.EntryCancelled,
	},
}

// EntryGuardContext is what a guard needs to know about an entry transition.
type EntryGuardContext struct {
	EntryID  string
	Status   models.EntryStatus
	AuthorID string
	CallerID string
}

// CheckEntryTransition returns the status the entry moves to, or a
// StateError / AuthorizationError when the move is illegal.
// Rules:
// - the current status must have a row for the action
// - only the author may transition their entry
func CheckEntryTransition(ctx EntryGuardContext, action EntryAction) (models.EntryStatus, error) {
	next, ok := entryTransitions[ctx.Status][action]
	if !ok {
		return "", apperr.State("cannot %s entry %s in status %s", action, ctx.EntryID, ctx.Status)
	}
	if ctx.CallerID == "" || ctx.CallerID != ctx.AuthorID {
		return "", apperr.Authorization("only the author can %s entry %s", action, ctx.EntryID)
	}
	return next, nil
}

// ValidateNewEntry checks a create request before anything is persisted.
func ValidateNewEntry(req models.CreateEntryRequest) error {
	if strings.TrimSpace(req.CategoryID) == "" {
		return apperr.Validation("category is required")
	}
	if strings.TrimSpace(req.Title) == "" {
		return apperr.Validation("title is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		return apperr.Validation("description is required")
	}
	switch req.Status {
	case models.EntryDraft, models.EntryActive:
	default:
		return apperr.Validation("status must be draft or active, got %q", req.Status)
	}
	if !req.Priority.Valid() {
		return apperr.Validation("unknown priority %q", req.Priority)
	}
	return nil
}

// ApplyEntryCancel sets the cancellation fields together. Callers must have
// passed CheckEntryTransition first.
func ApplyEntryCancel(e *models.JournalEntry, reason, cancelledBy string, at time.Time) {
	e.Status = models.EntryCancelled
	e.CancelledAt = &at
	e.CancelledBy = &cancelledBy
	e.CancelReason = &reason
}

// ApplyEntryActivate moves a draft to active.
func ApplyEntryActivate(e *models.JournalEntry) {
	e.Status = models.EntryActive
}
