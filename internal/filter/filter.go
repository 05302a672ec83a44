// Package filter derives the visible subset of a fetched collection.
//
// Every predicate is conjunctive and a zero-valued field places no
// constraint. Filtering is stable: the result keeps the input order.
package filter

import (
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/rongwang/shiftlog-server/internal/models"
)

// EntryFilter selects journal entries
type EntryFilter struct {
	CategoryID  string             `json:"categoryId,omitempty"`
	Category    string             `json:"category,omitempty"` // legacy category code
	Status      models.EntryStatus `json:"status,omitempty"`
	Priority    models.Priority    `json:"priority,omitempty"`
	EquipmentID string             `json:"equipmentId,omitempty"`
	LocationID  string             `json:"locationId,omitempty"`
	SearchText  string             `json:"searchText,omitempty"`
	DateFrom    *time.Time         `json:"dateFrom,omitempty"`
	DateTo      *time.Time         `json:"dateTo,omitempty"`
}

// IsZero reports whether f places no constraint at all.
func (f EntryFilter) IsZero() bool {
	return f.CategoryID == "" && f.Category == "" && f.Status == "" && f.Priority == "" &&
		f.EquipmentID == "" && f.LocationID == "" && f.SearchText == "" &&
		f.DateFrom == nil && f.DateTo == nil
}

// HandoverFilter selects shift handovers
type HandoverFilter struct {
	Status    models.HandoverStatus `json:"status,omitempty"`
	ShiftType models.ShiftType      `json:"shiftType,omitempty"`
	Operator  string                `json:"operator,omitempty"`
	DateFrom  *time.Time            `json:"dateFrom,omitempty"`
	DateTo    *time.Time            `json:"dateTo,omitempty"`
}

// IsZero reports whether f places no constraint at all.
func (f HandoverFilter) IsZero() bool {
	return f.Status == "" && f.ShiftType == "" && f.Operator == "" && f.DateFrom == nil && f.DateTo == nil
}

// StartOfDay returns 00:00:00.000 of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59.999 of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// dayRange is an inclusive, day-normalized time window
type dayRange struct {
	from, to *time.Time
}

func newDayRange(from, to *time.Time) dayRange {
	var r dayRange
	if from != nil {
		start := StartOfDay(*from)
		r.from = &start
	}
	if to != nil {
		end := EndOfDay(*to)
		r.to = &end
	}
	return r
}

func (r dayRange) contains(t time.Time) bool {
	if r.from != nil && t.Before(*r.from) {
		return false
	}
	if r.to != nil && t.After(*r.to) {
		return false
	}
	return true
}

// matcher does case-insensitive substring search using Unicode case folding.
type matcher struct {
	fold   cases.Caser
	needle string
}

func newMatcher(text string) *matcher {
	if text == "" {
		return nil
	}
	fold := cases.Fold()
	return &matcher{fold: fold, needle: fold.String(text)}
}

func (m *matcher) any(fields ...string) bool {
	for _, f := range fields {
		if f != "" && strings.Contains(m.fold.String(f), m.needle) {
			return true
		}
	}
	return false
}

// Entries returns the entries of collection that satisfy f.
func Entries(collection []models.JournalEntry, f EntryFilter) []models.JournalEntry {
	window := newDayRange(f.DateFrom, f.DateTo)
	search := newMatcher(f.SearchText)

	out := make([]models.JournalEntry, 0, len(collection))
	for i := range collection {
		e := &collection[i]
		if f.CategoryID != "" && (e.CategoryData == nil || e.CategoryData.ID != f.CategoryID) {
			continue
		}
		if f.Category != "" && e.CategoryCode() != f.Category {
			continue
		}
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		if f.Priority != "" && e.Priority != f.Priority {
			continue
		}
		if f.EquipmentID != "" && (e.Equipment == nil || e.Equipment.ID != f.EquipmentID) {
			continue
		}
		if f.LocationID != "" && (e.Location == nil || e.Location.ID != f.LocationID) {
			continue
		}
		if search != nil && !search.any(e.Title, e.Description, e.Author,
			equipmentName(e), locationName(e), categoryDataName(e)) {
			continue
		}
		if !window.contains(e.Timestamp) {
			continue
		}
		out = append(out, *e)
	}
	return out
}

// Handovers returns the handovers of collection that satisfy f.
func Handovers(collection []models.ShiftHandover, f HandoverFilter) []models.ShiftHandover {
	search := newMatcher(f.Operator)

	out := make([]models.ShiftHandover, 0, len(collection))
	for i := range collection {
		h := &collection[i]
		if f.Status != "" && h.Status != f.Status {
			continue
		}
		if f.ShiftType != "" && h.ShiftType != f.ShiftType {
			continue
		}
		if search != nil {
			incoming := ""
			if h.IncomingOperatorName != nil {
				incoming = *h.IncomingOperatorName
			}
			if !search.any(h.OutgoingOperatorName, incoming) {
				continue
			}
		}
		if !shiftDateInRange(h.ShiftDate, f.DateFrom, f.DateTo) {
			continue
		}
		out = append(out, *h)
	}
	return out
}

// shiftDateInRange compares calendar days. The shift date carries no time of
// day, so it is placed at midnight in the bound's own location.
func shiftDateInRange(shiftDate time.Time, from, to *time.Time) bool {
	y, m, d := shiftDate.Date()
	if from != nil {
		day := time.Date(y, m, d, 0, 0, 0, 0, from.Location())
		if day.Before(StartOfDay(*from)) {
			return false
		}
	}
	if to != nil {
		day := time.Date(y, m, d, 0, 0, 0, 0, to.Location())
		if day.After(EndOfDay(*to)) {
			return false
		}
	}
	return true
}

func equipmentName(e *models.JournalEntry) string {
	if e.Equipment == nil {
		return ""
	}
	return e.Equipment.Name
}

func locationName(e *models.JournalEntry) string {
	if e.Location == nil {
		return ""
	}
	return e.Location.Name
}

func categoryDataName(e *models.JournalEntry) string {
	if e.CategoryData == nil {
		return ""
	}
	return e.CategoryData.Name
}
