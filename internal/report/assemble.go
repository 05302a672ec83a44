// Package report turns a filtered set of journal entries into grouped,
// labeled rows and serializes them as spreadsheet, CSV, JSON or text.
package report

import (
	"time"

	"github.com/rongwang/shiftlog-server/internal/models"
)

// GroupBy selects the grouping key of a report
type GroupBy string

const (
	GroupNone     GroupBy = "none"
	GroupCategory GroupBy = "category"
	GroupStatus   GroupBy = "status"
	GroupPriority GroupBy = "priority"
	GroupDate     GroupBy = "date"
)

// Valid reports whether g is a known grouping.
func (g GroupBy) Valid() bool {
	switch g {
	case GroupNone, GroupCategory, GroupStatus, GroupPriority, GroupDate:
		return true
	}
	return false
}

// AllEntriesGroup is the single group produced by GroupNone
const AllEntriesGroup = "Все записи"

// Group is a labeled run of entries sharing one key
type Group struct {
	Key     string
	Entries []models.JournalEntry
}

// Assemble groups entries by the display label of the chosen key. Groups
// appear in the order their key is first seen; entries keep input order.
func Assemble(entries []models.JournalEntry, groupBy GroupBy, loc *time.Location) []Group {
	if groupBy == "" || groupBy == GroupNone {
		return []Group{{Key: AllEntriesGroup, Entries: entries}}
	}

	index := make(map[string]int)
	var groups []Group
	for _, e := range entries {
		key := groupKey(e, groupBy, loc)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}
	return groups
}

func groupKey(e models.JournalEntry, groupBy GroupBy, loc *time.Location) string {
	switch groupBy {
	case GroupCategory:
		return e.CategoryName()
	case GroupStatus:
		return StatusLabel(e.Status)
	case GroupPriority:
		return PriorityLabel(e.Priority)
	case GroupDate:
		return FormatDate(e.Timestamp, loc)
	default:
		return "Прочие"
	}
}

// Count is one labeled tally
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Stats summarizes a set of entries
type Stats struct {
	Total      int     `json:"total"`
	ByStatus   []Count `json:"byStatus"`
	ByPriority []Count `json:"byPriority"`
	ByCategory []Count `json:"byCategory"`
}

type tally struct {
	index  map[string]int
	counts []Count
}

func (t *tally) add(label string) {
	if t.index == nil {
		t.index = make(map[string]int)
	}
	i, ok := t.index[label]
	if !ok {
		i = len(t.counts)
		t.index[label] = i
		t.counts = append(t.counts, Count{Label: label})
	}
	t.counts[i].Count++
}

// ComputeStats counts entries by status, priority and category label.
func ComputeStats(entries []models.JournalEntry) Stats {
	var byStatus, byPriority, byCategory tally
	for _, e := range entries {
		byStatus.add(StatusLabel(e.Status))
		byPriority.add(PriorityLabel(e.Priority))
		byCategory.add(e.CategoryName())
	}
	return Stats{
		Total:      len(entries),
		ByStatus:   byStatus.counts,
		ByPriority: byPriority.counts,
		ByCategory: byCategory.counts,
	}
}

// Row is a flattened, fully labeled entry ready for a serializer
type Row struct {
	ID           string
	DateTime     string
	Category     string
	Title        string
	Description  string
	Status       string
	Priority     string
	Author       string
	Equipment    string
	Location     string
	CancelledAt  string
	CancelledBy  string
	CancelReason string
}

// Rows flattens entries into labeled rows, formatting times in loc.
func Rows(entries []models.JournalEntry, loc *time.Location) []Row {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		row := Row{
			ID:          e.ID,
			DateTime:    FormatDateTime(e.Timestamp, loc),
			Category:    e.CategoryName(),
			Title:       e.Title,
			Description: e.Description,
			Status:      StatusLabel(e.Status),
			Priority:    PriorityLabel(e.Priority),
			Author:      e.Author,
		}
		if e.Equipment != nil {
			row.Equipment = e.Equipment.Name
		}
		if e.Location != nil {
			row.Location = e.Location.Name
		}
		if e.CancelledAt != nil {
			row.CancelledAt = FormatDateTime(*e.CancelledAt, loc)
		}
		if e.CancelledBy != nil {
			row.CancelledBy = *e.CancelledBy
		}
		if e.CancelReason != nil {
			row.CancelReason = *e.CancelReason
		}
		rows = append(rows, row)
	}
	return rows
}
