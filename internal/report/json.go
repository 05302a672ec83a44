package report

import (
	"encoding/json"
	"time"
)

type jsonMetadata struct {
	Title        string       `json:"title"`
	GeneratedAt  time.Time    `json:"generatedAt"`
	GeneratedBy  string       `json:"generatedBy"`
	Filters      []FilterLine `json:"filters"`
	TotalEntries int          `json:"totalEntries"`
}

type jsonEntry struct {
	ID           string     `json:"id"`
	Timestamp    time.Time  `json:"timestamp"`
	Category     string     `json:"category"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	Author       string     `json:"author"`
	Equipment    string     `json:"equipment,omitempty"`
	Location     string     `json:"location,omitempty"`
	CancelledAt  *time.Time `json:"cancelledAt,omitempty"`
	CancelledBy  *string    `json:"cancelledBy,omitempty"`
	CancelReason *string    `json:"cancelReason,omitempty"`
}

type jsonGroup struct {
	Key     string   `json:"key"`
	Entries []string `json:"entryIds"`
}

type jsonReport struct {
	Metadata   jsonMetadata `json:"metadata"`
	Statistics *Stats       `json:"statistics"`
	Groups     []jsonGroup  `json:"groups,omitempty"`
	Entries    []jsonEntry  `json:"entries"`
}

// renderJSON keeps raw status and priority codes alongside resolved
// category names, for machine consumers.
func renderJSON(data Data, opts Options) ([]byte, error) {
	filters := data.Filters
	if filters == nil {
		filters = []FilterLine{}
	}
	out := jsonReport{
		Metadata: jsonMetadata{
			Title:        opts.title(),
			GeneratedAt:  data.GeneratedAt.UTC(),
			GeneratedBy:  data.GeneratedBy,
			Filters:      filters,
			TotalEntries: len(data.Entries),
		},
		Entries: make([]jsonEntry, 0, len(data.Entries)),
	}

	if opts.IncludeStats {
		stats := ComputeStats(data.Entries)
		out.Statistics = &stats
	}

	if opts.GroupBy != GroupNone {
		for _, g := range Assemble(data.Entries, opts.GroupBy, opts.Location) {
			ids := make([]string, 0, len(g.Entries))
			for _, e := range g.Entries {
				ids = append(ids, e.ID)
			}
			out.Groups = append(out.Groups, jsonGroup{Key: g.Key, Entries: ids})
		}
	}

	for _, e := range data.Entries {
		je := jsonEntry{
			ID:           e.ID,
			Timestamp:    e.Timestamp.UTC(),
			Category:     e.CategoryName(),
			Title:        e.Title,
			Description:  e.Description,
			Status:       string(e.Status),
			Priority:     string(e.Priority),
			Author:       e.Author,
			CancelledAt:  e.CancelledAt,
			CancelledBy:  e.CancelledBy,
			CancelReason: e.CancelReason,
		}
		if e.Equipment != nil {
			je.Equipment = e.Equipment.Name
		}
		if e.Location != nil {
			je.Location = e.Location.Name
		}
		out.Entries = append(out.Entries, je)
	}

	return json.MarshalIndent(out, "", "  ")
}
