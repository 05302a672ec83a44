package client

import (
	"context"
	"sync"

	"github.com/rongwang/shiftlog-server/internal/filter"
	"github.com/rongwang/shiftlog-server/internal/models"
)

// mergeByID returns items with rec merged in: a record with a known id is
// replaced in place, an unknown one is prepended. items is not modified.
func mergeByID[T any](items []T, rec T, id func(T) string) []T {
	key := id(rec)
	out := make([]T, 0, len(items)+1)
	replaced := false
	for _, it := range items {
		if id(it) == key {
			out = append(out, rec)
			replaced = true
			continue
		}
		out = append(out, it)
	}
	if !replaced {
		out = append([]T{rec}, out...)
	}
	return out
}

// Journal holds the fetched journal entries. Mutations go through the API
// and merge the single returned record, so a failed call leaves the held
// collection as it was.
type Journal struct {
	client *Client

	mu      sync.RWMutex
	entries []models.JournalEntry
}

func NewJournal(c *Client) *Journal {
	return &Journal{client: c}
}

// Load replaces the held collection with a full fetch.
func (j *Journal) Load(ctx context.Context) error {
	entries, err := j.client.ListEntries(ctx, filter.EntryFilter{})
	if err != nil {
		return err
	}
	j.mu.Lock()
	j.entries = entries
	j.mu.Unlock()
	return nil
}

// View returns the held entries matching f, in collection order.
func (j *Journal) View(f filter.EntryFilter) []models.JournalEntry {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return filter.Entries(j.entries, f)
}

func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.entries)
}

func (j *Journal) merge(e *models.JournalEntry) {
	j.mu.Lock()
	j.entries = mergeByID(j.entries, *e, func(x models.JournalEntry) string { return x.ID })
	j.mu.Unlock()
}

func (j *Journal) Create(ctx context.Context, req models.CreateEntryRequest) (*models.JournalEntry, error) {
	e, err := j.client.CreateEntry(ctx, req)
	if err != nil {
		return nil, err
	}
	j.merge(e)
	return e, nil
}

func (j *Journal) Activate(ctx context.Context, id string) (*models.JournalEntry, error) {
	e, err := j.client.ActivateEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	j.merge(e)
	return e, nil
}

func (j *Journal) Cancel(ctx context.Context, id string, req models.CancelEntryRequest) (*models.JournalEntry, error) {
	e, err := j.client.CancelEntry(ctx, id, req)
	if err != nil {
		return nil, err
	}
	j.merge(e)
	return e, nil
}

// Handovers holds the fetched shift handovers, with the same merge rules
// as Journal.
type Handovers struct {
	client *Client

	mu        sync.RWMutex
	handovers []models.ShiftHandover
}

func NewHandovers(c *Client) *Handovers {
	return &Handovers{client: c}
}

func (h *Handovers) Load(ctx context.Context) error {
	handovers, err := h.client.ListHandovers(ctx, filter.HandoverFilter{})
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.handovers = handovers
	h.mu.Unlock()
	return nil
}

func (h *Handovers) View(f filter.HandoverFilter) []models.ShiftHandover {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return filter.Handovers(h.handovers, f)
}

func (h *Handovers) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.handovers)
}

func (h *Handovers) apply(s *models.ShiftHandover, err error) (*models.ShiftHandover, error) {
	if err != nil {
		return nil, err
	}
	h.mu.Lock()
	h.handovers = mergeByID(h.handovers, *s, func(x models.ShiftHandover) string { return x.ID })
	h.mu.Unlock()
	return s, nil
}

func (h *Handovers) Create(ctx context.Context, req models.CreateHandoverRequest) (*models.ShiftHandover, error) {
	return h.apply(h.client.CreateHandover(ctx, req))
}

func (h *Handovers) Accept(ctx context.Context, id string, req models.AcceptHandoverRequest) (*models.ShiftHandover, error) {
	return h.apply(h.client.AcceptHandover(ctx, id, req))
}

func (h *Handovers) Complete(ctx context.Context, id string) (*models.ShiftHandover, error) {
	return h.apply(h.client.CompleteHandover(ctx, id))
}

func (h *Handovers) Cancel(ctx context.Context, id string) (*models.ShiftHandover, error) {
	return h.apply(h.client.CancelHandover(ctx, id))
}
