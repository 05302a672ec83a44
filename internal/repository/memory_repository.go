package repository

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rongwang/shiftlog-server/internal/apperr"
	"github.com/rongwang/shiftlog-server/internal/lifecycle"
	"github.com/rongwang/shiftlog-server/internal/models"
)

// MemoryRepository implements Repository in process memory. It backs
// STORE_DRIVER=memory and the service and API tests; guarded updates follow
// the same predicates as the SQL statements.
type MemoryRepository struct {
	mu         sync.RWMutex
	now        func() time.Time
	users      map[string]models.User
	categories map[string]models.Category
	equipment  map[string]models.Equipment
	locations  map[string]models.Location
	entries    map[string]models.JournalEntry
	handovers  map[string]models.ShiftHandover
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		now:        func() time.Time { return time.Now().UTC() },
		users:      make(map[string]models.User),
		categories: make(map[string]models.Category),
		equipment:  make(map[string]models.Equipment),
		locations:  make(map[string]models.Location),
		entries:    make(map[string]models.JournalEntry),
		handovers:  make(map[string]models.ShiftHandover),
	}
}

// SetClock replaces the clock used for server-assigned timestamps.
func (r *MemoryRepository) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// User repository methods
func (r *MemoryRepository) CreateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return apperr.Conflict("user with this email already exists")
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := r.now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if u, ok := r.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

// Category repository methods
func (r *MemoryRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *MemoryRepository) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.categories[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (r *MemoryRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.categories {
		if c.Code == category.Code {
			return apperr.Conflict("category with this code already exists")
		}
	}
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	now := r.now()
	category.CreatedAt = now
	category.UpdatedAt = now
	r.categories[category.ID] = *category
	return nil
}

func (r *MemoryRepository) UpdateCategory(ctx context.Context, id string, patch models.UpdateCategoryRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.categories[id]
	if !ok {
		return nil
	}
	if patch.Code != nil {
		for otherID, other := range r.categories {
			if otherID != id && other.Code == *patch.Code {
				return apperr.Conflict("category with this code already exists")
			}
		}
		c.Code = *patch.Code
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Description != nil {
		c.Description = nullIfEmpty(*patch.Description)
	}
	if patch.IsActive != nil {
		c.IsActive = *patch.IsActive
	}
	if patch.SortOrder != nil {
		c.SortOrder = *patch.SortOrder
	}
	c.UpdatedAt = r.now()
	r.categories[id] = c
	return nil
}

func (r *MemoryRepository) SwapCategoryOrder(ctx context.Context, firstID, secondID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	first, ok1 := r.categories[firstID]
	second, ok2 := r.categories[secondID]
	if !ok1 || !ok2 {
		return sql.ErrNoRows
	}
	now := r.now()
	first.SortOrder, second.SortOrder = second.SortOrder, first.SortOrder
	first.UpdatedAt, second.UpdatedAt = now, now
	r.categories[firstID] = first
	r.categories[secondID] = second
	return nil
}

func (r *MemoryRepository) RenumberCategories(ctx context.Context, orderedIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range orderedIDs {
		if _, ok := r.categories[id]; !ok {
			return sql.ErrNoRows
		}
	}
	now := r.now()
	for i, id := range orderedIDs {
		c := r.categories[id]
		c.SortOrder = i + 1
		c.UpdatedAt = now
		r.categories[id] = c
	}
	return nil
}

// Equipment repository methods
func (r *MemoryRepository) ListEquipment(ctx context.Context) ([]models.Equipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Equipment, 0, len(r.equipment))
	for _, e := range r.equipment {
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryRepository) GetEquipment(ctx context.Context, id string) (*models.Equipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.equipment[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (r *MemoryRepository) CreateEquipment(ctx context.Context, equipment *models.Equipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if equipment.ID == "" {
		equipment.ID = uuid.New().String()
	}
	now := r.now()
	equipment.CreatedAt = now
	equipment.UpdatedAt = now
	r.equipment[equipment.ID] = *equipment
	return nil
}

func (r *MemoryRepository) UpdateEquipment(ctx context.Context, id string, patch models.UpdateReferenceRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.equipment[id]
	if !ok {
		return nil
	}
	applyReferencePatch(&e.Name, &e.Description, &e.IsActive, patch)
	e.UpdatedAt = r.now()
	r.equipment[id] = e
	return nil
}

// Location repository methods
func (r *MemoryRepository) ListLocations(ctx context.Context) ([]models.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Location, 0, len(r.locations))
	for _, l := range r.locations {
		out = append(out, l)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryRepository) GetLocation(ctx context.Context, id string) (*models.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if l, ok := r.locations[id]; ok {
		return &l, nil
	}
	return nil, nil
}

func (r *MemoryRepository) CreateLocation(ctx context.Context, location *models.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if location.ID == "" {
		location.ID = uuid.New().String()
	}
	now := r.now()
	location.CreatedAt = now
	location.UpdatedAt = now
	r.locations[location.ID] = *location
	return nil
}

func (r *MemoryRepository) UpdateLocation(ctx context.Context, id string, patch models.UpdateReferenceRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.locations[id]
	if !ok {
		return nil
	}
	applyReferencePatch(&l.Name, &l.Description, &l.IsActive, patch)
	l.UpdatedAt = r.now()
	r.locations[id] = l
	return nil
}

func applyReferencePatch(name *string, description **string, active *bool, patch models.UpdateReferenceRequest) {
	if patch.Name != nil {
		*name = *patch.Name
	}
	if patch.Description != nil {
		*description = nullIfEmpty(*patch.Description)
	}
	if patch.IsActive != nil {
		*active = *patch.IsActive
	}
}

// Journal entry repository methods

// expand joins the current reference rows into e, like entrySelect does.
func (r *MemoryRepository) expand(e models.JournalEntry) models.JournalEntry {
	e.CategoryData, e.Equipment, e.Location = nil, nil, nil
	if e.CategoryID != nil {
		if c, ok := r.categories[*e.CategoryID]; ok {
			e.CategoryData = &c
		}
	}
	if e.EquipmentID != nil {
		if eq, ok := r.equipment[*e.EquipmentID]; ok {
			e.Equipment = &eq
		}
	}
	if e.LocationID != nil {
		if l, ok := r.locations[*e.LocationID]; ok {
			e.Location = &l
		}
	}
	return e
}

func (r *MemoryRepository) ListEntries(ctx context.Context) ([]models.JournalEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.JournalEntry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, r.expand(e))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *MemoryRepository) GetEntry(ctx context.Context, id string) (*models.JournalEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, nil
	}
	e = r.expand(e)
	return &e, nil
}

func (r *MemoryRepository) CreateEntry(ctx context.Context, entry *models.JournalEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.Timestamp = r.now()
	stored := *entry
	stored.CategoryData, stored.Equipment, stored.Location = nil, nil, nil
	r.entries[entry.ID] = stored
	return nil
}

func (r *MemoryRepository) ActivateEntry(ctx context.Context, id, authorID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok || e.AuthorID != authorID || e.Status != models.EntryDraft {
		return false, nil
	}
	lifecycle.ApplyEntryActivate(&e)
	r.entries[id] = e
	return true, nil
}

func (r *MemoryRepository) CancelEntry(ctx context.Context, id, authorID string, c Cancellation) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok || e.AuthorID != authorID || e.Status == models.EntryCancelled {
		return false, nil
	}
	lifecycle.ApplyEntryCancel(&e, c.Reason, c.CancelledBy, c.At)
	r.entries[id] = e
	return true, nil
}

// Shift handover repository methods
func (r *MemoryRepository) ListHandovers(ctx context.Context) ([]models.ShiftHandover, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.ShiftHandover, 0, len(r.handovers))
	for _, h := range r.handovers {
		out = append(out, h)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].ShiftDate.Equal(out[j].ShiftDate) {
			return out[i].ShiftDate.After(out[j].ShiftDate)
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *MemoryRepository) GetHandover(ctx context.Context, id string) (*models.ShiftHandover, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if h, ok := r.handovers[id]; ok {
		return &h, nil
	}
	return nil, nil
}

func (r *MemoryRepository) CreateHandover(ctx context.Context, handover *models.ShiftHandover) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if handover.ID == "" {
		handover.ID = uuid.New().String()
	}
	now := r.now()
	handover.CreatedAt = now
	handover.UpdatedAt = now
	handover.Status = models.HandoverPending
	r.handovers[handover.ID] = *handover
	return nil
}

func (r *MemoryRepository) AcceptHandover(
	ctx context.Context,
	id string,
	incoming models.Identity,
	notes string,
	at time.Time,
) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.handovers[id]
	if !ok || h.Status != models.HandoverPending || h.OutgoingOperatorID == incoming.ID {
		return false, nil
	}
	lifecycle.ApplyHandoverAccept(&h, incoming, notes, at)
	r.handovers[id] = h
	return true, nil
}

func (r *MemoryRepository) CompleteHandover(ctx context.Context, id, outgoingID string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.handovers[id]
	if !ok || h.Status != models.HandoverPending || h.OutgoingOperatorID != outgoingID {
		return false, nil
	}
	lifecycle.ApplyHandoverComplete(&h, at)
	r.handovers[id] = h
	return true, nil
}

func (r *MemoryRepository) CancelHandover(ctx context.Context, id, outgoingID string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.handovers[id]
	if !ok || h.Status != models.HandoverPending || h.OutgoingOperatorID != outgoingID {
		return false, nil
	}
	lifecycle.ApplyHandoverCancel(&h, at)
	r.handovers[id] = h
	return true, nil
}
