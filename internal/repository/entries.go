package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/rongwang/shiftlog-server/internal/models"
)

// entrySelect joins the reference tables into each entry row
const entrySelect = `
	SELECT je.id, COALESCE(je.category, '') AS category, je.category_id,
		je.title, je.description, je.author_id, je.author_name,
		je.status, je.priority, je.equipment_id, je.location_id,
		je.cancelled_at, je.cancelled_by, je.cancel_reason, je.created_at,
		c.code AS c_code, c.name AS c_name, c.description AS c_description,
		c.is_active AS c_is_active, c.sort_order AS c_sort_order,
		eq.name AS eq_name, eq.description AS eq_description, eq.is_active AS eq_is_active,
		l.name AS l_name, l.description AS l_description, l.is_active AS l_is_active
	FROM journal_entries je
	LEFT JOIN categories c ON c.id = je.category_id
	LEFT JOIN equipment eq ON eq.id = je.equipment_id
	LEFT JOIN locations l ON l.id = je.location_id
`

// entryRow is the flat shape of entrySelect
type entryRow struct {
	ID           string     `db:"id"`
	Category     string     `db:"category"`
	CategoryID   *string    `db:"category_id"`
	Title        string     `db:"title"`
	Description  string     `db:"description"`
	AuthorID     string     `db:"author_id"`
	AuthorName   string     `db:"author_name"`
	Status       string     `db:"status"`
	Priority     string     `db:"priority"`
	EquipmentID  *string    `db:"equipment_id"`
	LocationID   *string    `db:"location_id"`
	CancelledAt  *time.Time `db:"cancelled_at"`
	CancelledBy  *string    `db:"cancelled_by"`
	CancelReason *string    `db:"cancel_reason"`
	CreatedAt    time.Time  `db:"created_at"`

	CategoryCode        *string `db:"c_code"`
	CategoryName        *string `db:"c_name"`
	CategoryDescription *string `db:"c_description"`
	CategoryIsActive    *bool   `db:"c_is_active"`
	CategorySortOrder   *int    `db:"c_sort_order"`

	EquipmentName        *string `db:"eq_name"`
	EquipmentDescription *string `db:"eq_description"`
	EquipmentIsActive    *bool   `db:"eq_is_active"`

	LocationName        *string `db:"l_name"`
	LocationDescription *string `db:"l_description"`
	LocationIsActive    *bool   `db:"l_is_active"`
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func (row entryRow) toModel() models.JournalEntry {
	entry := models.JournalEntry{
		ID:           row.ID,
		Category:     row.Category,
		CategoryID:   row.CategoryID,
		Title:        row.Title,
		Description:  row.Description,
		Timestamp:    row.CreatedAt,
		AuthorID:     row.AuthorID,
		Author:       row.AuthorName,
		Status:       models.EntryStatus(row.Status),
		Priority:     models.Priority(row.Priority),
		EquipmentID:  row.EquipmentID,
		LocationID:   row.LocationID,
		CancelledAt:  row.CancelledAt,
		CancelledBy:  row.CancelledBy,
		CancelReason: row.CancelReason,
	}

	if row.CategoryID != nil && row.CategoryCode != nil {
		entry.CategoryData = &models.Category{
			ID:          *row.CategoryID,
			Code:        *row.CategoryCode,
			Name:        deref(row.CategoryName),
			Description: row.CategoryDescription,
			IsActive:    deref(row.CategoryIsActive),
			SortOrder:   deref(row.CategorySortOrder),
		}
	}
	if row.EquipmentID != nil && row.EquipmentName != nil {
		entry.Equipment = &models.Equipment{
			ID:          *row.EquipmentID,
			Name:        *row.EquipmentName,
			Description: row.EquipmentDescription,
			IsActive:    deref(row.EquipmentIsActive),
		}
	}
	if row.LocationID != nil && row.LocationName != nil {
		entry.Location = &models.Location{
			ID:          *row.LocationID,
			Name:        *row.LocationName,
			Description: row.LocationDescription,
			IsActive:    deref(row.LocationIsActive),
		}
	}

	return entry
}

// Journal entry repository methods
func (r *PostgresRepository) ListEntries(ctx context.Context) ([]models.JournalEntry, error) {
	query := entrySelect + ` ORDER BY je.created_at DESC`

	var rows []entryRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	entries := make([]models.JournalEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toModel())
	}

	return entries, nil
}

func (r *PostgresRepository) GetEntry(ctx context.Context, id string) (*models.JournalEntry, error) {
	query := entrySelect + ` WHERE je.id = $1`

	var row entryRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	entry := row.toModel()
	return &entry, nil
}

// CreateEntry inserts the entry; the creation timestamp is assigned by the
// database and written back into entry.Timestamp.
func (r *PostgresRepository) CreateEntry(ctx context.Context, entry *models.JournalEntry) error {
	query := `
		INSERT INTO journal_entries
			(id, category, category_id, title, description, author_id, author_name,
			 status, priority, equipment_id, location_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	return r.db.QueryRowxContext(ctx, query,
		entry.ID, nullIfEmpty(entry.Category), entry.CategoryID, entry.Title, entry.Description,
		entry.AuthorID, entry.Author, entry.Status, entry.Priority,
		entry.EquipmentID, entry.LocationID,
	).Scan(&entry.Timestamp)
}

// ActivateEntry moves a draft owned by authorID to active.
func (r *PostgresRepository) ActivateEntry(ctx context.Context, id, authorID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE journal_entries SET status = 'active', updated_at = now()
		WHERE id = $1 AND author_id = $2 AND status = 'draft'
	`, id, authorID)
	if err != nil {
		return false, err
	}
	return rowsAffected(res)
}

// CancelEntry writes all cancellation fields in one statement. The author
// and status predicates are the authoritative guard.
func (r *PostgresRepository) CancelEntry(ctx context.Context, id, authorID string, c Cancellation) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE journal_entries
		SET status = 'cancelled', cancelled_at = $3, cancelled_by = $4, cancel_reason = $5, updated_at = $3
		WHERE id = $1 AND author_id = $2 AND status <> 'cancelled'
	`, id, authorID, c.At, c.CancelledBy, c.Reason)
	if err != nil {
		return false, err
	}
	return rowsAffected(res)
}
