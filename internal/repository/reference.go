package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rongwang/shiftlog-server/internal/models"
)

// patchBuilder accumulates "col = $n" assignments for a partial UPDATE.
type patchBuilder struct {
	sets []string
	args []interface{}
}

func (p *patchBuilder) set(column string, value interface{}) {
	p.args = append(p.args, value)
	p.sets = append(p.sets, fmt.Sprintf("%s = $%d", column, len(p.args)))
}

// build returns the statement for table keyed by id, or "" when the patch is empty.
func (p *patchBuilder) build(table, id string) (string, []interface{}) {
	if len(p.sets) == 0 {
		return "", nil
	}
	p.set("updated_at", time.Now().UTC())
	args := append(p.args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", table, strings.Join(p.sets, ", "), len(args))
	return query, args
}

func nullIfEmpty(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// Category repository methods
func (r *PostgresRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	query := `SELECT * FROM categories ORDER BY sort_order ASC, name ASC`

	categories := []models.Category{}
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, err
	}

	return categories, nil
}

func (r *PostgresRepository) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	query := `SELECT * FROM categories WHERE id = $1`

	var category models.Category
	err := r.db.GetContext(ctx, &category, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &category, nil
}

func (r *PostgresRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (id, code, name, description, is_active, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if category.ID == "" {
		category.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	category.CreatedAt = now
	category.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		category.ID, category.Code, category.Name, category.Description,
		category.IsActive, category.SortOrder, category.CreatedAt, category.UpdatedAt)

	return translate(err, "category with this code")
}

func (r *PostgresRepository) UpdateCategory(ctx context.Context, id string, patch models.UpdateCategoryRequest) error {
	var p patchBuilder
	if patch.Code != nil {
		p.set("code", *patch.Code)
	}
	if patch.Name != nil {
		p.set("name", *patch.Name)
	}
	if patch.Description != nil {
		p.set("description", nullIfEmpty(*patch.Description))
	}
	if patch.IsActive != nil {
		p.set("is_active", *patch.IsActive)
	}
	if patch.SortOrder != nil {
		p.set("sort_order", *patch.SortOrder)
	}

	query, args := p.build("categories", id)
	if query == "" {
		return nil
	}

	_, err := r.db.ExecContext(ctx, query, args...)
	return translate(err, "category with this code")
}

// SwapCategoryOrder exchanges the sort_order of two categories in one transaction.
func (r *PostgresRepository) SwapCategoryOrder(ctx context.Context, firstID, secondID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	var orders []struct {
		ID        string `db:"id"`
		SortOrder int    `db:"sort_order"`
	}
	err = tx.SelectContext(ctx, &orders,
		`SELECT id, sort_order FROM categories WHERE id IN ($1, $2) FOR UPDATE`, firstID, secondID)
	if err != nil {
		return err
	}
	if len(orders) != 2 {
		err = sql.ErrNoRows
		return err
	}

	now := time.Now().UTC()
	for i, o := range orders {
		other := orders[1-i]
		_, err = tx.ExecContext(ctx,
			`UPDATE categories SET sort_order = $1, updated_at = $2 WHERE id = $3`,
			other.SortOrder, now, o.ID)
		if err != nil {
			return err
		}
	}

	err = tx.Commit()
	return err
}

// RenumberCategories sets sort_order to 1..n following orderedIDs in one
// transaction. A missing id rolls the whole pass back with sql.ErrNoRows.
func (r *PostgresRepository) RenumberCategories(ctx context.Context, orderedIDs []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	for i, id := range orderedIDs {
		var result sql.Result
		result, err = tx.ExecContext(ctx,
			`UPDATE categories SET sort_order = $1, updated_at = $2 WHERE id = $3`,
			i+1, now, id)
		if err != nil {
			return err
		}
		var n int64
		if n, err = result.RowsAffected(); err != nil {
			return err
		}
		if n == 0 {
			err = sql.ErrNoRows
			return err
		}
	}

	err = tx.Commit()
	return err
}

// Equipment repository methods
func (r *PostgresRepository) ListEquipment(ctx context.Context) ([]models.Equipment, error) {
	equipment := []models.Equipment{}
	if err := r.db.SelectContext(ctx, &equipment, `SELECT * FROM equipment ORDER BY name ASC`); err != nil {
		return nil, err
	}
	return equipment, nil
}

func (r *PostgresRepository) GetEquipment(ctx context.Context, id string) (*models.Equipment, error) {
	var equipment models.Equipment
	err := r.db.GetContext(ctx, &equipment, `SELECT * FROM equipment WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &equipment, nil
}

func (r *PostgresRepository) CreateEquipment(ctx context.Context, equipment *models.Equipment) error {
	if equipment.ID == "" {
		equipment.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	equipment.CreatedAt = now
	equipment.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO equipment (id, name, description, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, equipment.ID, equipment.Name, equipment.Description, equipment.IsActive, equipment.CreatedAt, equipment.UpdatedAt)
	return translate(err, "equipment")
}

func (r *PostgresRepository) UpdateEquipment(ctx context.Context, id string, patch models.UpdateReferenceRequest) error {
	return r.updateReference(ctx, "equipment", id, patch)
}

// Location repository methods
func (r *PostgresRepository) ListLocations(ctx context.Context) ([]models.Location, error) {
	locations := []models.Location{}
	if err := r.db.SelectContext(ctx, &locations, `SELECT * FROM locations ORDER BY name ASC`); err != nil {
		return nil, err
	}
	return locations, nil
}

func (r *PostgresRepository) GetLocation(ctx context.Context, id string) (*models.Location, error) {
	var location models.Location
	err := r.db.GetContext(ctx, &location, `SELECT * FROM locations WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &location, nil
}

func (r *PostgresRepository) CreateLocation(ctx context.Context, location *models.Location) error {
	if location.ID == "" {
		location.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	location.CreatedAt = now
	location.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO locations (id, name, description, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, location.ID, location.Name, location.Description, location.IsActive, location.CreatedAt, location.UpdatedAt)
	return translate(err, "location")
}

func (r *PostgresRepository) UpdateLocation(ctx context.Context, id string, patch models.UpdateReferenceRequest) error {
	return r.updateReference(ctx, "locations", id, patch)
}

func (r *PostgresRepository) updateReference(ctx context.Context, table, id string, patch models.UpdateReferenceRequest) error {
	var p patchBuilder
	if patch.Name != nil {
		p.set("name", *patch.Name)
	}
	if patch.Description != nil {
		p.set("description", nullIfEmpty(*patch.Description))
	}
	if patch.IsActive != nil {
		p.set("is_active", *patch.IsActive)
	}

	query, args := p.build(table, id)
	if query == "" {
		return nil
	}

	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}
