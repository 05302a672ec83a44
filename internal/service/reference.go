package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/rongwang/shiftlog-server/internal/apperr"
	"github.com/rongwang/shiftlog-server/internal/models"
)

// Direction moves a category within the sort order
type Direction string

const (
	MoveUp   Direction = "up"
	MoveDown Direction = "down"
)

// Category operations
func (s *DefaultService) ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, s.storeErr(err, "error listing categories")
	}
	if !activeOnly {
		return categories, nil
	}
	active := make([]models.Category, 0, len(categories))
	for _, c := range categories {
		if c.IsActive {
			active = append(active, c)
		}
	}
	return active, nil
}

// GetCategoryByCode finds a category by its stable code.
func (s *DefaultService) GetCategoryByCode(ctx context.Context, code string) (*models.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, s.storeErr(err, "error listing categories")
	}
	for _, c := range categories {
		if c.Code == code {
			return &c, nil
		}
	}
	return nil, apperr.NotFound("category %q not found", code)
}

func (s *DefaultService) CreateCategory(
	ctx context.Context,
	caller models.Identity,
	req models.CreateCategoryRequest,
) (*models.Category, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Code) == "" {
		return nil, apperr.Validation("category code is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperr.Validation("category name is required")
	}

	category := &models.Category{
		Code:        strings.TrimSpace(req.Code),
		Name:        strings.TrimSpace(req.Name),
		Description: optional(req.Description),
		IsActive:    true,
		SortOrder:   req.SortOrder,
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, s.storeErr(err, "error creating category")
	}

	s.logger.Info("category created", zap.String("category_id", category.ID), zap.String("code", category.Code))
	return category, nil
}

func (s *DefaultService) UpdateCategory(
	ctx context.Context,
	caller models.Identity,
	id string,
	req models.UpdateCategoryRequest,
) (*models.Category, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if req.Code != nil && strings.TrimSpace(*req.Code) == "" {
		return nil, apperr.Validation("category code cannot be blank")
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, apperr.Validation("category name cannot be blank")
	}

	existing, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, s.storeErr(err, "error getting category")
	}
	if existing == nil {
		return nil, apperr.NotFound("category %s not found", id)
	}

	if err := s.repo.UpdateCategory(ctx, id, req); err != nil {
		return nil, s.storeErr(err, "error updating category")
	}
	updated, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, s.storeErr(err, "error getting category")
	}
	if updated == nil {
		return nil, apperr.NotFound("category %s not found", id)
	}
	return updated, nil
}

// MoveCategory swaps the category's sort order with its neighbour in the
// given direction. When the two share a sort order every category is
// renumbered instead. Moving past either end leaves the order unchanged.
func (s *DefaultService) MoveCategory(
	ctx context.Context,
	caller models.Identity,
	id string,
	direction Direction,
) ([]models.Category, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	var step int
	switch direction {
	case MoveUp:
		step = -1
	case MoveDown:
		step = 1
	default:
		return nil, apperr.Validation("direction must be up or down, got %q", direction)
	}

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, s.storeErr(err, "error listing categories")
	}
	index := -1
	for i, c := range categories {
		if c.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, apperr.NotFound("category %s not found", id)
	}

	neighbour := index + step
	if neighbour < 0 || neighbour >= len(categories) {
		return categories, nil
	}

	if categories[index].SortOrder == categories[neighbour].SortOrder {
		// equal orders fall back to name order, so a swap would change nothing
		ids := make([]string, len(categories))
		for i, c := range categories {
			ids[i] = c.ID
		}
		ids[index], ids[neighbour] = ids[neighbour], ids[index]
		err = s.repo.RenumberCategories(ctx, ids)
	} else {
		err = s.repo.SwapCategoryOrder(ctx, categories[index].ID, categories[neighbour].ID)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("category %s not found", id)
	}
	if err != nil {
		return nil, s.storeErr(err, "error reordering categories")
	}

	s.logger.Info("category moved", zap.String("category_id", id), zap.String("direction", string(direction)))
	return s.ListCategories(ctx, false)
}

// Equipment operations
func (s *DefaultService) ListEquipment(ctx context.Context, activeOnly bool) ([]models.Equipment, error) {
	equipment, err := s.repo.ListEquipment(ctx)
	if err != nil {
		return nil, s.storeErr(err, "error listing equipment")
	}
	if !activeOnly {
		return equipment, nil
	}
	active := make([]models.Equipment, 0, len(equipment))
	for _, e := range equipment {
		if e.IsActive {
			active = append(active, e)
		}
	}
	return active, nil
}

func (s *DefaultService) CreateEquipment(
	ctx context.Context,
	caller models.Identity,
	req models.ReferenceRequest,
) (*models.Equipment, error) {
	if err := validateReference(caller, req, "equipment"); err != nil {
		return nil, err
	}
	equipment := &models.Equipment{
		Name:        strings.TrimSpace(req.Name),
		Description: optional(req.Description),
		IsActive:    true,
	}
	if err := s.repo.CreateEquipment(ctx, equipment); err != nil {
		return nil, s.storeErr(err, "error creating equipment")
	}
	return equipment, nil
}

func (s *DefaultService) UpdateEquipment(
	ctx context.Context,
	caller models.Identity,
	id string,
	req models.UpdateReferenceRequest,
) (*models.Equipment, error) {
	if err := validateReferencePatch(caller, req, "equipment"); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetEquipment(ctx, id)
	if err != nil {
		return nil, s.storeErr(err, "error getting equipment")
	}
	if existing == nil {
		return nil, apperr.NotFound("equipment %s not found", id)
	}
	if err := s.repo.UpdateEquipment(ctx, id, req); err != nil {
		return nil, s.storeErr(err, "error updating equipment")
	}
	updated, err := s.repo.GetEquipment(ctx, id)
	if err != nil {
		return nil, s.storeErr(err, "error getting equipment")
	}
	if updated == nil {
		return nil, apperr.NotFound("equipment %s not found", id)
	}
	return updated, nil
}

// Location operations
func (s *DefaultService) ListLocations(ctx context.Context, activeOnly bool) ([]models.Location, error) {
	locations, err := s.repo.ListLocations(ctx)
	if err != nil {
		return nil, s.storeErr(err, "error listing locations")
	}
	if !activeOnly {
		return locations, nil
	}
	active := make([]models.Location, 0, len(locations))
	for _, l := range locations {
		if l.IsActive {
			active = append(active, l)
		}
	}
	return active, nil
}

func (s *DefaultService) CreateLocation(
	ctx context.Context,
	caller models.Identity,
	req models.ReferenceRequest,
) (*models.Location, error) {
	if err := validateReference(caller, req, "location"); err != nil {
		return nil, err
	}
	location := &models.Location{
		Name:        strings.TrimSpace(req.Name),
		Description: optional(req.Description),
		IsActive:    true,
	}
	if err := s.repo.CreateLocation(ctx, location); err != nil {
		return nil, s.storeErr(err, "error creating location")
	}
	return location, nil
}

func (s *DefaultService) UpdateLocation(
	ctx context.Context,
	caller models.Identity,
	id string,
	req models.UpdateReferenceRequest,
) (*models.Location, error) {
	if err := validateReferencePatch(caller, req, "location"); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetLocation(ctx, id)
	if err != nil {
		return nil, s.storeErr(err, "error getting location")
	}
	if existing == nil {
		return nil, apperr.NotFound("location %s not found", id)
	}
	if err := s.repo.UpdateLocation(ctx, id, req); err != nil {
		return nil, s.storeErr(err, "error updating location")
	}
	updated, err := s.repo.GetLocation(ctx, id)
	if err != nil {
		return nil, s.storeErr(err, "error getting location")
	}
	if updated == nil {
		return nil, apperr.NotFound("location %s not found", id)
	}
	return updated, nil
}

func validateReference(caller models.Identity, req models.ReferenceRequest, kind string) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	if strings.TrimSpace(req.Name) == "" {
		return apperr.Validation("%s name is required", kind)
	}
	return nil
}

func validateReferencePatch(caller models.Identity, req models.UpdateReferenceRequest, kind string) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return apperr.Validation("%s name cannot be blank", kind)
	}
	return nil
}
