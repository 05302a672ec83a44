package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/rongwang/shiftlog-server/internal/apperr"
	"github.com/rongwang/shiftlog-server/internal/filter"
	"github.com/rongwang/shiftlog-server/internal/lifecycle"
	"github.com/rongwang/shiftlog-server/internal/models"
	"github.com/rongwang/shiftlog-server/internal/repository"
)

// ListEntries returns the entries matching f, newest first.
func (s *DefaultService) ListEntries(ctx context.Context, f filter.EntryFilter) ([]models.JournalEntry, error) {
	entries, err := s.repo.ListEntries(ctx)
	if err != nil {
		return nil, s.storeErr(err, "error listing entries")
	}
	return filter.Entries(entries, f), nil
}

func (s *DefaultService) GetEntry(ctx context.Context, id string) (*models.JournalEntry, error) {
	entry, err := s.repo.GetEntry(ctx, id)
	if err != nil {
		return nil, s.storeErr(err, "error getting entry")
	}
	if entry == nil {
		return nil, apperr.NotFound("entry %s not found", id)
	}
	return entry, nil
}

// CreateEntry validates the request, resolves its reference data and stores
// the entry under the caller's identity. The category may be given by id or
// by code.
func (s *DefaultService) CreateEntry(
	ctx context.Context,
	caller models.Identity,
	req models.CreateEntryRequest,
) (*models.JournalEntry, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := lifecycle.ValidateNewEntry(req); err != nil {
		return nil, err
	}

	category, err := s.resolveCategory(ctx, strings.TrimSpace(req.CategoryID))
	if err != nil {
		return nil, err
	}

	entry := &models.JournalEntry{
		Category:    category.Code,
		CategoryID:  &category.ID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		AuthorID:    caller.ID,
		Author:      caller.DisplayName,
		Status:      req.Status,
		Priority:    req.Priority,
	}

	if id := strings.TrimSpace(req.EquipmentID); id != "" {
		equipment, err := s.repo.GetEquipment(ctx, id)
		if err != nil {
			return nil, s.storeErr(err, "error getting equipment")
		}
		if equipment == nil || !equipment.IsActive {
			return nil, apperr.Validation("unknown or inactive equipment %s", id)
		}
		entry.EquipmentID = &id
	}
	if id := strings.TrimSpace(req.LocationID); id != "" {
		location, err := s.repo.GetLocation(ctx, id)
		if err != nil {
			return nil, s.storeErr(err, "error getting location")
		}
		if location == nil || !location.IsActive {
			return nil, apperr.Validation("unknown or inactive location %s", id)
		}
		entry.LocationID = &id
	}

	if err := s.repo.CreateEntry(ctx, entry); err != nil {
		return nil, s.storeErr(err, "error creating entry")
	}

	s.logger.Info("entry created",
		zap.String("entry_id", entry.ID),
		zap.String("author_id", caller.ID),
		zap.String("status", string(entry.Status)),
		zap.String("priority", string(entry.Priority)),
	)
	return s.GetEntry(ctx, entry.ID)
}

func (s *DefaultService) resolveCategory(ctx context.Context, ref string) (*models.Category, error) {
	category, err := s.repo.GetCategory(ctx, ref)
	if err != nil {
		return nil, s.storeErr(err, "error getting category")
	}
	if category == nil {
		category, err = s.GetCategoryByCode(ctx, ref)
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.Validation("unknown category %s", ref)
		}
		if err != nil {
			return nil, err
		}
	}
	if !category.IsActive {
		return nil, apperr.Validation("category %s is inactive", category.Code)
	}
	return category, nil
}

// ActivateEntry moves the caller's draft entry to active.
func (s *DefaultService) ActivateEntry(ctx context.Context, caller models.Identity, id string) (*models.JournalEntry, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := s.checkEntry(ctx, caller, id, lifecycle.EntryActivate); err != nil {
		return nil, err
	}

	ok, err := s.repo.ActivateEntry(ctx, id, caller.ID)
	if err != nil {
		return nil, s.storeErr(err, "error activating entry")
	}
	if !ok {
		return nil, s.entryGuardFailure(ctx, caller, id, lifecycle.EntryActivate)
	}

	s.logger.Info("entry activated", zap.String("entry_id", id), zap.String("author_id", caller.ID))
	return s.GetEntry(ctx, id)
}

// CancelEntry cancels the caller's entry, recording the reason and who
// cancelled it. cancelledBy defaults to the caller's display name.
func (s *DefaultService) CancelEntry(
	ctx context.Context,
	caller models.Identity,
	id string,
	req models.CancelEntryRequest,
) (*models.JournalEntry, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, apperr.Validation("cancel reason is required")
	}
	cancelledBy := strings.TrimSpace(req.CancelledBy)
	if cancelledBy == "" {
		cancelledBy = caller.DisplayName
	}

	if err := s.checkEntry(ctx, caller, id, lifecycle.EntryCancel); err != nil {
		return nil, err
	}

	ok, err := s.repo.CancelEntry(ctx, id, caller.ID, repository.Cancellation{
		Reason:      reason,
		CancelledBy: cancelledBy,
		At:          s.now(),
	})
	if err != nil {
		return nil, s.storeErr(err, "error cancelling entry")
	}
	if !ok {
		return nil, s.entryGuardFailure(ctx, caller, id, lifecycle.EntryCancel)
	}

	s.logger.Info("entry cancelled", zap.String("entry_id", id), zap.String("author_id", caller.ID))
	return s.GetEntry(ctx, id)
}

func (s *DefaultService) checkEntry(ctx context.Context, caller models.Identity, id string, action lifecycle.EntryAction) error {
	entry, err := s.GetEntry(ctx, id)
	if err != nil {
		return err
	}
	_, err = lifecycle.CheckEntryTransition(lifecycle.EntryGuardContext{
		EntryID:  id,
		Status:   entry.Status,
		AuthorID: entry.AuthorID,
		CallerID: caller.ID,
	}, action)
	return err
}

// entryGuardFailure classifies a guarded update that matched no row. The
// row is re-read and the guard re-run against its current state.
func (s *DefaultService) entryGuardFailure(ctx context.Context, caller models.Identity, id string, action lifecycle.EntryAction) error {
	if err := s.checkEntry(ctx, caller, id, action); err != nil {
		return err
	}
	return apperr.State("entry %s changed while it was being updated", id)
}
