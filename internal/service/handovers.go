package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/rongwang/shiftlog-server/internal/apperr"
	"github.com/rongwang/shiftlog-server/internal/filter"
	"github.com/rongwang/shiftlog-server/internal/lifecycle"
	"github.com/rongwang/shiftlog-server/internal/models"
)

// ListHandovers returns the handovers matching f, latest shift first.
func (s *DefaultService) ListHandovers(ctx context.Context, f filter.HandoverFilter) ([]models.ShiftHandover, error) {
	handovers, err := s.repo.ListHandovers(ctx)
	if err != nil {
		return nil, s.storeErr(err, "error listing handovers")
	}
	return filter.Handovers(handovers, f), nil
}

func (s *DefaultService) GetHandover(ctx context.Context, id string) (*models.ShiftHandover, error) {
	handover, err := s.repo.GetHandover(ctx, id)
	if err != nil {
		return nil, s.storeErr(err, "error getting handover")
	}
	if handover == nil {
		return nil, apperr.NotFound("handover %s not found", id)
	}
	return handover, nil
}

// CreateHandover opens a pending handover with the caller as the outgoing
// operator.
func (s *DefaultService) CreateHandover(
	ctx context.Context,
	caller models.Identity,
	req models.CreateHandoverRequest,
) (*models.ShiftHandover, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	shiftDate, err := lifecycle.ParseNewHandover(req)
	if err != nil {
		return nil, err
	}

	handover := &models.ShiftHandover{
		ShiftDate:            shiftDate,
		ShiftType:            req.ShiftType,
		OutgoingOperatorID:   caller.ID,
		OutgoingOperatorName: caller.DisplayName,
		OngoingWorks:         optional(req.OngoingWorks),
		SpecialInstructions:  optional(req.SpecialInstructions),
		Incidents:            optional(req.Incidents),
		Status:               models.HandoverPending,
	}
	if err := s.repo.CreateHandover(ctx, handover); err != nil {
		return nil, s.storeErr(err, "error creating handover")
	}

	s.logger.Info("handover created",
		zap.String("handover_id", handover.ID),
		zap.String("outgoing_operator_id", caller.ID),
		zap.String("shift_date", shiftDate.Format(lifecycle.ShiftDateLayout)),
		zap.String("shift_type", string(req.ShiftType)),
	)
	return s.GetHandover(ctx, handover.ID)
}

// AcceptHandover completes a pending handover from the incoming side.
func (s *DefaultService) AcceptHandover(
	ctx context.Context,
	caller models.Identity,
	id string,
	req models.AcceptHandoverRequest,
) (*models.ShiftHandover, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := s.checkHandover(ctx, caller, id, lifecycle.HandoverAccept); err != nil {
		return nil, err
	}

	ok, err := s.repo.AcceptHandover(ctx, id, caller, strings.TrimSpace(req.Notes), s.now())
	if err != nil {
		return nil, s.storeErr(err, "error accepting handover")
	}
	if !ok {
		return nil, s.handoverGuardFailure(ctx, caller, id, lifecycle.HandoverAccept)
	}

	s.logger.Info("handover accepted", zap.String("handover_id", id), zap.String("incoming_operator_id", caller.ID))
	return s.GetHandover(ctx, id)
}

// CompleteHandover completes a pending handover from the outgoing side
// without an incoming operator.
func (s *DefaultService) CompleteHandover(ctx context.Context, caller models.Identity, id string) (*models.ShiftHandover, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := s.checkHandover(ctx, caller, id, lifecycle.HandoverComplete); err != nil {
		return nil, err
	}

	ok, err := s.repo.CompleteHandover(ctx, id, caller.ID, s.now())
	if err != nil {
		return nil, s.storeErr(err, "error completing handover")
	}
	if !ok {
		return nil, s.handoverGuardFailure(ctx, caller, id, lifecycle.HandoverComplete)
	}

	s.logger.Info("handover completed", zap.String("handover_id", id), zap.String("outgoing_operator_id", caller.ID))
	return s.GetHandover(ctx, id)
}

func (s *DefaultService) CancelHandover(ctx context.Context, caller models.Identity, id string) (*models.ShiftHandover, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := s.checkHandover(ctx, caller, id, lifecycle.HandoverCancel); err != nil {
		return nil, err
	}

	ok, err := s.repo.CancelHandover(ctx, id, caller.ID, s.now())
	if err != nil {
		return nil, s.storeErr(err, "error cancelling handover")
	}
	if !ok {
		return nil, s.handoverGuardFailure(ctx, caller, id, lifecycle.HandoverCancel)
	}

	s.logger.Info("handover cancelled", zap.String("handover_id", id), zap.String("outgoing_operator_id", caller.ID))
	return s.GetHandover(ctx, id)
}

func (s *DefaultService) checkHandover(ctx context.Context, caller models.Identity, id string, action lifecycle.HandoverAction) error {
	handover, err := s.GetHandover(ctx, id)
	if err != nil {
		return err
	}
	_, err = lifecycle.CheckHandoverTransition(lifecycle.HandoverGuardContext{
		HandoverID:         id,
		Status:             handover.Status,
		OutgoingOperatorID: handover.OutgoingOperatorID,
		CallerID:           caller.ID,
	}, action)
	return err
}

// handoverGuardFailure classifies a guarded update that matched no row,
// usually because a concurrent transition won.
func (s *DefaultService) handoverGuardFailure(ctx context.Context, caller models.Identity, id string, action lifecycle.HandoverAction) error {
	if err := s.checkHandover(ctx, caller, id, action); err != nil {
		return err
	}
	return apperr.State("handover %s changed while it was being updated", id)
}
