package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/rongwang/shiftlog-server/internal/models"
)

// Shift handover repository methods
func (r *PostgresRepository) ListHandovers(ctx context.Context) ([]models.ShiftHandover, error) {
	query := `SELECT * FROM shift_handovers ORDER BY shift_date DESC, created_at DESC`

	handovers := []models.ShiftHandover{}
	if err := r.db.SelectContext(ctx, &handovers, query); err != nil {
		return nil, err
	}

	return handovers, nil
}

func (r *PostgresRepository) GetHandover(ctx context.Context, id string) (*models.ShiftHandover, error) {
	query := `SELECT * FROM shift_handovers WHERE id = $1`

	var handover models.ShiftHandover
	err := r.db.GetContext(ctx, &handover, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &handover, nil
}

func (r *PostgresRepository) CreateHandover(ctx context.Context, handover *models.ShiftHandover) error {
	query := `
		INSERT INTO shift_handovers
			(id, shift_date, shift_type, outgoing_operator_id, outgoing_operator_name,
			 ongoing_works, special_instructions, incidents, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	if handover.ID == "" {
		handover.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	handover.CreatedAt = now
	handover.UpdatedAt = now
	handover.Status = models.HandoverPending

	_, err := r.db.ExecContext(ctx, query,
		handover.ID, handover.ShiftDate.Format("2006-01-02"), handover.ShiftType,
		handover.OutgoingOperatorID, handover.OutgoingOperatorName,
		handover.OngoingWorks, handover.SpecialInstructions, handover.Incidents,
		handover.Status, handover.CreatedAt, handover.UpdatedAt)

	return err
}

// AcceptHandover records the incoming operator on a pending handover that
// the caller did not create.
func (r *PostgresRepository) AcceptHandover(
	ctx context.Context,
	id string,
	incoming models.Identity,
	notes string,
	at time.Time,
) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE shift_handovers
		SET incoming_operator_id = $2, incoming_operator_name = $3, handover_notes = $4,
			status = 'completed', received_at = $5, updated_at = $5
		WHERE id = $1 AND status = 'pending' AND outgoing_operator_id <> $2
	`, id, incoming.ID, incoming.DisplayName, nullIfEmpty(notes), at)
	if err != nil {
		return false, err
	}
	return rowsAffected(res)
}

// CompleteHandover closes a pending handover from the outgoing side.
func (r *PostgresRepository) CompleteHandover(ctx context.Context, id, outgoingID string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE shift_handovers
		SET status = 'completed', handed_over_at = $3, updated_at = $3
		WHERE id = $1 AND outgoing_operator_id = $2 AND status = 'pending'
	`, id, outgoingID, at)
	if err != nil {
		return false, err
	}
	return rowsAffected(res)
}

// CancelHandover cancels a pending handover owned by outgoingID.
func (r *PostgresRepository) CancelHandover(ctx context.Context, id, outgoingID string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE shift_handovers
		SET status = 'cancelled', updated_at = $3
		WHERE id = $1 AND outgoing_operator_id = $2 AND status = 'pending'
	`, id, outgoingID, at)
	if err != nil {
		return false, err
	}
	return rowsAffected(res)
}
