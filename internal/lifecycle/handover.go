package lifecycle

import (
	"strings"
	"time"

	"github.com/rongwang/shiftlog-server/internal/apperr"
	"github.com/rongwang/shiftlog-server/internal/models"
)

// ShiftDateLayout is the wire format of a handover's shift date
const ShiftDateLayout = "2006-01-02"

// HandoverAction is a transition that can be requested on a handover
type HandoverAction string

const (
	HandoverAccept   HandoverAction = "accept"
	HandoverComplete HandoverAction = "complete"
	HandoverCancel   HandoverAction = "cancel"
)

type actor int

const (
	actorOutgoing actor = iota
	actorNotOutgoing
)

type handoverRule struct {
	to    models.HandoverStatus
	actor actor
}

// Pending is the only state with outgoing transitions.
var handoverTransitions = map[models.HandoverStatus]map[HandoverAction]handoverRule{
	models.HandoverPending: {
		HandoverAccept:   {to: models.HandoverCompleted, actor: actorNotOutgoing},
		HandoverComplete: {to: models.HandoverCompleted, actor: actorOutgoing},
		HandoverCancel:   {to: models.HandoverCancelled, actor: actorOutgoing},
	},
}

// HandoverGuardContext is what a guard needs to know about a handover transition.
type HandoverGuardContext struct {
	HandoverID         string
	Status             models.HandoverStatus
	OutgoingOperatorID string
	CallerID           string
}

// CheckHandoverTransition returns the status the handover moves to.
// Rules:
// - status must be pending (StateError otherwise)
// - accept: caller must not be the outgoing operator
// - complete, cancel: caller must be the outgoing operator
func CheckHandoverTransition(ctx HandoverGuardContext, action HandoverAction) (models.HandoverStatus, error) {
	rule, ok := handoverTransitions[ctx.Status][action]
	if !ok {
		return "", apperr.State("cannot %s handover %s in status %s", action, ctx.HandoverID, ctx.Status)
	}
	if ctx.CallerID == "" {
		return "", apperr.Authorization("anonymous caller cannot %s handover %s", action, ctx.HandoverID)
	}
	switch rule.actor {
	case actorOutgoing:
		if ctx.CallerID != ctx.OutgoingOperatorID {
			return "", apperr.Authorization("only the outgoing operator can %s handover %s", action, ctx.HandoverID)
		}
	case actorNotOutgoing:
		if ctx.CallerID == ctx.OutgoingOperatorID {
			return "", apperr.Authorization("an operator cannot accept their own handover %s", ctx.HandoverID)
		}
	}
	return rule.to, nil
}

// ParseNewHandover validates a create request and returns its shift date.
func ParseNewHandover(req models.CreateHandoverRequest) (time.Time, error) {
	if strings.TrimSpace(req.ShiftDate) == "" {
		return time.Time{}, apperr.Validation("shift date is required")
	}
	date, err := time.Parse(ShiftDateLayout, strings.TrimSpace(req.ShiftDate))
	if err != nil {
		return time.Time{}, apperr.Validation("shift date must be YYYY-MM-DD, got %q", req.ShiftDate)
	}
	if req.ShiftType == "" {
		return time.Time{}, apperr.Validation("shift type is required")
	}
	if !req.ShiftType.Valid() {
		return time.Time{}, apperr.Validation("shift type must be day or night, got %q", req.ShiftType)
	}
	return date, nil
}

// ApplyHandoverAccept records the incoming operator. handed_over_at is left
// as it was.
func ApplyHandoverAccept(h *models.ShiftHandover, caller models.Identity, notes string, at time.Time) {
	h.IncomingOperatorID = &caller.ID
	h.IncomingOperatorName = &caller.DisplayName
	if notes != "" {
		h.HandoverNotes = &notes
	} else {
		h.HandoverNotes = nil
	}
	h.ReceivedAt = &at
	h.Status = models.HandoverCompleted
	h.UpdatedAt = at
}

// ApplyHandoverComplete closes the handover from the outgoing side without
// touching the incoming operator fields.
func ApplyHandoverComplete(h *models.ShiftHandover, at time.Time) {
	h.HandedOverAt = &at
	h.Status = models.HandoverCompleted
	h.UpdatedAt = at
}

// ApplyHandoverCancel moves a pending handover to cancelled.
func ApplyHandoverCancel(h *models.ShiftHandover, at time.Time) {
	h.Status = models.HandoverCancelled
	h.UpdatedAt = at
}
