package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/rongwang/shiftlog-server/internal/apperr"
	"github.com/rongwang/shiftlog-server/internal/models"
)

func TestCheckHandoverTransition(t *testing.T) {
	pending := func(caller string) HandoverGuardContext {
		return HandoverGuardContext{
			HandoverID:         "H-1",
			Status:             models.HandoverPending,
			OutgoingOperatorID: "opA",
			CallerID:           caller,
		}
	}
	withStatus := func(status models.HandoverStatus, caller string) HandoverGuardContext {
		ctx := pending(caller)
		ctx.Status = status
		return ctx
	}

	tests := []struct {
		name     string
		ctx      HandoverGuardContext
		action   HandoverAction
		wantNext models.HandoverStatus
		wantErr  error
	}{
		{name: "other operator accepts", ctx: pending("opB"), action: HandoverAccept, wantNext: models.HandoverCompleted},
		{name: "outgoing cannot accept own", ctx: pending("opA"), action: HandoverAccept, wantErr: apperr.ErrAuthorization},
		{name: "outgoing completes", ctx: pending("opA"), action: HandoverComplete, wantNext: models.HandoverCompleted},
		{name: "other cannot complete", ctx: pending("opB"), action: HandoverComplete, wantErr: apperr.ErrAuthorization},
		{name: "outgoing cancels", ctx: pending("opA"), action: HandoverCancel, wantNext: models.HandoverCancelled},
		{name: "other cannot cancel", ctx: pending("opB"), action: HandoverCancel, wantErr: apperr.ErrAuthorization},
		{name: "anonymous cannot accept", ctx: pending(""), action: HandoverAccept, wantErr: apperr.ErrAuthorization},
		{name: "accept after complete", ctx: withStatus(models.HandoverCompleted, "opB"), action: HandoverAccept, wantErr: apperr.ErrState},
		{name: "accept after cancel", ctx: withStatus(models.HandoverCancelled, "opB"), action: HandoverAccept, wantErr: apperr.ErrState},
		{name: "complete twice", ctx: withStatus(models.HandoverCompleted, "opA"), action: HandoverComplete, wantErr: apperr.ErrState},
		{name: "cancel completed", ctx: withStatus(models.HandoverCompleted, "opA"), action: HandoverCancel, wantErr: apperr.ErrState},
		{name: "cancel cancelled", ctx: withStatus(models.HandoverCancelled, "opA"), action: HandoverCancel, wantErr: apperr.ErrState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := CheckHandoverTransition(tt.ctx, tt.action)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want kind %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if next != tt.wantNext {
				t.Errorf("next = %q, want %q", next, tt.wantNext)
			}
		})
	}
}

func TestParseNewHandover(t *testing.T) {
	tests := []struct {
		name    string
		req     models.CreateHandoverRequest
		want    time.Time
		wantErr bool
	}{
		{
			name: "valid day shift",
			req:  models.CreateHandoverRequest{ShiftDate: "2024-03-01", ShiftType: models.ShiftDay},
			want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{name: "missing date", req: models.CreateHandoverRequest{ShiftType: models.ShiftNight}, wantErr: true},
		{name: "malformed date", req: models.CreateHandoverRequest{ShiftDate: "01.03.2024", ShiftType: models.ShiftDay}, wantErr: true},
		{name: "missing type", req: models.CreateHandoverRequest{ShiftDate: "2024-03-01"}, wantErr: true},
		{name: "unknown type", req: models.CreateHandoverRequest{ShiftDate: "2024-03-01", ShiftType: "evening"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNewHandover(tt.req)
			if tt.wantErr {
				if !errors.Is(err, apperr.ErrValidation) {
					t.Fatalf("err = %v, want validation error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("date = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAcceptAndCompleteAreExclusivePaths(t *testing.T) {
	at := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)

	accepted := &models.ShiftHandover{ID: "H-1", Status: models.HandoverPending, OutgoingOperatorID: "opA"}
	ApplyHandoverAccept(accepted, models.Identity{ID: "opB", DisplayName: "Петров"}, "Принято без замечаний", at)
	if accepted.Status != models.HandoverCompleted {
		t.Errorf("Status = %q", accepted.Status)
	}
	if accepted.IncomingOperatorID == nil || *accepted.IncomingOperatorID != "opB" {
		t.Errorf("IncomingOperatorID = %v", accepted.IncomingOperatorID)
	}
	if accepted.HandedOverAt != nil {
		t.Errorf("HandedOverAt set on accept path: %v", accepted.HandedOverAt)
	}

	completed := &models.ShiftHandover{ID: "H-2", Status: models.HandoverPending, OutgoingOperatorID: "opA"}
	ApplyHandoverComplete(completed, at)
	if completed.HandedOverAt == nil {
		t.Error("HandedOverAt not set on complete path")
	}
	if completed.IncomingOperatorID != nil || completed.ReceivedAt != nil {
		t.Errorf("incoming fields set on complete path: %v %v", completed.IncomingOperatorID, completed.ReceivedAt)
	}
}
