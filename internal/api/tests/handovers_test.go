package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rongwang/shiftlog-server/internal/api/testutils"
	"github.com/rongwang/shiftlog-server/internal/models"
)

func createHandover(t *testing.T, testCtx *testutils.TestContext, token, shiftDate string) models.ShiftHandover {
	t.Helper()
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/handovers",
		models.CreateHandoverRequest{
			ShiftDate:    shiftDate,
			ShiftType:    models.ShiftDay,
			OngoingWorks: "Ремонт ВЛ-10",
		},
		testutils.AuthHeaders(token),
	)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp models.HandoverResponse
	testutils.DecodeJSON(t, w, &resp)
	require.NotNil(t, resp.Handover)
	return *resp.Handover
}

func handoverAction(testCtx *testutils.TestContext, token, id, action string, body interface{}) (int, models.HandoverResponse, string) {
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		fmt.Sprintf("/api/handovers/%s/%s", id, action),
		body,
		testutils.AuthHeaders(token),
	)
	var resp models.HandoverResponse
	if w.Code == http.StatusOK {
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
	}
	return w.Code, resp, w.Body.String()
}

func TestCreateHandover(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	handover := createHandover(t, testCtx, testCtx.TestUserJWT, "2024-03-01")
	assert.Equal(t, models.HandoverPending, handover.Status)
	assert.Equal(t, testCtx.TestUserID, handover.OutgoingOperatorID)
	assert.Equal(t, "Иванов", handover.OutgoingOperatorName)
	assert.Nil(t, handover.IncomingOperatorID)
	require.NotNil(t, handover.OngoingWorks)
	assert.Equal(t, "Ремонт ВЛ-10", *handover.OngoingWorks)

	// Missing shift date
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/handovers",
		models.CreateHandoverRequest{ShiftType: models.ShiftNight},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown shift type
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/handovers",
		models.CreateHandoverRequest{ShiftDate: "2024-03-01", ShiftType: "evening"},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAcceptHandover(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	handover := createHandover(t, testCtx, testCtx.TestUserJWT, "2024-03-01")

	// The outgoing operator cannot accept their own handover
	code, _, _ := handoverAction(testCtx, testCtx.TestUserJWT, handover.ID, "accept", models.AcceptHandoverRequest{})
	assert.Equal(t, http.StatusForbidden, code)

	code, resp, body := handoverAction(testCtx, testCtx.Operator.JWT, handover.ID, "accept",
		models.AcceptHandoverRequest{Notes: "Принято без замечаний"})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, models.HandoverCompleted, resp.Handover.Status)
	require.NotNil(t, resp.Handover.IncomingOperatorName)
	assert.Equal(t, "Петров", *resp.Handover.IncomingOperatorName)
	require.NotNil(t, resp.Handover.HandoverNotes)
	assert.Equal(t, "Принято без замечаний", *resp.Handover.HandoverNotes)
	assert.NotNil(t, resp.Handover.ReceivedAt)
	assert.Nil(t, resp.Handover.HandedOverAt)

	// Terminal: neither path can run again
	code, _, _ = handoverAction(testCtx, testCtx.TestUserJWT, handover.ID, "complete", nil)
	assert.Equal(t, http.StatusConflict, code)
	code, _, _ = handoverAction(testCtx, testCtx.Admin.JWT, handover.ID, "accept", nil)
	assert.Equal(t, http.StatusConflict, code)
}

func TestAcceptHandoverWithoutBody(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	handover := createHandover(t, testCtx, testCtx.TestUserJWT, "2024-03-01")

	code, resp, body := handoverAction(testCtx, testCtx.Operator.JWT, handover.ID, "accept", nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Nil(t, resp.Handover.HandoverNotes)
}

func TestCompleteHandover(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	handover := createHandover(t, testCtx, testCtx.TestUserJWT, "2024-03-01")

	code, _, _ := handoverAction(testCtx, testCtx.Operator.JWT, handover.ID, "complete", nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, resp, body := handoverAction(testCtx, testCtx.TestUserJWT, handover.ID, "complete", nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, models.HandoverCompleted, resp.Handover.Status)
	assert.NotNil(t, resp.Handover.HandedOverAt)
	assert.Nil(t, resp.Handover.IncomingOperatorID)

	code, _, _ = handoverAction(testCtx, testCtx.Operator.JWT, handover.ID, "accept", nil)
	assert.Equal(t, http.StatusConflict, code)
}

func TestCancelHandover(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	handover := createHandover(t, testCtx, testCtx.TestUserJWT, "2024-03-01")

	code, _, _ := handoverAction(testCtx, testCtx.Operator.JWT, handover.ID, "cancel", nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, resp, body := handoverAction(testCtx, testCtx.TestUserJWT, handover.ID, "cancel", nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, models.HandoverCancelled, resp.Handover.Status)

	code, _, _ = handoverAction(testCtx, testCtx.Operator.JWT, handover.ID, "accept", nil)
	assert.Equal(t, http.StatusConflict, code)

	code, _, _ = handoverAction(testCtx, testCtx.TestUserJWT, "missing", "cancel", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestListHandovers(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	first := createHandover(t, testCtx, testCtx.TestUserJWT, "2024-03-01")
	second := createHandover(t, testCtx, testCtx.Operator.JWT, "2024-03-05")

	list := func(query string) models.HandoversResponse {
		w := testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/handovers"+query, nil,
			testutils.AuthHeaders(testCtx.TestUserJWT))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp models.HandoversResponse
		testutils.DecodeJSON(t, w, &resp)
		return resp
	}

	all := list("")
	require.Equal(t, 2, all.Total)
	assert.Equal(t, second.ID, all.Handovers[0].ID)
	assert.Equal(t, first.ID, all.Handovers[1].ID)

	ranged := list("?dateFrom=2024-03-01&dateTo=2024-03-01")
	require.Equal(t, 1, ranged.Total)
	assert.Equal(t, first.ID, ranged.Handovers[0].ID)

	byOperator := list("?operator=%D0%BF%D0%B5%D1%82%D1%80")
	require.Equal(t, 1, byOperator.Total)
	assert.Equal(t, second.ID, byOperator.Handovers[0].ID)

	w := testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/handovers/"+first.ID, nil,
		testutils.AuthHeaders(testCtx.Operator.JWT))
	assert.Equal(t, http.StatusOK, w.Code)
}
