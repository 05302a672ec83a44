package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rongwang/shiftlog-server/internal/api/testutils"
	"github.com/rongwang/shiftlog-server/internal/apperr"
	"github.com/rongwang/shiftlog-server/internal/client"
	"github.com/rongwang/shiftlog-server/internal/filter"
	"github.com/rongwang/shiftlog-server/internal/models"
)

func setup(t *testing.T) (*testutils.TestContext, *httptest.Server) {
	testCtx := testutils.SetupTestContext(t)
	srv := httptest.NewServer(testCtx.Router)
	t.Cleanup(func() {
		srv.Close()
		testutils.CleanupTestContext(testCtx)
	})
	return testCtx, srv
}

func loggedIn(t *testing.T, srv *httptest.Server, email string) *client.Client {
	c := client.New(srv.URL, nil)
	_, err := c.Login(context.Background(), email, "testpassword")
	require.NoError(t, err)
	return c
}

func TestClientAuth(t *testing.T) {
	_, srv := setup(t)
	ctx := context.Background()
	c := client.New(srv.URL, nil)

	_, err := c.Me(ctx)
	assert.True(t, errors.Is(err, apperr.ErrUnauthenticated))

	_, err = c.Login(ctx, "testuser@example.com", "wrong")
	assert.True(t, errors.Is(err, apperr.ErrUnauthenticated))

	auth, err := c.Login(ctx, "testuser@example.com", "testpassword")
	require.NoError(t, err)
	assert.NotEmpty(t, auth.Token)

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Иванов", me.DisplayName)

	_, err = c.SignUp(ctx, models.SignUpRequest{Email: "testuser@example.com", Password: "password123", Name: "Дубль"})
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := client.New(url, nil)
	_, err := c.ListCategories(context.Background(), false)
	require.Error(t, err)
	assert.Equal(t, apperr.KindTransport, apperr.KindOf(err))
}

func TestClientErrorKinds(t *testing.T) {
	_, srv := setup(t)
	ctx := context.Background()
	c := loggedIn(t, srv, "testuser@example.com")

	_, err := c.CreateEntry(ctx, models.CreateEntryRequest{CategoryID: "other", Title: " "})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = c.CancelEntry(ctx, "missing", models.CancelEntryRequest{Reason: "x"})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = c.ListEntries(ctx, filter.EntryFilter{Status: "archived"})
	require.NoError(t, err, "unknown status values simply match nothing")
}

func TestJournal(t *testing.T) {
	testCtx, srv := setup(t)
	ctx := context.Background()
	ivanov := loggedIn(t, srv, "testuser@example.com")
	petrov := loggedIn(t, srv, "operator@example.com")

	_, err := petrov.CreateEntry(ctx, models.CreateEntryRequest{
		CategoryID: "other", Title: "Обход", Description: "Плановый обход",
		Priority: models.PriorityLow, Status: models.EntryActive,
	})
	require.NoError(t, err)

	journal := client.NewJournal(ivanov)
	require.NoError(t, journal.Load(ctx))
	require.Equal(t, 1, journal.Len())

	created, err := journal.Create(ctx, models.CreateEntryRequest{
		CategoryID: testCtx.CategoryIDs["emergency"], Title: "Авария на ПС-12", Description: "КЗ",
		Priority: models.PriorityCritical, Status: models.EntryDraft,
	})
	require.NoError(t, err)

	all := journal.View(filter.EntryFilter{})
	require.Len(t, all, 2)
	assert.Equal(t, created.ID, all[0].ID, "new records are prepended")

	activated, err := journal.Activate(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EntryActive, activated.Status)

	all = journal.View(filter.EntryFilter{})
	require.Len(t, all, 2, "changed records are replaced, not duplicated")
	assert.Equal(t, models.EntryActive, all[0].Status)

	// A rejected mutation leaves the collection untouched
	before := journal.View(filter.EntryFilter{})
	_, err = journal.Cancel(ctx, all[1].ID, models.CancelEntryRequest{Reason: "не моя"})
	assert.True(t, errors.Is(err, apperr.ErrAuthorization))
	assert.Equal(t, before, journal.View(filter.EntryFilter{}))

	_, err = journal.Cancel(ctx, created.ID, models.CancelEntryRequest{Reason: "Ложное срабатывание"})
	require.NoError(t, err)

	cancelled := journal.View(filter.EntryFilter{Status: models.EntryCancelled})
	require.Len(t, cancelled, 1)
	assert.Equal(t, created.ID, cancelled[0].ID)
	assert.Len(t, journal.View(filter.EntryFilter{SearchText: "ОБХОД"}), 1)
}

func TestHandovers(t *testing.T) {
	_, srv := setup(t)
	ctx := context.Background()
	ivanov := loggedIn(t, srv, "testuser@example.com")
	petrov := loggedIn(t, srv, "operator@example.com")

	outgoing := client.NewHandovers(ivanov)
	require.NoError(t, outgoing.Load(ctx))
	assert.Equal(t, 0, outgoing.Len())

	created, err := outgoing.Create(ctx, models.CreateHandoverRequest{
		ShiftDate: "2024-03-01", ShiftType: models.ShiftNight, Incidents: "Без происшествий",
	})
	require.NoError(t, err)
	assert.Equal(t, models.HandoverPending, created.Status)

	_, err = outgoing.Accept(ctx, created.ID, models.AcceptHandoverRequest{})
	assert.True(t, errors.Is(err, apperr.ErrAuthorization))

	incoming := client.NewHandovers(petrov)
	require.NoError(t, incoming.Load(ctx))
	accepted, err := incoming.Accept(ctx, created.ID, models.AcceptHandoverRequest{Notes: "Принял"})
	require.NoError(t, err)
	assert.Equal(t, models.HandoverCompleted, accepted.Status)

	completed := incoming.View(filter.HandoverFilter{Status: models.HandoverCompleted})
	require.Len(t, completed, 1)
	assert.Equal(t, incoming.Len(), 1)

	_, err = outgoing.Cancel(ctx, created.ID)
	assert.True(t, errors.Is(err, apperr.ErrState))
	pending := outgoing.View(filter.HandoverFilter{Status: models.HandoverPending})
	assert.Len(t, pending, 1, "local copy keeps the last known state after a failed call")

	second, err := outgoing.Create(ctx, models.CreateHandoverRequest{ShiftDate: "2024-03-02", ShiftType: models.ShiftDay})
	require.NoError(t, err)
	done, err := outgoing.Complete(ctx, second.ID)
	require.NoError(t, err)
	assert.NotNil(t, done.HandedOverAt)
}

func TestDownloadReport(t *testing.T) {
	_, srv := setup(t)
	ctx := context.Background()
	c := loggedIn(t, srv, "testuser@example.com")

	_, err := c.CreateEntry(ctx, models.CreateEntryRequest{
		CategoryID: "emergency", Title: "Авария", Description: "КЗ",
		Priority: models.PriorityHigh, Status: models.EntryActive,
	})
	require.NoError(t, err)

	rep, err := c.DownloadReport(ctx, client.ReportRequest{Format: "csv", IncludeStats: true, IncludeFilters: true})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rep.Filename, "report_"))
	assert.True(t, strings.HasSuffix(rep.Filename, ".csv"))
	assert.Contains(t, string(rep.Body), "Авария")

	_, err = c.DownloadReport(ctx, client.ReportRequest{Format: "pdf"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
