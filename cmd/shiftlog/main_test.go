package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rongwang/shiftlog-server/internal/api/testutils"
)

func startServer(t *testing.T) string {
	_, url := startTestServer(t)
	return url
}

func startTestServer(t *testing.T) (*testutils.TestContext, string) {
	color.NoColor = true
	t.Setenv("HOME", t.TempDir())
	testCtx := testutils.SetupTestContext(t)
	srv := httptest.NewServer(testCtx.Router)
	t.Cleanup(func() {
		srv.Close()
		testutils.CleanupTestContext(testCtx)
	})
	return testCtx, srv.URL
}

// useLocalZone sets the process time zone for the duration of the test.
func useLocalZone(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	saved := time.Local
	time.Local = loc
	t.Cleanup(func() { time.Local = saved })
	return loc
}

func run(t *testing.T, server string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--server", server}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

var uuidPattern = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

func TestLoginStoresToken(t *testing.T) {
	server := startServer(t)

	_, err := run(t, server, "whoami")
	assert.ErrorIs(t, err, errNotLoggedIn)

	out, err := run(t, server, "login", "--email", "testuser@example.com", "--password", "testpassword")
	require.NoError(t, err)
	assert.Contains(t, out, "Иванов")

	path, err := tokenPath()
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	out, err = run(t, server, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Иванов (operator)")

	_, err = run(t, server, "logout")
	require.NoError(t, err)
	_, err = run(t, server, "whoami")
	assert.ErrorIs(t, err, errNotLoggedIn)
}

func TestEntriesCommands(t *testing.T) {
	server := startServer(t)
	_, err := run(t, server, "login", "--email", "testuser@example.com", "--password", "testpassword")
	require.NoError(t, err)

	out, err := run(t, server, "entries", "add",
		"--category", "emergency", "--title", "Авария на ПС-12",
		"--description", "КЗ на шинах", "--priority", "critical", "--status", "draft")
	require.NoError(t, err)
	id := uuidPattern.FindString(out)
	require.NotEmpty(t, id, out)

	_, err = run(t, server, "entries", "add", "--category", "other", "--title", "Обход", "--description", "Плановый обход")
	require.NoError(t, err)

	out, err = run(t, server, "entries", "list", "--category", "emergency")
	require.NoError(t, err)
	assert.Contains(t, out, "Авария на ПС-12")
	assert.NotContains(t, out, "Обход")
	assert.Contains(t, out, "1 of 2 entries")

	_, err = run(t, server, "entries", "activate", id)
	require.NoError(t, err)

	out, err = run(t, server, "entries", "cancel", id, "--reason", "Ложное срабатывание")
	require.NoError(t, err)
	assert.Contains(t, out, "Ложное срабатывание")

	_, err = run(t, server, "entries", "cancel", id, "--reason", "again")
	require.Error(t, err)
	assert.Contains(t, errorText(err), "INVALID_STATE")

	_, err = run(t, server, "entries", "list", "--from", "March 1")
	assert.Error(t, err)
}

func TestHandoverCommands(t *testing.T) {
	server := startServer(t)
	_, err := run(t, server, "login", "--email", "testuser@example.com", "--password", "testpassword")
	require.NoError(t, err)

	out, err := run(t, server, "handovers", "create", "--date", "2024-03-01", "--shift", "night", "--ongoing", "Ремонт ВЛ-10")
	require.NoError(t, err)
	id := uuidPattern.FindString(out)
	require.NotEmpty(t, id, out)

	_, err = run(t, server, "handovers", "accept", id)
	assert.Contains(t, errorText(err), "FORBIDDEN")

	_, err = run(t, server, "login", "--email", "operator@example.com", "--password", "testpassword")
	require.NoError(t, err)
	out, err = run(t, server, "handovers", "accept", id, "--notes", "Принял")
	require.NoError(t, err)
	assert.Contains(t, out, "Петров")

	out, err = run(t, server, "handovers", "list", "--status", "completed")
	require.NoError(t, err)
	assert.Contains(t, out, "1 of 1 handovers")
}

func TestCategoriesAndReport(t *testing.T) {
	server := startServer(t)
	_, err := run(t, server, "login", "--email", "testuser@example.com", "--password", "testpassword")
	require.NoError(t, err)

	out, err := run(t, server, "categories", "list")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "equipment_work"), strings.Index(out, "other"))

	_, err = run(t, server, "entries", "add", "--category", "emergency", "--title", "Авария", "--description", "КЗ")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "report.csv")
	out, err = run(t, server, "report", "--format", "csv", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Report saved")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Авария")

	_, err = run(t, server, "report", "--format", "odt", "--out", path)
	assert.Contains(t, errorText(err), "VALIDATION_ERROR")
}

func TestDatesFollowLocalZone(t *testing.T) {
	moscow := useLocalZone(t, "Europe/Moscow")
	testCtx, server := startTestServer(t)
	_, err := run(t, server, "login", "--email", "testuser@example.com", "--password", "testpassword")
	require.NoError(t, err)

	var now time.Time
	testCtx.Repository.SetClock(func() time.Time { return now })

	now = time.Date(2024, 3, 1, 0, 30, 0, 0, moscow)
	_, err = run(t, server, "entries", "add", "--category", "other", "--title", "Ранний обход", "--description", "00:30")
	require.NoError(t, err)
	now = time.Date(2024, 3, 2, 1, 30, 0, 0, moscow)
	_, err = run(t, server, "entries", "add", "--category", "other", "--title", "Поздний обход", "--description", "01:30")
	require.NoError(t, err)

	out, err := run(t, server, "entries", "list", "--from", "2024-03-01", "--to", "2024-03-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Ранний обход")
	assert.NotContains(t, out, "Поздний обход")

	out, err = run(t, server, "entries", "list", "--from", "2024-03-01", "--to", "2024-03-01", "--tz", "UTC")
	require.NoError(t, err)
	assert.NotContains(t, out, "Ранний обход")
	assert.Contains(t, out, "Поздний обход")

	path := filepath.Join(t.TempDir(), "report.csv")
	_, err = run(t, server, "report", "--format", "csv", "--out", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "01.03.2024 00:30")
	assert.Contains(t, string(data), "02.03.2024 01:30")
}
