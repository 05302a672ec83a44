package filter

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rongwang/shiftlog-server/internal/models"
)

func TestParseEntryQuery(t *testing.T) {
	q := url.Values{}
	q.Set("status", "active")
	q.Set("priority", "high")
	q.Set("search", "ПС-12")
	q.Set("dateFrom", "2024-03-01")
	q.Set("dateTo", "2024-03-05")

	f, err := ParseEntryQuery(q)
	require.NoError(t, err)

	assert.Equal(t, models.EntryActive, f.Status)
	assert.Equal(t, models.PriorityHigh, f.Priority)
	assert.Equal(t, "ПС-12", f.SearchText)
	require.NotNil(t, f.DateFrom)
	require.NotNil(t, f.DateTo)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *f.DateFrom)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), *f.DateTo)
	assert.Empty(t, f.CategoryID)
}

func TestParseEntryQueryEmptyIsZero(t *testing.T) {
	f, err := ParseEntryQuery(url.Values{})
	require.NoError(t, err)
	assert.True(t, f.IsZero())
}

func TestParseEntryQueryRejectsBadDate(t *testing.T) {
	_, err := ParseEntryQuery(url.Values{"dateFrom": {"01.03.2024"}})
	assert.Error(t, err)

	_, err = ParseEntryQuery(url.Values{"tz": {"Nowhere/Invalid"}})
	assert.Error(t, err)
}

func TestHandoverQueryRoundTrip(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	in := HandoverFilter{
		Status:    models.HandoverPending,
		ShiftType: models.ShiftNight,
		Operator:  "Иванов",
		DateFrom:  &from,
	}

	out, err := ParseHandoverQuery(in.Query())
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
