package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rongwang/shiftlog-server/internal/models"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func sampleEntries() []models.JournalEntry {
	emergency := &models.Category{ID: "cat-em", Code: "emergency", Name: "Аварийные сообщения"}
	works := &models.Category{ID: "cat-eq", Code: "equipment_work", Name: "Работы на оборудовании"}
	return []models.JournalEntry{
		{
			ID: "e1", CategoryData: emergency, Title: "Авария на ПС-12", Description: "Короткое замыкание",
			Author: "Иванов", Status: models.EntryActive, Priority: models.PriorityCritical,
			Timestamp: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Equipment: &models.Equipment{ID: "eq-1", Name: "Трансформатор Т1"},
		},
		{
			ID: "e2", CategoryData: works, Title: "Замена автомата", Description: "Плановая замена",
			Author: "Петров", Status: models.EntryDraft, Priority: models.PriorityLow,
			Timestamp: time.Date(2024, 3, 1, 23, 59, 59, 999_000_000, time.UTC),
			Location:  &models.Location{ID: "loc-1", Name: "ПС-35 Северная"},
		},
		{
			ID: "e3", Category: "relay_protection", Title: "Проверка РЗА", Description: "Без замечаний",
			Author: "Сидоров", Status: models.EntryCancelled, Priority: models.PriorityMedium,
			Timestamp: time.Date(2024, 3, 2, 8, 30, 0, 0, time.UTC),
		},
	}
}

func ids(entries []models.JournalEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestEntriesEmptyFilterIsIdentity(t *testing.T) {
	in := sampleEntries()
	got := Entries(in, EntryFilter{})
	assert.Equal(t, in, got)
	assert.True(t, EntryFilter{}.IsZero())
}

func TestEntriesPredicates(t *testing.T) {
	tests := []struct {
		name string
		f    EntryFilter
		want []string
	}{
		{name: "category id", f: EntryFilter{CategoryID: "cat-eq"}, want: []string{"e2"}},
		{name: "legacy category code", f: EntryFilter{Category: "relay_protection"}, want: []string{"e3"}},
		{name: "status", f: EntryFilter{Status: models.EntryActive}, want: []string{"e1"}},
		{name: "priority", f: EntryFilter{Priority: models.PriorityMedium}, want: []string{"e3"}},
		{name: "equipment", f: EntryFilter{EquipmentID: "eq-1"}, want: []string{"e1"}},
		{name: "location", f: EntryFilter{LocationID: "loc-1"}, want: []string{"e2"}},
		{name: "search equipment name", f: EntryFilter{SearchText: "трансформатор"}, want: []string{"e1"}},
		{name: "search location name", f: EntryFilter{SearchText: "северная"}, want: []string{"e2"}},
		{name: "search author", f: EntryFilter{SearchText: "СИДОРОВ"}, want: []string{"e3"}},
		{name: "search category name", f: EntryFilter{SearchText: "аварийные"}, want: []string{"e1"}},
		{name: "conjunctive", f: EntryFilter{Status: models.EntryDraft, Priority: models.PriorityCritical}, want: []string{}},
		{
			name: "date range is inclusive of whole days",
			f: EntryFilter{
				DateFrom: timePtr(time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC)),
				DateTo:   timePtr(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)),
			},
			want: []string{"e1", "e2"},
		},
		{
			name: "date from only",
			f:    EntryFilter{DateFrom: timePtr(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))},
			want: []string{"e3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Entries(sampleEntries(), tt.f)))
		})
	}
}

func TestEntriesSearchIsCaseInsensitive(t *testing.T) {
	in := sampleEntries()
	upper := Entries(in, EntryFilter{SearchText: "ЗАМЕНА"})
	lower := Entries(in, EntryFilter{SearchText: "замена"})

	require.Len(t, upper, 1)
	assert.Equal(t, "e2", upper[0].ID)
	assert.Equal(t, upper, lower)
}

func TestEntriesInvertedRangeIsEmpty(t *testing.T) {
	f := EntryFilter{
		DateFrom: timePtr(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)),
		DateTo:   timePtr(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
	}
	assert.Empty(t, Entries(sampleEntries(), f))
}

func TestEntriesDoesNotMutateInput(t *testing.T) {
	in := sampleEntries()
	_ = Entries(in, EntryFilter{Status: models.EntryActive})
	assert.Equal(t, sampleEntries(), in)
}

func sampleHandovers() []models.ShiftHandover {
	return []models.ShiftHandover{
		{
			ID: "h1", ShiftDate: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), ShiftType: models.ShiftNight,
			OutgoingOperatorName: "Иванов", Status: models.HandoverPending,
		},
		{
			ID: "h2", ShiftDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), ShiftType: models.ShiftDay,
			OutgoingOperatorName: "Петров", IncomingOperatorName: strPtr("Сидорова"), Status: models.HandoverCompleted,
		},
		{
			ID: "h3", ShiftDate: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), ShiftType: models.ShiftDay,
			OutgoingOperatorName: "Сидорова", Status: models.HandoverCancelled,
		},
	}
}

func handoverIDs(hs []models.ShiftHandover) []string {
	out := make([]string, 0, len(hs))
	for _, h := range hs {
		out = append(out, h.ID)
	}
	return out
}

func TestHandovers(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*60*60)
	newYork := time.FixedZone("EST", -5*60*60)

	tests := []struct {
		name string
		f    HandoverFilter
		want []string
	}{
		{name: "empty", f: HandoverFilter{}, want: []string{"h1", "h2", "h3"}},
		{name: "status", f: HandoverFilter{Status: models.HandoverPending}, want: []string{"h1"}},
		{name: "shift type", f: HandoverFilter{ShiftType: models.ShiftDay}, want: []string{"h2", "h3"}},
		{name: "operator matches either side", f: HandoverFilter{Operator: "сидорова"}, want: []string{"h2", "h3"}},
		{name: "operator outgoing only", f: HandoverFilter{Operator: "ИВАН"}, want: []string{"h1"}},
		{
			name: "single day",
			f: HandoverFilter{
				DateFrom: timePtr(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)),
				DateTo:   timePtr(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)),
			},
			want: []string{"h2"},
		},
		{
			name: "bounds in an eastern zone",
			f: HandoverFilter{
				DateFrom: timePtr(time.Date(2024, 3, 1, 0, 0, 0, 0, moscow)),
				DateTo:   timePtr(time.Date(2024, 3, 1, 0, 0, 0, 0, moscow)),
			},
			want: []string{"h2"},
		},
		{
			name: "bounds in a western zone",
			f: HandoverFilter{
				DateFrom: timePtr(time.Date(2024, 3, 1, 0, 0, 0, 0, newYork)),
				DateTo:   timePtr(time.Date(2024, 3, 1, 0, 0, 0, 0, newYork)),
			},
			want: []string{"h2"},
		},
		{
			name: "inverted range",
			f: HandoverFilter{
				DateFrom: timePtr(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)),
				DateTo:   timePtr(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)),
			},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, handoverIDs(Handovers(sampleHandovers(), tt.f)))
		})
	}
}

func TestDayBoundaries(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	mid := time.Date(2024, 3, 1, 13, 45, 10, 5, loc)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, loc), StartOfDay(mid))
	assert.Equal(t, time.Date(2024, 3, 1, 23, 59, 59, 999_000_000, loc), EndOfDay(mid))
}
