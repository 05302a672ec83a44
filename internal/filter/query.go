package filter

import (
	"fmt"
	"net/url"
	"time"

	"github.com/rongwang/shiftlog-server/internal/models"
)

// DateLayout is the query-string format of dateFrom / dateTo
const DateLayout = "2006-01-02"

// Location resolves the tz query parameter, defaulting to UTC.
func Location(q url.Values) (*time.Location, error) {
	name := q.Get("tz")
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown time zone %q", name)
	}
	return loc, nil
}

func parseDate(q url.Values, key string, loc *time.Location) (*time.Time, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, raw, loc)
	if err != nil {
		return nil, fmt.Errorf("%s must be YYYY-MM-DD, got %q", key, raw)
	}
	return &t, nil
}

// ParseEntryQuery reads an EntryFilter from query parameters. Absent
// parameters leave the corresponding field unconstrained.
func ParseEntryQuery(q url.Values) (EntryFilter, error) {
	loc, err := Location(q)
	if err != nil {
		return EntryFilter{}, err
	}
	f := EntryFilter{
		CategoryID:  q.Get("categoryId"),
		Category:    q.Get("category"),
		Status:      models.EntryStatus(q.Get("status")),
		Priority:    models.Priority(q.Get("priority")),
		EquipmentID: q.Get("equipmentId"),
		LocationID:  q.Get("locationId"),
		SearchText:  q.Get("search"),
	}
	if f.DateFrom, err = parseDate(q, "dateFrom", loc); err != nil {
		return EntryFilter{}, err
	}
	if f.DateTo, err = parseDate(q, "dateTo", loc); err != nil {
		return EntryFilter{}, err
	}
	return f, nil
}

// ParseHandoverQuery reads a HandoverFilter from query parameters.
func ParseHandoverQuery(q url.Values) (HandoverFilter, error) {
	loc, err := Location(q)
	if err != nil {
		return HandoverFilter{}, err
	}
	f := HandoverFilter{
		Status:    models.HandoverStatus(q.Get("status")),
		ShiftType: models.ShiftType(q.Get("shiftType")),
		Operator:  q.Get("operator"),
	}
	if f.DateFrom, err = parseDate(q, "dateFrom", loc); err != nil {
		return HandoverFilter{}, err
	}
	if f.DateTo, err = parseDate(q, "dateTo", loc); err != nil {
		return HandoverFilter{}, err
	}
	return f, nil
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func setDate(q url.Values, key string, t *time.Time) {
	if t != nil {
		q.Set(key, t.Format(DateLayout))
		setIf(q, "tz", zoneName(t.Location()))
	}
}

func zoneName(loc *time.Location) string {
	if loc == nil || loc == time.UTC || loc.String() == "Local" {
		return ""
	}
	return loc.String()
}

// Query encodes f as query parameters understood by ParseEntryQuery.
func (f EntryFilter) Query() url.Values {
	q := url.Values{}
	setIf(q, "categoryId", f.CategoryID)
	setIf(q, "category", f.Category)
	setIf(q, "status", string(f.Status))
	setIf(q, "priority", string(f.Priority))
	setIf(q, "equipmentId", f.EquipmentID)
	setIf(q, "locationId", f.LocationID)
	setIf(q, "search", f.SearchText)
	setDate(q, "dateFrom", f.DateFrom)
	setDate(q, "dateTo", f.DateTo)
	return q
}

// Query encodes f as query parameters understood by ParseHandoverQuery.
func (f HandoverFilter) Query() url.Values {
	q := url.Values{}
	setIf(q, "status", string(f.Status))
	setIf(q, "shiftType", string(f.ShiftType))
	setIf(q, "operator", f.Operator)
	setDate(q, "dateFrom", f.DateFrom)
	setDate(q, "dateTo", f.DateTo)
	return q
}
