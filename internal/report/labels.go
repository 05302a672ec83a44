package report

import (
	"fmt"
	"time"

	"github.com/rongwang/shiftlog-server/internal/filter"
	"github.com/rongwang/shiftlog-server/internal/models"
)

var statusLabels = map[models.EntryStatus]string{
	models.EntryDraft:     "Черновик",
	models.EntryActive:    "Активная",
	models.EntryCancelled: "Отменена",
}

var priorityLabels = map[models.Priority]string{
	models.PriorityLow:      "Низкий",
	models.PriorityMedium:   "Средний",
	models.PriorityHigh:     "Высокий",
	models.PriorityCritical: "Критический",
}

// StatusLabel returns the display label of s, or s itself if unknown.
func StatusLabel(s models.EntryStatus) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// PriorityLabel returns the display label of p, or p itself if unknown.
func PriorityLabel(p models.Priority) string {
	if label, ok := priorityLabels[p]; ok {
		return label
	}
	return string(p)
}

func inLoc(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return t
	}
	return t.In(loc)
}

// FormatDateTime renders t as dd.mm.yyyy hh:mm.
func FormatDateTime(t time.Time, loc *time.Location) string {
	return inLoc(t, loc).Format("02.01.2006 15:04")
}

// FormatDate renders t as dd.mm.yyyy.
func FormatDate(t time.Time, loc *time.Location) string {
	return inLoc(t, loc).Format("02.01.2006")
}

// FilterLine is one applied filter as shown in a report header
type FilterLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// DescribeFilter lists the constraints f applies, in a fixed order.
// Reference ids are shown as given; names resolves them when non-nil.
func DescribeFilter(f filter.EntryFilter, names func(kind, id string) string) []FilterLine {
	resolve := func(kind, id string) string {
		if names != nil {
			if name := names(kind, id); name != "" {
				return name
			}
		}
		return id
	}

	var lines []FilterLine
	add := func(label, value string) {
		if value != "" {
			lines = append(lines, FilterLine{Label: label, Value: value})
		}
	}

	add("Поиск", f.SearchText)
	if f.CategoryID != "" {
		add("Категория", resolve("category", f.CategoryID))
	}
	add("Код категории", f.Category)
	if f.Status != "" {
		add("Статус", StatusLabel(f.Status))
	}
	if f.Priority != "" {
		add("Приоритет", PriorityLabel(f.Priority))
	}
	if f.EquipmentID != "" {
		add("Оборудование", resolve("equipment", f.EquipmentID))
	}
	if f.LocationID != "" {
		add("Местоположение", resolve("location", f.LocationID))
	}
	if f.DateFrom != nil {
		add("Дата от", f.DateFrom.Format("02.01.2006"))
	}
	if f.DateTo != nil {
		add("Дата до", f.DateTo.Format("02.01.2006"))
	}
	return lines
}

func (l FilterLine) String() string {
	return fmt.Sprintf("%s: %s", l.Label, l.Value)
}
