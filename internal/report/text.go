package report

import (
	"bytes"
	"fmt"
	"strings"
)

// renderText produces the printable document form of a report: title,
// provenance, applied filters, statistics, then entries by group.
func renderText(data Data, opts Options) ([]byte, error) {
	var b bytes.Buffer
	title := opts.title()

	fmt.Fprintln(&b, title)
	fmt.Fprintln(&b, strings.Repeat("=", len([]rune(title))))
	fmt.Fprintf(&b, "Сформирован: %s\n", FormatDateTime(data.GeneratedAt, opts.Location))
	fmt.Fprintf(&b, "Автор: %s\n\n", data.GeneratedBy)

	if opts.IncludeFilters && len(data.Filters) > 0 {
		fmt.Fprintln(&b, "Примененные фильтры:")
		for _, line := range data.Filters {
			fmt.Fprintf(&b, "  • %s\n", line)
		}
		fmt.Fprintln(&b)
	}

	if opts.IncludeStats {
		stats := ComputeStats(data.Entries)
		fmt.Fprintln(&b, "Статистика:")
		fmt.Fprintf(&b, "  Всего записей: %d\n", stats.Total)
		for _, section := range [][]Count{stats.ByStatus, stats.ByPriority, stats.ByCategory} {
			for _, c := range section {
				fmt.Fprintf(&b, "  %s: %d\n", c.Label, c.Count)
			}
		}
		fmt.Fprintln(&b)
	}

	for _, g := range Assemble(data.Entries, opts.GroupBy, opts.Location) {
		fmt.Fprintf(&b, "%s (%d)\n", g.Key, len(g.Entries))
		fmt.Fprintln(&b, strings.Repeat("-", len([]rune(g.Key))+4))
		for _, r := range Rows(g.Entries, opts.Location) {
			fmt.Fprintf(&b, "[%s] %s | %s | %s | %s\n", r.DateTime, r.Category, r.Status, r.Priority, r.Author)
			fmt.Fprintf(&b, "  %s\n", r.Title)
			fmt.Fprintf(&b, "  %s\n", r.Description)
			if r.Equipment != "" || r.Location != "" {
				fmt.Fprintf(&b, "  Оборудование: %s; Местоположение: %s\n", r.Equipment, r.Location)
			}
			if r.CancelledAt != "" {
				fmt.Fprintf(&b, "  Отменена %s (%s): %s\n", r.CancelledAt, r.CancelledBy, r.CancelReason)
			}
		}
		fmt.Fprintln(&b)
	}

	return b.Bytes(), nil
}
