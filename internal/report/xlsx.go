package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// mainHeader is the column set of the entries sheet
var mainHeader = []string{
	"Дата/Время",
	"Категория",
	"Заголовок",
	"Описание",
	"Статус",
	"Приоритет",
	"Автор",
	"Оборудование",
	"Местоположение",
	"Дата отмены",
	"Отменил",
	"Причина отмены",
}

var mainColumnWidths = []float64{18, 26, 36, 60, 12, 14, 22, 24, 24, 18, 22, 36}

// groupHeader is the narrower column set of per-group sheets
var groupHeader = []string{"Дата/Время", "Заголовок", "Описание", "Статус", "Приоритет", "Автор"}

const (
	entriesSheet = "Записи"
	statsSheet   = "Статистика"
	// maxSheetName is the spreadsheet limit on sheet name length, in characters
	maxSheetName = 31
)

func mainValues(r Row) []interface{} {
	return []interface{}{
		r.DateTime, r.Category, r.Title, r.Description, r.Status, r.Priority,
		r.Author, r.Equipment, r.Location, r.CancelledAt, r.CancelledBy, r.CancelReason,
	}
}

func groupValues(r Row) []interface{} {
	return []interface{}{r.DateTime, r.Title, r.Description, r.Status, r.Priority, r.Author}
}

// sheetName truncates name to the spreadsheet limit and makes it unique
// among used. Characters that sheet names may not contain are replaced, as
// is an apostrophe at either end.
func sheetName(name string, used map[string]bool) string {
	replacer := []rune{':', '\\', '/', '?', '*', '[', ']'}
	runes := []rune(name)
	for i, r := range runes {
		for _, bad := range replacer {
			if r == bad {
				runes[i] = '_'
			}
		}
	}
	if len(runes) > maxSheetName {
		runes = runes[:maxSheetName]
	}
	// a sheet name may not start or end with an apostrophe
	if len(runes) > 0 && runes[0] == '\'' {
		runes[0] = '_'
	}
	if n := len(runes); n > 0 && runes[n-1] == '\'' {
		runes[n-1] = '_'
	}
	if len(runes) == 0 {
		runes = []rune("_")
	}
	candidate := string(runes)
	for n := 2; used[candidate]; n++ {
		suffix := []rune(fmt.Sprintf(" (%d)", n))
		base := runes
		if len(base)+len(suffix) > maxSheetName {
			base = base[:maxSheetName-len(suffix)]
		}
		candidate = string(base) + string(suffix)
	}
	used[candidate] = true
	return candidate
}

type sheetWriter struct {
	f           *excelize.File
	headerStyle int
}

func (w *sheetWriter) writeTable(sheet string, header []string, widths []float64, rows [][]interface{}) error {
	for col, title := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := w.f.SetCellValue(sheet, cell, title); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := w.f.SetCellStyle(sheet, cell, cell, w.headerStyle); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := w.f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, values := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := w.f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	return nil
}

func renderXLSX(data Data, opts Options) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(entriesSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	index, err := f.GetSheetIndex(entriesSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to locate sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	w := &sheetWriter{f: f, headerStyle: headerStyle}
	used := map[string]bool{entriesSheet: true}

	rows := Rows(data.Entries, opts.Location)
	mainRows := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		mainRows = append(mainRows, mainValues(r))
	}
	if err := w.writeTable(entriesSheet, mainHeader, mainColumnWidths, mainRows); err != nil {
		return nil, err
	}

	if opts.IncludeStats {
		used[statsSheet] = true
		if _, err := f.NewSheet(statsSheet); err != nil {
			return nil, fmt.Errorf("failed to create sheet: %w", err)
		}
		stats := ComputeStats(data.Entries)
		statRows := [][]interface{}{{"Всего записей", stats.Total}}
		for _, c := range stats.ByStatus {
			statRows = append(statRows, []interface{}{"Статус: " + c.Label, c.Count})
		}
		for _, c := range stats.ByPriority {
			statRows = append(statRows, []interface{}{"Приоритет: " + c.Label, c.Count})
		}
		for _, c := range stats.ByCategory {
			statRows = append(statRows, []interface{}{"Категория: " + c.Label, c.Count})
		}
		if err := w.writeTable(statsSheet, []string{"Показатель", "Значение"}, []float64{40, 12}, statRows); err != nil {
			return nil, err
		}
	}

	if opts.GroupBy != GroupNone {
		for _, g := range Assemble(data.Entries, opts.GroupBy, opts.Location) {
			name := sheetName(g.Key, used)
			if _, err := f.NewSheet(name); err != nil {
				return nil, fmt.Errorf("failed to create sheet %q: %w", name, err)
			}
			groupRows := make([][]interface{}, 0, len(g.Entries))
			for _, r := range Rows(g.Entries, opts.Location) {
				groupRows = append(groupRows, groupValues(r))
			}
			if err := w.writeTable(name, groupHeader, []float64{18, 36, 60, 12, 14, 22}, groupRows); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
