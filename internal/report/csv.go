package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// utf8BOM lets spreadsheet applications detect the encoding of the file
const utf8BOM = "\ufeff"

var csvHeader = []string{
	"Дата/Время",
	"Категория",
	"Заголовок",
	"Описание",
	"Статус",
	"Приоритет",
	"Автор",
	"Оборудование",
	"Местоположение",
}

func renderCSV(data Data, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range Rows(data.Entries, opts.Location) {
		record := []string{
			r.DateTime, r.Category, r.Title, r.Description, r.Status,
			r.Priority, r.Author, r.Equipment, r.Location,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
