package report

import (
	"fmt"
	"time"

	"github.com/rongwang/shiftlog-server/internal/models"
)

// Format is an export file format
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatText Format = "txt"
)

// DefaultTitle heads a report when none is given
const DefaultTitle = "Отчет по событиям оперативного журнала"

// Data is the filtered entry set and the context it was produced in
type Data struct {
	Entries     []models.JournalEntry
	Filters     []FilterLine
	GeneratedAt time.Time
	GeneratedBy string
}

// Options tune what a report contains
type Options struct {
	Title          string
	IncludeStats   bool
	IncludeFilters bool
	GroupBy        GroupBy
	Location       *time.Location
}

func (o Options) title() string {
	if o.Title == "" {
		return DefaultTitle
	}
	return o.Title
}

// Artifact is a rendered, downloadable report
type Artifact struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatXLSX, FormatCSV, FormatJSON, FormatText:
		return f, nil
	case "":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported report format %q", s)
	}
}

// Render serializes data in the requested format.
func Render(format Format, data Data, opts Options) (*Artifact, error) {
	if opts.GroupBy == "" {
		opts.GroupBy = GroupNone
	}
	if !opts.GroupBy.Valid() {
		return nil, fmt.Errorf("unsupported grouping %q", opts.GroupBy)
	}

	var (
		body        []byte
		contentType string
		err         error
	)
	switch format {
	case FormatXLSX:
		body, err = renderXLSX(data, opts)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatCSV:
		body, err = renderCSV(data, opts)
		contentType = "text/csv; charset=utf-8"
	case FormatJSON:
		body, err = renderJSON(data, opts)
		contentType = "application/json"
	case FormatText:
		body, err = renderText(data, opts)
		contentType = "text/plain; charset=utf-8"
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
	if err != nil {
		return nil, err
	}

	return &Artifact{
		Filename:    fmt.Sprintf("report_%s.%s", data.GeneratedAt.Format("2006-01-02"), format),
		ContentType: contentType,
		Body:        body,
	}, nil
}
