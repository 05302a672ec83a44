package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/rongwang/shiftlog-server/internal/apperr"
	"github.com/rongwang/shiftlog-server/internal/filter"
	"github.com/rongwang/shiftlog-server/internal/models"
	"github.com/rongwang/shiftlog-server/internal/report"
)

// ExportEntries renders the entries matching f as a downloadable report.
func (s *DefaultService) ExportEntries(
	ctx context.Context,
	caller models.Identity,
	f filter.EntryFilter,
	format report.Format,
	opts report.Options,
) (*report.Artifact, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if _, err := report.ParseFormat(string(format)); err != nil || format == "" {
		return nil, apperr.Validation("unsupported report format %q", format)
	}
	if opts.GroupBy != "" && !opts.GroupBy.Valid() {
		return nil, apperr.Validation("unsupported grouping %q", opts.GroupBy)
	}

	entries, err := s.ListEntries(ctx, f)
	if err != nil {
		return nil, err
	}

	var lines []report.FilterLine
	if opts.IncludeFilters {
		names, err := s.referenceNames(ctx)
		if err != nil {
			return nil, err
		}
		lines = report.DescribeFilter(f, names)
	}

	artifact, err := report.Render(format, report.Data{
		Entries:     entries,
		Filters:     lines,
		GeneratedAt: s.now(),
		GeneratedBy: caller.DisplayName,
	}, opts)
	if err != nil {
		s.logger.Error("error rendering report", zap.String("format", string(format)), zap.Error(err))
		return nil, apperr.Transport(err, "error rendering report")
	}

	s.logger.Info("report exported",
		zap.String("format", string(format)),
		zap.Int("entries", len(entries)),
		zap.String("requested_by", caller.ID),
	)
	return artifact, nil
}

// referenceNames resolves reference ids to display names for report headers.
func (s *DefaultService) referenceNames(ctx context.Context) (func(kind, id string) string, error) {
	names := map[string]map[string]string{
		"category":  {},
		"equipment": {},
		"location":  {},
	}

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, s.storeErr(err, "error listing categories")
	}
	for _, c := range categories {
		names["category"][c.ID] = c.Name
	}
	equipment, err := s.repo.ListEquipment(ctx)
	if err != nil {
		return nil, s.storeErr(err, "error listing equipment")
	}
	for _, e := range equipment {
		names["equipment"][e.ID] = e.Name
	}
	locations, err := s.repo.ListLocations(ctx)
	if err != nil {
		return nil, s.storeErr(err, "error listing locations")
	}
	for _, l := range locations {
		names["location"][l.ID] = l.Name
	}

	return func(kind, id string) string {
		return names[kind][id]
	}, nil
}
