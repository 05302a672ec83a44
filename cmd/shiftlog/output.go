package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/rongwang/shiftlog-server/internal/apperr"
	"github.com/rongwang/shiftlog-server/internal/models"
	"github.com/rongwang/shiftlog-server/internal/report"
)

func highlight(s string) string {
	return color.New(color.Bold).Sprint(s)
}

func dim(s string) string {
	return color.New(color.FgHiBlack).Sprint(s)
}

// errorText prefixes err with its kind so that "not found" and "invalid
// state" read differently at the terminal.
func errorText(err error) string {
	label := color.New(color.FgRed, color.Bold).Sprint("error")
	var e *apperr.Error
	if errors.As(err, &e) {
		return fmt.Sprintf("%s [%s]: %s", label, e.Kind, apperr.MessageOf(err))
	}
	return fmt.Sprintf("%s: %v", label, err)
}

func entryStatus(s models.EntryStatus) string {
	label := report.StatusLabel(s)
	switch s {
	case models.EntryDraft:
		return color.New(color.FgYellow).Sprint(label)
	case models.EntryActive:
		return color.New(color.FgHiGreen).Sprint(label)
	case models.EntryCancelled:
		return color.New(color.FgHiBlack).Sprint(label)
	default:
		return label
	}
}

func priority(p models.Priority) string {
	label := report.PriorityLabel(p)
	switch p {
	case models.PriorityCritical:
		return color.New(color.FgRed, color.Bold).Sprint(label)
	case models.PriorityHigh:
		return color.New(color.FgRed).Sprint(label)
	case models.PriorityMedium:
		return color.New(color.FgYellow).Sprint(label)
	default:
		return color.New(color.FgWhite).Sprint(label)
	}
}

func handoverStatus(s models.HandoverStatus) string {
	switch s {
	case models.HandoverPending:
		return color.New(color.FgYellow).Sprint(string(s))
	case models.HandoverCompleted:
		return color.New(color.FgHiGreen).Sprint(string(s))
	default:
		return color.New(color.FgHiBlack).Sprint(string(s))
	}
}

func printEntry(w io.Writer, e models.JournalEntry) {
	fmt.Fprintf(w, "%s  %s  %s  [%s] %s\n",
		dim(e.ID),
		report.FormatDateTime(e.Timestamp, time.Local),
		entryStatus(e.Status),
		priority(e.Priority),
		highlight(e.Title),
	)
	fmt.Fprintf(w, "    %s · %s\n", e.CategoryName(), e.Author)
	if e.Description != "" {
		fmt.Fprintf(w, "    %s\n", e.Description)
	}
	if e.Status == models.EntryCancelled && e.CancelReason != nil {
		by := ""
		if e.CancelledBy != nil {
			by = *e.CancelledBy
		}
		fmt.Fprintf(w, "    %s %s: %s\n", color.New(color.FgRed).Sprint("cancelled by"), by, *e.CancelReason)
	}
}

func printHandover(w io.Writer, h models.ShiftHandover) {
	fmt.Fprintf(w, "%s  %s %s  %s  %s",
		dim(h.ID),
		h.ShiftDate.Format("2006-01-02"),
		h.ShiftType,
		handoverStatus(h.Status),
		highlight(h.OutgoingOperatorName),
	)
	if h.IncomingOperatorName != nil {
		fmt.Fprintf(w, " → %s", highlight(*h.IncomingOperatorName))
	}
	fmt.Fprintln(w)
	for _, field := range []struct {
		label string
		value *string
	}{
		{"ongoing works", h.OngoingWorks},
		{"instructions", h.SpecialInstructions},
		{"incidents", h.Incidents},
		{"notes", h.HandoverNotes},
	} {
		if field.value != nil && *field.value != "" {
			fmt.Fprintf(w, "    %s: %s\n", field.label, *field.value)
		}
	}
}
