// Package report exports the leave database to an Excel workbook.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/myslide/leavebot/internal/store"
)

const (
	fullDaySheet    = "Full-day leaves"
	hourlySheet     = "Hourly permissions"
	suggestionSheet = "Suggestions"
)

// Write builds a workbook with one sheet per collection and saves it to
// path.
func Write(ctx context.Context, s *store.Store, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeFullDay(ctx, s, f); err != nil {
		return err
	}
	if err := writeHourly(ctx, s, f); err != nil {
		return err
	}
	if err := writeSuggestions(ctx, s, f); err != nil {
		return err
	}

	// The default sheet is replaced by the first real one.
	f.SetSheetName("Sheet1", fullDaySheet)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeFullDay(ctx context.Context, s *store.Store, f *excelize.File) error {
	leaves, err := s.ListFullDay(ctx, "")
	if err != nil {
		return fmt.Errorf("load full-day leaves: %w", err)
	}

	rows := [][]any{{"Employee", "Dates", "Reason", "Status", "Rejection reason", "Decided by", "Created"}}
	for _, l := range leaves {
		rows = append(rows, []any{
			l.EmployeeName, l.DateDescriptor, l.Reason, string(l.Status),
			l.RejectionReason, l.DecidedBy, l.CreatedAt.Format(time.RFC3339),
		})
	}
	return writeSheet(f, "Sheet1", rows)
}

func writeHourly(ctx context.Context, s *store.Store, f *excelize.File) error {
	leaves, err := s.ListHourly(ctx, "")
	if err != nil {
		return fmt.Errorf("load hourly leaves: %w", err)
	}

	rows := [][]any{{"Employee", "Date", "Time", "Type", "Reason", "Status", "Rejection reason", "Decided by"}}
	for _, l := range leaves {
		kind := "Late arrival"
		if l.Subtype == store.SubtypeEarly {
			kind = "Early departure"
		}
		rows = append(rows, []any{
			l.EmployeeName, l.Date.Format("02/01/2006"), l.TimeDescriptor, kind,
			l.Reason, string(l.Status), l.RejectionReason, l.DecidedBy,
		})
	}
	if _, err := f.NewSheet(hourlySheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	return writeSheet(f, hourlySheet, rows)
}

func writeSuggestions(ctx context.Context, s *store.Store, f *excelize.File) error {
	suggestions, err := s.ListSuggestions(ctx)
	if err != nil {
		return fmt.Errorf("load suggestions: %w", err)
	}

	rows := [][]any{{"Sender", "Suggestion", "Submitted"}}
	for _, sg := range suggestions {
		rows = append(rows, []any{sg.Sender, sg.Message, sg.SubmittedAt.Format(time.RFC3339)})
	}
	if _, err := f.NewSheet(suggestionSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	return writeSheet(f, suggestionSheet, rows)
}

func writeSheet(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d on %s: %w", i+1, sheet, err)
		}
	}
	return nil
}
