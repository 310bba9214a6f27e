// Package export writes a user's companies and upcoming schedule to an
// Excel workbook.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/jonathan/jobhunt-tracker/internal/schedule"
	"github.com/jonathan/jobhunt-tracker/internal/tracker"
	"github.com/jonathan/jobhunt-tracker/internal/types"
	"github.com/xuri/excelize/v2"
)

// Sheet names.
const (
	CompaniesSheet = "企業一覧"
	ScheduleSheet  = "選考スケジュール"
)

const dateLayout = "2006/01/02 15:04"

// CompanyHeaders are the column titles of the companies sheet.
var CompanyHeaders = []string{"企業名", "業界", "ステータス", "志望度", "お気に入り", "選考進捗", "次の予定", "次の予定日", "更新日"}

// ScheduleHeaders are the column titles of the schedule sheet.
var ScheduleHeaders = []string{"日付", "区分", "種別", "企業名", "タイトル", "メモ"}

// Workbook builds the export. Companies keep the given order; the schedule
// lists upcoming events grouped relative to now.
func Workbook(companies []types.Company, now time.Time) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", CompaniesSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeRows(f, CompaniesSheet, CompanyHeaders, companyRows(companies, now)); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(ScheduleSheet); err != nil {
		return nil, fmt.Errorf("create schedule sheet: %w", err)
	}
	events := schedule.DeriveEvents(companies)
	if err := writeRows(f, ScheduleSheet, ScheduleHeaders, scheduleRows(events, now)); err != nil {
		return nil, err
	}

	return f, nil
}

// Write renders the workbook to w.
func Write(w io.Writer, companies []types.Company, now time.Time) error {
	f, err := Workbook(companies, now)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func companyRows(companies []types.Company, now time.Time) [][]any {
	rows := make([][]any, 0, len(companies))
	for _, c := range companies {
		done, total := tracker.StepProgress(c)
		nextName, nextDate := "", ""
		if step, ok := tracker.NextScheduledStep(c, now); ok {
			nextName = step.Name
			nextDate = step.ScheduledDate.In(now.Location()).Format(dateLayout)
		}
		favorite := ""
		if c.Favorite {
			favorite = "★"
		}
		rows = append(rows, []any{
			c.Name,
			c.Industry,
			c.CurrentStatus.Label(),
			types.PriorityLabels[c.Priority],
			favorite,
			fmt.Sprintf("%d/%d", done, total),
			nextName,
			nextDate,
			c.UpdatedAt.In(now.Location()).Format(dateLayout),
		})
	}
	return rows
}

func scheduleRows(events []types.CalendarEvent, now time.Time) [][]any {
	var rows [][]any
	for _, g := range schedule.GroupUpcoming(events, now) {
		for _, e := range g.Events {
			rows = append(rows, []any{
				e.Date.In(now.Location()).Format(dateLayout),
				g.Label,
				types.EventTypeLabels[e.Type],
				e.CompanyName,
				e.Title,
				e.Notes,
			})
		}
	}
	return rows
}

func writeRows(f *excelize.File, sheet string, headers []string, rows [][]any) error {
	for i, h := range headers {
		if err := setCell(f, sheet, i+1, 1, h); err != nil {
			return err
		}
	}
	for r, row := range rows {
		for c, v := range row {
			if err := setCell(f, sheet, c+1, r+2, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetCellValue(sheet, cell, v); err != nil {
		return fmt.Errorf("set %s!%s: %w", sheet, cell, err)
	}
	return nil
}
