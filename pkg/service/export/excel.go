package export

import (
	"io"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pbl-lab/pblview/pkg/domain/model"
	"github.com/xuri/excelize/v2"
)

const (
	sheetIssues   = "Issues"
	sheetBurnDown = "BurnDown"
	sheetBurnUp   = "BurnUp"
	sheetExcluded = "Excluded"
)

var issueHeader = []string{
	"ID", "Title", "State", "Kanban", "Quarter", "Point",
	"Due Date", "Completed At", "Assignee", "Service", "URL",
}

var chartHeader = []string{
	"Date", "Planned", "Actual", "Remaining", "Completed",
	"Total Scope", "Completed Issues", "Total Issues",
}

var excludedHeader = []string{"ID", "Title", "Reason", "Quarter", "Kanban"}

// WriteWorkbook renders the report as an xlsx workbook: filtered issues,
// both burn chart datasets, and the exclusion ledger each get a sheet.
func WriteWorkbook(w io.Writer, scope model.ScopeFilterResult, burnDown, burnUp model.ChartSeries) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetIssues); err != nil {
		return goerr.Wrap(err, "failed to rename issue sheet")
	}
	if err := writeIssueSheet(f, scope.Filtered); err != nil {
		return err
	}
	if err := writeChartSheet(f, sheetBurnDown, burnDown); err != nil {
		return err
	}
	if err := writeChartSheet(f, sheetBurnUp, burnUp); err != nil {
		return err
	}
	records := append(append([]model.ExclusionRecord{}, scope.Excluded...), scope.Warnings...)
	if err := writeExcludedSheet(f, records); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return goerr.Wrap(err, "failed to write workbook")
	}
	return nil
}

func writeIssueSheet(f *excelize.File, issues []model.Issue) error {
	if err := writeRow(f, sheetIssues, 1, issueHeader); err != nil {
		return err
	}
	for i, issue := range issues {
		row := []any{
			int64(issue.ID),
			issue.Title,
			string(issue.State),
			string(issue.KanbanStatus),
			issue.Quarter.String(),
			issue.StoryPoints(),
			formatDate(issue.DueDate),
			formatDate(issue.CompletedAt),
			issue.Assignee,
			issue.Service,
			issue.WebURL,
		}
		if err := writeRow(f, sheetIssues, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeChartSheet(f *excelize.File, sheet string, series model.ChartSeries) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return goerr.Wrap(err, "failed to create sheet", goerr.V("sheet", sheet))
	}
	if err := writeRow(f, sheet, 1, chartHeader); err != nil {
		return err
	}
	for i, point := range series.Points {
		row := []any{
			point.Date.Format(time.DateOnly),
			point.Planned,
			point.Actual,
			point.Remaining,
			point.Completed,
			point.TotalScope,
			point.CompletedIssues,
			point.TotalIssues,
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeExcludedSheet(f *excelize.File, records []model.ExclusionRecord) error {
	if _, err := f.NewSheet(sheetExcluded); err != nil {
		return goerr.Wrap(err, "failed to create sheet", goerr.V("sheet", sheetExcluded))
	}
	if err := writeRow(f, sheetExcluded, 1, excludedHeader); err != nil {
		return err
	}
	for i, rec := range records {
		row := []any{
			int64(rec.Issue.ID),
			rec.Issue.Title,
			string(rec.Reason),
			rec.Issue.Quarter.String(),
			string(rec.Issue.KanbanStatus),
		}
		if err := writeRow(f, sheetExcluded, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRow[T any](f *excelize.File, sheet string, row int, values []T) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return goerr.Wrap(err, "failed to resolve cell name",
				goerr.V("sheet", sheet), goerr.V("row", row), goerr.V("col", i+1))
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return goerr.Wrap(err, "failed to set cell value",
				goerr.V("sheet", sheet), goerr.V("cell", cell))
		}
	}
	return nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateOnly)
}
