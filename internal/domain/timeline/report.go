package timeline

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	sheetEntries = "Timeline"
	sheetSummary = "Summary"
)

// BuildWorkbook renders a timeline document as an xlsx workbook: one sheet
// with the entries oldest first, one with aggregate statistics. Snapshots are
// deliberately left out; the workbook is for reading history, not restoring it.
func BuildWorkbook(doc Document, planName string) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", sheetEntries); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headers := []string{"Version", "Timestamp (UTC)", "Action", "Entity", "Entity ID", "Summary", "Details", "Scenario ID"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetEntries, cell, h); err != nil {
			return nil, err
		}
	}

	for row, e := range doc.Entries {
		values := []any{
			e.Version,
			e.Timestamp.UTC().Format(time.RFC3339),
			string(e.ActionType),
			string(e.EntityType),
			e.EntityID,
			e.Summary,
			e.Details,
			e.ScenarioID,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetEntries, cell, v); err != nil {
				return nil, err
			}
		}
	}

	_ = f.SetColWidth(sheetEntries, "B", "B", 22)
	_ = f.SetColWidth(sheetEntries, "F", "G", 48)

	if _, err := f.NewSheet(sheetSummary); err != nil {
		return nil, fmt.Errorf("add summary sheet: %w", err)
	}

	stats := statisticsOf(doc)
	summaryRows := [][]any{
		{"Plan", planName},
		{"Current version", doc.CurrentVersion},
		{"Total changes", stats.TotalChanges},
	}
	if stats.OldestChange != nil {
		summaryRows = append(summaryRows, []any{"Oldest change", stats.OldestChange.UTC().Format(time.RFC3339)})
	}
	if stats.NewestChange != nil {
		summaryRows = append(summaryRows, []any{"Newest change", stats.NewestChange.UTC().Format(time.RFC3339)})
	}
	summaryRows = append(summaryRows, []any{"", ""})
	summaryRows = append(summaryRows, []any{"Changes by action", ""})
	for _, at := range []ActionType{ActionCreate, ActionUpdate, ActionDelete, ActionRevert, ActionImport} {
		if n := stats.ChangesByType[at]; n > 0 {
			summaryRows = append(summaryRows, []any{string(at), n})
		}
	}
	summaryRows = append(summaryRows, []any{"", ""})
	summaryRows = append(summaryRows, []any{"Changes by entity", ""})
	for _, et := range []EntityType{EntityPerson, EntityAsset, EntityIncome, EntityCommitment, EntityEvent, EntityScenario, EntityPlan} {
		if n := stats.ChangesByEntity[et]; n > 0 {
			summaryRows = append(summaryRows, []any{string(et), n})
		}
	}

	for row, pair := range summaryRows {
		for col, v := range pair {
			cell, err := excelize.CoordinatesToCellName(col+1, row+1)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetSummary, cell, v); err != nil {
				return nil, err
			}
		}
	}
	_ = f.SetColWidth(sheetSummary, "A", "A", 24)

	return f, nil
}

func statisticsOf(doc Document) Statistics {
	stats := Statistics{
		TotalChanges:    len(doc.Entries),
		ChangesByType:   make(map[ActionType]int),
		ChangesByEntity: make(map[EntityType]int),
	}
	for _, e := range doc.Entries {
		stats.ChangesByType[e.ActionType]++
		stats.ChangesByEntity[e.EntityType]++
	}
	if len(doc.Entries) > 0 {
		oldest := doc.Entries[0].Timestamp
		newest := doc.Entries[len(doc.Entries)-1].Timestamp
		stats.OldestChange = &oldest
		stats.NewestChange = &newest
	}
	return stats
}
