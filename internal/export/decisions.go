// Package export renders the decision audit trail as a spreadsheet.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jengzang/guardian-backend-go/internal/models"
	"github.com/xuri/excelize/v2"
)

// DecisionsSheet is the worksheet holding exported decisions
const DecisionsSheet = "Decisions"

// DecisionsHeader is the header row of the export
var DecisionsHeader = []string{
	"ID",
	"Subject",
	"Time (UTC)",
	"Trigger",
	"Action",
	"Reason",
	"Evidence",
	"Latitude",
	"Longitude",
}

var decisionColumnWidths = []float64{38, 16, 20, 10, 10, 26, 50, 12, 12}

// Decisions renders records into an xlsx workbook
func Decisions(records []models.DecisionRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(DecisionsSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetRow(DecisionsSheet, "A1", &DecisionsHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(DecisionsHeader), 1)
	if err != nil {
		return nil, fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetCellStyle(DecisionsSheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}

	for i, width := range decisionColumnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(DecisionsSheet, col, col, width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, d := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		row := []interface{}{
			d.ID,
			d.SubjectID,
			time.Unix(d.Timestamp, 0).UTC().Format("2006-01-02 15:04:05"),
			d.Trigger,
			d.Action,
			d.Reason,
			d.Evidence,
			d.Latitude,
			d.Longitude,
		}
		if err := f.SetSheetRow(DecisionsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
