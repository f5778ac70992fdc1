package services

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/edusync-service/internal/models"
)

const resultsSheet = "Results"

var resultColumns = []interface{}{
	"Result ID", "Student", "Student ID", "Assessment", "Assessment ID", "Score", "Max Score", "Attempt Date",
}

// writeResultsWorkbook renders results as a single-sheet XLSX workbook
func writeResultsWorkbook(w io.Writer, results []*models.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return err
	}

	if err := f.SetSheetRow(resultsSheet, "A1", &resultColumns); err != nil {
		return err
	}
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(resultsSheet, "A1", "H1", header); err != nil {
		return err
	}

	for i, r := range results {
		resp := models.NewResultResponse(r)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			resp.ID,
			resp.UserName,
			resp.UserID,
			resp.AssessmentTitle,
			resp.AssessmentID,
			resp.Score,
			resp.MaxScore,
			resp.AttemptDate.Format("2006-01-02 15:04:05"),
		}
		if err := f.SetSheetRow(resultsSheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(resultsSheet, "A", "H", 20); err != nil {
		return err
	}

	return f.Write(w)
}
