package utils

import (
	"fmt"
	"io"
	"sort"
	"time"

	"neowatch/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	asteroidSheet = "Asteroids"
	infoSheet     = "Info"
)

var asteroidHeaders = []string{
	"ID", "Name", "Min Diameter (m)", "Max Diameter (m)", "Avg Diameter (m)",
	"Velocity (km/s)", "Magnitude (H)", "Hazardous", "Sentry", "Imported Date",
}

// SummaryRow is one key/value line of the Info sheet.
type SummaryRow struct {
	Key   string
	Value interface{}
}

// WriteAsteroidWorkbook writes the records and a summary sheet to w as XLSX.
func WriteAsteroidWorkbook(w io.Writer, records []models.Asteroid, summary []SummaryRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", asteroidSheet); err != nil {
		return err
	}

	for i, header := range asteroidHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(asteroidSheet, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		lastHeader, _ := excelize.CoordinatesToCellName(len(asteroidHeaders), 1)
		f.SetCellStyle(asteroidSheet, "A1", lastHeader, headerStyle)
	}

	numberStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 2}) // 0.00

	for rowIdx, record := range records {
		row := []interface{}{
			record.ID,
			record.Name,
			record.EstimatedDiameterMinMeters,
			record.EstimatedDiameterMaxMeters,
			record.AverageDiameter(),
			record.RelativeVelocityKmPerSecond,
			record.AbsoluteMagnitudeH,
			record.IsPotentiallyHazardousAsteroid,
			record.IsSentryObject,
			record.ImportedDateString(),
		}

		cell, _ := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err := f.SetSheetRow(asteroidSheet, cell, &row); err != nil {
			return err
		}
	}

	if len(records) > 0 {
		last := len(records) + 1
		f.SetCellStyle(asteroidSheet, "C2", fmt.Sprintf("G%d", last), numberStyle)

		// Highlight potentially hazardous objects
		hazardRule := []excelize.ConditionalFormatOptions{
			{
				Type:     "cell",
				Criteria: "==",
				Value:    "TRUE",
				Format:   conditionalFill(f, "#FFCCCC"),
			},
		}
		if err := f.SetConditionalFormat(asteroidSheet, fmt.Sprintf("H2:H%d", last), hazardRule); err != nil {
			return err
		}
	}

	for i := 1; i <= len(asteroidHeaders); i++ {
		colName, _ := excelize.ColumnNumberToName(i)
		f.SetColWidth(asteroidSheet, colName, colName, 18)
	}
	f.SetColWidth(asteroidSheet, "B", "B", 28)

	if err := writeInfoSheet(f, summary); err != nil {
		return err
	}

	f.SetActiveSheet(0)

	return f.Write(w)
}

func writeInfoSheet(f *excelize.File, summary []SummaryRow) error {
	if _, err := f.NewSheet(infoSheet); err != nil {
		return err
	}

	rows := append([]SummaryRow{{Key: "Report Generated", Value: time.Now().UTC().Format(time.RFC3339)}}, summary...)
	for i, r := range rows {
		f.SetCellValue(infoSheet, fmt.Sprintf("A%d", i+1), r.Key)
		f.SetCellValue(infoSheet, fmt.Sprintf("B%d", i+1), r.Value)
	}
	f.SetColWidth(infoSheet, "A", "A", 36)
	f.SetColWidth(infoSheet, "B", "B", 24)

	return nil
}

// SortedDateRows turns a date->count map into Info rows in date order.
func SortedDateRows(prefix string, counts map[string]int) []SummaryRow {
	dates := make([]string, 0, len(counts))
	for d := range counts {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	rows := make([]SummaryRow, 0, len(dates))
	for _, d := range dates {
		rows = append(rows, SummaryRow{Key: prefix + d, Value: counts[d]})
	}
	return rows
}

func conditionalFill(f *excelize.File, color string) *int {
	style, err := f.NewConditionalStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{color},
			Pattern: 1,
		},
	})
	if err != nil {
		return nil
	}
	return &style
}
