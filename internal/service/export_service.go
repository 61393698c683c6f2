package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"neowatch/internal/models"
	"neowatch/internal/repository"
	"neowatch/internal/utils"
	"neowatch/pkg/logger"
)

var ErrUnsupportedFormat = errors.New("unsupported export format, use 'csv' or 'xlsx'")

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type ExportService interface {
	// Export renders every stored asteroid in format. Nothing is written to
	// disk.
	Export(ctx context.Context, format string) (*ExportFile, error)
}

// ExportFile is a rendered export ready to be sent as a download.
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

type exportService struct {
	repo repository.AsteroidRepository
	log  logger.Logger
	now  func() time.Time
}

func NewExportService(repo repository.AsteroidRepository, log logger.Logger) ExportService {
	return &exportService{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

func (s *exportService) Export(ctx context.Context, format string) (*ExportFile, error) {
	if format != "csv" && format != "xlsx" && format != "excel" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	records, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load asteroids: %w", err)
	}

	timestamp := s.now().UTC().Format("20060102_150405")
	var buf bytes.Buffer

	switch format {
	case "csv":
		if err := writeCSV(&buf, records); err != nil {
			return nil, fmt.Errorf("failed to write CSV: %w", err)
		}
		s.log.Info("CSV export rendered", "records", len(records), "bytes", buf.Len())
		return &ExportFile{
			Name:        fmt.Sprintf("asteroids_%s.csv", timestamp),
			ContentType: contentTypeCSV,
			Data:        buf.Bytes(),
		}, nil

	default:
		summary := indicatorRows(ComputeIndicators(records))
		if err := utils.WriteAsteroidWorkbook(&buf, records, summary); err != nil {
			return nil, fmt.Errorf("failed to create Excel file: %w", err)
		}
		s.log.Info("Excel export rendered", "records", len(records), "bytes", buf.Len())
		return &ExportFile{
			Name:        fmt.Sprintf("asteroids_%s.xlsx", timestamp),
			ContentType: contentTypeXLSX,
			Data:        buf.Bytes(),
		}, nil
	}
}

var csvHeader = []string{
	"id", "name", "estimated_diameter_min_meters", "estimated_diameter_max_meters",
	"relative_velocity_km_per_second", "absolute_magnitude_h",
	"is_potentially_hazardous_asteroid", "is_sentry_object", "imported_date",
}

func writeCSV(w io.Writer, records []models.Asteroid) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.Name,
			strconv.FormatFloat(r.EstimatedDiameterMinMeters, 'f', -1, 64),
			strconv.FormatFloat(r.EstimatedDiameterMaxMeters, 'f', -1, 64),
			strconv.FormatFloat(r.RelativeVelocityKmPerSecond, 'f', -1, 64),
			strconv.FormatFloat(r.AbsoluteMagnitudeH, 'f', -1, 64),
			strconv.FormatBool(r.IsPotentiallyHazardousAsteroid),
			strconv.FormatBool(r.IsSentryObject),
			r.ImportedDateString(),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func indicatorRows(ind *Indicators) []utils.SummaryRow {
	rows := []utils.SummaryRow{
		{Key: "Total Asteroids", Value: ind.TotalAsteroids},
		{Key: "Unique Asteroids", Value: ind.UniqueAsteroidsByName},
		{Key: "Unique Potentially Hazardous", Value: ind.UniquePotentiallyHazardousAsteroids},
	}

	if ind.TotalAsteroids == 0 {
		return rows
	}

	rows = append(rows,
		utils.SummaryRow{Key: "Avg Velocity (km/s)", Value: *ind.AvgVelocityKmPerSecond},
		utils.SummaryRow{Key: "Fastest", Value: fmt.Sprintf("%s (%.2f km/s)", ind.FastestAsteroid.Name, ind.FastestAsteroid.Value)},
		utils.SummaryRow{Key: "Slowest", Value: fmt.Sprintf("%s (%.2f km/s)", ind.SlowestAsteroid.Name, ind.SlowestAsteroid.Value)},
		utils.SummaryRow{Key: "Avg Diameter (m)", Value: *ind.AvgDiameterMeters},
		utils.SummaryRow{Key: "Largest", Value: fmt.Sprintf("%s (%.2f m)", ind.LargestAsteroid.Name, ind.LargestAsteroid.Value)},
		utils.SummaryRow{Key: "Smallest", Value: fmt.Sprintf("%s (%.2f m)", ind.SmallestAsteroid.Name, ind.SmallestAsteroid.Value)},
		utils.SummaryRow{Key: "Avg Asteroids per Day", Value: *ind.AvgAsteroidsPerDay},
	)

	return append(rows, utils.SortedDateRows("Imported ", ind.AsteroidsByDate)...)
}
