package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"testing"
	"time"

	"neowatch/pkg/logger"

	"github.com/xuri/excelize/v2"
)

func newTestExportService(repo *memAsteroidRepo) *exportService {
	svc := NewExportService(repo, logger.Nop()).(*exportService)
	svc.now = func() time.Time { return time.Date(2025, 7, 22, 14, 30, 5, 0, time.UTC) }
	return svc
}

func TestExportCSV(t *testing.T) {
	repo := newMemAsteroidRepo()
	repo.rows = append(repo.rows,
		asteroidOn(1, "Apophis", "2025-07-22", 7.42, 310, 340, true),
		asteroidOn(2, "Bennu", "2025-07-23", 6.1, 480, 510, false),
	)
	svc := newTestExportService(repo)

	file, err := svc.Export(context.Background(), "csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if file.Name != "asteroids_20250722_143005.csv" {
		t.Errorf("unexpected file name %s", file.Name)
	}
	if file.ContentType != contentTypeCSV {
		t.Errorf("unexpected content type %s", file.ContentType)
	}

	rows, err := csv.NewReader(bytes.NewReader(file.Data)).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][1] != "name" || rows[1][1] != "Apophis" {
		t.Errorf("unexpected rows %v", rows[:2])
	}
	if rows[1][6] != "true" || rows[2][8] != "2025-07-23" {
		t.Errorf("unexpected values in %v", rows[1:])
	}
}

func TestExportXLSX(t *testing.T) {
	repo := newMemAsteroidRepo()
	repo.rows = append(repo.rows, asteroidOn(1, "Apophis", "2025-07-22", 7.42, 310, 340, true))
	svc := newTestExportService(repo)

	file, err := svc.Export(context.Background(), "xlsx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file.Name != "asteroids_20250722_143005.xlsx" || file.ContentType != contentTypeXLSX {
		t.Errorf("unexpected file %s (%s)", file.Name, file.ContentType)
	}

	f, err := excelize.OpenReader(bytes.NewReader(file.Data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	name, err := f.GetCellValue("Asteroids", "B2")
	if err != nil || name != "Apophis" {
		t.Errorf("expected Apophis in B2, got %q (%v)", name, err)
	}
}

func TestExportEmptyStore(t *testing.T) {
	svc := newTestExportService(newMemAsteroidRepo())

	file, err := svc.Export(context.Background(), "excel")
	if err != nil {
		t.Fatalf("empty store must still export, got %v", err)
	}
	if len(file.Data) == 0 {
		t.Error("expected a workbook even for an empty store")
	}
}

func TestExportUnsupportedFormat(t *testing.T) {
	svc := newTestExportService(newMemAsteroidRepo())

	if _, err := svc.Export(context.Background(), "pdf"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestExportLeavesNoFiles(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	repo := newMemAsteroidRepo()
	repo.rows = append(repo.rows, asteroidOn(1, "Apophis", "2025-07-22", 7.42, 310, 340, true))
	svc := newTestExportService(repo)

	for _, format := range []string{"csv", "xlsx"} {
		if _, err := svc.Export(context.Background(), format); err != nil {
			t.Fatalf("%s: %v", format, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("exports must not touch the filesystem, found %d entries", len(entries))
	}
}
