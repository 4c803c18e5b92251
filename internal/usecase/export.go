package usecase

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"gestionale/internal/domain"
)

// Sheet names above this length are rejected by the xlsx format.
const maxSheetNameLen = 31

type ExportUsecase struct {
	repo         ExportRepository
	tableTimeout time.Duration
}

func NewExportUsecase(repo ExportRepository, tableTimeout time.Duration) *ExportUsecase {
	if tableTimeout <= 0 {
		tableTimeout = 30 * time.Second
	}
	return &ExportUsecase{repo: repo, tableTimeout: tableTimeout}
}

// Spreadsheet serializes every table of the store into one workbook,
// one sheet per table. Each table is read under its own timeout and
// failures are aggregated, so a single stuck table cannot block the
// response forever. A store with no tables yields ErrNoData.
func (uc *ExportUsecase) Spreadsheet(ctx context.Context) (*bytes.Buffer, error) {
	tables, err := uc.repo.ListTables(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing tables")
	}
	if len(tables) == 0 {
		return nil, domain.ErrNoData
	}

	workbook := excelize.NewFile()
	defer workbook.Close()

	var failed []string
	for i, table := range tables {
		tableCtx, cancel := context.WithTimeout(ctx, uc.tableTimeout)
		dump, err := uc.repo.DumpTable(tableCtx, table)
		cancel()
		if err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", table, err))
			continue
		}

		sheet := sheetName(table)
		if i == 0 {
			err = workbook.SetSheetName(workbook.GetSheetName(0), sheet)
		} else {
			_, err = workbook.NewSheet(sheet)
		}
		if err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", table, err))
			continue
		}

		header := make([]any, len(dump.Columns))
		for c, col := range dump.Columns {
			header[c] = col
		}
		if err := workbook.SetSheetRow(sheet, "A1", &header); err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", table, err))
			continue
		}
		for r, row := range dump.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return nil, err
			}
			if err := workbook.SetSheetRow(sheet, cell, &row); err != nil {
				failed = append(failed, fmt.Sprintf("%s: %v", table, err))
				break
			}
		}
	}

	if len(failed) > 0 {
		return nil, fmt.Errorf("export failed for %d table(s): %s", len(failed), strings.Join(failed, "; "))
	}

	return workbook.WriteToBuffer()
}

// Snapshot dumps the raw store to a temp file and returns its path.
// The caller removes the file once it has been streamed out.
func (uc *ExportUsecase) Snapshot(ctx context.Context) (string, error) {
	dest := filepath.Join(os.TempDir(), "gestionale-backup-"+uuid.New().String()+".db")

	err := uc.repo.Snapshot(ctx, dest)
	if err != nil {
		os.Remove(dest)
		return "", errors.Wrap(err, "snapshotting database")
	}
	return dest, nil
}

func sheetName(table string) string {
	if len(table) > maxSheetNameLen {
		return table[:maxSheetNameLen]
	}
	return table
}
