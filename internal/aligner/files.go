package aligner

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadTable reads every row of a CSV or XLSX file, verbatim. There is no
// header detection: the first row is a row like any other. CSV parsing uses
// the given delimiter and allows ragged rows; short label rows are handled
// per-row during alignment instead.
func ReadTable(filePath string, delimiter rune) ([][]string, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".csv":
		return readCSVTable(filePath, delimiter)
	case ".xlsx":
		return readXLSXTable(filePath)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}
}

func readCSVTable(filePath string, delimiter rune) ([][]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filePath, err)
	}

	return records, nil
}

func readXLSXTable(filePath string) ([][]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filePath, err)
	}

	return rows, nil
}

// WriteCSV writes rows to filePath using the given delimiter.
func WriteCSV(filePath string, rows [][]string, delimiter rune) error {
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	writer.Comma = delimiter

	// WriteAll flushes and surfaces any buffered write error.
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("writing %s: %w", filePath, err)
	}

	return nil
}
