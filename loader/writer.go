package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/respinosap/t2-repo/timedataset"
	"github.com/xuri/excelize/v2"
)

const (
	TimeFormat = "2006-01-02 15:04:05"
	sheetName  = "Sheet1"
)

// Save writes tbl to path in the format Load expects, as xlsx when path ends in .xlsx and as csv
// otherwise. Missing values are written as empty cells.
func Save(path string, tbl *timedataset.Table) error {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return saveXLSX(path, tbl)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create %s, %w", path, err)
	}
	if err := WriteCSV(file, tbl); err != nil {
		file.Close()
		return fmt.Errorf("unable to write %s, %w", path, err)
	}
	return file.Close()
}

// WriteCSV writes tbl as a comma separated table with a header row.
func WriteCSV(w io.Writer, tbl *timedataset.Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return err
	}
	for i := 0; i < tbl.Len(); i++ {
		if err := writer.Write(record(tbl, i)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func saveXLSX(path string, tbl *timedataset.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]any, 0, len(Columns))
	for _, col := range Columns {
		header = append(header, col)
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("unable to write header, %w", err)
	}

	for i := 0; i < tbl.Len(); i++ {
		rec := record(tbl, i)
		row := make([]any, 0, len(rec))
		for _, c := range rec {
			row = append(row, c)
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, axis, &row); err != nil {
			return fmt.Errorf("unable to write row %d, %w", i, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("unable to save %s, %w", path, err)
	}
	return nil
}

func record(tbl *timedataset.Table, i int) []string {
	return []string{
		tbl.T[i].Format(TimeFormat),
		formatValue(tbl.Actual[i]),
		formatValue(tbl.Forecast[i]),
		formatValue(tbl.Upper[i]),
		formatValue(tbl.Lower[i]),
	}
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
