package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"goab/domain/abtest"
	"goab/domain/core"
	"goab/ports"
)

var _ ports.VariationReader = (*DataReader)(nil)

// DataReader loads variation observation counts from Excel and CSV files.
// The expected layout is a header row followed by one row per variation:
// variation, successes, trials.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// ReadVariations reads every variation row from the file
func (r *DataReader) ReadVariations(path string) ([]abtest.Variation, error) {
	if path != "" {
		r.filePath = path
		if strings.ToLower(filepath.Ext(path)) == ".csv" {
			r.fileType = "csv"
		} else {
			r.fileType = "xlsx"
		}
	}

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
	if err != nil {
		return nil, err
	}

	return parseVariationRows(rows)
}

func (r *DataReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("Excel file has no sheets: %s", r.filePath)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

func (r *DataReader) readCSVRows() ([][]string, error) {
	f, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	// Column counts are validated per row afterwards
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return rows, nil
}

// parseVariationRows converts raw rows into validated variations,
// skipping the header and blank lines
func parseVariationRows(rows [][]string) ([]abtest.Variation, error) {
	if len(rows) < 2 {
		return nil, core.NewInvalidInputError("file", "needs a header row and at least one variation row")
	}

	variations := make([]abtest.Variation, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) == 0 || strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		if len(row) < 3 {
			return nil, core.NewInvalidInputError("row",
				fmt.Sprintf("%d has %d columns, want variation, successes, trials", i+2, len(row)))
		}

		key, err := core.ParseVariationKey(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, core.NewInvalidInputError("row", fmt.Sprintf("%d: %v", i+2, err))
		}
		successes, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil {
			return nil, core.NewInvalidInputError("successes",
				fmt.Sprintf("in row %d is not an integer: %q", i+2, row[1]))
		}
		trials, err := strconv.Atoi(strings.TrimSpace(row[2]))
		if err != nil {
			return nil, core.NewInvalidInputError("trials",
				fmt.Sprintf("in row %d is not an integer: %q", i+2, row[2]))
		}

		obs, err := abtest.NewObservations(successes, trials)
		if err != nil {
			return nil, fmt.Errorf("row %d (%s): %w", i+2, key, err)
		}
		variations = append(variations, abtest.Variation{Key: key, Obs: obs})
	}

	if len(variations) == 0 {
		return nil, core.NewInvalidInputError("file", "contains no variation rows")
	}
	return variations, nil
}
