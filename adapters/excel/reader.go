package excel

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"gonum.org/v1/gonum/mat"
)

const defaultSheet = "Sheet1"

// DataReader handles reading Excel and CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// ReadData reads data from Excel or CSV files into structured format
func (r *DataReader) ReadData() (*ExcelData, error) {
	log.Printf("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "xlsx":
		return r.readExcelData()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

// ReadTraining reads the file and extracts the named numeric columns in order.
// An empty column list selects every header.
func (r *DataReader) ReadTraining(columns []string) (*TrainingData, error) {
	data, err := r.ReadData()
	if err != nil {
		return nil, err
	}
	return data.Numeric(columns)
}

// readExcelData reads Excel data from Sheet1 into structured format
func (r *DataReader) readExcelData() (*ExcelData, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(defaultSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", defaultSheet, err)
	}
	log.Printf("[DataReader] %s read in %.2fms (%d rows)", defaultSheet,
		float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, fmt.Errorf("Excel file must have at least a header row and one data row")
	}

	return r.processRows(rows)
}

// readCSVData reads CSV data into structured format
func (r *DataReader) readCSVData() (*ExcelData, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	log.Printf("[DataReader] CSV file read in %.2fms (%d rows)",
		float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, fmt.Errorf("CSV file must have at least a header row and one data row")
	}

	return r.processRows(rows)
}

// processRows converts raw string rows into ExcelData format
func (r *DataReader) processRows(rows [][]string) (*ExcelData, error) {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([]RawRowData, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		rowData := make(RawRowData)
		for j, cell := range rows[i] {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	log.Printf("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(headers), len(dataRows))

	return &ExcelData{
		Headers: headers,
		Rows:    dataRows,
	}, nil
}

// Numeric converts the selected columns to a float matrix. Rows with an empty
// or non-numeric cell in any selected column are skipped.
func (d *ExcelData) Numeric(columns []string) (*TrainingData, error) {
	if len(columns) == 0 {
		columns = d.Headers
	}

	known := make(map[string]bool, len(d.Headers))
	for _, h := range d.Headers {
		known[h] = true
	}
	for _, c := range columns {
		if !known[c] {
			return nil, fmt.Errorf("column %q not found in headers %v", c, d.Headers)
		}
	}

	values := make([]float64, 0, len(d.Rows)*len(columns))
	kept, skipped := 0, 0
	row := make([]float64, len(columns))
rows:
	for _, raw := range d.Rows {
		for j, c := range columns {
			v, err := strconv.ParseFloat(raw[c], 64)
			if err != nil {
				skipped++
				continue rows
			}
			row[j] = v
		}
		values = append(values, row...)
		kept++
	}

	if kept == 0 {
		return nil, fmt.Errorf("no numeric rows found for columns %v", columns)
	}
	if skipped > 0 {
		log.Printf("[DataReader] Skipped %d non-numeric rows", skipped)
	}

	return &TrainingData{
		Columns: append([]string(nil), columns...),
		X:       mat.NewDense(kept, len(columns), values),
		Skipped: skipped,
	}, nil
}

// columnIndexToLetter converts 0-based column index to Excel column letter (A, B, ..., Z, AA, AB, ...)
func columnIndexToLetter(colIdx int) string {
	result := ""
	colIdx++ // Excel is 1-indexed internally
	for colIdx > 0 {
		colIdx--
		result = string(rune('A'+(colIdx%26))) + result
		colIdx /= 26
	}
	return result
}
