package excel

import "gonum.org/v1/gonum/mat"

// RawRowData represents a row of raw spreadsheet data as string key-value pairs
type RawRowData map[string]string

// ExcelData represents the complete spreadsheet dataset
type ExcelData struct {
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows
}

// TrainingData is a numeric training matrix with its column order
type TrainingData struct {
	Columns []string
	X       *mat.Dense // rows = samples, columns = features
	Skipped int        // rows dropped because a selected cell was empty or not numeric
}
