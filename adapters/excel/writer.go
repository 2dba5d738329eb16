package excel

import (
	"fmt"
	"io"
	"log"
	"math"
	"sort"
	"strconv"

	"golime/domain/explanation"

	"github.com/xuri/excelize/v2"
)

const (
	featuresSheet = "Features"
	gridSheet     = "Grid"
	weightsSheet  = "Weights"
)

// ExplanationWriter renders a (de-normalized) explanation as a workbook
type ExplanationWriter struct {
	layout explanation.Layout
}

// NewExplanationWriter creates a writer for explanations with the given layout
func NewExplanationWriter(layout explanation.Layout) *ExplanationWriter {
	return &ExplanationWriter{layout: layout}
}

// Write builds the workbook and streams it to w
func (ew *ExplanationWriter) Write(w io.Writer, exp *explanation.Explanation) error {
	f, err := ew.build(exp)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// Save builds the workbook and writes it to path
func (ew *ExplanationWriter) Save(path string, exp *explanation.Explanation) error {
	f, err := ew.build(exp)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	log.Printf("[ExplanationWriter] Saved %s (%d features x %d timepoints)",
		path, ew.layout.Features(), ew.layout.Timepoints())
	return nil
}

func (ew *ExplanationWriter) build(exp *explanation.Explanation) (*excelize.File, error) {
	dm := exp.DomainMapper
	if err := ew.layout.CheckLen(len(dm.FeatureValues), "feature_values"); err != nil {
		return nil, err
	}
	if err := ew.layout.CheckLen(len(dm.DiscretizedFeatureNames), "discretized_feature_names"); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(defaultSheet, featuresSheet); err != nil {
		f.Close()
		return nil, err
	}
	steps := []func(*excelize.File, *explanation.Explanation) error{
		ew.writeFeatures,
		ew.writeGrid,
		ew.writeWeights,
	}
	for _, step := range steps {
		if err := step(f, exp); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to build workbook: %w", err)
		}
	}
	return f, nil
}

// writeFeatures lists one row per flat index
func (ew *ExplanationWriter) writeFeatures(f *excelize.File, exp *explanation.Explanation) error {
	header := []interface{}{"index", "column", "feature", "value", "rule"}
	if err := f.SetSheetRow(featuresSheet, "A1", &header); err != nil {
		return err
	}
	dm := exp.DomainMapper
	row := 2
	for c, col := range ew.layout.Columns {
		for t := 0; t < ew.layout.Timepoints(); t++ {
			i := ew.layout.Index(c, t)
			cells := []interface{}{i, col, ew.layout.FeatureName(c, t), cellValue(dm.FeatureValues[i]), dm.DiscretizedFeatureNames[i]}
			if err := f.SetSheetRow(featuresSheet, fmt.Sprintf("A%d", row), &cells); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

// writeGrid lays the values out with timepoints as rows and columns as columns
func (ew *ExplanationWriter) writeGrid(f *excelize.File, exp *explanation.Explanation) error {
	if _, err := f.NewSheet(gridSheet); err != nil {
		return err
	}
	if err := f.SetCellValue(gridSheet, "A1", "timepoint"); err != nil {
		return err
	}
	for c, col := range ew.layout.Columns {
		if err := f.SetCellValue(gridSheet, fmt.Sprintf("%s1", columnIndexToLetter(c+1)), col); err != nil {
			return err
		}
	}
	T := ew.layout.Timepoints()
	for t := 0; t < T; t++ {
		row := t + 2
		if err := f.SetCellValue(gridSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("t-%d", T-1-t)); err != nil {
			return err
		}
		for c := range ew.layout.Columns {
			cell := fmt.Sprintf("%s%d", columnIndexToLetter(c+1), row)
			v := exp.DomainMapper.FeatureValues[ew.layout.Index(c, t)]
			if err := f.SetCellValue(gridSheet, cell, cellValue(v)); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeWeights lists the ranked (rule, weight) pairs per label
func (ew *ExplanationWriter) writeWeights(f *excelize.File, exp *explanation.Explanation) error {
	if len(exp.LocalExp) == 0 {
		return nil
	}
	if _, err := f.NewSheet(weightsSheet); err != nil {
		return err
	}
	header := []interface{}{"label", "rank", "rule", "weight"}
	if err := f.SetSheetRow(weightsSheet, "A1", &header); err != nil {
		return err
	}

	labels := make([]string, 0, len(exp.LocalExp))
	for label := range exp.LocalExp {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	row := 2
	for _, label := range labels {
		pairs, err := exp.AsList(label)
		if err != nil {
			return err
		}
		for rank, p := range pairs {
			cells := []interface{}{label, rank + 1, p.Name, p.Weight}
			if err := f.SetSheetRow(weightsSheet, fmt.Sprintf("A%d", row), &cells); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

// cellValue stores numeric strings as numbers so spreadsheets can chart them
func cellValue(s string) interface{} {
	if v, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		return v
	}
	return s
}
