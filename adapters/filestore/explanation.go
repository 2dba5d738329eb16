package filestore

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"golime/domain/explanation"
)

// ReadExplanation decodes an explanation from JSON
func ReadExplanation(r io.Reader) (*explanation.Explanation, error) {
	var exp explanation.Explanation
	dec := json.NewDecoder(r)
	if err := dec.Decode(&exp); err != nil {
		return nil, fmt.Errorf("failed to decode explanation: %w", err)
	}
	return &exp, nil
}

// WriteExplanation encodes an explanation as indented JSON
func WriteExplanation(w io.Writer, exp *explanation.Explanation) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(exp); err != nil {
		return fmt.Errorf("failed to encode explanation: %w", err)
	}
	return nil
}

// LoadExplanation reads an explanation JSON file
func LoadExplanation(path string) (*explanation.Explanation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open explanation file: %w", err)
	}
	defer f.Close()

	exp, err := ReadExplanation(f)
	if err != nil {
		return nil, err
	}
	log.Printf("[FileStore] Loaded explanation %s (%d values, %d discretized names)",
		path, len(exp.DomainMapper.FeatureValues), len(exp.DomainMapper.DiscretizedFeatureNames))
	return exp, nil
}

// SaveExplanation writes an explanation JSON file
func SaveExplanation(path string, exp *explanation.Explanation) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create explanation file: %w", err)
	}
	if err := WriteExplanation(f, exp); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
