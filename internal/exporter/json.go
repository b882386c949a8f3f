package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"churnlens/pkg/contracts/domain"
)

// writeJSON saves the report document as indented JSON
func writeJSON(report *domain.ChurnReport, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return file.Close()
}
