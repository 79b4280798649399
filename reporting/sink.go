package reporting

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultReportPath is where the comparison report is written unless configured otherwise
const DefaultReportPath = "test/REPORT.md"

// WriteReport writes the rendered document verbatim, creating parent directories as needed
func WriteReport(path, content string) error {
	if path == "" {
		return fmt.Errorf("report path cannot be empty")
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}
