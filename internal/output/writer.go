// Package output formats processing results and writes them to disk.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jtdman/CashRegister/internal/models"
)

// Summary returns the single summary line that leads every output block:
// whether randomized divisor selection occurred, and the effective divisor.
func Summary(result *models.ProcessResult) string {
	if result.HasRandomization {
		return fmt.Sprintf("* randomization used - divisible by %d", result.Divisor)
	}
	return fmt.Sprintf("* no entries divisible by %d", result.Divisor)
}

// Render builds the full output block: the summary line followed by each
// result line, newline-joined and newline-terminated.
func Render(result *models.ProcessResult) string {
	lines := make([]string, 0, len(result.Results)+1)
	lines = append(lines, Summary(result))
	lines = append(lines, result.Results...)
	return strings.Join(lines, "\n") + "\n"
}

// ResolvePath determines where the output file goes. An explicit path is
// used verbatim; otherwise the path derives from the input file's base name
// inside outputDir: {outputDir}/{stem}-output.txt.
func ResolvePath(inputPath, explicitPath, outputDir string) string {
	if explicitPath != "" {
		return explicitPath
	}

	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, stem+"-output.txt")
}

// Write renders the result and writes it to path, creating parent
// directories as needed.
func Write(path string, result *models.ProcessResult) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(Render(result)), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	return nil
}
