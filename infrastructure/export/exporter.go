package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"test_capture/domain/entities"
)

// TestCaseExporter renders a recorded session into the four output
// formats. Each format is attempted independently; a permission error
// on one file never suppresses the others.
type TestCaseExporter struct {
	logger       *logrus.Logger
	workbookName string
}

// NewTestCaseExporter - creates an exporter writing the workbook under
// the given file name
func NewTestCaseExporter(logger *logrus.Logger, workbookName string) *TestCaseExporter {
	return &TestCaseExporter{logger: logger, workbookName: workbookName}
}

// Export writes every format under outputDir. File names derive from
// the document's test case ID so exporting the same log twice differs
// only in the timestamp-derived parts.
func (e *TestCaseExporter) Export(doc *entities.TestCaseDocument, info entities.SessionInfo, outputDir string) entities.ExportReport {
	report := entities.ExportReport{}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		wrapped := fmt.Errorf("create output directory %s: %w", outputDir, err)
		for _, format := range entities.AllFormats {
			report[format] = entities.FormatResult{Format: format, Err: wrapped}
		}
		return report
	}

	stamp := strings.TrimPrefix(doc.TestCaseID, "TC_")

	jsonPath := filepath.Join(outputDir, "test_case_"+stamp+".json")
	report[entities.FormatJSON] = formatResult(entities.FormatJSON, jsonPath, writeJSON(doc, jsonPath))

	textPath := filepath.Join(outputDir, "test_case_"+stamp+".txt")
	report[entities.FormatText] = formatResult(entities.FormatText, textPath, writeText(doc, textPath))

	scriptPath := filepath.Join(outputDir, "test_case_"+stamp+".go")
	report[entities.FormatGo] = formatResult(entities.FormatGo, scriptPath, writeScript(doc, scriptPath))

	excelPath := filepath.Join(outputDir, e.workbookName)
	report[entities.FormatExcel] = formatResult(entities.FormatExcel, excelPath, writeWorkbook(doc, info, excelPath))

	for _, result := range report {
		if result.Err != nil {
			e.logger.WithError(result.Err).Warnf("Export failed: %s", result.Format)
			continue
		}
		e.logger.Debugf("Exported %s: %s", result.Format, result.Path)
	}

	return report
}

func formatResult(format entities.ExportFormat, path string, err error) entities.FormatResult {
	return entities.FormatResult{Format: format, Path: path, Err: err}
}
