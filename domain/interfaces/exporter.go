package interfaces

import "test_capture/domain/entities"

// Exporter renders a recorded session into output files
type Exporter interface {
	// Export writes every output format under outputDir and reports the
	// outcome per format. A failed format never aborts the others.
	Export(doc *entities.TestCaseDocument, info entities.SessionInfo, outputDir string) entities.ExportReport
}
