package entities

// ExportFormat identifies one of the generated output formats
type ExportFormat string

const (
	FormatJSON  ExportFormat = "json"
	FormatText  ExportFormat = "text"
	FormatGo    ExportFormat = "go"
	FormatExcel ExportFormat = "excel"
)

// AllFormats lists every format in the order reports are displayed
var AllFormats = []ExportFormat{FormatJSON, FormatText, FormatGo, FormatExcel}

// FormatResult - outcome of writing a single export format
type FormatResult struct {
	Format ExportFormat
	Path   string
	Err    error
}

// ExportReport maps each attempted format to its outcome. A failed
// format never suppresses the others.
type ExportReport map[ExportFormat]FormatResult

// Succeeded - returns true when every attempted format was written
func (r ExportReport) Succeeded() bool {
	for _, result := range r {
		if result.Err != nil {
			return false
		}
	}
	return true
}

// Failures - returns the formats that could not be written
func (r ExportReport) Failures() []FormatResult {
	var failed []FormatResult
	for _, format := range AllFormats {
		if result, ok := r[format]; ok && result.Err != nil {
			failed = append(failed, result)
		}
	}
	return failed
}
