package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"test_capture/domain/entities"
)

const (
	summarySheet  = "Test Case Summary"
	actionsSheet  = "Actions"
	elementsSheet = "Page Elements"

	maxColumnWidth = 50
)

// writeWorkbook renders the three-sheet workbook: session summary,
// one row per action, and one row per captured element.
func writeWorkbook(doc *entities.TestCaseDocument, info entities.SessionInfo, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}
	if _, err := f.NewSheet(actionsSheet); err != nil {
		return fmt.Errorf("create actions sheet: %w", err)
	}
	if _, err := f.NewSheet(elementsSheet); err != nil {
		return fmt.Errorf("create elements sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF", Size: 12},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"366092"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create title style: %w", err)
	}

	if err := writeSummarySheet(f, doc, info, titleStyle); err != nil {
		return err
	}
	if err := writeActionsSheet(f, doc, headerStyle); err != nil {
		return err
	}
	if err := writeElementsSheet(f, doc, headerStyle); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, doc *entities.TestCaseDocument, info entities.SessionInfo, titleStyle int) error {
	if err := f.MergeCell(summarySheet, "A1", "B1"); err != nil {
		return fmt.Errorf("merge title cell: %w", err)
	}
	if err := f.SetCellValue(summarySheet, "A1", "Doceree Test Cases"); err != nil {
		return fmt.Errorf("write workbook title: %w", err)
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", titleStyle); err != nil {
		return fmt.Errorf("style workbook title: %w", err)
	}

	stoppedAt := ""
	if !info.StoppedAt.IsZero() {
		stoppedAt = info.StoppedAt.Format("2006-01-02 15:04:05")
	}
	startedAt := ""
	if !info.StartedAt.IsZero() {
		startedAt = info.StartedAt.Format("2006-01-02 15:04:05")
	}

	rows := [][2]interface{}{
		{"Test Case ID:", doc.TestCaseID},
		{"Created At:", doc.CreatedAt.Format("2006-01-02 15:04:05")},
		{"Initial URL:", doc.InitialURL},
		{"Browser:", string(info.Browser)},
		{"Mode:", string(info.Mode)},
		{"Session Started:", startedAt},
		{"Session Stopped:", stoppedAt},
		{"URL Count:", doc.URLCount()},
		{"Capture Count:", len(doc.Captures())},
		{"Total Actions:", doc.TotalActions},
	}

	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+3)
		if err := f.SetSheetRow(summarySheet, cell, &[]interface{}{row[0], row[1]}); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
	}

	if err := f.SetColWidth(summarySheet, "A", "A", 20); err != nil {
		return fmt.Errorf("set summary column width: %w", err)
	}
	if err := f.SetColWidth(summarySheet, "B", "B", maxColumnWidth); err != nil {
		return fmt.Errorf("set summary column width: %w", err)
	}
	return nil
}

func writeActionsSheet(f *excelize.File, doc *entities.TestCaseDocument, headerStyle int) error {
	headers := []interface{}{"Action #", "Action Type", "Timestamp", "URL", "Page Title", "Description"}
	if err := f.SetSheetRow(actionsSheet, "A1", &headers); err != nil {
		return fmt.Errorf("write actions header: %w", err)
	}
	if err := f.SetCellStyle(actionsSheet, "A1", "F1", headerStyle); err != nil {
		return fmt.Errorf("style actions header: %w", err)
	}

	widths := newColumnWidths(headers)
	for i, action := range doc.Actions {
		url, title := actionPage(action)
		row := []interface{}{
			i + 1,
			string(action.Kind),
			action.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"),
			url,
			title,
			action.Description,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(actionsSheet, cell, &row); err != nil {
			return fmt.Errorf("write action row %d: %w", i+1, err)
		}
		widths.observe(row)
	}

	return widths.apply(f, actionsSheet)
}

func writeElementsSheet(f *excelize.File, doc *entities.TestCaseDocument, headerStyle int) error {
	headers := []interface{}{"Capture #", "Element Type", "Text/Value", "ID", "Class", "Name", "Type", "Page URL"}
	if err := f.SetSheetRow(elementsSheet, "A1", &headers); err != nil {
		return fmt.Errorf("write elements header: %w", err)
	}
	if err := f.SetCellStyle(elementsSheet, "A1", "H1", headerStyle); err != nil {
		return fmt.Errorf("style elements header: %w", err)
	}

	widths := newColumnWidths(headers)
	rowNum := 2
	captureNum := 0
	for _, action := range doc.Actions {
		snapshot, ok := action.Payload.(entities.PageSnapshot)
		if !ok {
			continue
		}
		captureNum++

		for _, btn := range snapshot.Buttons {
			row := []interface{}{captureNum, "Button", btn.Text, btn.ID, btn.Class, "", btn.Tag, snapshot.URL}
			cell := fmt.Sprintf("A%d", rowNum)
			if err := f.SetSheetRow(elementsSheet, cell, &row); err != nil {
				return fmt.Errorf("write button row %d: %w", rowNum, err)
			}
			widths.observe(row)
			rowNum++
		}
		for _, input := range snapshot.Inputs {
			row := []interface{}{captureNum, "Input", input.Placeholder, input.ID, "", input.Name, input.Type, snapshot.URL}
			cell := fmt.Sprintf("A%d", rowNum)
			if err := f.SetSheetRow(elementsSheet, cell, &row); err != nil {
				return fmt.Errorf("write input row %d: %w", rowNum, err)
			}
			widths.observe(row)
			rowNum++
		}
	}

	return widths.apply(f, elementsSheet)
}

// actionPage pulls the URL/title columns out of whatever payload the
// action carries
func actionPage(action entities.ActionRecord) (string, string) {
	switch payload := action.Payload.(type) {
	case entities.NavigatePayload:
		return payload.URL, payload.PageTitle
	case entities.PageSnapshot:
		return payload.URL, payload.Title
	case entities.NotePayload:
		return payload.URL, payload.Title
	}
	return "", ""
}

// columnWidths tracks the widest cell per column so the sheet can be
// auto-sized like the operator expects from a hand-made workbook
type columnWidths struct {
	widths []int
}

func newColumnWidths(headers []interface{}) *columnWidths {
	w := &columnWidths{widths: make([]int, len(headers))}
	w.observe(headers)
	return w
}

func (w *columnWidths) observe(row []interface{}) {
	for i, value := range row {
		if i >= len(w.widths) {
			break
		}
		length := len(fmt.Sprint(value))
		if length > w.widths[i] {
			w.widths[i] = length
		}
	}
}

func (w *columnWidths) apply(f *excelize.File, sheet string) error {
	for i, width := range w.widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("resolve column %d: %w", i+1, err)
		}
		adjusted := width + 2
		if adjusted > maxColumnWidth {
			adjusted = maxColumnWidth
		}
		if err := f.SetColWidth(sheet, name, name, float64(adjusted)); err != nil {
			return fmt.Errorf("set column width %s: %w", name, err)
		}
	}
	return nil
}
