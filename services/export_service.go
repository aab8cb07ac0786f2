package services

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"formflow_app_go/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// The export boundary flattens a form's label-keyed submission documents
// into a rectangular table. Columns are the union of all labels seen across
// the export set, in first-seen order; cells missing from a document render
// as empty strings. List values are joined with ", ".

// SubmissionTable is the rectangular projection handed to each writer
type SubmissionTable struct {
	Columns []string
	Rows    [][]string
}

// exportMetaColumns lead every export row
var exportMetaColumns = []string{"Submission ID", "Submitted At"}

// BuildSubmissionTable loads a form's submissions oldest first and flattens
// them into one table.
func BuildSubmissionTable(dbConn *gorm.DB, formID string) (*SubmissionTable, error) {
	if verr := ValidateUUID(formID, CodeInvalidUUID); verr != nil {
		return nil, verr
	}

	var submissions []models.Submission
	if err := dbConn.Where("form_id = ?", formID).
		Order("submitted_at ASC, id ASC").
		Find(&submissions).Error; err != nil {
		return nil, fmt.Errorf("failed to load submissions: %w", err)
	}

	// Seed columns from the form's current field labels in document order so
	// the table reflects the builder layout even before divergent historical
	// submissions add extra columns.
	labels := []string{}
	seen := map[string]bool{}
	if form, err := GetFormTree(dbConn, formID); err == nil {
		for _, step := range form.Steps {
			for _, field := range step.Fields {
				if !seen[field.Label] {
					seen[field.Label] = true
					labels = append(labels, field.Label)
				}
			}
		}
	}

	docs := make([]map[string]interface{}, len(submissions))
	for i, sub := range submissions {
		doc, err := sub.DataMap()
		if err != nil {
			doc = map[string]interface{}{}
		}
		docs[i] = doc
		// Historical labels no longer on the form still get columns, in the
		// order they first appear in the stored documents.
		for _, label := range documentKeys(sub.Data) {
			if !seen[label] {
				seen[label] = true
				labels = append(labels, label)
			}
		}
	}

	table := &SubmissionTable{
		Columns: append(append([]string{}, exportMetaColumns...), labels...),
	}
	for i, sub := range submissions {
		row := make([]string, 0, len(table.Columns))
		row = append(row, sub.ID, sub.SubmittedAt.UTC().Format(time.RFC3339))
		for _, label := range labels {
			row = append(row, cellText(docs[i][label]))
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// WriteCSV renders the table as RFC 4180 CSV
func (t *SubmissionTable) WriteCSV() (*bytes.Buffer, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(t.Columns); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf, nil
}

// WriteXLSX renders the table as a single-sheet workbook
func (t *SubmissionTable) WriteXLSX() (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Submissions"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for i, column := range t.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, column)
	}
	if len(t.Columns) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(t.Columns), 1)
		f.SetCellStyle(sheet, "A1", last, headerStyle)
	}

	for r, row := range t.Rows {
		for c, value := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

// WriteJSON renders the table as an array of column-keyed objects
func (t *SubmissionTable) WriteJSON() (*bytes.Buffer, error) {
	records := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		record := make(map[string]string, len(t.Columns))
		for i, column := range t.Columns {
			record[column] = row[i]
		}
		records = append(records, record)
	}
	text, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}
	return bytes.NewBuffer(text), nil
}

// documentKeys returns a JSON object's top-level keys in document order.
// Go maps randomize iteration, so the raw text is tokenized instead.
func documentKeys(raw string) []string {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil
	}

	keys := []string{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return keys
		}
		key, ok := keyTok.(string)
		if !ok {
			return keys
		}
		keys = append(keys, key)
		if err := skipValue(dec); err != nil {
			return keys
		}
	}
	return keys
}

// skipValue consumes one complete JSON value from the decoder
func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); ok && (delim == '{' || delim == '[') {
		depth := 1
		for depth > 0 {
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			if d, ok := tok.(json.Delim); ok {
				switch d {
				case '{', '[':
					depth++
				case '}', ']':
					depth--
				}
			}
		}
	}
	return nil
}

// cellText flattens one submission value to export text. Lists join with
// ", "; booleans render as Yes/No to match the dashboard.
func cellText(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "Yes"
		}
		return "No"
	case float64:
		return formatNumber(v)
	case []interface{}:
		out := ""
		for i, item := range v {
			if i > 0 {
				out += ", "
			}
			out += cellText(item)
		}
		return out
	default:
		text, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(text)
	}
}

// formatNumber renders JSON numbers without a trailing .0 for integers
func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
