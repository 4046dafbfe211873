// Package export turns tabular data into downloadable delimited-text files.
package export

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/xxxsen/clinicbill/internal/model"
	appErr "github.com/xxxsen/clinicbill/internal/pkg/errors"
)

// BOM lets spreadsheet applications detect UTF-8 in files with accented text.
const BOM = "\uFEFF"

const (
	FormatCSV         = "csv"
	FormatSpreadsheet = "xls"

	ContentTypeCSV         = "text/csv;charset=utf-8;"
	ContentTypeSpreadsheet = "application/vnd.ms-excel;charset=utf-8;"
)

type File struct {
	Name        string
	ContentType string
	Content     []byte
}

// ToDelimited renders data as BOM + header line + one line per row, lines
// joined by "\n". Row widths are not checked; see Validate.
func ToDelimited(data model.ExportData, delim rune) string {
	var sb strings.Builder
	sb.WriteString(BOM)
	writeLine(&sb, data.Headers, delim)
	for _, row := range data.Rows {
		sb.WriteByte('\n')
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = FormatCell(cell)
		}
		writeLine(&sb, cells, delim)
	}
	return sb.String()
}

// ToCSV builds "<filename>.csv". The spreadsheet variant below carries the
// same rows separated by tabs.
func ToCSV(data model.ExportData) File {
	return File{
		Name:        data.Filename + ".csv",
		ContentType: ContentTypeCSV,
		Content:     []byte(ToDelimited(data, ',')),
	}
}

// ToSpreadsheet builds "<filename>.xls". The payload is tab-separated text
// under a spreadsheet extension and MIME type, not a binary workbook.
func ToSpreadsheet(data model.ExportData) File {
	return File{
		Name:        data.Filename + ".xls",
		ContentType: ContentTypeSpreadsheet,
		Content:     []byte(ToDelimited(data, '\t')),
	}
}

// Render dispatches on the format name ("csv" or "xls").
func Render(data model.ExportData, format string) (File, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatCSV, "":
		return ToCSV(data), nil
	case FormatSpreadsheet, "excel":
		return ToSpreadsheet(data), nil
	default:
		return File{}, fmt.Errorf("%w: unsupported export format %q", appErr.ErrInvalid, format)
	}
}

// Validate reports a blank filename, rows whose width differs from the
// header and cells that are neither strings nor numbers. The serializers
// never call it.
func Validate(data model.ExportData) error {
	if strings.TrimSpace(data.Filename) == "" {
		return fmt.Errorf("%w: export filename is required", appErr.ErrInvalid)
	}
	if strings.ContainsAny(data.Filename, `/\`) {
		return fmt.Errorf("%w: export filename must not contain path separators", appErr.ErrInvalid)
	}
	for i, row := range data.Rows {
		if len(row) != len(data.Headers) {
			return fmt.Errorf("%w: row %d has %d cells, want %d", appErr.ErrInvalid, i, len(row), len(data.Headers))
		}
		for j, cell := range row {
			if !isScalar(cell) {
				return fmt.Errorf("%w: row %d cell %d is %T, want string or number", appErr.ErrInvalid, i, j, cell)
			}
		}
	}
	return nil
}

func isScalar(cell interface{}) bool {
	switch cell.(type) {
	case string, json.Number, int, int32, int64, uint, uint64, float32, float64:
		return true
	default:
		return false
	}
}

// FormatCell renders a string as-is and a number in its shortest decimal form.
func FormatCell(cell interface{}) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return formatFloat(float64(v), 32)
	case float64:
		return formatFloat(v, 64)
	case json.Number:
		return v.String()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(v float64, bits int) string {
	return strconv.FormatFloat(v, 'f', -1, bits)
}

func writeLine(sb *strings.Builder, cells []string, delim rune) {
	for i, cell := range cells {
		if i > 0 {
			sb.WriteRune(delim)
		}
		sb.WriteString(escapeField(cell, delim))
	}
}

func escapeField(field string, delim rune) string {
	if !strings.ContainsRune(field, delim) && !strings.ContainsAny(field, "\"\n") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
