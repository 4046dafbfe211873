package model

// ExportData is a transient table handed to the exporter. Each cell is a
// string or a number; every row is expected to be as wide as Headers.
type ExportData struct {
	Headers  []string        `json:"headers"`
	Rows     [][]interface{} `json:"rows"`
	Filename string          `json:"filename"`
}
