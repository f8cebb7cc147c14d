// Package exporter writes the unified datasets out as CSV, Excel and JSON
// reports. CSV files carry a UTF-8 BOM so Excel on Windows renders Arabic
// text correctly without an import dialog.
package exporter
