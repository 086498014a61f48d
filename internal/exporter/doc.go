// Package exporter writes consolidation artifacts to disk.
//
// CSVWriter is the core writing primitive: header plus records, parent
// directory creation, and an optional UTF-8 BOM for Excel compatibility.
//
// WideExporter renders the consolidated identifier-by-relative-day matrix
// as one CSV report, with optional per-identifier summary columns appended
// after the day columns.
package exporter
