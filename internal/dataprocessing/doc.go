// Package dataprocessing is the consolidation core: it parses heterogeneous
// input files into raw records, aligns each record onto its identifier's
// day-zero, merges everything into one wide identifier-by-relative-day table
// and derives per-identifier summary statistics.
//
// # Components
//
// 1. Parser: reads one CSV or Excel file into normalized RawRecords
// 2. Aligner: computes relative day indices against the reference table
// 3. Consolidated: the pivot/merge target with an explicit collision policy
// 4. Summarizer: per-identifier statistics appended to the report
//
// # Data Flow
//
//	input file → ParseFile → RawRecords → Aligner → AlignedRecords →
//	Consolidated.Add → exporter.WriteWide
//
// # Error Handling
//
// Row-level problems (bad dates, unknown identifiers, collisions) never
// become Go errors; they are reported to the issue collector and processing
// continues with reduced data. Only whole-file failures surface as errors,
// and the pipeline treats those as file-level recoverable.
package dataprocessing
