// Package dataprocessing ingests heterogeneous safety and compliance
// registers (Excel workbooks and CSV exports with human-authored, mutually
// inconsistent layouts) and produces canonical unified datasets.
//
// # Architecture
//
// A manifest declares which files and sheets to read, the dataset kind each
// is tagged with, and a per-sheet column mapping to the canonical Arabic
// vocabulary. Each sheet runs through a fixed cleaning chain:
//
//	normalize column labels → promote swallowed header rows → map columns to
//	canonical names → coerce date/numeric columns → clean text → canonicalize
//	status values
//
// The unifier then merges all tables of one kind via union-of-columns
// concatenation: no column observed anywhere is ever dropped, and tables
// missing a column are padded with nulls.
//
// # Error handling
//
// Every pipeline function is total. Unreadable files and sheets are logged
// and skipped, unparsable cells become null, and the only user-visible
// failure mode is a degraded snapshot, never a crash.
//
// # Usage
//
//	processor := dataprocessing.NewProcessor(logger, dataprocessing.LoaderConfig{BaseDir: "database"})
//	snapshot := processor.Run(ctx, manifest)
//	inspections := snapshot.Dataset(domain.KindInspections)
package dataprocessing
