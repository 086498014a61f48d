// Package files locates input data files for a consolidation run.
//
// Discovery scans the immediate subdirectories of a configured base
// directory: each data source delivers its files into its own subdirectory,
// and FindDataFiles returns every file matching the configured mask in a
// deterministic (lexically sorted) order. WalkTree relaxes the one-level
// layout for the collation review tool, which inspects the whole tree.
package files
