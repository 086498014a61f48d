package files

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"csvcts/internal/issues"
)

// Discovery locates input data files beneath a base directory.
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance rooted at basePath.
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindDataFiles scans the immediate subdirectories of the base directory and
// returns the paths of files whose names match mask, sorted lexically so
// traversal order is deterministic across runs. A subdirectory containing no
// match is reported to ic. Files sitting directly in the base directory are
// not picked up; each source delivers into its own subdirectory.
func (d *Discovery) FindDataFiles(mask string, ic *issues.Collector) ([]string, error) {
	entries, err := os.ReadDir(d.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory %s: %w", d.basePath, err)
	}

	var paths []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		subdir := filepath.Join(d.basePath, entry.Name())
		files, err := os.ReadDir(subdir)
		if err != nil {
			ic.Record(issues.Issue{
				Kind:     issues.KindFileUnreadable,
				Severity: issues.SeverityError,
				Source:   subdir,
				Message:  fmt.Sprintf("cannot read directory: %v", err),
			})
			continue
		}

		matched := false
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			ok, err := filepath.Match(mask, f.Name())
			if err != nil {
				return nil, fmt.Errorf("invalid file mask %q: %w", mask, err)
			}
			if ok {
				matched = true
				paths = append(paths, filepath.Join(subdir, f.Name()))
			}
		}
		if !matched {
			ic.Record(issues.Issue{
				Kind:     issues.KindNoMatchingFiles,
				Severity: issues.SeverityWarn,
				Source:   subdir,
				Message:  fmt.Sprintf("no file matching %q in directory", mask),
			})
		}
	}

	sort.Strings(paths)
	return paths, nil
}

// WalkTree returns every file under the base directory, at any depth, whose
// name matches mask, sorted lexically. Used by the collation review tool,
// which inspects the whole tree rather than one level.
func (d *Discovery) WalkTree(mask string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(d.basePath, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		ok, matchErr := filepath.Match(mask, entry.Name())
		if matchErr != nil {
			return fmt.Errorf("invalid file mask %q: %w", mask, matchErr)
		}
		if ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", d.basePath, err)
	}

	sort.Strings(paths)
	return paths, nil
}
