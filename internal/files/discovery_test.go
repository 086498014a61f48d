package files

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvcts/internal/issues"
)

func testCollector() *issues.Collector {
	return issues.NewCollector(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// buildTree creates files under root; keys are slash-separated relative paths.
func buildTree(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte("ID,Date,Response\n"), 0644))
	}
}

func TestFindDataFiles(t *testing.T) {
	root := t.TempDir()
	buildTree(t, root,
		"siteB/data.csv",
		"siteA/data.csv",
		"siteA/notes.txt",
		"toplevel.csv", // directly in root, must not be picked up
	)
	ic := testCollector()

	d := NewDiscovery(root)
	paths, err := d.FindDataFiles("*.csv", ic)
	require.NoError(t, err)

	// Sorted lexically for deterministic traversal order.
	want := []string{
		filepath.Join(root, "siteA", "data.csv"),
		filepath.Join(root, "siteB", "data.csv"),
	}
	assert.Equal(t, want, paths)
	assert.Equal(t, 0, ic.Len())
}

func TestFindDataFiles_MatchlessSubdirReported(t *testing.T) {
	root := t.TempDir()
	buildTree(t, root,
		"siteA/data.csv",
		"siteB/readme.txt",
	)
	ic := testCollector()

	d := NewDiscovery(root)
	paths, err := d.FindDataFiles("*.csv", ic)
	require.NoError(t, err)
	assert.Len(t, paths, 1)

	require.Equal(t, 1, ic.Len())
	issue := ic.Issues()[0]
	assert.Equal(t, issues.KindNoMatchingFiles, issue.Kind)
	assert.Equal(t, filepath.Join(root, "siteB"), issue.Source)
}

func TestFindDataFiles_MissingRootIsFatal(t *testing.T) {
	d := NewDiscovery(filepath.Join(t.TempDir(), "absent"))
	_, err := d.FindDataFiles("*.csv", testCollector())
	assert.Error(t, err)
}

func TestFindDataFiles_InvalidMask(t *testing.T) {
	root := t.TempDir()
	buildTree(t, root, "siteA/data.csv")

	d := NewDiscovery(root)
	_, err := d.FindDataFiles("[", testCollector())
	assert.Error(t, err)
}

func TestWalkTree(t *testing.T) {
	root := t.TempDir()
	buildTree(t, root,
		"a/deep/nested/one.csv",
		"a/two.csv",
		"three.csv",
		"b/skip.txt",
	)

	d := NewDiscovery(root)
	paths, err := d.WalkTree("*.csv")
	require.NoError(t, err)

	want := []string{
		filepath.Join(root, "a", "deep", "nested", "one.csv"),
		filepath.Join(root, "a", "two.csv"),
		filepath.Join(root, "three.csv"),
	}
	assert.Equal(t, want, paths)
}
