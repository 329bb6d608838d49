package mdbg

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	unsortedEdgesFile = "edges_unsorted"
	sortedEdgesFile   = "edges_sorted"
)

// prepareWorkDir creates dir if it doesn't exist and returns the
// paths of the intermediate files the pipeline uses inside it.
func prepareWorkDir(dir string) (unsorted, sorted string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("[prepareWorkDir] %w", err)
	}
	return filepath.Join(dir, unsortedEdgesFile), filepath.Join(dir, sortedEdgesFile), nil
}

// cleanupWorkDir removes the pipeline's own intermediate files on
// success (spec.md §3: "cleanup on success is required"). Sort-run
// scratch files are removed by extsort.Sort itself once the merge
// finishes.
func cleanupWorkDir(paths ...string) {
	for _, p := range paths {
		os.Remove(p)
	}
}
