package watch

import (
	"os"
	"sort"
	"strings"
)

// listBacklog returns the backlog directory's visible file names in
// ASCII sort order, so the work phase can pick the lexicographically
// first non-hidden regular file deterministically.
func listBacklog(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// pickBacklogItem returns the first backlog file in ASCII order, or
// ok=false if the backlog is currently empty.
func pickBacklogItem(dir string) (name string, ok bool, err error) {
	names, err := listBacklog(dir)
	if err != nil {
		return "", false, err
	}
	if len(names) == 0 {
		return "", false, nil
	}
	return names[0], true, nil
}
