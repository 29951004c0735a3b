// Package reconcile merges a directory scan with the persisted ledger.
package reconcile

import (
	"os"

	"clipkeeper/internal/model"
	"clipkeeper/internal/scan"
)

// Result summarizes what one merge changed.
type Result struct {
	Added   int
	Missing int
}

// Merge folds scanned files into the watchlist and refreshes the
// missing flag on every entry. Entries are matched by full absolute
// path: a moved file shows up as a new entry while its old path goes
// missing, which is visible and recoverable, unlike a silent
// filename-based merge. Existing entries are otherwise left alone, so
// merging the same scan twice is a no-op.
func Merge(list *model.Watchlist, files []scan.File) (Result, error) {
	var res Result
	for _, f := range files {
		if _, ok := list.Lookup(f.Path); ok {
			continue
		}
		if err := list.Append(&model.WatchEntry{Path: f.Path}); err != nil {
			return res, err
		}
		res.Added++
	}

	for _, e := range list.Entries() {
		e.Missing = !fileExists(e.Path)
		if e.Missing {
			res.Missing++
		}
	}
	return res, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
