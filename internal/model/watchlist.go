package model

import "fmt"

// Watchlist is the in-memory working set for one run. It owns every
// WatchEntry exclusively; callers borrow entries by pointer and must
// not hold them past the run. Order is significant: the ledger file
// round-trips byte for byte, so entries keep their load order and new
// files append at the end.
type Watchlist struct {
	entries []*WatchEntry
	byPath  map[string]*WatchEntry
}

// Counts are derived totals, recomputed on demand rather than
// maintained incrementally so they cannot drift out of sync.
type Counts struct {
	Total    int
	Uploaded int
	Archived int
	Missing  int
	Ignored  int
}

func NewWatchlist() *Watchlist {
	return &Watchlist{byPath: make(map[string]*WatchEntry)}
}

// Append adds an entry, rejecting duplicate paths.
func (w *Watchlist) Append(e *WatchEntry) error {
	if e == nil || e.Path == "" {
		return fmt.Errorf("watchlist entry requires a path")
	}
	if _, ok := w.byPath[e.Path]; ok {
		return fmt.Errorf("duplicate watchlist entry for %s", e.Path)
	}
	w.entries = append(w.entries, e)
	w.byPath[e.Path] = e
	return nil
}

// Lookup returns the entry for path, if tracked.
func (w *Watchlist) Lookup(path string) (*WatchEntry, bool) {
	e, ok := w.byPath[path]
	return e, ok
}

// Entries returns the entries in ledger order. The slice is a copy;
// the entries themselves are shared.
func (w *Watchlist) Entries() []*WatchEntry {
	out := make([]*WatchEntry, len(w.entries))
	copy(out, w.entries)
	return out
}

func (w *Watchlist) Len() int {
	return len(w.entries)
}

// Remove drops the entry for path, preserving the order of the rest.
func (w *Watchlist) Remove(path string) bool {
	if _, ok := w.byPath[path]; !ok {
		return false
	}
	delete(w.byPath, path)
	for i, e := range w.entries {
		if e.Path == path {
			w.entries = append(w.entries[:i], w.entries[i+1:]...)
			break
		}
	}
	return true
}

// DropMissing removes every entry currently flagged missing and
// returns how many were dropped. Used by the explicit clean operation
// only; missing entries are never purged implicitly.
func (w *Watchlist) DropMissing() int {
	kept := w.entries[:0]
	dropped := 0
	for _, e := range w.entries {
		if e.Missing {
			delete(w.byPath, e.Path)
			dropped++
			continue
		}
		kept = append(kept, e)
	}
	w.entries = kept
	return dropped
}

// Counts recomputes derived totals from scratch.
func (w *Watchlist) Counts() Counts {
	c := Counts{Total: len(w.entries)}
	for _, e := range w.entries {
		if e.Uploaded {
			c.Uploaded++
		}
		if e.Archived {
			c.Archived++
		}
		if e.Missing {
			c.Missing++
		}
		if e.Ignored {
			c.Ignored++
		}
	}
	return c
}
