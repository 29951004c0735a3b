package model

// WatchEntry is the per-file lifecycle record tracked by the ledger.
// Path is the unique key. Uploaded and Archived only ever move from
// false to true; there is deliberately no way to unset them. Missing
// is recomputed on every run from the filesystem and never persisted
// as history.
type WatchEntry struct {
	Path     string
	Archived bool
	Uploaded bool
	Missing  bool
	Ignored  bool
}

// MarkUploaded records a confirmed remote upload.
func (e *WatchEntry) MarkUploaded() {
	e.Uploaded = true
}

// MarkArchived records that a compressed copy has been written.
func (e *WatchEntry) MarkArchived() {
	e.Archived = true
}

// MarkIgnored opts the file out of future checkups.
func (e *WatchEntry) MarkIgnored() {
	e.Ignored = true
}

// Actionable reports whether a checkup should consider this entry.
func (e *WatchEntry) Actionable() bool {
	return !e.Ignored && !e.Missing
}
