// Package models defines the diary domain types: log entries and
// bookmarks pointing at them.
package models

import (
	"sort"
	"time"
)

// LogEntry is a single diary entry.
//
// Data is nil when the content has not been loaded (listings stay lazy so
// nothing is decrypted just to render them). A non-nil pointer to an empty
// string is a real, stored empty entry; callers must branch on the pointer,
// not on emptiness.
type LogEntry struct {
	ID    string
	CTime time.Time
	MTime time.Time
	Data  *string
}

// Loaded reports whether the entry content has been fetched and decrypted.
func (e *LogEntry) Loaded() bool {
	return e.Data != nil
}

// SortEntries orders entries newest-first by creation time. This is the
// contractual presentation order for listings.
func SortEntries(entries []LogEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CTime.After(entries[j].CTime)
	})
}
