package models

import "sort"

// Bookmark is a named pointer to a log entry. Bookmarks are created against
// an existing entry and never mutated afterwards.
type Bookmark struct {
	ID      string
	EntryID string
	Text    string
}

// SortBookmarks orders bookmarks by display text, ascending. Creation time
// carries no meaning for bookmarks, so text order is the contract.
func SortBookmarks(bookmarks []Bookmark) {
	sort.SliceStable(bookmarks, func(i, j int) bool {
		return bookmarks[i].Text < bookmarks[j].Text
	})
}
