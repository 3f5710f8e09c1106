package cli

import (
	"context"
	"fmt"
)

// Marks prints all bookmarks, ordered by text, and remembers the listing.
func (a *App) Marks(ctx context.Context) error {
	list, err := a.backend.ListBookmarks(ctx)
	if err != nil {
		return err
	}
	a.lastBookmarks = list

	if len(list) == 0 {
		fmt.Fprintln(a.out, "No bookmarks.")
		return nil
	}
	for i, bm := range list {
		fmt.Fprintf(a.out, "%3d  %s\n", i+1, bm.Text)
	}
	return nil
}

// Mark bookmarks an entry from the last listing with the given text.
func (a *App) Mark(ctx context.Context, entryArg, text string) error {
	ref, err := a.entryByNumber(entryArg)
	if err != nil {
		return err
	}

	if _, err := a.backend.NewBookmark(ctx, ref.ID, text); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Bookmark added.")
	return nil
}

// DeleteMark removes a bookmark from the last marks listing.
func (a *App) DeleteMark(ctx context.Context, arg string) error {
	ref, err := a.bookmarkByNumber(arg)
	if err != nil {
		return err
	}

	if err := a.backend.DeleteBookmark(ctx, ref.ID); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Bookmark deleted.")
	return nil
}
