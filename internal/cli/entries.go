package cli

import (
	"context"
	"fmt"
)

const timeDisplayLayout = "2006-01-02 15:04"

// List prints all entries newest first and remembers the listing so other
// commands can address entries by number.
func (a *App) List(ctx context.Context) error {
	entries, err := a.backend.ListEntries(ctx)
	if err != nil {
		return err
	}
	a.lastEntries = entries

	if len(entries) == 0 {
		fmt.Fprintln(a.out, "The log is empty.")
		return nil
	}
	for i, e := range entries {
		fmt.Fprintf(a.out, "%3d  created %s  modified %s\n",
			i+1, e.CTime.Local().Format(timeDisplayLayout), e.MTime.Local().Format(timeDisplayLayout))
	}
	return nil
}

// New creates an entry, reads its content and saves it.
func (a *App) New(ctx context.Context) error {
	entry, err := a.backend.NewEntry(ctx)
	if err != nil {
		return err
	}

	text, err := GetMultiline(a.reader, "Entry content:", a.out)
	if err != nil {
		return err
	}
	entry.Data = &text
	if err := a.backend.SaveEntry(ctx, entry); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Entry saved.")
	return nil
}

// Show displays the decrypted content of one entry from the last listing.
func (a *App) Show(ctx context.Context, arg string) error {
	ref, err := a.entryByNumber(arg)
	if err != nil {
		return err
	}

	entry, err := a.backend.GetEntry(ctx, ref.ID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Created  %s\nModified %s\n\n",
		entry.CTime.Local().Format(timeDisplayLayout), entry.MTime.Local().Format(timeDisplayLayout))
	if entry.Data != nil {
		fmt.Fprintln(a.out, *entry.Data)
	}
	return nil
}

// Edit replaces the content of one entry from the last listing.
func (a *App) Edit(ctx context.Context, arg string) error {
	ref, err := a.entryByNumber(arg)
	if err != nil {
		return err
	}

	entry, err := a.backend.GetEntry(ctx, ref.ID)
	if err != nil {
		return err
	}

	text, err := GetMultiline(a.reader, "New content:", a.out)
	if err != nil {
		return err
	}
	entry.Data = &text
	if err := a.backend.SaveEntry(ctx, entry); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Entry saved.")
	return nil
}

// Delete removes one entry from the last listing, with its bookmarks.
func (a *App) Delete(ctx context.Context, arg string) error {
	ref, err := a.entryByNumber(arg)
	if err != nil {
		return err
	}

	if err := a.backend.DeleteEntry(ctx, ref.ID); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Entry deleted.")
	return nil
}
