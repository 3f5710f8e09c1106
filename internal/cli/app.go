// Package cli is the terminal front end for captlog. It prompts for the
// passphrase, opens the storage backend and runs a small REPL over it.
// All persistence and crypto decisions live behind services.Backend; this
// package only renders results and relays typed errors to the user.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/captlog/internal/common"
	"github.com/dmitrijs2005/captlog/internal/config"
	"github.com/dmitrijs2005/captlog/internal/logging"
	"github.com/dmitrijs2005/captlog/internal/models"
	"github.com/dmitrijs2005/captlog/internal/services"
)

// maxPassphraseAttempts bounds the unlock retry loop.
const maxPassphraseAttempts = 3

type App struct {
	backend services.Backend
	reader  *bufio.Reader
	out     io.Writer

	// last listings, so commands can address entries and bookmarks by
	// their 1-based display number
	lastEntries   []models.LogEntry
	lastBookmarks []models.Bookmark
}

// NewApp prompts for the passphrase (set-and-confirm on first run) and
// opens the store described by cfg.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	out := os.Stdout

	backend, err := openBackend(ctx, cfg.DBPath, logger, out)
	if err != nil {
		return nil, err
	}

	return newAppWithBackend(backend, os.Stdin, out), nil
}

func newAppWithBackend(backend services.Backend, in io.Reader, out io.Writer) *App {
	return &App{backend: backend, reader: bufio.NewReader(in), out: out}
}

func openBackend(ctx context.Context, dbPath string, logger logging.Logger, out io.Writer) (services.Backend, error) {
	if services.IsNewStore(dbPath) {
		fmt.Fprintln(out, "No log found, setting one up.")
		passphrase, err := confirmNewPassphrase(out)
		if err != nil {
			return nil, err
		}
		fmt.Fprintln(out, "Generating key...")
		return services.Open(ctx, dbPath, passphrase, logger)
	}

	for attempt := 1; ; attempt++ {
		passphrase, err := GetPassphrase("Passphrase", out)
		if err != nil {
			return nil, err
		}
		backend, err := services.Open(ctx, dbPath, passphrase, logger)
		if err == nil {
			return backend, nil
		}
		if !errors.Is(err, common.ErrWrongPassphrase) || attempt == maxPassphraseAttempts {
			return nil, err
		}
		fmt.Fprintln(out, "Wrong passphrase, try again.")
	}
}

func confirmNewPassphrase(out io.Writer) ([]byte, error) {
	for {
		passphrase, err := GetPassphrase("New passphrase", out)
		if err != nil {
			return nil, err
		}
		confirm, err := GetPassphrase("Confirm passphrase", out)
		if err != nil {
			return nil, err
		}
		if string(passphrase) == string(confirm) {
			return passphrase, nil
		}
		fmt.Fprintln(out, "Passphrases do not match, try again.")
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.backend.Close()
	runREPL(ctx, a, a.reader, a.out)
}

// entryByNumber resolves a 1-based display number from the last listing.
func (a *App) entryByNumber(arg string) (*models.LogEntry, error) {
	n, err := parseNumber(arg, len(a.lastEntries))
	if err != nil {
		return nil, err
	}
	return &a.lastEntries[n-1], nil
}

func (a *App) bookmarkByNumber(arg string) (*models.Bookmark, error) {
	n, err := parseNumber(arg, len(a.lastBookmarks))
	if err != nil {
		return nil, err
	}
	return &a.lastBookmarks[n-1], nil
}

func parseNumber(arg string, max int) (int, error) {
	var n int
	if _, err := fmt.Sscanf(arg, "%d", &n); err != nil {
		return 0, fmt.Errorf("%q is not a number", arg)
	}
	if n < 1 || n > max {
		return 0, fmt.Errorf("no item %d in the last listing", n)
	}
	return n, nil
}
