package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dmitrijs2005/captlog/internal/common"
	"github.com/dmitrijs2005/captlog/internal/cryptox"
	"github.com/dmitrijs2005/captlog/internal/dbx"
	"github.com/dmitrijs2005/captlog/internal/filex"
	"github.com/dmitrijs2005/captlog/internal/logging"
	"github.com/dmitrijs2005/captlog/internal/migrations"
	"github.com/dmitrijs2005/captlog/internal/models"
	"github.com/dmitrijs2005/captlog/internal/repositories/bookmarks"
	"github.com/dmitrijs2005/captlog/internal/repositories/entries"
	"github.com/dmitrijs2005/captlog/internal/repositories/verification"
	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// verification record property names
var verificationProps = []string{"kdf", "salt", "iterations", "cipher", "nonce", "verifier"}

// per-entry crypto metadata property names
var cryptoProps = []string{"cipher", "nonce", "hmac", "digest"}

// Compile-time interface satisfaction check.
var _ Backend = (*SQLiteBackend)(nil)

// SQLiteBackend is the default Backend: a single SQLite file holding
// AES-256-CTR encrypted entries, HMAC-SHA256 digests and the passphrase
// verification record. The master key lives only in memory for the
// session; only its derivation inputs are persisted.
type SQLiteBackend struct {
	db     *sql.DB
	key    []byte
	logger logging.Logger
}

// Open creates the store at dbPath on first use or unlocks an existing
// one. The passphrase is the sole credential: on the unlock path the
// stored verifier is decrypted with the derived key and compared to the
// reference text, and any mismatch is reported as ErrWrongPassphrase.
func Open(ctx context.Context, dbPath string, passphrase []byte, logger logging.Logger) (*SQLiteBackend, error) {
	if IsNewStore(dbPath) {
		return create(ctx, dbPath, passphrase, logger)
	}
	return unlock(ctx, dbPath, passphrase, logger)
}

func create(ctx context.Context, dbPath string, passphrase []byte, logger logging.Logger) (*SQLiteBackend, error) {
	if err := filex.EnsureDir(filepath.Dir(dbPath)); err != nil {
		return nil, err
	}

	db, err := openDB(ctx, dbPath)
	if err != nil {
		return nil, err
	}

	salt := common.RandBytes(cryptox.SaltSize)
	key := cryptox.DeriveKey(passphrase, salt, cryptox.Iterations)

	verifier, nonce, err := cryptox.Encrypt(key, []byte(cryptox.ReferenceText))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("unable to create verifier: %w", err)
	}

	record := map[string]string{
		"kdf":        cryptox.KDFName,
		"salt":       base64.StdEncoding.EncodeToString(salt),
		"iterations": strconv.Itoa(cryptox.Iterations),
		"cipher":     cryptox.CipherName,
		"nonce":      base64.StdEncoding.EncodeToString(nonce),
		"verifier":   base64.StdEncoding.EncodeToString(verifier),
	}

	err = dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := verification.NewSQLiteRepository(tx)
		for _, name := range verificationProps {
			if err := repo.Set(ctx, name, record[name]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, storeIO("unable to create database", err)
	}

	logger.Info(ctx, "store created", "path", dbPath)
	return &SQLiteBackend{db: db, key: key, logger: logger}, nil
}

func unlock(ctx context.Context, dbPath string, passphrase []byte, logger logging.Logger) (*SQLiteBackend, error) {
	if err := filex.CheckStoreFile(dbPath); err != nil {
		return nil, err
	}

	db, err := openDB(ctx, dbPath)
	if err != nil {
		return nil, err
	}

	repo := verification.NewSQLiteRepository(db)
	record, err := repo.GetAll(ctx)
	if err != nil {
		_ = db.Close()
		return nil, storeIO("unable to access verification table", err)
	}

	for _, name := range verificationProps {
		if _, ok := record[name]; !ok {
			_ = db.Close()
			return nil, fmt.Errorf("verification table missing %q: %w", name, common.ErrCorruptStore)
		}
	}
	if record["kdf"] != cryptox.KDFName {
		_ = db.Close()
		return nil, fmt.Errorf("unknown key derivation function: %w", common.ErrCorruptStore)
	}
	if record["cipher"] != cryptox.CipherName {
		_ = db.Close()
		return nil, fmt.Errorf("unknown cipher: %w", common.ErrCorruptStore)
	}

	iterations, err := strconv.Atoi(record["iterations"])
	if err != nil || iterations <= 0 {
		_ = db.Close()
		return nil, fmt.Errorf("bad iteration count %q: %w", record["iterations"], common.ErrCorruptStore)
	}

	salt, err := base64.StdEncoding.DecodeString(record["salt"])
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("salt is not valid base64: %w", common.ErrCorruptStore)
	}
	nonce, err := base64.StdEncoding.DecodeString(record["nonce"])
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("nonce is not valid base64: %w", common.ErrCorruptStore)
	}
	verifier, err := base64.StdEncoding.DecodeString(record["verifier"])
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("verifier is not valid base64: %w", common.ErrCorruptStore)
	}

	key := cryptox.DeriveKey(passphrase, salt, iterations)
	decrypted, err := cryptox.Decrypt(key, nonce, verifier)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("unable to decrypt verifier: %w", common.ErrCorruptStore)
	}
	if subtle.ConstantTimeCompare(decrypted, []byte(cryptox.ReferenceText)) == 0 {
		_ = db.Close()
		return nil, common.ErrWrongPassphrase
	}

	logger.Info(ctx, "store unlocked", "path", dbPath)
	return &SQLiteBackend{db: db, key: key, logger: logger}, nil
}

func openDB(ctx context.Context, dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, storeIO("unable to open database", err)
	}
	if err := migrations.Apply(ctx, db); err != nil {
		_ = db.Close()
		return nil, storeIO("unable to prepare schema", err)
	}
	return db, nil
}

func storeIO(msg string, err error) error {
	return fmt.Errorf("%s: %w: %w", msg, common.ErrStoreIO, err)
}

// Close releases the database handle. The backend is unusable afterwards.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

// ListEntries returns all entries newest first with content not loaded;
// nothing is decrypted.
func (b *SQLiteBackend) ListEntries(ctx context.Context) ([]models.LogEntry, error) {
	list, err := entries.NewSQLiteRepository(b.db).ListAll(ctx)
	if err != nil {
		return nil, storeIO("unable to list entries", err)
	}
	return list, nil
}

// NewEntry inserts an empty entry with ctime = mtime = now and returns it
// with its assigned identifier.
func (b *SQLiteBackend) NewEntry(ctx context.Context) (*models.LogEntry, error) {
	now := time.Now().UTC()
	e := &models.LogEntry{ID: uuid.NewString(), CTime: now, MTime: now}

	err := dbx.WithTx(ctx, b.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return entries.NewSQLiteRepository(tx).Insert(ctx, e)
	})
	if err != nil {
		return nil, storeIO("unable to create new entry", err)
	}
	return e, nil
}

// SaveEntry stores the entry's content. The id must already exist. Prior
// crypto metadata is discarded, the content is encrypted with a fresh
// nonce, and metadata, data and mtime are written in one transaction.
// A nil Data clears the stored content. On success e.MTime is updated.
func (b *SQLiteBackend) SaveEntry(ctx context.Context, e *models.LogEntry) error {
	now := time.Now().UTC()

	var (
		stored *string
		props  map[string]string
	)
	if e.Data != nil {
		ciphertext, nonce, err := cryptox.Encrypt(b.key, []byte(*e.Data))
		if err != nil {
			return fmt.Errorf("unable to encrypt entry: %w", err)
		}
		props = map[string]string{
			"cipher": cryptox.CipherName,
			"nonce":  base64.StdEncoding.EncodeToString(nonce),
			"hmac":   cryptox.MACName,
			"digest": cryptox.Digest(b.key, ciphertext),
		}
		s := base64.StdEncoding.EncodeToString(ciphertext)
		stored = &s
	}

	err := dbx.WithTx(ctx, b.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := entries.NewSQLiteRepository(tx)

		ok, err := repo.Exists(ctx, e.ID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("entry %s does not exist yet: %w", e.ID, common.ErrNotFound)
		}

		if err := repo.ReplaceCrypto(ctx, e.ID, props); err != nil {
			return err
		}
		return repo.UpdateData(ctx, e.ID, now, stored)
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return err
		}
		return storeIO("unable to save entry", err)
	}

	e.MTime = now
	return nil
}

// GetEntry loads one entry. If content is stored, its crypto metadata is
// checked, the digest verified over the ciphertext, and only then is the
// content decrypted and returned.
func (b *SQLiteBackend) GetEntry(ctx context.Context, id string) (*models.LogEntry, error) {
	repo := entries.NewSQLiteRepository(b.db)

	e, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, storeIO("unable to get entry", err)
	}
	if e.Data == nil {
		return e, nil
	}

	props, err := repo.GetCrypto(ctx, id)
	if err != nil {
		return nil, storeIO("unable to get entry crypto metadata", err)
	}
	for _, name := range cryptoProps {
		if _, ok := props[name]; !ok {
			return nil, fmt.Errorf("%q missing from entry crypto metadata: %w", name, common.ErrCorruptStore)
		}
	}
	if props["cipher"] != cryptox.CipherName || props["hmac"] != cryptox.MACName {
		return nil, fmt.Errorf("unknown cipher or hmac for entry: %w", common.ErrCorruptStore)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(*e.Data)
	if err != nil {
		return nil, fmt.Errorf("entry data is not valid base64: %w", common.ErrCorruptStore)
	}

	// fail closed: refuse to decrypt anything whose digest does not match
	if !cryptox.VerifyDigest(b.key, ciphertext, props["digest"]) {
		return nil, fmt.Errorf("entry digest does not match: %w", common.ErrCorruptStore)
	}

	nonce, err := base64.StdEncoding.DecodeString(props["nonce"])
	if err != nil {
		return nil, fmt.Errorf("entry nonce is not valid base64: %w", common.ErrCorruptStore)
	}
	plaintext, err := cryptox.Decrypt(b.key, nonce, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("unable to decrypt entry: %w", common.ErrCorruptStore)
	}

	data := string(plaintext)
	e.Data = &data
	return e, nil
}

// DeleteEntry removes the entry, its crypto metadata and every bookmark
// referencing it, in one transaction. Deleting an absent id succeeds.
func (b *SQLiteBackend) DeleteEntry(ctx context.Context, id string) error {
	err := dbx.WithTx(ctx, b.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := entries.NewSQLiteRepository(tx).DeleteByID(ctx, id); err != nil {
			return err
		}
		return bookmarks.NewSQLiteRepository(tx).DeleteByEntryID(ctx, id)
	})
	if err != nil {
		return storeIO("unable to delete entry", err)
	}
	return nil
}

// ListBookmarks returns all bookmarks ordered by text.
func (b *SQLiteBackend) ListBookmarks(ctx context.Context) ([]models.Bookmark, error) {
	list, err := bookmarks.NewSQLiteRepository(b.db).ListAll(ctx)
	if err != nil {
		if errors.Is(err, common.ErrCorruptStore) {
			return nil, err
		}
		return nil, storeIO("unable to list bookmarks", err)
	}
	return list, nil
}

// NewBookmark inserts a bookmark for the given entry and returns it with
// its assigned identifier.
func (b *SQLiteBackend) NewBookmark(ctx context.Context, entryID, text string) (*models.Bookmark, error) {
	bm := &models.Bookmark{ID: uuid.NewString(), EntryID: entryID, Text: text}

	err := dbx.WithTx(ctx, b.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return bookmarks.NewSQLiteRepository(tx).Insert(ctx, bm)
	})
	if err != nil {
		return nil, storeIO("unable to bookmark entry", err)
	}
	return bm, nil
}

// DeleteBookmark removes one bookmark. Deleting an absent id succeeds.
func (b *SQLiteBackend) DeleteBookmark(ctx context.Context, id string) error {
	err := dbx.WithTx(ctx, b.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return bookmarks.NewSQLiteRepository(tx).DeleteByID(ctx, id)
	})
	if err != nil {
		return storeIO("unable to delete bookmark", err)
	}
	return nil
}
