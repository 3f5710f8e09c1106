// Package bookmarks persists named pointers to log entries. Display text
// is base64 in the bookmark table, the store's encoding for binary-safe
// text columns.
package bookmarks

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/dmitrijs2005/captlog/internal/common"
	"github.com/dmitrijs2005/captlog/internal/dbx"
	"github.com/dmitrijs2005/captlog/internal/models"
)

var _ Repository = (*SQLiteRepository)(nil)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, b *models.Bookmark) error {
	encoded := base64.StdEncoding.EncodeToString([]byte(b.Text))
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bookmark (id_bm, id_le, bookmark_text) VALUES (?, ?, ?)`,
		b.ID, b.EntryID, encoded)
	if err != nil {
		return fmt.Errorf("failed to insert bookmark: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListAll(ctx context.Context) ([]models.Bookmark, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id_bm, id_le, bookmark_text FROM bookmark`)
	if err != nil {
		return nil, fmt.Errorf("failed to select bookmarks: %w", err)
	}
	defer rows.Close()

	var result []models.Bookmark
	for rows.Next() {
		var (
			item    models.Bookmark
			encoded string
		)
		if err := rows.Scan(&item.ID, &item.EntryID, &encoded); err != nil {
			return nil, fmt.Errorf("failed to scan bookmark row: %w", err)
		}
		text, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("bookmark %s text is not valid base64: %w", item.ID, common.ErrCorruptStore)
		}
		item.Text = string(text)
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookmark rows: %w", err)
	}

	// text order is decided on the decoded text, not the stored encoding
	models.SortBookmarks(result)
	return result, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM bookmark WHERE id_bm = ?`, id); err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteByEntryID(ctx context.Context, entryID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM bookmark WHERE id_le = ?`, entryID); err != nil {
		return fmt.Errorf("failed to delete bookmarks for entry: %w", err)
	}
	return nil
}
