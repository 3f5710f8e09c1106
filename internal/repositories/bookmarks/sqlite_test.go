package bookmarks

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/captlog/internal/common"
	"github.com/dmitrijs2005/captlog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1) // a pooled connection would see its own empty memory db
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE bookmark (
  id_bm         TEXT PRIMARY KEY,
  id_le         TEXT NOT NULL,
  bookmark_text TEXT NOT NULL
);
`)
	require.NoError(t, err)

	return db
}

func TestInsertAndListAll_RoundTripAndOrder(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, &models.Bookmark{ID: "b1", EntryID: "e1", Text: "Warp notes"}))
	require.NoError(t, r.Insert(ctx, &models.Bookmark{ID: "b2", EntryID: "e1", Text: "Ch.1"}))
	require.NoError(t, r.Insert(ctx, &models.Bookmark{ID: "b3", EntryID: "e2", Text: "Журнал"}))

	list, err := r.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, "Ch.1", list[0].Text)
	assert.Equal(t, "Warp notes", list[1].Text)
	assert.Equal(t, "Журнал", list[2].Text)
	assert.Equal(t, "e1", list[0].EntryID)
}

func TestListAll_TextStoredBase64(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, &models.Bookmark{ID: "b1", EntryID: "e1", Text: "Ch.1"}))

	var stored string
	require.NoError(t, db.QueryRow(`SELECT bookmark_text FROM bookmark WHERE id_bm = 'b1'`).Scan(&stored))
	assert.Equal(t, "Q2guMQ==", stored)
}

func TestListAll_BadEncodingIsCorruption(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := db.Exec(`INSERT INTO bookmark (id_bm, id_le, bookmark_text) VALUES ('b1', 'e1', '%%%not-base64%%%')`)
	require.NoError(t, err)

	_, err = r.ListAll(context.Background())
	require.ErrorIs(t, err, common.ErrCorruptStore)
}

func TestDeleteByID_Idempotent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, &models.Bookmark{ID: "b1", EntryID: "e1", Text: "x"}))
	require.NoError(t, r.DeleteByID(ctx, "b1"))
	require.NoError(t, r.DeleteByID(ctx, "b1"))

	list, err := r.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDeleteByEntryID(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, &models.Bookmark{ID: "b1", EntryID: "e1", Text: "one"}))
	require.NoError(t, r.Insert(ctx, &models.Bookmark{ID: "b2", EntryID: "e1", Text: "two"}))
	require.NoError(t, r.Insert(ctx, &models.Bookmark{ID: "b3", EntryID: "e2", Text: "keep"}))

	require.NoError(t, r.DeleteByEntryID(ctx, "e1"))

	list, err := r.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b3", list[0].ID)
}
