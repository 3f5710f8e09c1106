// Package entries persists diary log entries: the logentry table holds
// ids, timestamps and base64 ciphertext, the logentry_crypto table holds
// the per-entry crypto property bag (cipher, nonce, hmac, digest).
package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/captlog/internal/common"
	"github.com/dmitrijs2005/captlog/internal/dbx"
	"github.com/dmitrijs2005/captlog/internal/models"
)

// timeLayout is fixed-width UTC so that lexicographic order of the stored
// text equals chronological order, which ORDER BY relies on.
const timeLayout = "2006-01-02 15:04:05.000000000"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad stored timestamp %q: %w", s, err)
	}
	return t, nil
}

var _ Repository = (*SQLiteRepository)(nil)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, e *models.LogEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO logentry (id_le, ctime, mtime, data) VALUES (?, ?, ?, NULL)`,
		e.ID, formatTime(e.CTime), formatTime(e.MTime))
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListAll(ctx context.Context) ([]models.LogEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id_le, ctime, mtime FROM logentry ORDER BY ctime DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	var result []models.LogEntry
	for rows.Next() {
		var (
			item         models.LogEntry
			ctime, mtime string
		)
		if err := rows.Scan(&item.ID, &ctime, &mtime); err != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		if item.CTime, err = parseTime(ctime); err != nil {
			return nil, err
		}
		if item.MTime, err = parseTime(mtime); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entry rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.LogEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id_le, ctime, mtime, data FROM logentry WHERE id_le = ?`, id)

	var (
		e            models.LogEntry
		ctime, mtime string
		data         sql.NullString
	)
	err := row.Scan(&e.ID, &ctime, &mtime, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("entry %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}

	if e.CTime, err = parseTime(ctime); err != nil {
		return nil, err
	}
	if e.MTime, err = parseTime(mtime); err != nil {
		return nil, err
	}
	if data.Valid {
		e.Data = &data.String
	}
	return &e, nil
}

func (r *SQLiteRepository) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM logentry WHERE id_le = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check entry existence: %w", err)
	}
	return true, nil
}

func (r *SQLiteRepository) UpdateData(ctx context.Context, id string, mtime time.Time, data *string) error {
	var stored sql.NullString
	if data != nil {
		stored = sql.NullString{String: *data, Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE logentry SET mtime = ?, data = ? WHERE id_le = ?`,
		formatTime(mtime), stored, id)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM logentry_crypto WHERE id_le = ?`, id); err != nil {
		return fmt.Errorf("failed to delete entry crypto metadata: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM logentry WHERE id_le = ?`, id); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ReplaceCrypto(ctx context.Context, id string, props map[string]string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM logentry_crypto WHERE id_le = ?`, id); err != nil {
		return fmt.Errorf("failed to discard entry crypto metadata: %w", err)
	}
	for name, value := range props {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO logentry_crypto (id_le, prop_name, prop_value) VALUES (?, ?, ?)`,
			id, name, value); err != nil {
			return fmt.Errorf("failed to insert entry crypto metadata: %w", err)
		}
	}
	return nil
}

func (r *SQLiteRepository) GetCrypto(ctx context.Context, id string) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT prop_name, prop_value FROM logentry_crypto WHERE id_le = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to select entry crypto metadata: %w", err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("failed to scan crypto metadata row: %w", err)
		}
		result[name] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate crypto metadata rows: %w", err)
	}
	return result, nil
}
