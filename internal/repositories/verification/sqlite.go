// Package verification persists the store's verification record: the KDF
// and cipher parameters plus the passphrase verifier, kept as a one-row-
// per-property bag in the verification table.
package verification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/captlog/internal/dbx"
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

func (r *SQLiteRepository) Get(ctx context.Context, name string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT prop_value FROM verification WHERE prop_name = ?`, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get verification[%s]: %w", name, err)
	}
	return value, true, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, name, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO verification (prop_name, prop_value) VALUES (?, ?)
		ON CONFLICT(prop_name) DO UPDATE SET prop_value = excluded.prop_value
	`, name, value)
	if err != nil {
		return fmt.Errorf("failed to set verification[%s]: %w", name, err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT prop_name, prop_value FROM verification`)
	if err != nil {
		return nil, fmt.Errorf("failed to read verification table: %w", err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("failed to scan verification row: %w", err)
		}
		result[name] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate verification rows: %w", err)
	}

	return result, nil
}
