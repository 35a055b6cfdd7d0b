package capdata

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
)

// LoadPostgres reads the table from cap_comuni. Rows are read in id order so
// that suggestions are as deterministic as with the CSV source.
func LoadPostgres(ctx context.Context, db *sql.DB) (*Table, error) {
	rows, err := db.QueryContext(ctx, `SELECT cap, comune FROM cap_comuni ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cap_comuni: %w", err)
	}
	defer rows.Close()

	t := newTable()
	for rows.Next() {
		var p Pair
		if err := rows.Scan(&p.CAP, &p.Comune); err != nil {
			return nil, fmt.Errorf("failed to scan cap_comuni row: %w", err)
		}
		t.add(p.CAP, p.Comune)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cap_comuni: %w", err)
	}
	return t, nil
}

// Importer loads CSV files into the cap_comuni table
type Importer struct {
	db *sql.DB
}

// NewImporter creates an importer bound to db
func NewImporter(db *sql.DB) *Importer {
	return &Importer{db: db}
}

// ImportCSV replaces the content of cap_comuni with the rows of the CSV at
// path, in file order, inside a single transaction. It returns the number of
// rows inserted. The schema must already exist, see db.Migrate.
func (im *Importer) ImportCSV(ctx context.Context, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	tx, err := im.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `TRUNCATE cap_comuni RESTART IDENTITY`); err != nil {
		return 0, fmt.Errorf("failed to truncate cap_comuni: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO cap_comuni (cap, comune) VALUES ($1, $2)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	imported := 0
	err = readRows(file, func(p Pair) error {
		capValue, comune := strings.TrimSpace(p.CAP), strings.TrimSpace(p.Comune)
		if capValue == "" || comune == "" {
			return nil
		}
		if _, err := stmt.ExecContext(ctx, capValue, comune); err != nil {
			return fmt.Errorf("failed to insert %s/%s: %w", p.CAP, p.Comune, err)
		}
		imported++
		return nil
	})
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}
	return imported, nil
}
