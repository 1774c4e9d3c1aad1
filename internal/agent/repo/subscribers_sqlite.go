package repo

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/swasthya-bot/server/internal/agent/model"
	errx "github.com/swasthya-bot/server/internal/core/error"
)

const subscribersSchema = `
CREATE TABLE IF NOT EXISTS subscribers (
	position INTEGER NOT NULL,
	sender   TEXT PRIMARY KEY
);`

// SQLiteSubscriberStore keeps the subscriber list in a SQLite table, ordered
// by position.
type SQLiteSubscriberStore struct {
	db *sql.DB
}

// OpenSQLiteSubscriberStore opens (or creates) the database at path.
func OpenSQLiteSubscriberStore(ctx context.Context, path string) (*SQLiteSubscriberStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// one writer; sqlite serialises writes anyway
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode = WAL;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, subscribersSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &SQLiteSubscriberStore{db: db}, nil
}

func (s *SQLiteSubscriberStore) Load(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT sender FROM subscribers ORDER BY position`)
	if err != nil {
		return nil, errx.WrapPersistence(err)
	}
	defer rows.Close()

	subs := []string{}
	for rows.Next() {
		var sender string
		if err := rows.Scan(&sender); err != nil {
			return nil, errx.WrapPersistence(err)
		}
		subs = append(subs, sender)
	}
	if err := rows.Err(); err != nil {
		return nil, errx.WrapPersistence(err)
	}
	return subs, nil
}

func (s *SQLiteSubscriberStore) Add(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
INSERT OR IGNORE INTO subscribers (position, sender)
VALUES ((SELECT COALESCE(MAX(position), -1) + 1 FROM subscribers), ?)`, id)
	if err != nil {
		return false, errx.WrapPersistence(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errx.WrapPersistence(err)
	}
	return n == 1, nil
}

func (s *SQLiteSubscriberStore) Close() error {
	return s.db.Close()
}

var _ model.SubscriberStore = (*SQLiteSubscriberStore)(nil)
