// Package sqlite provides a SQLite-backed implementation of the store
// contracts. Card records are stored as JSON documents keyed by their
// identifiers; scalar tables hold balances, progress, and cooldowns.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/xtding233/cardgame-backend/internal/card"
	"github.com/xtding233/cardgame-backend/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS catalog_cards (
	id INTEGER PRIMARY KEY,
	data TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS owned_cards (
	instance_id TEXT PRIMARY KEY,
	seq INTEGER,
	data TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS balances (
	currency TEXT PRIMARY KEY,
	amount INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS district_progress (
	district_id TEXT PRIMARY KEY,
	kills INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS cooldowns (
	instance_id TEXT PRIMARY KEY,
	expires_at INTEGER NOT NULL
);
`

// Store is a SQLite-backed store.Store.
type Store struct {
	db *sql.DB
}

// Open opens (and if necessary initializes) the database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	db, err := sql.Open("sqlite", filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ListCards(ctx context.Context) ([]card.Card, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM catalog_cards ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	var out []card.Card
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		var c card.Card
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode card: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) UpsertCard(ctx context.Context, c card.Card) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode card: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO catalog_cards (id, data) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data`, c.ID, raw)
	if err != nil {
		return fmt.Errorf("upsert card %d: %w", c.ID, err)
	}
	return nil
}

func (s *Store) DeleteCard(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM catalog_cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete card %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListOwned(ctx context.Context) ([]card.PlayerCard, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM owned_cards ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list owned: %w", err)
	}
	defer rows.Close()

	var out []card.PlayerCard
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan owned card: %w", err)
		}
		var pc card.PlayerCard
		if err := json.Unmarshal(raw, &pc); err != nil {
			return nil, fmt.Errorf("decode owned card: %w", err)
		}
		out = append(out, pc)
	}
	return out, rows.Err()
}

func (s *Store) AddOwned(ctx context.Context, cards []card.PlayerCard) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("add owned: %w", err)
	}
	defer tx.Rollback()

	for _, pc := range cards {
		raw, err := json.Marshal(pc)
		if err != nil {
			return fmt.Errorf("encode owned card: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO owned_cards (instance_id, seq, data)
			 VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM owned_cards), ?)
			 ON CONFLICT(instance_id) DO UPDATE SET data = excluded.data`,
			pc.InstanceID, raw)
		if err != nil {
			return fmt.Errorf("insert owned card %s: %w", pc.InstanceID, err)
		}
	}
	return tx.Commit()
}

func (s *Store) RemoveOwned(ctx context.Context, instanceIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("remove owned: %w", err)
	}
	defer tx.Rollback()

	for _, iid := range instanceIDs {
		if _, err := tx.ExecContext(ctx, `DELETE FROM owned_cards WHERE instance_id = ?`, iid); err != nil {
			return fmt.Errorf("delete owned card %s: %w", iid, err)
		}
	}
	return tx.Commit()
}

func (s *Store) Balances(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT currency, amount FROM balances`)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var cur string
		var amount int
		if err := rows.Scan(&cur, &amount); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		out[cur] = amount
	}
	return out, rows.Err()
}

func (s *Store) SetBalances(ctx context.Context, balances map[string]int) error {
	return s.replaceAll(ctx, `balances`, func(tx *sql.Tx) error {
		for cur, amount := range balances {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO balances (currency, amount) VALUES (?, ?)`, cur, amount); err != nil {
				return fmt.Errorf("insert balance %s: %w", cur, err)
			}
		}
		return nil
	})
}

func (s *Store) DistrictProgress(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT district_id, kills FROM district_progress`)
	if err != nil {
		return nil, fmt.Errorf("list district progress: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var district string
		var kills int
		if err := rows.Scan(&district, &kills); err != nil {
			return nil, fmt.Errorf("scan district progress: %w", err)
		}
		out[district] = kills
	}
	return out, rows.Err()
}

func (s *Store) SetDistrictProgress(ctx context.Context, progress map[string]int) error {
	return s.replaceAll(ctx, `district_progress`, func(tx *sql.Tx) error {
		for district, kills := range progress {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO district_progress (district_id, kills) VALUES (?, ?)`, district, kills); err != nil {
				return fmt.Errorf("insert district progress %s: %w", district, err)
			}
		}
		return nil
	})
}

func (s *Store) Cooldowns(ctx context.Context) (map[string]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT instance_id, expires_at FROM cooldowns`)
	if err != nil {
		return nil, fmt.Errorf("list cooldowns: %w", err)
	}
	defer rows.Close()

	out := make(map[string]time.Time)
	for rows.Next() {
		var iid string
		var expires int64
		if err := rows.Scan(&iid, &expires); err != nil {
			return nil, fmt.Errorf("scan cooldown: %w", err)
		}
		out[iid] = time.Unix(expires, 0).UTC()
	}
	return out, rows.Err()
}

func (s *Store) SetCooldowns(ctx context.Context, cooldowns map[string]time.Time) error {
	return s.replaceAll(ctx, `cooldowns`, func(tx *sql.Tx) error {
		for iid, expires := range cooldowns {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO cooldowns (instance_id, expires_at) VALUES (?, ?)`, iid, expires.Unix()); err != nil {
				return fmt.Errorf("insert cooldown %s: %w", iid, err)
			}
		}
		return nil
	})
}

// replaceAll clears a table and repopulates it inside one transaction, so a
// Set* call is atomic with respect to readers.
func (s *Store) replaceAll(ctx context.Context, table string, fill func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace %s: %w", table, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	if err := fill(tx); err != nil {
		return err
	}
	return tx.Commit()
}
