// Package store persists datasets in a local SQLite database so that the CLI
// and the HTTP server can share an imported collection of persons.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/matzehuels/chronoline/pkg/dataset"
	apperr "github.com/matzehuels/chronoline/pkg/errors"
	"github.com/matzehuels/chronoline/pkg/timeline"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound is returned when a requested person does not exist.
var ErrNotFound = errors.New("not found")

const (
	orderCategory = "category"
	orderCountry  = "country"
)

// Store wraps SQLite access for persons and group orders.
type Store struct {
	db *sql.DB
}

// Import records one ImportDataset call.
type Import struct {
	Source     string
	Persons    int
	ImportedAt time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases alive and serializes
	// writers.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS persons (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			birth INTEGER NOT NULL,
			death INTEGER NOT NULL,
			category TEXT NOT NULL,
			country TEXT NOT NULL,
			reign_start INTEGER,
			reign_end INTEGER,
			achievements TEXT NOT NULL DEFAULT '[]'
		);`,
		`CREATE TABLE IF NOT EXISTS group_orders (
			kind TEXT NOT NULL,
			position INTEGER NOT NULL,
			key TEXT NOT NULL,
			PRIMARY KEY (kind, position)
		);`,
		`CREATE TABLE IF NOT EXISTS imports (
			id INTEGER PRIMARY KEY,
			source TEXT NOT NULL,
			persons INTEGER NOT NULL,
			imported_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_persons_category ON persons(category);`,
		`CREATE INDEX IF NOT EXISTS idx_persons_birth ON persons(birth);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ImportDataset replaces the stored dataset with d in one transaction and
// records the import under source. It returns the number of persons stored.
func (s *Store) ImportDataset(ctx context.Context, d *dataset.Dataset, source string) (n int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range []string{`DELETE FROM persons`, `DELETE FROM group_orders`} {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return 0, err
		}
	}

	insert, err := tx.PrepareContext(ctx,
		`INSERT INTO persons (id, position, name, birth, death, category, country, reign_start, reign_end, achievements)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name, birth = excluded.birth, death = excluded.death,
		   category = excluded.category, country = excluded.country,
		   reign_start = excluded.reign_start, reign_end = excluded.reign_end,
		   achievements = excluded.achievements`)
	if err != nil {
		return 0, err
	}
	defer insert.Close()

	for i, p := range d.Persons {
		achievements, mErr := json.Marshal(p.Achievements)
		if mErr != nil {
			err = mErr
			return 0, err
		}
		if p.Achievements == nil {
			achievements = []byte("[]")
		}
		if _, err = insert.ExecContext(ctx, p.ID, i, p.Name, p.BirthYear, p.DeathYear,
			p.Category, p.Country, nullInt(p.ReignStart), nullInt(p.ReignEnd), string(achievements)); err != nil {
			return 0, fmt.Errorf("insert %s: %w", p.ID, err)
		}
	}

	orders := map[string][]string{orderCategory: d.Categories, orderCountry: d.Countries}
	for kind, keys := range orders {
		for i, key := range keys {
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO group_orders (kind, position, key) VALUES (?, ?, ?)`, kind, i, key); err != nil {
				return 0, err
			}
		}
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO imports (source, persons, imported_at) VALUES (?, ?, ?)`,
		source, len(d.Persons), time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return len(d.Persons), nil
}

// Dataset loads every stored person with the stored group orders.
func (s *Store) Dataset(ctx context.Context) (*dataset.Dataset, error) {
	persons, err := s.Persons(ctx, Query{})
	if err != nil {
		return nil, err
	}
	d := &dataset.Dataset{Persons: persons}
	if d.Categories, err = s.groupOrder(ctx, orderCategory); err != nil {
		return nil, err
	}
	if d.Countries, err = s.groupOrder(ctx, orderCountry); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Store) groupOrder(ctx context.Context, kind string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM group_orders WHERE kind = ? ORDER BY position`, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Query narrows Persons. Zero fields do not filter.
type Query struct {
	Category string
	// Country matches the primary country or any "/"-separated part.
	Country string
	Limit   int
}

// Filter applies q to persons held in memory, with the same semantics as
// Persons. It is used for datasets that do not come from a store.
func (q Query) Filter(persons []timeline.Person) []timeline.Person {
	var out []timeline.Person
	for _, p := range persons {
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if q.Country != "" && !slices.Contains(p.Countries(), q.Country) {
			continue
		}
		out = append(out, p)
	}
	return out
}

const personColumns = `id, name, birth, death, category, country, reign_start, reign_end, achievements`

// Persons returns the stored persons matching q in import order.
func (s *Store) Persons(ctx context.Context, q Query) ([]timeline.Person, error) {
	query := `SELECT ` + personColumns + ` FROM persons WHERE 1 = 1`
	var args []any
	if q.Category != "" {
		query += ` AND category = ?`
		args = append(args, q.Category)
	}
	if q.Country != "" {
		query += ` AND ('/' || country || '/') LIKE ?`
		args = append(args, "%/"+q.Country+"/%")
	}
	query += ` ORDER BY position`
	if q.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []timeline.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Person returns the person with the given ID or ErrNotFound.
func (s *Store) Person(ctx context.Context, id string) (timeline.Person, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+personColumns+` FROM persons WHERE id = ?`, id)
	p, err := scanPerson(row)
	if errors.Is(err, sql.ErrNoRows) {
		return timeline.Person{}, apperr.Wrap(apperr.ErrCodePersonNotFound, ErrNotFound, "person %q", id)
	}
	return p, err
}

// Count returns the number of stored persons.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM persons`).Scan(&n)
	return n, err
}

// LastImport returns the most recent import or ErrNotFound.
func (s *Store) LastImport(ctx context.Context) (Import, error) {
	var (
		imp Import
		at  string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT source, persons, imported_at FROM imports ORDER BY id DESC LIMIT 1`).Scan(&imp.Source, &imp.Persons, &at)
	if errors.Is(err, sql.ErrNoRows) {
		return Import{}, ErrNotFound
	}
	if err != nil {
		return Import{}, err
	}
	imp.ImportedAt, err = time.Parse(time.RFC3339Nano, at)
	return imp, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPerson(sc scanner) (timeline.Person, error) {
	var (
		p            timeline.Person
		reignStart   sql.NullInt64
		reignEnd     sql.NullInt64
		achievements string
	)
	if err := sc.Scan(&p.ID, &p.Name, &p.BirthYear, &p.DeathYear, &p.Category, &p.Country,
		&reignStart, &reignEnd, &achievements); err != nil {
		return p, err
	}
	p.ReignStart = intPtr(reignStart)
	p.ReignEnd = intPtr(reignEnd)
	if err := json.Unmarshal([]byte(achievements), &p.Achievements); err != nil {
		return p, fmt.Errorf("person %s: achievements: %w", p.ID, err)
	}
	if len(p.Achievements) == 0 {
		p.Achievements = nil
	}
	return p, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
