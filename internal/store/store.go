package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/fuzzy-controller/internal/config"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS system_versions (
	version_id    TEXT PRIMARY KEY,
	parent_id     TEXT,
	name          TEXT NOT NULL,
	definition    TEXT NOT NULL,
	created_at    TEXT NOT NULL,
	FOREIGN KEY (parent_id) REFERENCES system_versions(version_id)
);

CREATE INDEX IF NOT EXISTS system_versions_name ON system_versions(name);

CREATE TABLE IF NOT EXISTS active_system (
	name          TEXT PRIMARY KEY,
	version_id    TEXT NOT NULL,
	FOREIGN KEY (version_id) REFERENCES system_versions(version_id)
);
`

// timeLayout is fixed width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// #endregion schema

// #region store-struct
// Store keeps versioned system definitions in SQLite with one active
// version per system name.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStoreWithDB wraps an already open database and runs migrations.
func NewStoreWithDB(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion constructor

// #region save-system
// SaveSystem stores a new version of a YAML definition and makes it active.
// The definition must parse and build. An empty name takes the name declared
// in the document. The previous active version becomes the parent.
func (s *Store) SaveSystem(name, definition string) (SystemRecord, error) {
	sf, err := config.ParseSystem([]byte(definition))
	if err != nil {
		return SystemRecord{}, err
	}
	if _, err := sf.Build(); err != nil {
		return SystemRecord{}, fmt.Errorf("build system: %w", err)
	}
	if name == "" {
		name = sf.Name
	}
	if name == "" {
		return SystemRecord{}, fmt.Errorf("save system: definition has no name")
	}

	rec := SystemRecord{
		VersionID:  uuid.New().String(),
		Name:       name,
		Definition: definition,
		CreatedAt:  time.Now().UTC(),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return SystemRecord{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var parent sql.NullString
	err = tx.QueryRow(`SELECT version_id FROM active_system WHERE name = ?`, name).Scan(&parent)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return SystemRecord{}, fmt.Errorf("get active: %w", err)
	}
	if parent.Valid {
		rec.ParentID = parent.String
	}

	_, err = tx.Exec(
		`INSERT INTO system_versions (version_id, parent_id, name, definition, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.VersionID, nullIfEmpty(rec.ParentID), rec.Name, rec.Definition,
		rec.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return SystemRecord{}, fmt.Errorf("insert version: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO active_system (name, version_id) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET version_id = excluded.version_id`,
		name, rec.VersionID,
	)
	if err != nil {
		return SystemRecord{}, fmt.Errorf("set active: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return SystemRecord{}, fmt.Errorf("commit: %w", err)
	}
	return rec, nil
}

// #endregion save-system

// #region get-active
// GetActive reads the active version of the named system.
func (s *Store) GetActive(name string) (SystemRecord, error) {
	var versionID string
	err := s.db.QueryRow(`SELECT version_id FROM active_system WHERE name = ?`, name).Scan(&versionID)
	if errors.Is(err, sql.ErrNoRows) {
		return SystemRecord{}, fmt.Errorf("system %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return SystemRecord{}, fmt.Errorf("get active: %w", err)
	}
	return s.GetVersion(versionID)
}

// #endregion get-active

// #region get-version
// GetVersion retrieves a specific version by ID.
func (s *Store) GetVersion(id string) (SystemRecord, error) {
	row := s.db.QueryRow(
		`SELECT version_id, parent_id, name, definition, created_at
		 FROM system_versions WHERE version_id = ?`, id,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return SystemRecord{}, fmt.Errorf("version %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return SystemRecord{}, fmt.Errorf("get version %s: %w", id, err)
	}
	return rec, nil
}

// #endregion get-version

// #region rollback
// Rollback points the named system at one of its earlier versions.
func (s *Store) Rollback(name, targetVersionID string) error {
	var owner string
	err := s.db.QueryRow(
		`SELECT name FROM system_versions WHERE version_id = ?`, targetVersionID,
	).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("version %s: %w", targetVersionID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("check version: %w", err)
	}
	if owner != name {
		return fmt.Errorf("version %s belongs to %q, not %q", targetVersionID, owner, name)
	}

	_, err = s.db.Exec(`UPDATE active_system SET version_id = ? WHERE name = ?`, targetVersionID, name)
	if err != nil {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}

// #endregion rollback

// #region list
// ListVersions returns the most recent versions of the named system, newest first.
// limit <= 0 returns every version.
func (s *Store) ListVersions(name string, limit int) ([]SystemRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(
		`SELECT version_id, parent_id, name, definition, created_at
		 FROM system_versions WHERE name = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`, name, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var records []SystemRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ListSystems returns every system with its active version, ordered by name.
func (s *Store) ListSystems() ([]SystemSummary, error) {
	rows, err := s.db.Query(
		`SELECT a.name, a.version_id, v.created_at
		 FROM active_system a JOIN system_versions v ON v.version_id = a.version_id
		 ORDER BY a.name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list systems: %w", err)
	}
	defer rows.Close()

	var out []SystemSummary
	for rows.Next() {
		var sum SystemSummary
		var createdStr string
		if err := rows.Scan(&sum.Name, &sum.VersionID, &createdStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		sum.CreatedAt, _ = time.Parse(timeLayout, createdStr)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// #endregion list

// #region helpers
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (SystemRecord, error) {
	var rec SystemRecord
	var parentID sql.NullString
	var createdStr string
	if err := row.Scan(&rec.VersionID, &parentID, &rec.Name, &rec.Definition, &createdStr); err != nil {
		return SystemRecord{}, err
	}
	if parentID.Valid {
		rec.ParentID = parentID.String
	}
	rec.CreatedAt, _ = time.Parse(timeLayout, createdStr)
	return rec, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
