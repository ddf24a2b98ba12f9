package logging

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS inference_log (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id          TEXT NOT NULL UNIQUE,
	system_name     TEXT NOT NULL,
	version_id      TEXT,
	inputs_json     TEXT NOT NULL,
	outputs_json    TEXT,
	strengths_json  TEXT,
	error           TEXT,
	duration_us     INTEGER NOT NULL,
	created_at      TEXT NOT NULL
);
`

// EnsureSchema creates the inference_log table if it does not exist.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("migrate inference_log: %w", err)
	}
	return nil
}

// #endregion schema

// #region log-run
// LogRun writes an inference run to the inference_log table and returns its run id.
func LogRun(db *sql.DB, entry RunEntry) (string, error) {
	if entry.RunID == "" {
		entry.RunID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	inputs, err := json.Marshal(entry.Inputs)
	if err != nil {
		return "", fmt.Errorf("marshal inputs: %w", err)
	}

	outputs, err := encodeFloats(entry.Outputs)
	if err != nil {
		return "", fmt.Errorf("marshal outputs: %w", err)
	}
	strengths, err := encodeFloats(entry.Strengths)
	if err != nil {
		return "", fmt.Errorf("marshal strengths: %w", err)
	}

	_, err = db.Exec(
		`INSERT INTO inference_log (run_id, system_name, version_id, inputs_json, outputs_json, strengths_json, error, duration_us, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RunID,
		entry.SystemName,
		nullIfEmpty(entry.VersionID),
		string(inputs),
		nullIfEmpty(outputs),
		nullIfEmpty(strengths),
		nullIfEmpty(entry.Error),
		entry.DurationMicros,
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("log run: %w", err)
	}
	return entry.RunID, nil
}

// #endregion log-run

// #region list-runs
// ListRuns returns the most recent runs, newest first. An empty system lists
// every system; limit <= 0 returns all runs.
func ListRuns(db *sql.DB, system string, limit int) ([]RunEntry, error) {
	query := `SELECT run_id, system_name, version_id, inputs_json, outputs_json, strengths_json, error, duration_us, created_at
		FROM inference_log`
	args := []any{}
	if system != "" {
		query += ` WHERE system_name = ?`
		args = append(args, system)
	}
	if limit <= 0 {
		limit = -1
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunEntry
	for rows.Next() {
		var e RunEntry
		var versionID, outputs, strengths, errText sql.NullString
		var inputs, createdStr string
		if err := rows.Scan(&e.RunID, &e.SystemName, &versionID, &inputs, &outputs, &strengths,
			&errText, &e.DurationMicros, &createdStr); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		e.VersionID = versionID.String
		e.Error = errText.String
		if err := json.Unmarshal([]byte(inputs), &e.Inputs); err != nil {
			return nil, fmt.Errorf("run %s inputs: %w", e.RunID, err)
		}
		if e.Outputs, err = decodeFloats(outputs); err != nil {
			return nil, fmt.Errorf("run %s outputs: %w", e.RunID, err)
		}
		if e.Strengths, err = decodeFloats(strengths); err != nil {
			return nil, fmt.Errorf("run %s strengths: %w", e.RunID, err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		runs = append(runs, e)
	}
	return runs, rows.Err()
}

// #endregion list-runs

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// encodeFloats returns "" for a nil slice so failed runs store NULL.
// NaN and Inf cannot be encoded and are reported.
func encodeFloats(v []float64) (string, error) {
	if v == nil {
		return "", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeFloats(s sql.NullString) ([]float64, error) {
	if !s.Valid {
		return nil, nil
	}
	var v []float64
	if err := json.Unmarshal([]byte(s.String), &v); err != nil {
		return nil, err
	}
	return v, nil
}

// #endregion helpers
