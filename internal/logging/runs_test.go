package logging

import (
	"database/sql"
	"math"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

// #region helpers
func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	if err := EnsureSchema(db); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	return db
}

// #endregion helpers

// #region log-run-tests
func TestLogRun_Success(t *testing.T) {
	db := setupDB(t)
	defer db.Close()

	entry := RunEntry{
		RunID:          "run-1",
		SystemName:     "tip",
		VersionID:      "v1",
		Inputs:         []float64{7.892, 7.41},
		Outputs:        []float64{17.4},
		Strengths:      []float64{0, 0.2, 0.7},
		DurationMicros: 42,
		CreatedAt:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	id, err := LogRun(db, entry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "run-1" {
		t.Errorf("expected run id 'run-1', got %q", id)
	}

	runs, err := ListRuns(db, "tip", 10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	got := runs[0]
	if got.VersionID != "v1" || got.DurationMicros != 42 {
		t.Errorf("unexpected run: %+v", got)
	}
	if len(got.Inputs) != 2 || got.Inputs[1] != 7.41 {
		t.Errorf("inputs did not round-trip: %v", got.Inputs)
	}
	if len(got.Strengths) != 3 || got.Strengths[2] != 0.7 {
		t.Errorf("strengths did not round-trip: %v", got.Strengths)
	}
	if !got.CreatedAt.Equal(entry.CreatedAt) {
		t.Errorf("created_at mismatch: %v", got.CreatedAt)
	}
}

func TestLogRun_GeneratesIDAndTime(t *testing.T) {
	db := setupDB(t)
	defer db.Close()

	before := time.Now().UTC()
	id, err := LogRun(db, RunEntry{SystemName: "tip", Inputs: []float64{1, 2}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated run id")
	}

	var createdAtStr string
	db.QueryRow("SELECT created_at FROM inference_log").Scan(&createdAtStr)
	createdAt, err := time.Parse(time.RFC3339Nano, createdAtStr)
	if err != nil {
		t.Fatalf("parse created_at: %v", err)
	}
	if createdAt.Before(before) {
		t.Error("expected auto-filled created_at to be >= test start time")
	}
}

func TestLogRun_FailedRunStoresNulls(t *testing.T) {
	db := setupDB(t)
	defer db.Close()

	_, err := LogRun(db, RunEntry{
		SystemName: "tip",
		Inputs:     []float64{5},
		Error:      "index out of range: 1 values for 2 inputs",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var versionID, outputs, strengths sql.NullString
	db.QueryRow("SELECT version_id, outputs_json, strengths_json FROM inference_log").Scan(
		&versionID, &outputs, &strengths,
	)
	if versionID.Valid {
		t.Error("expected NULL version_id for empty string")
	}
	if outputs.Valid || strengths.Valid {
		t.Error("expected NULL outputs and strengths for a failed run")
	}

	runs, _ := ListRuns(db, "", 10)
	if len(runs) != 1 || runs[0].Error == "" || runs[0].Outputs != nil {
		t.Errorf("unexpected failed run: %+v", runs)
	}
}

func TestLogRun_Error(t *testing.T) {
	db := setupDB(t)
	db.Close() // close to force error

	if _, err := LogRun(db, RunEntry{SystemName: "tip"}); err == nil {
		t.Fatal("expected error on closed db")
	}
}

func TestLogRun_NonFiniteOutputs(t *testing.T) {
	db := setupDB(t)
	defer db.Close()

	_, err := LogRun(db, RunEntry{SystemName: "tip", Inputs: []float64{1, 2}, Outputs: []float64{math.NaN()}})
	if err == nil {
		t.Fatal("expected error for NaN output")
	}
	_, err = LogRun(db, RunEntry{SystemName: "tip", Inputs: []float64{1, 2}, Outputs: []float64{1}, Strengths: []float64{math.Inf(1)}})
	if err == nil {
		t.Fatal("expected error for Inf strength")
	}

	runs, _ := ListRuns(db, "tip", 0)
	if len(runs) != 0 {
		t.Errorf("expected no rows written, got %d", len(runs))
	}
}

// #endregion log-run-tests

// #region list-runs-tests
func TestListRuns_FilterAndOrder(t *testing.T) {
	db := setupDB(t)
	defer db.Close()

	for _, name := range []string{"tip", "fan", "tip"} {
		if _, err := LogRun(db, RunEntry{SystemName: name, Inputs: []float64{1}}); err != nil {
			t.Fatal(err)
		}
	}
	last, _ := LogRun(db, RunEntry{RunID: "newest", SystemName: "tip", Inputs: []float64{2}})

	runs, err := ListRuns(db, "tip", 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected limit 2, got %d", len(runs))
	}
	if runs[0].RunID != last {
		t.Errorf("expected newest first, got %s", runs[0].RunID)
	}

	all, _ := ListRuns(db, "", 10)
	if len(all) != 4 {
		t.Errorf("expected 4 runs across systems, got %d", len(all))
	}

	unbounded, _ := ListRuns(db, "tip", 0)
	if len(unbounded) != 3 {
		t.Errorf("expected limit 0 to return all 3 tip runs, got %d", len(unbounded))
	}
}

// #endregion list-runs-tests

// #region null-if-empty-tests
func TestNullIfEmpty_Empty(t *testing.T) {
	if result := nullIfEmpty(""); result != nil {
		t.Errorf("expected nil for empty string, got %v", result)
	}
}

func TestNullIfEmpty_NonEmpty(t *testing.T) {
	if result := nullIfEmpty("hello"); result != "hello" {
		t.Errorf("expected 'hello', got %v", result)
	}
}

// #endregion null-if-empty-tests
