package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/danielpatrickdp/fuzzy-controller/internal/logging"
	"github.com/danielpatrickdp/fuzzy-controller/internal/replay"
	"github.com/danielpatrickdp/fuzzy-controller/internal/store"
)

const fanSystem = `
name: fan
inputs:
  - name: temp
    range: [0, 40]
    terms:
      - {name: hot, type: triangle}
outputs:
  - name: speed
    range: [0, 100]
    terms:
      - {name: fast, type: triangle}
rules:
  - conditions: [hot]
    conclusions: [fast]
`

func TestRun_FreshStoreHasNoRuns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fuzzy.db")
	st, err := store.NewStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := st.SaveSystem("fan", fanSystem); err != nil {
		t.Fatal(err)
	}
	st.Close()

	err = run(dbPath, "fan", 10, filepath.Join(t.TempDir(), "fan.json"))
	if err == nil || !strings.Contains(err.Error(), "no successful runs") {
		t.Fatalf("expected no-runs error on a store-only db, got %v", err)
	}
}

func TestRun_ExportsLoggedRuns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fuzzy.db")
	st, err := store.NewStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	rec, err := st.SaveSystem("fan", fanSystem)
	if err != nil {
		t.Fatal(err)
	}
	if err := logging.EnsureSchema(st.DB()); err != nil {
		t.Fatal(err)
	}
	for _, x := range []float64{20, 30} {
		if _, err := logging.LogRun(st.DB(), logging.RunEntry{
			SystemName: "fan", VersionID: rec.VersionID,
			Inputs: []float64{x}, Outputs: []float64{50},
		}); err != nil {
			t.Fatal(err)
		}
	}
	logging.LogRun(st.DB(), logging.RunEntry{SystemName: "fan", VersionID: rec.VersionID, Inputs: []float64{}, Error: "index out of range"})
	st.Close()

	out := filepath.Join(t.TempDir(), "fan.json")
	if err := run(dbPath, "fan", 10, out); err != nil {
		t.Fatalf("run: %v", err)
	}
	f, err := replay.LoadFixture(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Cases) != 2 {
		t.Fatalf("expected 2 successful cases, got %d", len(f.Cases))
	}
	if f.Cases[0].Inputs[0] != 20 || f.Cases[1].Inputs[0] != 30 {
		t.Errorf("expected chronological order, got %v then %v", f.Cases[0].Inputs, f.Cases[1].Inputs)
	}
	if _, err := f.Engine(); err != nil {
		t.Errorf("exported system does not build: %v", err)
	}
}
