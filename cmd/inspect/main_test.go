package main

import (
	"path/filepath"
	"testing"

	"github.com/danielpatrickdp/fuzzy-controller/internal/store"
)

func TestRunRunsMode_StoreOnlyDB(t *testing.T) {
	st, err := store.NewStore(filepath.Join(t.TempDir(), "fuzzy.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	if err := runRunsMode(st, "", 10, false); err != nil {
		t.Fatalf("expected empty run list on a store-only db, got %v", err)
	}
}
