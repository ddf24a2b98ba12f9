package config

import (
	"os"
	"path/filepath"
	"testing"
)

// unsetEnv clears key for the test and restores it afterwards.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoadEnv_Defaults(t *testing.T) {
	for _, k := range []string{"FIS_DB", "FIS_ADDR", "FIS_SYSTEM", "FIS_PARTITIONS", "FIS_CACHE_SIZE"} {
		unsetEnv(t, k)
	}
	env := LoadEnv(filepath.Join(t.TempDir(), "missing.env"))
	if env.DBPath != "fuzzy.db" {
		t.Errorf("expected fuzzy.db, got %q", env.DBPath)
	}
	if env.Addr != "localhost:50061" {
		t.Errorf("unexpected addr %q", env.Addr)
	}
	if env.SystemPath != "" || env.Partitions != 0 || env.CacheSize != 64 {
		t.Errorf("unexpected defaults: %+v", env)
	}
}

func TestLoadEnv_DotEnvFile(t *testing.T) {
	for _, k := range []string{"FIS_DB", "FIS_ADDR", "FIS_SYSTEM", "FIS_PARTITIONS", "FIS_CACHE_SIZE"} {
		unsetEnv(t, k)
	}
	t.Setenv("FIS_ADDR", "0.0.0.0:9000")

	path := filepath.Join(t.TempDir(), ".env")
	content := "FIS_DB=/tmp/x.db\nFIS_ADDR=ignored:1\nFIS_PARTITIONS=400\nFIS_CACHE_SIZE=nope\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	env := LoadEnv(path)
	if env.DBPath != "/tmp/x.db" {
		t.Errorf("expected DB from .env, got %q", env.DBPath)
	}
	if env.Addr != "0.0.0.0:9000" {
		t.Errorf("process env should win over .env, got %q", env.Addr)
	}
	if env.Partitions != 400 {
		t.Errorf("expected 400 partitions, got %d", env.Partitions)
	}
	if env.CacheSize != 64 {
		t.Errorf("invalid cache size should fall back to 64, got %d", env.CacheSize)
	}
}
