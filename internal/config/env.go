package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// #region env
// Env is the process configuration shared by the commands.
type Env struct {
	DBPath     string // FIS_DB
	Addr       string // FIS_ADDR
	SystemPath string // FIS_SYSTEM, empty means use the stored system
	Partitions int    // FIS_PARTITIONS, 0 keeps the system's own setting
	CacheSize  int    // FIS_CACHE_SIZE
}

// LoadEnv reads .env files (default ./.env, missing files ignored) and then
// the process environment. Variables already set in the environment win.
func LoadEnv(files ...string) Env {
	_ = godotenv.Load(files...)
	return Env{
		DBPath:     envOr("FIS_DB", "fuzzy.db"),
		Addr:       envOr("FIS_ADDR", "localhost:50061"),
		SystemPath: os.Getenv("FIS_SYSTEM"),
		Partitions: envInt("FIS_PARTITIONS", 0),
		CacheSize:  envInt("FIS_CACHE_SIZE", 64),
	}
}

// #endregion env

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	n, err := strconv.Atoi(envOr(key, ""))
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

// #endregion helpers
