package store

import (
	"errors"
	"time"
)

// ErrNotFound reports an unknown system name or version id.
var ErrNotFound = errors.New("not found")

// #region system-record
// SystemRecord is one stored version of a system definition.
type SystemRecord struct {
	VersionID  string
	ParentID   string
	Name       string
	Definition string // YAML document
	CreatedAt  time.Time
}

// #endregion system-record

// #region system-summary
// SystemSummary names a system and its active version.
type SystemSummary struct {
	Name      string
	VersionID string
	CreatedAt time.Time
}

// #endregion system-summary
