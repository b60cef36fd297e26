// Package metadata describes a loaded dataset and verifies its payload checksum.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Metadata verification errors.
var (
	ErrNoHashFound  = errors.New("no checksum in metadata")
	ErrHashMismatch = errors.New("checksum mismatch")
)

// Metadata identifies one load of a payload.
type Metadata struct {
	LoadID   uuid.UUID `json:"loadId"`
	Source   string    `json:"source"`
	Kind     string    `json:"kind"`
	Checksum string    `json:"checksum"`
	Rows     int       `json:"rows"`
	Columns  []string  `json:"columns"`
	LoadedAt time.Time `json:"loadedAt"`
}

// CalculateHash computes the hex SHA-256 of content.
func CalculateHash(content []byte) string {
	hash := sha256.Sum256(content)

	return hex.EncodeToString(hash[:])
}

// New stamps a fresh load id and the checksum of content.
func New(source, kind string, content []byte, rows int, columns []string) *Metadata {
	return &Metadata{
		LoadID:   uuid.New(),
		Source:   source,
		Kind:     kind,
		Checksum: CalculateHash(content),
		Rows:     rows,
		Columns:  columns,
		LoadedAt: time.Now().UTC(),
	}
}

// Verify checks that content is the payload this metadata was created from.
func (m *Metadata) Verify(content []byte) error {
	if m.Checksum == "" {
		return ErrNoHashFound
	}

	calculated := CalculateHash(content)
	if calculated != m.Checksum {
		return fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, m.Checksum, calculated)
	}

	return nil
}

// ShortID is the first block of the load id, for log lines and report headers.
func (m *Metadata) ShortID() string {
	return m.LoadID.String()[:8]
}
