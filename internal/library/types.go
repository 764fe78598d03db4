// Package library stores rendered textures in a single SQLite database so
// batch renders can be archived, listed, and served without a directory of
// loose PNG files.
package library

import "time"

// Metadata contains library-wide metadata fields.
type Metadata struct {
	Name        string // Human-readable library identifier
	Description string // Human-readable description
	Version     string // Version string
}

// ToMap converts Metadata to a map for database insertion.
func (m Metadata) ToMap() map[string]string {
	result := make(map[string]string)

	if m.Name != "" {
		result["name"] = m.Name
	}
	if m.Description != "" {
		result["description"] = m.Description
	}
	if m.Version != "" {
		result["version"] = m.Version
	}

	return result
}

// Entry is one stored texture: the encoded PNG plus the project it was
// rendered from.
type Entry struct {
	Name      string
	Project   []byte // project JSON the texture was rendered from
	PNG       []byte
	Size      int
	CreatedAt time.Time
}

// Summary identifies a stored texture without carrying its pixel data.
type Summary struct {
	Name      string
	Size      int
	CreatedAt time.Time
}
