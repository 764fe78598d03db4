package library

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a requested texture is not in the library.
var ErrNotFound = errors.New("texture not found in library")

// Reader reads textures from a library database.
type Reader struct {
	db   *sql.DB
	path string
}

// OpenReader opens a library database for reading.
func OpenReader(path string) (*Reader, error) {
	// Open in read-only mode with immutable flag
	db, err := sql.Open("sqlite", path+"?mode=ro&immutable=1")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify schema exists
	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='textures'").Scan(&count)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to verify schema: %w", err)
	}
	if count == 0 {
		db.Close()
		return nil, fmt.Errorf("database does not contain textures table")
	}

	return &Reader{
		db:   db,
		path: path,
	}, nil
}

// ReadTexture reads a stored texture by name.
func (r *Reader) ReadTexture(name string) (Entry, error) {
	var (
		entry   Entry
		created string
	)
	err := r.db.QueryRow(
		"SELECT name, size, project, png, created_at FROM textures WHERE name=?",
		name,
	).Scan(&entry.Name, &entry.Size, &entry.Project, &entry.PNG, &created)

	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("failed to query texture %q: %w", name, err)
	}

	entry.CreatedAt, err = time.Parse(time.RFC3339, created)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to parse created_at for texture %q: %w", name, err)
	}

	return entry, nil
}

// List returns summaries of all stored textures, ordered by name.
func (r *Reader) List() ([]Summary, error) {
	rows, err := r.db.Query("SELECT name, size, created_at FROM textures ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query textures: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var (
			s       Summary
			created string
		)
		if err := rows.Scan(&s.Name, &s.Size, &created); err != nil {
			return nil, fmt.Errorf("failed to scan texture row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			s.CreatedAt = t
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating textures: %w", err)
	}

	return summaries, nil
}

// Metadata reads library metadata from the database.
func (r *Reader) Metadata() (Metadata, error) {
	rows, err := r.db.Query("SELECT name, value FROM metadata")
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to query metadata: %w", err)
	}
	defer rows.Close()

	metaMap := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return Metadata{}, fmt.Errorf("failed to scan metadata row: %w", err)
		}
		metaMap[name] = value
	}

	if err := rows.Err(); err != nil {
		return Metadata{}, fmt.Errorf("error iterating metadata: %w", err)
	}

	return Metadata{
		Name:        metaMap["name"],
		Description: metaMap["description"],
		Version:     metaMap["version"],
	}, nil
}

// Close closes the database connection.
func (r *Reader) Close() error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
