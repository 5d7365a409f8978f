// Package graphstore keeps a library of graphs in SQLite. Each graph is
// stored as its JSON document, the same format graph files use, so a stored
// graph round-trips unchanged.
package graphstore

import (
	"bytes"
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/vk/bpscript/internal/blueprint"
	"github.com/vk/bpscript/internal/ctxlog"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

var (
	// ErrNotFound is returned when no graph has the requested id.
	ErrNotFound = errors.New("graph not found")
	// ErrMissingID is returned when storing a graph without an id.
	ErrMissingID = errors.New("graph has no id")
)

// Summary describes a stored graph without decoding it.
type Summary struct {
	ID        string
	Name      string
	UpdatedAt time.Time
}

// SQLite is a graph library backed by a SQLite database file.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path and applies the schema.
func Open(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open graph store: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize graph store schema: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("Graph store opened.", "path", path)
	return &SQLite{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Put stores g under its id, replacing any graph already stored there.
func (s *SQLite) Put(ctx context.Context, g *blueprint.Graph) error {
	if g.ID == "" {
		return ErrMissingID
	}
	doc, err := g.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to encode graph %s: %w", g.ID, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO graphs (id, name, document, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, document = excluded.document, updated_at = excluded.updated_at`,
		g.ID, g.Name, string(doc), s.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to store graph %s: %w", g.ID, err)
	}
	ctxlog.FromContext(ctx).Debug("Graph stored.", "graphID", g.ID, "name", g.Name)
	return nil
}

// Get loads the graph stored under id.
func (s *SQLite) Get(ctx context.Context, id string) (*blueprint.Graph, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM graphs WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load graph %s: %w", id, err)
	}
	return blueprint.Decode(bytes.NewReader([]byte(doc)), blueprint.FormatJSON)
}

// List returns every stored graph ordered by name, then id.
func (s *SQLite) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, updated_at FROM graphs ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list graphs: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum     Summary
			updated int64
		)
		if err := rows.Scan(&sum.ID, &sum.Name, &updated); err != nil {
			return nil, fmt.Errorf("failed to read graph row: %w", err)
		}
		sum.UpdatedAt = time.UnixMilli(updated)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Delete removes the graph stored under id.
func (s *SQLite) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM graphs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete graph %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete graph %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
