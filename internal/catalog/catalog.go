// Package catalog keeps survey summaries in a SQLite database so that batch
// runs can be listed and queried later.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/pspoerri/surveygrid/internal/coord"
)

// ErrNotFound is returned when no survey has the requested name.
var ErrNotFound = errors.New("survey not found")

// Catalog is a SQLite-backed survey store.
type Catalog struct {
	db *sql.DB
}

// Entry is a stored survey summary.
type Entry struct {
	ID        uuid.UUID
	Summary   coord.Summary
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Open opens (creating if needed) the catalog at path and applies pending
// migrations.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection serialises writers from concurrent batch workers.
	db.SetMaxOpenConns(1)

	for _, p := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	c := &Catalog{db: db}
	if err := c.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// Close closes the database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Put stores s under its name. Storing a name again replaces the summary
// and keeps the original id.
func (c *Catalog) Put(ctx context.Context, s coord.Summary) (uuid.UUID, error) {
	if s.Name == "" {
		return uuid.Nil, fmt.Errorf("survey has no name")
	}
	data, err := json.Marshal(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encoding summary: %w", err)
	}
	now := time.Now().UTC().Unix()

	var id string
	err = c.db.QueryRowContext(ctx, `
		INSERT INTO surveys (id, name, azimuth, inverted_axis, inline_bin, crline_bin, area_km2, summary, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			azimuth = excluded.azimuth,
			inverted_axis = excluded.inverted_axis,
			inline_bin = excluded.inline_bin,
			crline_bin = excluded.crline_bin,
			area_km2 = excluded.area_km2,
			summary = excluded.summary,
			updated_at = excluded.updated_at
		RETURNING id`,
		uuid.NewString(), s.Name, s.Orientation.Azimuth, s.Orientation.InvertedAxis,
		s.Bins.InlineBinSize, s.Bins.CrlineBinSize, s.Bins.Area, string(data), now, now,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("storing survey %s: %w", s.Name, err)
	}
	return uuid.Parse(id)
}

// Get returns the survey stored under name.
func (c *Catalog) Get(ctx context.Context, name string) (Entry, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT id, summary, created_at, updated_at FROM surveys WHERE name = ?`, name)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return e, err
}

// List returns all stored surveys ordered by name.
func (c *Catalog) List(ctx context.Context) ([]Entry, error) {
	return c.query(ctx, `
		SELECT id, summary, created_at, updated_at FROM surveys ORDER BY name`)
}

// LargerThan returns the surveys covering more than minArea square
// kilometres, largest first.
func (c *Catalog) LargerThan(ctx context.Context, minArea float64) ([]Entry, error) {
	return c.query(ctx, `
		SELECT id, summary, created_at, updated_at FROM surveys
		WHERE area_km2 > ? ORDER BY area_km2 DESC, name`, minArea)
}

// Delete removes the survey stored under name.
func (c *Catalog) Delete(ctx context.Context, name string) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM surveys WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting survey %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

func (c *Catalog) query(ctx context.Context, q string, args ...any) ([]Entry, error) {
	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var (
		id, summary      string
		created, updated int64
	)
	if err := s.Scan(&id, &summary, &created, &updated); err != nil {
		return Entry{}, err
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return Entry{}, fmt.Errorf("bad survey id %q: %w", id, err)
	}
	e := Entry{
		ID:        uid,
		CreatedAt: time.Unix(created, 0).UTC(),
		UpdatedAt: time.Unix(updated, 0).UTC(),
	}
	if err := json.Unmarshal([]byte(summary), &e.Summary); err != nil {
		return Entry{}, fmt.Errorf("decoding summary %s: %w", id, err)
	}
	return e, nil
}
