package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CreateContributor inserts a new contributor and returns it with generated
// fields populated.
func (s *Store) CreateContributor(ctx context.Context, c Contributor) (Contributor, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return Contributor{}, errors.New("contributor name is required")
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := s.execWithRetry(ctx, `
		INSERT INTO contributors (id, name, name_search, age_range, gender, location, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, foldSearch(c.Name), c.AgeRange, c.Gender, c.Location,
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt))
	if err != nil {
		return Contributor{}, fmt.Errorf("insert contributor: %w", err)
	}
	return c, nil
}

// UpdateContributor rewrites the mutable fields of an existing contributor.
func (s *Store) UpdateContributor(ctx context.Context, c Contributor) (Contributor, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return Contributor{}, errors.New("contributor name is required")
	}
	c.UpdatedAt = time.Now().UTC()

	res, err := s.execWithRetry(ctx, `
		UPDATE contributors
		SET name = ?, name_search = ?, age_range = ?, gender = ?, location = ?, updated_at = ?
		WHERE id = ?`,
		c.Name, foldSearch(c.Name), c.AgeRange, c.Gender, c.Location,
		formatTime(c.UpdatedAt), c.ID)
	if err != nil {
		return Contributor{}, fmt.Errorf("update contributor: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Contributor{}, fmt.Errorf("update contributor: %w", err)
	}
	if affected == 0 {
		return Contributor{}, ErrNotFound
	}
	return s.GetContributor(ctx, c.ID)
}

// GetContributor fetches one contributor by id.
func (s *Store) GetContributor(ctx context.Context, id string) (Contributor, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, age_range, gender, location, created_at, updated_at
		FROM contributors WHERE id = ?`, id)
	return scanContributor(row)
}

// DeleteContributor removes a contributor; its recordings cascade.
func (s *Store) DeleteContributor(ctx context.Context, id string) error {
	res, err := s.execWithRetry(ctx, "DELETE FROM contributors WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete contributor: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete contributor: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListContributors returns contributors newest first, optionally filtered by
// a diacritic-insensitive name query.
func (s *Store) ListContributors(ctx context.Context, query string) ([]Contributor, error) {
	ctx = ensureContext(ctx)

	sqlQuery := `
		SELECT id, name, age_range, gender, location, created_at, updated_at
		FROM contributors`
	var args []any
	if strings.TrimSpace(query) != "" {
		sqlQuery += ` WHERE name_search LIKE ? ESCAPE '\'`
		args = append(args, likePattern(query))
	}
	sqlQuery += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("list contributors: %w", err)
	}
	defer rows.Close()

	var out []Contributor
	for rows.Next() {
		c, err := scanContributor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContributor(row rowScanner) (Contributor, error) {
	var (
		c                    Contributor
		createdAt, updatedAt string
	)
	err := row.Scan(&c.ID, &c.Name, &c.AgeRange, &c.Gender, &c.Location, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Contributor{}, ErrNotFound
	}
	if err != nil {
		return Contributor{}, fmt.Errorf("scan contributor: %w", err)
	}
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	return c, nil
}
