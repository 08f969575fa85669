package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CategoryRepository handles playlist-category database operations.
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// Create inserts a new category for a user.
func (r *CategoryRepository) Create(ctx context.Context, category *Category) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	query := `
		INSERT INTO categories (id, user_id, name, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query,
		category.ID,
		category.UserID,
		category.Name,
	).Scan(&category.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting category: %w", err)
	}
	return nil
}

// List retrieves a user's categories, newest first.
func (r *CategoryRepository) List(ctx context.Context, userID string) ([]Category, error) {
	query := `
		SELECT id, user_id, name, created_at
		FROM categories
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var category Category
		if err := rows.Scan(
			&category.ID,
			&category.UserID,
			&category.Name,
			&category.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// Rename changes a category's name.
func (r *CategoryRepository) Rename(ctx context.Context, userID string, id uuid.UUID, name string) error {
	query := `UPDATE categories SET name = $3 WHERE user_id = $1 AND id = $2`
	result, err := r.pool.Exec(ctx, query, userID, id, name)
	if err != nil {
		return fmt.Errorf("renaming category: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a category.
func (r *CategoryRepository) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	query := `DELETE FROM categories WHERE user_id = $1 AND id = $2`
	result, err := r.pool.Exec(ctx, query, userID, id)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// PreferenceRepository handles per-user dashboard settings.
type PreferenceRepository struct {
	pool *pgxpool.Pool
}

// Get retrieves a user's preferences, defaulting the theme when none are
// stored yet.
func (r *PreferenceRepository) Get(ctx context.Context, userID string) (*Preferences, error) {
	query := `
		SELECT user_id, theme, updated_at
		FROM preferences
		WHERE user_id = $1
	`
	var prefs Preferences
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&prefs.UserID,
		&prefs.Theme,
		&prefs.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return &Preferences{UserID: userID, Theme: "dark"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying preferences: %w", err)
	}
	return &prefs, nil
}

// SetTheme stores the user's theme choice.
func (r *PreferenceRepository) SetTheme(ctx context.Context, userID, theme string) error {
	query := `
		INSERT INTO preferences (user_id, theme, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			theme = EXCLUDED.theme,
			updated_at = NOW()
	`
	_, err := r.pool.Exec(ctx, query, userID, theme)
	if err != nil {
		return fmt.Errorf("setting theme: %w", err)
	}
	return nil
}
