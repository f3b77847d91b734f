package sqlite

import (
	"context"
	"time"

	"github.com/rpggio/streaks/internal/domain/category"
	"github.com/rpggio/streaks/internal/repository"
)

// CategoryRepository implements category.Repository for SQLite
type CategoryRepository struct {
	db *DB
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

type categoryRow struct {
	ID         string    `db:"id"`
	Title      string    `db:"title"`
	IsSelected bool      `db:"is_selected"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r categoryRow) toDomain() category.Category {
	return category.Category{
		ID:         r.ID,
		Title:      r.Title,
		IsSelected: r.IsSelected,
		CreatedAt:  r.CreatedAt,
	}
}

const categorySelect = `SELECT id, title, is_selected, created_at FROM categories`

// Create inserts a new category
func (r *CategoryRepository) Create(ctx context.Context, c *category.Category) error {
	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, title, is_selected, created_at) VALUES (?, ?, ?, ?)`,
		c.ID, c.Title, false, createdAt)
	if err != nil {
		return mapError("insert category", err)
	}
	c.CreatedAt = createdAt
	return nil
}

// Get retrieves a category by ID
func (r *CategoryRepository) Get(ctx context.Context, id string) (*category.Category, error) {
	return r.getOne(ctx, categorySelect+` WHERE id = ?`, id)
}

// GetByTitle retrieves a category by its unique title
func (r *CategoryRepository) GetByTitle(ctx context.Context, title string) (*category.Category, error) {
	return r.getOne(ctx, categorySelect+` WHERE title = ?`, title)
}

func (r *CategoryRepository) getOne(ctx context.Context, query string, args ...any) (*category.Category, error) {
	var row categoryRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, mapError("get category", err)
	}
	c := row.toDomain()
	return &c, nil
}

// List returns all categories ordered by title
func (r *CategoryRepository) List(ctx context.Context) ([]category.Category, error) {
	var rows []categoryRow
	if err := r.db.SelectContext(ctx, &rows, categorySelect+` ORDER BY title, id`); err != nil {
		return nil, mapError("list categories", err)
	}
	out := make([]category.Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Delete removes a category
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return mapError("delete category", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return mapError("delete category", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CountTrackers returns how many trackers belong to the category
func (r *CategoryRepository) CountTrackers(ctx context.Context, id string) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM trackers WHERE category_id = ?`, id); err != nil {
		return 0, mapError("count category trackers", err)
	}
	return n, nil
}

// Exists reports whether the category is stored
func (r *CategoryRepository) Exists(ctx context.Context, id string) (bool, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM categories WHERE id = ?`, id); err != nil {
		return false, mapError("check category", err)
	}
	return n > 0, nil
}

// SetSelected makes id the only selected category
func (r *CategoryRepository) SetSelected(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return mapError("begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE categories SET is_selected = 0 WHERE is_selected = 1`); err != nil {
		return mapError("clear selected category", err)
	}
	result, err := tx.ExecContext(ctx, `UPDATE categories SET is_selected = 1 WHERE id = ?`, id)
	if err != nil {
		return mapError("select category", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return mapError("select category", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return mapError("commit transaction", err)
	}
	return nil
}

var _ category.Repository = (*CategoryRepository)(nil)
