package food

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Repository is a database-backed catalog. Items come back in insertion
// order, which is the order a search enumerates them.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Save inserts an item into the given category.
func (r *Repository) Save(ctx context.Context, cat Category, item Item) error {
	return insertItem(ctx, r.db, cat, item)
}

// SaveCatalog inserts every item of c in a single transaction and returns
// how many were written.
func (r *Repository) SaveCatalog(ctx context.Context, c Catalog) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	count := 0
	for _, cat := range Categories {
		for _, item := range c.Items(cat) {
			if err := insertItem(ctx, tx, cat, item); err != nil {
				return 0, err
			}
			count++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit catalog: %w", err)
	}
	return count, nil
}

func insertItem(ctx context.Context, ex execer, cat Category, item Item) error {
	if _, err := ParseCategory(string(cat)); err != nil {
		return err
	}

	var exists int
	err := ex.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM foods WHERE category = ? AND name = ?`,
		string(cat), item.Name,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to look up food %q: %w", item.Name, err)
	}
	if exists > 0 {
		return fmt.Errorf("%w: %s %q", ErrDuplicateItem, cat, item.Name)
	}

	allergens, err := json.Marshal(NormalizeAllergens(item.Allergens))
	if err != nil {
		return fmt.Errorf("failed to marshal allergens: %w", err)
	}

	_, err = ex.ExecContext(ctx,
		`INSERT INTO foods (category, name, kcal, carb, protein, fat, allergens, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(cat), item.Name, item.Kcal, item.Carb, item.Protein, item.Fat, string(allergens), time.Now().UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s %q", ErrDuplicateItem, cat, item.Name)
		}
		return fmt.Errorf("failed to insert food %q: %w", item.Name, err)
	}
	return nil
}

// isUniqueViolation catches a concurrent insert that slipped past the
// lookup in insertItem.
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT
}

// List retrieves the items of one category.
func (r *Repository) List(ctx context.Context, cat Category) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, kcal, carb, protein, fat, allergens FROM foods WHERE category = ? ORDER BY id`,
		string(cat),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s foods: %w", cat, err)
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var item Item
		var allergens string
		if err := rows.Scan(&item.Name, &item.Kcal, &item.Carb, &item.Protein, &item.Fat, &allergens); err != nil {
			return nil, fmt.Errorf("failed to scan food: %w", err)
		}
		if err := json.Unmarshal([]byte(allergens), &item.Allergens); err != nil {
			return nil, fmt.Errorf("failed to unmarshal allergens for %q: %w", item.Name, err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Load implements Source.
func (r *Repository) Load(ctx context.Context) (Catalog, error) {
	var c Catalog
	var err error
	if c.Rice, err = r.List(ctx, CategoryRice); err != nil {
		return Catalog{}, err
	}
	if c.Soup, err = r.List(ctx, CategorySoup); err != nil {
		return Catalog{}, err
	}
	if c.SideDish, err = r.List(ctx, CategorySideDish); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// Count returns the number of stored items.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM foods`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count foods: %w", err)
	}
	return n, nil
}

// Delete removes an item. Deleting a missing item is not an error.
func (r *Repository) Delete(ctx context.Context, cat Category, name string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM foods WHERE category = ? AND name = ?`, string(cat), name)
	if err != nil {
		return fmt.Errorf("failed to delete food %q: %w", name, err)
	}
	return nil
}
