package repository

import (
	"context"
	"database/sql"

	"github.com/qrtable/restaurant-pos/internal/model"
)

// MenuItemRepo reads the menu.  The menu CMS lives outside this service;
// here the menu is only a quote source for customers browsing at the
// table, so only active items are ever listed.
type MenuItemRepo struct {
	db *sql.DB
}

// NewMenuItemRepo returns a MenuItemRepo bound to the given database.
func NewMenuItemRepo(db *sql.DB) *MenuItemRepo { return &MenuItemRepo{db: db} }

// ListActive returns the active menu grouped the way the customer view
// expects: by category, then name.
func (r *MenuItemRepo) ListActive(ctx context.Context) ([]model.MenuItem, error) {
	const q = `SELECT id, name, category, price_cents, is_active, created_at, updated_at
	           FROM menu_items WHERE is_active = 1
	           ORDER BY category, name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.MenuItem, 0)
	for rows.Next() {
		var m model.MenuItem
		if err := rows.Scan(&m.ID, &m.Name, &m.Category, &m.PriceCents, &m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
