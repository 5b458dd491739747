package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/qrtable/restaurant-pos/internal/model"
)

// OrderItemRepo provides persistence for order lines.  Lines are written
// once with their price snapshot and afterwards only ever soft-deleted;
// a voided line keeps its row so the bill can be audited.
type OrderItemRepo struct {
	db *sql.DB
}

// NewOrderItemRepo returns an OrderItemRepo bound to the given database.
func NewOrderItemRepo(db *sql.DB) *OrderItemRepo { return &OrderItemRepo{db: db} }

// ItemDetail is an order line joined with its menu item for display on
// kitchen tickets and receipts.  MenuItemName may be empty when the menu
// row has been removed since the order was placed.
type ItemDetail struct {
	model.OrderItem
	MenuItemName string `json:"menu_item_name"`
	Category     string `json:"category"`
}

// CreateBulkTx inserts all cart lines of an order in a single statement
// within the given transaction.  Each line is stamped with the price the
// customer saw at submission; the live menu is never re-read here.
// Passing an empty slice has no effect and returns nil.
func (r *OrderItemRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `INSERT INTO order_items (order_id, menu_item_id, quantity, price_at_time_cents, modifiers) VALUES `
	args := make([]any, 0, len(items)*5)
	for i, it := range items {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		mods := it.Modifiers
		if mods == nil {
			mods = map[string]string{}
		}
		modJSON, err := json.Marshal(mods)
		if err != nil {
			return err
		}
		args = append(args, it.OrderID, it.MenuItemID, it.Quantity, it.PriceAtTimeCents, string(modJSON))
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// ListByOrder returns every line of an order, voided ones included, with
// menu names joined in.  Callers decide what to hide: kitchen tickets
// and customer totals skip voided lines, back-office views keep them.
func (r *OrderItemRepo) ListByOrder(ctx context.Context, orderID string) ([]ItemDetail, error) {
	const q = `SELECT oi.id, oi.order_id, oi.menu_item_id, oi.quantity, oi.price_at_time_cents,
	                  oi.modifiers, oi.voided_at, oi.voided_by, oi.void_reason,
	                  m.name, m.category
	           FROM order_items oi
	           LEFT JOIN menu_items m ON m.id = oi.menu_item_id
	           WHERE oi.order_id = ?
	           ORDER BY oi.id`
	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]ItemDetail, 0)
	for rows.Next() {
		var d ItemDetail
		var modJSON []byte
		var voidedAt sql.NullTime
		var voidedBy sql.NullInt64
		var voidReason, name, category sql.NullString
		if err := rows.Scan(
			&d.ID, &d.OrderID, &d.MenuItemID, &d.Quantity, &d.PriceAtTimeCents,
			&modJSON, &voidedAt, &voidedBy, &voidReason,
			&name, &category,
		); err != nil {
			return nil, err
		}
		if len(modJSON) > 0 {
			_ = json.Unmarshal(modJSON, &d.Modifiers)
		}
		if voidedAt.Valid {
			t := voidedAt.Time
			d.VoidedAt = &t
		}
		if voidedBy.Valid {
			v := voidedBy.Int64
			d.VoidedBy = &v
		}
		if voidReason.Valid {
			s := voidReason.String
			d.VoidReason = &s
		}
		d.MenuItemName = name.String
		d.Category = category.String
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// GetWithOrderStatusTx loads one order line together with its parent
// order's status under a row lock, so a concurrent kitchen transition
// cannot slip past the void gate mid-check.  Returns ErrItemNotFound
// when the line does not exist.
func (r *OrderItemRepo) GetWithOrderStatusTx(ctx context.Context, tx *sql.Tx, itemID int64) (*model.OrderItem, string, error) {
	const q = `SELECT oi.id, oi.order_id, oi.menu_item_id, oi.quantity, oi.price_at_time_cents,
	                  oi.voided_at, o.status
	           FROM order_items oi
	           JOIN orders o ON o.id = oi.order_id
	           WHERE oi.id = ?
	           FOR UPDATE`
	var it model.OrderItem
	var voidedAt sql.NullTime
	var orderStatus string
	err := tx.QueryRowContext(ctx, q, itemID).Scan(
		&it.ID, &it.OrderID, &it.MenuItemID, &it.Quantity, &it.PriceAtTimeCents,
		&voidedAt, &orderStatus,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrItemNotFound
	}
	if err != nil {
		return nil, "", err
	}
	if voidedAt.Valid {
		t := voidedAt.Time
		it.VoidedAt = &t
	}
	return &it, orderStatus, nil
}

// VoidTx soft-deletes an order line.  The WHERE guard on voided_at keeps
// the first void's actor and reason; re-voiding reports ErrItemVoided.
func (r *OrderItemRepo) VoidTx(ctx context.Context, tx *sql.Tx, itemID, actorID int64, reason string, at time.Time) error {
	const q = `UPDATE order_items SET voided_at = ?, voided_by = ?, void_reason = ?
	           WHERE id = ? AND voided_at IS NULL`
	res, err := tx.ExecContext(ctx, q, at, actorID, reason, itemID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrItemVoided
	}
	return nil
}

// CountActiveTx returns the number of non-voided lines on an order.  An
// order with zero active lines is incomplete and must never reach
// cooking.
func (r *OrderItemRepo) CountActiveTx(ctx context.Context, tx *sql.Tx, orderID string) (int, error) {
	const q = `SELECT COUNT(*) FROM order_items WHERE order_id = ? AND voided_at IS NULL`
	var n int
	err := tx.QueryRowContext(ctx, q, orderID).Scan(&n)
	return n, err
}
