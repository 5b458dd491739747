package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/qrtable/restaurant-pos/internal/model"
)

// OrderRepo provides persistence for orders.  Orders are created with
// status pending and only ever mutated through status transitions; rows
// are retained after reaching paid or cancelled for history.  All
// timestamps are stored in UTC.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns an OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderColumns = `id, table_id, status, total_cents, created_by, paid_by,
	started_at, kitchen_received_at, ready_at, served_at, paid_at, completed_at,
	created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*model.Order, error) {
	var o model.Order
	var createdBy, paidBy sql.NullInt64
	var kitchen, ready, served, paid, completed sql.NullTime
	err := row.Scan(
		&o.ID, &o.TableID, &o.Status, &o.TotalCents, &createdBy, &paidBy,
		&o.StartedAt, &kitchen, &ready, &served, &paid, &completed,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if createdBy.Valid {
		v := createdBy.Int64
		o.CreatedBy = &v
	}
	if paidBy.Valid {
		v := paidBy.Int64
		o.PaidBy = &v
	}
	assign := func(dst **time.Time, src sql.NullTime) {
		if src.Valid {
			t := src.Time
			*dst = &t
		}
	}
	assign(&o.KitchenReceivedAt, kitchen)
	assign(&o.ReadyAt, ready)
	assign(&o.ServedAt, served)
	assign(&o.PaidAt, paid)
	assign(&o.CompletedAt, completed)
	return &o, nil
}

// CreateTx inserts a new order row within an existing transaction.  The
// caller supplies the UUID, table, total and optional creating staff
// member; status starts at pending and started_at at now.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *model.Order) error {
	const q = `INSERT INTO orders (id, table_id, status, total_cents, created_by, started_at)
	           VALUES (?, ?, ?, ?, ?, ?)`
	var createdBy any
	if o.CreatedBy != nil {
		createdBy = *o.CreatedBy
	}
	_, err := tx.ExecContext(ctx, q, o.ID, o.TableID, o.Status, o.TotalCents, createdBy, o.StartedAt)
	return err
}

// GetForUpdateTx loads an order under an exclusive row lock for a status
// transition.  Returns ErrOrderNotFound when no such order exists.
func (r *OrderRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, orderID string) (*model.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE id = ? FOR UPDATE`
	o, err := scanOrder(tx.QueryRowContext(ctx, q, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	return o, err
}

// StatusTx returns only the status of an order inside a transaction.
// Used when classifying a table's occupancy: an occupied table pointing
// at a terminal order is stale, not genuinely occupied.
func (r *OrderRepo) StatusTx(ctx context.Context, tx *sql.Tx, orderID string) (string, error) {
	const q = `SELECT status FROM orders WHERE id = ?`
	var status string
	err := tx.QueryRowContext(ctx, q, orderID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrOrderNotFound
	}
	return status, err
}

// UpdateStatusTx persists a status transition together with any
// milestone timestamps the transition fills.  stamps maps column names
// to values; the caller computes it with the fill-once rule so repeated
// transitions never overwrite history.  paidBy is written only when
// non-nil.
func (r *OrderRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, orderID, status string, stamps map[string]time.Time, paidBy *int64) error {
	set := []string{"status = ?", "updated_at = ?"}
	args := []any{status, time.Now().UTC()}
	// Deterministic column order keeps the query stable for logs.
	for _, col := range []string{"kitchen_received_at", "ready_at", "served_at", "paid_at", "completed_at"} {
		if v, ok := stamps[col]; ok {
			set = append(set, col+" = ?")
			args = append(args, v)
		}
	}
	if paidBy != nil {
		set = append(set, "paid_by = ?")
		args = append(args, *paidBy)
	}
	args = append(args, orderID)
	q := `UPDATE orders SET ` + strings.Join(set, ", ") + ` WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// RowsAffected can legitimately be 0 on a no-op update in MySQL,
		// so confirm the row exists before reporting not-found.
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT 1 FROM orders WHERE id = ?`, orderID).Scan(&exists); errors.Is(err, sql.ErrNoRows) {
			return ErrOrderNotFound
		}
	}
	return nil
}

// ActiveByTable returns the most recently created order for the table
// whose status is still non-terminal, or ErrOrderNotFound when the table
// has no active order.
func (r *OrderRepo) ActiveByTable(ctx context.Context, tableID int64) (*model.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders
	      WHERE table_id = ? AND status IN (` + statusPlaceholders() + `)
	      ORDER BY created_at DESC LIMIT 1`
	args := []any{tableID}
	for _, s := range model.ActiveOrderStatuses {
		args = append(args, s)
	}
	o, err := scanOrder(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	return o, err
}

// KitchenQueue returns orders the kitchen still works on (pending and
// cooking), oldest first so tickets are cooked in arrival order.
func (r *OrderRepo) KitchenQueue(ctx context.Context) ([]model.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders
	      WHERE status IN (?, ?) ORDER BY started_at`
	rows, err := r.db.QueryContext(ctx, q, model.OrderPending, model.OrderCooking)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	orders := make([]model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func statusPlaceholders() string {
	return strings.TrimSuffix(strings.Repeat("?, ", len(model.ActiveOrderStatuses)), ", ")
}
