package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/qrtable/restaurant-pos/internal/model"
)

// mysqlDuplicateEntry is the MySQL error number for a duplicate key.
const mysqlDuplicateEntry = 1062

// TableRepo provides persistence for restaurant tables.  Tables are
// materialized lazily the first time an order references them and are
// never deleted.  The one-active-order-per-table invariant rests on the
// row lock taken by GetForUpdateTx: concurrent order creations for the
// same table serialize on it, so exactly one caller observes the table
// as free.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo returns a TableRepo bound to the given database.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

// DB exposes the underlying handle so the service layer can open
// transactions spanning tables, orders and order items.
func (r *TableRepo) DB() *sql.DB { return r.db }

// EnsureExistsTx creates the table row with status empty if it does not
// exist yet.  It is idempotent: a concurrent insert of the same table is
// observed as a duplicate-key error and treated as success, since the
// row the caller needs is there either way.
func (r *TableRepo) EnsureExistsTx(ctx context.Context, tx *sql.Tx, tableID int64) error {
	const q = `INSERT INTO restaurant_tables (id, status) VALUES (?, ?)`
	_, err := tx.ExecContext(ctx, q, tableID, model.TableEmpty)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return nil
		}
		return err
	}
	return nil
}

// GetForUpdateTx loads a table row under an exclusive row lock.  The lock
// is held until the transaction ends, which serializes concurrent order
// creations for the table.
func (r *TableRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, tableID int64) (*model.Table, error) {
	const q = `SELECT id, status, current_order_id, created_at, updated_at
	           FROM restaurant_tables WHERE id = ? FOR UPDATE`
	var t model.Table
	var orderID sql.NullString
	err := tx.QueryRowContext(ctx, q, tableID).Scan(&t.ID, &t.Status, &orderID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if orderID.Valid {
		id := orderID.String
		t.CurrentOrderID = &id
	}
	return &t, nil
}

// OccupyTx marks the table occupied by orderID.  Called exactly once,
// immediately after the order row is created and inside the same
// transaction.
func (r *TableRepo) OccupyTx(ctx context.Context, tx *sql.Tx, tableID int64, orderID string) error {
	const q = `UPDATE restaurant_tables SET status = ?, current_order_id = ?, updated_at = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, model.TableOccupied, orderID, time.Now().UTC(), tableID)
	return err
}

// ReleaseTx resets the table to empty with no current order.  It is the
// sole path by which a table becomes free again and is idempotent:
// releasing an already-empty table is a no-op update to the same values.
func (r *TableRepo) ReleaseTx(ctx context.Context, tx *sql.Tx, tableID int64) error {
	const q = `UPDATE restaurant_tables SET status = ?, current_order_id = NULL, updated_at = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, model.TableEmpty, time.Now().UTC(), tableID)
	return err
}

// SetStatusTx updates only the occupancy status, leaving the current
// order reference untouched.  Used for the needs_assistance and
// needs_bill customer calls on an occupied table.
func (r *TableRepo) SetStatusTx(ctx context.Context, tx *sql.Tx, tableID int64, status string) error {
	const q = `UPDATE restaurant_tables SET status = ?, updated_at = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, status, time.Now().UTC(), tableID)
	return err
}

// List returns every known table ordered by table number, for the
// cashier and waiter floor boards.
func (r *TableRepo) List(ctx context.Context) ([]model.Table, error) {
	const q = `SELECT id, status, current_order_id, created_at, updated_at
	           FROM restaurant_tables ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tables := make([]model.Table, 0)
	for rows.Next() {
		var t model.Table
		var orderID sql.NullString
		if err := rows.Scan(&t.ID, &t.Status, &orderID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		if orderID.Valid {
			id := orderID.String
			t.CurrentOrderID = &id
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tables, nil
}
