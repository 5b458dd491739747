package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/qrtable/restaurant-pos/internal/model"
)

// AssignmentRepo provides persistence for waiter-table assignments.
// A table has at most one open assignment (unassigned_at IS NULL);
// closed rows are kept as shift history.  Claim races serialize on the
// table row lock the service takes, with the unique active index as a
// backstop.
type AssignmentRepo struct {
	db *sql.DB
}

// NewAssignmentRepo returns an AssignmentRepo bound to the given database.
func NewAssignmentRepo(db *sql.DB) *AssignmentRepo { return &AssignmentRepo{db: db} }

// ActiveByTableTx returns the table's open assignment, or nil when the
// table is unclaimed.
func (r *AssignmentRepo) ActiveByTableTx(ctx context.Context, tx *sql.Tx, tableID int64) (*model.TableAssignment, error) {
	const q = `SELECT id, table_id, waiter_id, assigned_at, unassigned_at
	           FROM waiter_assignments WHERE table_id = ? AND unassigned_at IS NULL`
	a, err := scanAssignment(tx.QueryRowContext(ctx, q, tableID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

// ClaimTx opens an assignment for the waiter.  The caller must already
// hold the table row lock; a duplicate-key error from the active index
// still maps to ErrTableAssigned in case a claim slips past the check.
func (r *AssignmentRepo) ClaimTx(ctx context.Context, tx *sql.Tx, tableID, waiterID int64, at time.Time) error {
	const q = `INSERT INTO waiter_assignments (table_id, waiter_id, assigned_at) VALUES (?, ?, ?)`
	_, err := tx.ExecContext(ctx, q, tableID, waiterID, at)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return ErrTableAssigned
		}
		return err
	}
	return nil
}

// ReleaseTx closes the table's open assignment and reports how many rows
// it closed.  A non-zero waiterID restricts the release to that waiter's
// own claim; zero releases regardless of owner (admin override and the
// settle-on-paid path).
func (r *AssignmentRepo) ReleaseTx(ctx context.Context, tx *sql.Tx, tableID, waiterID int64, at time.Time) (int64, error) {
	q := `UPDATE waiter_assignments SET unassigned_at = ? WHERE table_id = ? AND unassigned_at IS NULL`
	args := []any{at, tableID}
	if waiterID != 0 {
		q += ` AND waiter_id = ?`
		args = append(args, waiterID)
	}
	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// AssignmentDetail is an open assignment joined with the claimed table's
// live state, for the waiter's "my tables" board.
type AssignmentDetail struct {
	model.TableAssignment
	TableStatus    string  `json:"table_status"`
	CurrentOrderID *string `json:"current_order_id"`
}

// ListActiveByWaiter returns the waiter's open assignments, oldest claim
// first.
func (r *AssignmentRepo) ListActiveByWaiter(ctx context.Context, waiterID int64) ([]AssignmentDetail, error) {
	const q = `SELECT a.id, a.table_id, a.waiter_id, a.assigned_at, a.unassigned_at,
	                  t.status, t.current_order_id
	           FROM waiter_assignments a
	           JOIN restaurant_tables t ON t.id = a.table_id
	           WHERE a.waiter_id = ? AND a.unassigned_at IS NULL
	           ORDER BY a.assigned_at`
	rows, err := r.db.QueryContext(ctx, q, waiterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]AssignmentDetail, 0)
	for rows.Next() {
		var d AssignmentDetail
		var unassigned sql.NullTime
		var orderID sql.NullString
		if err := rows.Scan(&d.ID, &d.TableID, &d.WaiterID, &d.AssignedAt, &unassigned, &d.TableStatus, &orderID); err != nil {
			return nil, err
		}
		if unassigned.Valid {
			t := unassigned.Time
			d.UnassignedAt = &t
		}
		if orderID.Valid {
			id := orderID.String
			d.CurrentOrderID = &id
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanAssignment(row interface{ Scan(...any) error }) (*model.TableAssignment, error) {
	var a model.TableAssignment
	var unassigned sql.NullTime
	if err := row.Scan(&a.ID, &a.TableID, &a.WaiterID, &a.AssignedAt, &unassigned); err != nil {
		return nil, err
	}
	if unassigned.Valid {
		t := unassigned.Time
		a.UnassignedAt = &t
	}
	return &a, nil
}
