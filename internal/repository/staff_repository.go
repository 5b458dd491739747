package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/qrtable/restaurant-pos/internal/model"
)

// StaffRepo reads staff accounts for PIN login.  Staff management itself
// (creation, role changes) is handled elsewhere; this service only needs
// to resolve an ID to an active account and its PIN hash.
type StaffRepo struct {
	db *sql.DB
}

// NewStaffRepo returns a StaffRepo bound to the given database.
func NewStaffRepo(db *sql.DB) *StaffRepo { return &StaffRepo{db: db} }

// GetActiveByID returns the active staff member with the given ID, or
// ErrStaffNotFound when no such account exists or it was deactivated.
// Deactivated accounts are indistinguishable from missing ones so a
// former employee's PIN leaks nothing.
func (r *StaffRepo) GetActiveByID(ctx context.Context, id int64) (*model.Staff, error) {
	const q = `SELECT id, name, role, pin_hash, is_active, created_at
	           FROM staff WHERE id = ? AND is_active = 1`
	var s model.Staff
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.Name, &s.Role, &s.PINHash, &s.IsActive, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
