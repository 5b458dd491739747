package model

import "time"

// Staff roles.  Admin bypasses the void-after-cooking gate; every other
// role is subject to it.
const (
	RoleCashier = "cashier"
	RoleWaiter  = "waiter"
	RoleKitchen = "kitchen"
	RoleAdmin   = "admin"
)

// ValidRole reports whether r names a known staff role.
func ValidRole(r string) bool {
	switch r {
	case RoleCashier, RoleWaiter, RoleKitchen, RoleAdmin:
		return true
	}
	return false
}

// Staff is a restaurant employee who signs in with a numeric PIN.  Only
// the bcrypt hash of the PIN is stored.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name shown on receipts and dashboards.
//  Role      – one of the Role* constants above.
//  PINHash   – bcrypt hash of the login PIN.
//  IsActive  – inactive staff cannot sign in.
//  CreatedAt – creation timestamp.
type Staff struct {
	ID        int64     `json:"id"`         // staff.id
	Name      string    `json:"name"`       // staff.name
	Role      string    `json:"role"`       // staff.role
	PINHash   string    `json:"-"`          // staff.pin_hash (never serialized)
	IsActive  bool      `json:"is_active"`  // staff.is_active
	CreatedAt time.Time `json:"created_at"` // staff.created_at
}
