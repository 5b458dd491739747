// Package access decides whether an anonymous, QR-originated order request
// for a table should be allowed, rejected or silently redirected.  The
// client-supplied validation payload is advisory only: it defends against
// casual URL tampering and stale QR sessions, not against an attacker who
// clears local state.  It is never an authorization credential.
package access

import "time"

// StalenessWindow is how long a recorded table access stays fresh.  A
// customer whose last scan is older than this must re-scan the QR code
// before ordering.
const StalenessWindow = 10 * time.Minute

// ValidationData is the payload a customer client sends alongside an
// order request.  All fields are untrusted.  A zero TableAccessTimestamp
// means "no record" and is deliberately never treated as stale; missing
// data errs toward availability rather than strict enforcement.
type ValidationData struct {
	DeviceFingerprint    string `json:"device_fingerprint"`
	TableAccessTimestamp int64  `json:"table_access_timestamp"` // unix milliseconds of last QR scan
	OriginalTableID      int64  `json:"original_table_id"`      // table of the first successful order, 0 if none
}

// Decision is the outcome of validating an order request.
type Decision int

const (
	// Allow lets the request continue to the table state manager.
	Allow Decision = iota
	// Reject blocks the request with a user-facing reason.
	Reject
	// Redirect sends the customer to the table their device is locked to,
	// with no error surfaced.
	Redirect
)

// Result carries the decision plus its reason or redirect target.
type Result struct {
	Decision   Decision
	Reason     string // set only for Reject
	RedirectTo int64  // set only for Redirect
}

// ReasonExpired is the user-facing reason for a stale table access.
const ReasonExpired = "access expired, please re-scan the table QR code"

// Validate applies the anti-abuse rules for a customer order on tableID.
// A nil data means the request is staff-originated and passes
// unconditionally.  Freshness is checked before table lock-in, so a stale
// scan is reported even when the device is locked to another table.
func Validate(now time.Time, tableID int64, data *ValidationData) Result {
	if data == nil {
		return Result{Decision: Allow}
	}
	if data.TableAccessTimestamp > 0 {
		age := now.UnixMilli() - data.TableAccessTimestamp
		if age > StalenessWindow.Milliseconds() {
			return Result{Decision: Reject, Reason: ReasonExpired}
		}
	}
	if data.OriginalTableID != 0 && data.OriginalTableID != tableID {
		return Result{Decision: Redirect, RedirectTo: data.OriginalTableID}
	}
	return Result{Decision: Allow}
}
