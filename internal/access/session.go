package access

import (
	"strconv"
	"time"
)

// maxAccessRecords caps the per-device access log.  Older entries fall
// off the end; the lock-in record at the head is preserved.
const maxAccessRecords = 10

// rateLimitWindow bounds RecentAttempts: only accesses younger than this
// count toward client-side rate limiting.
const rateLimitWindow = 2 * time.Minute

// AccessRecord is one table scan by a device, as the device remembers it.
// The server treats these as hints, never as proof.
type AccessRecord struct {
	TableID     int64  `json:"table_id"`
	Fingerprint string `json:"fingerprint"`
	Timestamp   int64  `json:"timestamp"` // unix milliseconds
}

// DeviceTraits are the observable characteristics a fingerprint is
// derived from.  None of them is secret and collisions are expected; the
// result only needs to be semi-stable for a single device.
type DeviceTraits struct {
	UserAgent      string
	Language       string
	ScreenWidth    int
	ScreenHeight   int
	TimezoneOffset int
	RenderSeed     string // canvas-style rendering artifact, free-form
	Cores          int
	MemoryGB       int
}

// Fingerprint hashes the traits into a short base-36 identifier using a
// 32-bit shift hash.  The function is deterministic so the same device
// produces the same fingerprint across visits.
func Fingerprint(t DeviceTraits) string {
	joined := t.UserAgent + "|" + t.Language + "|" +
		strconv.Itoa(t.ScreenWidth) + "x" + strconv.Itoa(t.ScreenHeight) + "|" +
		strconv.Itoa(t.TimezoneOffset) + "|" + t.RenderSeed + "|" +
		strconv.Itoa(t.Cores) + "|" + strconv.Itoa(t.MemoryGB)

	var hash int32
	for _, r := range joined {
		hash = (hash << 5) - hash + int32(r)
	}
	if hash < 0 {
		hash = -hash
	}
	return strconv.FormatInt(int64(hash), 36)
}

// DeviceSession is the client-held fingerprint store: one per device,
// owned by the caller and passed in explicitly rather than living in
// module-level state.  It tracks the device fingerprint, the log of
// recent table accesses and the table the device locked to after its
// first successful order.
type DeviceSession struct {
	fingerprint string
	log         []AccessRecord // newest lock-in first, then recency order
	lockedTable int64          // 0 until the first successful order
}

// NewDeviceSession builds a session for a device with the given
// fingerprint.  An empty fingerprint is allowed; validation still runs
// with benefit of the doubt on the server side.
func NewDeviceSession(fingerprint string) *DeviceSession {
	return &DeviceSession{fingerprint: fingerprint}
}

// Fingerprint returns the device identifier the session was built with.
func (s *DeviceSession) Fingerprint() string { return s.fingerprint }

// RecordAccess appends a table scan to the log, trimming to the last
// maxAccessRecords entries.
func (s *DeviceSession) RecordAccess(tableID int64, at time.Time) {
	s.log = append(s.log, AccessRecord{
		TableID:     tableID,
		Fingerprint: s.fingerprint,
		Timestamp:   at.UnixMilli(),
	})
	if len(s.log) > maxAccessRecords {
		s.log = s.log[len(s.log)-maxAccessRecords:]
	}
}

// LockToTable marks the table of the device's first successful order.
// Later calls are ignored: the lock is set once and subsequent orders
// from the device are redirected to it.
func (s *DeviceSession) LockToTable(tableID int64) {
	if s.lockedTable == 0 {
		s.lockedTable = tableID
	}
}

// OriginalTable returns the locked-in table, or 0 when the device has
// not completed an order yet.
func (s *DeviceSession) OriginalTable() int64 { return s.lockedTable }

// AccessFor returns the most recent access record for tableID, or nil
// when the device has no record of scanning that table.
func (s *DeviceSession) AccessFor(tableID int64) *AccessRecord {
	for i := len(s.log) - 1; i >= 0; i-- {
		if s.log[i].TableID == tableID {
			rec := s.log[i]
			return &rec
		}
	}
	return nil
}

// RecentAttempts returns the log entries younger than the client-side
// rate-limit window, newest last.
func (s *DeviceSession) RecentAttempts(now time.Time) []AccessRecord {
	cutoff := now.Add(-rateLimitWindow).UnixMilli()
	out := make([]AccessRecord, 0, len(s.log))
	for _, rec := range s.log {
		if rec.Timestamp > cutoff {
			out = append(out, rec)
		}
	}
	return out
}

// ValidationFor assembles the payload the client sends with an order for
// tableID.  When the device has no access record for the table the
// timestamp is 0, which the validator treats as "no record" rather than
// stale.
func (s *DeviceSession) ValidationFor(tableID int64) *ValidationData {
	var ts int64
	if rec := s.AccessFor(tableID); rec != nil {
		ts = rec.Timestamp
	}
	return &ValidationData{
		DeviceFingerprint:    s.fingerprint,
		TableAccessTimestamp: ts,
		OriginalTableID:      s.lockedTable,
	}
}
