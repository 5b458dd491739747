package access

import (
	"testing"
	"time"
)

func TestFingerprintDeterministic(t *testing.T) {
	traits := DeviceTraits{
		UserAgent:      "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)",
		Language:       "en-US",
		ScreenWidth:    390,
		ScreenHeight:   844,
		TimezoneOffset: -120,
		RenderSeed:     "c4nv4s",
		Cores:          6,
		MemoryGB:       4,
	}

	first := Fingerprint(traits)
	second := Fingerprint(traits)
	if first == "" {
		t.Fatal("Fingerprint() returned empty string")
	}
	if first != second {
		t.Fatalf("Fingerprint() not deterministic: %q vs %q", first, second)
	}

	other := traits
	other.ScreenWidth = 1920
	other.ScreenHeight = 1080
	if Fingerprint(other) == first {
		t.Error("Fingerprint() identical for different traits")
	}
}

func TestDeviceSessionLogCap(t *testing.T) {
	s := NewDeviceSession("fp1")
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 15; i++ {
		s.RecordAccess(int64(i+1), base.Add(time.Duration(i)*time.Second))
	}

	if got := len(s.RecentAttempts(base.Add(15 * time.Second))); got != maxAccessRecords {
		t.Fatalf("log length = %d, want %d", got, maxAccessRecords)
	}
	if s.AccessFor(1) != nil {
		t.Error("oldest entry should have been trimmed")
	}
	if rec := s.AccessFor(15); rec == nil {
		t.Error("newest entry missing from log")
	}
}

func TestDeviceSessionLockOnce(t *testing.T) {
	s := NewDeviceSession("fp1")
	if s.OriginalTable() != 0 {
		t.Fatalf("OriginalTable() = %d before any order, want 0", s.OriginalTable())
	}

	s.LockToTable(5)
	s.LockToTable(7)
	if s.OriginalTable() != 5 {
		t.Fatalf("OriginalTable() = %d, want first lock 5", s.OriginalTable())
	}
}

func TestDeviceSessionRecentAttempts(t *testing.T) {
	s := NewDeviceSession("fp1")
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	s.RecordAccess(1, now.Add(-3*time.Minute)) // outside window
	s.RecordAccess(2, now.Add(-90*time.Second))
	s.RecordAccess(3, now.Add(-10*time.Second))

	recent := s.RecentAttempts(now)
	if len(recent) != 2 {
		t.Fatalf("RecentAttempts() = %d entries, want 2", len(recent))
	}
	if recent[0].TableID != 2 || recent[1].TableID != 3 {
		t.Errorf("RecentAttempts() tables = %d,%d, want 2,3", recent[0].TableID, recent[1].TableID)
	}
}

func TestValidationFor(t *testing.T) {
	s := NewDeviceSession("fp1")
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.RecordAccess(4, now)
	s.LockToTable(4)

	data := s.ValidationFor(4)
	if data.DeviceFingerprint != "fp1" {
		t.Errorf("fingerprint = %q, want fp1", data.DeviceFingerprint)
	}
	if data.TableAccessTimestamp != now.UnixMilli() {
		t.Errorf("timestamp = %d, want %d", data.TableAccessTimestamp, now.UnixMilli())
	}
	if data.OriginalTableID != 4 {
		t.Errorf("original table = %d, want 4", data.OriginalTableID)
	}

	// No record for table 9: timestamp 0 signals "no record", not stale.
	other := s.ValidationFor(9)
	if other.TableAccessTimestamp != 0 {
		t.Errorf("timestamp for unscanned table = %d, want 0", other.TableAccessTimestamp)
	}
}
