package access

import (
	"testing"
	"time"
)

func TestValidateStaffBypass(t *testing.T) {
	res := Validate(time.Now(), 7, nil)
	if res.Decision != Allow {
		t.Fatalf("Validate(nil data) = %v, want Allow", res.Decision)
	}
}

func TestValidate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		tableID    int64
		data       ValidationData
		want       Decision
		redirectTo int64
	}{
		{
			name:    "freshAccessAllowed",
			tableID: 3,
			data: ValidationData{
				DeviceFingerprint:    "a1b2c3",
				TableAccessTimestamp: now.Add(-2 * time.Minute).UnixMilli(),
			},
			want: Allow,
		},
		{
			name:    "staleAccessRejected",
			tableID: 3,
			data: ValidationData{
				DeviceFingerprint:    "a1b2c3",
				TableAccessTimestamp: now.Add(-11 * time.Minute).UnixMilli(),
			},
			want: Reject,
		},
		{
			name:    "exactWindowStillFresh",
			tableID: 3,
			data: ValidationData{
				TableAccessTimestamp: now.Add(-StalenessWindow).UnixMilli(),
			},
			want: Allow,
		},
		{
			name:    "zeroTimestampNeverStale",
			tableID: 3,
			data:    ValidationData{DeviceFingerprint: "a1b2c3"},
			want:    Allow,
		},
		{
			name:    "lockedDeviceRedirected",
			tableID: 7,
			data: ValidationData{
				DeviceFingerprint:    "a1b2c3",
				TableAccessTimestamp: now.Add(-time.Minute).UnixMilli(),
				OriginalTableID:      5,
			},
			want:       Redirect,
			redirectTo: 5,
		},
		{
			name:    "lockedDeviceOwnTableAllowed",
			tableID: 5,
			data: ValidationData{
				TableAccessTimestamp: now.Add(-time.Minute).UnixMilli(),
				OriginalTableID:      5,
			},
			want: Allow,
		},
		{
			name:    "stalenessCheckedBeforeLockIn",
			tableID: 7,
			data: ValidationData{
				TableAccessTimestamp: now.Add(-20 * time.Minute).UnixMilli(),
				OriginalTableID:      5,
			},
			want: Reject,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(now, tt.tableID, &tt.data)
			if res.Decision != tt.want {
				t.Fatalf("Validate() decision = %v, want %v", res.Decision, tt.want)
			}
			if tt.want == Reject && res.Reason == "" {
				t.Error("Validate() reject should carry a reason")
			}
			if tt.want == Redirect && res.RedirectTo != tt.redirectTo {
				t.Errorf("Validate() redirect = %d, want %d", res.RedirectTo, tt.redirectTo)
			}
			if tt.want == Redirect && res.Reason != "" {
				t.Error("Validate() redirect must be silent, got reason")
			}
		})
	}
}
