package common

import (
	"strings"
	"testing"
)

func TestLBAToMSF(t *testing.T) {
	testCases := []struct {
		lba      uint32
		expected string
	}{
		{0, "00:02:00"},
		{16, "00:02:16"},
		{75, "00:03:00"},
		{4350, "01:00:00"},
		{333000, "74:02:00"},
	}

	for _, tc := range testCases {
		if got := LBAToMSF(tc.lba); got != tc.expected {
			t.Errorf("LBAToMSF(%d) = %q, want %q", tc.lba, got, tc.expected)
		}
	}
}

func TestSectorsToDuration(t *testing.T) {
	if got := SectorsToDuration(75 * 125); got != "02:05" {
		t.Errorf("SectorsToDuration() = %q, want %q", got, "02:05")
	}
	if got := SectorsToDuration(10); got != "00:00" {
		t.Errorf("SectorsToDuration() = %q, want %q", got, "00:00")
	}
}

func TestSectorsToBytes(t *testing.T) {
	if got := SectorsToBytes(3, 2324); got != 6972 {
		t.Errorf("SectorsToBytes() = %d, want 6972", got)
	}
}

func TestSafeConversions(t *testing.T) {
	if v, err := SafeInt64ToUint32(42); err != nil || v != 42 {
		t.Errorf("SafeInt64ToUint32(42) = %d, %v", v, err)
	}
	if _, err := SafeInt64ToUint32(-1); err == nil || !strings.Contains(err.Error(), "negative") {
		t.Errorf("SafeInt64ToUint32(-1) error = %v, want negative error", err)
	}
	if _, err := SafeInt64ToUint32(1 << 40); err == nil {
		t.Error("SafeInt64ToUint32(1<<40) should fail")
	}
}
