// Package oui tests for MAC vendor resolution.
package oui

import "testing"

func TestNormalizeMAC(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"00:11:22:33:44:55", "00:11:22:33:44:55"},
		{"00-11-22-33-44-55", "00:11:22:33:44:55"},
		{"0011.2233.4455", "00:11:22:33:44:55"},
		{"001122334455", "00:11:22:33:44:55"},
		{"AA:BB:CC:DD:EE:FF", "aa:bb:cc:dd:ee:ff"},
		{"00:11:22", ""},          // too short
		{"zz:11:22:33:44:55", ""}, // non-hex
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := normalizeMAC(tt.in); got != tt.expected {
				t.Errorf("normalizeMAC(%q) = %q, want %q", tt.in, got, tt.expected)
			}
		})
	}
}

func TestLookup_InvalidMAC(t *testing.T) {
	if _, err := Lookup("not-a-mac"); err == nil {
		t.Error("Expected error for invalid MAC")
	}
}

func TestVendorName_DegradesToEmpty(t *testing.T) {
	// Invalid and unregistered MACs alike yield an empty name, never an error.
	tests := []string{
		"",
		"garbage",
		"02:00:00:00:00:01", // locally administered, never registered
	}
	for _, mac := range tests {
		if got := VendorName(mac); got != "" {
			t.Errorf("VendorName(%q) = %q, want empty", mac, got)
		}
	}
}
