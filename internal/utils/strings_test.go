package utils

import "testing"

func TestIsUUIDShaped(t *testing.T) {
	valid := []string{
		"11111111-1111-1111-1111-111111111111",
		"a0eebc99-9c0b-4ef8-bb6d-6bb9bd380a11",
		"A0EEBC99-9C0B-4EF8-BB6D-6BB9BD380A11",
	}
	for _, s := range valid {
		if !IsUUIDShaped(s) {
			t.Fatalf("IsUUIDShaped(%q) = false, want true", s)
		}
	}

	invalid := []string{
		"",
		"not-a-uuid",
		"11111111-1111-1111-1111-11111111111",   // one short
		"11111111-1111-1111-1111-1111111111112", // one long
		"11111111x1111-1111-1111-111111111111",  // bad separator
		"g1111111-1111-1111-1111-111111111111",  // non-hex
	}
	for _, s := range invalid {
		if IsUUIDShaped(s) {
			t.Fatalf("IsUUIDShaped(%q) = true, want false", s)
		}
	}
}

func TestNormalizeSpace(t *testing.T) {
	if got := NormalizeSpace("  Main   Gate \t Stop "); got != "Main Gate Stop" {
		t.Fatalf("NormalizeSpace = %q", got)
	}
}
