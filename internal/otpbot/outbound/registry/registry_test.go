package registry

import "testing"

func TestRegistry(t *testing.T) {
	r := New(" Alice@Gmail.com : SECRETA ,bob@outlook.com:SECRETB,broken,:nosender,carol@gmail.com:,alice@gmail.com:SECRETC")

	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}

	tests := []struct {
		email  string
		want   string
		wantOK bool
	}{
		{"alice@gmail.com", "SECRETC", true},
		{"  ALICE@GMAIL.COM ", "SECRETC", true},
		{"bob@outlook.com", "SECRETB", true},
		{"carol@gmail.com", "", false},
		{"broken", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := r.Lookup(tt.email)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Lookup(%q) = %q, %v; want %q, %v", tt.email, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestRegistrySecretWithColon(t *testing.T) {
	r := New("dave@gmail.com:ABC:DEF")

	if got, ok := r.Lookup("dave@gmail.com"); !ok || got != "ABC:DEF" {
		t.Fatalf("Lookup = %q, %v", got, ok)
	}
}

func TestRegistryEmpty(t *testing.T) {
	if r := New(""); r.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", r.Len())
	}
}
