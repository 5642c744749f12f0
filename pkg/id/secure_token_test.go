package id

import (
	"testing"
)

func TestSecureToken(t *testing.T) {
	token, err := SecureToken()
	if err != nil {
		t.Fatalf("SecureToken() error = %v", err)
	}
	// 32 bytes base64url without padding = 43 chars
	if len(token) != 43 {
		t.Errorf("SecureToken() length = %d, want 43", len(token))
	}
}

func TestSecureToken_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		token, err := SecureToken()
		if err != nil {
			t.Fatalf("SecureToken() error = %v", err)
		}
		if seen[token] {
			t.Fatalf("SecureToken() produced duplicate: %s", token)
		}
		seen[token] = true
	}
}

func TestGetUUIDWithoutDashes(t *testing.T) {
	id := GetUUIDWithoutDashes()
	if len(id) != 32 {
		t.Errorf("GetUUIDWithoutDashes() length = %d, want 32", len(id))
	}
}
