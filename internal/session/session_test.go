package session

import (
	"errors"
	"testing"
	"time"

	"github.com/tlemaire/garagekeeper/internal/models"
)

func TestIssueVerify_RoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.Issue(42)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	userID, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if userID != 42 {
		t.Errorf("Verify userID = %d; want 42", userID)
	}
}

func TestIssue_DistinctTokens(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	first, err := m.Issue(7)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	second, err := m.Issue(7)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if first == second {
		t.Error("expected distinct tokens for repeated issuance")
	}
}

func TestVerify_Rejections(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	valid, err := m.Issue(1)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	other := NewManager("another-secret", time.Hour)
	foreign, err := other.Issue(1)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "empty", token: ""},
		{name: "tampered", token: valid + "x"},
		{name: "wrong secret", token: foreign},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Verify(tt.token); !errors.Is(err, models.ErrInvalidToken) {
				t.Errorf("Verify error = %v; want models.ErrInvalidToken", err)
			}
		})
	}
}

func TestVerify_Expired(t *testing.T) {
	m := NewManager("test-secret", time.Millisecond)

	token, err := m.Issue(5)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	if _, err := m.Verify(token); !errors.Is(err, models.ErrInvalidToken) {
		t.Errorf("Verify error = %v; want models.ErrInvalidToken for expired token", err)
	}
}

func TestNewManager_DefaultTTL(t *testing.T) {
	m := NewManager("test-secret", 0)
	if m.TTL() != 24*time.Hour {
		t.Errorf("TTL = %v; want 24h default", m.TTL())
	}
}
