package usecases

import (
	"testing"
	"time"
)

func TestIssueAndVerifyToken(t *testing.T) {
	auth := NewAuthUsecase("0123456789abcdef0123", time.Hour)

	token, err := auth.IssueToken("ops")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	subject, err := auth.Verify(token)
	if err != nil || subject != "ops" {
		t.Fatalf("expected subject ops, got %q, %v", subject, err)
	}
}

func TestVerifyRejectsForeignAndExpiredTokens(t *testing.T) {
	auth := NewAuthUsecase("0123456789abcdef0123", time.Hour)
	other := NewAuthUsecase("fedcba9876543210fedc", time.Hour)

	foreign, _ := other.IssueToken("ops")
	if _, err := auth.Verify(foreign); err == nil {
		t.Error("expected a token signed with another secret to be rejected")
	}

	token, _ := auth.IssueToken("ops")
	auth.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := auth.Verify(token); err == nil {
		t.Error("expected an expired token to be rejected")
	}

	if _, err := auth.Verify("not-a-jwt"); err == nil {
		t.Error("expected garbage to be rejected")
	}
}

func TestIssueTokenWithoutSecret(t *testing.T) {
	if _, err := NewAuthUsecase("", time.Hour).IssueToken("ops"); err == nil {
		t.Fatal("expected an error without a secret")
	}
}
