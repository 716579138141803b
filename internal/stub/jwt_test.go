package stub

import (
	"testing"

	"github.com/google/uuid"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("secret")
	u := &User{ID: uuid.New(), Email: "jane@example.com", IsSuperuser: true}

	signed, err := svc.SignAccessToken(u)
	if err != nil {
		t.Fatalf("sign access token: %v", err)
	}

	claims, err := svc.VerifyToken(signed)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if claims.UserID != u.ID {
		t.Errorf("user id mismatch: got %s want %s", claims.UserID, u.ID)
	}
	if !claims.IsSuperuser {
		t.Error("is_superuser flag should survive the round trip")
	}
	if claims.TokenUse != "access" {
		t.Errorf("token_use = %q, want access", claims.TokenUse)
	}
}

func TestVerifyToken_rejectsWrongSecret(t *testing.T) {
	u := &User{ID: uuid.New()}
	signed, err := NewTokenService("secret-a").SignAccessToken(u)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewTokenService("secret-b").VerifyToken(signed); err == nil {
		t.Error("token signed with a different secret must not verify")
	}
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	svc := NewTokenService("secret")
	u := &User{ID: uuid.New()}

	signed, err := svc.SignRefreshToken(u)
	if err != nil {
		t.Fatalf("sign refresh token: %v", err)
	}
	claims, err := svc.VerifyToken(signed)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.TokenUse != "refresh" {
		t.Errorf("token_use = %q, want refresh", claims.TokenUse)
	}
}
