package security

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, errGen := GenerateToken("secret", 42, "sifu-student", "student@example.com", time.Hour)
	if errGen != nil {
		t.Fatalf("generate: %v", errGen)
	}

	claims, errParse := ParseToken("secret", token)
	if errParse != nil {
		t.Fatalf("parse: %v", errParse)
	}
	if claims.UserID != 42 || claims.Username != "sifu-student" || claims.Email != "student@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, errGen := GenerateToken("secret", 1, "u", "u@example.com", time.Hour)
	if errGen != nil {
		t.Fatalf("generate: %v", errGen)
	}
	if _, errParse := ParseToken("other-secret", token); !errors.Is(errParse, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", errParse)
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, errGen := GenerateToken("secret", 1, "u", "u@example.com", -time.Minute)
	if errGen != nil {
		t.Fatalf("generate: %v", errGen)
	}
	if _, errParse := ParseToken("secret", token); !errors.Is(errParse, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", errParse)
	}
}

func TestAdminTokenIsNotAUserToken(t *testing.T) {
	adminToken, errGen := GenerateAdminToken("admin-secret", 7, "root", time.Hour)
	if errGen != nil {
		t.Fatalf("generate admin: %v", errGen)
	}
	claims, errParse := ParseAdminToken("admin-secret", adminToken)
	if errParse != nil {
		t.Fatalf("parse admin: %v", errParse)
	}
	if claims.AdminID != 7 {
		t.Fatalf("admin id = %d, want 7", claims.AdminID)
	}
	// Admin tokens signed with the admin secret fail user-token validation
	// when the secrets differ.
	if _, errUser := ParseToken("user-secret", adminToken); errUser == nil {
		t.Fatal("admin token accepted as user token")
	}
}
