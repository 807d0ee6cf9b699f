package jwt

import (
	"errors"
	"testing"
)

const secret = "unit-test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken("user-1", "a@coolcare.id", "technician", secret, 15)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	claims, err := ValidateAccessToken(token, secret)
	if err != nil {
		t.Fatalf("ValidateAccessToken failed: %v", err)
	}
	if claims.UserID != "user-1" || claims.Email != "a@coolcare.id" || claims.Role != "technician" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken("user-1", "a@coolcare.id", "admin", secret, 15)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := ValidateAccessToken(token, "other-secret"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("got %v, want ErrTokenInvalid", err)
	}
}

func TestExpiredAccessToken(t *testing.T) {
	token, err := GenerateAccessToken("user-1", "a@coolcare.id", "admin", secret, -1)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := ValidateAccessToken(token, secret); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("got %v, want ErrTokenExpired", err)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	token, err := GenerateRefreshToken("user-1", "token-abc", secret, 7)
	if err != nil {
		t.Fatalf("GenerateRefreshToken failed: %v", err)
	}

	claims, err := ValidateRefreshToken(token, secret)
	if err != nil {
		t.Fatalf("ValidateRefreshToken failed: %v", err)
	}
	if claims.UserID != "user-1" || claims.TokenID != "token-abc" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestRefreshTokenIsNotAccessToken(t *testing.T) {
	// An access token must not validate as a refresh token with the refresh
	// secret, and vice versa when secrets differ.
	access, err := GenerateAccessToken("user-1", "a@coolcare.id", "admin", secret, 15)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := ValidateRefreshToken(access, "refresh-secret"); err == nil {
		t.Error("access token validated as refresh token with a different secret")
	}
}
