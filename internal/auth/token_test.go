package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/med-repair-dash/backend/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	userID := uuid.New()

	token, err := svc.Generate(userID, models.RoleTechnician)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != userID.String() {
		t.Fatalf("expected user id %s, got %s", userID, claims.UserID)
	}
	if claims.Role != string(models.RoleTechnician) {
		t.Fatalf("expected technician role, got %s", claims.Role)
	}
}

func TestTokenWrongSecretRejected(t *testing.T) {
	token, err := NewTokenService("secret-a", time.Hour).Generate(uuid.New(), models.RoleAdmin)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := NewTokenService("secret-b", time.Hour).Parse(token); err == nil {
		t.Fatalf("expected parse failure with wrong secret")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := NewTokenService("test-secret", -time.Minute)
	token, err := svc.Generate(uuid.New(), models.RoleHospital)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := svc.Parse(token); err == nil {
		t.Fatalf("expected parse failure for expired token")
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	if _, err := svc.Parse("not-a-token"); err == nil {
		t.Fatalf("expected parse failure")
	}
}
