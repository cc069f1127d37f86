package auth

import (
	"testing"

	"github.com/cutroom-hq/cutroom-engine/pkg/testhelpers"
)

func TestNewJWKSClient_DevMode(t *testing.T) {
	config := &JWKSConfig{
		EnableVerification: false,
	}

	client, err := NewJWKSClient(config)
	if err != nil {
		t.Fatalf("NewJWKSClient failed: %v", err)
	}
	defer client.Close()

	if client == nil {
		t.Fatal("expected non-nil client")
	}
}

func TestValidateToken_DevModeParsesClaims(t *testing.T) {
	client, err := NewJWKSClient(&JWKSConfig{EnableVerification: false})
	if err != nil {
		t.Fatalf("NewJWKSClient failed: %v", err)
	}
	defer client.Close()

	token := testhelpers.GenerateTestJWT("3290c3c7-9d42-4f94-8f94-3b79886dd754", "Jane", "jane@studio.test")

	claims, err := client.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}

	if claims.Subject != "3290c3c7-9d42-4f94-8f94-3b79886dd754" {
		t.Errorf("unexpected subject: %s", claims.Subject)
	}
	if claims.Name != "Jane" {
		t.Errorf("unexpected name: %s", claims.Name)
	}
	if claims.Email != "jane@studio.test" {
		t.Errorf("unexpected email: %s", claims.Email)
	}
}

func TestValidateToken_DevModeMalformed(t *testing.T) {
	client, err := NewJWKSClient(&JWKSConfig{EnableVerification: false})
	if err != nil {
		t.Fatalf("NewJWKSClient failed: %v", err)
	}
	defer client.Close()

	if _, err := client.ValidateToken("not-a-jwt"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestValidateToken_VerificationRejectsUnsigned(t *testing.T) {
	// Verification enabled with no configured issuers: every token must be
	// rejected, signed or not.
	client, err := NewJWKSClient(&JWKSConfig{
		EnableVerification: true,
		JWKSEndpoints:      map[string]string{},
	})
	if err != nil {
		t.Fatalf("NewJWKSClient failed: %v", err)
	}
	defer client.Close()

	token := testhelpers.GenerateTestJWT("3290c3c7-9d42-4f94-8f94-3b79886dd754", "", "")
	if _, err := client.ValidateToken(token); err == nil {
		t.Error("expected error for unsigned token with verification enabled")
	}
}
