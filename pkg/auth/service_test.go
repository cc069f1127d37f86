package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/cutroom-hq/cutroom-engine/pkg/testhelpers"
)

// mockJWKSClient implements JWKSClientInterface for testing.
type mockJWKSClient struct {
	claims *Claims
	err    error
}

func (m *mockJWKSClient) ValidateToken(_ string) (*Claims, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.claims, nil
}

func (m *mockJWKSClient) Close() {}

func TestValidateRequest_BearerHeader(t *testing.T) {
	claims := &Claims{}
	claims.Subject = "user-1"
	svc := NewAuthService(&mockJWKSClient{claims: claims}, zap.NewNop())

	req := httptest.NewRequest("GET", "/api/projects", nil)
	req.Header.Set("Authorization", testhelpers.GenerateTestJWTWithBearer("user-1", "", ""))

	got, token, err := svc.ValidateRequest(req)
	if err != nil {
		t.Fatalf("ValidateRequest failed: %v", err)
	}
	if got.Subject != "user-1" {
		t.Errorf("unexpected subject: %s", got.Subject)
	}
	if token == "" {
		t.Error("expected raw token to be returned")
	}
}

func TestValidateRequest_Cookie(t *testing.T) {
	claims := &Claims{}
	claims.Subject = "user-1"
	svc := NewAuthService(&mockJWKSClient{claims: claims}, zap.NewNop())

	req := httptest.NewRequest("GET", "/api/projects", nil)
	req.AddCookie(&http.Cookie{Name: "cutroom_jwt", Value: testhelpers.GenerateTestJWT("user-1", "", "")})

	if _, _, err := svc.ValidateRequest(req); err != nil {
		t.Fatalf("ValidateRequest failed: %v", err)
	}
}

func TestValidateRequest_MissingAuth(t *testing.T) {
	svc := NewAuthService(&mockJWKSClient{}, zap.NewNop())

	req := httptest.NewRequest("GET", "/api/projects", nil)

	_, _, err := svc.ValidateRequest(req)
	if !errors.Is(err, ErrMissingAuthorization) {
		t.Errorf("expected ErrMissingAuthorization, got %v", err)
	}
}

func TestValidateRequest_BadHeaderFormat(t *testing.T) {
	svc := NewAuthService(&mockJWKSClient{}, zap.NewNop())

	req := httptest.NewRequest("GET", "/api/projects", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	_, _, err := svc.ValidateRequest(req)
	if !errors.Is(err, ErrInvalidAuthFormat) {
		t.Errorf("expected ErrInvalidAuthFormat, got %v", err)
	}
}

func TestValidateRequest_InvalidToken(t *testing.T) {
	svc := NewAuthService(&mockJWKSClient{err: errors.New("bad signature")}, zap.NewNop())

	req := httptest.NewRequest("GET", "/api/projects", nil)
	req.Header.Set("Authorization", "Bearer whatever")

	if _, _, err := svc.ValidateRequest(req); err == nil {
		t.Error("expected error from invalid token")
	}
}
