package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/trackdeck/internal/model"
)

// mockVerifier はTokenVerifierのモック実装。
type mockVerifier struct {
	verifyFn func(token string) (string, error)
}

func (m *mockVerifier) Verify(token string) (string, error) {
	if m.verifyFn != nil {
		return m.verifyFn(token)
	}
	return "", errors.New("not configured")
}

func TestService_Authenticate_Success(t *testing.T) {
	svc := NewService(&mockVerifier{
		verifyFn: func(token string) (string, error) {
			if token != "valid-token" {
				t.Errorf("token = %q, want %q", token, "valid-token")
			}
			return "user_2abc", nil
		},
	})

	req := httptest.NewRequest(http.MethodPatch, "/api/issue/1", nil)
	req.Header.Set("Authorization", "Bearer valid-token")

	claim, err := svc.Authenticate(req)
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if claim.Subject != "user_2abc" {
		t.Errorf("claim.Subject = %q, want %q", claim.Subject, "user_2abc")
	}
}

func TestService_Authenticate_MissingHeader(t *testing.T) {
	svc := NewService(&mockVerifier{})

	req := httptest.NewRequest(http.MethodDelete, "/api/issue/1", nil)

	_, err := svc.Authenticate(req)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeMissingCredential {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeMissingCredential)
	}
}

func TestService_Authenticate_NotBearerScheme(t *testing.T) {
	svc := NewService(&mockVerifier{})

	req := httptest.NewRequest(http.MethodDelete, "/api/issue/1", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	_, err := svc.Authenticate(req)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeMissingCredential {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeMissingCredential)
	}
}

func TestService_Authenticate_EmptyToken(t *testing.T) {
	svc := NewService(&mockVerifier{})

	req := httptest.NewRequest(http.MethodDelete, "/api/issue/1", nil)
	req.Header.Set("Authorization", "Bearer ")

	if _, err := svc.Authenticate(req); err == nil {
		t.Fatal("expected error for empty bearer token")
	}
}

func TestService_Authenticate_VerifierRejects(t *testing.T) {
	svc := NewService(&mockVerifier{
		verifyFn: func(token string) (string, error) {
			return "", ErrExpiredToken
		},
	})

	req := httptest.NewRequest(http.MethodPatch, "/api/issue/1", nil)
	req.Header.Set("Authorization", "Bearer expired-token")

	_, err := svc.Authenticate(req)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeInvalidCredential {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeInvalidCredential)
	}
}

func TestService_Authenticate_WithRealVerifier(t *testing.T) {
	verifier := NewJWTVerifier([]byte("integration-secret"))
	svc := NewService(verifier)

	token, err := verifier.Generate("user_2xyz", time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/issue", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	claim, err := svc.Authenticate(req)
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if claim.Subject != "user_2xyz" {
		t.Errorf("claim.Subject = %q, want %q", claim.Subject, "user_2xyz")
	}
}

func TestService_AuthorizeOwnership(t *testing.T) {
	svc := NewService(&mockVerifier{})

	tests := []struct {
		name   string
		claim  *model.Claim
		author string
		want   bool
	}{
		{"所有者一致", &model.Claim{Subject: "u1"}, "u1", true},
		{"所有者不一致", &model.Claim{Subject: "u2"}, "u1", false},
		{"空subjectと空author", &model.Claim{Subject: ""}, "", true},
		{"nilクレーム", nil, "u1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.AuthorizeOwnership(tt.claim, tt.author); got != tt.want {
				t.Errorf("AuthorizeOwnership() = %v, want %v", got, tt.want)
			}
		})
	}
}
