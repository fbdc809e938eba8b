package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/trackdeck/internal/model"
)

func TestWriteSuccessData(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccessData(w, map[string]string{"title": "A"})

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var env Envelope
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	if env.Status != StatusSuccess {
		t.Errorf("env.Status = %q, want %q", env.Status, StatusSuccess)
	}
	if env.Data == nil {
		t.Error("expected data to be present")
	}
	if env.Message != "" {
		t.Errorf("message should be omitted, got %q", env.Message)
	}
}

func TestWriteSuccessMessage(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccessMessage(w, "更新しました。")

	var env Envelope
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	if env.Status != StatusSuccess {
		t.Errorf("env.Status = %q, want %q", env.Status, StatusSuccess)
	}
	if env.Message != "更新しました。" {
		t.Errorf("env.Message = %q", env.Message)
	}
	if env.Data != nil {
		t.Error("data should be omitted")
	}
}

func TestWriteAPIError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		apiErr     *model.APIError
		wantStatus int
	}{
		{"資格情報なし", model.NewMissingCredentialError(), http.StatusUnauthorized},
		{"資格情報無効", model.NewInvalidCredentialError(), http.StatusUnauthorized},
		{"所有権不一致", model.NewOwnershipMismatchError(model.ResourceKindIssue), http.StatusForbidden},
		{"リソース不在", model.NewNotFoundError(model.ResourceKindIssue), http.StatusNotFound},
		{"リクエスト不正", model.NewInvalidRequestError("idが整数ではありません"), http.StatusBadRequest},
		{"ストア障害", model.NewStoreFailureError(), http.StatusInternalServerError},
		{"プロバイダー障害", model.NewIdentityFailureError(), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteAPIError(w, tt.apiErr)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}

			var env Envelope
			if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
				t.Fatalf("failed to decode envelope: %v", err)
			}
			if env.Status != StatusFailed {
				t.Errorf("env.Status = %q, want %q", env.Status, StatusFailed)
			}
			if env.Message != tt.apiErr.Message {
				t.Errorf("env.Message = %q, want %q", env.Message, tt.apiErr.Message)
			}
		})
	}
}

// ストア/プロバイダー障害のレスポンスに内部詳細が含まれないことを検証
func TestWriteAPIError_NoInternalDetail(t *testing.T) {
	w := httptest.NewRecorder()
	WriteAPIError(w, model.NewStoreFailureError())

	body := w.Body.String()
	for _, leak := range []string{"pq:", "sql", "connection", "stack"} {
		if strings.Contains(body, leak) {
			t.Errorf("response body leaks internal detail %q: %s", leak, body)
		}
	}
}
