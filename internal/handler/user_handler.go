package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/trackdeck/internal/identity"
	"github.com/hitoshi/trackdeck/internal/middleware"
	"github.com/hitoshi/trackdeck/internal/model"
)

// IdentityClient は外部IDプロバイダへの問い合わせインターフェース。
type IdentityClient interface {
	GetUser(ctx context.Context, subject string) (*identity.Profile, error)
}

// UserHandler はユーザー情報参照のHTTPハンドラー。
// ユーザーデータは保持せず、毎回プロバイダに問い合わせる。
type UserHandler struct {
	client IdentityClient
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(client IdentityClient) *UserHandler {
	return &UserHandler{client: client}
}

// profileResponse は公開プロフィール射影。メールアドレス等の
// 非公開フィールドは含めない。
type profileResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	ImageURL  string `json:"image_url"`
}

// toProfileResponse はidentity.Profileから公開射影に変換する。
func toProfileResponse(p identity.Profile) profileResponse {
	return profileResponse{
		ID:        p.ID,
		Username:  p.Username,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		ImageURL:  p.ImageURL,
	}
}

// GetSelf は認証中ユーザー自身のプロフィールを取得する。要認証。
// GET /api/user/self
func (h *UserHandler) GetSelf(w http.ResponseWriter, r *http.Request) {
	claim, err := middleware.ClaimFromContext(r.Context())
	if err != nil {
		middleware.WriteAPIError(w, model.NewMissingCredentialError())
		return
	}

	h.writeProfile(w, r, claim.Subject)
}

// GetByID は任意ユーザーの公開プロフィールを取得する。認証不要。
// GET /api/user/{id}
// idはプロバイダの不透明な識別子であり、整数解析は行わない。
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	subject := chi.URLParam(r, "id")
	if subject == "" {
		middleware.WriteAPIError(w, model.NewInvalidRequestError("idは必須です"))
		return
	}

	h.writeProfile(w, r, subject)
}

// writeProfile はプロバイダに問い合わせて公開射影を書き込む。
// プロバイダ側の失敗は詳細をログにのみ残し、クライアントには汎用の
// 失敗エンベロープを返す。
func (h *UserHandler) writeProfile(w http.ResponseWriter, r *http.Request, subject string) {
	profile, err := h.client.GetUser(r.Context(), subject)
	if err != nil {
		slog.Error("failed to fetch user profile",
			slog.String("subject", subject),
			slog.String("error", err.Error()),
		)
		middleware.WriteAPIError(w, model.NewIdentityFailureError())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toProfileResponse(*profile))
}
