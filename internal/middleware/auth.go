// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hitoshi/trackdeck/internal/model"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// claimContextKey はリクエストコンテキストに検証済みClaimを格納するためのキー。
var claimContextKey = contextKey("claim")

// Authenticator はリクエスト認証に必要なインターフェース。
// auth.Serviceの部分集合として定義する。
type Authenticator interface {
	Authenticate(r *http.Request) (*model.Claim, error)
}

// AuthFailureRecorder は資格情報検証失敗のメトリクス記録インターフェース。
type AuthFailureRecorder interface {
	RecordAuthFailure(reason string)
}

// NewAuthMiddleware はベアラー資格情報を検証し、検証済みClaimを
// リクエストコンテキストに注入するミドルウェアを返す。
// 資格情報の欠落・無効には401の失敗エンベロープを返す。
// Claimの寿命はリクエストと同じで、永続化されない。
// recorderはnil可（メトリクス未使用時）。
func NewAuthMiddleware(authenticator Authenticator, recorder AuthFailureRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claim, err := authenticator.Authenticate(r)
			if err != nil {
				if apiErr, ok := err.(*model.APIError); ok {
					if recorder != nil {
						recorder.RecordAuthFailure(apiErr.Code)
					}
					WriteAPIError(w, apiErr)
					return
				}
				if recorder != nil {
					recorder.RecordAuthFailure(model.ErrCodeInvalidCredential)
				}
				WriteAPIError(w, model.NewInvalidCredentialError())
				return
			}

			recordSubject(r.Context(), claim.Subject)

			ctx := context.WithValue(r.Context(), claimContextKey, claim)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimFromContext はリクエストコンテキストから検証済みClaimを取得する。
// 認証ミドルウェアを通過したリクエストでのみ有効。
func ClaimFromContext(ctx context.Context) (*model.Claim, error) {
	claim, ok := ctx.Value(claimContextKey).(*model.Claim)
	if !ok || claim == nil || claim.Subject == "" {
		return nil, fmt.Errorf("claim not found in context")
	}
	return claim, nil
}

// ContextWithClaim はコンテキストにClaimを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithClaim(ctx context.Context, claim *model.Claim) context.Context {
	return context.WithValue(ctx, claimContextKey, claim)
}
