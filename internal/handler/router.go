package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/trackdeck/internal/middleware"
	"github.com/hitoshi/trackdeck/internal/model"
)

// HealthChecker はヘルスチェックに使う依存の接続確認インターフェース。
// *sql.DBが満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// 認証・認可（通常は同一のauth.Serviceを渡す）
	Authenticator       middleware.Authenticator
	OwnershipAuthorizer OwnershipAuthorizer

	CORSAllowedOrigin string

	// リソースストア
	IssueStore ResourceStore
	TaskStore  ResourceStore

	// 外部IDプロバイダ
	IdentityClient IdentityClient

	// 運用
	HealthChecker HealthChecker

	// メトリクス（いずれもnil可。nilの場合は該当機能を無効化する）
	HTTPRecorder        middleware.HTTPRecorder
	AuthzRecorder       AuthzRecorder
	AuthFailureRecorder middleware.AuthFailureRecorder
	MetricsHandler      http.Handler
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → Metrics
//
// 認証ミドルウェアは全ルートには適用しない。読み取りルートは資格情報の
// 有無にかかわらず応答し、変更ルートと/api/user/selfのみ認証を要求する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))
	if deps.HTTPRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.HTTPRecorder))
	}

	issueHandler := NewResourceHandler(deps.IssueStore, model.ResourceKindIssue, deps.OwnershipAuthorizer, deps.AuthzRecorder)
	taskHandler := NewResourceHandler(deps.TaskStore, model.ResourceKindTask, deps.OwnershipAuthorizer, deps.AuthzRecorder)
	userHandler := NewUserHandler(deps.IdentityClient)
	requireAuth := middleware.NewAuthMiddleware(deps.Authenticator, deps.AuthFailureRecorder)

	// --- 運用エンドポイント ---

	r.Get("/health", newHealthHandler(deps.HealthChecker))
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	// --- APIルート ---

	r.Route("/api", func(r chi.Router) {
		// 一覧（認証不要）
		r.Get("/issues", issueHandler.List)
		r.Get("/tasks", taskHandler.List)

		// イシュー
		r.Route("/issue", func(r chi.Router) {
			r.Get("/{id}", issueHandler.Get)

			// 変更系は認証必須
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", issueHandler.Create)
				r.Patch("/{id}", issueHandler.Update)
				r.Delete("/{id}", issueHandler.Delete)
			})
		})

		// タスク
		r.Route("/task", func(r chi.Router) {
			r.Get("/{id}", taskHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", taskHandler.Create)
				r.Patch("/{id}", taskHandler.Update)
				r.Delete("/{id}", taskHandler.Delete)
			})
		})

		// ユーザー
		r.Route("/user", func(r chi.Router) {
			r.With(requireAuth).Get("/self", userHandler.GetSelf)
			r.Get("/{id}", userHandler.GetByID)
		})
	})

	return r
}

// newHealthHandler はDB接続を確認するヘルスチェックハンドラーを返す。
func newHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if checker != nil {
			if err := checker.PingContext(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{"status": "unhealthy"})
				return
			}
		}

		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
