package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/trackdeck/internal/middleware"
	"github.com/hitoshi/trackdeck/internal/model"
)

// ResourceStore はリソースハンドラーが必要とするストアインターフェース。
// repository.ResourceRepositoryの部分集合として定義する。
type ResourceStore interface {
	List(ctx context.Context) ([]model.Resource, error)
	FindByID(ctx context.Context, id int64) (*model.Resource, error)
	Create(ctx context.Context, res *model.Resource) (*model.Resource, error)
	UpdateOwned(ctx context.Context, id int64, author string, fields model.ResourceFields) (bool, error)
	DeleteOwned(ctx context.Context, id int64, author string) (bool, error)
}

// OwnershipAuthorizer は所有権判定インターフェース。
// auth.Serviceの部分集合として定義する。
type OwnershipAuthorizer interface {
	AuthorizeOwnership(claim *model.Claim, author string) bool
}

// AuthzRecorder は所有権判定結果のメトリクス記録インターフェース。
type AuthzRecorder interface {
	RecordAuthzDecision(allowed bool)
}

// ResourceHandler はリソース（イシュー/タスク）のHTTPハンドラー。
// issuesとtasksで同一の処理のため、種別をパラメータ化して共用する。
type ResourceHandler struct {
	store      ResourceStore
	kind       model.ResourceKind
	authorizer OwnershipAuthorizer
	authz      AuthzRecorder
}

// NewResourceHandler はResourceHandlerを生成する。
// 所有権判定はauthorizerに委譲する。authzはnil可（メトリクス未使用時）。
func NewResourceHandler(store ResourceStore, kind model.ResourceKind, authorizer OwnershipAuthorizer, authz AuthzRecorder) *ResourceHandler {
	return &ResourceHandler{
		store:      store,
		kind:       kind,
		authorizer: authorizer,
		authz:      authz,
	}
}

// --- リクエスト/レスポンス型 ---

// resourcePayload は作成・更新リクエストのボディ。
// 全フィールド必須（トランスポート境界での在否チェックのみ行い、内容は検証しない）。
// authorはペイロードから受け取らない。作成時は検証済みClaimのsubjectを採用する。
type resourcePayload struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Label       *string `json:"label"`
}

// fields はペイロードの在否チェックを行い、更新フィールドに変換する。
func (p *resourcePayload) fields() (model.ResourceFields, *model.APIError) {
	missing := ""
	switch {
	case p.Title == nil:
		missing = "title"
	case p.Description == nil:
		missing = "description"
	case p.Status == nil:
		missing = "status"
	case p.Label == nil:
		missing = "label"
	}
	if missing != "" {
		return model.ResourceFields{}, model.NewInvalidRequestError(missing + "は必須です")
	}

	return model.ResourceFields{
		Title:       *p.Title,
		Description: *p.Description,
		Status:      *p.Status,
		Label:       *p.Label,
	}, nil
}

// resourceResponse はリソースのAPIレスポンス。
type resourceResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Label       string `json:"label"`
	Author      string `json:"author"`
}

// toResourceResponse はmodel.ResourceからAPIレスポンスに変換する。
func toResourceResponse(res model.Resource) resourceResponse {
	return resourceResponse{
		ID:          res.ID,
		Title:       res.Title,
		Description: res.Description,
		Status:      res.Status,
		Label:       res.Label,
		Author:      res.Author,
	}
}

// --- ハンドラー ---

// List は全リソースの一覧を取得する。認証不要。
// GET /api/issues, GET /api/tasks
// レスポンスは素のJSON配列。並び順はストアのデフォルトに従う。
func (h *ResourceHandler) List(w http.ResponseWriter, r *http.Request) {
	resources, err := h.store.List(r.Context())
	if err != nil {
		slog.Error("failed to list resources",
			slog.String("kind", string(h.kind)),
			slog.String("error", err.Error()),
		)
		middleware.WriteAPIError(w, model.NewStoreFailureError())
		return
	}

	responses := make([]resourceResponse, 0, len(resources))
	for _, res := range resources {
		responses = append(responses, toResourceResponse(res))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

// Get はリソース詳細を取得する。認証不要。
// GET /api/issue/{id}, GET /api/task/{id}
func (h *ResourceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, apiErr := parseResourceID(r)
	if apiErr != nil {
		middleware.WriteAPIError(w, apiErr)
		return
	}

	res, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("failed to find resource",
			slog.String("kind", string(h.kind)),
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		middleware.WriteAPIError(w, model.NewStoreFailureError())
		return
	}
	if res == nil {
		middleware.WriteAPIError(w, model.NewNotFoundError(h.kind))
		return
	}

	middleware.WriteSuccessData(w, toResourceResponse(*res))
}

// Create はリソースを作成する。要認証。
// POST /api/issue, POST /api/task
// authorは検証済みClaimのsubjectを採用し、ペイロードからは決して受け取らない。
// idはストアが採番する。
func (h *ResourceHandler) Create(w http.ResponseWriter, r *http.Request) {
	claim, err := middleware.ClaimFromContext(r.Context())
	if err != nil {
		middleware.WriteAPIError(w, model.NewMissingCredentialError())
		return
	}

	var payload resourcePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		middleware.WriteAPIError(w, model.NewInvalidRequestError("ボディの解析に失敗しました"))
		return
	}

	fields, apiErr := payload.fields()
	if apiErr != nil {
		middleware.WriteAPIError(w, apiErr)
		return
	}

	created, err := h.store.Create(r.Context(), &model.Resource{
		Title:       fields.Title,
		Description: fields.Description,
		Status:      fields.Status,
		Label:       fields.Label,
		Author:      claim.Subject,
	})
	if err != nil {
		slog.Error("failed to create resource",
			slog.String("kind", string(h.kind)),
			slog.String("error", err.Error()),
		)
		middleware.WriteAPIError(w, model.NewStoreFailureError())
		return
	}

	middleware.WriteCreated(w,
		fmt.Sprintf("%sを作成しました。", h.label()),
		toResourceResponse(*created),
	)
}

// Update はリソースの更新可能フィールドを上書きする。要認証+所有権。
// PATCH /api/issue/{id}, PATCH /api/task/{id}
//
// 認証 → 存在確認 → 所有権判定の順に短絡する。認証済みでも存在しない行への
// 操作は404になり、403にはならない（存在確認が所有権判定の報告より先）。
// 書き込み自体は(id, author)条件付きの単一文のため、存在確認との間に行が
// 消えた場合も404として報告される。
func (h *ResourceHandler) Update(w http.ResponseWriter, r *http.Request) {
	claim, err := middleware.ClaimFromContext(r.Context())
	if err != nil {
		middleware.WriteAPIError(w, model.NewMissingCredentialError())
		return
	}

	id, apiErr := parseResourceID(r)
	if apiErr != nil {
		middleware.WriteAPIError(w, apiErr)
		return
	}

	var payload resourcePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		middleware.WriteAPIError(w, model.NewInvalidRequestError("ボディの解析に失敗しました"))
		return
	}

	fields, apiErr := payload.fields()
	if apiErr != nil {
		middleware.WriteAPIError(w, apiErr)
		return
	}

	res, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("failed to find resource for update",
			slog.String("kind", string(h.kind)),
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		middleware.WriteAPIError(w, model.NewStoreFailureError())
		return
	}
	if res == nil {
		middleware.WriteAPIError(w, model.NewNotFoundError(h.kind))
		return
	}

	if !h.authorizer.AuthorizeOwnership(claim, res.Author) {
		h.recordAuthz(false)
		middleware.WriteAPIError(w, model.NewOwnershipMismatchError(h.kind))
		return
	}
	h.recordAuthz(true)

	updated, err := h.store.UpdateOwned(r.Context(), id, claim.Subject, fields)
	if err != nil {
		slog.Error("failed to update resource",
			slog.String("kind", string(h.kind)),
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		middleware.WriteAPIError(w, model.NewStoreFailureError())
		return
	}
	if !updated {
		// 存在確認と条件付きUPDATEの間に行が削除された
		middleware.WriteAPIError(w, model.NewNotFoundError(h.kind))
		return
	}

	middleware.WriteSuccessMessage(w, fmt.Sprintf("%sを更新しました。", h.label()))
}

// Delete はリソースを削除する。要認証+所有権。
// DELETE /api/issue/{id}, DELETE /api/task/{id}
// 削除済みIDへの再実行は404になる（クラッシュしない）。
func (h *ResourceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claim, err := middleware.ClaimFromContext(r.Context())
	if err != nil {
		middleware.WriteAPIError(w, model.NewMissingCredentialError())
		return
	}

	id, apiErr := parseResourceID(r)
	if apiErr != nil {
		middleware.WriteAPIError(w, apiErr)
		return
	}

	res, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("failed to find resource for delete",
			slog.String("kind", string(h.kind)),
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		middleware.WriteAPIError(w, model.NewStoreFailureError())
		return
	}
	if res == nil {
		middleware.WriteAPIError(w, model.NewNotFoundError(h.kind))
		return
	}

	if !h.authorizer.AuthorizeOwnership(claim, res.Author) {
		h.recordAuthz(false)
		middleware.WriteAPIError(w, model.NewOwnershipMismatchError(h.kind))
		return
	}
	h.recordAuthz(true)

	deleted, err := h.store.DeleteOwned(r.Context(), id, claim.Subject)
	if err != nil {
		slog.Error("failed to delete resource",
			slog.String("kind", string(h.kind)),
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		middleware.WriteAPIError(w, model.NewStoreFailureError())
		return
	}
	if !deleted {
		middleware.WriteAPIError(w, model.NewNotFoundError(h.kind))
		return
	}

	middleware.WriteSuccessMessage(w, fmt.Sprintf("%sを削除しました。", h.label()))
}

// --- ヘルパー ---

// label はリソース種別の表示名を返す。
func (h *ResourceHandler) label() string {
	if h.kind == model.ResourceKindTask {
		return "タスク"
	}
	return "イシュー"
}

// recordAuthz は所有権判定の結果をメトリクスに記録する。
func (h *ResourceHandler) recordAuthz(allowed bool) {
	if h.authz != nil {
		h.authz.RecordAuthzDecision(allowed)
	}
}

// parseResourceID はパスパラメータ{id}を整数として解析する。
func parseResourceID(r *http.Request) (int64, *model.APIError) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, model.NewInvalidRequestError("idは整数で指定してください")
	}
	return id, nil
}
