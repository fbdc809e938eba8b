package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/hitoshi/trackdeck/internal/model"
)

// 統一レスポンスエンベロープのstatus値
const (
	// StatusSuccess は処理成功を示す。
	StatusSuccess = "SUCCESS"
	// StatusFailed は処理失敗を示す。
	StatusFailed = "FAILED"
)

// Envelope は全エンドポイント共通のレスポンスエンベロープ。
// 成功時は {status, message?, data?}、失敗時は {status, message} を返す。
type Envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// WriteSuccessData はdata入りの成功エンベロープを書き込む。
func WriteSuccessData(w http.ResponseWriter, data interface{}) {
	writeEnvelope(w, http.StatusOK, Envelope{Status: StatusSuccess, Data: data})
}

// WriteSuccessMessage はmessage入りの成功エンベロープを書き込む。
func WriteSuccessMessage(w http.ResponseWriter, message string) {
	writeEnvelope(w, http.StatusOK, Envelope{Status: StatusSuccess, Message: message})
}

// WriteCreated はmessageとdata入りの成功エンベロープを201で書き込む。
func WriteCreated(w http.ResponseWriter, message string, data interface{}) {
	writeEnvelope(w, http.StatusCreated, Envelope{Status: StatusSuccess, Message: message, Data: data})
}

// WriteAPIError はAPIErrorを対応するHTTPステータスの失敗エンベロープとして書き込む。
// エラーコードとステータスの対応はここで一元管理する。
func WriteAPIError(w http.ResponseWriter, apiErr *model.APIError) {
	writeEnvelope(w, mapErrorCodeToHTTPStatus(apiErr.Code), Envelope{
		Status:  StatusFailed,
		Message: apiErr.Message,
	})
}

// writeEnvelope はエンベロープをJSONとして書き込む。
func writeEnvelope(w http.ResponseWriter, statusCode int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(env)
}

// mapErrorCodeToHTTPStatus はエラーコードからHTTPステータスコードにマッピングする。
// 資格情報の欠落・無効は401、所有権不一致は403に揃える。
func mapErrorCodeToHTTPStatus(code string) int {
	switch code {
	case model.ErrCodeMissingCredential, model.ErrCodeInvalidCredential:
		return http.StatusUnauthorized
	case model.ErrCodeOwnershipMismatch:
		return http.StatusForbidden
	case model.ErrCodeNotFound:
		return http.StatusNotFound
	case model.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
