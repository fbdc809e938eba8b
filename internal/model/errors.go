// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// Codeは内部のエラー分類、Messageは呼び出し元に返す文言。
// ストア/プロバイダー障害の詳細はMessageに含めず、サーバーログのみに記録する。
type APIError struct {
	Code    string // エラーコード
	Message string // エラーメッセージ
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeMissingCredential = "MISSING_CREDENTIAL"
	ErrCodeInvalidCredential = "INVALID_CREDENTIAL"
	ErrCodeOwnershipMismatch = "OWNERSHIP_MISMATCH"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeStoreFailure      = "STORE_FAILURE"
	ErrCodeIdentityFailure   = "IDENTITY_FAILURE"
	ErrCodeInvalidRequest    = "INVALID_REQUEST"
)

// NewMissingCredentialError はベアラー資格情報が提示されなかった場合のエラーを生成する。
func NewMissingCredentialError() *APIError {
	return &APIError{
		Code:    ErrCodeMissingCredential,
		Message: "認証情報が必要です。",
	}
}

// NewInvalidCredentialError は資格情報の検証に失敗した場合のエラーを生成する。
// 失効・署名不正・形式不正はすべてこのエラーに分類する。
func NewInvalidCredentialError() *APIError {
	return &APIError{
		Code:    ErrCodeInvalidCredential,
		Message: "認証情報が無効です。",
	}
}

// NewOwnershipMismatchError は作成者以外が変更操作を要求した場合のエラーを生成する。
func NewOwnershipMismatchError(kind ResourceKind) *APIError {
	return &APIError{
		Code:    ErrCodeOwnershipMismatch,
		Message: fmt.Sprintf("この%sを変更する権限がありません。", kindLabel(kind)),
	}
}

// NewNotFoundError は対象リソースが存在しない場合のエラーを生成する。
func NewNotFoundError(kind ResourceKind) *APIError {
	return &APIError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("指定された%sが見つかりません。", kindLabel(kind)),
	}
}

// NewStoreFailureError はストア操作の失敗を表すエラーを生成する。
// 接続障害と制約違反は区別せず、呼び出し元には一般的な文言のみを返す。
func NewStoreFailureError() *APIError {
	return &APIError{
		Code:    ErrCodeStoreFailure,
		Message: "処理に失敗しました。しばらく待ってから再度お試しください。",
	}
}

// NewIdentityFailureError はIDプロバイダー呼び出しの失敗を表すエラーを生成する。
func NewIdentityFailureError() *APIError {
	return &APIError{
		Code:    ErrCodeIdentityFailure,
		Message: "ユーザー情報の取得に失敗しました。",
	}
}

// NewInvalidRequestError はリクエストボディやパスパラメータの形式不正を表すエラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:    ErrCodeInvalidRequest,
		Message: fmt.Sprintf("リクエストが不正です: %s", reason),
	}
}

// kindLabel はリソース種別の表示名を返す。
func kindLabel(kind ResourceKind) string {
	switch kind {
	case ResourceKindTask:
		return "タスク"
	default:
		return "イシュー"
	}
}
