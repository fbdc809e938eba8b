// Package model はドメインモデルを定義する。
package model

// Claim はベアラー資格情報の検証結果を表す。
// リクエスト開始時に生成され、レスポンス時に破棄される。永続化しない。
type Claim struct {
	Subject string
}
