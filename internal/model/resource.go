// Package model はドメインモデルを定義する。
package model

// Resource はトラッカーで管理する作業単位（イシュー/タスク）を表す。
// IDは作成時にストアが採番し、以降不変。Authorは作成者のsubjectを保持し、
// 更新操作では決して書き換えられない。
type Resource struct {
	ID          int64
	Title       string
	Description string
	Status      string
	Label       string
	Author      string
}

// ResourceFields はResourceのうち更新可能なフィールドの集合。
// update操作はこの4フィールドのみを上書きする。
type ResourceFields struct {
	Title       string
	Description string
	Status      string
	Label       string
}

// ResourceKind はリソース種別を表す。テーブルごとに1種別が対応する。
type ResourceKind string

const (
	// ResourceKindIssue はイシューを表す。
	ResourceKindIssue ResourceKind = "issue"
	// ResourceKindTask はタスクを表す。
	ResourceKindTask ResourceKind = "task"
)
