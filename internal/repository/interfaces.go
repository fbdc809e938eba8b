// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/trackdeck/internal/model"
)

// ResourceRepository はリソース（イシュー/タスク）の永続化インターフェース。
// 1テーブルにつき1インスタンスが対応する。
type ResourceRepository interface {
	// List は全リソースを取得する。並び順はストアのデフォルトに従い、契約外。
	List(ctx context.Context) ([]model.Resource, error)

	// FindByID は指定IDのリソースを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Resource, error)

	// Create はリソースを作成し、ストアが採番したIDを含む行を返す。
	// AuthorはResourceに設定済みであること。
	Create(ctx context.Context, res *model.Resource) (*model.Resource, error)

	// UpdateOwned は(id, author)が一致する行の更新可能フィールドを
	// 単一の条件付きUPDATE文で上書きする。idとauthorは変更しない。
	// 行が更新された場合はtrueを返す。
	UpdateOwned(ctx context.Context, id int64, author string, fields model.ResourceFields) (bool, error)

	// DeleteOwned は(id, author)が一致する行を単一の条件付きDELETE文で削除する。
	// 行が削除された場合はtrueを返す。
	DeleteOwned(ctx context.Context, id int64, author string) (bool, error)
}
