package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/trackdeck/internal/model"
)

// リソース種別ごとのテーブル名。テーブル名はこの定数以外から組み立てない。
const (
	issuesTable = "issues"
	tasksTable  = "tasks"
)

// PostgresResourceRepo はPostgreSQLを使用したリソースリポジトリ。
// issuesテーブルとtasksテーブルは同一スキーマのため、1実装をテーブル名で
// パラメータ化して共用する。
type PostgresResourceRepo struct {
	db    *sql.DB
	table string
}

// NewPostgresIssueRepo はissuesテーブルを扱うPostgresResourceRepoを生成する。
func NewPostgresIssueRepo(db *sql.DB) *PostgresResourceRepo {
	return &PostgresResourceRepo{db: db, table: issuesTable}
}

// NewPostgresTaskRepo はtasksテーブルを扱うPostgresResourceRepoを生成する。
func NewPostgresTaskRepo(db *sql.DB) *PostgresResourceRepo {
	return &PostgresResourceRepo{db: db, table: tasksTable}
}

// List は全リソースを取得する。並び順はストアのデフォルトに従う。
func (r *PostgresResourceRepo) List(ctx context.Context) ([]model.Resource, error) {
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT id, title, description, status, label, author FROM %s`, r.table),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	defer rows.Close()

	resources := []model.Resource{}
	for rows.Next() {
		var res model.Resource
		if err := rows.Scan(&res.ID, &res.Title, &res.Description, &res.Status, &res.Label, &res.Author); err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		resources = append(resources, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate resources: %w", err)
	}

	return resources, nil
}

// FindByID は指定IDのリソースを取得する。見つからない場合はnilを返す。
func (r *PostgresResourceRepo) FindByID(ctx context.Context, id int64) (*model.Resource, error) {
	res := &model.Resource{}
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT id, title, description, status, label, author FROM %s WHERE id = $1`, r.table),
		id,
	).Scan(&res.ID, &res.Title, &res.Description, &res.Status, &res.Label, &res.Author)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find resource by ID: %w", err)
	}

	return res, nil
}

// Create はリソースを作成し、採番されたIDを含む行を返す。
func (r *PostgresResourceRepo) Create(ctx context.Context, res *model.Resource) (*model.Resource, error) {
	created := &model.Resource{}
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (title, description, status, label, author)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, title, description, status, label, author`, r.table),
		res.Title, res.Description, res.Status, res.Label, res.Author,
	).Scan(&created.ID, &created.Title, &created.Description, &created.Status, &created.Label, &created.Author)

	if err != nil {
		return nil, fmt.Errorf("failed to insert resource: %w", err)
	}

	return created, nil
}

// UpdateOwned は(id, author)が一致する行を単一文で更新する。
// 所有権チェックと書き込みの間のレースはこの条件付きUPDATEで排除される。
func (r *PostgresResourceRepo) UpdateOwned(ctx context.Context, id int64, author string, fields model.ResourceFields) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET title = $1, description = $2, status = $3, label = $4
		 WHERE id = $5 AND author = $6`, r.table),
		fields.Title, fields.Description, fields.Status, fields.Label, id, author,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update resource: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// DeleteOwned は(id, author)が一致する行を単一文で削除する。
func (r *PostgresResourceRepo) DeleteOwned(ctx context.Context, id int64, author string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND author = $2`, r.table),
		id, author,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete resource: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// compile-time interface check
var _ ResourceRepository = (*PostgresResourceRepo)(nil)
