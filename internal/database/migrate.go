// Package database はデータベース接続とマイグレーション管理を提供する。
package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// issuesとtasksのスキーマ定義。バイナリに埋め込み、migrateサブコマンドで適用する。
//
//go:embed migrations/*.sql
var migrationsFS embed.FS

// NewMigrator は埋め込みスキーマを対象とするmigrateインスタンスを生成する。
// databaseURLはPostgreSQLの接続URLを指定する。
func NewMigrator(databaseURL string) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}

	return m, nil
}

// RunMigrations は未適用のマイグレーションをすべて順番に適用する。
// すでに最新の場合は何もせずに成功を返す（冪等）。
func RunMigrations(databaseURL string) error {
	m, err := NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

// SchemaVersion は現在適用されているスキーマバージョンを返す。
// 1つも適用されていない場合は(0, false, nil)を返す。
func SchemaVersion(databaseURL string) (uint, bool, error) {
	m, err := NewMigrator(databaseURL)
	if err != nil {
		return 0, false, err
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read schema version: %w", err)
	}
	if dirty {
		return version, true, fmt.Errorf("schema version %d is dirty", version)
	}

	return version, true, nil
}
