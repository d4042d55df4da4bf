package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-show-ticket-booking/internal/pkg/logger"
)

// RunMigrations はデータベースマイグレーションを実行する
// 予約テーブル・集計ビューともに migrations ディレクトリで管理する
func RunMigrations(db *sql.DB, migrationsPath string) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("マイグレーションドライバー作成エラー: %w", err)
	}

	absPath, err := filepath.Abs(migrationsPath)
	if err != nil {
		return fmt.Errorf("マイグレーションパスの解決エラー: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+filepath.ToSlash(absPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("マイグレーションインスタンス作成エラー: %w", err)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
	case err != nil:
		return fmt.Errorf("マイグレーション実行エラー: %w", err)
	}

	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return fmt.Errorf("マイグレーションバージョン取得エラー: %w", verr)
	}
	if dirty {
		return fmt.Errorf("マイグレーション %d が途中で失敗しています", version)
	}
	logger.Info("マイグレーション完了", zap.Uint("version", version), zap.Bool("changed", err == nil))
	return nil
}
