//go:build integration

// Package pgtest は統合テスト用のPostgreSQLコンテナを提供する
package pgtest

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/sanosuguru/go-show-ticket-booking/internal/config"
	"github.com/sanosuguru/go-show-ticket-booking/internal/infrastructure/postgres"
)

var (
	once      sync.Once
	shared    *sqlx.DB
	sharedErr error
)

// DB はマイグレーション済みのデータベースを返す
// コンテナはテストプロセス内で共有され、起動できない場合はテストをスキップする
func DB(t *testing.T) *sqlx.DB {
	t.Helper()
	once.Do(func() {
		shared, sharedErr = start(context.Background())
	})
	if sharedErr != nil {
		t.Skipf("PostgreSQLコンテナを起動できません: %v", sharedErr)
	}
	Truncate(t, shared)
	return shared
}

// Truncate はシードデータ以外の全テーブルを空にする
func Truncate(t *testing.T, db *sqlx.DB) {
	t.Helper()
	_, err := db.Exec(`TRUNCATE outbox, booking_history_log, booking_seats, bookings, reviews, shows, seats, venues, events, users CASCADE`)
	if err != nil {
		t.Fatalf("テーブルの初期化に失敗しました: %v", err)
	}
}

func start(ctx context.Context) (*sqlx.DB, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "postgres",
				"POSTGRES_DB":       "show_booking_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, err
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, err
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return nil, err
	}

	db, err := postgres.NewConnection(&config.DatabaseConfig{
		Host: host, Port: port.Port(), User: "postgres", Password: "postgres",
		DBName: "show_booking_test", SSLMode: "disable", MaxOpenConns: 50, MaxIdleConns: 10,
	})
	if err != nil {
		return nil, err
	}
	if err := postgres.RunMigrations(db.DB, migrationsPath()); err != nil {
		return nil, fmt.Errorf("マイグレーションに失敗しました: %w", err)
	}
	return db, nil
}

// migrationsPath はリポジトリ直下の migrations ディレクトリを返す
func migrationsPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "migrations")
}
