package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-fetcher/internal/config"
	"github.com/sanosuguru/go-event-fetcher/internal/domain/event"
	"github.com/sanosuguru/go-event-fetcher/internal/infrastructure/memory"
	redisinfra "github.com/sanosuguru/go-event-fetcher/internal/infrastructure/redis"
	"github.com/sanosuguru/go-event-fetcher/internal/infrastructure/sqlstore"
	"github.com/sanosuguru/go-event-fetcher/internal/pkg/logger"
)

// openStore は設定されたバックエンドのイベントストアを作成する
// 返す関数で接続を閉じる
func openStore(ctx context.Context, cfg *config.Config) (event.Store, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return memory.NewStore(), func() {}, nil

	case config.BackendPostgres:
		db, err := sqlstore.NewPostgresConnection(&cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if err := sqlstore.RunMigrations(db.DB, cfg.Store.MigrationsPath); err != nil {
			// 接続できない場合はサービス作成時に ErrNoConnectionToStore として扱う
			logger.Warn("マイグレーションを実行できませんでした", zap.Error(err))
		}
		return sqlstore.NewEventStore(db), func() { db.Close() }, nil

	case config.BackendSQLite:
		db, err := sqlstore.NewSQLiteConnection(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := sqlstore.EnsureSQLiteSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return sqlstore.NewEventStore(db), func() { db.Close() }, nil

	case config.BackendRedis:
		client := redisinfra.NewClient(&cfg.Redis)
		return redisinfra.NewEventStore(client, cfg.Redis.KeyPrefix), func() { client.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("未対応のストアです: %s", cfg.Store.Backend)
	}
}
