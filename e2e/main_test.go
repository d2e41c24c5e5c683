package e2e

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-fetcher/internal/api/router"
	"github.com/sanosuguru/go-event-fetcher/internal/application"
	"github.com/sanosuguru/go-event-fetcher/internal/config"
	"github.com/sanosuguru/go-event-fetcher/internal/infrastructure/sqlstore"
	"github.com/sanosuguru/go-event-fetcher/internal/pkg/metrics"
)

var (
	testServer *TestServer
	testDB     *sqlx.DB
)

// TestMain はE2Eテストのエントリポイント
// PostgreSQL が起動していればそれを使い、なければ一時ディレクトリのSQLiteで実行する
func TestMain(m *testing.M) {
	cfg := config.Load()

	db, backend, cleanupDB, err := openDatabase(cfg)
	if err != nil {
		os.Exit(0) // ストアを用意できない環境ではスキップ
	}
	testDB = db

	store := sqlstore.NewEventStore(db)
	reg := prometheus.NewRegistry()
	m2 := metrics.NewWithRegistry(reg)

	eventService, err := application.NewEventService(context.Background(), store,
		application.WithMetrics(m2), application.WithLogger(zap.NewNop()))
	if err != nil {
		cleanupDB()
		os.Exit(0)
	}

	testServer = &TestServer{
		Echo: router.New(router.Deps{
			EventService: eventService,
			StoreBackend: backend,
			Metrics:      m2,
			Gatherer:     reg,
		}),
		Store:    store,
		Registry: reg,
	}

	code := m.Run()

	cleanupTables()
	cleanupDB()

	os.Exit(code)
}

func openDatabase(cfg *config.Config) (*sqlx.DB, string, func(), error) {
	if db, err := sqlstore.NewPostgresConnection(&cfg.Database); err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if db.PingContext(ctx) == nil {
			if err := sqlstore.RunMigrations(db.DB, filepath.Join("..", "migrations")); err == nil {
				return db, config.BackendPostgres, func() { db.Close() }, nil
			}
		}
		db.Close()
	}

	dir, err := os.MkdirTemp("", "event-fetcher-e2e")
	if err != nil {
		return nil, "", nil, err
	}
	db, err := sqlstore.NewSQLiteConnection(filepath.Join(dir, "events.db"))
	if err != nil {
		os.RemoveAll(dir)
		return nil, "", nil, err
	}
	if err := sqlstore.EnsureSQLiteSchema(context.Background(), db); err != nil {
		db.Close()
		os.RemoveAll(dir)
		return nil, "", nil, err
	}
	return db, config.BackendSQLite, func() {
		db.Close()
		os.RemoveAll(dir)
	}, nil
}

// cleanupTables はテーブルをクリーンアップ
func cleanupTables() {
	testDB.Exec("DELETE FROM events")
}

// getTestServer は共有サーバーを取得（テスト前にテーブルをクリーンアップ）
func getTestServer(t *testing.T) *TestServer {
	t.Helper()
	if testServer == nil {
		t.Skip("テスト環境が利用できません")
	}
	cleanupTables()
	return testServer
}
