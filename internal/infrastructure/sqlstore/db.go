package sqlstore

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/sanosuguru/go-event-fetcher/internal/config"
)

// database/sql のドライバー名
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// NewPostgresConnection はPostgreSQLの接続プールを作成する
// 接続確認は EventStore.Connect で行うため、ここでは疎通しない
func NewPostgresConnection(cfg *config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open(DriverPostgres, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("データベース接続の作成に失敗しました: %w", err)
	}

	// 接続プール設定
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

// NewSQLiteConnection はSQLiteの接続を作成する
// path に ":memory:" を渡すとインメモリDBになる
func NewSQLiteConnection(path string) (*sqlx.DB, error) {
	db, err := sqlx.Open(DriverSQLite, path)
	if err != nil {
		return nil, fmt.Errorf("SQLite接続の作成に失敗しました: %w", err)
	}

	// SQLiteは書き込みが直列化されるため接続は1本に絞る
	// インメモリDBは接続ごとに別のDBになるのでこれが必須
	db.SetMaxOpenConns(1)

	return db, nil
}
