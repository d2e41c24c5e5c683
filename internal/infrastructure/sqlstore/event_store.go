package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-fetcher/internal/domain/event"
	"github.com/sanosuguru/go-event-fetcher/internal/pkg/logger"
)

const (
	eventsTable  = "events"
	colID        = "id"
	colTitle     = "title"
	colStartAt   = "start_at"
	colEndAt     = "end_at"
	colCreatedAt = "created_at"
)

// eventRow はDBの行を表す構造体
type eventRow struct {
	ID      string    `db:"id"`
	Title   string    `db:"title"`
	StartAt time.Time `db:"start_at"`
	EndAt   time.Time `db:"end_at"`
}

// toEntity はeventRowをEventに変換する
func (r *eventRow) toEntity() event.Event {
	return event.Event{
		ID:      r.ID,
		Title:   r.Title,
		StartAt: r.StartAt,
		EndAt:   r.EndAt,
	}
}

// EventStore はSQLデータベースをバックエンドにしたイベントストア
// PostgreSQL と SQLite に対応し、SQLは goqu でドライバーの方言に合わせて組み立てる
type EventStore struct {
	db      *sqlx.DB
	builder goqu.DialectWrapper
	log     *zap.Logger
}

// NewEventStore はEventStoreを作成する
func NewEventStore(db *sqlx.DB) *EventStore {
	return &EventStore{
		db:      db,
		builder: goqu.Dialect(dialectFor(db.DriverName())),
		log:     logger.Named("sqlstore").With(zap.String("driver", db.DriverName())),
	}
}

// dialectFor はドライバー名に対応する goqu の方言名を返す
func dialectFor(driverName string) string {
	if driverName == DriverSQLite {
		return "sqlite3"
	}
	return "postgres"
}

// Connect はデータベースへの疎通を確認する
func (s *EventStore) Connect(ctx context.Context) bool {
	if err := s.db.PingContext(ctx); err != nil {
		s.log.Warn("データベースに接続できません", zap.Error(err))
		return false
	}
	return true
}

// Events は保存されているすべてのイベントを開始時刻順に返す
// 期間での絞り込みはサービス側で行う
func (s *EventStore) Events(ctx context.Context, _, _ time.Time) ([]event.Event, error) {
	query, args, err := s.selectEvents().
		Order(goqu.C(colStartAt).Asc(), goqu.C(colEndAt).Asc(), goqu.C(colID).Asc()).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("クエリ生成に失敗しました: %w", err)
	}

	var rows []eventRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("イベント一覧取得に失敗しました: %w", err)
	}

	events := make([]event.Event, len(rows))
	for i := range rows {
		events[i] = rows[i].toEntity()
	}
	return events, nil
}

// Add はイベントを登録する
// IDが空の場合はUUIDを割り当てる
func (s *EventStore) Add(ctx context.Context, e event.Event) (event.Event, error) {
	if err := e.Validate(); err != nil {
		return event.Event{}, err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	// SQLiteは文字列で時刻を保存するため、並び順が崩れないようUTCに揃える
	query, args, err := s.builder.Insert(eventsTable).Prepared(true).Rows(goqu.Record{
		colID:        e.ID,
		colTitle:     e.Title,
		colStartAt:   e.StartAt.UTC(),
		colEndAt:     e.EndAt.UTC(),
		colCreatedAt: time.Now().UTC(),
	}).ToSQL()
	if err != nil {
		return event.Event{}, fmt.Errorf("クエリ生成に失敗しました: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return event.Event{}, fmt.Errorf("イベント登録に失敗しました: %w", err)
	}
	return e, nil
}

// Remove はIDが一致するイベントを削除する
func (s *EventStore) Remove(ctx context.Context, e event.Event) error {
	query, args, err := s.builder.Delete(eventsTable).Prepared(true).
		Where(goqu.C(colID).Eq(e.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("クエリ生成に失敗しました: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("イベント削除に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return event.ErrEventNotFound
	}
	return nil
}

// EventByID はIDからイベントを取得する
func (s *EventStore) EventByID(ctx context.Context, id string) (*event.Event, error) {
	query, args, err := s.selectEvents().
		Where(goqu.C(colID).Eq(id)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("クエリ生成に失敗しました: %w", err)
	}

	var row eventRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, event.ErrEventNotFound
		}
		return nil, fmt.Errorf("イベント取得に失敗しました: %w", err)
	}
	e := row.toEntity()
	return &e, nil
}

func (s *EventStore) selectEvents() *goqu.SelectDataset {
	return s.builder.From(eventsTable).Prepared(true).
		Select(colID, colTitle, colStartAt, colEndAt)
}

// インターフェースを満たしているか確認
var _ event.Store = (*EventStore)(nil)
