package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-fetcher/internal/domain/event"
	"github.com/sanosuguru/go-event-fetcher/internal/pkg/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// storedEvent はRedisに保存するイベントの表現
type storedEvent struct {
	ID      string    `json:"id"`
	Title   string    `json:"title,omitempty"`
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
}

func encodeEvent(e event.Event) ([]byte, error) {
	return json.Marshal(storedEvent{
		ID:      e.ID,
		Title:   e.Title,
		StartAt: e.StartAt,
		EndAt:   e.EndAt,
	})
}

func decodeEvent(data []byte) (event.Event, error) {
	var s storedEvent
	if err := json.Unmarshal(data, &s); err != nil {
		return event.Event{}, fmt.Errorf("イベントのデコードに失敗: %w", err)
	}
	return event.Event{ID: s.ID, Title: s.Title, StartAt: s.StartAt, EndAt: s.EndAt}, nil
}

// EventStore はRedisをバックエンドにしたイベントストア
//
// イベント本体は <prefix>:data のハッシュに、開始時刻をスコアにした並び順は
// <prefix>:index のソート済みセットに保存する
type EventStore struct {
	client   *redis.Client
	dataKey  string
	indexKey string
	log      *zap.Logger
}

// NewEventStore は新しいEventStoreを作成する
func NewEventStore(client *redis.Client, keyPrefix string) *EventStore {
	return &EventStore{
		client:   client,
		dataKey:  keyPrefix + ":data",
		indexKey: keyPrefix + ":index",
		log:      logger.Named("redis_store"),
	}
}

// Connect はRedisへの疎通を確認する
func (s *EventStore) Connect(ctx context.Context) bool {
	if err := Ping(ctx, s.client); err != nil {
		s.log.Warn("Redisに接続できません", zap.Error(err))
		return false
	}
	return true
}

// Events は保存されているすべてのイベントを開始時刻順に返す
func (s *EventStore) Events(ctx context.Context, _, _ time.Time) ([]event.Event, error) {
	ids, err := s.client.ZRange(ctx, s.indexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("イベント一覧取得に失敗: %w", err)
	}
	if len(ids) == 0 {
		return []event.Event{}, nil
	}

	values, err := s.client.HMGet(ctx, s.dataKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("イベント一覧取得に失敗: %w", err)
	}

	events := make([]event.Event, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// インデックスだけ残っている場合は読み飛ばす
			s.log.Warn("インデックスに対応するイベントがありません", zap.String("event_id", ids[i]))
			continue
		}
		e, err := decodeEvent([]byte(raw))
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

// Add はイベントを保存する
// IDが空の場合はUUIDを割り当てる
func (s *EventStore) Add(ctx context.Context, e event.Event) (event.Event, error) {
	if err := e.Validate(); err != nil {
		return event.Event{}, err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	payload, err := encodeEvent(e)
	if err != nil {
		return event.Event{}, fmt.Errorf("イベントのエンコードに失敗: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.dataKey, e.ID, payload)
		pipe.ZAdd(ctx, s.indexKey, redis.Z{Score: float64(e.StartAt.UnixMilli()), Member: e.ID})
		return nil
	})
	if err != nil {
		return event.Event{}, fmt.Errorf("イベント保存に失敗: %w", err)
	}
	return e, nil
}

// Remove はIDが一致するイベントを削除する
func (s *EventStore) Remove(ctx context.Context, e event.Event) error {
	var deleted *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		deleted = pipe.HDel(ctx, s.dataKey, e.ID)
		pipe.ZRem(ctx, s.indexKey, e.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("イベント削除に失敗: %w", err)
	}
	if deleted.Val() == 0 {
		return event.ErrEventNotFound
	}
	return nil
}

// EventByID はIDからイベントを取得する
func (s *EventStore) EventByID(ctx context.Context, id string) (*event.Event, error) {
	raw, err := s.client.HGet(ctx, s.dataKey, id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, event.ErrEventNotFound
		}
		return nil, fmt.Errorf("イベント取得に失敗: %w", err)
	}

	e, err := decodeEvent(raw)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// インターフェースを満たしているか確認
var _ event.Store = (*EventStore)(nil)
