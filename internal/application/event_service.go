package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-fetcher/internal/domain/event"
	"github.com/sanosuguru/go-event-fetcher/internal/pkg/logger"
	"github.com/sanosuguru/go-event-fetcher/internal/pkg/metrics"
)

// EventService はイベントストアの上で期間検索とID指定の削除を提供する
//
// インスタンスはストアへの接続に成功した場合にのみ作成される。
// 接続が切れた状態は持たないため、再接続したい場合は作り直すこと。
type EventService struct {
	store   event.Store
	metrics *metrics.Metrics
	log     *zap.Logger
}

// Option は EventService の生成オプション
type Option func(*EventService)

// WithMetrics は検索・削除の結果を記録するメトリクスを設定する
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *EventService) {
		s.metrics = m
	}
}

// WithLogger はサービスが使うロガーを設定する
func WithLogger(l *zap.Logger) Option {
	return func(s *EventService) {
		s.log = l
	}
}

// NewEventService はストアへ一度だけ接続を試み、成功した場合にサービスを返す
// 接続に失敗した場合は event.ErrNoConnectionToStore を返す
func NewEventService(ctx context.Context, store event.Store, opts ...Option) (*EventService, error) {
	s := &EventService{store: store}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Named("event_service")
	}

	if !store.Connect(ctx) {
		s.countConnect("failed")
		s.log.Error("イベントストアへの接続に失敗しました")
		return nil, event.ErrNoConnectionToStore
	}
	s.countConnect("success")
	return s, nil
}

// FetchEvents は開区間 (start, end) に開始または終了が含まれるイベントを返す
// 結果はストアが返した順序を保つ
func (s *EventService) FetchEvents(ctx context.Context, start, end time.Time) ([]event.Event, error) {
	all, err := s.store.Events(ctx, start, end)
	if err != nil {
		s.countQuery("error")
		return nil, fmt.Errorf("イベント取得に失敗しました: %w", err)
	}

	events := event.Filter(all, start, end)
	s.countQuery("success")
	if s.metrics != nil {
		s.metrics.EventsReturned.Observe(float64(len(events)))
	}
	return events, nil
}

// RemoveEvent はIDが一致するイベントを削除する
// 見つからない場合は何もしない。ストアの削除失敗は呼び出し元に返さない
func (s *EventService) RemoveEvent(ctx context.Context, id string) {
	log := s.log.With(zap.String("event_id", id))

	e, err := s.store.EventByID(ctx, id)
	if err != nil {
		if errors.Is(err, event.ErrEventNotFound) {
			log.Debug("削除対象のイベントが見つかりません")
			s.countRemoval(metrics.RemovalNotFound)
			return
		}
		log.Warn("削除対象のイベント取得に失敗しました", zap.Error(err))
		s.countRemoval(metrics.RemovalLookupFailed)
		return
	}
	if e == nil {
		s.countRemoval(metrics.RemovalNotFound)
		return
	}

	if err := s.store.Remove(ctx, *e); err != nil {
		log.Warn("イベント削除に失敗しました", zap.Error(err))
		s.countRemoval(metrics.RemovalFailed)
		return
	}
	log.Info("イベントを削除しました")
	s.countRemoval(metrics.RemovalRemoved)
}

func (s *EventService) countConnect(result string) {
	if s.metrics != nil {
		s.metrics.StoreConnectsTotal.WithLabelValues(result).Inc()
	}
}

func (s *EventService) countQuery(status string) {
	if s.metrics != nil {
		s.metrics.EventQueriesTotal.WithLabelValues(status).Inc()
	}
}

func (s *EventService) countRemoval(result string) {
	if s.metrics != nil {
		s.metrics.EventRemovalsTotal.WithLabelValues(result).Inc()
	}
}
