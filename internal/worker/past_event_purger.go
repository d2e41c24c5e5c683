package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-fetcher/internal/domain/event"
	"github.com/sanosuguru/go-event-fetcher/internal/pkg/logger"
)

// EventPurger は期間検索とID指定の削除を提供するインターフェース
type EventPurger interface {
	FetchEvents(ctx context.Context, start, end time.Time) ([]event.Event, error)
	RemoveEvent(ctx context.Context, id string)
}

// PastEventPurger は保持期間を過ぎたイベントを定期的に削除するワーカー
//
// 対象は (DistantPast, 現在時刻 - retention) の検索結果なので、
// 検索と同じく端点を含まない判定になる
type PastEventPurger struct {
	events    EventPurger
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// DefaultPurgeInterval は実行間隔が0以下のときに使う間隔
const DefaultPurgeInterval = time.Hour

// NewPastEventPurger は新しいワーカーを作成
// interval が0以下なら DefaultPurgeInterval、retention が負なら0として扱う
func NewPastEventPurger(events EventPurger, interval, retention time.Duration) *PastEventPurger {
	if interval <= 0 {
		interval = DefaultPurgeInterval
	}
	if retention < 0 {
		retention = 0
	}
	return &PastEventPurger{
		events:    events,
		interval:  interval,
		retention: retention,
		now:       time.Now,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start はワーカーを開始する。Stop かコンテキストのキャンセルまで戻らない
func (p *PastEventPurger) Start(ctx context.Context) {
	logger.Info("終了済みイベント削除ワーカー開始",
		zap.Duration("interval", p.interval),
		zap.Duration("retention", p.retention),
	)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	defer close(p.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("終了済みイベント削除ワーカー停止（コンテキストキャンセル）")
			return
		case <-p.stopCh:
			logger.Info("終了済みイベント削除ワーカー停止（シグナル受信）")
			return
		case <-ticker.C:
			p.purge(ctx)
		}
	}
}

// Stop はワーカーを停止し、終了を待つ
func (p *PastEventPurger) Stop() {
	close(p.stopCh)
	<-p.doneCh
}

// purge は保持期間を過ぎたイベントを削除し、削除を依頼した件数を返す
func (p *PastEventPurger) purge(ctx context.Context) int {
	log := logger.Get()
	cutoff := p.now().Add(-p.retention)
	log.Debug("終了済みイベントの削除開始", zap.Time("cutoff", cutoff))

	expired, err := p.events.FetchEvents(ctx, event.DistantPast, cutoff)
	if err != nil {
		log.Error("終了済みイベントの取得に失敗", zap.Error(err))
		return 0
	}

	count := 0
	for _, e := range expired {
		if ctx.Err() != nil {
			break
		}
		// 保持期間をまたぐイベントは終了していないので残す
		if !e.EndAt.Before(cutoff) {
			continue
		}
		p.events.RemoveEvent(ctx, e.ID)
		count++
	}

	if count > 0 {
		log.Info("終了済みイベントの削除を依頼", zap.Int("count", count))
	} else {
		log.Debug("終了済みイベントなし")
	}
	return count
}
