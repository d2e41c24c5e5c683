package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-fetcher/internal/api/middleware"
	"github.com/sanosuguru/go-event-fetcher/internal/api/router"
	"github.com/sanosuguru/go-event-fetcher/internal/application"
	"github.com/sanosuguru/go-event-fetcher/internal/config"
	"github.com/sanosuguru/go-event-fetcher/internal/pkg/logger"
	"github.com/sanosuguru/go-event-fetcher/internal/pkg/metrics"
	"github.com/sanosuguru/go-event-fetcher/internal/worker"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.App.Env)
	defer func() { _ = logger.Sync() }()

	m := metrics.Init()

	store, closeStore, err := openStore(context.Background(), cfg)
	if err != nil {
		logger.Fatal("イベントストアの初期化に失敗しました", zap.String("backend", cfg.Store.Backend), zap.Error(err))
	}
	defer closeStore()

	// ストアへの接続はここで一度だけ確認する
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), cfg.Store.ConnectTimeout)
	eventService, err := application.NewEventService(connectCtx, store, application.WithMetrics(m))
	cancelConnect()
	if err != nil {
		logger.Fatal("イベントサービスを起動できません", zap.String("backend", cfg.Store.Backend), zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var purger *worker.PastEventPurger
	if cfg.Purge.Enabled {
		purger = worker.NewPastEventPurger(eventService, cfg.Purge.Interval, cfg.Purge.Retention)
		go purger.Start(ctx)
	}

	e := router.New(router.Deps{
		EventService:  eventService,
		StoreBackend:  cfg.Store.Backend,
		Metrics:       m,
		Gatherer:      prometheus.DefaultGatherer,
		MetricsConfig: middleware.LoadMetricsConfig(),
	})
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	go func() {
		logger.Info("サーバーを起動します", zap.String("port", cfg.Server.Port), zap.String("backend", cfg.Store.Backend))
		if err := e.Start(fmt.Sprintf(":%s", cfg.Server.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	// シグナル待機
	<-ctx.Done()
	logger.Info("サーバーをシャットダウンしています...")

	if purger != nil {
		purger.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("サーバーシャットダウンエラー", zap.Error(err))
		return
	}

	logger.Info("サーバーが正常にシャットダウンしました")
}
