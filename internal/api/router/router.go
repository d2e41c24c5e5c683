package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sanosuguru/go-event-fetcher/internal/api"
	"github.com/sanosuguru/go-event-fetcher/internal/api/handler"
	"github.com/sanosuguru/go-event-fetcher/internal/api/middleware"
	"github.com/sanosuguru/go-event-fetcher/internal/pkg/metrics"
)

// Deps はルーターが必要とする依存
type Deps struct {
	EventService  handler.EventServiceInterface
	StoreBackend  string
	Metrics       *metrics.Metrics
	Gatherer      prometheus.Gatherer
	MetricsConfig *middleware.MetricsConfig
}

// New はルーティングとミドルウェアを設定したEchoインスタンスを作成する
func New(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler

	middleware.SetupMiddleware(e, deps.Metrics)

	healthHandler := handler.NewHealthHandler(deps.StoreBackend)
	eventHandler := handler.NewEventHandler(deps.EventService)

	e.GET("/health", healthHandler.Check)

	if deps.Gatherer != nil {
		e.GET("/metrics",
			echo.WrapHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})),
			middleware.MetricsBasicAuth(deps.MetricsConfig),
		)
	}

	v1 := e.Group("/api/v1")
	v1.GET("/events", eventHandler.List)
	v1.DELETE("/events/:id", eventHandler.Delete)

	return e
}
