package handler

import (
	"context"
	"time"

	"github.com/sanosuguru/go-event-fetcher/internal/domain/event"
)

// EventServiceInterface はイベントサービスのインターフェース
type EventServiceInterface interface {
	FetchEvents(ctx context.Context, start, end time.Time) ([]event.Event, error)
	RemoveEvent(ctx context.Context, id string)
}
