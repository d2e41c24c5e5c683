package event

import (
	"context"
	"time"
)

// Store は外部のイベントストアとのゲートウェイ
type Store interface {
	// Connect はストアへの接続を確立し、成功したかどうかを返す
	Connect(ctx context.Context) bool

	// Events はストアが保持するイベントを返す
	// 範囲での絞り込みは保証されないため、呼び出し側で行うこと
	Events(ctx context.Context, start, end time.Time) ([]Event, error)

	// Remove はIDが一致するイベントを削除する
	Remove(ctx context.Context, e Event) error

	// EventByID はIDからイベントを取得する
	// 見つからない場合は ErrEventNotFound を返す
	EventByID(ctx context.Context, id string) (*Event, error)
}
