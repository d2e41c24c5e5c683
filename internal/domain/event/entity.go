package event

import (
	"strings"
	"time"
)

// DistantPast と DistantFuture は「全期間」を表す検索範囲の端点
// DistantPast はゼロ値（時刻未設定）と区別するため1秒進めてある
var (
	DistantPast   = time.Date(1, time.January, 1, 0, 0, 1, 0, time.UTC)
	DistantFuture = time.Date(4001, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// Event はカレンダーイベントを表す値
// 生成後は変更しない（編集は削除と再作成で表現する）
type Event struct {
	ID      string
	Title   string
	StartAt time.Time
	EndAt   time.Time
}

// NewEvent はIDを持たないイベントを作成する
// IDはイベントを保存するストアが割り当てる
func NewEvent(title string, startAt, endAt time.Time) Event {
	return Event{
		Title:   strings.TrimSpace(title),
		StartAt: startAt,
		EndAt:   endAt,
	}
}

// Validate はストアへの登録前にイベントを検証する
func (e Event) Validate() error {
	if e.StartAt.IsZero() || e.EndAt.IsZero() {
		return ErrEventTimeRequired
	}
	if e.EndAt.Before(e.StartAt) {
		return ErrInvalidEventTime
	}
	return nil
}

// Equal は2つのイベントが同じ値かどうかを返す
// 時刻はロケーションに依存せず比較する
func (e Event) Equal(other Event) bool {
	return e.ID == other.ID &&
		e.Title == other.Title &&
		e.StartAt.Equal(other.StartAt) &&
		e.EndAt.Equal(other.EndAt)
}
