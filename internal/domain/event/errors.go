package event

import "errors"

// Event ドメインのエラー定義
var (
	ErrNoConnectionToStore = errors.New("イベントストアに接続できません")
	ErrEventNotFound       = errors.New("イベントが見つかりません")
	ErrEventTimeRequired   = errors.New("開始時刻と終了時刻は必須です")
	ErrInvalidEventTime    = errors.New("終了時刻は開始時刻より後である必要があります")
)
