package event

import "time"

// Overlaps はイベントの開始または終了が開区間 (start, end) の内側にあるかを返す
//
// 端点は含まない。開始時刻が start と一致するイベントは、終了時刻が区間内に
// なければ対象外となる。区間全体を覆うイベントも対象外。
func Overlaps(e Event, start, end time.Time) bool {
	endInside := e.EndAt.After(start) && e.EndAt.Before(end)
	startInside := e.StartAt.Before(end) && e.StartAt.After(start)
	return endInside || startInside
}

// Filter は Overlaps を満たすイベントを元の順序のまま返す
func Filter(events []Event, start, end time.Time) []Event {
	result := make([]Event, 0, len(events))
	for _, e := range events {
		if Overlaps(e, start, end) {
			result = append(result, e)
		}
	}
	return result
}
