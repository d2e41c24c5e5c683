package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-event-fetcher/internal/domain/event"
)

const errInvalidDatetime = "日時はRFC3339形式で指定してください (例: 2025-12-31T08:00:00%2B09:00)"

type EventHandler struct {
	eventService EventServiceInterface
}

func NewEventHandler(eventService EventServiceInterface) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// ListEventsQuery は検索範囲のクエリパラメータ
// 省略した端点は全期間として扱う
type ListEventsQuery struct {
	Start string `query:"start" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00" example:"2025-12-31T08:00:00+09:00"`
	End   string `query:"end" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00" example:"2025-12-31T12:00:00+09:00"`
}

// normalize はエンコードされずに空白になったオフセットの + を戻す
// 例: start=2025-12-31T08:00:00+09:00 をそのまま送ると "2025-12-31T08:00:00 09:00" になる
func (q *ListEventsQuery) normalize() {
	q.Start = strings.Replace(q.Start, " ", "+", 1)
	q.End = strings.Replace(q.End, " ", "+", 1)
}

// window は検索範囲を時刻に変換する
func (q ListEventsQuery) window() (time.Time, time.Time, error) {
	start, end := event.DistantPast, event.DistantFuture
	var err error
	if q.Start != "" {
		if start, err = time.Parse(time.RFC3339, q.Start); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if q.End != "" {
		if end, err = time.Parse(time.RFC3339, q.End); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return start, end, nil
}

type EventResponse struct {
	ID      string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Title   string `json:"title,omitempty" example:"定例ミーティング"`
	StartAt string `json:"start_at" example:"2025-12-31T08:00:00+09:00"`
	EndAt   string `json:"end_at" example:"2025-12-31T08:30:00+09:00"`
}

func toEventResponse(e event.Event) *EventResponse {
	return &EventResponse{
		ID:      e.ID,
		Title:   e.Title,
		StartAt: e.StartAt.Format(time.RFC3339),
		EndAt:   e.EndAt.Format(time.RFC3339),
	}
}

// List godoc
// @Summary 期間内のイベントを取得
// @Description 開始または終了が (start, end) の内側にあるイベントを返します。端点は含みません
// @Tags events
// @Produce json
// @Param start query string false "検索範囲の開始 (RFC3339)。オフセットの + は %2B とエンコードする"
// @Param end query string false "検索範囲の終了 (RFC3339)。オフセットの + は %2B とエンコードする"
// @Success 200 {array} EventResponse
// @Failure 400 {object} map[string]string
// @Router /events [get]
func (h *EventHandler) List(c echo.Context) error {
	var q ListEventsQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "リクエストの形式が不正です")
	}
	q.normalize()
	if err := c.Validate(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errInvalidDatetime)
	}

	start, end, err := q.window()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errInvalidDatetime)
	}
	if end.Before(start) {
		return echo.NewHTTPError(http.StatusBadRequest, event.ErrInvalidEventTime.Error())
	}

	events, err := h.eventService.FetchEvents(c.Request().Context(), start, end)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "イベントの取得に失敗しました").SetInternal(err)
	}

	responses := make([]*EventResponse, len(events))
	for i, e := range events {
		responses[i] = toEventResponse(e)
	}
	return c.JSON(http.StatusOK, responses)
}

// Delete godoc
// @Summary イベントを削除
// @Description 指定IDのイベントを削除します。存在しない場合や削除に失敗した場合も 204 を返します
// @Tags events
// @Param id path string true "イベントID"
// @Success 204
// @Router /events/{id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	h.eventService.RemoveEvent(c.Request().Context(), c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}
