package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sanosuguru/go-event-fetcher/internal/domain/event"
)

// ErrRemoveFailed は削除失敗を設定したストアが返すエラー
var ErrRemoveFailed = errors.New("イベント削除に失敗しました")

// Store はメモリ上でイベントを保持するストア
// 接続結果や削除失敗を設定できるため、テストダブルとしても使う
type Store struct {
	mu        sync.RWMutex
	events    []event.Event
	connected bool
	removeErr error
	fetchErr  error
	connects  int
}

// Option はストアの振る舞いを設定する
type Option func(*Store)

// WithConnected は Connect が返す値を設定する
func WithConnected(connected bool) Option {
	return func(s *Store) {
		s.connected = connected
	}
}

// WithRemoveError は Remove が常に返すエラーを設定する
func WithRemoveError(err error) Option {
	return func(s *Store) {
		s.removeErr = err
	}
}

// WithFetchError は Events が常に返すエラーを設定する
func WithFetchError(err error) Option {
	return func(s *Store) {
		s.fetchErr = err
	}
}

// WithEvents は初期データを設定する
func WithEvents(events ...event.Event) Option {
	return func(s *Store) {
		s.events = append(s.events, events...)
	}
}

// NewStore は接続可能なストアを作成する
func NewStore(opts ...Option) *Store {
	s := &Store{connected: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Connect は設定された接続結果を返す
func (s *Store) Connect(_ context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connects++
	return s.connected
}

// Connects は Connect が呼ばれた回数を返す
func (s *Store) Connects() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connects
}

// Events は範囲に関係なく保持しているすべてのイベントを登録順に返す
func (s *Store) Events(_ context.Context, _, _ time.Time) ([]event.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	events := make([]event.Event, len(s.events))
	copy(events, s.events)
	return events, nil
}

// Add はイベントを末尾に追加する
// IDが空の場合はUUIDを割り当てる
func (s *Store) Add(_ context.Context, e event.Event) (event.Event, error) {
	if err := e.Validate(); err != nil {
		return event.Event{}, err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return e, nil
}

// Remove はIDが一致するイベントを削除する
func (s *Store) Remove(_ context.Context, e event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.removeErr != nil {
		return s.removeErr
	}

	kept := s.events[:0]
	removed := false
	for _, existing := range s.events {
		if existing.ID == e.ID {
			removed = true
			continue
		}
		kept = append(kept, existing)
	}
	s.events = kept
	if !removed {
		return event.ErrEventNotFound
	}
	return nil
}

// EventByID はIDからイベントを取得する
func (s *Store) EventByID(_ context.Context, id string) (*event.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.events {
		if e.ID == id {
			found := e
			return &found, nil
		}
	}
	return nil, event.ErrEventNotFound
}

// Len は保持しているイベント数を返す
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// インターフェースを満たしているか確認
var _ event.Store = (*Store)(nil)
