package event

import (
	"strings"
	"time"
)

// Category はイベントのカテゴリ（映画・コンサート等）を表す
type Category struct {
	ID          string
	Name        string
	Description string
}

// Event はイベント（作品）エンティティを表す
// 開催日時と会場は公演（show）が持つ
type Event struct {
	ID              string
	CategoryID      string
	Name            string
	Description     string
	DurationMinutes int
	Language        string
	ReleaseDate     *time.Time
	PosterURL       string
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Version         int // 楽観的ロック用
}

// Summary はカテゴリ名とレビュー集計を含むイベント
type Summary struct {
	Event
	CategoryName string
	Rating       float64
	ReviewCount  int
}

// Filter はイベント一覧の絞り込み条件
type Filter struct {
	CategoryID string
	// Search は名前または説明文の部分一致（大文字小文字を区別しない）
	Search   string
	IsActive *bool
}

// NewEvent は新しいイベントを作成する
func NewEvent(categoryID, name, description, language, posterURL string, durationMinutes int, releaseDate *time.Time) *Event {
	now := time.Now()
	return &Event{
		CategoryID:      categoryID,
		Name:            strings.TrimSpace(name),
		Description:     description,
		DurationMinutes: durationMinutes,
		Language:        language,
		ReleaseDate:     releaseDate,
		PosterURL:       posterURL,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
		Version:         0,
	}
}

// Validate はイベントの検証を行う
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEventNameRequired
	}
	if e.DurationMinutes < 0 {
		return ErrInvalidDuration
	}
	return nil
}
