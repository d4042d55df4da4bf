package review

import (
	"strings"
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review はイベントに対するユーザーのレビューを表す
// ユーザーごと・イベントごとに1件
type Review struct {
	ID        string
	UserID    string
	EventID   string
	Username  string // 読み出し時のみ
	Rating    int
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewReview は新しいレビューを作成する
func NewReview(userID, eventID string, rating int, comment string) *Review {
	now := time.Now()
	return &Review{
		UserID:    userID,
		EventID:   eventID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CanBeDeletedBy はレビューを削除できるユーザーかを返す
func (r *Review) CanBeDeletedBy(userID string, isAdmin bool) bool {
	return isAdmin || r.UserID == userID
}

// Validate はレビューの検証を行う
func (r *Review) Validate() error {
	if r.UserID == "" {
		return ErrUserIDRequired
	}
	if r.EventID == "" {
		return ErrEventIDRequired
	}
	if r.Rating < MinRating || r.Rating > MaxRating {
		return ErrInvalidRating
	}
	return nil
}
