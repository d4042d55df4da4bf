package application

import (
	"context"
	"time"
)

// SeatCache は公演ごとの空席数キャッシュ
type SeatCache interface {
	GetAvailableCount(ctx context.Context, showID string) (int, error)
	SetAvailableCount(ctx context.Context, showID string, count int) error
	Invalidate(ctx context.Context, showID string) error
}

// PasswordHasher はパスワードのハッシュ化と照合を行う
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}

// TokenIssuer はアクセストークンを発行する
type TokenIssuer interface {
	Issue(userID, role string) (string, time.Time, error)
}
