package review

import "context"

// Repository はレビューリポジトリのインターフェース
type Repository interface {
	// Upsert はレビューを作成する。同じユーザー・イベントのレビューが既にあれば更新する
	Upsert(ctx context.Context, r *Review) error

	// GetByID はIDからレビューを取得する
	GetByID(ctx context.Context, id string) (*Review, error)

	// ListByEvent はイベントのレビューを新しい順に取得する
	ListByEvent(ctx context.Context, eventID string) ([]*Review, error)

	// Delete はレビューを削除する
	Delete(ctx context.Context, id string) error
}
