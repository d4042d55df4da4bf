package event

import "context"

// Repository はイベントリポジトリのインターフェース
type Repository interface {
	// Create は新しいイベントを作成する
	Create(ctx context.Context, e *Event) error

	// GetByID はIDからイベントを取得する
	GetByID(ctx context.Context, id string) (*Event, error)

	// GetSummaryByID はカテゴリ名とレビュー集計付きでイベントを取得する
	GetSummaryByID(ctx context.Context, id string) (*Summary, error)

	// List は条件に一致するイベントを取得する
	List(ctx context.Context, filter Filter) ([]*Summary, error)

	// Update はイベントを更新する（楽観的ロック）
	// バージョン不一致の場合は ErrOptimisticLockConflict を返す
	Update(ctx context.Context, e *Event) error

	// ListCategories はカテゴリ一覧を名前順に取得する
	ListCategories(ctx context.Context) ([]*Category, error)

	// CategoryExists はカテゴリが存在するかを返す
	CategoryExists(ctx context.Context, id string) (bool, error)
}
