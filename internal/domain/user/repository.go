package user

import "context"

// Repository はユーザーリポジトリのインターフェース
type Repository interface {
	// Create は新しいユーザーを作成する
	// ユーザー名またはメールアドレスが重複する場合は ErrUserAlreadyExists を返す
	Create(ctx context.Context, u *User) error

	// GetByID はIDからユーザーを取得する
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByEmail はメールアドレスからユーザーを取得する
	GetByEmail(ctx context.Context, email string) (*User, error)

	// List はユーザー一覧を登録日の新しい順に取得する
	List(ctx context.Context, limit, offset int) ([]*User, error)

	// UpdateRole はユーザーの権限を変更する
	UpdateRole(ctx context.Context, id string, role Role) error
}
