package venue

import (
	"context"

	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/transaction"
)

// Repository は会場リポジトリのインターフェース
type Repository interface {
	// Create は新しい会場を作成する
	Create(ctx context.Context, v *Venue) error

	// GetByID はIDから会場を取得する
	GetByID(ctx context.Context, id string) (*Venue, error)

	// GetForUpdate は会場行をロックして取得する（トランザクション必須）
	// 座席配置の変更と公演作成はこのロックで直列化される
	GetForUpdate(ctx context.Context, tx transaction.Tx, id string) (*Venue, error)

	// List は会場一覧を名前順に取得する（city が空なら全件）
	List(ctx context.Context, city string) ([]*Venue, error)
}
