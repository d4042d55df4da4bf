package show

import (
	"context"

	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/transaction"
)

// Repository は公演リポジトリのインターフェース
type Repository interface {
	// Create は新しい公演を作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, s *Show) error

	// GetByID はIDから公演を取得する
	GetByID(ctx context.Context, id string) (*Show, error)

	// GetDetailByID はイベント・会場情報付きで公演を取得する
	GetDetailByID(ctx context.Context, id string) (*Detail, error)

	// List は条件に一致する公演を開始日時順に取得する
	List(ctx context.Context, filter Filter) ([]*Detail, error)

	// GetForUpdate は公演行をロックして取得する（トランザクション必須）
	GetForUpdate(ctx context.Context, tx transaction.Tx, id string) (*Show, error)

	// AdjustAvailableSeats は空席数を delta だけ増減する（トランザクション必須）
	// 結果が 0〜総座席数 の範囲外になる場合は ErrSeatCounterOutOfRange を返す
	AdjustAvailableSeats(ctx context.Context, tx transaction.Tx, id string, delta int) error

	// ExistsForVenue は会場に公演が登録されているかを返す（トランザクション必須）
	ExistsForVenue(ctx context.Context, tx transaction.Tx, venueID string) (bool, error)
}
