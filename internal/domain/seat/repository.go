package seat

import (
	"context"
	"time"

	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/transaction"
)

// Repository は座席リポジトリのインターフェース
type Repository interface {
	// CreateBulk は複数の座席を一括作成する（トランザクション必須）
	CreateBulk(ctx context.Context, tx transaction.Tx, seats []*Seat) error

	// GetByVenueID は会場の座席一覧を取得する
	GetByVenueID(ctx context.Context, venueID string) ([]*Seat, error)

	// CountByVenueID は会場の座席数（無効な座席を含む）を取得する（トランザクション必須）
	CountByVenueID(ctx context.Context, tx transaction.Tx, venueID string) (int, error)

	// CountActiveByVenueID は会場の有効な座席数を取得する（トランザクション必須）
	CountActiveByVenueID(ctx context.Context, tx transaction.Tx, venueID string) (int, error)

	// GetByIDs は指定IDの座席を共有ロック付きで取得する（トランザクション必須）
	GetByIDs(ctx context.Context, tx transaction.Tx, ids []string) ([]*Seat, error)

	// ListForShow は公演の全座席を価格と空き状況付きで取得する
	ListForShow(ctx context.Context, showID string, now time.Time) ([]*ShowSeat, error)
}
