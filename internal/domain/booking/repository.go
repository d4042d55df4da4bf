package booking

import (
	"context"
	"time"

	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/transaction"
)

// Repository は予約リポジトリのインターフェース
type Repository interface {
	// Create は予約と予約座席を作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, b *Booking) error

	// GetByID はIDから予約を取得する
	GetByID(ctx context.Context, id string) (*Booking, error)

	// GetByIDForUpdate は予約行をロックして取得する（トランザクション必須）
	GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*Booking, error)

	// GetByIdempotencyKey はユーザーと冪等性キーから予約を取得する
	GetByIdempotencyKey(ctx context.Context, userID, key string) (*Booking, error)

	// ListByUser はユーザーの予約一覧を新しい順に取得する
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*Booking, error)

	// ListActiveHolders は指定座席を有効に参照している予約をロックして取得する（トランザクション必須）
	ListActiveHolders(ctx context.Context, tx transaction.Tx, showID string, seatIDs []string) ([]*Booking, error)

	// Update は予約の状態を更新する（トランザクション必須）
	Update(ctx context.Context, tx transaction.Tx, b *Booking) error

	// ReleaseSeats は予約の有効な座席を無効化し、無効化した件数を返す（トランザクション必須）
	ReleaseSeats(ctx context.Context, tx transaction.Tx, bookingID string, now time.Time) (int, error)

	// ListExpiredPendingIDs は仮押さえ期限切れの保留中予約IDを取得する
	ListExpiredPendingIDs(ctx context.Context, now time.Time, limit int) ([]string, error)

	// CompleteStarted は開始済み公演の確定予約を完了状態にし、そのIDを返す（トランザクション必須）
	CompleteStarted(ctx context.Context, tx transaction.Tx, now time.Time) ([]string, error)

	// RecordHistory は予約履歴を記録する（トランザクション必須）
	RecordHistory(ctx context.Context, tx transaction.Tx, action Action, bookingIDs ...string) error
}
