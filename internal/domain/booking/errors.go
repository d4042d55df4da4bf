package booking

import "errors"

// Booking ドメインのエラー定義
var (
	ErrBookingNotFound             = errors.New("予約が見つかりません")
	ErrBookingExpired              = errors.New("予約の仮押さえ期限が切れています")
	ErrBookingCancelled            = errors.New("予約は既にキャンセルされています")
	ErrBookingCompleted            = errors.New("公演が終了した予約はキャンセルできません")
	ErrBookingNotPending           = errors.New("予約は保留中ではありません")
	ErrHoldNotExpired              = errors.New("仮押さえ期限はまだ切れていません")
	ErrSeatUnavailable             = errors.New("指定された座席は既に予約されています")
	ErrSeatsBeingProcessed         = errors.New("座席が他のユーザーによって処理中です")
	ErrDuplicateSeat               = errors.New("同じ座席が重複して指定されています")
	ErrTooManySeats                = errors.New("一度に予約できる座席数を超えています")
	ErrPaymentAmountMismatch       = errors.New("支払金額が予約金額と一致しません")
	ErrInvalidPaymentMethod        = errors.New("支払い方法が不正です")
	ErrShowIDRequired              = errors.New("公演IDは必須です")
	ErrUserIDRequired              = errors.New("ユーザーIDは必須です")
	ErrSeatIDsRequired             = errors.New("座席IDは必須です")
	ErrIdempotencyKeyRequired      = errors.New("冪等性キーは必須です")
	ErrIdempotencyKeyAlreadyExists = errors.New("同じ冪等性キーの予約が既に存在します")
	ErrIdempotencyKeyReused        = errors.New("冪等性キーが別の内容の予約で使用されています")
)
