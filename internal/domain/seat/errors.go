package seat

import "errors"

// Seat ドメインのエラー定義
var (
	ErrSeatNotFound           = errors.New("座席が見つかりません")
	ErrInvalidSeat            = errors.New("公演の会場に属さない座席が指定されています")
	ErrSeatAlreadyExists      = errors.New("同じ位置の座席が既に存在します")
	ErrVenueIDRequired        = errors.New("会場IDは必須です")
	ErrRowLabelRequired       = errors.New("列ラベルは必須です")
	ErrInvalidSeatNumber      = errors.New("座席番号は1以上である必要があります")
	ErrInvalidSeatType        = errors.New("座席種別が不正です")
	ErrInvalidPriceMultiplier = errors.New("価格倍率は0より大きい必要があります")
	ErrInvalidSeatsPerRow     = errors.New("1列あたりの座席数は1以上である必要があります")
)
