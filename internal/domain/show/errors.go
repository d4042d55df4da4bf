package show

import "errors"

// Show ドメインのエラー定義
var (
	ErrShowNotFound          = errors.New("公演が見つかりません")
	ErrShowAlreadyStarted    = errors.New("公演は既に開始しています")
	ErrEventIDRequired       = errors.New("イベントIDは必須です")
	ErrVenueIDRequired       = errors.New("会場IDは必須です")
	ErrStartsAtRequired      = errors.New("開始日時は必須です")
	ErrInvalidBasePrice      = errors.New("基本料金は0以上である必要があります")
	ErrNoSeats               = errors.New("座席が登録されていない会場では公演を作成できません")
	ErrSeatCounterOutOfRange = errors.New("空席数が総座席数の範囲を超えています")
	ErrInvalidDateFilter     = errors.New("日付はYYYY-MM-DD形式で指定してください")
)
