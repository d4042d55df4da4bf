package event

import "errors"

// Event ドメインのエラー定義
var (
	ErrEventNotFound          = errors.New("イベントが見つかりません")
	ErrEventNameRequired      = errors.New("イベント名は必須です")
	ErrInvalidDuration        = errors.New("上演時間は0分以上である必要があります")
	ErrCategoryNotFound       = errors.New("カテゴリが見つかりません")
	ErrOptimisticLockConflict = errors.New("他のユーザーによって更新されています。再度お試しください")
)
