package review

import "errors"

// Review ドメインのエラー定義
var (
	ErrReviewNotFound  = errors.New("レビューが見つかりません")
	ErrInvalidRating   = errors.New("評価は1〜5で指定してください")
	ErrNotReviewOwner  = errors.New("他のユーザーのレビューは削除できません")
	ErrUserIDRequired  = errors.New("ユーザーIDは必須です")
	ErrEventIDRequired = errors.New("イベントIDは必須です")
)
