package venue

import "errors"

// Venue ドメインのエラー定義
var (
	ErrVenueNotFound     = errors.New("会場が見つかりません")
	ErrVenueHasShows     = errors.New("公演が登録済みの会場の座席は変更できません")
	ErrVenueNameRequired = errors.New("会場名は必須です")
	ErrAddressRequired   = errors.New("住所は必須です")
	ErrCityRequired      = errors.New("都市は必須です")
	ErrInvalidCapacity   = errors.New("収容人数は1以上である必要があります")
	ErrCapacityExceeded  = errors.New("会場の収容人数を超える座席は登録できません")
)
