package seat

// DefaultSeatsPerRow は座席配置生成時の1列あたりの座席数
const DefaultSeatsPerRow = 20

// TypeForRow は先頭から rowIndex 番目（0始まり）の列の座席種別と価格倍率を返す
// 0〜4列目は regular、5〜9列目は premium、10列目以降は vip
func TypeForRow(rowIndex int) (Type, float64) {
	switch {
	case rowIndex >= 10:
		return TypeVIP, 2.0
	case rowIndex >= 5:
		return TypePremium, 1.5
	default:
		return TypeRegular, 1.0
	}
}

// RowLabel は列番号（0始まり）を A, B, ..., Z, AA, AB, ... の列ラベルに変換する
func RowLabel(rowIndex int) string {
	label := ""
	for n := rowIndex + 1; n > 0; n = (n - 1) / 26 {
		label = string(rune('A'+(n-1)%26)) + label
	}
	return label
}

// GenerateLayout は会場の座席配置を生成する
// existing は既存の座席数で、生成は existing 番目の位置から count 席分行う
func GenerateLayout(venueID string, existing, count, perRow int) ([]*Seat, error) {
	if perRow <= 0 {
		return nil, ErrInvalidSeatsPerRow
	}
	seats := make([]*Seat, 0, count)
	for i := 0; i < count; i++ {
		idx := existing + i
		rowIndex := idx / perRow
		seatType, multiplier := TypeForRow(rowIndex)
		s := NewSeat(venueID, RowLabel(rowIndex), idx%perRow+1, seatType, multiplier)
		if err := s.Validate(); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, nil
}
