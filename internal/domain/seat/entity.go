package seat

import (
	"math"
	"strconv"
	"time"
)

// Type は座席種別を表す
type Type string

const (
	TypeRegular Type = "regular"
	TypePremium Type = "premium"
	TypeVIP     Type = "vip"
)

// Availability は公演ごとの座席の空き状況を表す
type Availability string

const (
	AvailabilityAvailable Availability = "available"
	AvailabilityHeld      Availability = "held"
	AvailabilityBooked    Availability = "booked"
)

// Seat は会場に属する座席エンティティを表す
type Seat struct {
	ID              string
	VenueID         string
	RowLabel        string
	Number          int
	Type            Type
	PriceMultiplier float64
	IsActive        bool
	CreatedAt       time.Time
}

// ShowSeat は公演における座席の価格と空き状況
type ShowSeat struct {
	Seat
	Price        int
	Availability Availability
}

// NewSeat は新しい座席を作成する
func NewSeat(venueID, rowLabel string, number int, seatType Type, multiplier float64) *Seat {
	return &Seat{
		VenueID:         venueID,
		RowLabel:        rowLabel,
		Number:          number,
		Type:            seatType,
		PriceMultiplier: multiplier,
		IsActive:        true,
		CreatedAt:       time.Now(),
	}
}

// PriceFor は公演の基本料金に対するこの座席の価格を返す
func (s *Seat) PriceFor(basePrice int) int {
	return int(math.Round(float64(basePrice) * s.PriceMultiplier))
}

// BelongsTo は座席が指定会場の利用可能な座席かを返す
func (s *Seat) BelongsTo(venueID string) bool {
	return s.IsActive && s.VenueID == venueID
}

// Label は "A-12" 形式の表示用ラベルを返す
func (s *Seat) Label() string {
	return s.RowLabel + "-" + strconv.Itoa(s.Number)
}

// Validate は座席の検証を行う
func (s *Seat) Validate() error {
	if s.VenueID == "" {
		return ErrVenueIDRequired
	}
	if s.RowLabel == "" {
		return ErrRowLabelRequired
	}
	if s.Number <= 0 {
		return ErrInvalidSeatNumber
	}
	switch s.Type {
	case TypeRegular, TypePremium, TypeVIP:
	default:
		return ErrInvalidSeatType
	}
	if s.PriceMultiplier <= 0 {
		return ErrInvalidPriceMultiplier
	}
	return nil
}
