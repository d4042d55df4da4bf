package show

import "time"

// Show は会場での公演（上映・上演）エンティティを表す
type Show struct {
	ID             string
	EventID        string
	VenueID        string
	StartsAt       time.Time
	BasePrice      int
	TotalSeats     int
	AvailableSeats int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Detail はイベントと会場の情報を含む公演
type Detail struct {
	Show
	EventName            string
	EventLanguage        string
	EventDurationMinutes int
	EventPosterURL       string
	CategoryName         string
	VenueName            string
	VenueCity            string
	VenueAddress         string
}

// Filter は公演一覧の絞り込み条件
type Filter struct {
	EventID string
	VenueID string
	// Date は開催日（YYYY-MM-DD）
	Date string
	City string
}

// NewShow は新しい公演を作成する
// 空席数は総座席数で初期化される
func NewShow(eventID, venueID string, startsAt time.Time, basePrice, totalSeats int) *Show {
	now := time.Now()
	return &Show{
		EventID:        eventID,
		VenueID:        venueID,
		StartsAt:       startsAt,
		BasePrice:      basePrice,
		TotalSeats:     totalSeats,
		AvailableSeats: totalSeats,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// IsBookable は公演が予約受付中かを返す
func (s *Show) IsBookable(now time.Time) bool {
	return now.Before(s.StartsAt)
}

// Validate は公演の検証を行う
func (s *Show) Validate() error {
	if s.EventID == "" {
		return ErrEventIDRequired
	}
	if s.VenueID == "" {
		return ErrVenueIDRequired
	}
	if s.StartsAt.IsZero() {
		return ErrStartsAtRequired
	}
	if s.BasePrice < 0 {
		return ErrInvalidBasePrice
	}
	if s.TotalSeats <= 0 {
		return ErrNoSeats
	}
	if s.AvailableSeats < 0 || s.AvailableSeats > s.TotalSeats {
		return ErrSeatCounterOutOfRange
	}
	return nil
}
