package booking

import (
	"slices"
	"time"
)

// Status は予約の状態を表す
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// PaymentStatus は支払いの状態を表す
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentRefunded  PaymentStatus = "refunded"
	PaymentCancelled PaymentStatus = "cancelled"
)

// PaymentMethod は支払い方法を表す
type PaymentMethod string

const (
	PaymentMethodUPI        PaymentMethod = "upi"
	PaymentMethodCard       PaymentMethod = "card"
	PaymentMethodNetBanking PaymentMethod = "netbank"
	PaymentMethodWallet     PaymentMethod = "wallet"
)

// IsValid は対応している支払い方法かを返す
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodUPI, PaymentMethodCard, PaymentMethodNetBanking, PaymentMethodWallet:
		return true
	}
	return false
}

// DefaultHoldTTL は仮押さえの有効期限（デフォルト5分）
const DefaultHoldTTL = 5 * time.Minute

// DefaultMaxSeats は1回の予約で指定できる座席数の上限
const DefaultMaxSeats = 10

// Seat は予約に割り当てられた座席と予約時点の価格
// RowLabel 以降は読み出し時にのみ設定される
type Seat struct {
	SeatID     string
	Price      int
	RowLabel   string
	SeatNumber int
	SeatType   string
}

// Booking は予約エンティティを表す
type Booking struct {
	ID             string
	UserID         string
	ShowID         string
	Seats          []Seat
	Status         Status
	PaymentStatus  PaymentStatus
	PaymentMethod  string
	TotalAmount    int
	IdempotencyKey string
	ExpiresAt      time.Time
	ConfirmedAt    *time.Time
	CancelledAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewBooking は仮押さえ状態の予約を作成する
// 合計金額は各座席の価格の合計になる
func NewBooking(userID, showID, idempotencyKey string, seats []Seat, now time.Time, holdTTL time.Duration) *Booking {
	if holdTTL <= 0 {
		holdTTL = DefaultHoldTTL
	}
	total := 0
	for _, s := range seats {
		total += s.Price
	}
	return &Booking{
		UserID:         userID,
		ShowID:         showID,
		Seats:          seats,
		Status:         StatusPending,
		PaymentStatus:  PaymentPending,
		TotalAmount:    total,
		IdempotencyKey: idempotencyKey,
		ExpiresAt:      now.Add(holdTTL),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// SeatIDs は予約座席のID一覧を返す
func (b *Booking) SeatIDs() []string {
	ids := make([]string, len(b.Seats))
	for i, s := range b.Seats {
		ids[i] = s.SeatID
	}
	return ids
}

// MatchesRequest は予約が同じ公演・同じ座席の組み合わせに対するものかを返す
// 座席の指定順は問わない
func (b *Booking) MatchesRequest(showID string, seatIDs []string) bool {
	if b.ShowID != showID || len(b.Seats) != len(seatIDs) {
		return false
	}
	held := b.SeatIDs()
	want := slices.Clone(seatIDs)
	slices.Sort(held)
	slices.Sort(want)
	return slices.Equal(held, want)
}

// IsPending は予約が保留中かを返す
func (b *Booking) IsPending() bool {
	return b.Status == StatusPending
}

// IsHoldExpired は保留中の予約の仮押さえ期限が切れているかを返す
func (b *Booking) IsHoldExpired(now time.Time) bool {
	return b.Status == StatusPending && !now.Before(b.ExpiresAt)
}

// HoldsSeats は座席を占有している状態かを返す
func (b *Booking) HoldsSeats() bool {
	return b.Status != StatusCancelled
}

// ValidateSeatSelection は予約前に座席指定を検証する
// 座席数が 1〜maxSeats の範囲にあり、重複がないこと
func ValidateSeatSelection(seatIDs []string, maxSeats int) error {
	if len(seatIDs) == 0 {
		return ErrSeatIDsRequired
	}
	if maxSeats > 0 && len(seatIDs) > maxSeats {
		return ErrTooManySeats
	}
	seen := make(map[string]struct{}, len(seatIDs))
	for _, id := range seatIDs {
		if id == "" {
			return ErrSeatIDsRequired
		}
		if _, ok := seen[id]; ok {
			return ErrDuplicateSeat
		}
		seen[id] = struct{}{}
	}
	return nil
}

// Confirm は予約を確定する
// 既に確定済みの場合は何もせず changed=false を返す
func (b *Booking) Confirm(paymentMethod string, now time.Time) (changed bool, err error) {
	switch b.Status {
	case StatusConfirmed, StatusCompleted:
		return false, nil
	case StatusCancelled:
		return false, ErrBookingCancelled
	}
	if b.IsHoldExpired(now) {
		return false, ErrBookingExpired
	}
	b.Status = StatusConfirmed
	b.PaymentStatus = PaymentPaid
	b.PaymentMethod = paymentMethod
	b.ConfirmedAt = &now
	b.UpdatedAt = now
	return true, nil
}

// Cancel は予約をキャンセルする
// 既にキャンセル済みの場合は何もせず changed=false を返す
func (b *Booking) Cancel(now time.Time) (changed bool, err error) {
	switch b.Status {
	case StatusCancelled:
		return false, nil
	case StatusCompleted:
		return false, ErrBookingCompleted
	}
	if b.PaymentStatus == PaymentPaid {
		b.PaymentStatus = PaymentRefunded
	} else {
		b.PaymentStatus = PaymentCancelled
	}
	b.Status = StatusCancelled
	b.CancelledAt = &now
	b.UpdatedAt = now
	return true, nil
}

// Expire は仮押さえ期限切れの予約をキャンセル状態にする
func (b *Booking) Expire(now time.Time) error {
	if !b.IsPending() {
		return ErrBookingNotPending
	}
	if !b.IsHoldExpired(now) {
		return ErrHoldNotExpired
	}
	b.Status = StatusCancelled
	b.PaymentStatus = PaymentCancelled
	b.CancelledAt = &now
	b.UpdatedAt = now
	return nil
}

// Validate は予約の検証を行う
func (b *Booking) Validate() error {
	if b.ShowID == "" {
		return ErrShowIDRequired
	}
	if b.UserID == "" {
		return ErrUserIDRequired
	}
	if len(b.Seats) == 0 {
		return ErrSeatIDsRequired
	}
	if b.IdempotencyKey == "" {
		return ErrIdempotencyKeyRequired
	}
	seen := make(map[string]struct{}, len(b.Seats))
	for _, s := range b.Seats {
		if _, ok := seen[s.SeatID]; ok {
			return ErrDuplicateSeat
		}
		seen[s.SeatID] = struct{}{}
	}
	return nil
}
