package booking

import "time"

// Action は予約履歴に記録される操作
type Action string

const (
	ActionCreated   Action = "created"
	ActionConfirmed Action = "confirmed"
	ActionCancelled Action = "cancelled"
	ActionExpired   Action = "expired"
	ActionCompleted Action = "completed"
)

// EventType は操作に対応する外部通知のイベント種別を返す
func (a Action) EventType() string {
	return "booking." + string(a)
}

// Event は予約の状態変化を外部に通知するペイロード
type Event struct {
	BookingID     string    `json:"booking_id"`
	UserID        string    `json:"user_id"`
	ShowID        string    `json:"show_id"`
	Action        Action    `json:"action"`
	Status        Status    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	TotalAmount   int       `json:"total_amount"`
	SeatIDs       []string  `json:"seat_ids"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewEvent は予約の現在状態から通知ペイロードを作成する
func NewEvent(b *Booking, action Action, now time.Time) Event {
	return Event{
		BookingID:     b.ID,
		UserID:        b.UserID,
		ShowID:        b.ShowID,
		Action:        action,
		Status:        b.Status,
		PaymentStatus: string(b.PaymentStatus),
		TotalAmount:   b.TotalAmount,
		SeatIDs:       b.SeatIDs(),
		OccurredAt:    now,
	}
}
