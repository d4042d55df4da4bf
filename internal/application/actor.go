package application

import (
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/booking"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/user"
)

// Actor は操作を行う認証済みユーザー
type Actor struct {
	UserID string
	Role   user.Role
}

// IsAdmin は管理者かを返す
func (a Actor) IsAdmin() bool {
	return a.Role == user.RoleAdmin
}

// canAccess は予約を参照・操作できるかを返す
// 管理者以外は自分の予約のみ
func (a Actor) canAccess(b *booking.Booking) bool {
	return a.IsAdmin() || b.UserID == a.UserID
}
