package handler

import (
	"context"

	"github.com/sanosuguru/go-show-ticket-booking/internal/application"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/booking"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/event"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/report"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/review"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/seat"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/show"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/user"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/venue"
)

// AuthServiceInterface は認証サービスのインターフェース
type AuthServiceInterface interface {
	Register(ctx context.Context, input application.RegisterInput) (*application.AuthResult, error)
	Login(ctx context.Context, email, password string) (*application.AuthResult, error)
	Me(ctx context.Context, userID string) (*user.User, error)
	BootstrapAdmin(ctx context.Context, setupToken, email string) (*user.User, error)
}

// EventServiceInterface はイベントサービスのインターフェース
type EventServiceInterface interface {
	CreateEvent(ctx context.Context, input application.CreateEventInput) (*event.Event, error)
	GetEvent(ctx context.Context, id string) (*application.EventDetail, error)
	ListEvents(ctx context.Context, filter event.Filter) ([]*event.Summary, error)
	ListCategories(ctx context.Context) ([]*event.Category, error)
	UpdateEvent(ctx context.Context, input application.UpdateEventInput) (*event.Event, error)
}

// VenueServiceInterface は会場サービスのインターフェース
type VenueServiceInterface interface {
	CreateVenue(ctx context.Context, input application.CreateVenueInput) (*venue.Venue, error)
	GetVenue(ctx context.Context, id string) (*venue.Venue, error)
	ListVenues(ctx context.Context, city string) ([]*venue.Venue, error)
}

// SeatServiceInterface は座席サービスのインターフェース
type SeatServiceInterface interface {
	GenerateSeatLayout(ctx context.Context, venueID string, perRow int) ([]*seat.Seat, error)
	AddSeat(ctx context.Context, input application.AddSeatInput) (*seat.Seat, error)
	ListVenueSeats(ctx context.Context, venueID string) ([]*seat.Seat, error)
}

// ShowServiceInterface は公演サービスのインターフェース
type ShowServiceInterface interface {
	CreateShow(ctx context.Context, input application.CreateShowInput) (*show.Show, error)
	GetShow(ctx context.Context, id string) (*show.Detail, error)
	ListShows(ctx context.Context, filter show.Filter) ([]*show.Detail, error)
	GetShowSeats(ctx context.Context, showID string) ([]*seat.ShowSeat, error)
	CountAvailableSeats(ctx context.Context, showID string) (int, error)
}

// BookingServiceInterface は予約サービスのインターフェース
type BookingServiceInterface interface {
	CreateBooking(ctx context.Context, input application.CreateBookingInput) (*booking.Booking, error)
	GetBooking(ctx context.Context, actor application.Actor, id string) (*booking.Booking, error)
	ListUserBookings(ctx context.Context, userID string, limit, offset int) ([]*booking.Booking, error)
	ConfirmBooking(ctx context.Context, input application.ConfirmBookingInput) (*booking.Booking, error)
	CancelBooking(ctx context.Context, actor application.Actor, bookingID string) (*booking.Booking, error)
}

// ReviewServiceInterface はレビューサービスのインターフェース
type ReviewServiceInterface interface {
	UpsertReview(ctx context.Context, input application.UpsertReviewInput) (*review.Review, error)
	ListEventReviews(ctx context.Context, eventID string) ([]*review.Review, error)
	DeleteReview(ctx context.Context, actor application.Actor, id string) error
}

// AdminServiceInterface は管理サービスのインターフェース
type AdminServiceInterface interface {
	Dashboard(ctx context.Context) (*report.Dashboard, error)
	Logs(ctx context.Context, limit int) ([]report.LogEntry, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*user.User, error)
	GetUser(ctx context.Context, id string) (*user.User, error)
	ListUserBookings(ctx context.Context, userID string, limit, offset int) ([]*booking.Booking, error)
}
