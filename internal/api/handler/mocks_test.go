package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

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

// newJSONContext はJSONボディ付きのリクエストコンテキストを作成する
func newJSONContext(e *echo.Echo, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// requireHTTPError はエラーが指定ステータスの echo.HTTPError であることを確認する
func requireHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he), "echo.HTTPError ではない: %v", err)
	require.Equal(t, code, he.Code)
}

// ret は戻り値が nil の場合に型付き nil を返すためのヘルパー
func ret[T any](args mock.Arguments, i int) T {
	var zero T
	if v := args.Get(i); v != nil {
		return v.(T)
	}
	return zero
}

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Register(ctx context.Context, input application.RegisterInput) (*application.AuthResult, error) {
	args := m.Called(ctx, input)
	return ret[*application.AuthResult](args, 0), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*application.AuthResult, error) {
	args := m.Called(ctx, email, password)
	return ret[*application.AuthResult](args, 0), args.Error(1)
}

func (m *MockAuthService) Me(ctx context.Context, userID string) (*user.User, error) {
	args := m.Called(ctx, userID)
	return ret[*user.User](args, 0), args.Error(1)
}

func (m *MockAuthService) BootstrapAdmin(ctx context.Context, setupToken, email string) (*user.User, error) {
	args := m.Called(ctx, setupToken, email)
	return ret[*user.User](args, 0), args.Error(1)
}

type MockEventService struct{ mock.Mock }

func (m *MockEventService) CreateEvent(ctx context.Context, input application.CreateEventInput) (*event.Event, error) {
	args := m.Called(ctx, input)
	return ret[*event.Event](args, 0), args.Error(1)
}

func (m *MockEventService) GetEvent(ctx context.Context, id string) (*application.EventDetail, error) {
	args := m.Called(ctx, id)
	return ret[*application.EventDetail](args, 0), args.Error(1)
}

func (m *MockEventService) ListEvents(ctx context.Context, filter event.Filter) ([]*event.Summary, error) {
	args := m.Called(ctx, filter)
	return ret[[]*event.Summary](args, 0), args.Error(1)
}

func (m *MockEventService) ListCategories(ctx context.Context) ([]*event.Category, error) {
	args := m.Called(ctx)
	return ret[[]*event.Category](args, 0), args.Error(1)
}

func (m *MockEventService) UpdateEvent(ctx context.Context, input application.UpdateEventInput) (*event.Event, error) {
	args := m.Called(ctx, input)
	return ret[*event.Event](args, 0), args.Error(1)
}

type MockVenueService struct{ mock.Mock }

func (m *MockVenueService) CreateVenue(ctx context.Context, input application.CreateVenueInput) (*venue.Venue, error) {
	args := m.Called(ctx, input)
	return ret[*venue.Venue](args, 0), args.Error(1)
}

func (m *MockVenueService) GetVenue(ctx context.Context, id string) (*venue.Venue, error) {
	args := m.Called(ctx, id)
	return ret[*venue.Venue](args, 0), args.Error(1)
}

func (m *MockVenueService) ListVenues(ctx context.Context, city string) ([]*venue.Venue, error) {
	args := m.Called(ctx, city)
	return ret[[]*venue.Venue](args, 0), args.Error(1)
}

type MockSeatService struct{ mock.Mock }

func (m *MockSeatService) GenerateSeatLayout(ctx context.Context, venueID string, perRow int) ([]*seat.Seat, error) {
	args := m.Called(ctx, venueID, perRow)
	return ret[[]*seat.Seat](args, 0), args.Error(1)
}

func (m *MockSeatService) AddSeat(ctx context.Context, input application.AddSeatInput) (*seat.Seat, error) {
	args := m.Called(ctx, input)
	return ret[*seat.Seat](args, 0), args.Error(1)
}

func (m *MockSeatService) ListVenueSeats(ctx context.Context, venueID string) ([]*seat.Seat, error) {
	args := m.Called(ctx, venueID)
	return ret[[]*seat.Seat](args, 0), args.Error(1)
}

type MockShowService struct{ mock.Mock }

func (m *MockShowService) CreateShow(ctx context.Context, input application.CreateShowInput) (*show.Show, error) {
	args := m.Called(ctx, input)
	return ret[*show.Show](args, 0), args.Error(1)
}

func (m *MockShowService) GetShow(ctx context.Context, id string) (*show.Detail, error) {
	args := m.Called(ctx, id)
	return ret[*show.Detail](args, 0), args.Error(1)
}

func (m *MockShowService) ListShows(ctx context.Context, filter show.Filter) ([]*show.Detail, error) {
	args := m.Called(ctx, filter)
	return ret[[]*show.Detail](args, 0), args.Error(1)
}

func (m *MockShowService) GetShowSeats(ctx context.Context, showID string) ([]*seat.ShowSeat, error) {
	args := m.Called(ctx, showID)
	return ret[[]*seat.ShowSeat](args, 0), args.Error(1)
}

func (m *MockShowService) CountAvailableSeats(ctx context.Context, showID string) (int, error) {
	args := m.Called(ctx, showID)
	return args.Int(0), args.Error(1)
}

type MockBookingService struct{ mock.Mock }

func (m *MockBookingService) CreateBooking(ctx context.Context, input application.CreateBookingInput) (*booking.Booking, error) {
	args := m.Called(ctx, input)
	return ret[*booking.Booking](args, 0), args.Error(1)
}

func (m *MockBookingService) GetBooking(ctx context.Context, actor application.Actor, id string) (*booking.Booking, error) {
	args := m.Called(ctx, actor, id)
	return ret[*booking.Booking](args, 0), args.Error(1)
}

func (m *MockBookingService) ListUserBookings(ctx context.Context, userID string, limit, offset int) ([]*booking.Booking, error) {
	args := m.Called(ctx, userID, limit, offset)
	return ret[[]*booking.Booking](args, 0), args.Error(1)
}

func (m *MockBookingService) ConfirmBooking(ctx context.Context, input application.ConfirmBookingInput) (*booking.Booking, error) {
	args := m.Called(ctx, input)
	return ret[*booking.Booking](args, 0), args.Error(1)
}

func (m *MockBookingService) CancelBooking(ctx context.Context, actor application.Actor, bookingID string) (*booking.Booking, error) {
	args := m.Called(ctx, actor, bookingID)
	return ret[*booking.Booking](args, 0), args.Error(1)
}

type MockReviewService struct{ mock.Mock }

func (m *MockReviewService) UpsertReview(ctx context.Context, input application.UpsertReviewInput) (*review.Review, error) {
	args := m.Called(ctx, input)
	return ret[*review.Review](args, 0), args.Error(1)
}

func (m *MockReviewService) ListEventReviews(ctx context.Context, eventID string) ([]*review.Review, error) {
	args := m.Called(ctx, eventID)
	return ret[[]*review.Review](args, 0), args.Error(1)
}

func (m *MockReviewService) DeleteReview(ctx context.Context, actor application.Actor, id string) error {
	return m.Called(ctx, actor, id).Error(0)
}

type MockAdminService struct{ mock.Mock }

func (m *MockAdminService) Dashboard(ctx context.Context) (*report.Dashboard, error) {
	args := m.Called(ctx)
	return ret[*report.Dashboard](args, 0), args.Error(1)
}

func (m *MockAdminService) Logs(ctx context.Context, limit int) ([]report.LogEntry, error) {
	args := m.Called(ctx, limit)
	return ret[[]report.LogEntry](args, 0), args.Error(1)
}

func (m *MockAdminService) ListUsers(ctx context.Context, limit, offset int) ([]*user.User, error) {
	args := m.Called(ctx, limit, offset)
	return ret[[]*user.User](args, 0), args.Error(1)
}

func (m *MockAdminService) GetUser(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	return ret[*user.User](args, 0), args.Error(1)
}

func (m *MockAdminService) ListUserBookings(ctx context.Context, userID string, limit, offset int) ([]*booking.Booking, error) {
	args := m.Called(ctx, userID, limit, offset)
	return ret[[]*booking.Booking](args, 0), args.Error(1)
}
