package application

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/booking"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/event"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/lock"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/outbox"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/report"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/review"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/seat"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/show"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/transaction"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/user"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/venue"
)

// === Mock implementations ===

// MockTxManager implements transaction.Manager
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(transaction.Tx), args.Error(1)
}

// MockTx implements transaction.Tx
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTx) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockBookingRepository implements booking.Repository
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	args := m.Called(ctx, tx, b)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*booking.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*booking.Booking, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByIdempotencyKey(ctx context.Context, userID, key string) (*booking.Booking, error) {
	args := m.Called(ctx, userID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*booking.Booking, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListActiveHolders(ctx context.Context, tx transaction.Tx, showID string, seatIDs []string) ([]*booking.Booking, error) {
	args := m.Called(ctx, tx, showID, seatIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) Update(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	args := m.Called(ctx, tx, b)
	return args.Error(0)
}

func (m *MockBookingRepository) ReleaseSeats(ctx context.Context, tx transaction.Tx, bookingID string, now time.Time) (int, error) {
	args := m.Called(ctx, tx, bookingID, now)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingRepository) ListExpiredPendingIDs(ctx context.Context, now time.Time, limit int) ([]string, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockBookingRepository) CompleteStarted(ctx context.Context, tx transaction.Tx, now time.Time) ([]string, error) {
	args := m.Called(ctx, tx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockBookingRepository) RecordHistory(ctx context.Context, tx transaction.Tx, action booking.Action, bookingIDs ...string) error {
	args := m.Called(ctx, tx, action, bookingIDs)
	return args.Error(0)
}

// MockShowRepository implements show.Repository
type MockShowRepository struct {
	mock.Mock
}

func (m *MockShowRepository) Create(ctx context.Context, tx transaction.Tx, s *show.Show) error {
	args := m.Called(ctx, tx, s)
	return args.Error(0)
}

func (m *MockShowRepository) GetByID(ctx context.Context, id string) (*show.Show, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*show.Show), args.Error(1)
}

func (m *MockShowRepository) GetDetailByID(ctx context.Context, id string) (*show.Detail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*show.Detail), args.Error(1)
}

func (m *MockShowRepository) List(ctx context.Context, filter show.Filter) ([]*show.Detail, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*show.Detail), args.Error(1)
}

func (m *MockShowRepository) GetForUpdate(ctx context.Context, tx transaction.Tx, id string) (*show.Show, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*show.Show), args.Error(1)
}

func (m *MockShowRepository) AdjustAvailableSeats(ctx context.Context, tx transaction.Tx, id string, delta int) error {
	args := m.Called(ctx, tx, id, delta)
	return args.Error(0)
}

func (m *MockShowRepository) ExistsForVenue(ctx context.Context, tx transaction.Tx, venueID string) (bool, error) {
	args := m.Called(ctx, tx, venueID)
	return args.Bool(0), args.Error(1)
}

// MockSeatRepository implements seat.Repository
type MockSeatRepository struct {
	mock.Mock
}

func (m *MockSeatRepository) CreateBulk(ctx context.Context, tx transaction.Tx, seats []*seat.Seat) error {
	args := m.Called(ctx, tx, seats)
	return args.Error(0)
}

func (m *MockSeatRepository) GetByVenueID(ctx context.Context, venueID string) ([]*seat.Seat, error) {
	args := m.Called(ctx, venueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*seat.Seat), args.Error(1)
}

func (m *MockSeatRepository) CountByVenueID(ctx context.Context, tx transaction.Tx, venueID string) (int, error) {
	args := m.Called(ctx, tx, venueID)
	return args.Int(0), args.Error(1)
}

func (m *MockSeatRepository) CountActiveByVenueID(ctx context.Context, tx transaction.Tx, venueID string) (int, error) {
	args := m.Called(ctx, tx, venueID)
	return args.Int(0), args.Error(1)
}

func (m *MockSeatRepository) GetByIDs(ctx context.Context, tx transaction.Tx, ids []string) ([]*seat.Seat, error) {
	args := m.Called(ctx, tx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*seat.Seat), args.Error(1)
}

func (m *MockSeatRepository) ListForShow(ctx context.Context, showID string, now time.Time) ([]*seat.ShowSeat, error) {
	args := m.Called(ctx, showID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*seat.ShowSeat), args.Error(1)
}

// MockVenueRepository implements venue.Repository
type MockVenueRepository struct {
	mock.Mock
}

func (m *MockVenueRepository) Create(ctx context.Context, v *venue.Venue) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVenueRepository) GetByID(ctx context.Context, id string) (*venue.Venue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*venue.Venue), args.Error(1)
}

func (m *MockVenueRepository) GetForUpdate(ctx context.Context, tx transaction.Tx, id string) (*venue.Venue, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*venue.Venue), args.Error(1)
}

func (m *MockVenueRepository) List(ctx context.Context, city string) ([]*venue.Venue, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*venue.Venue), args.Error(1)
}

// MockEventRepository implements event.Repository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, e *event.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventRepository) GetByID(ctx context.Context, id string) (*event.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventRepository) GetSummaryByID(ctx context.Context, id string) (*event.Summary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Summary), args.Error(1)
}

func (m *MockEventRepository) List(ctx context.Context, filter event.Filter) ([]*event.Summary, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Summary), args.Error(1)
}

func (m *MockEventRepository) Update(ctx context.Context, e *event.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventRepository) ListCategories(ctx context.Context) ([]*event.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Category), args.Error(1)
}

func (m *MockEventRepository) CategoryExists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockReviewRepository implements review.Repository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Upsert(ctx context.Context, r *review.Review) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id string) (*review.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByEvent(ctx context.Context, eventID string) ([]*review.Review, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*review.Review), args.Error(1)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUserRepository implements user.Repository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*user.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*user.User), args.Error(1)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id string, role user.Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

// MockReportRepository implements report.Repository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) DailyRevenue(ctx context.Context, days int) ([]report.DailyRevenue, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.DailyRevenue), args.Error(1)
}

func (m *MockReportRepository) CategoryStatistics(ctx context.Context) ([]report.CategoryStat, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.CategoryStat), args.Error(1)
}

func (m *MockReportRepository) VenuePerformance(ctx context.Context) ([]report.VenuePerformance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.VenuePerformance), args.Error(1)
}

func (m *MockReportRepository) PopularEvents(ctx context.Context, limit int) ([]report.PopularEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.PopularEvent), args.Error(1)
}

func (m *MockReportRepository) Totals(ctx context.Context) (report.Totals, error) {
	args := m.Called(ctx)
	return args.Get(0).(report.Totals), args.Error(1)
}

func (m *MockReportRepository) RecentLogs(ctx context.Context, limit int) ([]report.LogEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.LogEntry), args.Error(1)
}

// MockOutboxRepository implements outbox.Repository
type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) Enqueue(ctx context.Context, tx transaction.Tx, msgs ...*outbox.Message) error {
	args := m.Called(ctx, tx, msgs)
	return args.Error(0)
}

func (m *MockOutboxRepository) ClaimUnpublished(ctx context.Context, tx transaction.Tx, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, tx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, tx transaction.Tx, ids []string) error {
	args := m.Called(ctx, tx, ids)
	return args.Error(0)
}

// MockLockManager implements lock.Manager
type MockLockManager struct {
	mock.Mock
}

func (m *MockLockManager) AcquireLock(ctx context.Context, key string, ttl time.Duration) (lock.Lock, error) {
	args := m.Called(ctx, key, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(lock.Lock), args.Error(1)
}

func (m *MockLockManager) AcquireLocks(ctx context.Context, keys []string, ttl time.Duration) (lock.Lock, error) {
	args := m.Called(ctx, keys, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(lock.Lock), args.Error(1)
}

func (m *MockLockManager) AcquireLocksWithRetry(ctx context.Context, keys []string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (lock.Lock, error) {
	args := m.Called(ctx, keys, ttl, maxRetries, retryDelay)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(lock.Lock), args.Error(1)
}

// MockLock implements lock.Lock
type MockLock struct {
	mock.Mock
}

func (m *MockLock) Release(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockLock) Extend(ctx context.Context, ttl time.Duration) error {
	args := m.Called(ctx, ttl)
	return args.Error(0)
}

// MockSeatCache implements SeatCache
type MockSeatCache struct {
	mock.Mock
}

func (m *MockSeatCache) GetAvailableCount(ctx context.Context, showID string) (int, error) {
	args := m.Called(ctx, showID)
	return args.Int(0), args.Error(1)
}

func (m *MockSeatCache) SetAvailableCount(ctx context.Context, showID string, count int) error {
	args := m.Called(ctx, showID, count)
	return args.Error(0)
}

func (m *MockSeatCache) Invalidate(ctx context.Context, showID string) error {
	args := m.Called(ctx, showID)
	return args.Error(0)
}

// MockPasswordHasher implements PasswordHasher
type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(plain string) (string, error) {
	args := m.Called(plain)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Compare(hash, plain string) bool {
	args := m.Called(hash, plain)
	return args.Bool(0)
}

// MockTokenIssuer implements TokenIssuer
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(userID, role string) (string, time.Time, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}
