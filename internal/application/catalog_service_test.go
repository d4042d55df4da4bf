package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/event"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/review"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/seat"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/show"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/transaction"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/user"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/venue"
	redisinfra "github.com/sanosuguru/go-show-ticket-booking/internal/infrastructure/redis"
)

// === EventService ===

func TestEventService_CreateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("イベントを作成できる", func(t *testing.T) {
		er := new(MockEventRepository)
		svc := NewEventService(er, new(MockReviewRepository))
		er.On("CategoryExists", ctx, "cat-1").Return(true, nil)
		er.On("Create", ctx, mock.AnythingOfType("*event.Event")).Return(nil)

		e, err := svc.CreateEvent(ctx, CreateEventInput{CategoryID: "cat-1", Name: " 映画A ", DurationMinutes: 120, Language: "ja"})

		require.NoError(t, err)
		assert.Equal(t, "映画A", e.Name)
		assert.True(t, e.IsActive)
		er.AssertExpectations(t)
	})

	t.Run("存在しないカテゴリ", func(t *testing.T) {
		er := new(MockEventRepository)
		svc := NewEventService(er, new(MockReviewRepository))
		er.On("CategoryExists", ctx, "cat-x").Return(false, nil)

		_, err := svc.CreateEvent(ctx, CreateEventInput{CategoryID: "cat-x", Name: "映画A"})

		assert.ErrorIs(t, err, event.ErrCategoryNotFound)
		er.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("名前が空", func(t *testing.T) {
		er := new(MockEventRepository)
		svc := NewEventService(er, new(MockReviewRepository))

		_, err := svc.CreateEvent(ctx, CreateEventInput{Name: "  "})

		assert.ErrorIs(t, err, event.ErrEventNameRequired)
	})
}

func TestEventService_GetEvent(t *testing.T) {
	ctx := context.Background()
	er := new(MockEventRepository)
	rr := new(MockReviewRepository)
	svc := NewEventService(er, rr)

	summary := &event.Summary{Event: event.Event{ID: "event-1", Name: "映画A"}, Rating: 4.5, ReviewCount: 2}
	reviews := []*review.Review{{ID: "r1", Rating: 5}, {ID: "r2", Rating: 4}}
	er.On("GetSummaryByID", ctx, "event-1").Return(summary, nil)
	rr.On("ListByEvent", ctx, "event-1").Return(reviews, nil)

	detail, err := svc.GetEvent(ctx, "event-1")

	require.NoError(t, err)
	assert.Equal(t, "映画A", detail.Name)
	assert.Len(t, detail.Reviews, 2)
}

func TestEventService_UpdateEvent(t *testing.T) {
	ctx := context.Background()
	version := func(v int) *int { return &v }

	t.Run("バージョンが一致すれば更新する", func(t *testing.T) {
		er := new(MockEventRepository)
		svc := NewEventService(er, new(MockReviewRepository))
		current := &event.Event{ID: "event-1", CategoryID: "cat-1", Name: "旧", Version: 3}
		er.On("GetByID", ctx, "event-1").Return(current, nil)
		er.On("Update", ctx, current).Return(nil)

		e, err := svc.UpdateEvent(ctx, UpdateEventInput{ID: "event-1", CategoryID: "cat-1", Name: "新", IsActive: true, Version: version(3)})

		require.NoError(t, err)
		assert.Equal(t, "新", e.Name)
		er.AssertNotCalled(t, "CategoryExists", mock.Anything, mock.Anything)
	})

	t.Run("バージョン不一致", func(t *testing.T) {
		er := new(MockEventRepository)
		svc := NewEventService(er, new(MockReviewRepository))
		er.On("GetByID", ctx, "event-1").Return(&event.Event{ID: "event-1", Name: "旧", Version: 4}, nil)

		_, err := svc.UpdateEvent(ctx, UpdateEventInput{ID: "event-1", Name: "新", Version: version(3)})

		assert.ErrorIs(t, err, event.ErrOptimisticLockConflict)
		er.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("同時更新で競合", func(t *testing.T) {
		er := new(MockEventRepository)
		svc := NewEventService(er, new(MockReviewRepository))
		er.On("GetByID", ctx, "event-1").Return(&event.Event{ID: "event-1", Name: "旧", Version: 3}, nil)
		er.On("Update", ctx, mock.Anything).Return(event.ErrOptimisticLockConflict)

		_, err := svc.UpdateEvent(ctx, UpdateEventInput{ID: "event-1", Name: "新"})

		assert.ErrorIs(t, err, event.ErrOptimisticLockConflict)
	})

	t.Run("カテゴリ変更時は存在を確認する", func(t *testing.T) {
		er := new(MockEventRepository)
		svc := NewEventService(er, new(MockReviewRepository))
		er.On("GetByID", ctx, "event-1").Return(&event.Event{ID: "event-1", CategoryID: "cat-1", Name: "旧"}, nil)
		er.On("CategoryExists", ctx, "cat-2").Return(false, nil)

		_, err := svc.UpdateEvent(ctx, UpdateEventInput{ID: "event-1", CategoryID: "cat-2", Name: "新"})

		assert.ErrorIs(t, err, event.ErrCategoryNotFound)
	})
}

// === VenueService ===

func TestVenueService_CreateVenue(t *testing.T) {
	ctx := context.Background()

	t.Run("会場を作成できる", func(t *testing.T) {
		vr := new(MockVenueRepository)
		svc := NewVenueService(vr)
		vr.On("Create", ctx, mock.AnythingOfType("*venue.Venue")).Return(nil)

		v, err := svc.CreateVenue(ctx, CreateVenueInput{Name: "ホールA", Address: "1-1", City: "Tokyo", Capacity: 200})

		require.NoError(t, err)
		assert.Equal(t, 200, v.Capacity)
		vr.AssertExpectations(t)
	})

	t.Run("収容人数が0", func(t *testing.T) {
		vr := new(MockVenueRepository)
		svc := NewVenueService(vr)

		_, err := svc.CreateVenue(ctx, CreateVenueInput{Name: "ホールA", Address: "1-1", City: "Tokyo"})

		assert.ErrorIs(t, err, venue.ErrInvalidCapacity)
		vr.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

// === SeatService ===

type seatDeps struct {
	txManager *MockTxManager
	tx        *MockTx
	seatRepo  *MockSeatRepository
	venueRepo *MockVenueRepository
	showRepo  *MockShowRepository
	service   *SeatService
}

func newSeatDeps() *seatDeps {
	d := &seatDeps{
		txManager: new(MockTxManager),
		tx:        new(MockTx),
		seatRepo:  new(MockSeatRepository),
		venueRepo: new(MockVenueRepository),
		showRepo:  new(MockShowRepository),
	}
	d.txManager.On("Begin", mock.Anything).Return(d.tx, nil)
	d.tx.On("Commit").Return(nil).Maybe()
	d.tx.On("Rollback").Return(nil).Maybe()
	d.service = NewSeatService(d.txManager, d.seatRepo, d.venueRepo, d.showRepo)
	return d
}

// expectEditable は会場行のロックと公演有無の確認を期待値に設定する
func (d *seatDeps) expectEditable(v *venue.Venue, hasShows bool) {
	d.venueRepo.On("GetForUpdate", mock.Anything, d.tx, v.ID).Return(v, nil)
	d.showRepo.On("ExistsForVenue", mock.Anything, d.tx, v.ID).Return(hasShows, nil)
}

func TestSeatService_GenerateSeatLayout(t *testing.T) {
	ctx := context.Background()
	v := &venue.Venue{ID: "venue-1", Capacity: 50}

	t.Run("収容人数まで座席を生成する", func(t *testing.T) {
		d := newSeatDeps()
		d.expectEditable(v, false)
		d.seatRepo.On("CountByVenueID", mock.Anything, d.tx, "venue-1").Return(10, nil)
		d.seatRepo.On("CreateBulk", mock.Anything, d.tx, mock.AnythingOfType("[]*seat.Seat")).Return(nil)

		seats, err := d.service.GenerateSeatLayout(ctx, "venue-1", 0)

		require.NoError(t, err)
		require.Len(t, seats, 40)
		assert.Equal(t, "A-11", seats[0].Label())
		d.seatRepo.AssertExpectations(t)
		d.tx.AssertCalled(t, "Commit")
	})

	t.Run("満席なら何も作らない", func(t *testing.T) {
		d := newSeatDeps()
		d.expectEditable(v, false)
		d.seatRepo.On("CountByVenueID", mock.Anything, d.tx, "venue-1").Return(50, nil)

		seats, err := d.service.GenerateSeatLayout(ctx, "venue-1", 10)

		require.NoError(t, err)
		assert.Empty(t, seats)
		d.seatRepo.AssertNotCalled(t, "CreateBulk", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("公演が登録済みの会場は変更できない", func(t *testing.T) {
		d := newSeatDeps()
		d.expectEditable(v, true)

		_, err := d.service.GenerateSeatLayout(ctx, "venue-1", 10)

		assert.ErrorIs(t, err, venue.ErrVenueHasShows)
		d.seatRepo.AssertNotCalled(t, "CountByVenueID", mock.Anything, mock.Anything, mock.Anything)
		d.tx.AssertNotCalled(t, "Commit")
	})

	t.Run("会場が存在しない", func(t *testing.T) {
		d := newSeatDeps()
		d.venueRepo.On("GetForUpdate", mock.Anything, d.tx, "venue-x").Return(nil, venue.ErrVenueNotFound)

		_, err := d.service.GenerateSeatLayout(ctx, "venue-x", 10)

		assert.ErrorIs(t, err, venue.ErrVenueNotFound)
		d.showRepo.AssertNotCalled(t, "ExistsForVenue", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("直列化失敗なら数え直して再試行する", func(t *testing.T) {
		d := newSeatDeps()
		d.expectEditable(v, false)
		d.seatRepo.On("CountByVenueID", mock.Anything, d.tx, "venue-1").Return(10, nil).Once()
		d.seatRepo.On("CountByVenueID", mock.Anything, d.tx, "venue-1").Return(20, nil).Once()
		d.seatRepo.On("CreateBulk", mock.Anything, d.tx, mock.Anything).Return(transaction.ErrSerializationFailure).Once()
		d.seatRepo.On("CreateBulk", mock.Anything, d.tx, mock.Anything).Return(nil).Once()

		seats, err := d.service.GenerateSeatLayout(ctx, "venue-1", 10)

		require.NoError(t, err)
		assert.Len(t, seats, 30)
		d.txManager.AssertNumberOfCalls(t, "Begin", 2)
	})
}

func TestSeatService_AddSeat(t *testing.T) {
	ctx := context.Background()
	v := &venue.Venue{ID: "venue-1", Capacity: 2}

	t.Run("座席を追加できる", func(t *testing.T) {
		d := newSeatDeps()
		d.expectEditable(v, false)
		d.seatRepo.On("CountByVenueID", mock.Anything, d.tx, "venue-1").Return(1, nil)
		d.seatRepo.On("CreateBulk", mock.Anything, d.tx, mock.AnythingOfType("[]*seat.Seat")).Return(nil)

		se, err := d.service.AddSeat(ctx, AddSeatInput{VenueID: "venue-1", RowLabel: "A", Number: 2, Type: seat.TypeVIP, PriceMultiplier: 2.0})

		require.NoError(t, err)
		assert.Equal(t, "A-2", se.Label())
		d.tx.AssertCalled(t, "Commit")
	})

	t.Run("収容人数を超える", func(t *testing.T) {
		d := newSeatDeps()
		d.expectEditable(v, false)
		d.seatRepo.On("CountByVenueID", mock.Anything, d.tx, "venue-1").Return(2, nil)

		_, err := d.service.AddSeat(ctx, AddSeatInput{VenueID: "venue-1", RowLabel: "A", Number: 3, Type: seat.TypeRegular, PriceMultiplier: 1.0})

		assert.ErrorIs(t, err, venue.ErrCapacityExceeded)
		d.seatRepo.AssertNotCalled(t, "CreateBulk", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("重複した座席", func(t *testing.T) {
		d := newSeatDeps()
		d.expectEditable(v, false)
		d.seatRepo.On("CountByVenueID", mock.Anything, d.tx, "venue-1").Return(1, nil)
		d.seatRepo.On("CreateBulk", mock.Anything, d.tx, mock.Anything).Return(seat.ErrSeatAlreadyExists)

		_, err := d.service.AddSeat(ctx, AddSeatInput{VenueID: "venue-1", RowLabel: "A", Number: 1, Type: seat.TypeRegular, PriceMultiplier: 1.0})

		assert.ErrorIs(t, err, seat.ErrSeatAlreadyExists)
	})

	t.Run("不正な座席種別はトランザクションを開始しない", func(t *testing.T) {
		d := newSeatDeps()

		_, err := d.service.AddSeat(ctx, AddSeatInput{VenueID: "venue-1", RowLabel: "A", Number: 1, Type: "box", PriceMultiplier: 1.0})

		assert.ErrorIs(t, err, seat.ErrInvalidSeatType)
		d.txManager.AssertNotCalled(t, "Begin", mock.Anything)
	})
}

// === ShowService ===

type showDeps struct {
	txManager *MockTxManager
	tx        *MockTx
	showRepo  *MockShowRepository
	eventRepo *MockEventRepository
	venueRepo *MockVenueRepository
	seatRepo  *MockSeatRepository
	cache     *MockSeatCache
	service   *ShowService
}

func newShowDeps() *showDeps {
	d := &showDeps{
		txManager: new(MockTxManager),
		tx:        new(MockTx),
		showRepo:  new(MockShowRepository),
		eventRepo: new(MockEventRepository),
		venueRepo: new(MockVenueRepository),
		seatRepo:  new(MockSeatRepository),
		cache:     new(MockSeatCache),
	}
	d.txManager.On("Begin", mock.Anything).Return(d.tx, nil).Maybe()
	d.tx.On("Commit").Return(nil).Maybe()
	d.tx.On("Rollback").Return(nil).Maybe()
	d.service = NewShowService(d.txManager, d.showRepo, d.eventRepo, d.venueRepo, d.seatRepo, d.cache)
	d.service.now = func() time.Time { return testNow }
	return d
}

func TestShowService_CreateShow(t *testing.T) {
	ctx := context.Background()

	t.Run("会場をロックして有効座席数で公演を作成する", func(t *testing.T) {
		d := newShowDeps()
		d.eventRepo.On("GetByID", ctx, "event-1").Return(&event.Event{ID: "event-1"}, nil)
		d.venueRepo.On("GetForUpdate", mock.Anything, d.tx, "venue-1").Return(&venue.Venue{ID: "venue-1"}, nil)
		d.seatRepo.On("CountActiveByVenueID", mock.Anything, d.tx, "venue-1").Return(120, nil)
		d.showRepo.On("Create", mock.Anything, d.tx, mock.AnythingOfType("*show.Show")).Return(nil)

		sh, err := d.service.CreateShow(ctx, CreateShowInput{
			EventID: "event-1", VenueID: "venue-1", StartsAt: testNow.Add(48 * time.Hour), BasePrice: 25000,
		})

		require.NoError(t, err)
		assert.Equal(t, 120, sh.TotalSeats)
		assert.Equal(t, 120, sh.AvailableSeats)
		d.showRepo.AssertExpectations(t)
		d.venueRepo.AssertExpectations(t)
		d.tx.AssertCalled(t, "Commit")
	})

	t.Run("座席のない会場", func(t *testing.T) {
		d := newShowDeps()
		d.eventRepo.On("GetByID", ctx, "event-1").Return(&event.Event{ID: "event-1"}, nil)
		d.venueRepo.On("GetForUpdate", mock.Anything, d.tx, "venue-1").Return(&venue.Venue{ID: "venue-1"}, nil)
		d.seatRepo.On("CountActiveByVenueID", mock.Anything, d.tx, "venue-1").Return(0, nil)

		_, err := d.service.CreateShow(ctx, CreateShowInput{
			EventID: "event-1", VenueID: "venue-1", StartsAt: testNow.Add(time.Hour), BasePrice: 25000,
		})

		assert.ErrorIs(t, err, show.ErrNoSeats)
		d.showRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		d.tx.AssertNotCalled(t, "Commit")
	})

	t.Run("会場が存在しない", func(t *testing.T) {
		d := newShowDeps()
		d.eventRepo.On("GetByID", ctx, "event-1").Return(&event.Event{ID: "event-1"}, nil)
		d.venueRepo.On("GetForUpdate", mock.Anything, d.tx, "venue-x").Return(nil, venue.ErrVenueNotFound)

		_, err := d.service.CreateShow(ctx, CreateShowInput{
			EventID: "event-1", VenueID: "venue-x", StartsAt: testNow.Add(time.Hour), BasePrice: 25000,
		})

		assert.ErrorIs(t, err, venue.ErrVenueNotFound)
		d.seatRepo.AssertNotCalled(t, "CountActiveByVenueID", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("過去の日時", func(t *testing.T) {
		d := newShowDeps()
		d.eventRepo.On("GetByID", ctx, "event-1").Return(&event.Event{ID: "event-1"}, nil)

		_, err := d.service.CreateShow(ctx, CreateShowInput{
			EventID: "event-1", VenueID: "venue-1", StartsAt: testNow.Add(-time.Hour), BasePrice: 25000,
		})

		assert.ErrorIs(t, err, show.ErrShowAlreadyStarted)
		d.txManager.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("イベントが存在しない", func(t *testing.T) {
		d := newShowDeps()
		d.eventRepo.On("GetByID", ctx, "event-x").Return(nil, event.ErrEventNotFound)

		_, err := d.service.CreateShow(ctx, CreateShowInput{EventID: "event-x", VenueID: "venue-1", StartsAt: testNow.Add(time.Hour)})

		assert.ErrorIs(t, err, event.ErrEventNotFound)
	})
}

func TestShowService_GetShowSeats(t *testing.T) {
	ctx := context.Background()

	t.Run("座席一覧を返す", func(t *testing.T) {
		d := newShowDeps()
		seats := []*seat.ShowSeat{{Seat: seat.Seat{ID: "seat-1"}, Price: 30000, Availability: seat.AvailabilityAvailable}}
		d.showRepo.On("GetByID", ctx, "show-1").Return(futureShow(), nil)
		d.seatRepo.On("ListForShow", ctx, "show-1", testNow).Return(seats, nil)

		got, err := d.service.GetShowSeats(ctx, "show-1")

		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("公演が存在しない", func(t *testing.T) {
		d := newShowDeps()
		d.showRepo.On("GetByID", ctx, "show-x").Return(nil, show.ErrShowNotFound)

		_, err := d.service.GetShowSeats(ctx, "show-x")

		assert.ErrorIs(t, err, show.ErrShowNotFound)
		d.seatRepo.AssertNotCalled(t, "ListForShow", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestShowService_CountAvailableSeats(t *testing.T) {
	ctx := context.Background()

	t.Run("キャッシュヒット", func(t *testing.T) {
		d := newShowDeps()
		d.cache.On("GetAvailableCount", ctx, "show-1").Return(42, nil)

		count, err := d.service.CountAvailableSeats(ctx, "show-1")

		require.NoError(t, err)
		assert.Equal(t, 42, count)
		d.showRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("キャッシュミスならDBから取得して保存する", func(t *testing.T) {
		d := newShowDeps()
		sh := futureShow()
		sh.AvailableSeats = 77
		d.cache.On("GetAvailableCount", ctx, "show-1").Return(0, redisinfra.ErrCacheMiss)
		d.showRepo.On("GetByID", ctx, "show-1").Return(sh, nil)
		d.cache.On("SetAvailableCount", ctx, "show-1", 77).Return(nil)

		count, err := d.service.CountAvailableSeats(ctx, "show-1")

		require.NoError(t, err)
		assert.Equal(t, 77, count)
		d.cache.AssertExpectations(t)
	})

	t.Run("キャッシュエラーでもDBから取得できる", func(t *testing.T) {
		d := newShowDeps()
		sh := futureShow()
		sh.AvailableSeats = 5
		d.cache.On("GetAvailableCount", ctx, "show-1").Return(0, errors.New("redis down"))
		d.showRepo.On("GetByID", ctx, "show-1").Return(sh, nil)
		d.cache.On("SetAvailableCount", ctx, "show-1", 5).Return(errors.New("redis down"))

		count, err := d.service.CountAvailableSeats(ctx, "show-1")

		require.NoError(t, err)
		assert.Equal(t, 5, count)
	})

	t.Run("キャッシュなし", func(t *testing.T) {
		showRepo := new(MockShowRepository)
		svc := NewShowService(new(MockTxManager), showRepo, new(MockEventRepository), new(MockVenueRepository), new(MockSeatRepository), nil)
		sh := futureShow()
		showRepo.On("GetByID", ctx, "show-1").Return(sh, nil)

		count, err := svc.CountAvailableSeats(ctx, "show-1")

		require.NoError(t, err)
		assert.Equal(t, 100, count)
	})
}

// === ReviewService ===

func TestReviewService(t *testing.T) {
	ctx := context.Background()

	t.Run("レビューを投稿できる", func(t *testing.T) {
		rr, er := new(MockReviewRepository), new(MockEventRepository)
		svc := NewReviewService(rr, er)
		er.On("GetByID", ctx, "event-1").Return(&event.Event{ID: "event-1"}, nil)
		rr.On("Upsert", ctx, mock.AnythingOfType("*review.Review")).Return(nil)

		r, err := svc.UpsertReview(ctx, UpsertReviewInput{UserID: "user-1", EventID: "event-1", Rating: 5, Comment: "最高"})

		require.NoError(t, err)
		assert.Equal(t, 5, r.Rating)
		rr.AssertExpectations(t)
	})

	t.Run("評価が範囲外", func(t *testing.T) {
		rr, er := new(MockReviewRepository), new(MockEventRepository)
		svc := NewReviewService(rr, er)

		_, err := svc.UpsertReview(ctx, UpsertReviewInput{UserID: "user-1", EventID: "event-1", Rating: 6})

		assert.ErrorIs(t, err, review.ErrInvalidRating)
		er.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("存在しないイベント", func(t *testing.T) {
		rr, er := new(MockReviewRepository), new(MockEventRepository)
		svc := NewReviewService(rr, er)
		er.On("GetByID", ctx, "event-x").Return(nil, event.ErrEventNotFound)

		_, err := svc.UpsertReview(ctx, UpsertReviewInput{UserID: "user-1", EventID: "event-x", Rating: 3})

		assert.ErrorIs(t, err, event.ErrEventNotFound)
	})

	t.Run("他人のレビューは削除できない", func(t *testing.T) {
		rr, er := new(MockReviewRepository), new(MockEventRepository)
		svc := NewReviewService(rr, er)
		rr.On("GetByID", ctx, "r1").Return(&review.Review{ID: "r1", UserID: "user-2"}, nil)

		err := svc.DeleteReview(ctx, Actor{UserID: "user-1", Role: user.RoleCustomer}, "r1")

		assert.ErrorIs(t, err, review.ErrNotReviewOwner)
		rr.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("管理者は削除できる", func(t *testing.T) {
		rr, er := new(MockReviewRepository), new(MockEventRepository)
		svc := NewReviewService(rr, er)
		rr.On("GetByID", ctx, "r1").Return(&review.Review{ID: "r1", UserID: "user-2"}, nil)
		rr.On("Delete", ctx, "r1").Return(nil)

		err := svc.DeleteReview(ctx, Actor{UserID: "admin", Role: user.RoleAdmin}, "r1")

		require.NoError(t, err)
		rr.AssertExpectations(t)
	})
}
