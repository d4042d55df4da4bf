package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/booking"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/lock"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/outbox"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/seat"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/show"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/transaction"
	"github.com/sanosuguru/go-show-ticket-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-show-ticket-booking/internal/pkg/metrics"
)

const (
	defaultLockTTL        = 10 * time.Second
	defaultLockRetries    = 3
	defaultLockRetryDelay = 100 * time.Millisecond

	defaultBookingPageSize = 20
	maxBookingPageSize     = 100
)

// 予約作成のメトリクスラベル
const (
	bookingStatusSuccess     = "success"
	bookingStatusIdempotent  = "idempotent"
	bookingStatusUnavailable = "unavailable"
	bookingStatusLockFailed  = "lock_failed"
	bookingStatusRejected    = "rejected"
	bookingStatusError       = "error"
)

// BookingService は座席予約のユースケースを提供する
type BookingService struct {
	txManager   transaction.Manager
	bookingRepo booking.Repository
	showRepo    show.Repository
	seatRepo    seat.Repository
	lockManager lock.Manager
	seatCache   SeatCache
	outboxRepo  outbox.Repository
	metrics     *metrics.Metrics
	tracer      trace.Tracer

	holdTTL        time.Duration
	maxSeats       int
	lockTTL        time.Duration
	lockRetries    int
	lockRetryDelay time.Duration
	now            func() time.Time
}

// BookingOption は BookingService の任意設定
type BookingOption func(*BookingService)

// WithLockManager は座席の分散ロックを有効にする
func WithLockManager(m lock.Manager, ttl time.Duration, retries int) BookingOption {
	return func(s *BookingService) {
		s.lockManager = m
		if ttl > 0 {
			s.lockTTL = ttl
		}
		if retries > 0 {
			s.lockRetries = retries
		}
	}
}

// WithSeatCache は状態変化時に空席数キャッシュを無効化する
func WithSeatCache(c SeatCache) BookingOption {
	return func(s *BookingService) { s.seatCache = c }
}

// WithOutbox は状態変化をアウトボックスに記録する
func WithOutbox(r outbox.Repository) BookingOption {
	return func(s *BookingService) { s.outboxRepo = r }
}

// WithMetrics はメトリクスを記録する
func WithMetrics(m *metrics.Metrics) BookingOption {
	return func(s *BookingService) { s.metrics = m }
}

// WithTracer はスパンを記録するトレーサーを設定する
func WithTracer(t trace.Tracer) BookingOption {
	return func(s *BookingService) { s.tracer = t }
}

// WithHoldTTL は仮押さえの有効期間を設定する
func WithHoldTTL(ttl time.Duration) BookingOption {
	return func(s *BookingService) {
		if ttl > 0 {
			s.holdTTL = ttl
		}
	}
}

// WithMaxSeats は1回の予約で指定できる座席数の上限を設定する
func WithMaxSeats(n int) BookingOption {
	return func(s *BookingService) {
		if n > 0 {
			s.maxSeats = n
		}
	}
}

// WithClock は現在時刻の取得関数を差し替える
func WithClock(now func() time.Time) BookingOption {
	return func(s *BookingService) { s.now = now }
}

// NewBookingService は BookingService を作成する
func NewBookingService(txm transaction.Manager, br booking.Repository, shr show.Repository, sr seat.Repository, opts ...BookingOption) *BookingService {
	s := &BookingService{
		txManager:      txm,
		bookingRepo:    br,
		showRepo:       shr,
		seatRepo:       sr,
		tracer:         noop.NewTracerProvider().Tracer(""),
		holdTTL:        booking.DefaultHoldTTL,
		maxSeats:       booking.DefaultMaxSeats,
		lockTTL:        defaultLockTTL,
		lockRetries:    defaultLockRetries,
		lockRetryDelay: defaultLockRetryDelay,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateBookingInput は予約作成の入力
type CreateBookingInput struct {
	UserID         string
	ShowID         string
	SeatIDs        []string
	IdempotencyKey string
}

// CreateBooking は座席を仮押さえした保留中の予約を作成する
// 同じユーザーが同じ冪等性キーで再度呼び出した場合は既存の予約を返す
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*booking.Booking, error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.CreateBooking", trace.WithAttributes(
		attribute.String("show.id", input.ShowID),
		attribute.Int("booking.seat_count", len(input.SeatIDs)),
	))
	defer span.End()

	b, status, err := s.createBooking(ctx, input)
	s.metrics.RecordBooking(status)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, status)
		return nil, err
	}
	span.SetAttributes(attribute.String("booking.id", b.ID))
	return b, nil
}

func (s *BookingService) createBooking(ctx context.Context, input CreateBookingInput) (*booking.Booking, string, error) {
	if input.UserID == "" {
		return nil, bookingStatusRejected, booking.ErrUserIDRequired
	}
	if input.ShowID == "" {
		return nil, bookingStatusRejected, booking.ErrShowIDRequired
	}
	if err := booking.ValidateSeatSelection(input.SeatIDs, s.maxSeats); err != nil {
		return nil, bookingStatusRejected, err
	}

	// 冪等性チェック
	key := input.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	} else {
		existing, err := s.bookingRepo.GetByIdempotencyKey(ctx, input.UserID, key)
		if err == nil {
			return replay(existing, input)
		}
		if !errors.Is(err, booking.ErrBookingNotFound) {
			return nil, bookingStatusError, fmt.Errorf("冪等性チェックに失敗: %w", err)
		}
	}

	// 分散ロックを取得（全座席をまとめて取得し、1つでも取れなければ失敗）
	// Redis 障害時はロックなしで進め、二重予約はトランザクションと一意制約で防ぐ
	if s.lockManager != nil {
		l, err := s.acquireSeatLocks(ctx, input.ShowID, input.SeatIDs)
		switch {
		case errors.Is(err, lock.ErrNotAcquired):
			return nil, bookingStatusLockFailed, booking.ErrSeatsBeingProcessed
		case ctx.Err() != nil:
			return nil, bookingStatusError, ctx.Err()
		case err != nil:
			logger.FromContext(ctx).Warn("座席ロックを取得できません。ロックなしで予約を続行します",
				zap.String("show_id", input.ShowID), zap.Error(err))
		default:
			defer s.releaseLock(ctx, l)
		}
	}

	var (
		created *booking.Booking
		expired []*booking.Booking
	)
	err := retryTx(ctx, s.txManager, "create_booking", s.onRetry("create_booking"), func(tx transaction.Tx) error {
		var err error
		created, expired, err = s.createInTx(ctx, tx, input.UserID, input.ShowID, input.SeatIDs, key)
		return err
	})
	if err != nil {
		// 同じキーの並行リクエストが先にコミットした
		if errors.Is(err, booking.ErrIdempotencyKeyAlreadyExists) {
			existing, getErr := s.bookingRepo.GetByIdempotencyKey(ctx, input.UserID, key)
			if getErr == nil {
				return replay(existing, input)
			}
		}
		return nil, bookingOutcome(err), err
	}

	s.invalidateSeatCache(ctx, input.ShowID)
	s.metrics.RecordTransition(string(booking.ActionCreated), 1)
	s.metrics.RecordTransition(string(booking.ActionExpired), len(expired))
	logger.FromContext(ctx).Info("予約を作成しました",
		zap.String("booking_id", created.ID),
		zap.String("show_id", created.ShowID),
		zap.String("user_id", created.UserID),
		zap.Int("seats", len(created.Seats)),
		zap.Int("total_amount", created.TotalAmount),
		zap.Int("released_expired", len(expired)),
	)
	return created, bookingStatusSuccess, nil
}

// createInTx は予約作成のトランザクション本体
// 座席と保有者はキャッシュではなくトランザクション内で読み直す
func (s *BookingService) createInTx(ctx context.Context, tx transaction.Tx, userID, showID string, seatIDs []string, key string) (*booking.Booking, []*booking.Booking, error) {
	now := s.now()

	sh, err := s.showRepo.GetForUpdate(ctx, tx, showID)
	if err != nil {
		return nil, nil, err
	}
	if !sh.IsBookable(now) {
		return nil, nil, show.ErrShowAlreadyStarted
	}

	seats, err := s.seatRepo.GetByIDs(ctx, tx, seatIDs)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[string]*seat.Seat, len(seats))
	for _, se := range seats {
		byID[se.ID] = se
	}

	bookingSeats := make([]booking.Seat, 0, len(seatIDs))
	for _, id := range seatIDs {
		se, ok := byID[id]
		if !ok || !se.BelongsTo(sh.VenueID) {
			return nil, nil, seat.ErrInvalidSeat
		}
		bookingSeats = append(bookingSeats, booking.Seat{
			SeatID:     se.ID,
			Price:      se.PriceFor(sh.BasePrice),
			RowLabel:   se.RowLabel,
			SeatNumber: se.Number,
			SeatType:   string(se.Type),
		})
	}

	// 期限切れの仮押さえは解放し、それ以外の保有者がいれば予約不可
	holders, err := s.bookingRepo.ListActiveHolders(ctx, tx, sh.ID, seatIDs)
	if err != nil {
		return nil, nil, err
	}
	expired := make([]*booking.Booking, 0, len(holders))
	for _, h := range holders {
		if !h.IsHoldExpired(now) {
			return nil, nil, booking.ErrSeatUnavailable
		}
		if err := s.expireInTx(ctx, tx, h, now); err != nil {
			return nil, nil, err
		}
		expired = append(expired, h)
	}

	b := booking.NewBooking(userID, sh.ID, key, bookingSeats, now, s.holdTTL)
	if err := b.Validate(); err != nil {
		return nil, nil, err
	}
	if err := s.bookingRepo.Create(ctx, tx, b); err != nil {
		return nil, nil, err
	}
	if err := s.showRepo.AdjustAvailableSeats(ctx, tx, sh.ID, -len(bookingSeats)); err != nil {
		return nil, nil, err
	}
	if err := s.bookingRepo.RecordHistory(ctx, tx, booking.ActionCreated, b.ID); err != nil {
		return nil, nil, err
	}
	if err := s.enqueue(ctx, tx, b, booking.ActionCreated, now); err != nil {
		return nil, nil, err
	}
	return b, expired, nil
}

// ConfirmBookingInput は予約確定の入力
// AmountPaid が指定された場合は合計金額と一致する必要がある
type ConfirmBookingInput struct {
	BookingID     string
	Actor         Actor
	PaymentMethod booking.PaymentMethod
	AmountPaid    *int
}

// ConfirmBooking は保留中の予約を支払い済みにして確定する
// 既に確定済みの予約に対しては何もせず現在の予約を返す
func (s *BookingService) ConfirmBooking(ctx context.Context, input ConfirmBookingInput) (*booking.Booking, error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.ConfirmBooking", trace.WithAttributes(
		attribute.String("booking.id", input.BookingID),
	))
	defer span.End()

	if !input.PaymentMethod.IsValid() {
		return nil, booking.ErrInvalidPaymentMethod
	}

	var (
		result  *booking.Booking
		changed bool
	)
	err := retryTx(ctx, s.txManager, "confirm_booking", s.onRetry("confirm_booking"), func(tx transaction.Tx) error {
		now := s.now()
		b, err := s.lockOwnedBooking(ctx, tx, input.BookingID, input.Actor)
		if err != nil {
			return err
		}
		if b.IsPending() && input.AmountPaid != nil && *input.AmountPaid != b.TotalAmount {
			return booking.ErrPaymentAmountMismatch
		}
		changed, err = b.Confirm(string(input.PaymentMethod), now)
		if err != nil {
			return err
		}
		result = b
		if !changed {
			return nil
		}
		if err := s.bookingRepo.Update(ctx, tx, b); err != nil {
			return err
		}
		if err := s.bookingRepo.RecordHistory(ctx, tx, booking.ActionConfirmed, b.ID); err != nil {
			return err
		}
		return s.enqueue(ctx, tx, b, booking.ActionConfirmed, now)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "confirm failed")
		return nil, err
	}

	if changed {
		s.invalidateSeatCache(ctx, result.ShowID)
		s.metrics.RecordTransition(string(booking.ActionConfirmed), 1)
		logger.FromContext(ctx).Info("予約を確定しました",
			zap.String("booking_id", result.ID),
			zap.String("payment_method", result.PaymentMethod),
		)
	}
	return result, nil
}

// CancelBooking は予約をキャンセルして座席を解放する
// 解放する座席数は実際に無効化した予約座席の件数なので、二重に戻ることはない
func (s *BookingService) CancelBooking(ctx context.Context, actor Actor, bookingID string) (*booking.Booking, error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.CancelBooking", trace.WithAttributes(
		attribute.String("booking.id", bookingID),
	))
	defer span.End()

	var (
		result   *booking.Booking
		released int
		changed  bool
	)
	err := retryTx(ctx, s.txManager, "cancel_booking", s.onRetry("cancel_booking"), func(tx transaction.Tx) error {
		now := s.now()
		b, err := s.lockOwnedBooking(ctx, tx, bookingID, actor)
		if err != nil {
			return err
		}
		changed, err = b.Cancel(now)
		if err != nil {
			return err
		}
		result = b
		released = 0
		if !changed {
			return nil
		}
		if err := s.bookingRepo.Update(ctx, tx, b); err != nil {
			return err
		}
		released, err = s.releaseSeats(ctx, tx, b, now)
		if err != nil {
			return err
		}
		if err := s.bookingRepo.RecordHistory(ctx, tx, booking.ActionCancelled, b.ID); err != nil {
			return err
		}
		return s.enqueue(ctx, tx, b, booking.ActionCancelled, now)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "cancel failed")
		return nil, err
	}

	if changed {
		s.invalidateSeatCache(ctx, result.ShowID)
		s.metrics.RecordTransition(string(booking.ActionCancelled), 1)
		logger.FromContext(ctx).Info("予約をキャンセルしました",
			zap.String("booking_id", result.ID),
			zap.String("payment_status", string(result.PaymentStatus)),
			zap.Int("released_seats", released),
		)
	}
	return result, nil
}

// GetBooking は予約を取得する
// 管理者以外が他人の予約を指定した場合は存在しないものとして扱う
func (s *BookingService) GetBooking(ctx context.Context, actor Actor, id string) (*booking.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.canAccess(b) {
		return nil, booking.ErrBookingNotFound
	}
	return b, nil
}

// ListUserBookings はユーザーの予約一覧を取得する
func (s *BookingService) ListUserBookings(ctx context.Context, userID string, limit, offset int) ([]*booking.Booking, error) {
	limit, offset = clampPage(limit, offset, defaultBookingPageSize, maxBookingPageSize)
	return s.bookingRepo.ListByUser(ctx, userID, limit, offset)
}

// ExpireBooking は仮押さえ期限切れの保留中予約を失効させる
// 既に状態が変わっていた場合は何もせず false を返す
func (s *BookingService) ExpireBooking(ctx context.Context, bookingID string) (bool, error) {
	var (
		showID  string
		expired bool
	)
	err := retryTx(ctx, s.txManager, "expire_booking", s.onRetry("expire_booking"), func(tx transaction.Tx) error {
		now := s.now()
		expired = false
		b, err := s.bookingRepo.GetByIDForUpdate(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if !b.IsHoldExpired(now) {
			return nil
		}
		if err := s.expireInTx(ctx, tx, b, now); err != nil {
			return err
		}
		showID = b.ShowID
		expired = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if expired {
		s.invalidateSeatCache(ctx, showID)
		s.metrics.RecordTransition(string(booking.ActionExpired), 1)
	}
	return expired, nil
}

// ExpireOverdue は仮押さえ期限切れの保留中予約を最大 limit 件失効させる
// 1件ずつ別トランザクションで処理し、失効させた件数を返す
func (s *BookingService) ExpireOverdue(ctx context.Context, limit int) (int, error) {
	ids, err := s.bookingRepo.ListExpiredPendingIDs(ctx, s.now(), limit)
	if err != nil {
		return 0, fmt.Errorf("期限切れ予約の取得に失敗: %w", err)
	}

	count := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return count, ctx.Err()
		}
		expired, err := s.ExpireBooking(ctx, id)
		if err != nil {
			logger.Error("予約の失効に失敗", zap.String("booking_id", id), zap.Error(err))
			continue
		}
		if expired {
			count++
		}
	}
	return count, nil
}

// CompleteStartedShows は開始済み公演の確定予約を完了状態にする
func (s *BookingService) CompleteStartedShows(ctx context.Context) (int, error) {
	var completed []string
	err := retryTx(ctx, s.txManager, "complete_bookings", s.onRetry("complete_bookings"), func(tx transaction.Tx) error {
		var err error
		completed, err = s.bookingRepo.CompleteStarted(ctx, tx, s.now())
		if err != nil {
			return err
		}
		if len(completed) == 0 {
			return nil
		}
		return s.bookingRepo.RecordHistory(ctx, tx, booking.ActionCompleted, completed...)
	})
	if err != nil {
		return 0, err
	}
	s.metrics.RecordTransition(string(booking.ActionCompleted), len(completed))
	return len(completed), nil
}

// expireInTx は保留中予約を失効させて座席を解放する
func (s *BookingService) expireInTx(ctx context.Context, tx transaction.Tx, b *booking.Booking, now time.Time) error {
	if err := b.Expire(now); err != nil {
		return err
	}
	if err := s.bookingRepo.Update(ctx, tx, b); err != nil {
		return err
	}
	if _, err := s.releaseSeats(ctx, tx, b, now); err != nil {
		return err
	}
	if err := s.bookingRepo.RecordHistory(ctx, tx, booking.ActionExpired, b.ID); err != nil {
		return err
	}
	return s.enqueue(ctx, tx, b, booking.ActionExpired, now)
}

// releaseSeats は予約座席を無効化し、無効化した件数だけ空席数を戻す
func (s *BookingService) releaseSeats(ctx context.Context, tx transaction.Tx, b *booking.Booking, now time.Time) (int, error) {
	released, err := s.bookingRepo.ReleaseSeats(ctx, tx, b.ID, now)
	if err != nil {
		return 0, err
	}
	if released == 0 {
		return 0, nil
	}
	if err := s.showRepo.AdjustAvailableSeats(ctx, tx, b.ShowID, released); err != nil {
		return 0, err
	}
	return released, nil
}

func (s *BookingService) lockOwnedBooking(ctx context.Context, tx transaction.Tx, id string, actor Actor) (*booking.Booking, error) {
	b, err := s.bookingRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if !actor.canAccess(b) {
		return nil, booking.ErrBookingNotFound
	}
	return b, nil
}

func (s *BookingService) enqueue(ctx context.Context, tx transaction.Tx, b *booking.Booking, action booking.Action, now time.Time) error {
	if s.outboxRepo == nil {
		return nil
	}
	msg, err := outbox.NewMessage(b.ID, action.EventType(), booking.NewEvent(b, action, now))
	if err != nil {
		return err
	}
	return s.outboxRepo.Enqueue(ctx, tx, msg)
}

func (s *BookingService) acquireSeatLocks(ctx context.Context, showID string, seatIDs []string) (lock.Lock, error) {
	start := time.Now()
	l, err := s.lockManager.AcquireLocksWithRetry(ctx, seatLockKeys(showID, seatIDs), s.lockTTL, s.lockRetries, s.lockRetryDelay)
	s.metrics.ObserveLock("acquire", err, start)
	return l, err
}

func (s *BookingService) releaseLock(ctx context.Context, l lock.Lock) {
	start := time.Now()
	err := l.Release(context.WithoutCancel(ctx))
	s.metrics.ObserveLock("release", err, start)
	if err != nil {
		logger.FromContext(ctx).Warn("ロック解放に失敗", zap.Error(err))
	}
}

func (s *BookingService) invalidateSeatCache(ctx context.Context, showID string) {
	if s.seatCache == nil {
		return
	}
	if err := s.seatCache.Invalidate(ctx, showID); err != nil {
		logger.FromContext(ctx).Warn("キャッシュ無効化エラー", zap.String("show_id", showID), zap.Error(err))
	}
}

func (s *BookingService) onRetry(op string) func() {
	return func() { s.metrics.RecordRetry(op) }
}

// seatLockKeys は公演・座席ごとのロックキーを返す
func seatLockKeys(showID string, seatIDs []string) []string {
	keys := make([]string, len(seatIDs))
	for i, id := range seatIDs {
		keys[i] = "show:" + showID + ":seat:" + id
	}
	return keys
}

// replay は冪等性キーが一致した既存の予約を返す
// 公演や座席が異なるリクエストでキーを使い回した場合は拒否する
func replay(existing *booking.Booking, input CreateBookingInput) (*booking.Booking, string, error) {
	if !existing.MatchesRequest(input.ShowID, input.SeatIDs) {
		return nil, bookingStatusRejected, booking.ErrIdempotencyKeyReused
	}
	return existing, bookingStatusIdempotent, nil
}

// bookingOutcome は予約作成エラーをメトリクスのラベルに変換する
func bookingOutcome(err error) string {
	switch {
	case errors.Is(err, booking.ErrSeatUnavailable):
		return bookingStatusUnavailable
	case errors.Is(err, show.ErrShowNotFound),
		errors.Is(err, show.ErrShowAlreadyStarted),
		errors.Is(err, seat.ErrInvalidSeat):
		return bookingStatusRejected
	default:
		return bookingStatusError
	}
}

func clampPage(limit, offset, def, maxLimit int) (int, int) {
	if limit <= 0 {
		limit = def
	}
	limit = min(limit, maxLimit)
	return limit, max(offset, 0)
}
