package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/event"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/seat"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/show"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/transaction"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/venue"
	redisinfra "github.com/sanosuguru/go-show-ticket-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-show-ticket-booking/internal/pkg/logger"
)

type ShowService struct {
	txManager transaction.Manager
	showRepo  show.Repository
	eventRepo event.Repository
	venueRepo venue.Repository
	seatRepo  seat.Repository
	cache     SeatCache
	now       func() time.Time
}

// NewShowService は ShowService を作成する
// cache が nil の場合、空席数は常にDBから取得する
func NewShowService(txm transaction.Manager, shr show.Repository, er event.Repository, vr venue.Repository, sr seat.Repository, cache SeatCache) *ShowService {
	return &ShowService{txManager: txm, showRepo: shr, eventRepo: er, venueRepo: vr, seatRepo: sr, cache: cache, now: time.Now}
}

type CreateShowInput struct {
	EventID   string
	VenueID   string
	StartsAt  time.Time
	BasePrice int
}

// CreateShow は公演を作成する
// 総座席数は会場の有効な座席数で、空席数も同じ値から始まる
// 会場行をロックしてから数えるため、座席配置の変更と並行しても総座席数はずれない
func (s *ShowService) CreateShow(ctx context.Context, input CreateShowInput) (*show.Show, error) {
	if _, err := s.eventRepo.GetByID(ctx, input.EventID); err != nil {
		return nil, err
	}
	if !input.StartsAt.IsZero() && !input.StartsAt.After(s.now()) {
		return nil, show.ErrShowAlreadyStarted
	}

	var sh *show.Show
	err := retryTx(ctx, s.txManager, "create_show", nil, func(tx transaction.Tx) error {
		if _, err := s.venueRepo.GetForUpdate(ctx, tx, input.VenueID); err != nil {
			return err
		}
		seats, err := s.seatRepo.CountActiveByVenueID(ctx, tx, input.VenueID)
		if err != nil {
			return fmt.Errorf("座席数の取得に失敗: %w", err)
		}
		sh = show.NewShow(input.EventID, input.VenueID, input.StartsAt, input.BasePrice, seats)
		if err := sh.Validate(); err != nil {
			return err
		}
		if err := s.showRepo.Create(ctx, tx, sh); err != nil {
			return fmt.Errorf("公演作成に失敗しました: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("公演を作成しました",
		zap.String("show_id", sh.ID),
		zap.String("event_id", sh.EventID),
		zap.String("venue_id", sh.VenueID),
		zap.Int("total_seats", sh.TotalSeats),
	)
	return sh, nil
}

func (s *ShowService) GetShow(ctx context.Context, id string) (*show.Detail, error) {
	return s.showRepo.GetDetailByID(ctx, id)
}

func (s *ShowService) ListShows(ctx context.Context, filter show.Filter) ([]*show.Detail, error) {
	return s.showRepo.List(ctx, filter)
}

// GetShowSeats は公演の全座席を価格と空き状況付きで返す
func (s *ShowService) GetShowSeats(ctx context.Context, showID string) ([]*seat.ShowSeat, error) {
	if _, err := s.showRepo.GetByID(ctx, showID); err != nil {
		return nil, err
	}
	return s.seatRepo.ListForShow(ctx, showID, s.now())
}

// CountAvailableSeats は公演の空席数を返す
// キャッシュは予約の状態変化で無効化される
func (s *ShowService) CountAvailableSeats(ctx context.Context, showID string) (int, error) {
	// キャッシュから取得を試みる
	if s.cache != nil {
		count, err := s.cache.GetAvailableCount(ctx, showID)
		if err == nil {
			logger.Debug("キャッシュヒット", zap.String("show_id", showID), zap.Int("count", count))
			return count, nil
		}
		if !errors.Is(err, redisinfra.ErrCacheMiss) {
			logger.Warn("キャッシュ取得エラー", zap.Error(err))
		}
	}

	// DBから取得
	sh, err := s.showRepo.GetByID(ctx, showID)
	if err != nil {
		return 0, err
	}

	// キャッシュに保存
	if s.cache != nil {
		if cacheErr := s.cache.SetAvailableCount(ctx, showID, sh.AvailableSeats); cacheErr != nil {
			logger.Warn("キャッシュ保存エラー", zap.Error(cacheErr))
		}
	}
	return sh.AvailableSeats, nil
}
