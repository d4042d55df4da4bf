package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/seat"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/show"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/transaction"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/venue"
	"github.com/sanosuguru/go-show-ticket-booking/internal/pkg/logger"
)

// SeatService は会場の座席配置を管理する
// 公演が登録された会場の座席は変更できない（公演の総座席数と食い違うため）
// 座席の変更と公演作成は会場行のロックで直列化する
type SeatService struct {
	txManager transaction.Manager
	seatRepo  seat.Repository
	venueRepo venue.Repository
	showRepo  show.Repository
}

func NewSeatService(txm transaction.Manager, sr seat.Repository, vr venue.Repository, shr show.Repository) *SeatService {
	return &SeatService{txManager: txm, seatRepo: sr, venueRepo: vr, showRepo: shr}
}

// GenerateSeatLayout は会場の収容人数まで座席を生成する
// 既存の座席がある場合はその続きから生成し、満席なら何も作らない
func (s *SeatService) GenerateSeatLayout(ctx context.Context, venueID string, perRow int) ([]*seat.Seat, error) {
	if perRow <= 0 {
		perRow = seat.DefaultSeatsPerRow
	}

	var (
		created  []*seat.Seat
		existing int
	)
	err := retryTx(ctx, s.txManager, "generate_seat_layout", nil, func(tx transaction.Tx) error {
		created = []*seat.Seat{}
		v, err := s.lockEditableVenue(ctx, tx, venueID)
		if err != nil {
			return err
		}
		existing, err = s.seatRepo.CountByVenueID(ctx, tx, venueID)
		if err != nil {
			return fmt.Errorf("座席数の取得に失敗: %w", err)
		}
		remaining := v.RemainingCapacity(existing)
		if remaining == 0 {
			return nil
		}
		seats, err := seat.GenerateLayout(venueID, existing, remaining, perRow)
		if err != nil {
			return err
		}
		if err := s.seatRepo.CreateBulk(ctx, tx, seats); err != nil {
			return err
		}
		created = seats
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(created) > 0 {
		logger.FromContext(ctx).Info("座席配置を生成しました",
			zap.String("venue_id", venueID),
			zap.Int("created", len(created)),
			zap.Int("existing", existing),
		)
	}
	return created, nil
}

type AddSeatInput struct {
	VenueID         string
	RowLabel        string
	Number          int
	Type            seat.Type
	PriceMultiplier float64
}

// AddSeat は座席を1席追加する
func (s *SeatService) AddSeat(ctx context.Context, input AddSeatInput) (*seat.Seat, error) {
	se := seat.NewSeat(input.VenueID, input.RowLabel, input.Number, input.Type, input.PriceMultiplier)
	if err := se.Validate(); err != nil {
		return nil, err
	}
	err := retryTx(ctx, s.txManager, "add_seat", nil, func(tx transaction.Tx) error {
		v, err := s.lockEditableVenue(ctx, tx, input.VenueID)
		if err != nil {
			return err
		}
		existing, err := s.seatRepo.CountByVenueID(ctx, tx, input.VenueID)
		if err != nil {
			return fmt.Errorf("座席数の取得に失敗: %w", err)
		}
		if v.RemainingCapacity(existing) == 0 {
			return venue.ErrCapacityExceeded
		}
		return s.seatRepo.CreateBulk(ctx, tx, []*seat.Seat{se})
	})
	if err != nil {
		return nil, err
	}
	return se, nil
}

func (s *SeatService) ListVenueSeats(ctx context.Context, venueID string) ([]*seat.Seat, error) {
	if _, err := s.venueRepo.GetByID(ctx, venueID); err != nil {
		return nil, err
	}
	return s.seatRepo.GetByVenueID(ctx, venueID)
}

// lockEditableVenue は会場行をロックし、公演が未登録であることを確認する
func (s *SeatService) lockEditableVenue(ctx context.Context, tx transaction.Tx, venueID string) (*venue.Venue, error) {
	v, err := s.venueRepo.GetForUpdate(ctx, tx, venueID)
	if err != nil {
		return nil, err
	}
	hasShows, err := s.showRepo.ExistsForVenue(ctx, tx, venueID)
	if err != nil {
		return nil, fmt.Errorf("公演の確認に失敗: %w", err)
	}
	if hasShows {
		return nil, venue.ErrVenueHasShows
	}
	return v, nil
}
