package application

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/booking"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/report"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/user"
)

const (
	defaultUserPageSize = 50
	maxUserPageSize     = 200
)

// AdminService は管理画面向けの集計と参照を提供する
type AdminService struct {
	reportRepo  report.Repository
	userRepo    user.Repository
	bookingRepo booking.Repository
}

func NewAdminService(rr report.Repository, ur user.Repository, br booking.Repository) *AdminService {
	return &AdminService{reportRepo: rr, userRepo: ur, bookingRepo: br}
}

// Dashboard は集計ビューを並行に読んでダッシュボードを組み立てる
func (s *AdminService) Dashboard(ctx context.Context) (*report.Dashboard, error) {
	var d report.Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.reportRepo.DailyRevenue(gctx, report.DashboardRevenueDays)
		if err != nil {
			return fmt.Errorf("日別売上の取得に失敗: %w", err)
		}
		d.DailyRevenue = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.reportRepo.CategoryStatistics(gctx)
		if err != nil {
			return fmt.Errorf("カテゴリ統計の取得に失敗: %w", err)
		}
		d.CategoryStats = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.reportRepo.VenuePerformance(gctx)
		if err != nil {
			return fmt.Errorf("会場実績の取得に失敗: %w", err)
		}
		d.VenuePerformance = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.reportRepo.PopularEvents(gctx, report.DashboardPopularEvents)
		if err != nil {
			return fmt.Errorf("人気イベントの取得に失敗: %w", err)
		}
		d.PopularEvents = rows
		return nil
	})
	g.Go(func() error {
		totals, err := s.reportRepo.Totals(gctx)
		if err != nil {
			return fmt.Errorf("合計値の取得に失敗: %w", err)
		}
		d.Totals = totals
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Logs は最近の予約履歴を返す
func (s *AdminService) Logs(ctx context.Context, limit int) ([]report.LogEntry, error) {
	return s.reportRepo.RecentLogs(ctx, report.ClampLogLimit(limit))
}

func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) ([]*user.User, error) {
	limit, offset = clampPage(limit, offset, defaultUserPageSize, maxUserPageSize)
	return s.userRepo.List(ctx, limit, offset)
}

func (s *AdminService) GetUser(ctx context.Context, id string) (*user.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *AdminService) ListUserBookings(ctx context.Context, userID string, limit, offset int) ([]*booking.Booking, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	limit, offset = clampPage(limit, offset, defaultBookingPageSize, maxBookingPageSize)
	return s.bookingRepo.ListByUser(ctx, userID, limit, offset)
}
