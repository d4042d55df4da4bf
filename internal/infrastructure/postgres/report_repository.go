package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/report"
)

// ReportRepository は集計ビューを読むPostgreSQL実装
type ReportRepository struct{ db *sqlx.DB }

// NewReportRepository はReportRepositoryを作成する
func NewReportRepository(db *sqlx.DB) *ReportRepository { return &ReportRepository{db: db} }

func (r *ReportRepository) DailyRevenue(ctx context.Context, days int) ([]report.DailyRevenue, error) {
	var rows []struct {
		Day      time.Time `db:"day"`
		Bookings int64     `db:"bookings"`
		Revenue  int64     `db:"revenue"`
	}
	query := `
		SELECT day, bookings, revenue FROM daily_revenue
		WHERE day >= CURRENT_DATE - ($1::int - 1)
		ORDER BY day DESC
	`
	if err := r.db.SelectContext(ctx, &rows, query, days); err != nil {
		return nil, fmt.Errorf("日別売上の取得に失敗しました: %w", err)
	}
	result := make([]report.DailyRevenue, len(rows))
	for i, row := range rows {
		result[i] = report.DailyRevenue(row)
	}
	return result, nil
}

func (r *ReportRepository) CategoryStatistics(ctx context.Context) ([]report.CategoryStat, error) {
	var rows []struct {
		CategoryID   string `db:"category_id"`
		CategoryName string `db:"category_name"`
		EventCount   int64  `db:"event_count"`
		BookingCount int64  `db:"booking_count"`
		Revenue      int64  `db:"revenue"`
	}
	query := `SELECT category_id, category_name, event_count, booking_count, revenue FROM category_statistics ORDER BY revenue DESC, category_name`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("カテゴリ別集計の取得に失敗しました: %w", err)
	}
	result := make([]report.CategoryStat, len(rows))
	for i, row := range rows {
		result[i] = report.CategoryStat(row)
	}
	return result, nil
}

func (r *ReportRepository) VenuePerformance(ctx context.Context) ([]report.VenuePerformance, error) {
	var rows []struct {
		VenueID       string  `db:"venue_id"`
		VenueName     string  `db:"venue_name"`
		City          string  `db:"city"`
		ShowCount     int64   `db:"show_count"`
		TicketsSold   int64   `db:"tickets_sold"`
		Revenue       int64   `db:"revenue"`
		OccupancyRate float64 `db:"occupancy_rate"`
	}
	query := `SELECT venue_id, venue_name, city, show_count, tickets_sold, revenue, occupancy_rate FROM venue_performance ORDER BY revenue DESC, venue_name`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("会場別集計の取得に失敗しました: %w", err)
	}
	result := make([]report.VenuePerformance, len(rows))
	for i, row := range rows {
		result[i] = report.VenuePerformance(row)
	}
	return result, nil
}

func (r *ReportRepository) PopularEvents(ctx context.Context, limit int) ([]report.PopularEvent, error) {
	var rows []struct {
		EventID      string  `db:"event_id"`
		EventName    string  `db:"event_name"`
		CategoryName string  `db:"category_name"`
		TicketsSold  int64   `db:"tickets_sold"`
		Revenue      int64   `db:"revenue"`
		AvgRating    float64 `db:"avg_rating"`
	}
	query := `SELECT event_id, event_name, category_name, tickets_sold, revenue, avg_rating FROM popular_events LIMIT $1`
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("人気イベントの取得に失敗しました: %w", err)
	}
	result := make([]report.PopularEvent, len(rows))
	for i, row := range rows {
		result[i] = report.PopularEvent(row)
	}
	return result, nil
}

func (r *ReportRepository) Totals(ctx context.Context) (report.Totals, error) {
	var row struct {
		Customers         int64 `db:"customers"`
		Events            int64 `db:"events"`
		ConfirmedBookings int64 `db:"confirmed_bookings"`
		Revenue           int64 `db:"revenue"`
	}
	query := `
		SELECT
			(SELECT COUNT(*) FROM users WHERE role = 'customer')                                  AS customers,
			(SELECT COUNT(*) FROM events)                                                         AS events,
			(SELECT COUNT(*) FROM bookings WHERE status IN ('confirmed', 'completed'))            AS confirmed_bookings,
			(SELECT COALESCE(SUM(total_amount), 0) FROM bookings
			  WHERE status IN ('confirmed', 'completed'))::BIGINT                                 AS revenue
	`
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return report.Totals{}, fmt.Errorf("全体集計の取得に失敗しました: %w", err)
	}
	return report.Totals(row), nil
}

func (r *ReportRepository) RecentLogs(ctx context.Context, limit int) ([]report.LogEntry, error) {
	var rows []struct {
		ID          int64     `db:"id"`
		BookingID   string    `db:"booking_id"`
		Action      string    `db:"action"`
		EventName   string    `db:"event_name"`
		Username    string    `db:"username"`
		TotalAmount int       `db:"total_amount"`
		CreatedAt   time.Time `db:"created_at"`
	}
	query := `
		SELECT h.id, h.booking_id, h.action, e.name AS event_name, u.username, b.total_amount, h.created_at
		FROM booking_history_log h
		JOIN bookings b ON b.id = h.booking_id
		JOIN shows s ON s.id = b.show_id
		JOIN events e ON e.id = s.event_id
		JOIN users u ON u.id = b.user_id
		ORDER BY h.created_at DESC, h.id DESC
		LIMIT $1
	`
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("操作ログの取得に失敗しました: %w", err)
	}
	result := make([]report.LogEntry, len(rows))
	for i, row := range rows {
		result[i] = report.LogEntry(row)
	}
	return result, nil
}

var _ report.Repository = (*ReportRepository)(nil)
