package report

import "context"

// Repository は集計ビューを読むリポジトリのインターフェース
type Repository interface {
	DailyRevenue(ctx context.Context, days int) ([]DailyRevenue, error)
	CategoryStatistics(ctx context.Context) ([]CategoryStat, error)
	VenuePerformance(ctx context.Context) ([]VenuePerformance, error)
	PopularEvents(ctx context.Context, limit int) ([]PopularEvent, error)
	Totals(ctx context.Context) (Totals, error)
	RecentLogs(ctx context.Context, limit int) ([]LogEntry, error)
}
