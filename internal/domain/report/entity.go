package report

import "time"

const (
	// DefaultLogLimit は操作ログ取得件数のデフォルト
	DefaultLogLimit = 25
	// MaxLogLimit は操作ログ取得件数の上限
	MaxLogLimit = 200
	// DashboardRevenueDays はダッシュボードに表示する売上日数
	DashboardRevenueDays = 7
	// DashboardPopularEvents はダッシュボードに表示する人気イベント数
	DashboardPopularEvents = 10
)

// DailyRevenue は日別の売上
type DailyRevenue struct {
	Day      time.Time
	Bookings int64
	Revenue  int64
}

// CategoryStat はカテゴリ別の集計
type CategoryStat struct {
	CategoryID   string
	CategoryName string
	EventCount   int64
	BookingCount int64
	Revenue      int64
}

// VenuePerformance は会場別の集計
type VenuePerformance struct {
	VenueID       string
	VenueName     string
	City          string
	ShowCount     int64
	TicketsSold   int64
	Revenue       int64
	OccupancyRate float64
}

// PopularEvent は販売枚数順のイベント
type PopularEvent struct {
	EventID      string
	EventName    string
	CategoryName string
	TicketsSold  int64
	Revenue      int64
	AvgRating    float64
}

// Totals は全体の集計値
type Totals struct {
	Customers         int64
	Events            int64
	ConfirmedBookings int64
	Revenue           int64
}

// LogEntry は予約履歴の1件
type LogEntry struct {
	ID          int64
	BookingID   string
	Action      string
	EventName   string
	Username    string
	TotalAmount int
	CreatedAt   time.Time
}

// Dashboard は管理画面のダッシュボード
type Dashboard struct {
	DailyRevenue     []DailyRevenue
	CategoryStats    []CategoryStat
	VenuePerformance []VenuePerformance
	PopularEvents    []PopularEvent
	Totals           Totals
}

// ClampLogLimit は操作ログの取得件数を 1〜MaxLogLimit に丸める
func ClampLogLimit(limit int) int {
	if limit <= 0 {
		return DefaultLogLimit
	}
	if limit > MaxLogLimit {
		return MaxLogLimit
	}
	return limit
}
