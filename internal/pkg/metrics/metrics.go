package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はアプリケーションのメトリクスを管理する
// Record* 系のメソッドは nil レシーバーでも安全に呼べる
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 予約作成の試行数（status: success, idempotent, unavailable, lock_failed, rejected, error）
	BookingsTotal *prometheus.CounterVec

	// 予約の状態遷移数（action: created, confirmed, cancelled, expired, completed）
	BookingTransitionsTotal *prometheus.CounterVec

	// 直列化失敗によるトランザクション再実行数（operation）
	TransactionRetriesTotal *prometheus.CounterVec

	// 分散ロックの操作時間（operation: acquire/release, status: success/failed）
	DistributedLockDuration *prometheus.HistogramVec

	// アウトボックスの配信数（result: published, failed）
	OutboxMessagesTotal *prometheus.CounterVec
}

// New はデフォルトレジストリに登録した Metrics を作成する
// プロセスで1回だけ呼ぶこと
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status_code"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"method", "path"}),
		BookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookings_total",
			Help: "Total number of booking attempts by outcome",
		}, []string{"status"}),
		BookingTransitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_transitions_total",
			Help: "Total number of booking state transitions",
		}, []string{"action"}),
		TransactionRetriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "transaction_retries_total",
			Help: "Total number of transactions retried after a serialization failure",
		}, []string{"operation"}),
		DistributedLockDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "distributed_lock_duration_seconds",
			Help:    "Time spent on distributed seat lock operations",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation", "status"}),
		OutboxMessagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "outbox_messages_total",
			Help: "Total number of outbox messages relayed to the broker",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.BookingsTotal,
		m.BookingTransitionsTotal,
		m.TransactionRetriesTotal,
		m.DistributedLockDuration,
		m.OutboxMessagesTotal,
	)
	return m
}

// RecordBooking は予約作成の結果を1件記録する
func (m *Metrics) RecordBooking(status string) {
	if m == nil {
		return
	}
	m.BookingsTotal.WithLabelValues(status).Inc()
}

// RecordTransition は状態遷移を n 件記録する。n が0以下なら何もしない
func (m *Metrics) RecordTransition(action string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.BookingTransitionsTotal.WithLabelValues(action).Add(float64(n))
}

// RecordRetry はトランザクションの再実行を記録する
func (m *Metrics) RecordRetry(operation string) {
	if m == nil {
		return
	}
	m.TransactionRetriesTotal.WithLabelValues(operation).Inc()
}

// ObserveLock は start からのロック操作時間を記録する
func (m *Metrics) ObserveLock(operation string, err error, start time.Time) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failed"
	}
	m.DistributedLockDuration.WithLabelValues(operation, status).Observe(time.Since(start).Seconds())
}

// RecordOutbox はアウトボックスの配信結果を n 件記録する
func (m *Metrics) RecordOutbox(result string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.OutboxMessagesTotal.WithLabelValues(result).Add(float64(n))
}
