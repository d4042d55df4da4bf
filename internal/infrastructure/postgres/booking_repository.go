package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/booking"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/transaction"
)

const bookingColumns = `b.id, b.user_id, b.show_id, b.status, b.payment_status, b.payment_method, b.total_amount,
	b.idempotency_key, b.expires_at, b.confirmed_at, b.cancelled_at, b.created_at, b.updated_at`

type bookingRow struct {
	ID             string     `db:"id"`
	UserID         string     `db:"user_id"`
	ShowID         string     `db:"show_id"`
	Status         string     `db:"status"`
	PaymentStatus  string     `db:"payment_status"`
	PaymentMethod  string     `db:"payment_method"`
	TotalAmount    int        `db:"total_amount"`
	IdempotencyKey string     `db:"idempotency_key"`
	ExpiresAt      time.Time  `db:"expires_at"`
	ConfirmedAt    *time.Time `db:"confirmed_at"`
	CancelledAt    *time.Time `db:"cancelled_at"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

type bookingSeatRow struct {
	BookingID  string `db:"booking_id"`
	SeatID     string `db:"seat_id"`
	Price      int    `db:"price"`
	RowLabel   string `db:"row_label"`
	SeatNumber int    `db:"seat_number"`
	SeatType   string `db:"seat_type"`
}

func (r *bookingRow) toEntity(seats []booking.Seat) *booking.Booking {
	if seats == nil {
		seats = []booking.Seat{}
	}
	return &booking.Booking{
		ID: r.ID, UserID: r.UserID, ShowID: r.ShowID, Seats: seats,
		Status: booking.Status(r.Status), PaymentStatus: booking.PaymentStatus(r.PaymentStatus),
		PaymentMethod: r.PaymentMethod, TotalAmount: r.TotalAmount, IdempotencyKey: r.IdempotencyKey,
		ExpiresAt: r.ExpiresAt, ConfirmedAt: r.ConfirmedAt, CancelledAt: r.CancelledAt,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

// BookingRepository は予約リポジトリのPostgreSQL実装
type BookingRepository struct{ db *sqlx.DB }

// NewBookingRepository はBookingRepositoryを作成する
func NewBookingRepository(db *sqlx.DB) *BookingRepository { return &BookingRepository{db: db} }

// Create は予約と予約座席を作成する
// 同一公演の同一座席に有効な予約座席が既にあれば ErrSeatUnavailable を返す
func (r *BookingRepository) Create(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	sqlxTx, err := mustUnwrap(tx)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO bookings (user_id, show_id, status, payment_status, payment_method, total_amount,
		                      idempotency_key, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err = sqlxTx.QueryRowContext(ctx, query,
		b.UserID, b.ShowID, string(b.Status), string(b.PaymentStatus), b.PaymentMethod, b.TotalAmount,
		b.IdempotencyKey, b.ExpiresAt, b.CreatedAt, b.UpdatedAt,
	).Scan(&b.ID)
	if err != nil {
		if isUniqueViolation(err, "bookings_user_idempotency_key") {
			return booking.ErrIdempotencyKeyAlreadyExists
		}
		return wrapErr("予約作成に失敗しました", err)
	}

	const cols = 4
	args := make([]any, 0, len(b.Seats)*cols)
	placeholders := make([]string, 0, len(b.Seats))
	for i, s := range b.Seats {
		base := i * cols
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, TRUE)", base+1, base+2, base+3, base+4))
		args = append(args, b.ID, b.ShowID, s.SeatID, s.Price)
	}
	seatQuery := `INSERT INTO booking_seats (booking_id, show_id, seat_id, price, active) VALUES ` + strings.Join(placeholders, ", ")
	if _, err := sqlxTx.ExecContext(ctx, seatQuery, args...); err != nil {
		if isUniqueViolation(err, "booking_seats_active_seat") {
			return booking.ErrSeatUnavailable
		}
		return wrapErr("予約座席の作成に失敗しました", err)
	}
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*booking.Booking, error) {
	return r.getOne(ctx, r.db, `SELECT `+bookingColumns+` FROM bookings b WHERE b.id = $1`, id)
}

// GetByIDForUpdate は予約行を排他ロックして取得する
func (r *BookingRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*booking.Booking, error) {
	sqlxTx, err := mustUnwrap(tx)
	if err != nil {
		return nil, err
	}
	return r.getOne(ctx, sqlxTx, `SELECT `+bookingColumns+` FROM bookings b WHERE b.id = $1 FOR UPDATE`, id)
}

func (r *BookingRepository) GetByIdempotencyKey(ctx context.Context, userID, key string) (*booking.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.user_id = $1 AND b.idempotency_key = $2`
	return r.getOne(ctx, r.db, query, userID, key)
}

func (r *BookingRepository) getOne(ctx context.Context, q sqlx.QueryerContext, query string, args ...any) (*booking.Booking, error) {
	var row bookingRow
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, wrapErr("予約取得に失敗しました", err)
	}
	bookings, err := r.attachSeats(ctx, q, []bookingRow{row})
	if err != nil {
		return nil, err
	}
	return bookings[0], nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*booking.Booking, error) {
	var rows []bookingRow
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.user_id = $1 ORDER BY b.created_at DESC, b.id LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &rows, query, userID, limit, offset); err != nil {
		if isNotFound(err) {
			return []*booking.Booking{}, nil
		}
		return nil, fmt.Errorf("予約一覧取得に失敗しました: %w", err)
	}
	return r.attachSeats(ctx, r.db, rows)
}

// ListActiveHolders は指定座席を有効に参照している予約を排他ロックして取得する
func (r *BookingRepository) ListActiveHolders(ctx context.Context, tx transaction.Tx, showID string, seatIDs []string) ([]*booking.Booking, error) {
	sqlxTx, err := mustUnwrap(tx)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings b
		WHERE b.id IN (
			SELECT bs.booking_id FROM booking_seats bs
			WHERE bs.show_id = $1 AND bs.seat_id = ANY($2) AND bs.active
		)
		ORDER BY b.id
		FOR UPDATE
	`
	var rows []bookingRow
	if err := sqlxTx.SelectContext(ctx, &rows, query, showID, pq.Array(seatIDs)); err != nil {
		return nil, wrapErr("座席の保持予約の取得に失敗しました", err)
	}
	return r.attachSeats(ctx, sqlxTx, rows)
}

func (r *BookingRepository) Update(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	sqlxTx, err := mustUnwrap(tx)
	if err != nil {
		return err
	}
	query := `
		UPDATE bookings
		SET status = $1, payment_status = $2, payment_method = $3, confirmed_at = $4, cancelled_at = $5, updated_at = $6
		WHERE id = $7
	`
	result, err := sqlxTx.ExecContext(ctx, query,
		string(b.Status), string(b.PaymentStatus), b.PaymentMethod, b.ConfirmedAt, b.CancelledAt, b.UpdatedAt, b.ID,
	)
	if err != nil {
		return wrapErr("予約更新に失敗しました", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if rows == 0 {
		return booking.ErrBookingNotFound
	}
	return nil
}

// ReleaseSeats は有効な予約座席だけを無効化する
// 戻り値は実際に無効化した件数で、二重解放では 0 になる
func (r *BookingRepository) ReleaseSeats(ctx context.Context, tx transaction.Tx, bookingID string, now time.Time) (int, error) {
	sqlxTx, err := mustUnwrap(tx)
	if err != nil {
		return 0, err
	}
	result, err := sqlxTx.ExecContext(ctx,
		`UPDATE booking_seats SET active = FALSE, released_at = $2 WHERE booking_id = $1 AND active`,
		bookingID, now,
	)
	if err != nil {
		return 0, wrapErr("座席の解放に失敗しました", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("解放結果の確認に失敗しました: %w", err)
	}
	return int(rows), nil
}

func (r *BookingRepository) ListExpiredPendingIDs(ctx context.Context, now time.Time, limit int) ([]string, error) {
	var ids []string
	query := `SELECT id FROM bookings WHERE status = 'pending' AND expires_at <= $1 ORDER BY expires_at LIMIT $2`
	if err := r.db.SelectContext(ctx, &ids, query, now, limit); err != nil {
		return nil, fmt.Errorf("期限切れ予約取得に失敗しました: %w", err)
	}
	return ids, nil
}

// CompleteStarted は開始済み公演の確定予約を完了状態にする
// 完了した予約の座席は引き続き占有される
func (r *BookingRepository) CompleteStarted(ctx context.Context, tx transaction.Tx, now time.Time) ([]string, error) {
	sqlxTx, err := mustUnwrap(tx)
	if err != nil {
		return nil, err
	}
	query := `
		UPDATE bookings b
		SET status = 'completed', updated_at = $1
		FROM shows s
		WHERE s.id = b.show_id AND b.status = 'confirmed' AND s.starts_at <= $1
		RETURNING b.id
	`
	var ids []string
	if err := sqlxTx.SelectContext(ctx, &ids, query, now); err != nil {
		return nil, wrapErr("予約の完了処理に失敗しました", err)
	}
	return ids, nil
}

func (r *BookingRepository) RecordHistory(ctx context.Context, tx transaction.Tx, action booking.Action, bookingIDs ...string) error {
	if len(bookingIDs) == 0 {
		return nil
	}
	sqlxTx, err := mustUnwrap(tx)
	if err != nil {
		return err
	}
	query := `INSERT INTO booking_history_log (booking_id, action) SELECT UNNEST($1::uuid[]), $2`
	if _, err := sqlxTx.ExecContext(ctx, query, pq.Array(bookingIDs), string(action)); err != nil {
		return wrapErr("予約履歴の記録に失敗しました", err)
	}
	return nil
}

// attachSeats は予約ごとの座席をまとめて読み込む
func (r *BookingRepository) attachSeats(ctx context.Context, q sqlx.QueryerContext, rows []bookingRow) ([]*booking.Booking, error) {
	if len(rows) == 0 {
		return []*booking.Booking{}, nil
	}
	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	query := `
		SELECT bs.booking_id, bs.seat_id, bs.price, s.row_label, s.seat_number, s.seat_type
		FROM booking_seats bs
		JOIN seats s ON s.id = bs.seat_id
		WHERE bs.booking_id = ANY($1)
		ORDER BY LENGTH(s.row_label), s.row_label, s.seat_number
	`
	var seatRows []bookingSeatRow
	if err := sqlx.SelectContext(ctx, q, &seatRows, query, pq.Array(ids)); err != nil {
		return nil, wrapErr("予約座席取得に失敗しました", err)
	}
	seatsByBooking := make(map[string][]booking.Seat, len(rows))
	for _, sr := range seatRows {
		seatsByBooking[sr.BookingID] = append(seatsByBooking[sr.BookingID], booking.Seat{
			SeatID: sr.SeatID, Price: sr.Price, RowLabel: sr.RowLabel, SeatNumber: sr.SeatNumber, SeatType: sr.SeatType,
		})
	}

	bookings := make([]*booking.Booking, len(rows))
	for i := range rows {
		bookings[i] = rows[i].toEntity(seatsByBooking[rows[i].ID])
	}
	return bookings, nil
}

var _ booking.Repository = (*BookingRepository)(nil)
