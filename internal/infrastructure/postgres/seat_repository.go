package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/seat"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/transaction"
)

const seatColumns = `s.id, s.venue_id, s.row_label, s.seat_number, s.seat_type, s.price_multiplier, s.is_active, s.created_at`

// 列ラベルは A..Z, AA.. の順に並べる
const seatOrder = `LENGTH(s.row_label), s.row_label, s.seat_number`

type seatRow struct {
	ID              string    `db:"id"`
	VenueID         string    `db:"venue_id"`
	RowLabel        string    `db:"row_label"`
	SeatNumber      int       `db:"seat_number"`
	SeatType        string    `db:"seat_type"`
	PriceMultiplier float64   `db:"price_multiplier"`
	IsActive        bool      `db:"is_active"`
	CreatedAt       time.Time `db:"created_at"`
}

func (r *seatRow) toEntity() *seat.Seat {
	return &seat.Seat{
		ID: r.ID, VenueID: r.VenueID, RowLabel: r.RowLabel, Number: r.SeatNumber,
		Type: seat.Type(r.SeatType), PriceMultiplier: r.PriceMultiplier,
		IsActive: r.IsActive, CreatedAt: r.CreatedAt,
	}
}

type showSeatRow struct {
	seatRow
	BasePrice    int    `db:"base_price"`
	Availability string `db:"availability"`
}

// SeatRepository は座席リポジトリのPostgreSQL実装
type SeatRepository struct{ db *sqlx.DB }

// NewSeatRepository はSeatRepositoryを作成する
func NewSeatRepository(db *sqlx.DB) *SeatRepository { return &SeatRepository{db: db} }

func (r *SeatRepository) CreateBulk(ctx context.Context, tx transaction.Tx, seats []*seat.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	sqlxTx, err := mustUnwrap(tx)
	if err != nil {
		return err
	}

	// バッチサイズごとに分割してマルチバリューINSERTを実行
	const batchSize = 1000
	for i := 0; i < len(seats); i += batchSize {
		end := min(i+batchSize, len(seats))
		if err := r.createBulkBatch(ctx, sqlxTx, seats[i:end]); err != nil {
			return err
		}
	}
	return nil
}

// createBulkBatch はバッチ単位でマルチバリューINSERTを実行し、採番されたIDを設定する
func (r *SeatRepository) createBulkBatch(ctx context.Context, tx *sqlx.Tx, seats []*seat.Seat) error {
	const cols = 7
	query := `INSERT INTO seats (venue_id, row_label, seat_number, seat_type, price_multiplier, is_active, created_at) VALUES `
	args := make([]any, 0, len(seats)*cols)
	placeholders := make([]string, 0, len(seats))

	for i, s := range seats {
		base := i * cols
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7))
		args = append(args, s.VenueID, s.RowLabel, s.Number, string(s.Type), s.PriceMultiplier, s.IsActive, s.CreatedAt)
	}
	query += strings.Join(placeholders, ", ") + " RETURNING id"

	var ids []string
	if err := tx.SelectContext(ctx, &ids, query, args...); err != nil {
		if isUniqueViolation(err, "seats_venue_position_key") {
			return seat.ErrSeatAlreadyExists
		}
		return wrapErr("座席一括作成に失敗", err)
	}
	for i := range ids {
		seats[i].ID = ids[i]
	}
	return nil
}

func (r *SeatRepository) GetByVenueID(ctx context.Context, venueID string) ([]*seat.Seat, error) {
	query := `SELECT ` + seatColumns + ` FROM seats s WHERE s.venue_id = $1 ORDER BY ` + seatOrder
	var rows []seatRow
	if err := r.db.SelectContext(ctx, &rows, query, venueID); err != nil {
		if isNotFound(err) {
			return []*seat.Seat{}, nil
		}
		return nil, fmt.Errorf("座席一覧取得に失敗: %w", err)
	}
	seats := make([]*seat.Seat, len(rows))
	for i := range rows {
		seats[i] = rows[i].toEntity()
	}
	return seats, nil
}

func (r *SeatRepository) CountByVenueID(ctx context.Context, tx transaction.Tx, venueID string) (int, error) {
	return r.count(ctx, tx, `SELECT COUNT(*) FROM seats WHERE venue_id = $1`, venueID)
}

func (r *SeatRepository) CountActiveByVenueID(ctx context.Context, tx transaction.Tx, venueID string) (int, error) {
	return r.count(ctx, tx, `SELECT COUNT(*) FROM seats WHERE venue_id = $1 AND is_active`, venueID)
}

func (r *SeatRepository) count(ctx context.Context, tx transaction.Tx, query, venueID string) (int, error) {
	sqlxTx, err := mustUnwrap(tx)
	if err != nil {
		return 0, err
	}
	var count int
	if err := sqlxTx.GetContext(ctx, &count, query, venueID); err != nil {
		return 0, wrapErr("座席数取得に失敗", err)
	}
	return count, nil
}

// GetByIDs は座席を共有ロック付きで取得する
// 予約処理中に座席が無効化・削除されないようにする
func (r *SeatRepository) GetByIDs(ctx context.Context, tx transaction.Tx, ids []string) ([]*seat.Seat, error) {
	if len(ids) == 0 {
		return []*seat.Seat{}, nil
	}
	sqlxTx, err := mustUnwrap(tx)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + seatColumns + ` FROM seats s WHERE s.id = ANY($1) ORDER BY s.id FOR SHARE`
	var rows []seatRow
	if err := sqlxTx.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		if isCode(err, codeInvalidText) {
			return nil, seat.ErrInvalidSeat
		}
		return nil, wrapErr("座席取得に失敗", err)
	}
	seats := make([]*seat.Seat, len(rows))
	for i := range rows {
		seats[i] = rows[i].toEntity()
	}
	return seats, nil
}

// ListForShow は公演会場の有効な座席を価格と空き状況付きで取得する
// 期限切れの仮押さえは空席として扱う
func (r *SeatRepository) ListForShow(ctx context.Context, showID string, now time.Time) ([]*seat.ShowSeat, error) {
	query := `
		SELECT ` + seatColumns + `, sh.base_price,
		       CASE
		           WHEN b.id IS NULL THEN 'available'
		           WHEN b.status = 'pending' AND b.expires_at <= $2 THEN 'available'
		           WHEN b.status = 'pending' THEN 'held'
		           ELSE 'booked'
		       END AS availability
		FROM shows sh
		JOIN seats s ON s.venue_id = sh.venue_id AND s.is_active
		LEFT JOIN booking_seats bs ON bs.show_id = sh.id AND bs.seat_id = s.id AND bs.active
		LEFT JOIN bookings b ON b.id = bs.booking_id
		WHERE sh.id = $1
		ORDER BY ` + seatOrder
	var rows []showSeatRow
	if err := r.db.SelectContext(ctx, &rows, query, showID, now); err != nil {
		if isNotFound(err) {
			return []*seat.ShowSeat{}, nil
		}
		return nil, fmt.Errorf("公演座席取得に失敗: %w", err)
	}
	seats := make([]*seat.ShowSeat, len(rows))
	for i := range rows {
		s := rows[i].toEntity()
		seats[i] = &seat.ShowSeat{
			Seat:         *s,
			Price:        s.PriceFor(rows[i].BasePrice),
			Availability: seat.Availability(rows[i].Availability),
		}
	}
	return seats, nil
}

var _ seat.Repository = (*SeatRepository)(nil)
