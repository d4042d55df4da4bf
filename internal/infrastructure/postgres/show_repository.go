package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/show"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/transaction"
)

const showColumns = `id, event_id, venue_id, starts_at, base_price, total_seats, available_seats, created_at, updated_at`

const showDetailColumns = showColumns + `, event_name, event_language, event_duration_minutes, event_poster_url,
	category_name, venue_name, venue_city, venue_address`

type showRow struct {
	ID             string    `db:"id"`
	EventID        string    `db:"event_id"`
	VenueID        string    `db:"venue_id"`
	StartsAt       time.Time `db:"starts_at"`
	BasePrice      int       `db:"base_price"`
	TotalSeats     int       `db:"total_seats"`
	AvailableSeats int       `db:"available_seats"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type showDetailRow struct {
	showRow
	EventName            string `db:"event_name"`
	EventLanguage        string `db:"event_language"`
	EventDurationMinutes int    `db:"event_duration_minutes"`
	EventPosterURL       string `db:"event_poster_url"`
	CategoryName         string `db:"category_name"`
	VenueName            string `db:"venue_name"`
	VenueCity            string `db:"venue_city"`
	VenueAddress         string `db:"venue_address"`
}

func (r *showRow) toEntity() *show.Show {
	return &show.Show{
		ID: r.ID, EventID: r.EventID, VenueID: r.VenueID, StartsAt: r.StartsAt,
		BasePrice: r.BasePrice, TotalSeats: r.TotalSeats, AvailableSeats: r.AvailableSeats,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

func (r *showDetailRow) toDetail() *show.Detail {
	return &show.Detail{
		Show:                 *r.showRow.toEntity(),
		EventName:            r.EventName,
		EventLanguage:        r.EventLanguage,
		EventDurationMinutes: r.EventDurationMinutes,
		EventPosterURL:       r.EventPosterURL,
		CategoryName:         r.CategoryName,
		VenueName:            r.VenueName,
		VenueCity:            r.VenueCity,
		VenueAddress:         r.VenueAddress,
	}
}

// ShowRepository は公演リポジトリのPostgreSQL実装
type ShowRepository struct{ db *sqlx.DB }

// NewShowRepository はShowRepositoryを作成する
func NewShowRepository(db *sqlx.DB) *ShowRepository { return &ShowRepository{db: db} }

func (r *ShowRepository) Create(ctx context.Context, tx transaction.Tx, s *show.Show) error {
	sqlxTx, err := mustUnwrap(tx)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO shows (event_id, venue_id, starts_at, base_price, total_seats, available_seats, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err = sqlxTx.QueryRowContext(ctx, query,
		s.EventID, s.VenueID, s.StartsAt, s.BasePrice, s.TotalSeats, s.AvailableSeats, s.CreatedAt, s.UpdatedAt,
	).Scan(&s.ID)
	if err != nil {
		return wrapErr("公演作成に失敗しました", err)
	}
	return nil
}

func (r *ShowRepository) GetByID(ctx context.Context, id string) (*show.Show, error) {
	var row showRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+showColumns+` FROM shows WHERE id = $1`, id); err != nil {
		if isNotFound(err) {
			return nil, show.ErrShowNotFound
		}
		return nil, fmt.Errorf("公演取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

func (r *ShowRepository) GetDetailByID(ctx context.Context, id string) (*show.Detail, error) {
	var row showDetailRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+showDetailColumns+` FROM show_details WHERE id = $1`, id); err != nil {
		if isNotFound(err) {
			return nil, show.ErrShowNotFound
		}
		return nil, fmt.Errorf("公演取得に失敗しました: %w", err)
	}
	return row.toDetail(), nil
}

// List は条件に一致する公演を開始日時順に取得する
func (r *ShowRepository) List(ctx context.Context, filter show.Filter) ([]*show.Detail, error) {
	var (
		conds []string
		args  []any
	)
	if filter.EventID != "" {
		args = append(args, filter.EventID)
		conds = append(conds, fmt.Sprintf("event_id = $%d", len(args)))
	}
	if filter.VenueID != "" {
		args = append(args, filter.VenueID)
		conds = append(conds, fmt.Sprintf("venue_id = $%d", len(args)))
	}
	if filter.Date != "" {
		day, err := time.Parse(time.DateOnly, filter.Date)
		if err != nil {
			return nil, show.ErrInvalidDateFilter
		}
		args = append(args, day, day.AddDate(0, 0, 1))
		conds = append(conds, fmt.Sprintf("starts_at >= $%d AND starts_at < $%d", len(args)-1, len(args)))
	}
	if filter.City != "" {
		args = append(args, filter.City)
		conds = append(conds, fmt.Sprintf("LOWER(venue_city) = LOWER($%d)", len(args)))
	}

	query := `SELECT ` + showDetailColumns + ` FROM show_details`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY starts_at, id"

	var rows []showDetailRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		if isNotFound(err) {
			return []*show.Detail{}, nil
		}
		return nil, fmt.Errorf("公演一覧取得に失敗しました: %w", err)
	}
	shows := make([]*show.Detail, len(rows))
	for i := range rows {
		shows[i] = rows[i].toDetail()
	}
	return shows, nil
}

// GetForUpdate は公演行を排他ロックして取得する
// 同じ公演への予約処理はこのロックで直列化される
func (r *ShowRepository) GetForUpdate(ctx context.Context, tx transaction.Tx, id string) (*show.Show, error) {
	sqlxTx, err := mustUnwrap(tx)
	if err != nil {
		return nil, err
	}
	var row showRow
	if err := sqlxTx.GetContext(ctx, &row, `SELECT `+showColumns+` FROM shows WHERE id = $1 FOR UPDATE`, id); err != nil {
		if isNotFound(err) {
			return nil, show.ErrShowNotFound
		}
		return nil, wrapErr("公演のロック取得に失敗しました", err)
	}
	return row.toEntity(), nil
}

// AdjustAvailableSeats は空席数を delta だけ増減する
func (r *ShowRepository) AdjustAvailableSeats(ctx context.Context, tx transaction.Tx, id string, delta int) error {
	if delta == 0 {
		return nil
	}
	sqlxTx, err := mustUnwrap(tx)
	if err != nil {
		return err
	}
	query := `
		UPDATE shows
		SET available_seats = available_seats + $1, updated_at = NOW()
		WHERE id = $2 AND available_seats + $1 BETWEEN 0 AND total_seats
	`
	result, err := sqlxTx.ExecContext(ctx, query, delta, id)
	if err != nil {
		return wrapErr("空席数の更新に失敗しました", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if rows == 0 {
		return show.ErrSeatCounterOutOfRange
	}
	return nil
}

func (r *ShowRepository) ExistsForVenue(ctx context.Context, tx transaction.Tx, venueID string) (bool, error) {
	sqlxTx, err := mustUnwrap(tx)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := sqlxTx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM shows WHERE venue_id = $1)`, venueID); err != nil {
		return false, wrapErr("公演の存在確認に失敗しました", err)
	}
	return exists, nil
}

var _ show.Repository = (*ShowRepository)(nil)
