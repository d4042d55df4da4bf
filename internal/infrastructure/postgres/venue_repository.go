package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/transaction"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/venue"
)

const venueColumns = `id, name, address, city, state, pincode, capacity, contact_phone, created_at, updated_at`

type venueRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Address      string    `db:"address"`
	City         string    `db:"city"`
	State        string    `db:"state"`
	Pincode      string    `db:"pincode"`
	Capacity     int       `db:"capacity"`
	ContactPhone string    `db:"contact_phone"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r *venueRow) toEntity() *venue.Venue {
	return &venue.Venue{
		ID: r.ID, Name: r.Name, Address: r.Address, City: r.City, State: r.State,
		Pincode: r.Pincode, Capacity: r.Capacity, ContactPhone: r.ContactPhone,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

// VenueRepository は会場リポジトリのPostgreSQL実装
type VenueRepository struct{ db *sqlx.DB }

// NewVenueRepository はVenueRepositoryを作成する
func NewVenueRepository(db *sqlx.DB) *VenueRepository { return &VenueRepository{db: db} }

func (r *VenueRepository) Create(ctx context.Context, v *venue.Venue) error {
	query := `
		INSERT INTO venues (name, address, city, state, pincode, capacity, contact_phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		v.Name, v.Address, v.City, v.State, v.Pincode, v.Capacity, v.ContactPhone, v.CreatedAt, v.UpdatedAt,
	).Scan(&v.ID)
	if err != nil {
		return fmt.Errorf("会場作成に失敗しました: %w", err)
	}
	return nil
}

func (r *VenueRepository) GetByID(ctx context.Context, id string) (*venue.Venue, error) {
	var row venueRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+venueColumns+` FROM venues WHERE id = $1`, id); err != nil {
		if isNotFound(err) {
			return nil, venue.ErrVenueNotFound
		}
		return nil, fmt.Errorf("会場取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// GetForUpdate は会場行を排他ロックして取得する
func (r *VenueRepository) GetForUpdate(ctx context.Context, tx transaction.Tx, id string) (*venue.Venue, error) {
	sqlxTx, err := mustUnwrap(tx)
	if err != nil {
		return nil, err
	}
	var row venueRow
	if err := sqlxTx.GetContext(ctx, &row, `SELECT `+venueColumns+` FROM venues WHERE id = $1 FOR UPDATE`, id); err != nil {
		if isNotFound(err) {
			return nil, venue.ErrVenueNotFound
		}
		return nil, wrapErr("会場のロック取得に失敗しました", err)
	}
	return row.toEntity(), nil
}

func (r *VenueRepository) List(ctx context.Context, city string) ([]*venue.Venue, error) {
	var rows []venueRow
	query := `SELECT ` + venueColumns + ` FROM venues WHERE ($1::text = '' OR LOWER(city) = LOWER($1::text)) ORDER BY name`
	if err := r.db.SelectContext(ctx, &rows, query, city); err != nil {
		return nil, fmt.Errorf("会場一覧取得に失敗しました: %w", err)
	}
	venues := make([]*venue.Venue, len(rows))
	for i := range rows {
		venues[i] = rows[i].toEntity()
	}
	return venues, nil
}

var _ venue.Repository = (*VenueRepository)(nil)
