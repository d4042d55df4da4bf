package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/review"
)

type reviewRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	EventID   string    `db:"event_id"`
	Username  string    `db:"username"`
	Rating    int       `db:"rating"`
	Comment   string    `db:"comment"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r *reviewRow) toEntity() *review.Review {
	return &review.Review{
		ID: r.ID, UserID: r.UserID, EventID: r.EventID, Username: r.Username,
		Rating: r.Rating, Comment: r.Comment, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

const reviewSelect = `
	SELECT r.id, r.user_id, r.event_id, u.username, r.rating, r.comment, r.created_at, r.updated_at
	FROM reviews r
	JOIN users u ON u.id = r.user_id
`

// ReviewRepository はレビューリポジトリのPostgreSQL実装
type ReviewRepository struct{ db *sqlx.DB }

// NewReviewRepository はReviewRepositoryを作成する
func NewReviewRepository(db *sqlx.DB) *ReviewRepository { return &ReviewRepository{db: db} }

// Upsert は (user_id, event_id) の一意制約を使ってレビューを作成または更新する
func (r *ReviewRepository) Upsert(ctx context.Context, rv *review.Review) error {
	query := `
		INSERT INTO reviews (user_id, event_id, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT ON CONSTRAINT reviews_user_event_key
		DO UPDATE SET rating = EXCLUDED.rating, comment = EXCLUDED.comment, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		rv.UserID, rv.EventID, rv.Rating, rv.Comment, rv.CreatedAt, rv.UpdatedAt,
	).Scan(&rv.ID, &rv.CreatedAt)
	if err != nil {
		return fmt.Errorf("レビューの保存に失敗しました: %w", err)
	}
	return nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*review.Review, error) {
	var row reviewRow
	if err := r.db.GetContext(ctx, &row, reviewSelect+` WHERE r.id = $1`, id); err != nil {
		if isNotFound(err) {
			return nil, review.ErrReviewNotFound
		}
		return nil, fmt.Errorf("レビュー取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

func (r *ReviewRepository) ListByEvent(ctx context.Context, eventID string) ([]*review.Review, error) {
	var rows []reviewRow
	if err := r.db.SelectContext(ctx, &rows, reviewSelect+` WHERE r.event_id = $1 ORDER BY r.updated_at DESC`, eventID); err != nil {
		if isNotFound(err) {
			return []*review.Review{}, nil
		}
		return nil, fmt.Errorf("レビュー一覧取得に失敗しました: %w", err)
	}
	reviews := make([]*review.Review, len(rows))
	for i := range rows {
		reviews[i] = rows[i].toEntity()
	}
	return reviews, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		if isNotFound(err) {
			return review.ErrReviewNotFound
		}
		return fmt.Errorf("レビュー削除に失敗しました: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除結果の確認に失敗しました: %w", err)
	}
	if rows == 0 {
		return review.ErrReviewNotFound
	}
	return nil
}

var _ review.Repository = (*ReviewRepository)(nil)
