package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/event"
)

const eventColumns = `id, category_id, name, description, duration_minutes, language, release_date, poster_url, is_active, created_at, updated_at, version`

// eventRow はDBの行を表す構造体
type eventRow struct {
	ID              string     `db:"id"`
	CategoryID      *string    `db:"category_id"`
	Name            string     `db:"name"`
	Description     string     `db:"description"`
	DurationMinutes int        `db:"duration_minutes"`
	Language        string     `db:"language"`
	ReleaseDate     *time.Time `db:"release_date"`
	PosterURL       string     `db:"poster_url"`
	IsActive        bool       `db:"is_active"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	Version         int        `db:"version"`
}

// eventSummaryRow は event_summary ビューの行
type eventSummaryRow struct {
	eventRow
	CategoryName string  `db:"category_name"`
	Rating       float64 `db:"rating"`
	ReviewCount  int     `db:"review_count"`
}

// toEntity はeventRowをEventエンティティに変換する
func (r *eventRow) toEntity() *event.Event {
	var categoryID string
	if r.CategoryID != nil {
		categoryID = *r.CategoryID
	}
	return &event.Event{
		ID:              r.ID,
		CategoryID:      categoryID,
		Name:            r.Name,
		Description:     r.Description,
		DurationMinutes: r.DurationMinutes,
		Language:        r.Language,
		ReleaseDate:     r.ReleaseDate,
		PosterURL:       r.PosterURL,
		IsActive:        r.IsActive,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		Version:         r.Version,
	}
}

func (r *eventSummaryRow) toSummary() *event.Summary {
	return &event.Summary{
		Event:        *r.eventRow.toEntity(),
		CategoryName: r.CategoryName,
		Rating:       r.Rating,
		ReviewCount:  r.ReviewCount,
	}
}

// nullableID は空文字列を NULL として扱う
func nullableID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

// EventRepository はイベントリポジトリのPostgreSQL実装
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository はEventRepositoryを作成する
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create は新しいイベントを作成する
func (r *EventRepository) Create(ctx context.Context, e *event.Event) error {
	query := `
		INSERT INTO events (category_id, name, description, duration_minutes, language, release_date, poster_url, is_active, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		nullableID(e.CategoryID), e.Name, e.Description, e.DurationMinutes, e.Language, e.ReleaseDate,
		e.PosterURL, e.IsActive, e.CreatedAt, e.UpdatedAt, e.Version,
	).Scan(&e.ID)
	if err != nil {
		if isCode(err, codeForeignKeyViolation) || isCode(err, codeInvalidText) {
			return event.ErrCategoryNotFound
		}
		return fmt.Errorf("イベント作成に失敗しました: %w", err)
	}
	return nil
}

// GetByID はIDからイベントを取得する
func (r *EventRepository) GetByID(ctx context.Context, id string) (*event.Event, error) {
	var row eventRow
	err := r.db.GetContext(ctx, &row, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	if err != nil {
		if isNotFound(err) {
			return nil, event.ErrEventNotFound
		}
		return nil, fmt.Errorf("イベント取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// GetSummaryByID はカテゴリ名とレビュー集計付きでイベントを取得する
func (r *EventRepository) GetSummaryByID(ctx context.Context, id string) (*event.Summary, error) {
	var row eventSummaryRow
	query := `SELECT ` + eventColumns + `, category_name, rating, review_count FROM event_summary WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if isNotFound(err) {
			return nil, event.ErrEventNotFound
		}
		return nil, fmt.Errorf("イベント取得に失敗しました: %w", err)
	}
	return row.toSummary(), nil
}

// List は条件に一致するイベントを新しい順に取得する
func (r *EventRepository) List(ctx context.Context, filter event.Filter) ([]*event.Summary, error) {
	var (
		conds []string
		args  []any
	)
	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		conds = append(conds, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+escapeLike(s)+"%")
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		conds = append(conds, fmt.Sprintf("is_active = $%d", len(args)))
	}

	query := `SELECT ` + eventColumns + `, category_name, rating, review_count FROM event_summary`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	var rows []eventSummaryRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("イベント一覧取得に失敗しました: %w", err)
	}
	events := make([]*event.Summary, len(rows))
	for i := range rows {
		events[i] = rows[i].toSummary()
	}
	return events, nil
}

// Update はイベントを更新する（楽観的ロック）
func (r *EventRepository) Update(ctx context.Context, e *event.Event) error {
	query := `
		UPDATE events
		SET category_id = $1, name = $2, description = $3, duration_minutes = $4, language = $5,
		    release_date = $6, poster_url = $7, is_active = $8, updated_at = $9, version = version + 1
		WHERE id = $10 AND version = $11
	`
	now := time.Now()
	result, err := r.db.ExecContext(ctx, query,
		nullableID(e.CategoryID), e.Name, e.Description, e.DurationMinutes, e.Language,
		e.ReleaseDate, e.PosterURL, e.IsActive, now, e.ID, e.Version,
	)
	if err != nil {
		if isCode(err, codeForeignKeyViolation) || isCode(err, codeInvalidText) {
			return event.ErrCategoryNotFound
		}
		return fmt.Errorf("イベント更新に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		// 存在しないのかバージョン不一致なのかを区別する
		if _, err := r.GetByID(ctx, e.ID); err != nil {
			return err
		}
		return event.ErrOptimisticLockConflict
	}

	e.Version++
	e.UpdatedAt = now
	return nil
}

// ListCategories はカテゴリ一覧を名前順に取得する
func (r *EventRepository) ListCategories(ctx context.Context) ([]*event.Category, error) {
	var rows []struct {
		ID          string `db:"id"`
		Name        string `db:"name"`
		Description string `db:"description"`
	}
	if err := r.db.SelectContext(ctx, &rows, `SELECT id, name, description FROM event_categories ORDER BY name`); err != nil {
		return nil, fmt.Errorf("カテゴリ一覧取得に失敗しました: %w", err)
	}
	categories := make([]*event.Category, len(rows))
	for i, row := range rows {
		categories[i] = &event.Category{ID: row.ID, Name: row.Name, Description: row.Description}
	}
	return categories, nil
}

// CategoryExists はカテゴリが存在するかを返す
func (r *EventRepository) CategoryExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM event_categories WHERE id = $1)`, id); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("カテゴリ確認に失敗しました: %w", err)
	}
	return exists, nil
}

// escapeLike は LIKE パターンの特殊文字をエスケープする
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// インターフェースを満たしているか確認
var _ event.Repository = (*EventRepository)(nil)
