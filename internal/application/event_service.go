package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/event"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/review"
)

type EventService struct {
	eventRepo  event.Repository
	reviewRepo review.Repository
}

func NewEventService(eventRepo event.Repository, reviewRepo review.Repository) *EventService {
	return &EventService{eventRepo: eventRepo, reviewRepo: reviewRepo}
}

// EventDetail はイベントの詳細とレビュー一覧
type EventDetail struct {
	*event.Summary
	Reviews []*review.Review
}

type CreateEventInput struct {
	CategoryID      string
	Name            string
	Description     string
	DurationMinutes int
	Language        string
	ReleaseDate     *time.Time
	PosterURL       string
}

func (s *EventService) CreateEvent(ctx context.Context, input CreateEventInput) (*event.Event, error) {
	e := event.NewEvent(input.CategoryID, input.Name, input.Description, input.Language, input.PosterURL, input.DurationMinutes, input.ReleaseDate)
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.ensureCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("イベント作成に失敗しました: %w", err)
	}
	return e, nil
}

// GetEvent はカテゴリ名・評価・レビュー付きでイベントを取得する
func (s *EventService) GetEvent(ctx context.Context, id string) (*EventDetail, error) {
	summary, err := s.eventRepo.GetSummaryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviewRepo.ListByEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	return &EventDetail{Summary: summary, Reviews: reviews}, nil
}

func (s *EventService) ListEvents(ctx context.Context, filter event.Filter) ([]*event.Summary, error) {
	return s.eventRepo.List(ctx, filter)
}

func (s *EventService) ListCategories(ctx context.Context) ([]*event.Category, error) {
	return s.eventRepo.ListCategories(ctx)
}

// UpdateEventInput はイベント更新の入力
// Version を指定した場合、取得時点と異なれば更新しない
type UpdateEventInput struct {
	ID              string
	CategoryID      string
	Name            string
	Description     string
	DurationMinutes int
	Language        string
	ReleaseDate     *time.Time
	PosterURL       string
	IsActive        bool
	Version         *int
}

func (s *EventService) UpdateEvent(ctx context.Context, input UpdateEventInput) (*event.Event, error) {
	e, err := s.eventRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if input.Version != nil && *input.Version != e.Version {
		return nil, event.ErrOptimisticLockConflict
	}
	if input.CategoryID != e.CategoryID {
		if err := s.ensureCategory(ctx, input.CategoryID); err != nil {
			return nil, err
		}
	}
	e.CategoryID = input.CategoryID
	e.Name = input.Name
	e.Description = input.Description
	e.DurationMinutes = input.DurationMinutes
	e.Language = input.Language
	e.ReleaseDate = input.ReleaseDate
	e.PosterURL = input.PosterURL
	e.IsActive = input.IsActive
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.eventRepo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *EventService) ensureCategory(ctx context.Context, categoryID string) error {
	if categoryID == "" {
		return nil
	}
	ok, err := s.eventRepo.CategoryExists(ctx, categoryID)
	if err != nil {
		return err
	}
	if !ok {
		return event.ErrCategoryNotFound
	}
	return nil
}
