package application

import (
	"context"

	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/event"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/review"
)

type ReviewService struct {
	reviewRepo review.Repository
	eventRepo  event.Repository
}

func NewReviewService(rr review.Repository, er event.Repository) *ReviewService {
	return &ReviewService{reviewRepo: rr, eventRepo: er}
}

type UpsertReviewInput struct {
	UserID  string
	EventID string
	Rating  int
	Comment string
}

// UpsertReview はレビューを投稿する
// 同じイベントに既にレビューしていれば内容を更新する
func (s *ReviewService) UpsertReview(ctx context.Context, input UpsertReviewInput) (*review.Review, error) {
	r := review.NewReview(input.UserID, input.EventID, input.Rating, input.Comment)
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.eventRepo.GetByID(ctx, input.EventID); err != nil {
		return nil, err
	}
	if err := s.reviewRepo.Upsert(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *ReviewService) ListEventReviews(ctx context.Context, eventID string) ([]*review.Review, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.reviewRepo.ListByEvent(ctx, eventID)
}

// DeleteReview はレビューを削除する（投稿者本人または管理者のみ）
func (s *ReviewService) DeleteReview(ctx context.Context, actor Actor, id string) error {
	r, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !r.CanBeDeletedBy(actor.UserID, actor.IsAdmin()) {
		return review.ErrNotReviewOwner
	}
	return s.reviewRepo.Delete(ctx, id)
}
