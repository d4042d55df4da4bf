package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-show-ticket-booking/internal/api"
	"github.com/sanosuguru/go-show-ticket-booking/internal/application"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/review"
)

type ReviewHandler struct {
	service ReviewServiceInterface
}

func NewReviewHandler(s ReviewServiceInterface) *ReviewHandler {
	return &ReviewHandler{service: s}
}

type UpsertReviewRequest struct {
	EventID string `json:"event_id" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5" example:"4"`
	Comment string `json:"comment" validate:"max=2000"`
}

type ReviewResponse struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toReviewResponse(r *review.Review) ReviewResponse {
	return ReviewResponse{
		ID: r.ID, EventID: r.EventID, UserID: r.UserID, Username: r.Username,
		Rating: r.Rating, Comment: r.Comment,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

func toReviewResponses(reviews []*review.Review) []ReviewResponse {
	resp := make([]ReviewResponse, len(reviews))
	for i, r := range reviews {
		resp[i] = toReviewResponse(r)
	}
	return resp
}

// Upsert godoc
// @Summary レビューを投稿
// @Description 同じイベントへの2回目以降の投稿は既存のレビューを更新します
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpsertReviewRequest true "レビュー"
// @Success 200 {object} ReviewResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /reviews [post]
func (h *ReviewHandler) Upsert(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req UpsertReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	r, err := h.service.UpsertReview(c.Request().Context(), application.UpsertReviewInput{
		UserID: actor.UserID, EventID: req.EventID, Rating: req.Rating, Comment: req.Comment,
	})
	if err != nil {
		return api.ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, toReviewResponse(r))
}

// Delete godoc
// @Summary レビューを削除
// @Description 投稿者本人または管理者のみ削除できます
// @Tags reviews
// @Security BearerAuth
// @Param id path string true "レビューID"
// @Success 204
// @Failure 403 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /reviews/{id} [delete]
func (h *ReviewHandler) Delete(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteReview(c.Request().Context(), actor, c.Param("id")); err != nil {
		return api.ToHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
