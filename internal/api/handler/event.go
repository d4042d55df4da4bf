package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-show-ticket-booking/internal/api"
	"github.com/sanosuguru/go-show-ticket-booking/internal/application"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/event"
)

type EventHandler struct {
	eventService  EventServiceInterface
	reviewService ReviewServiceInterface
}

func NewEventHandler(eventService EventServiceInterface, reviewService ReviewServiceInterface) *EventHandler {
	return &EventHandler{eventService: eventService, reviewService: reviewService}
}

type CreateEventRequest struct {
	CategoryID      string `json:"category_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name            string `json:"name" validate:"required,max=200" example:"劇場版 星の旅人"`
	Description     string `json:"description" example:"シリーズ最新作"`
	DurationMinutes int    `json:"duration_minutes" validate:"min=0" example:"120"`
	Language        string `json:"language" example:"日本語"`
	ReleaseDate     string `json:"release_date" example:"2025-12-20"`
	PosterURL       string `json:"poster_url" validate:"omitempty,url"`
}

type UpdateEventRequest struct {
	CreateEventRequest
	IsActive *bool `json:"is_active" validate:"required"`
	// Version を指定すると更新前のバージョンと一致しない場合に409を返す
	Version *int `json:"version"`
}

type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name" example:"映画"`
	Description string `json:"description"`
}

type EventResponse struct {
	ID              string    `json:"id"`
	CategoryID      string    `json:"category_id,omitempty"`
	CategoryName    string    `json:"category_name,omitempty"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	DurationMinutes int       `json:"duration_minutes"`
	Language        string    `json:"language"`
	ReleaseDate     string    `json:"release_date,omitempty" example:"2025-12-20"`
	PosterURL       string    `json:"poster_url,omitempty"`
	IsActive        bool      `json:"is_active"`
	Rating          float64   `json:"rating"`
	ReviewCount     int       `json:"review_count"`
	Version         int       `json:"version"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type EventDetailResponse struct {
	EventResponse
	Reviews []ReviewResponse `json:"reviews"`
}

func toEventResponse(e *event.Event) EventResponse {
	resp := EventResponse{
		ID:              e.ID,
		CategoryID:      e.CategoryID,
		Name:            e.Name,
		Description:     e.Description,
		DurationMinutes: e.DurationMinutes,
		Language:        e.Language,
		PosterURL:       e.PosterURL,
		IsActive:        e.IsActive,
		Version:         e.Version,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
	if e.ReleaseDate != nil {
		resp.ReleaseDate = e.ReleaseDate.Format(dateLayout)
	}
	return resp
}

func toEventSummaryResponse(s *event.Summary) EventResponse {
	resp := toEventResponse(&s.Event)
	resp.CategoryName = s.CategoryName
	resp.Rating = s.Rating
	resp.ReviewCount = s.ReviewCount
	return resp
}

func (r *CreateEventRequest) releaseDate() (*time.Time, error) {
	if r.ReleaseDate == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, r.ReleaseDate)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "公開日の形式が不正です（YYYY-MM-DD）")
	}
	return &d, nil
}

// ListCategories godoc
// @Summary カテゴリ一覧
// @Tags events
// @Produce json
// @Success 200 {array} CategoryResponse
// @Router /categories [get]
func (h *EventHandler) ListCategories(c echo.Context) error {
	categories, err := h.eventService.ListCategories(c.Request().Context())
	if err != nil {
		return api.ToHTTPError(err)
	}
	resp := make([]CategoryResponse, len(categories))
	for i, cat := range categories {
		resp[i] = CategoryResponse{ID: cat.ID, Name: cat.Name, Description: cat.Description}
	}
	return c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary イベントを作成
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateEventRequest true "イベント情報"
// @Success 201 {object} EventResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse "カテゴリが存在しない"
// @Router /events [post]
func (h *EventHandler) Create(c echo.Context) error {
	var req CreateEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	releaseDate, err := req.releaseDate()
	if err != nil {
		return err
	}

	e, err := h.eventService.CreateEvent(c.Request().Context(), application.CreateEventInput{
		CategoryID:      req.CategoryID,
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Language:        req.Language,
		ReleaseDate:     releaseDate,
		PosterURL:       req.PosterURL,
	})
	if err != nil {
		return api.ToHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toEventResponse(e))
}

// GetByID godoc
// @Summary イベントを取得
// @Description カテゴリ名・平均評価・レビューを含むイベントを取得します
// @Tags events
// @Produce json
// @Param id path string true "イベントID"
// @Success 200 {object} EventDetailResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /events/{id} [get]
func (h *EventHandler) GetByID(c echo.Context) error {
	d, err := h.eventService.GetEvent(c.Request().Context(), c.Param("id"))
	if err != nil {
		return api.ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, EventDetailResponse{
		EventResponse: toEventSummaryResponse(d.Summary),
		Reviews:       toReviewResponses(d.Reviews),
	})
}

// List godoc
// @Summary イベント一覧を取得
// @Tags events
// @Produce json
// @Param category_id query string false "カテゴリID"
// @Param search query string false "名前・説明文の部分一致"
// @Param is_active query bool false "公開中のみ"
// @Success 200 {array} EventResponse
// @Router /events [get]
func (h *EventHandler) List(c echo.Context) error {
	filter := event.Filter{
		CategoryID: c.QueryParam("category_id"),
		Search:     c.QueryParam("search"),
	}
	if raw := c.QueryParam("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "is_active は true か false で指定してください")
		}
		filter.IsActive = &active
	}

	events, err := h.eventService.ListEvents(c.Request().Context(), filter)
	if err != nil {
		return api.ToHTTPError(err)
	}
	resp := make([]EventResponse, len(events))
	for i, e := range events {
		resp[i] = toEventSummaryResponse(e)
	}
	return c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary イベントを更新
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "イベントID"
// @Param request body UpdateEventRequest true "イベント情報"
// @Success 200 {object} EventResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "バージョン不一致"
// @Router /events/{id} [put]
func (h *EventHandler) Update(c echo.Context) error {
	var req UpdateEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	releaseDate, err := req.releaseDate()
	if err != nil {
		return err
	}

	e, err := h.eventService.UpdateEvent(c.Request().Context(), application.UpdateEventInput{
		ID:              c.Param("id"),
		CategoryID:      req.CategoryID,
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Language:        req.Language,
		ReleaseDate:     releaseDate,
		PosterURL:       req.PosterURL,
		IsActive:        *req.IsActive,
		Version:         req.Version,
	})
	if err != nil {
		return api.ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// ListReviews godoc
// @Summary イベントのレビュー一覧
// @Tags reviews
// @Produce json
// @Param id path string true "イベントID"
// @Success 200 {array} ReviewResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /events/{id}/reviews [get]
func (h *EventHandler) ListReviews(c echo.Context) error {
	reviews, err := h.reviewService.ListEventReviews(c.Request().Context(), c.Param("id"))
	if err != nil {
		return api.ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, toReviewResponses(reviews))
}
