package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-show-ticket-booking/internal/api"
	"github.com/sanosuguru/go-show-ticket-booking/internal/application"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/seat"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/show"
)

type ShowHandler struct {
	service ShowServiceInterface
}

func NewShowHandler(s ShowServiceInterface) *ShowHandler {
	return &ShowHandler{service: s}
}

type CreateShowRequest struct {
	EventID   string `json:"event_id" validate:"required"`
	VenueID   string `json:"venue_id" validate:"required"`
	StartsAt  string `json:"starts_at" validate:"required" example:"2025-12-31T18:00:00+09:00"`
	BasePrice int    `json:"base_price" validate:"min=0" example:"1800"`
}

type ShowResponse struct {
	ID                   string    `json:"id"`
	EventID              string    `json:"event_id"`
	VenueID              string    `json:"venue_id"`
	StartsAt             time.Time `json:"starts_at"`
	BasePrice            int       `json:"base_price"`
	TotalSeats           int       `json:"total_seats"`
	AvailableSeats       int       `json:"available_seats"`
	EventName            string    `json:"event_name,omitempty"`
	EventLanguage        string    `json:"event_language,omitempty"`
	EventDurationMinutes int       `json:"event_duration_minutes,omitempty"`
	EventPosterURL       string    `json:"event_poster_url,omitempty"`
	CategoryName         string    `json:"category_name,omitempty"`
	VenueName            string    `json:"venue_name,omitempty"`
	VenueCity            string    `json:"venue_city,omitempty"`
	VenueAddress         string    `json:"venue_address,omitempty"`
}

type ShowSeatResponse struct {
	SeatResponse
	Price        int    `json:"price"`
	Availability string `json:"availability" example:"available"`
}

type AvailableCountResponse struct {
	ShowID         string `json:"show_id"`
	AvailableSeats int    `json:"available_seats"`
}

func toShowResponse(s *show.Show) ShowResponse {
	return ShowResponse{
		ID: s.ID, EventID: s.EventID, VenueID: s.VenueID, StartsAt: s.StartsAt,
		BasePrice: s.BasePrice, TotalSeats: s.TotalSeats, AvailableSeats: s.AvailableSeats,
	}
}

func toShowDetailResponse(d *show.Detail) ShowResponse {
	resp := toShowResponse(&d.Show)
	resp.EventName = d.EventName
	resp.EventLanguage = d.EventLanguage
	resp.EventDurationMinutes = d.EventDurationMinutes
	resp.EventPosterURL = d.EventPosterURL
	resp.CategoryName = d.CategoryName
	resp.VenueName = d.VenueName
	resp.VenueCity = d.VenueCity
	resp.VenueAddress = d.VenueAddress
	return resp
}

func toShowSeatResponse(s *seat.ShowSeat) ShowSeatResponse {
	return ShowSeatResponse{
		SeatResponse: toSeatResponse(&s.Seat),
		Price:        s.Price,
		Availability: string(s.Availability),
	}
}

// Create godoc
// @Summary 公演を登録
// @Description 総座席数は会場の有効な座席数になります
// @Tags shows
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateShowRequest true "公演情報"
// @Success 201 {object} ShowResponse
// @Failure 400 {object} api.ErrorResponse "座席のない会場など"
// @Failure 404 {object} api.ErrorResponse
// @Router /shows [post]
func (h *ShowHandler) Create(c echo.Context) error {
	var req CreateShowRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "開始時刻の形式が不正です")
	}
	s, err := h.service.CreateShow(c.Request().Context(), application.CreateShowInput{
		EventID: req.EventID, VenueID: req.VenueID, StartsAt: startsAt, BasePrice: req.BasePrice,
	})
	if err != nil {
		return api.ToHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toShowResponse(s))
}

// GetByID godoc
// @Summary 公演を取得
// @Tags shows
// @Produce json
// @Param id path string true "公演ID"
// @Success 200 {object} ShowResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /shows/{id} [get]
func (h *ShowHandler) GetByID(c echo.Context) error {
	d, err := h.service.GetShow(c.Request().Context(), c.Param("id"))
	if err != nil {
		return api.ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, toShowDetailResponse(d))
}

// List godoc
// @Summary 公演一覧
// @Description 開始時刻順に返します
// @Tags shows
// @Produce json
// @Param event_id query string false "イベントID"
// @Param venue_id query string false "会場ID"
// @Param date query string false "開催日（YYYY-MM-DD）"
// @Param city query string false "都市"
// @Success 200 {array} ShowResponse
// @Failure 400 {object} api.ErrorResponse
// @Router /shows [get]
func (h *ShowHandler) List(c echo.Context) error {
	filter := show.Filter{
		EventID: c.QueryParam("event_id"),
		VenueID: c.QueryParam("venue_id"),
		Date:    c.QueryParam("date"),
		City:    c.QueryParam("city"),
	}
	if filter.Date != "" {
		if _, err := time.Parse(dateLayout, filter.Date); err != nil {
			return api.ToHTTPError(show.ErrInvalidDateFilter)
		}
	}
	shows, err := h.service.ListShows(c.Request().Context(), filter)
	if err != nil {
		return api.ToHTTPError(err)
	}
	resp := make([]ShowResponse, len(shows))
	for i, d := range shows {
		resp[i] = toShowDetailResponse(d)
	}
	return c.JSON(http.StatusOK, resp)
}

// ListSeats godoc
// @Summary 公演の座席と空き状況
// @Tags shows
// @Produce json
// @Param id path string true "公演ID"
// @Success 200 {array} ShowSeatResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /shows/{id}/seats [get]
func (h *ShowHandler) ListSeats(c echo.Context) error {
	seats, err := h.service.GetShowSeats(c.Request().Context(), c.Param("id"))
	if err != nil {
		return api.ToHTTPError(err)
	}
	resp := make([]ShowSeatResponse, len(seats))
	for i, s := range seats {
		resp[i] = toShowSeatResponse(s)
	}
	return c.JSON(http.StatusOK, resp)
}

// CountAvailable godoc
// @Summary 空席数を取得
// @Tags shows
// @Produce json
// @Param id path string true "公演ID"
// @Success 200 {object} AvailableCountResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /shows/{id}/seats/available/count [get]
func (h *ShowHandler) CountAvailable(c echo.Context) error {
	id := c.Param("id")
	count, err := h.service.CountAvailableSeats(c.Request().Context(), id)
	if err != nil {
		return api.ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, AvailableCountResponse{ShowID: id, AvailableSeats: count})
}
