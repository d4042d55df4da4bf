package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-show-ticket-booking/internal/api"
	"github.com/sanosuguru/go-show-ticket-booking/internal/application"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/seat"
)

type SeatHandler struct {
	service SeatServiceInterface
}

func NewSeatHandler(s SeatServiceInterface) *SeatHandler {
	return &SeatHandler{service: s}
}

type AddSeatRequest struct {
	RowLabel        string  `json:"row_label" validate:"required,max=5" example:"A"`
	Number          int     `json:"number" validate:"required,gt=0" example:"1"`
	Type            string  `json:"type" validate:"required,oneof=regular premium vip" example:"regular"`
	PriceMultiplier float64 `json:"price_multiplier" validate:"omitempty,gt=0" example:"1.0"`
}

type GenerateLayoutRequest struct {
	// 0 の場合は1列20席
	SeatsPerRow int `json:"seats_per_row" validate:"min=0,max=100" example:"20"`
}

type SeatResponse struct {
	ID              string  `json:"id"`
	VenueID         string  `json:"venue_id"`
	Label           string  `json:"label" example:"A-1"`
	RowLabel        string  `json:"row_label"`
	Number          int     `json:"number"`
	Type            string  `json:"type"`
	PriceMultiplier float64 `json:"price_multiplier"`
	IsActive        bool    `json:"is_active"`
}

type GenerateLayoutResponse struct {
	Created int            `json:"created"`
	Seats   []SeatResponse `json:"seats"`
}

func toSeatResponse(s *seat.Seat) SeatResponse {
	return SeatResponse{
		ID: s.ID, VenueID: s.VenueID, Label: s.Label(),
		RowLabel: s.RowLabel, Number: s.Number, Type: string(s.Type),
		PriceMultiplier: s.PriceMultiplier, IsActive: s.IsActive,
	}
}

func toSeatResponses(seats []*seat.Seat) []SeatResponse {
	resp := make([]SeatResponse, len(seats))
	for i, s := range seats {
		resp[i] = toSeatResponse(s)
	}
	return resp
}

// ListByVenue godoc
// @Summary 会場の座席一覧
// @Tags seats
// @Produce json
// @Param id path string true "会場ID"
// @Success 200 {array} SeatResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /venues/{id}/seats [get]
func (h *SeatHandler) ListByVenue(c echo.Context) error {
	seats, err := h.service.ListVenueSeats(c.Request().Context(), c.Param("id"))
	if err != nil {
		return api.ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, toSeatResponses(seats))
}

// Add godoc
// @Summary 座席を1席追加
// @Description 公演が登録済みの会場には追加できません
// @Tags seats
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "会場ID"
// @Param request body AddSeatRequest true "座席情報"
// @Success 201 {object} SeatResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "登録済みの座席、公演登録済み、収容人数超過"
// @Router /venues/{id}/seats [post]
func (h *SeatHandler) Add(c echo.Context) error {
	var req AddSeatRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.PriceMultiplier == 0 {
		req.PriceMultiplier = 1.0
	}
	s, err := h.service.AddSeat(c.Request().Context(), application.AddSeatInput{
		VenueID:         c.Param("id"),
		RowLabel:        req.RowLabel,
		Number:          req.Number,
		Type:            seat.Type(req.Type),
		PriceMultiplier: req.PriceMultiplier,
	})
	if err != nil {
		return api.ToHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toSeatResponse(s))
}

// GenerateLayout godoc
// @Summary 座席配置を生成
// @Description 会場の収容人数まで座席を生成します（A〜E列 regular、F〜J列 premium、K列以降 vip）
// @Tags seats
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "会場ID"
// @Param request body GenerateLayoutRequest false "1列の席数"
// @Success 201 {object} GenerateLayoutResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "公演登録済みの会場"
// @Router /venues/{id}/seats/layout [post]
func (h *SeatHandler) GenerateLayout(c echo.Context) error {
	var req GenerateLayoutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	seats, err := h.service.GenerateSeatLayout(c.Request().Context(), c.Param("id"), req.SeatsPerRow)
	if err != nil {
		return api.ToHTTPError(err)
	}
	return c.JSON(http.StatusCreated, GenerateLayoutResponse{Created: len(seats), Seats: toSeatResponses(seats)})
}
