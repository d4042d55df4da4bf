package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-show-ticket-booking/internal/api"
	"github.com/sanosuguru/go-show-ticket-booking/internal/application"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/venue"
)

type VenueHandler struct {
	service VenueServiceInterface
}

func NewVenueHandler(s VenueServiceInterface) *VenueHandler {
	return &VenueHandler{service: s}
}

type CreateVenueRequest struct {
	Name         string `json:"name" validate:"required,max=200" example:"シネマホール新宿"`
	Address      string `json:"address" validate:"required" example:"新宿区新宿3-1-1"`
	City         string `json:"city" validate:"required" example:"東京"`
	State        string `json:"state" example:"東京都"`
	Pincode      string `json:"pincode" example:"160-0022"`
	Capacity     int    `json:"capacity" validate:"required,gt=0" example:"300"`
	ContactPhone string `json:"contact_phone" example:"03-0000-0000"`
}

type VenueResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	State        string    `json:"state,omitempty"`
	Pincode      string    `json:"pincode,omitempty"`
	Capacity     int       `json:"capacity"`
	ContactPhone string    `json:"contact_phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func toVenueResponse(v *venue.Venue) VenueResponse {
	return VenueResponse{
		ID: v.ID, Name: v.Name, Address: v.Address, City: v.City,
		State: v.State, Pincode: v.Pincode, Capacity: v.Capacity,
		ContactPhone: v.ContactPhone, CreatedAt: v.CreatedAt,
	}
}

// Create godoc
// @Summary 会場を登録
// @Tags venues
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateVenueRequest true "会場情報"
// @Success 201 {object} VenueResponse
// @Failure 400 {object} api.ErrorResponse
// @Router /venues [post]
func (h *VenueHandler) Create(c echo.Context) error {
	var req CreateVenueRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	v, err := h.service.CreateVenue(c.Request().Context(), application.CreateVenueInput{
		Name: req.Name, Address: req.Address, City: req.City, State: req.State,
		Pincode: req.Pincode, Capacity: req.Capacity, ContactPhone: req.ContactPhone,
	})
	if err != nil {
		return api.ToHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toVenueResponse(v))
}

// GetByID godoc
// @Summary 会場を取得
// @Tags venues
// @Produce json
// @Param id path string true "会場ID"
// @Success 200 {object} VenueResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /venues/{id} [get]
func (h *VenueHandler) GetByID(c echo.Context) error {
	v, err := h.service.GetVenue(c.Request().Context(), c.Param("id"))
	if err != nil {
		return api.ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, toVenueResponse(v))
}

// List godoc
// @Summary 会場一覧
// @Tags venues
// @Produce json
// @Param city query string false "都市"
// @Success 200 {array} VenueResponse
// @Router /venues [get]
func (h *VenueHandler) List(c echo.Context) error {
	venues, err := h.service.ListVenues(c.Request().Context(), c.QueryParam("city"))
	if err != nil {
		return api.ToHTTPError(err)
	}
	resp := make([]VenueResponse, len(venues))
	for i, v := range venues {
		resp[i] = toVenueResponse(v)
	}
	return c.JSON(http.StatusOK, resp)
}
