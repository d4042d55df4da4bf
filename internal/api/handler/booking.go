package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-show-ticket-booking/internal/api"
	"github.com/sanosuguru/go-show-ticket-booking/internal/application"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/booking"
)

// HeaderIdempotencyKey は予約作成の冪等性キーを指定するヘッダー
const HeaderIdempotencyKey = "Idempotency-Key"

const maxIdempotencyKeyLength = 255

type BookingHandler struct {
	service BookingServiceInterface
}

func NewBookingHandler(s BookingServiceInterface) *BookingHandler {
	return &BookingHandler{service: s}
}

type CreateBookingRequest struct {
	ShowID  string   `json:"show_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	SeatIDs []string `json:"seat_ids" validate:"required,min=1,dive,required" example:"seat-A1,seat-A2"`
}

type ConfirmBookingRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required" example:"card"`
	// 指定した場合は合計金額と一致しなければならない
	AmountPaid *int `json:"amount_paid" example:"3600"`
}

type BookingSeatResponse struct {
	SeatID   string `json:"seat_id"`
	Label    string `json:"label,omitempty" example:"A-1"`
	SeatType string `json:"seat_type,omitempty"`
	Price    int    `json:"price"`
}

type BookingResponse struct {
	ID             string                `json:"id"`
	UserID         string                `json:"user_id"`
	ShowID         string                `json:"show_id"`
	Seats          []BookingSeatResponse `json:"seats"`
	Status         string                `json:"status" example:"pending"`
	PaymentStatus  string                `json:"payment_status" example:"pending"`
	PaymentMethod  string                `json:"payment_method,omitempty"`
	TotalAmount    int                   `json:"total_amount" example:"3600"`
	IdempotencyKey string                `json:"idempotency_key"`
	ExpiresAt      time.Time             `json:"expires_at"`
	ConfirmedAt    *time.Time            `json:"confirmed_at,omitempty"`
	CancelledAt    *time.Time            `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}

func toBookingResponse(b *booking.Booking) BookingResponse {
	seats := make([]BookingSeatResponse, len(b.Seats))
	for i, s := range b.Seats {
		seats[i] = BookingSeatResponse{SeatID: s.SeatID, SeatType: s.SeatType, Price: s.Price}
		if s.RowLabel != "" {
			seats[i].Label = s.RowLabel + "-" + strconv.Itoa(s.SeatNumber)
		}
	}
	return BookingResponse{
		ID: b.ID, UserID: b.UserID, ShowID: b.ShowID, Seats: seats,
		Status: string(b.Status), PaymentStatus: string(b.PaymentStatus),
		PaymentMethod: b.PaymentMethod, TotalAmount: b.TotalAmount,
		IdempotencyKey: b.IdempotencyKey, ExpiresAt: b.ExpiresAt,
		ConfirmedAt: b.ConfirmedAt, CancelledAt: b.CancelledAt, CreatedAt: b.CreatedAt,
	}
}

func toBookingResponses(bookings []*booking.Booking) []BookingResponse {
	resp := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = toBookingResponse(b)
	}
	return resp
}

// Create godoc
// @Summary 予約を作成
// @Description 座席を仮押さえします（既定で5分間有効）。同じ Idempotency-Key の再送には最初の予約を返します
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "冪等性キー"
// @Param request body CreateBookingRequest true "予約情報"
// @Success 201 {object} BookingResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 401 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "座席が既に押さえられている、公演開始済み"
// @Failure 429 {object} api.ErrorResponse
// @Router /bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	key := c.Request().Header.Get(HeaderIdempotencyKey)
	if len(key) > maxIdempotencyKeyLength {
		return echo.NewHTTPError(http.StatusBadRequest, "Idempotency-Key が長すぎます")
	}
	var req CreateBookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	b, err := h.service.CreateBooking(c.Request().Context(), application.CreateBookingInput{
		UserID: actor.UserID, ShowID: req.ShowID, SeatIDs: req.SeatIDs, IdempotencyKey: key,
	})
	if err != nil {
		return api.ToHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toBookingResponse(b))
}

// List godoc
// @Summary 自分の予約一覧
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} BookingResponse
// @Failure 401 {object} api.ErrorResponse
// @Router /bookings [get]
func (h *BookingHandler) List(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}
	bookings, err := h.service.ListUserBookings(c.Request().Context(), actor.UserID, limit, offset)
	if err != nil {
		return api.ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, toBookingResponses(bookings))
}

// GetByID godoc
// @Summary 予約を取得
// @Description 他人の予約は管理者以外には404を返します
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "予約ID"
// @Success 200 {object} BookingResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetByID(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	b, err := h.service.GetBooking(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return api.ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

// Confirm godoc
// @Summary 予約を確定
// @Description 仮押さえ中の予約の支払いを記録し確定します
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "予約ID"
// @Param request body ConfirmBookingRequest true "支払い情報"
// @Success 200 {object} BookingResponse
// @Failure 400 {object} api.ErrorResponse "支払い方法や金額が不正"
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "期限切れ、キャンセル済みなど"
// @Router /bookings/{id}/confirm [post]
func (h *BookingHandler) Confirm(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req ConfirmBookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	b, err := h.service.ConfirmBooking(c.Request().Context(), application.ConfirmBookingInput{
		BookingID:     c.Param("id"),
		Actor:         actor,
		PaymentMethod: booking.PaymentMethod(req.PaymentMethod),
		AmountPaid:    req.AmountPaid,
	})
	if err != nil {
		return api.ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

// Cancel godoc
// @Summary 予約をキャンセル
// @Description 予約をキャンセルし、座席を解放します
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "予約ID"
// @Success 200 {object} BookingResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	b, err := h.service.CancelBooking(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return api.ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}
