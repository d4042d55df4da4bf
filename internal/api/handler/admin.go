package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-show-ticket-booking/internal/api"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/report"
)

type AdminHandler struct {
	service AdminServiceInterface
}

func NewAdminHandler(s AdminServiceInterface) *AdminHandler {
	return &AdminHandler{service: s}
}

type DailyRevenueResponse struct {
	Day      string `json:"day" example:"2025-12-01"`
	Bookings int64  `json:"bookings"`
	Revenue  int64  `json:"revenue"`
}

type CategoryStatResponse struct {
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
	EventCount   int64  `json:"event_count"`
	BookingCount int64  `json:"booking_count"`
	Revenue      int64  `json:"revenue"`
}

type VenuePerformanceResponse struct {
	VenueID       string  `json:"venue_id"`
	VenueName     string  `json:"venue_name"`
	City          string  `json:"city"`
	ShowCount     int64   `json:"show_count"`
	TicketsSold   int64   `json:"tickets_sold"`
	Revenue       int64   `json:"revenue"`
	OccupancyRate float64 `json:"occupancy_rate"`
}

type PopularEventResponse struct {
	EventID      string  `json:"event_id"`
	EventName    string  `json:"event_name"`
	CategoryName string  `json:"category_name"`
	TicketsSold  int64   `json:"tickets_sold"`
	Revenue      int64   `json:"revenue"`
	AvgRating    float64 `json:"avg_rating"`
}

type TotalsResponse struct {
	Customers         int64 `json:"customers"`
	Events            int64 `json:"events"`
	ConfirmedBookings int64 `json:"confirmed_bookings"`
	Revenue           int64 `json:"revenue"`
}

type DashboardResponse struct {
	DailyRevenue     []DailyRevenueResponse     `json:"daily_revenue"`
	CategoryStats    []CategoryStatResponse     `json:"category_stats"`
	VenuePerformance []VenuePerformanceResponse `json:"venue_performance"`
	PopularEvents    []PopularEventResponse     `json:"popular_events"`
	Totals           TotalsResponse             `json:"totals"`
}

type LogEntryResponse struct {
	ID          int64     `json:"id"`
	BookingID   string    `json:"booking_id"`
	Action      string    `json:"action" example:"confirmed"`
	EventName   string    `json:"event_name"`
	Username    string    `json:"username"`
	TotalAmount int       `json:"total_amount"`
	CreatedAt   time.Time `json:"created_at"`
}

func toDashboardResponse(d *report.Dashboard) DashboardResponse {
	resp := DashboardResponse{
		DailyRevenue:     make([]DailyRevenueResponse, len(d.DailyRevenue)),
		CategoryStats:    make([]CategoryStatResponse, len(d.CategoryStats)),
		VenuePerformance: make([]VenuePerformanceResponse, len(d.VenuePerformance)),
		PopularEvents:    make([]PopularEventResponse, len(d.PopularEvents)),
		Totals:           TotalsResponse(d.Totals),
	}
	for i, r := range d.DailyRevenue {
		resp.DailyRevenue[i] = DailyRevenueResponse{Day: r.Day.Format(dateLayout), Bookings: r.Bookings, Revenue: r.Revenue}
	}
	for i, s := range d.CategoryStats {
		resp.CategoryStats[i] = CategoryStatResponse(s)
	}
	for i, v := range d.VenuePerformance {
		resp.VenuePerformance[i] = VenuePerformanceResponse(v)
	}
	for i, e := range d.PopularEvents {
		resp.PopularEvents[i] = PopularEventResponse(e)
	}
	return resp
}

// Dashboard godoc
// @Summary 管理ダッシュボード
// @Description 直近7日の売上、カテゴリ別・会場別の集計、人気イベント、全体の集計を返します
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DashboardResponse
// @Failure 403 {object} api.ErrorResponse
// @Router /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	d, err := h.service.Dashboard(c.Request().Context())
	if err != nil {
		return api.ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, toDashboardResponse(d))
}

// Logs godoc
// @Summary 予約操作ログ
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "取得件数（最大200）" default(25)
// @Success 200 {array} LogEntryResponse
// @Router /admin/logs [get]
func (h *AdminHandler) Logs(c echo.Context) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}
	entries, err := h.service.Logs(c.Request().Context(), limit)
	if err != nil {
		return api.ToHTTPError(err)
	}
	resp := make([]LogEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = LogEntryResponse(e)
	}
	return c.JSON(http.StatusOK, resp)
}

// ListUsers godoc
// @Summary ユーザー一覧
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "取得件数" default(50)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} UserResponse
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}
	users, err := h.service.ListUsers(c.Request().Context(), limit, offset)
	if err != nil {
		return api.ToHTTPError(err)
	}
	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = toUserResponse(u)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetUser godoc
// @Summary ユーザーを取得
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "ユーザーID"
// @Success 200 {object} UserResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /admin/users/{id} [get]
func (h *AdminHandler) GetUser(c echo.Context) error {
	u, err := h.service.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return api.ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// ListUserBookings godoc
// @Summary ユーザーの予約一覧
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "ユーザーID"
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} BookingResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /admin/users/{id}/bookings [get]
func (h *AdminHandler) ListUserBookings(c echo.Context) error {
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}
	bookings, err := h.service.ListUserBookings(c.Request().Context(), c.Param("id"), limit, offset)
	if err != nil {
		return api.ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, toBookingResponses(bookings))
}
