package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/booking"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/event"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/review"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/seat"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/show"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/transaction"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/user"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/venue"
	"github.com/sanosuguru/go-show-ticket-booking/internal/pkg/logger"
)

// ErrorResponse はエラーレスポンスの統一フォーマット
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

const internalErrorMessage = "内部サーバーエラー"

// errorStatus はドメインエラーとHTTPステータスの対応
var errorStatus = []struct {
	err    error
	status int
}{
	// 404
	{booking.ErrBookingNotFound, http.StatusNotFound},
	{event.ErrEventNotFound, http.StatusNotFound},
	{event.ErrCategoryNotFound, http.StatusNotFound},
	{review.ErrReviewNotFound, http.StatusNotFound},
	{seat.ErrSeatNotFound, http.StatusNotFound},
	{show.ErrShowNotFound, http.StatusNotFound},
	{user.ErrUserNotFound, http.StatusNotFound},
	{venue.ErrVenueNotFound, http.StatusNotFound},

	// 409
	{booking.ErrSeatUnavailable, http.StatusConflict},
	{booking.ErrSeatsBeingProcessed, http.StatusConflict},
	{booking.ErrBookingCancelled, http.StatusConflict},
	{booking.ErrBookingCompleted, http.StatusConflict},
	{booking.ErrBookingExpired, http.StatusConflict},
	{booking.ErrBookingNotPending, http.StatusConflict},
	{booking.ErrIdempotencyKeyAlreadyExists, http.StatusConflict},
	{event.ErrOptimisticLockConflict, http.StatusConflict},
	{seat.ErrSeatAlreadyExists, http.StatusConflict},
	{show.ErrShowAlreadyStarted, http.StatusConflict},
	{user.ErrUserAlreadyExists, http.StatusConflict},
	{venue.ErrVenueHasShows, http.StatusConflict},
	{venue.ErrCapacityExceeded, http.StatusConflict},
	{transaction.ErrSerializationFailure, http.StatusConflict},
	{show.ErrSeatCounterOutOfRange, http.StatusConflict},

	// 401 / 403
	{user.ErrInvalidCredentials, http.StatusUnauthorized},
	{user.ErrInvalidSetupToken, http.StatusForbidden},
	{review.ErrNotReviewOwner, http.StatusForbidden},

	// 400
	{seat.ErrInvalidSeat, http.StatusBadRequest},
	{booking.ErrDuplicateSeat, http.StatusBadRequest},
	{booking.ErrTooManySeats, http.StatusBadRequest},
	{booking.ErrPaymentAmountMismatch, http.StatusBadRequest},
	{booking.ErrInvalidPaymentMethod, http.StatusBadRequest},
	{booking.ErrShowIDRequired, http.StatusBadRequest},
	{booking.ErrUserIDRequired, http.StatusBadRequest},
	{booking.ErrSeatIDsRequired, http.StatusBadRequest},
	{booking.ErrIdempotencyKeyRequired, http.StatusBadRequest},

	// 422
	{booking.ErrIdempotencyKeyReused, http.StatusUnprocessableEntity},
	{event.ErrEventNameRequired, http.StatusBadRequest},
	{event.ErrInvalidDuration, http.StatusBadRequest},
	{review.ErrInvalidRating, http.StatusBadRequest},
	{review.ErrUserIDRequired, http.StatusBadRequest},
	{review.ErrEventIDRequired, http.StatusBadRequest},
	{seat.ErrVenueIDRequired, http.StatusBadRequest},
	{seat.ErrRowLabelRequired, http.StatusBadRequest},
	{seat.ErrInvalidSeatNumber, http.StatusBadRequest},
	{seat.ErrInvalidSeatType, http.StatusBadRequest},
	{seat.ErrInvalidPriceMultiplier, http.StatusBadRequest},
	{seat.ErrInvalidSeatsPerRow, http.StatusBadRequest},
	{show.ErrEventIDRequired, http.StatusBadRequest},
	{show.ErrVenueIDRequired, http.StatusBadRequest},
	{show.ErrStartsAtRequired, http.StatusBadRequest},
	{show.ErrInvalidBasePrice, http.StatusBadRequest},
	{show.ErrNoSeats, http.StatusBadRequest},
	{show.ErrInvalidDateFilter, http.StatusBadRequest},
	{user.ErrUsernameRequired, http.StatusBadRequest},
	{user.ErrInvalidEmail, http.StatusBadRequest},
	{user.ErrFullNameRequired, http.StatusBadRequest},
	{user.ErrPasswordRequired, http.StatusBadRequest},
	{user.ErrPasswordTooShort, http.StatusBadRequest},
	{user.ErrInvalidRole, http.StatusBadRequest},
	{venue.ErrVenueNameRequired, http.StatusBadRequest},
	{venue.ErrAddressRequired, http.StatusBadRequest},
	{venue.ErrCityRequired, http.StatusBadRequest},
	{venue.ErrInvalidCapacity, http.StatusBadRequest},
}

// StatusFor はドメインエラーに対応するHTTPステータスを返す
// 対応がなければ 500
func StatusFor(err error) int {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// ToHTTPError はサービス層のエラーを echo.HTTPError に変換する
// 500 の場合は内部のエラーメッセージを返さない
func ToHTTPError(err error) error {
	if err == nil {
		return nil
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		return echo.NewHTTPError(status, internalErrorMessage).SetInternal(err)
	}
	return echo.NewHTTPError(status, err.Error()).SetInternal(err)
}

// CustomHTTPErrorHandler はカスタムエラーハンドラー
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		code    = http.StatusInternalServerError
		message = internalErrorMessage
		details string
	)

	var ve validator.ValidationErrors
	he, ok := ToHTTPError(err).(*echo.HTTPError)
	switch {
	case errors.As(err, &ve):
		code = http.StatusBadRequest
		message = "入力内容が正しくありません"
		details = describeValidation(ve)
	case ok:
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	}

	log := logger.FromContext(c.Request().Context())
	if code >= 500 {
		log.Error("サーバーエラー",
			zap.Int("status", code),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
	}

	// JSONレスポンスを返す
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, ErrorResponse{Error: message, Code: code, Details: details})
	}
	if err != nil {
		log.Error("エラーレスポンス送信失敗", zap.Error(err))
	}
}
