package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-show-ticket-booking/internal/api/middleware"
	"github.com/sanosuguru/go-show-ticket-booking/internal/application"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/user"
)

const dateLayout = "2006-01-02"

var errInvalidRequest = echo.NewHTTPError(http.StatusBadRequest, "リクエストの形式が不正です")

// bindAndValidate はリクエストボディを読み込み検証する
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errInvalidRequest
	}
	return c.Validate(req)
}

// actorFrom は認証済みユーザーを返す
func actorFrom(c echo.Context) (application.Actor, error) {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		return application.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "認証が必要です")
	}
	return application.Actor{UserID: id, Role: user.Role(middleware.CurrentRole(c))}, nil
}

// queryInt は数値のクエリパラメータを読む。未指定なら0
func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" は整数で指定してください")
	}
	return n, nil
}

func pagination(c echo.Context) (limit, offset int, err error) {
	if limit, err = queryInt(c, "limit"); err != nil {
		return 0, 0, err
	}
	if offset, err = queryInt(c, "offset"); err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}
