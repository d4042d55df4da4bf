package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-show-ticket-booking/internal/api"
	"github.com/sanosuguru/go-show-ticket-booking/internal/api/middleware"
)

// NewTestEcho はテスト用のEchoインスタンスを作成する
func NewTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	return e
}

// SetTestUser はテスト用に認証済みユーザーをコンテキストに設定する
func SetTestUser(c echo.Context, userID, role string) {
	c.Set(middleware.ContextKeyUserID, userID)
	c.Set(middleware.ContextKeyRole, role)
}
