package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-show-ticket-booking/internal/infrastructure/security"
)

// echo.Context に保存する認証情報のキー
const (
	ContextKeyUserID = "user_id"
	ContextKeyRole   = "role"
)

// TokenParser はアクセストークンを検証する
type TokenParser interface {
	Parse(raw string) (*security.Claims, error)
}

// JWTAuth は Authorization: Bearer <token> を検証し、ユーザーIDと権限をコンテキストに設定する
func JWTAuth(parser TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			scheme, raw, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "認証が必要です")
			}
			claims, err := parser.Parse(strings.TrimSpace(raw))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "トークンが無効です").SetInternal(err)
			}
			c.Set(ContextKeyUserID, claims.UserID)
			c.Set(ContextKeyRole, claims.Role)
			return next(c)
		}
	}
}

// RequireRole は指定した権限を持つユーザーのみ通す
// JWTAuth の後に使う
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := CurrentUserID(c); !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "認証が必要です")
			}
			if CurrentRole(c) != role {
				return echo.NewHTTPError(http.StatusForbidden, "権限がありません")
			}
			return next(c)
		}
	}
}

// CurrentUserID は認証済みユーザーのIDを返す
func CurrentUserID(c echo.Context) (string, bool) {
	id, ok := c.Get(ContextKeyUserID).(string)
	return id, ok && id != ""
}

// CurrentRole は認証済みユーザーの権限を返す
func CurrentRole(c echo.Context) string {
	role, _ := c.Get(ContextKeyRole).(string)
	return role
}
