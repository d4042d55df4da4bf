package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-show-ticket-booking/internal/api"
	"github.com/sanosuguru/go-show-ticket-booking/internal/application"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/user"
)

type AuthHandler struct {
	service AuthServiceInterface
}

func NewAuthHandler(s AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: s}
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=50" example:"alice"`
	Email    string `json:"email" validate:"required,email" example:"alice@example.com"`
	Password string `json:"password" validate:"required,min=8" example:"password123"`
	FullName string `json:"full_name" validate:"required,max=100" example:"山田 花子"`
	Phone    string `json:"phone" validate:"omitempty,max=20" example:"090-1234-5678"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required" example:"alice@example.com"`
	Password string `json:"password" validate:"required" example:"password123"`
}

type BootstrapAdminRequest struct {
	SetupToken string `json:"setup_token" validate:"required"`
	Email      string `json:"email" validate:"required,email" example:"admin@example.com"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role" example:"customer"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID: u.ID, Username: u.Username, Email: u.Email,
		FullName: u.FullName, Phone: u.Phone,
		Role: string(u.Role), CreatedAt: u.CreatedAt,
	}
}

func toAuthResponse(r *application.AuthResult) AuthResponse {
	return AuthResponse{Token: r.Token, ExpiresAt: r.ExpiresAt, User: toUserResponse(r.User)}
}

// Register godoc
// @Summary ユーザー登録
// @Description 一般ユーザーとして登録し、アクセストークンを発行します
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "ユーザー情報"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "登録済みのユーザー名またはメールアドレス"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	res, err := h.service.Register(c.Request().Context(), application.RegisterInput{
		Username: req.Username, Email: req.Email, Password: req.Password,
		FullName: req.FullName, Phone: req.Phone,
	})
	if err != nil {
		return api.ToHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toAuthResponse(res))
}

// Login godoc
// @Summary ログイン
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "認証情報"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} api.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	res, err := h.service.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return api.ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, toAuthResponse(res))
}

// Me godoc
// @Summary ログイン中のユーザー
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} api.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	u, err := h.service.Me(c.Request().Context(), actor.UserID)
	if err != nil {
		return api.ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// BootstrapAdmin godoc
// @Summary 最初の管理者を作成
// @Description SETUP_TOKEN が一致した場合に指定ユーザーを管理者に昇格します
// @Tags auth
// @Accept json
// @Produce json
// @Param request body BootstrapAdminRequest true "セットアップ情報"
// @Success 200 {object} UserResponse
// @Failure 403 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /auth/bootstrap-admin [post]
func (h *AuthHandler) BootstrapAdmin(c echo.Context) error {
	var req BootstrapAdminRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	u, err := h.service.BootstrapAdmin(c.Request().Context(), req.SetupToken, req.Email)
	if err != nil {
		return api.ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}
