package application

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/user"
	"github.com/sanosuguru/go-show-ticket-booking/internal/pkg/logger"
)

// AuthService はユーザー登録とログインを提供する
type AuthService struct {
	userRepo   user.Repository
	hasher     PasswordHasher
	tokens     TokenIssuer
	setupToken string
}

// NewAuthService は AuthService を作成する
// setupToken が空の場合、管理者の初期登録は常に拒否される
func NewAuthService(ur user.Repository, hasher PasswordHasher, tokens TokenIssuer, setupToken string) *AuthService {
	return &AuthService{userRepo: ur, hasher: hasher, tokens: tokens, setupToken: setupToken}
}

// AuthResult はログイン結果
type AuthResult struct {
	User      *user.User
	Token     string
	ExpiresAt time.Time
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Phone    string
}

// Register は一般ユーザーを登録してトークンを発行する
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if input.Password == "" {
		return nil, user.ErrPasswordRequired
	}
	if len(input.Password) < user.MinPasswordLength {
		return nil, user.ErrPasswordTooShort
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	u := user.NewUser(input.Username, input.Email, hash, input.FullName, input.Phone)
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}

	logger.Info("ユーザーを登録しました", zap.String("user_id", u.ID))
	return s.issue(u)
}

// Login はメールアドレスとパスワードを照合してトークンを発行する
// ユーザーが存在しない場合もパスワード不一致と同じエラーを返す
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.userRepo.GetByEmail(ctx, user.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, user.ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Compare(u.PasswordHash, password) {
		return nil, user.ErrInvalidCredentials
	}
	return s.issue(u)
}

// Me は認証済みユーザーの情報を返す
func (s *AuthService) Me(ctx context.Context, userID string) (*user.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// BootstrapAdmin はセットアップトークンを検証して既存ユーザーを管理者にする
func (s *AuthService) BootstrapAdmin(ctx context.Context, setupToken, email string) (*user.User, error) {
	if s.setupToken == "" || subtle.ConstantTimeCompare([]byte(s.setupToken), []byte(setupToken)) != 1 {
		return nil, user.ErrInvalidSetupToken
	}
	u, err := s.userRepo.GetByEmail(ctx, user.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if u.IsAdmin() {
		return u, nil
	}
	if err := s.userRepo.UpdateRole(ctx, u.ID, user.RoleAdmin); err != nil {
		return nil, err
	}
	u.Role = user.RoleAdmin

	logger.Warn("ユーザーを管理者に昇格しました", zap.String("user_id", u.ID))
	return u, nil
}

func (s *AuthService) issue(u *user.User) (*AuthResult, error) {
	token, exp, err := s.tokens.Issue(u.ID, string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("トークン発行に失敗: %w", err)
	}
	return &AuthResult{User: u, Token: token, ExpiresAt: exp}, nil
}
