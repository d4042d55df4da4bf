package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/user"
)

const userColumns = `id, username, email, password_hash, full_name, phone, role, created_at, updated_at`

type userRow struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	FullName     string    `db:"full_name"`
	Phone        string    `db:"phone"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r *userRow) toEntity() *user.User {
	return &user.User{
		ID: r.ID, Username: r.Username, Email: r.Email,
		PasswordHash: r.PasswordHash, FullName: r.FullName, Phone: r.Phone,
		Role: user.Role(r.Role), CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

// UserRepository はユーザーリポジトリのPostgreSQL実装
type UserRepository struct{ db *sqlx.DB }

// NewUserRepository はUserRepositoryを作成する
func NewUserRepository(db *sqlx.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, full_name, phone, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		u.Username, u.Email, u.PasswordHash, u.FullName, u.Phone, string(u.Role), u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err, "") {
			return user.ErrUserAlreadyExists
		}
		return fmt.Errorf("ユーザー作成に失敗しました: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, user.NormalizeEmail(email))
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*user.User, error) {
	var row userRow
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		if isNotFound(err) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("ユーザー取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*user.User, error) {
	var rows []userRow
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("ユーザー一覧取得に失敗しました: %w", err)
	}
	users := make([]*user.User, len(rows))
	for i := range rows {
		users[i] = rows[i].toEntity()
	}
	return users, nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, id string, role user.Role) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`, string(role), id)
	if err != nil {
		return fmt.Errorf("権限の更新に失敗しました: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if rows == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

var _ user.Repository = (*UserRepository)(nil)
