package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/transaction"
)

// PostgreSQL のエラーコード
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeInvalidText          = "22P02"
)

var errInvalidTx = errors.New("トランザクションが不正です")

// pqError は err から *pq.Error を取り出す
func pqError(err error) (*pq.Error, bool) {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// isNotFound は行が存在しないことを表すエラーかを返す
// UUIDとして解釈できないIDも該当なしとして扱う
func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || isCode(err, codeInvalidText)
}

// isUniqueViolation は指定した制約の一意制約違反かを返す
// constraint が空の場合は制約名を問わない
func isUniqueViolation(err error, constraint string) bool {
	pgErr, ok := pqError(err)
	if !ok || pgErr.Code != codeUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.Constraint == constraint
}

// isCode は PostgreSQL のエラーコードが一致するかを返す
func isCode(err error, code pq.ErrorCode) bool {
	pgErr, ok := pqError(err)
	return ok && pgErr.Code == code
}

// wrapErr は直列化失敗とデッドロックを transaction.ErrSerializationFailure に変換してラップする
func wrapErr(msg string, err error) error {
	if isCode(err, codeSerializationFailure) || isCode(err, codeDeadlockDetected) {
		return fmt.Errorf("%s: %w: %w", msg, transaction.ErrSerializationFailure, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
