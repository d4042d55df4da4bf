package api

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// CustomValidator はEcho用のカスタムバリデーター
// エラーに出るフィールド名はJSONのキー名を使う
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator は新しいバリデーターを作成する
func NewValidator() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate はリクエストのバリデーションを実行する
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	return nil
}

// describeValidation は検証エラーを "field: rule" の一覧にする
func describeValidation(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		parts = append(parts, fmt.Sprintf("%s: %s", field, rule))
	}
	return strings.Join(parts, ", ")
}
