package user

import "errors"

// User ドメインのエラー定義
var (
	ErrUserNotFound       = errors.New("ユーザーが見つかりません")
	ErrUserAlreadyExists  = errors.New("ユーザー名またはメールアドレスは既に登録されています")
	ErrInvalidCredentials = errors.New("メールアドレスまたはパスワードが正しくありません")
	ErrUsernameRequired   = errors.New("ユーザー名は必須です")
	ErrInvalidEmail       = errors.New("メールアドレスの形式が正しくありません")
	ErrFullNameRequired   = errors.New("氏名は必須です")
	ErrPasswordRequired   = errors.New("パスワードは必須です")
	ErrPasswordTooShort   = errors.New("パスワードは8文字以上である必要があります")
	ErrInvalidRole        = errors.New("不明な権限です")
	ErrInvalidSetupToken  = errors.New("セットアップトークンが正しくありません")
)
