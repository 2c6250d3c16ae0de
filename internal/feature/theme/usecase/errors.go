package usecase

import "errors"

var (
	// ErrThemeNotFound はテーマファイルが存在しない場合に返されます。
	ErrThemeNotFound = errors.New("theme not found")
	// ErrInvalidTheme は未知のテーマ名や不正な色指定の場合に返されます。
	ErrInvalidTheme = errors.New("invalid theme")
)
