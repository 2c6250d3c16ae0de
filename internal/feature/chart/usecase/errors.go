package usecase

import "errors"

var (
	// ErrUnsupportedStyle は市場で使えない描画スタイルが指定された場合に返されます。
	ErrUnsupportedStyle = errors.New("unsupported chart style")
	// ErrInvalidParameter はチャート設定の値が範囲外の場合に返されます。
	ErrInvalidParameter = errors.New("invalid chart parameter")
)
