package usecase

import "errors"

var (
	// ErrNotFound は銘柄が存在しない、またはプロバイダーが空の結果を返したことを示します。
	// 呼び出し側は空チャートを描画せず、ユーザーに「No data found」を表示する必要があります。
	ErrNotFound = errors.New("no data found")

	// ErrInvalidSymbol は銘柄コードが空であることを示します。
	ErrInvalidSymbol = errors.New("symbol is required")

	// ErrInvalidRange は開始日が終了日より後であることを示します。
	ErrInvalidRange = errors.New("start date must not be after end date")

	// ErrInvalidInterval は時間足が Intervals に含まれないことを示します。
	ErrInvalidInterval = errors.New("interval must be 1day, 1week or 1month")
)
