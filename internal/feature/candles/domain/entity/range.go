package entity

import "time"

// Range は取得対象の期間を表します。ゼロ値の境界は無制限を意味します。
// End は当日を含む（その日の終わりまで）として扱います。
type Range struct {
	Start time.Time
	End   time.Time
}

// IsZero は期間が両端とも未指定かどうかを返します。
func (r Range) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Valid は Start <= End を満たすかどうかを返します（片側未指定は常に有効）。
func (r Range) Valid() bool {
	if r.Start.IsZero() || r.End.IsZero() {
		return true
	}
	return !r.Start.After(r.End)
}

// Contains は t が期間内に含まれるかどうかを日単位で判定します。
func (r Range) Contains(t time.Time) bool {
	d := truncateDay(t)
	if !r.Start.IsZero() && d.Before(truncateDay(r.Start)) {
		return false
	}
	if !r.End.IsZero() && d.After(truncateDay(r.End)) {
		return false
	}
	return true
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
