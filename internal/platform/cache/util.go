package cache

import (
	"time"
)

// TimeUntilNext8AM は次の午前8時（日本時間）までの期間を返します。
// 米国市場の終値が出揃う時刻に合わせて日足キャッシュを失効させるために使います。
func TimeUntilNext8AM() time.Duration {
	return timeUntilNext8AM(time.Now())
}

func timeUntilNext8AM(now time.Time) time.Duration {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		// tzdata がない環境
		loc = time.FixedZone("JST", 9*60*60)
	}
	now = now.In(loc)

	next8am := time.Date(now.Year(), now.Month(), now.Day(), 8, 0, 0, 0, loc)
	if !now.Before(next8am) {
		next8am = next8am.Add(24 * time.Hour)
	}
	return next8am.Sub(now)
}
