package cache

import (
	"testing"
	"time"
)

func TestTimeUntilNext8AM(t *testing.T) {
	t.Parallel()

	duration := TimeUntilNext8AM()

	if duration <= 0 {
		t.Errorf("expected positive duration, got %v", duration)
	}
	if duration > 24*time.Hour {
		t.Errorf("expected duration at most 24 hours, got %v", duration)
	}
}

func TestTimeUntilNext8AM_FixedClock(t *testing.T) {
	t.Parallel()

	jst := time.FixedZone("JST", 9*60*60)
	tests := []struct {
		name string
		now  time.Time
		want time.Duration
	}{
		{
			name: "before 8am same day",
			now:  time.Date(2024, 7, 30, 6, 30, 0, 0, jst),
			want: 90 * time.Minute,
		},
		{
			name: "after 8am rolls to next day",
			now:  time.Date(2024, 7, 30, 9, 0, 0, 0, jst),
			want: 23 * time.Hour,
		},
		{
			name: "exactly 8am is a full day",
			now:  time.Date(2024, 7, 30, 8, 0, 0, 0, jst),
			want: 24 * time.Hour,
		},
		{
			name: "utc input is converted",
			now:  time.Date(2024, 7, 29, 22, 0, 0, 0, time.UTC), // 07:00 JST
			want: time.Hour,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := timeUntilNext8AM(tt.now); got != tt.want {
				t.Errorf("timeUntilNext8AM(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}
