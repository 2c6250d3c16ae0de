package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRange_Valid(t *testing.T) {
	t.Parallel()

	d1 := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		r    Range
		want bool
	}{
		{"both open", Range{}, true},
		{"start only", Range{Start: d1}, true},
		{"end only", Range{End: d2}, true},
		{"ordered", Range{Start: d1, End: d2}, true},
		{"same day", Range{Start: d1, End: d1}, true},
		{"reversed", Range{Start: d2, End: d1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.r.Valid())
		})
	}
}

func TestRange_Contains(t *testing.T) {
	t.Parallel()

	r := Range{
		Start: time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2023, 1, 4, 0, 0, 0, 0, time.UTC),
	}

	assert.False(t, r.Contains(time.Date(2023, 1, 1, 23, 0, 0, 0, time.UTC)))
	assert.True(t, r.Contains(time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.True(t, r.Contains(time.Date(2023, 1, 4, 21, 0, 0, 0, time.UTC)), "end day is inclusive")
	assert.False(t, r.Contains(time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)))
	assert.True(t, Range{}.Contains(time.Now()))
}
