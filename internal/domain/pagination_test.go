package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		name        string
		page, limit string
		wantPage    int
		wantLimit   int
	}{
		{"defaults", "", "", 1, 10},
		{"explicit", "3", "25", 3, 25},
		{"non numeric", "abc", "x", 1, 10},
		{"non positive", "0", "-5", 1, 10},
		{"limit capped", "2", "1000", 2, 100},
		{"huge page", "9223372036854775807", "100", MaxPage, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParsePage(tt.page, tt.limit)
			assert.Equal(t, tt.wantPage, p.Number)
			assert.Equal(t, tt.wantLimit, p.Limit)
		})
	}
}

func TestSkipNeverNegative(t *testing.T) {
	for _, raw := range []string{"9223372036854775807", "92233720368547758", "2147483647"} {
		for _, limit := range []string{"1", "10", "100"} {
			p := ParsePage(raw, limit)
			assert.GreaterOrEqual(t, p.Skip(), int64(0), "page=%s limit=%s", raw, limit)
		}
	}
}

func TestPageInfo(t *testing.T) {
	p := NewPage(2, 10)
	assert.Equal(t, int64(10), p.Skip())

	info := NewPageInfo(p, 21)
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, int64(21), info.TotalCount)
	assert.Equal(t, 2, info.CurrentPage)

	assert.Equal(t, 0, NewPageInfo(NewPage(1, 10), 0).TotalPages)
	assert.Equal(t, 1, NewPageInfo(NewPage(1, 10), 10).TotalPages)
}
