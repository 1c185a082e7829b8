package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		page      int
		wantLimit int
		wantPage  int
	}{
		{"defaults when absent", 0, 0, DefaultLimit, DefaultPage},
		{"keeps valid values", 5, 3, 5, 3},
		{"negative falls back", -4, -1, DefaultLimit, DefaultPage},
		{"caps large limit", 1000, 2, MaxLimit, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.limit, tt.page)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantPage, p.Page)
		})
	}
}

func TestSkip(t *testing.T) {
	assert.Equal(t, 0, New(20, 1).Skip())
	assert.Equal(t, 20, New(20, 2).Skip())
	assert.Equal(t, 90, New(10, 10).Skip())
}

func TestInfo(t *testing.T) {
	info := New(20, 2).Info(45)
	assert.Equal(t, Info{Count: 45, Page: 2, Pages: 3, Limit: 20}, info)

	assert.Equal(t, int64(0), New(20, 1).Info(0).Pages)
	assert.Equal(t, int64(1), New(20, 1).Info(20).Pages)
	assert.Equal(t, int64(2), New(20, 1).Info(21).Pages)
}

func TestNew_HugePageDoesNotOverflow(t *testing.T) {
	for _, limit := range []int{1, 7, DefaultLimit, MaxLimit} {
		p := New(limit, math.MaxInt64/10)
		assert.GreaterOrEqual(t, p.Skip(), 0, "limit %d", limit)
		assert.LessOrEqual(t, p.Page, math.MaxInt/p.Limit)

		info := p.Info(3)
		assert.Equal(t, int64(1), info.Pages)
		assert.Equal(t, p.Page, info.Page)
	}

	p := New(1, math.MaxInt)
	assert.Equal(t, math.MaxInt-1, p.Skip())
}
