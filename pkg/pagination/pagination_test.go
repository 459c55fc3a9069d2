package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	s := New(0, 0)
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, DefaultLimit, s.Limit)

	s = New(3, 10)
	assert.Equal(t, 3, s.Page)
	assert.Equal(t, 10, s.Limit)
	assert.Equal(t, 20, s.Offset())
}

func TestState_Sync(t *testing.T) {
	tests := []struct {
		name         string
		requested    int
		current      int
		totalPages   int
		totalRecords int
		wantPage     int
	}{
		{"server echoes page", 2, 2, 5, 150, 2},
		{"page beyond last clamps", 7, 7, 3, 90, 3},
		{"server omits current page", 4, 0, 10, 300, 4},
		{"empty result set", 3, 3, 0, 0, 3},
		{"negative counts", 2, 0, -1, -1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.requested, 30)
			s.Sync(tt.current, tt.totalPages, tt.totalRecords)
			assert.Equal(t, tt.wantPage, s.Page)
			assert.GreaterOrEqual(t, s.TotalPages, 0)
			assert.GreaterOrEqual(t, s.TotalRecords, 0)
		})
	}
}

func TestState_Navigation(t *testing.T) {
	s := New(1, 30)
	s.Sync(1, 3, 75)
	assert.False(t, s.HasPrev())
	assert.True(t, s.HasNext())
	assert.Equal(t, 1, s.Prev())
	assert.Equal(t, 2, s.Next())

	s.Sync(3, 3, 75)
	assert.True(t, s.HasPrev())
	assert.False(t, s.HasNext())
	assert.Equal(t, 2, s.Prev())
	assert.Equal(t, 3, s.Next())

	empty := New(1, 30)
	empty.Sync(1, 0, 0)
	assert.Equal(t, 1, empty.Next())
	assert.False(t, empty.HasNext())
}

func TestState_Query(t *testing.T) {
	q := New(2, 50).Query()
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "50", q.Get("limit"))
}
