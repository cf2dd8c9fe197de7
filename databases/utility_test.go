package databases

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetPaginatedOpts(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		page      int
		wantLimit int64
		wantSkip  int64
	}{
		{name: "first page", limit: 20, page: 1, wantLimit: 20, wantSkip: 0},
		{name: "third page", limit: 20, page: 3, wantLimit: 20, wantSkip: 40},
		{name: "page zero clamps skip", limit: 20, page: 0, wantLimit: 20, wantSkip: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := newMongoPaginate(tt.limit, tt.page).getPaginatedOpts()
			assert.Equal(t, tt.wantLimit, *opts.Limit)
			assert.Equal(t, tt.wantSkip, *opts.Skip)
		})
	}
}
