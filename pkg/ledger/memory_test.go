package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_page(t *testing.T) {
	tests := []struct {
		n      int
		offset int64
		limit  int
		start  int
		end    int
	}{
		{10, 0, 5, 0, 5},
		{10, 5, 5, 5, 10},
		{10, 8, 5, 8, 10},
		{10, 12, 5, 10, 10},
		{10, -1, 5, 0, 5},
		{0, 0, 5, 0, 0},
	}

	for _, test := range tests {
		start, end := page(test.n, test.offset, test.limit)
		assert.Equal(t, test.start, start)
		assert.Equal(t, test.end, end)
	}
}
