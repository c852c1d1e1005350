package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := make([]int, 23)
	for i := range items {
		items[i] = i + 1
	}

	p := Paginate(items, 2, 10)
	assert.Equal(t, []int{11, 12, 13, 14, 15, 16, 17, 18, 19, 20}, p.Items)
	assert.Equal(t, 23, p.Total)
	assert.Equal(t, 3, p.TotalPages)

	p = Paginate(items, 3, 10)
	assert.Equal(t, []int{21, 22, 23}, p.Items)

	p = Paginate(items, 9, 10)
	assert.Empty(t, p.Items)

	p = Paginate(items, 0, 10)
	assert.Equal(t, 1, p.Page)
	assert.Len(t, p.Items, 10)
}

func TestFilter(t *testing.T) {
	even := Filter([]int{1, 2, 3, 4}, func(n int) bool { return n%2 == 0 })
	assert.Equal(t, []int{2, 4}, even)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 10, Offset(2, 10))
}
