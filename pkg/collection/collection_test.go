package collection_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"gearshop/pkg/collection"
)

func TestMap(t *testing.T) {
	got := collection.Map([]string{"ball", "net"}, strings.ToUpper)
	assert.Equal(t, []string{"BALL", "NET"}, got)
}

func TestFilterKeepsOrder(t *testing.T) {
	got := collection.Filter([]int{5, 2, 8, 1}, func(n int) bool { return n > 1 })
	assert.Equal(t, []int{5, 2, 8}, got)
}

func TestFirst(t *testing.T) {
	v, ok := collection.First([]int{1, 2, 3}, func(n int) bool { return n%2 == 0 })
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = collection.First([]int{1, 3}, func(n int) bool { return n%2 == 0 })
	assert.False(t, ok)
}

func TestUniquePreservesFirstOccurrence(t *testing.T) {
	got := collection.Unique([]string{"Soccer", "Chess", "Soccer", "Watersports", "Chess"})
	assert.Equal(t, []string{"Soccer", "Chess", "Watersports"}, got)
}

func TestReduce(t *testing.T) {
	sum := collection.Reduce([]int{1, 2, 3, 4}, 0, func(carry, n int) int { return carry + n })
	assert.Equal(t, 10, sum)
}

func TestKeyByLastWins(t *testing.T) {
	type item struct {
		ID   int
		Name string
	}
	m := collection.KeyBy([]item{{1, "a"}, {2, "b"}, {1, "c"}}, func(i item) int { return i.ID })
	assert.Len(t, m, 2)
	assert.Equal(t, "c", m[1].Name)
}

func TestPaginate(t *testing.T) {
	s := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{1, 2}, collection.Paginate(s, 1, 2))
	assert.Equal(t, []int{3, 4}, collection.Paginate(s, 2, 2))
	assert.Equal(t, []int{5}, collection.Paginate(s, 3, 2))
	assert.Nil(t, collection.Paginate(s, 4, 2))

	// Page below 1 clamps to the first page.
	assert.Equal(t, []int{1, 2}, collection.Paginate(s, 0, 2))
}

func TestSortByDoesNotCopy(t *testing.T) {
	s := []int{3, 1, 2}
	got := collection.SortBy(s, func(a, b int) bool { return a < b })
	assert.Equal(t, []int{1, 2, 3}, got)
	assert.Equal(t, s, got)
}
