package interfaces

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkSlice(t *testing.T) {
	chunks := ChunkSlice([]int{1, 2, 3, 4, 5}, 2)
	require.Len(t, chunks, 3)
	assert.Equal(t, []int{1, 2}, chunks[0])
	assert.Equal(t, []int{3, 4}, chunks[1])
	assert.Equal(t, []int{5}, chunks[2])
}

func TestChunkSliceExactMultiple(t *testing.T) {
	chunks := ChunkSlice([]string{"a", "b", "c", "d"}, 2)
	require.Len(t, chunks, 2)
	assert.Equal(t, []string{"a", "b"}, chunks[0])
	assert.Equal(t, []string{"c", "d"}, chunks[1])
}

func TestChunkSliceEdgeCases(t *testing.T) {
	assert.Empty(t, ChunkSlice([]int{}, 3))
	assert.Empty(t, ChunkSlice[int](nil, 3))

	// 批大小不小于总量时整体一批
	chunks := ChunkSlice([]int{1, 2}, 10)
	require.Len(t, chunks, 1)
	assert.Equal(t, []int{1, 2}, chunks[0])

	// 非法批大小不产出任何块
	assert.Empty(t, ChunkSlice([]int{1, 2, 3}, 0))
	assert.Empty(t, ChunkSlice([]int{1, 2, 3}, -1))
}
