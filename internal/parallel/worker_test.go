package parallel_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/paveg/tabula/internal/parallel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkerPool(t *testing.T) {
	pool := parallel.NewWorkerPool(0)
	defer pool.Close()
	assert.Positive(t, pool.Workers())

	pool2 := parallel.NewWorkerPool(4)
	defer pool2.Close()
	assert.Equal(t, 4, pool2.Workers())
}

func TestChunks(t *testing.T) {
	tests := []struct {
		name     string
		n, size  int
		expected []parallel.Range
	}{
		{"empty", 0, 4, nil},
		{"exact", 8, 4, []parallel.Range{{0, 4}, {4, 8}}},
		{"remainder", 10, 4, []parallel.Range{{0, 4}, {4, 8}, {8, 10}}},
		{"size larger than n", 3, 10, []parallel.Range{{0, 3}}},
		{"non-positive size", 3, 0, []parallel.Range{{0, 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parallel.Chunks(tt.n, tt.size))
		})
	}
}

func TestProcessIndexedPreservesOrder(t *testing.T) {
	pool := parallel.NewWorkerPool(4)
	defer pool.Close()

	input := make([]int, 100)
	for i := range input {
		input[i] = i
	}
	results := parallel.ProcessIndexed(pool, input, func(i, x int) string {
		return fmt.Sprintf("%d:%d", i, x*x)
	})
	require.Len(t, results, 100)
	for i, r := range results {
		assert.Equal(t, fmt.Sprintf("%d:%d", i, i*i), r)
	}

	assert.Nil(t, parallel.ProcessIndexed(pool, []int{}, func(int, int) int { return 0 }))
}

func TestForRangeCoversEveryIndexOnce(t *testing.T) {
	pool := parallel.NewWorkerPool(4)
	defer pool.Close()

	const n = 10_007
	hits := make([]int32, n)
	err := parallel.ForRange(pool, n, 256, func(r parallel.Range) error {
		for i := r.Lo; i < r.Hi; i++ {
			atomic.AddInt32(&hits[i], 1)
		}
		return nil
	})
	require.NoError(t, err)
	for i, h := range hits {
		require.Equal(t, int32(1), h, "index %d", i)
	}
}

func TestForRangeReportsLowestChunkError(t *testing.T) {
	pool := parallel.NewWorkerPool(4)
	defer pool.Close()

	err := parallel.ForRange(pool, 1000, 100, func(r parallel.Range) error {
		if r.Lo >= 300 {
			return fmt.Errorf("chunk %d", r.Lo)
		}
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, "chunk 300", err.Error())
}

func TestForRangeOnClosedPool(t *testing.T) {
	pool := parallel.NewWorkerPool(2)
	pool.Close()

	err := parallel.ForRange(pool, 100, 10, func(parallel.Range) error { return nil })
	assert.True(t, errors.Is(err, context.Canceled))
}
