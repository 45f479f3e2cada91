package snowflake

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDGenerator(t *testing.T) {
	gen, err := NewIDGenerator(1)
	require.NoError(t, err)
	require.NotNil(t, gen)

	_, err = NewIDGenerator(-1)
	assert.Error(t, err)

	_, err = NewIDGenerator(nodeMask + 1)
	assert.Error(t, err)

	// boundary node IDs are valid
	_, err = NewIDGenerator(0)
	assert.NoError(t, err)
	_, err = NewIDGenerator(nodeMask)
	assert.NoError(t, err)
}

func TestNextID_UniqueAndOrdered(t *testing.T) {
	gen, err := NewIDGenerator(1)
	require.NoError(t, err)

	const count = 1000
	ids := make([]int64, count)
	for i := range ids {
		ids[i] = gen.NextID()
	}

	seen := make(map[int64]struct{}, count)
	for i, id := range ids {
		assert.Positive(t, id)

		_, dup := seen[id]
		assert.False(t, dup, "duplicate ID: %d", id)
		seen[id] = struct{}{}

		if i > 0 {
			// time-ordered within a node
			prev, _, _ := ParseID(ids[i-1])
			cur, _, _ := ParseID(id)
			assert.GreaterOrEqual(t, cur, prev)
		}
	}
}

func TestNextID_Concurrent(t *testing.T) {
	gen, err := NewIDGenerator(1)
	require.NoError(t, err)

	const goroutines = 10
	const perGoroutine = 200

	var wg sync.WaitGroup
	idChan := make(chan int64, goroutines*perGoroutine)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				idChan <- gen.NextID()
			}
		}()
	}
	wg.Wait()
	close(idChan)

	seen := make(map[int64]struct{})
	for id := range idChan {
		_, dup := seen[id]
		assert.False(t, dup, "duplicate ID under concurrency: %d", id)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, goroutines*perGoroutine)
}

func TestParseID(t *testing.T) {
	gen, err := NewIDGenerator(123)
	require.NoError(t, err)

	before := time.Now().UnixMilli()
	id := gen.NextID()
	after := time.Now().UnixMilli()

	timestamp, nodeID, step := ParseID(id)

	assert.Equal(t, int64(123), nodeID)
	assert.GreaterOrEqual(t, step, int64(0))
	assert.LessOrEqual(t, step, int64(stepMask))
	assert.GreaterOrEqual(t, timestamp, before)
	assert.LessOrEqual(t, timestamp, after)
}

func TestParseID_DistinguishesNodes(t *testing.T) {
	gen1, err := NewIDGenerator(1)
	require.NoError(t, err)
	gen2, err := NewIDGenerator(2)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		_, node1, _ := ParseID(gen1.NextID())
		_, node2, _ := ParseID(gen2.NextID())
		assert.Equal(t, int64(1), node1)
		assert.Equal(t, int64(2), node2)
	}
}
