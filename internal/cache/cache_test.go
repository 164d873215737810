package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshot_EmptyLoad(t *testing.T) {
	var s Snapshot[map[string]int]
	v, ok := s.Load()
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestSnapshot_StoreLoad(t *testing.T) {
	var s Snapshot[map[string]int]
	s.Store(map[string]int{"a": 1})

	v, ok := s.Load()
	assert.True(t, ok)
	assert.Equal(t, 1, v["a"])

	s.Store(map[string]int{"b": 2})
	v, _ = s.Load()
	assert.Equal(t, 2, v["b"])
	assert.NotContains(t, v, "a")
}

func TestSnapshot_ConcurrentReaders(t *testing.T) {
	var s Snapshot[int]
	s.Store(0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				if _, ok := s.Load(); !ok {
					t.Error("snapshot disappeared")
					return
				}
			}
		}()
	}
	for i := 1; i <= 100; i++ {
		s.Store(i)
	}
	wg.Wait()
}
