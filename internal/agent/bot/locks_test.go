package bot

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSenderLocks(t *testing.T) {
	locks := newSenderLocks()
	keys := []string{"a", "b", "c"}
	counters := map[string]*int{"a": new(int), "b": new(int), "c": new(int)}

	var wg sync.WaitGroup
	for i := 0; i < 99; i++ {
		key := keys[i%3]
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock(key)
			defer unlock()
			*counters[key]++
		}()
	}
	wg.Wait()

	for _, k := range keys {
		require.Equal(t, 33, *counters[k])
	}
	require.Zero(t, locks.size())
}
