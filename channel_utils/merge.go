package channel_utils

import (
	"sync"

	"github.com/shakedma/avatar-pipeline/application/ports/outbound"
)

// MergeChannels fans the given channels into one, draining each on the
// worker pool. The merged channel closes once every input is closed.
// A drain rejected by a saturated pool runs on its own goroutine, so no
// input channel is ever left undrained and no value is lost.
func MergeChannels[T any](workerPool outbound.TaskDispatcher, channels ...<-chan T) <-chan T {
	var wg sync.WaitGroup
	merged := make(chan T)

	wg.Add(len(channels))
	for _, c := range channels {
		ch := c
		drain := func() {
			defer wg.Done()
			for val := range ch {
				merged <- val
			}
		}
		if err := workerPool.Submit(drain); err != nil {
			go drain()
		}
	}

	closer := func() {
		wg.Wait()
		close(merged)
	}
	if err := workerPool.Submit(closer); err != nil {
		go closer()
	}

	return merged
}
