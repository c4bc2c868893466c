package batch

import (
	"context"
	"fmt"
	"runtime"
	"sync"
)

// DefaultWorkers sizes the stage worker pool to the available parallelism
// minus two, leaving headroom for the orchestrating goroutine and I/O, with
// a floor of one.
func DefaultWorkers() int {
	n := runtime.NumCPU() - 2
	if n < 1 {
		n = 1
	}
	return n
}

// forEach fans the per-index fn out across a fixed-size worker pool and
// waits for every index to complete (full fan-out/fan-in barrier). A panic
// inside fn is recovered and returned to the caller as an error for that
// index via onPanic; it never takes down the batch. Context cancellation
// stops the feed; in-flight indices still finish.
func forEach(ctx context.Context, workers, n int, fn func(i int), onPanic func(i int, err error)) {
	if workers < 1 {
		workers = 1
	}

	idx := make(chan int)
	var wg sync.WaitGroup

	run := func(i int) {
		defer func() {
			if r := recover(); r != nil {
				onPanic(i, fmt.Errorf("panic: %v", r))
			}
		}()
		fn(i)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idx {
				run(i)
			}
		}()
	}

	for i := 0; i < n; i++ {
		select {
		case idx <- i:
		case <-ctx.Done():
			close(idx)
			wg.Wait()
			return
		}
	}
	close(idx)
	wg.Wait()
}
