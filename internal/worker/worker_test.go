package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTasks(n int) []Task {
	tasks := make([]Task, n)
	for i := range tasks {
		tasks[i] = Task{Path: fmt.Sprintf("img-%02d.png", i)}
	}
	return tasks
}

func collect(ch <-chan Result) []Result {
	var out []Result
	for r := range ch {
		out = append(out, r)
	}
	return out
}

func TestPoolPreservesOrder(t *testing.T) {
	// Later tasks finish first, so the aggregator has to buffer them.
	p := NewPool(4, func(ctx context.Context, task Task) Result {
		time.Sleep(time.Duration(20-task.Index) * time.Millisecond)
		return Result{Output: task.Path + ".jxl", Size: task.Index}
	})

	results := collect(p.Run(context.Background(), makeTasks(20)))
	require.Len(t, results, 20)
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, fmt.Sprintf("img-%02d.png", i), r.Path, "task is carried into the result")
		assert.Equal(t, r.Path+".jxl", r.Output)
		assert.NoError(t, r.Err)
	}
}

func TestPoolCarriesErrors(t *testing.T) {
	boom := errors.New("corrupt input")
	p := NewPool(2, func(ctx context.Context, task Task) Result {
		if task.Index%3 == 0 {
			return Result{Err: boom}
		}
		return Result{Output: "ok"}
	})

	results := collect(p.Run(context.Background(), makeTasks(7)))
	require.Len(t, results, 7, "a failed task must not stop the pool")
	for _, r := range results {
		if r.Index%3 == 0 {
			assert.ErrorIs(t, r.Err, boom)
		} else {
			assert.NoError(t, r.Err)
		}
	}
}

func TestPoolBoundsConcurrency(t *testing.T) {
	var running, peak atomic.Int32
	p := NewPool(3, func(ctx context.Context, task Task) Result {
		n := running.Add(1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		running.Add(-1)
		return Result{}
	})

	collect(p.Run(context.Background(), makeTasks(30)))
	assert.LessOrEqual(t, peak.Load(), int32(3))
	assert.Equal(t, 3, p.Engines())
}

func TestPoolStopsDispatchOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var handled atomic.Int32
	p := NewPool(1, func(ctx context.Context, task Task) Result {
		if handled.Add(1) == 2 {
			cancel()
		}
		return Result{}
	})

	results := collect(p.Run(ctx, makeTasks(100)))
	assert.Less(t, len(results), 100)
	assert.LessOrEqual(t, handled.Load(), int32(len(results)))
	for i, r := range results {
		assert.Equal(t, i, r.Index, "results stay contiguous after cancellation")
	}
}

func TestNewPoolClampsEngines(t *testing.T) {
	assert.Equal(t, 1, NewPool(0, nil).Engines())
	assert.Equal(t, 1, NewPool(-4, nil).Engines())
}

func TestPoolEmptyInput(t *testing.T) {
	p := NewPool(2, func(ctx context.Context, task Task) Result { return Result{} })
	assert.Empty(t, collect(p.Run(context.Background(), nil)))
}
