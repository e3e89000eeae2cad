package worker

import (
	"context"
	"sync"
)

// Task is one unit of work. Index is assigned by Run from the task's position.
type Task struct {
	Index int
	Path  string
}

// Result carries a task's outcome. A failed task has Err set; it never stops the pool.
type Result struct {
	Task
	Output string
	Size   int
	Err    error
}

// Handler processes a single task. It runs concurrently on every engine.
type Handler func(ctx context.Context, task Task) Result

// Pool runs a Handler over a list of tasks on a fixed number of engines.
type Pool struct {
	engines int
	handle  Handler
}

// NewPool creates a pool with the given number of engines (at least one).
func NewPool(engines int, handle Handler) *Pool {
	if engines < 1 {
		engines = 1
	}
	return &Pool{engines: engines, handle: handle}
}

// Engines returns the number of concurrent handlers.
func (p *Pool) Engines() int { return p.engines }

// Run dispatches tasks to the engines and returns their results in task order.
// Cancelling ctx stops dispatch; tasks already dispatched still report a result.
// The caller must drain the returned channel.
func (p *Pool) Run(ctx context.Context, tasks []Task) <-chan Result {
	taskChan := make(chan Task, p.engines)
	resultsChan := make(chan Result, p.engines*2)
	ordered := make(chan Result)
	var wg sync.WaitGroup

	// Aggregator: runs concurrently to prevent deadlock on resultsChan
	go func() {
		reorder(resultsChan, ordered)
		close(ordered)
	}()

	for i := 0; i < p.engines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range taskChan {
				if err := ctx.Err(); err != nil {
					resultsChan <- Result{Task: task, Err: err}
					continue
				}
				res := p.handle(ctx, task)
				res.Task = task
				resultsChan <- res
			}
		}()
	}

	go func() {
		defer func() {
			close(taskChan)
			wg.Wait()
			close(resultsChan)
		}()
		for i, task := range tasks {
			task.Index = i
			select {
			case <-ctx.Done():
				return
			case taskChan <- task:
			}
		}
	}()

	return ordered
}

// reorder emits results in strict index order. Engine 2 may finish before engine 1.
func reorder(results <-chan Result, out chan<- Result) {
	buffer := make(map[int]Result)
	next := 0
	for res := range results {
		buffer[res.Index] = res
		for {
			r, ok := buffer[next]
			if !ok {
				break
			}
			delete(buffer, next)
			out <- r
			next++
		}
	}
}
