package managers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"server-yool/internal/utils"
)

// Task is a best-effort unit of work detached from the request that scheduled it.
type Task func(ctx context.Context) error

// TaskMgr runs detached tasks. Their outcome never reaches the caller.
type TaskMgr interface {
	// Submit enqueues task without blocking. It reports false when the task was
	// dropped because the queue is full or the manager is shut down.
	Submit(ctx context.Context, name string, task Task) bool
	// Shutdown stops accepting tasks and waits for queued ones until ctx is done.
	Shutdown(ctx context.Context) error
}

type namedTask struct {
	ctx  context.Context
	name string
	run  Task
}

// TaskManager is a fixed size worker pool over a buffered queue.
type TaskManager struct {
	queue   chan namedTask
	timeout time.Duration
	group   *errgroup.Group

	mu     sync.RWMutex
	closed bool
}

var tasksTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "detached_tasks_total",
		Help: "Detached tasks by name and result (ok, error, panic, dropped).",
	},
	[]string{"name", "result"},
)

func init() {
	prometheus.MustRegister(tasksTotal)
}

// NewTaskManager starts workers goroutines consuming a queue of queueSize tasks.
// Every task runs with its own timeout.
func NewTaskManager(workers, queueSize int, timeout time.Duration) TaskMgr {
	log.Info("Initializing task manager")
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}

	tm := &TaskManager{
		queue:   make(chan namedTask, queueSize),
		timeout: timeout,
		group:   &errgroup.Group{},
	}

	for i := 0; i < workers; i++ {
		tm.group.Go(func() error {
			for task := range tm.queue {
				tm.execute(task)
			}
			return nil
		})
	}
	return tm
}

// Submit enqueues a task. ctx only contributes its values (trace id), never its cancellation.
func (tm *TaskManager) Submit(ctx context.Context, name string, task Task) bool {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	if tm.closed {
		utils.LogMessageWithFields(ctx, "warn", "Task manager shut down, dropping task "+name)
		tasksTotal.WithLabelValues(name, "dropped").Inc()
		return false
	}

	select {
	case tm.queue <- namedTask{ctx: ctx, name: name, run: task}:
		return true
	default:
		utils.LogMessageWithFields(ctx, "warn", "Task queue full, dropping task "+name)
		tasksTotal.WithLabelValues(name, "dropped").Inc()
		return false
	}
}

func (tm *TaskManager) execute(task namedTask) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(task.ctx), tm.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			utils.LogMessageWithFieldsAndError(ctx, "error", "Task "+task.name+" panicked", fmt.Errorf("%v", r))
			tasksTotal.WithLabelValues(task.name, "panic").Inc()
		}
	}()

	if err := task.run(ctx); err != nil {
		utils.LogMessageWithFieldsAndError(ctx, "warn", "Task "+task.name+" failed", err)
		tasksTotal.WithLabelValues(task.name, "error").Inc()
		return
	}
	utils.LogMessageWithFields(ctx, "debug", "Task "+task.name+" done")
	tasksTotal.WithLabelValues(task.name, "ok").Inc()
}

// Shutdown closes the queue and waits for the workers to drain it.
func (tm *TaskManager) Shutdown(ctx context.Context) error {
	tm.mu.Lock()
	if !tm.closed {
		tm.closed = true
		close(tm.queue)
	}
	tm.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- tm.group.Wait()
	}()

	select {
	case err := <-done:
		log.Info("Task manager drained")
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
