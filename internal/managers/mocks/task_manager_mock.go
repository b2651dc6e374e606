package mocks

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"server-yool/internal/managers"
)

// MockTaskManager records submitted tasks without running them.
// RunAll executes the recorded tasks synchronously.
type MockTaskManager struct {
	mock.Mock

	mu    sync.Mutex
	tasks []managers.Task
	names []string
}

func (m *MockTaskManager) Submit(ctx context.Context, name string, task managers.Task) bool {
	args := m.Called(ctx, name, task)

	m.mu.Lock()
	m.tasks = append(m.tasks, task)
	m.names = append(m.names, name)
	m.mu.Unlock()

	return args.Bool(0)
}

func (m *MockTaskManager) Shutdown(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Names returns the names of all submitted tasks in submission order.
func (m *MockTaskManager) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.names...)
}

// RunAll runs every recorded task with ctx and returns their errors.
func (m *MockTaskManager) RunAll(ctx context.Context) []error {
	m.mu.Lock()
	tasks := append([]managers.Task(nil), m.tasks...)
	m.tasks = nil
	m.mu.Unlock()

	var errs []error
	for _, task := range tasks {
		errs = append(errs, task(ctx))
	}
	return errs
}
