package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"taskflow/internal/api"
	"taskflow/internal/config"
	"taskflow/internal/domain"
	"taskflow/internal/hints"
	"taskflow/internal/services"
	"taskflow/internal/store/memory"
	"taskflow/internal/timer"

	"github.com/stretchr/testify/require"
)

// testNow is a Tuesday noon, local time
var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.Local)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	app   *App
	api   api.BusinessAPI
	out   *bytes.Buffer
	store *memory.Store
	hints *hints.MemoryStore
	clock *testClock
}

// newTestAPI wires the real services and engine over a memory store
func newTestAPI(t *testing.T, s *memory.Store, hs hints.Store, clock *testClock) api.BusinessAPI {
	t.Helper()
	engine := timer.NewEngine(s, hs, timer.WithClock(clock.Now))
	container := services.NewServiceContainer(s, config.NewConfig(), clock.Now)
	return api.NewBusinessAPI(container, engine)
}

func setupTestApp(t *testing.T) *testEnv {
	t.Helper()
	clock := &testClock{now: testNow}
	s := memory.New(memory.WithClock(clock.Now))
	hs := hints.NewMemoryStore()
	t.Cleanup(func() { s.Close() })

	businessAPI := newTestAPI(t, s, hs, clock)
	out := &bytes.Buffer{}
	return &testEnv{
		app:   NewApp(businessAPI, config.NewConfig(), out),
		api:   businessAPI,
		out:   out,
		store: s,
		hints: hs,
		clock: clock,
	}
}

// addTask creates a task through the API
func (e *testEnv) addTask(t *testing.T, req api.AddTaskRequest) *domain.Task {
	t.Helper()
	task, err := e.api.AddTask(context.Background(), req)
	require.NoError(t, err)
	return task
}

// output returns and resets everything written so far
func (e *testEnv) output() string {
	s := e.out.String()
	e.out.Reset()
	return s
}

// failingAPI fails every call it overrides with err. Calls it does not
// override panic through the nil embedded interface.
type failingAPI struct {
	api.BusinessAPI
	err error
}

func (f *failingAPI) Now() time.Time { return testNow }

func (f *failingAPI) AddTask(context.Context, api.AddTaskRequest) (*domain.Task, error) {
	return nil, f.err
}

func (f *failingAPI) ListTasks(context.Context, api.TaskFilter) ([]*api.TaskView, error) {
	return nil, f.err
}

func (f *failingAPI) StartTimer(context.Context, string) (*api.TaskView, error) {
	return nil, f.err
}

func (f *failingAPI) ActiveTimers(context.Context) ([]domain.ActiveTimer, error) {
	return nil, f.err
}

func (f *failingAPI) GetSummary(context.Context) (*services.Summary, error) {
	return nil, f.err
}

func newFailingApp(err error) (*App, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return NewApp(&failingAPI{err: err}, config.NewConfig(), out), out
}
