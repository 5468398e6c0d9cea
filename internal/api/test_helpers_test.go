package api

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/topicline/research-service/internal/config"
	"github.com/topicline/research-service/internal/events"
	"github.com/topicline/research-service/internal/store"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateTask(ctx context.Context, task store.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockStore) GetTask(ctx context.Context, taskID string) (*store.Task, error) {
	args := m.Called(ctx, taskID)
	if value := args.Get(0); value != nil {
		return value.(*store.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) ListTasks(ctx context.Context) ([]store.Task, error) {
	args := m.Called(ctx)
	var result []store.Task
	if value := args.Get(0); value != nil {
		result = value.([]store.Task)
	}
	return result, args.Error(1)
}

type MockReports struct {
	mock.Mock
}

func (m *MockReports) Put(ctx context.Context, key string, text string) error {
	args := m.Called(ctx, key, text)
	return args.Error(0)
}

func (m *MockReports) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockReports) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockReports) Bucket() string {
	args := m.Called()
	return args.String(0)
}

type MockResearcher struct {
	mock.Mock
}

func (m *MockResearcher) Research(ctx context.Context, topic string) (string, error) {
	args := m.Called(ctx, topic)
	return args.String(0), args.Error(1)
}

type MockBroker struct {
	mock.Mock
}

func (m *MockBroker) Publish(event events.TaskEvent) {
	m.Called(event)
}

func (m *MockBroker) Subscribe(ctx context.Context, taskID string) <-chan events.TaskEvent {
	args := m.Called(ctx, taskID)
	if value := args.Get(0); value != nil {
		return value.(<-chan events.TaskEvent)
	}
	return nil
}

// quietBroker swallows lifecycle events in tests that don't assert on them.
type quietBroker struct{}

func (quietBroker) Publish(event events.TaskEvent) {}

func (quietBroker) Subscribe(ctx context.Context, taskID string) <-chan events.TaskEvent {
	ch := make(chan events.TaskEvent)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch
}

func validTestConfig() config.Config {
	return config.Config{
		GeminiAPIKey: "gemini-key",
		SerpAPIKey:   "serp-key",
		S3Bucket:     "research-reports",
		PostgresURL:  "postgres://example/research",
	}
}

func newTestServer(t *testing.T, taskStore store.Store, reportStore *MockReports, researcher Researcher, broker Broker, cfg config.Config) *httptest.Server {
	t.Helper()
	if broker == nil {
		broker = quietBroker{}
	}
	server := httptest.NewServer(NewServer(taskStore, reportStore, researcher, broker, cfg).Router())
	t.Cleanup(server.Close)
	return server
}
