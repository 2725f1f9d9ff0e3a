package factory

import (
	"time"

	"github.com/jeyoh/moneyball/internal/dependencies/mocks"
	"github.com/jeyoh/moneyball/internal/model"
	"github.com/jeyoh/moneyball/internal/storage/memory"
	"github.com/jeyoh/moneyball/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App with in-memory storage and mocked dependencies
func NewTestApp(names ...string) *TestApp {
	if len(names) == 0 {
		names = []string{"alice", "bob", "carol"}
	}
	roster := model.NewRoster(names)
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies("!", roster, memory.New(), mockClock, mockRandom, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
