package factory

import (
	"context"
	"time"

	"github.com/clickonomy/clickonomy-go/internal/dependencies/mocks"
	"github.com/clickonomy/clickonomy-go/internal/model"
	"github.com/clickonomy/clickonomy-go/internal/scheduler"
	"github.com/clickonomy/clickonomy-go/internal/services/gate"
	"github.com/clickonomy/clickonomy-go/internal/services/market"
	"github.com/clickonomy/clickonomy-go/internal/storage/memory"
	"github.com/clickonomy/clickonomy-go/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// The clock only moves when a test advances it, and tick loops run off mock
// tickers that the test fires explicitly.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(
		store,
		mockClock,
		mockRandom,
		gate.DefaultConfig(),
		scheduler.DefaultConfig(),
		market.DefaultConfig(),
		testutil.NopLogger(),
	)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// SeedConfig writes a global config so tests exercise a stored config
// rather than the built-in defaults the scheduler falls back to.
func (t *TestApp) SeedConfig(cfg model.GlobalConfig) error {
	return t.Storage.SaveConfig(context.Background(), &cfg)
}

// RegisterPlayer creates an account through the gate and returns the
// login result, failing the setup on any error.
func (t *TestApp) RegisterPlayer(username, password string) (*gate.Result, error) {
	return t.GateService.Register(context.Background(), username, password, "")
}
