package session

import (
	"context"
	"sync"

	"github.com/mhpenta/remix"
)

// MockGenerator is a mock implementation of remix.Generator.
type MockGenerator struct {
	GenerateFunc func(ctx context.Context, req remix.GenerationRequest) (*remix.GenerationResult, error)
	CloseFunc    func() error

	mu    sync.Mutex
	calls int
}

func (m *MockGenerator) Generate(ctx context.Context, req remix.GenerationRequest) (*remix.GenerationResult, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return &remix.GenerationResult{ImageURL: remix.DataURI("image/png", []byte("fake-image"))}, nil
}

func (m *MockGenerator) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

func (m *MockGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// blockingGenerator parks every call until release receives an outcome.
type blockingGenerator struct {
	MockGenerator
	started chan struct{}
	release chan outcome
}

type outcome struct {
	result *remix.GenerationResult
	err    error
}

func newBlockingGenerator() *blockingGenerator {
	g := &blockingGenerator{
		started: make(chan struct{}, 1),
		release: make(chan outcome, 1),
	}
	g.GenerateFunc = func(ctx context.Context, req remix.GenerationRequest) (*remix.GenerationResult, error) {
		g.started <- struct{}{}
		o := <-g.release
		return o.result, o.err
	}
	return g
}
