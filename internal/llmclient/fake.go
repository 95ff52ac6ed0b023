package llmclient

import (
	"context"
	"fmt"
	"sync"
)

// FakeClient returns deterministic markdown for offline runs and tests.
type FakeClient struct {
	mu sync.Mutex
	n  int
}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) Generate(ctx context.Context, systemPrompt string) (string, error) {
	f.mu.Lock()
	f.n++
	n := f.n
	f.mu.Unlock()
	return fmt.Sprintf(
		"## Offline Report\n\nRound %d output produced without a model call.\n\n"+
			"### Notes\n\nNo dependency data was inspected.", n), nil
}
