package mocks

import (
	"context"
	"sync"

	"github.com/user/xplayer/pkg/ports"
)

// Prober returns a fixed ProbeResult.
type Prober struct {
	mu sync.Mutex

	ProberName string
	Result     ports.ProbeResult
	Err        error

	Calls int
}

func (m *Prober) Name() string {
	if m.ProberName == "" {
		return "mock"
	}
	return m.ProberName
}

func (m *Prober) Probe(ctx context.Context, location string) (ports.ProbeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	return m.Result, m.Err
}

var _ ports.MetadataProber = (*Prober)(nil)

// Resolver maps locations through ResolveFunc, or passes them through.
type Resolver struct {
	ResolveFunc func(ctx context.Context, location string) (ports.Resolved, error)
}

func (m *Resolver) Resolve(ctx context.Context, location string) (ports.Resolved, error) {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, location)
	}
	return ports.Resolved{Video: location, Audio: location}, nil
}

var _ ports.Resolver = (*Resolver)(nil)
