package provider

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/simgraph/simgraph/pkg/graph"
)

// StaticProvider serves a fixed in-memory dataset. It backs tests and the
// demo command, and doubles as a stand-in command channel whose
// regenerations complete instantly.
type StaticProvider struct {
	mu      sync.RWMutex
	dataset *graph.Dataset
	nextID  atomic.Uint64

	// LoadErr, when set, is returned by LoadGraph. Tests use it to drive
	// the transient-failure paths.
	LoadErr error
}

// NewStaticProvider creates a provider over the given dataset. The dataset
// is ingested (validated) once at construction.
func NewStaticProvider(ds *graph.Dataset) *StaticProvider {
	graph.Ingest(ds)
	return &StaticProvider{dataset: ds}
}

// SetDataset swaps the served dataset.
func (p *StaticProvider) SetDataset(ds *graph.Dataset) {
	graph.Ingest(ds)
	p.mu.Lock()
	p.dataset = ds
	p.mu.Unlock()
}

// LoadGraph returns the parameter-filtered view of the dataset.
func (p *StaticProvider) LoadGraph(ctx context.Context, params Params) (*graph.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.LoadErr != nil {
		return nil, p.LoadErr
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return applyParams(p.dataset, params), nil
}

// Regenerate pretends to schedule a recomputation and reports a zero-second
// estimate so AwaitRegeneration returns after just the buffer.
func (p *StaticProvider) Regenerate(ctx context.Context, params Params) (Task, error) {
	if err := ctx.Err(); err != nil {
		return Task{}, err
	}
	p.mu.RLock()
	count := len(p.dataset.Nodes)
	p.mu.RUnlock()
	return Task{
		TaskID:               fmt.Sprintf("static-%d", p.nextID.Add(1)),
		EstimatedTimeSeconds: 0,
		DocumentCount:        count,
	}, nil
}
