package embeddings

import (
	"context"
	"fmt"
	"sync"
)

// Lazy defers construction of an Embedder until its first use, so the process
// does not pay model/client setup cost at startup and concurrent first
// callers trigger exactly one load. A failed load is sticky: every later call
// returns the same error.
type Lazy struct {
	construct func() (Embedder, error)
	name      string
	dims      int

	once    sync.Once
	inner   Embedder
	initErr error
}

// NewLazy wraps a constructor. name and dims are reported before the inner
// embedder exists; they must match what the constructor produces.
func NewLazy(name string, dims int, construct func() (Embedder, error)) *Lazy {
	return &Lazy{construct: construct, name: name, dims: dims}
}

func (l *Lazy) get() (Embedder, error) {
	l.once.Do(func() {
		l.inner, l.initErr = l.construct()
	})
	if l.initErr != nil {
		return nil, fmt.Errorf("embedder init: %w", l.initErr)
	}
	return l.inner, nil
}

func (l *Lazy) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	e, err := l.get()
	if err != nil {
		return nil, err
	}
	return e.Embed(ctx, texts)
}

func (l *Lazy) Dimensions() int { return l.dims }

func (l *Lazy) Name() string { return l.name }
