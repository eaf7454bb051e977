package embeddings

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

type staticEmbedder struct{}

func (staticEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{1, 0, 0}
	}
	return out, nil
}

func (staticEmbedder) Dimensions() int { return 3 }
func (staticEmbedder) Name() string    { return "static" }

func TestLazy_ConstructsOnce(t *testing.T) {
	var constructed atomic.Int32
	lazy := NewLazy("static", 3, func() (Embedder, error) {
		constructed.Add(1)
		return staticEmbedder{}, nil
	})

	if constructed.Load() != 0 {
		t.Fatal("constructor must not run before first use")
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := lazy.Embed(context.Background(), []string{"x"}); err != nil {
				t.Errorf("Embed: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := constructed.Load(); n != 1 {
		t.Fatalf("constructor ran %d times, want 1", n)
	}
}

func TestLazy_StickyError(t *testing.T) {
	var constructed atomic.Int32
	lazy := NewLazy("broken", 3, func() (Embedder, error) {
		constructed.Add(1)
		return nil, errors.New("no api key")
	})

	for i := 0; i < 3; i++ {
		if _, err := lazy.Embed(context.Background(), []string{"x"}); err == nil {
			t.Fatal("expected sticky init error")
		}
	}
	if n := constructed.Load(); n != 1 {
		t.Fatalf("constructor ran %d times, want 1", n)
	}
}

func TestLazy_ReportsNameAndDims(t *testing.T) {
	lazy := NewLazy("static", 3, func() (Embedder, error) { return staticEmbedder{}, nil })
	if lazy.Name() != "static" || lazy.Dimensions() != 3 {
		t.Errorf("Name=%q Dimensions=%d", lazy.Name(), lazy.Dimensions())
	}
}
