package observability

import (
	"context"
	"testing"
	"time"
)

type recordingGenerateHooks struct {
	NoopGenerateHooks
	loads int
	emits int
}

func (h *recordingGenerateHooks) OnLoadStart(context.Context, string) { h.loads++ }
func (h *recordingGenerateHooks) OnEmitComplete(context.Context, string, int, time.Duration, error) {
	h.emits++
}

type recordingCacheHooks struct {
	NoopCacheHooks
	hits int
}

func (h *recordingCacheHooks) OnCacheHit(context.Context, string) { h.hits++ }

func TestHookRegistry(t *testing.T) {
	t.Cleanup(Reset)

	gen := &recordingGenerateHooks{}
	SetGenerateHooks(gen)
	Generate().OnLoadStart(context.Background(), "driver")
	Generate().OnEmitComplete(context.Background(), "generated", 3, time.Second, nil)
	if gen.loads != 1 || gen.emits != 1 {
		t.Errorf("recorded loads=%d emits=%d, want 1 and 1", gen.loads, gen.emits)
	}

	ch := &recordingCacheHooks{}
	SetCacheHooks(ch)
	Cache().OnCacheHit(context.Background(), "schema")
	if ch.hits != 1 {
		t.Errorf("recorded hits=%d, want 1", ch.hits)
	}
}

func TestSetNilKeepsCurrent(t *testing.T) {
	t.Cleanup(Reset)

	gen := &recordingGenerateHooks{}
	SetGenerateHooks(gen)
	SetGenerateHooks(nil)
	Generate().OnLoadStart(context.Background(), "driver")
	if gen.loads != 1 {
		t.Error("nil registration replaced the active hooks")
	}
}

func TestReset(t *testing.T) {
	gen := &recordingGenerateHooks{}
	SetGenerateHooks(gen)
	Reset()
	if _, ok := Generate().(NoopGenerateHooks); !ok {
		t.Error("Reset() did not restore no-op generate hooks")
	}
	if _, ok := Driver().(NoopDriverHooks); !ok {
		t.Error("Reset() did not restore no-op driver hooks")
	}
}
