package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	e := NoopExportHooks{}
	e.OnFileRejected(ctx, "clip.gif", nil)
	e.OnFileRegistered(ctx, "anim.json")
	e.OnRenderStart(ctx, "anim.json")
	e.OnFrameCaptured(ctx, "anim.json", 0, 3)
	e.OnRenderComplete(ctx, "anim.json", 3, time.Second, nil)
	e.OnExportComplete(ctx, "anim-frames.zip", 3, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "frames")
	c.OnCacheMiss(ctx, "script")
	c.OnCacheSet(ctx, "frames", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "unpkg.com", "/lottie-web/build/player/lottie_svg.min.js")
	h.OnResponse(ctx, "GET", "unpkg.com", "/", 200, time.Second)
	h.OnError(ctx, "GET", "unpkg.com", "/", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Export().(NoopExportHooks); !ok {
		t.Error("Export() should return NoopExportHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customExport := &testExportHooks{}
	SetExportHooks(customExport)
	if Export() != customExport {
		t.Error("SetExportHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Export().(NoopExportHooks); !ok {
		t.Error("Reset() should restore NoopExportHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testExportHooks{}
	SetExportHooks(custom)
	SetExportHooks(nil)

	if Export() != custom {
		t.Error("SetExportHooks(nil) should not replace registered hooks")
	}
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	h := &testExportHooks{}
	SetExportHooks(h)

	ctx := context.Background()
	Export().OnFrameCaptured(ctx, "a.json", 0, 2)
	Export().OnFrameCaptured(ctx, "a.json", 1, 2)

	if h.frames != 2 {
		t.Errorf("frames = %d, want 2", h.frames)
	}
}

type testExportHooks struct {
	NoopExportHooks
	frames int
}

func (h *testExportHooks) OnFrameCaptured(context.Context, string, int, int) { h.frames++ }

type testCacheHooks struct{ NoopCacheHooks }

type testHTTPHooks struct{ NoopHTTPHooks }
