package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Router hooks
	r := NoopRouterHooks{}
	r.OnOrderingStart(ctx, 0, []string{"net_gnd", "net_sig"})
	r.OnNetRouted(ctx, "net_gnd")
	r.OnNetDeferred(ctx, "net_sig")
	r.OnRipUp(ctx, "net_gnd", "net_sig")
	r.OnComplete(ctx, "success", nil)

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnLoadStart(ctx, "board.json")
	p.OnLoadComplete(ctx, "board.json", 12, time.Second, nil)
	p.OnRouteStart(ctx, "demo-board", 12)
	p.OnRouteComplete(ctx, "demo-board", time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "result")
	c.OnCacheMiss(ctx, "render")
	c.OnCacheSet(ctx, "result", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Router().(NoopRouterHooks); !ok {
		t.Error("Router() should return NoopRouterHooks by default")
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	// Set custom hooks
	customRouter := &testRouterHooks{}
	SetRouterHooks(customRouter)
	if Router() != customRouter {
		t.Error("SetRouterHooks should set custom hooks")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Router().(NoopRouterHooks); !ok {
		t.Error("Reset() should restore NoopRouterHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testRouterHooks{}
	SetRouterHooks(custom)

	// Setting nil should be ignored
	SetRouterHooks(nil)

	if Router() != custom {
		t.Error("SetRouterHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testRouterHooks struct{ NoopRouterHooks }
type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
