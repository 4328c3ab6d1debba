package opengl

import (
	"testing"

	"github.com/pcercuei/openrw/engine/renderer"
)

func TestDebugGroupCountsWork(t *testing.T) {
	r, _ := newTestRenderer(t, WithProfiling())
	buf := &stubBuffer{vao: 1}

	r.PushDebugGroup("Opaque")
	for i := 0; i < 3; i++ {
		drawWith(r, buf, func(p *renderer.DrawParameters) {
			p.Count = 30
			p.Textures = renderer.Textures{5, 0}
		})
	}
	info := r.PopDebugGroup()

	if info.Draws != 3 {
		t.Errorf("span draws = %d, want 3", info.Draws)
	}
	if info.Primitives != 90 {
		t.Errorf("span primitives = %d, want 90", info.Primitives)
	}
	if info.Textures != 1 {
		t.Errorf("span texture binds = %d, want 1", info.Textures)
	}
	if info.Buffers != 1 {
		t.Errorf("span buffer binds = %d, want 1", info.Buffers)
	}
	if info.Uploads != 3 {
		t.Errorf("span uploads = %d, want 3", info.Uploads)
	}
}

func TestDebugGroupTimesWithGPUClock(t *testing.T) {
	r, dev := newTestRenderer(t, WithProfiling())
	dev.clockStep = 250

	r.PushDebugGroup("Frame")
	info := r.PopDebugGroup()

	if info.TimerStart == 0 {
		t.Error("span has no start timestamp")
	}
	if info.Duration != 250 {
		t.Errorf("span duration = %d, want 250", info.Duration)
	}
}

func TestNestedDebugGroupsAccumulate(t *testing.T) {
	r, _ := newTestRenderer(t, WithProfiling())
	buf := &stubBuffer{vao: 1}

	r.PushDebugGroup("World")
	drawWith(r, buf, nil)

	r.PushDebugGroup("Water")
	drawWith(r, buf, nil)
	drawWith(r, buf, nil)
	inner := r.PopDebugGroup()

	drawWith(r, buf, nil)
	outer := r.PopDebugGroup()

	if inner.Draws != 2 {
		t.Errorf("inner span draws = %d, want 2", inner.Draws)
	}
	if outer.Draws != 4 {
		t.Errorf("outer span draws = %d, want 4", outer.Draws)
	}
}

func TestDebugGroupDepthLimit(t *testing.T) {
	r, _ := newTestRenderer(t, WithProfiling())

	for i := 0; i < MaxDebugDepth; i++ {
		r.PushDebugGroup("level")
	}

	defer func() {
		if recover() == nil {
			t.Error("push past the depth limit did not panic")
		}
	}()
	r.PushDebugGroup("too deep")
}

func TestPopWithoutPushPanics(t *testing.T) {
	r, _ := newTestRenderer(t, WithProfiling())

	defer func() {
		if recover() == nil {
			t.Error("pop with no open group did not panic")
		}
	}()
	r.PopDebugGroup()
}

func TestDisabledProfilingStillEnforcesNesting(t *testing.T) {
	r, dev := newTestRenderer(t)
	buf := &stubBuffer{vao: 1}

	r.PushDebugGroup("Frame")
	drawWith(r, buf, nil)
	info := r.PopDebugGroup()

	if *info != (renderer.ProfileInfo{}) {
		t.Errorf("disabled profiling returned data: %+v", *info)
	}
	if dev.clock != 0 {
		t.Error("disabled profiling read the GPU clock")
	}

	defer func() {
		if recover() == nil {
			t.Error("pop with no open group did not panic")
		}
	}()
	r.PopDebugGroup()
}
