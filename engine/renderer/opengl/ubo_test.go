package opengl

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pcercuei/openrw/engine/core"
	"github.com/pcercuei/openrw/engine/renderer"
)

func TestUBOEntrySizeAligned(t *testing.T) {
	dev := newFakeDevice()
	dev.offsetAlignment = 64
	r, err := New(dev)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if r.uboObject.entrySize%64 != 0 {
		t.Errorf("object entry size %d not aligned to 64", r.uboObject.entrySize)
	}
	if r.uboObject.entrySize < uint32(objectDataSize) {
		t.Errorf("object entry size %d smaller than the uniform data", r.uboObject.entrySize)
	}
	if want := int(r.uboObject.entrySize) * int(r.uboObject.entryCount); r.uboObject.bufferSize != want {
		t.Errorf("buffer size %d, want %d", r.uboObject.bufferSize, want)
	}
}

func TestUBORingWrapsAround(t *testing.T) {
	const entries = 4
	r, dev := newTestRenderer(t, WithObjectRingEntries(entries))
	buf := &stubBuffer{vao: 1}

	for i := 0; i < entries+1; i++ {
		drawWith(r, buf, nil)
	}

	if got := len(dev.uboSubData); got != entries+1 {
		t.Fatalf("got %d uploads, want %d", got, entries+1)
	}
	stride := int(r.uboObject.entrySize)
	wantOffsets := []int{0, stride, 2 * stride, 3 * stride, 0}
	for i, want := range wantOffsets {
		if dev.uboSubData[i].offset != want {
			t.Errorf("upload %d at offset %d, want %d", i, dev.uboSubData[i].offset, want)
		}
	}
	if r.uboObject.currentEntry != 1 {
		t.Errorf("cursor at %d after wrap, want 1", r.uboObject.currentEntry)
	}
}

func TestDrawBindsObjectRangeAtUploadOffset(t *testing.T) {
	r, dev := newTestRenderer(t, WithObjectRingEntries(4))
	buf := &stubBuffer{vao: 1}

	drawWith(r, buf, nil)
	drawWith(r, buf, nil)

	if got := len(dev.uboRangeBinds); got != 2 {
		t.Fatalf("got %d range binds, want 2", got)
	}
	for i, rb := range dev.uboRangeBinds {
		if rb.binding != ObjectBlockBinding {
			t.Errorf("bind %d at point %d, want %d", i, rb.binding, ObjectBlockBinding)
		}
		if rb.buffer != r.uboObject.name {
			t.Errorf("bind %d targets buffer %d, want %d", i, rb.buffer, r.uboObject.name)
		}
		if rb.offset != dev.uboSubData[i].offset {
			t.Errorf("bind %d at offset %d, upload was at %d", i, rb.offset, dev.uboSubData[i].offset)
		}
		if rb.size != int(r.uboObject.entrySize) {
			t.Errorf("bind %d of size %d, want %d", i, rb.size, r.uboObject.entrySize)
		}
	}
}

func TestSceneParametersUploadAndBind(t *testing.T) {
	r, dev := newTestRenderer(t)

	scene := renderer.NewSceneUniformData()
	scene.CamPos = mgl32.Vec4{1, 2, 3, 1}
	scene.FogStart = 18
	r.SetSceneParameters(scene)

	if got := len(dev.uboSubData); got != 1 {
		t.Fatalf("got %d uploads, want 1", got)
	}
	if dev.uboSubData[0].offset != 0 {
		t.Errorf("scene upload at offset %d, want 0", dev.uboSubData[0].offset)
	}
	if got := len(dev.uboRangeBinds); got != 1 {
		t.Fatalf("got %d range binds, want 1", got)
	}
	rb := dev.uboRangeBinds[0]
	if rb.binding != SceneBlockBinding || rb.buffer != r.uboScene.name {
		t.Errorf("scene bound to point %d buffer %d", rb.binding, rb.buffer)
	}
	if r.SceneData().FogStart != 18 {
		t.Errorf("scene data not retained")
	}
}

func TestUBOBindCached(t *testing.T) {
	r, dev := newTestRenderer(t)
	buf := &stubBuffer{vao: 1}

	// The object ring is still bound from construction, so repeat draws
	// cost no binds at all.
	binds := len(dev.uboBinds)
	drawWith(r, buf, nil)
	drawWith(r, buf, nil)

	if got := len(dev.uboBinds) - binds; got != 0 {
		t.Errorf("got %d uniform buffer binds for two draws, want 0", got)
	}

	// Switching to the scene buffer and back costs one bind each.
	r.SetSceneParameters(renderer.NewSceneUniformData())
	drawWith(r, buf, nil)

	if got := len(dev.uboBinds) - binds; got != 2 {
		t.Errorf("got %d uniform buffer binds, want 2", got)
	}
}

func TestNewFailsWhenAllocationFails(t *testing.T) {
	dev := newFakeDevice()
	dev.failAlloc = true

	if _, err := New(dev); !errors.Is(err, core.ErrBufferAllocation) {
		t.Errorf("New error = %v, want buffer allocation failure", err)
	}
}

func TestUniformDataSizes(t *testing.T) {
	// The std140 mirrors must keep their block sizes; shaders declare the
	// same layout.
	if sceneDataSize != 208 {
		t.Errorf("scene uniform block is %d bytes, want 208", sceneDataSize)
	}
	if objectDataSize != 96 {
		t.Errorf("object uniform block is %d bytes, want 96", objectDataSize)
	}
}
