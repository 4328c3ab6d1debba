package opengl

import (
	"github.com/pcercuei/openrw/engine/renderer"
)

// MaxDebugDepth is the maximum nesting of debug groups per frame.
const MaxDebugDepth = 5

// counterSnapshot captures the renderer counters at a point in time so a
// closing debug group can report the deltas accumulated inside it.
type counterSnapshot struct {
	primitives uint
	draws      uint
	textures   uint
	buffers    uint
	uploads    uint
}

// spanCollector receives begin/end notifications for debug groups. The
// renderer owns depth bookkeeping; collectors only record results.
type spanCollector interface {
	begin(depth int, title string, snap counterSnapshot)
	end(depth int, snap counterSnapshot) *renderer.ProfileInfo
}

// timingCollector records GPU timestamps and counter deltas into a fixed
// arena, one slot per nesting level. Returned ProfileInfo pointers stay
// valid until the same depth is pushed again.
type timingCollector struct {
	dev   Device
	spans [MaxDebugDepth]renderer.ProfileInfo
	open  [MaxDebugDepth]counterSnapshot
}

func (c *timingCollector) begin(depth int, title string, snap counterSnapshot) {
	c.open[depth] = snap
	c.spans[depth] = renderer.ProfileInfo{TimerStart: c.dev.Timestamp()}
}

func (c *timingCollector) end(depth int, snap counterSnapshot) *renderer.ProfileInfo {
	info := &c.spans[depth]
	info.Duration = c.dev.Timestamp() - info.TimerStart
	start := c.open[depth]
	info.Primitives = snap.primitives - start.primitives
	info.Draws = snap.draws - start.draws
	info.Textures = snap.textures - start.textures
	info.Buffers = snap.buffers - start.buffers
	info.Uploads = snap.uploads - start.uploads
	return info
}

// nopCollector keeps debug group nesting rules enforced without touching
// the driver. All spans read back as zero.
type nopCollector struct {
	empty renderer.ProfileInfo
}

func (c *nopCollector) begin(int, string, counterSnapshot) {}

func (c *nopCollector) end(int, counterSnapshot) *renderer.ProfileInfo {
	c.empty = renderer.ProfileInfo{}
	return &c.empty
}
