package client

import (
	"image"

	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/pkg/wire"
)

// Compositor owns the remote surface, written exclusively by inbound
// stroke events from other participants, and composites it over the local
// (base) surface after every change. Whichever surface painted most
// recently visually dominates: that per-move recomposite is the whole
// conflict resolution mechanism.
type Compositor struct {
	base   *Surface
	remote *Surface
	gests  map[string]wire.Position // origin user ID -> last position

	// OnFrame, when set, receives the recomposited visible canvas after
	// every change. The presentation layer renders it; the compositor only
	// guarantees delivery.
	OnFrame func(*image.RGBA)
}

// NewCompositor layers a fresh remote surface over base. base is the same
// surface the local engine draws on; inbound snapshots replace it.
func NewCompositor(base *Surface) *Compositor {
	b := base.Bounds()
	return &Compositor{
		base:   base,
		remote: NewSurface(b.Dx(), b.Dy()),
		gests:  make(map[string]wire.Position),
	}
}

// Apply renders one inbound stroke event onto the remote surface. Gesture
// state is keyed by origin user, so interleaved gestures from different
// participants stay independent. Erase events never arrive here by router
// contract; an unknown phase is dropped.
func (c *Compositor) Apply(ev wire.StrokeEvent) {
	switch ev.Phase {
	case wire.StrokeStart:
		c.gests[ev.UserID] = ev.Pos

	case wire.StrokeMove:
		from, ok := c.gests[ev.UserID]
		if !ok {
			// Move without a start (joined mid-gesture): treat as start.
			c.gests[ev.UserID] = ev.Pos
			return
		}
		c.remote.DrawSegment(from, ev.Pos, ev.Color, ev.Width)
		c.gests[ev.UserID] = ev.Pos
		c.recomposite()

	case wire.StrokeEnd:
		if from, ok := c.gests[ev.UserID]; ok {
			c.remote.DrawSegment(from, ev.Pos, ev.Color, ev.Width)
			delete(c.gests, ev.UserID)
		}
		c.recomposite()
	}
}

// ApplySnapshot replaces the base surface entirely with the decoded raster
// and recomposites. The remote surface is left untouched: strokes that
// arrived alongside the snapshot stay on top.
func (c *Compositor) ApplySnapshot(data []byte) error {
	decoded, err := DecodePNG(data)
	if err != nil {
		return err
	}
	c.base.ReplaceScaled(decoded)
	c.recomposite()
	return nil
}

// ApplyClear wipes both layers, mirroring the shared clear directive.
func (c *Compositor) ApplyClear() {
	c.base.Clear()
	c.remote.Clear()
	c.gests = make(map[string]wire.Position)
	c.recomposite()
}

// Visible composites local-under-remote into a fresh image.
func (c *Compositor) Visible() *image.RGBA {
	out := image.NewRGBA(c.base.Bounds())
	c.base.CompositeOver(out)
	c.remote.CompositeOver(out)
	return out
}

// Remote exposes the remote surface for inspection.
func (c *Compositor) Remote() *Surface {
	return c.remote
}

func (c *Compositor) recomposite() {
	if c.OnFrame != nil {
		c.OnFrame(c.Visible())
	}
}
