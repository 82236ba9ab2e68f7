package client

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/pkg/wire"
)

// Surface is one transparent raster layer. The drawing engine owns one for
// local strokes and the compositor owns another for remote strokes; the
// visible canvas is always local-under-remote.
type Surface struct {
	img *image.RGBA
}

// NewSurface creates a fully transparent surface.
func NewSurface(width, height int) *Surface {
	return &Surface{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

func (s *Surface) Bounds() image.Rectangle {
	return s.img.Bounds()
}

// Clone copies the surface pixels. Used for undo history capture.
func (s *Surface) Clone() *Surface {
	dst := image.NewRGBA(s.img.Bounds())
	copy(dst.Pix, s.img.Pix)
	return &Surface{img: dst}
}

// Restore overwrites this surface with another's pixels.
func (s *Surface) Restore(from *Surface) {
	if s.img.Bounds() != from.img.Bounds() {
		s.img = image.NewRGBA(from.img.Bounds())
	}
	copy(s.img.Pix, from.img.Pix)
}

// Clear resets every pixel to transparent.
func (s *Surface) Clear() {
	for i := range s.img.Pix {
		s.img.Pix[i] = 0
	}
}

// DrawSegment renders one stroke segment as a round brush swept from a to b.
func (s *Surface) DrawSegment(a, b wire.Position, hex string, width float64) {
	s.sweep(a, b, width, parseHexColor(hex), draw.Over)
}

// EraseSegment punches transparency along the segment. Erase is local-only:
// it is never emitted to other participants.
func (s *Surface) EraseSegment(a, b wire.Position, width float64) {
	s.sweep(a, b, width, color.RGBA{}, draw.Src)
}

func (s *Surface) sweep(a, b wire.Position, width float64, col color.RGBA, op draw.Op) {
	dx, dy := b.X-a.X, b.Y-a.Y
	dist := math.Hypot(dx, dy)
	steps := int(dist) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		s.stamp(a.X+dx*t, a.Y+dy*t, width/2, col, op)
	}
}

// stamp fills a disc of radius r centered at (cx, cy).
func (s *Surface) stamp(cx, cy, r float64, col color.RGBA, op draw.Op) {
	if r < 0.5 {
		r = 0.5
	}
	b := s.img.Bounds()
	x0 := int(math.Floor(cx - r))
	x1 := int(math.Ceil(cx + r))
	y0 := int(math.Floor(cy - r))
	y1 := int(math.Ceil(cy + r))

	for y := y0; y <= y1; y++ {
		if y < b.Min.Y || y >= b.Max.Y {
			continue
		}
		for x := x0; x <= x1; x++ {
			if x < b.Min.X || x >= b.Max.X {
				continue
			}
			fx, fy := float64(x)+0.5-cx, float64(y)+0.5-cy
			if fx*fx+fy*fy > r*r {
				continue
			}
			if op == draw.Src {
				s.img.SetRGBA(x, y, col)
			} else {
				s.img.SetRGBA(x, y, blend(s.img.RGBAAt(x, y), col))
			}
		}
	}
}

// blend composites src over dst (both non-premultiplied enough for an
// opaque brush; src alpha 255 simply replaces).
func blend(dst, src color.RGBA) color.RGBA {
	if src.A == 0xff {
		return src
	}
	sa := uint32(src.A)
	da := uint32(dst.A)
	outA := sa + da*(255-sa)/255
	if outA == 0 {
		return color.RGBA{}
	}
	mix := func(s, d uint8) uint8 {
		return uint8((uint32(s)*sa + uint32(d)*da*(255-sa)/255) / outA)
	}
	return color.RGBA{R: mix(src.R, dst.R), G: mix(src.G, dst.G), B: mix(src.B, dst.B), A: uint8(outA)}
}

// EncodePNG serializes the surface for snapshot push.
func (s *Surface) EncodePNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, s.img); err != nil {
		return nil, fmt.Errorf("failed to encode surface: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodePNG builds a surface from snapshot bytes.
func DecodePNG(data []byte) (*Surface, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return &Surface{img: rgba}, nil
}

// ReplaceScaled overwrites this surface with from, rescaling when the
// bounds differ (a snapshot taken on a differently sized canvas).
func (s *Surface) ReplaceScaled(from *Surface) {
	if s.img.Bounds() == from.img.Bounds() {
		copy(s.img.Pix, from.img.Pix)
		return
	}
	s.Clear()
	xdraw.ApproxBiLinear.Scale(s.img, s.img.Bounds(), from.img, from.img.Bounds(), xdraw.Src, nil)
}

// CompositeOver draws this surface over dst.
func (s *Surface) CompositeOver(dst *image.RGBA) {
	draw.Draw(dst, dst.Bounds(), s.img, s.img.Bounds().Min, draw.Over)
}

// At reports the pixel at (x, y). Test helper and presentation hook.
func (s *Surface) At(x, y int) color.RGBA {
	return s.img.RGBAAt(x, y)
}

// parseHexColor parses "#rrggbb" (or "#rgb"); anything unparseable comes
// out opaque black, matching the default ink.
func parseHexColor(hex string) color.RGBA {
	c := color.RGBA{A: 0xff}
	if len(hex) == 0 || hex[0] != '#' {
		return c
	}
	hexVal := func(b byte) (uint8, bool) {
		switch {
		case b >= '0' && b <= '9':
			return b - '0', true
		case b >= 'a' && b <= 'f':
			return b - 'a' + 10, true
		case b >= 'A' && b <= 'F':
			return b - 'A' + 10, true
		}
		return 0, false
	}
	switch len(hex) {
	case 7:
		for i, dst := range []*uint8{&c.R, &c.G, &c.B} {
			hi, ok1 := hexVal(hex[1+i*2])
			lo, ok2 := hexVal(hex[2+i*2])
			if !ok1 || !ok2 {
				return color.RGBA{A: 0xff}
			}
			*dst = hi<<4 | lo
		}
	case 4:
		for i, dst := range []*uint8{&c.R, &c.G, &c.B} {
			v, ok := hexVal(hex[1+i])
			if !ok {
				return color.RGBA{A: 0xff}
			}
			*dst = v<<4 | v
		}
	}
	return c
}
