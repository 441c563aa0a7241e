package levels

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformphys/common"
	"github.com/milk9111/platformphys/physics"
)

// TileRect is a run of same-kind tiles, in tile units.
type TileRect struct {
	Kind       int
	X, Y, W, H int
}

// BB returns the rectangle in pixels.
func (r TileRect) BB(tile float64) cp.BB {
	x0 := float64(r.X) * tile
	y0 := float64(r.Y) * tile
	return cp.BB{L: x0, B: y0, R: x0 + float64(r.W)*tile, T: y0 + float64(r.H)*tile}
}

func tileKind(v int) int {
	switch v {
	case TileEmpty, TileHazard, TileSemiSolid:
		return v
	default:
		return TileSolid
	}
}

// Rects collects the collision rectangles of every physics layer. With
// merge set, solid tiles are merged greedily into the widest then tallest
// rectangles and semi-solid tiles into horizontal runs; hazards always stay
// one per tile.
func (l *Level) Rects(merge bool) []TileRect {
	var out []TileRect
	for _, layer := range l.PhysicsLayers() {
		out = append(out, l.processLayerTiles(layer, merge)...)
	}
	return out
}

func (l *Level) processLayerTiles(layer []int, merge bool) []TileRect {
	var out []TileRect
	processed := make([]bool, l.Width*l.Height)
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			idx := y*l.Width + x
			if processed[idx] {
				continue
			}
			kind := tileKind(layer[idx])
			if kind == TileEmpty {
				processed[idx] = true
				continue
			}
			if !merge || kind == TileHazard {
				out = append(out, TileRect{Kind: kind, X: x, Y: y, W: 1, H: 1})
				processed[idx] = true
				continue
			}

			same := func(i int) bool {
				return !processed[i] && tileKind(layer[i]) == kind
			}

			w := 1
			for x+w < l.Width && same(y*l.Width+x+w) {
				w++
			}

			h := 1
			if kind == TileSolid {
			heightLoop:
				for y+h < l.Height {
					for xi := x; xi < x+w; xi++ {
						if !same((y+h)*l.Width + xi) {
							break heightLoop
						}
					}
					h++
				}
			}

			for yy := y; yy < y+h; yy++ {
				for xx := x; xx < x+w; xx++ {
					processed[yy*l.Width+xx] = true
				}
			}
			out = append(out, TileRect{Kind: kind, X: x, Y: y, W: w, H: h})
		}
	}
	return out
}

// StaticBodies builds one static body per collision rectangle.
func (l *Level) StaticBodies(merge bool) []*physics.Body {
	tile := l.Tile()
	rects := l.Rects(merge)
	out := make([]*physics.Body, 0, len(rects))
	for _, r := range rects {
		bb := r.BB(tile)
		b := physics.NewBody(common.Vec(bb.L, bb.B), common.Vec(bb.R-bb.L, bb.T-bb.B))
		switch r.Kind {
		case TileHazard:
			b.Name = "hazard"
			b.Solid = false
			b.ResolveCollisions = false
		case TileSemiSolid:
			b.Name = "semi_solid"
			b.Solid = false
			b.SemiSolid = true
		default:
			b.Name = "tile"
		}
		out = append(out, b)
	}
	return out
}
