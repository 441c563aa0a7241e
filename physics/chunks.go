package physics

import (
	"math"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformphys/common"
)

// ChunkCoord addresses a grid cell.
type ChunkCoord struct {
	X, Y int
}

type chunkEntry struct {
	cells []int
	pos   common.Vector2
	size  common.Vector2
}

// Chunks is a uniform grid spatial index. Cells hold references to the
// bodies overlapping them; a side cache keyed by body id records the cells
// each body occupies so removal only touches those cells.
//
// Tracked bodies live in a sparse set keyed by handles local to the index.
// Handles of permanently removed bodies are reused, so the set stays as
// large as the most bodies ever tracked at once.
//
// Cells are stored row-major (cells[y*cols+x]).
type Chunks struct {
	bounds    common.Vector2
	chunkSize float64
	cols      int
	rows      int

	cells   [][]*Body
	cache   map[BodyID]*chunkEntry
	objects SparseSet[*Body]
	handles map[BodyID]int
	free    []int
	next    int
}

// NewChunks creates an index covering bounds.
func NewChunks(bounds common.Vector2, chunkSize float64) *Chunks {
	c := &Chunks{
		cache:   make(map[BodyID]*chunkEntry),
		handles: make(map[BodyID]int),
	}
	c.Resize(bounds, chunkSize)
	return c
}

// Resize rebuilds the grid for new bounds or chunk size and reinserts every
// tracked body. Degenerate input produces an empty grid.
func (c *Chunks) Resize(bounds common.Vector2, chunkSize float64) {
	if c == nil {
		return
	}
	c.bounds = bounds
	c.chunkSize = chunkSize
	c.cols, c.rows = 0, 0
	if chunkSize > 0 && bounds.X > 0 && bounds.Y > 0 {
		dims := bounds.Scale(1 / chunkSize).Ceil()
		c.cols, c.rows = int(dims.X), int(dims.Y)
	}
	c.cells = make([][]*Body, c.cols*c.rows)
	if c.cache == nil {
		c.cache = make(map[BodyID]*chunkEntry)
	}
	if c.handles == nil {
		c.handles = make(map[BodyID]int)
	}

	objects := append([]*Body(nil), c.objects.Values()...)
	sort.Slice(objects, func(i, j int) bool { return objects[i].ID() < objects[j].ID() })
	for _, b := range objects {
		c.insert(b)
	}
}

// AddObject indexes b into every cell its rectangle spans.
func (c *Chunks) AddObject(b *Body) {
	if c == nil || b == nil {
		return
	}
	h, ok := c.handles[b.ID()]
	if !ok {
		h = c.acquireHandle()
		c.handles[b.ID()] = h
	}
	c.objects.Set(h, b)
	c.insert(b)
}

func (c *Chunks) acquireHandle() int {
	if n := len(c.free); n > 0 {
		h := c.free[n-1]
		c.free = c.free[:n-1]
		return h
	}
	c.next++
	return c.next
}

// RemoveObject takes b out of its cells. A permanent removal also forgets
// the body; otherwise it stays tracked for a following re-add.
func (c *Chunks) RemoveObject(b *Body, permanent bool) {
	if c == nil || b == nil {
		return
	}
	if entry, ok := c.cache[b.ID()]; ok {
		for _, idx := range entry.cells {
			if idx < len(c.cells) {
				c.cells[idx] = removeBody(c.cells[idx], b)
			}
		}
		delete(c.cache, b.ID())
	}
	if !permanent {
		return
	}
	if h, ok := c.handles[b.ID()]; ok {
		c.objects.Remove(h)
		delete(c.handles, b.ID())
		c.free = append(c.free, h)
	}
}

// MoveObject reindexes b at its current rectangle.
func (c *Chunks) MoveObject(b *Body) {
	if !c.Contains(b) {
		return
	}
	c.RemoveObject(b, false)
	c.insert(b)
}

// Sync moves b if its position or size changed since it was indexed.
func (c *Chunks) Sync(b *Body) bool {
	if !c.Contains(b) {
		return false
	}
	entry, ok := c.cache[b.ID()]
	if ok && entry.pos == b.Position && entry.size == b.Size {
		return false
	}
	c.MoveObject(b)
	return true
}

// Contains reports whether b is tracked.
func (c *Chunks) Contains(b *Body) bool {
	if c == nil || b == nil {
		return false
	}
	_, ok := c.handles[b.ID()]
	return ok
}

// Len returns the number of tracked bodies.
func (c *Chunks) Len() int {
	if c == nil {
		return 0
	}
	return c.objects.Len()
}

// Objects returns every tracked body ordered by id.
func (c *Chunks) Objects() []*Body {
	if c == nil {
		return nil
	}
	out := append([]*Body(nil), c.objects.Values()...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// ObjectChunks lists the cells b currently occupies.
func (c *Chunks) ObjectChunks(b *Body) []ChunkCoord {
	if c == nil || b == nil {
		return nil
	}
	entry, ok := c.cache[b.ID()]
	if !ok {
		return nil
	}
	out := make([]ChunkCoord, 0, len(entry.cells))
	for _, idx := range entry.cells {
		out = append(out, c.coord(idx))
	}
	return out
}

// BodiesAt returns the bodies stored in one cell.
func (c *Chunks) BodiesAt(coord ChunkCoord) []*Body {
	if c == nil || !c.inGrid(coord.X, coord.Y) {
		return nil
	}
	return append([]*Body(nil), c.cells[c.index(coord.X, coord.Y)]...)
}

// ObjectsInArea returns the bodies sharing a cell with b, excluding b.
func (c *Chunks) ObjectsInArea(b *Body) []*Body {
	if c == nil || b == nil {
		return nil
	}
	return c.collect(c.span(b.Position, b.Size), b)
}

// ObjectsInRect returns the bodies stored in the cells a rectangle spans.
func (c *Chunks) ObjectsInRect(pos, size common.Vector2) []*Body {
	if c == nil {
		return nil
	}
	return c.collect(c.span(pos, size), nil)
}

// RayChunks lists the cells a ray walks through, in traversal order.
func (c *Chunks) RayChunks(r Ray) []ChunkCoord {
	var out []ChunkCoord
	c.traverse(r, func(x, y int) {
		out = append(out, ChunkCoord{X: x, Y: y})
	})
	return out
}

// PotentialRayHits returns the bodies stored in the cells a ray walks
// through.
func (c *Chunks) PotentialRayHits(r Ray) []*Body {
	var cells []int
	c.traverse(r, func(x, y int) {
		cells = append(cells, c.index(x, y))
	})
	return c.collect(cells, nil)
}

// Raycast returns the nearest body the ray enters among its potential hits.
func (c *Chunks) Raycast(r Ray) RaycastResult {
	result := missResult(r)
	if c == nil || r.Direction.IsZero() {
		return result
	}
	bestT := math.Inf(1)
	for _, b := range c.PotentialRayHits(r) {
		if !r.CanIntersect(b) {
			continue
		}
		point, t, ok := r.Intersect(b)
		if !ok || t >= bestT {
			continue
		}
		bestT = t
		result.Body = b
		result.Point = point
		result.Distance = t * r.Length()
	}
	return result
}

// Clear forgets every body and collapses the grid to nothing.
func (c *Chunks) Clear() {
	if c == nil {
		return
	}
	c.cells = nil
	c.cache = make(map[BodyID]*chunkEntry)
	c.objects.Reset()
	c.handles = make(map[BodyID]int)
	c.free = nil
	c.next = 0
	c.bounds = common.Zero
	c.chunkSize = 0
	c.cols, c.rows = 0, 0
}

// Bounds returns the covered world size.
func (c *Chunks) Bounds() common.Vector2 {
	if c == nil {
		return common.Zero
	}
	return c.bounds
}

// ChunkSize returns the cell edge length.
func (c *Chunks) ChunkSize() float64 {
	if c == nil {
		return 0
	}
	return c.chunkSize
}

// Dimensions returns the grid size in cells.
func (c *Chunks) Dimensions() (cols, rows int) {
	if c == nil {
		return 0, 0
	}
	return c.cols, c.rows
}

// ChunkBB returns the world rectangle of a cell.
func (c *Chunks) ChunkBB(coord ChunkCoord) cp.BB {
	pos := common.Vec(float64(coord.X), float64(coord.Y)).Scale(c.chunkSize)
	return rectBB(pos, common.Vec(c.chunkSize, c.chunkSize))
}

func (c *Chunks) insert(b *Body) {
	cells := c.span(b.Position, b.Size)
	for _, idx := range cells {
		if !containsBody(c.cells[idx], b) {
			c.cells[idx] = append(c.cells[idx], b)
		}
	}
	c.cache[b.ID()] = &chunkEntry{cells: cells, pos: b.Position, size: b.Size}
}

// span steps across the rectangle in chunk-size increments and returns the
// distinct in-grid cell indices it covers. The far edges are exclusive so a
// rectangle ending on a cell boundary does not claim the next cell.
func (c *Chunks) span(pos, size common.Vector2) []int {
	if c.cols == 0 || c.rows == 0 {
		return nil
	}
	minCell := pos.Scale(1 / c.chunkSize).Floor()
	maxCell := pos.Add(size).Scale(1 / c.chunkSize).Ceil().Sub(common.One)
	if maxCell.X < minCell.X {
		maxCell.X = minCell.X
	}
	if maxCell.Y < minCell.Y {
		maxCell.Y = minCell.Y
	}

	x0 := max(int(minCell.X), 0)
	y0 := max(int(minCell.Y), 0)
	x1 := min(int(maxCell.X), c.cols-1)
	y1 := min(int(maxCell.Y), c.rows-1)

	var out []int
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			out = append(out, c.index(x, y))
		}
	}
	return out
}

// collect unions the bodies of the given cells, skipping repeated cells,
// repeated bodies and exclude.
func (c *Chunks) collect(cells []int, exclude *Body) []*Body {
	var out []*Body
	seenCells := make(map[int]struct{}, len(cells))
	seen := make(map[BodyID]struct{})
	for _, idx := range cells {
		if _, ok := seenCells[idx]; ok {
			continue
		}
		seenCells[idx] = struct{}{}
		for _, b := range c.cells[idx] {
			if b == exclude {
				continue
			}
			if _, ok := seen[b.ID()]; ok {
				continue
			}
			seen[b.ID()] = struct{}{}
			out = append(out, b)
		}
	}
	return out
}

// traverse walks the grid along the ray with a DDA: from the origin cell it
// repeatedly steps one cell along whichever axis reaches its next boundary
// first, for the Manhattan cell distance between the origin and end cells.
// A ray ending exactly on a boundary stops in the cell before it.
// It stops as soon as it leaves the grid.
func (c *Chunks) traverse(r Ray, visit func(x, y int)) {
	if c == nil || c.cols == 0 || c.rows == 0 {
		return
	}
	start := r.Origin.Scale(1 / c.chunkSize).Floor()
	tail := r.End()
	end := common.Vec(
		endCell(tail.X, r.Direction.X, c.chunkSize),
		endCell(tail.Y, r.Direction.Y, c.chunkSize),
	)
	x, y := int(start.X), int(start.Y)
	if !c.inGrid(x, y) {
		return
	}

	stepX, tMaxX, tDeltaX := ddaAxis(r.Origin.X, r.Direction.X, c.chunkSize, x)
	stepY, tMaxY, tDeltaY := ddaAxis(r.Origin.Y, r.Direction.Y, c.chunkSize, y)
	steps := int(math.Ceil(math.Abs(end.X-start.X) + math.Abs(end.Y-start.Y)))

	visit(x, y)
	for i := 0; i < steps; i++ {
		if tMaxX < tMaxY {
			x += stepX
			tMaxX += tDeltaX
		} else {
			y += stepY
			tMaxY += tDeltaY
		}
		if !c.inGrid(x, y) {
			return
		}
		visit(x, y)
	}
}

// endCell is the cell holding a segment's far end along one axis. Like
// span, the far edge is exclusive: a segment moving forward that stops
// exactly on a cell boundary does not claim the next cell.
func endCell(end, delta, size float64) float64 {
	cell := math.Floor(end / size)
	if delta > 0 && cell*size == end {
		cell--
	}
	return cell
}

// ddaAxis returns the step direction, the ray parameter of the first cell
// boundary and the parameter span of one cell along a single axis.
func ddaAxis(origin, delta, size float64, cell int) (int, float64, float64) {
	switch {
	case delta > 0:
		return 1, (float64(cell+1)*size - origin) / delta, size / delta
	case delta < 0:
		return -1, (float64(cell)*size - origin) / delta, -size / delta
	}
	return 0, math.Inf(1), math.Inf(1)
}

func (c *Chunks) inGrid(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.cols && y < c.rows
}

func (c *Chunks) index(x, y int) int {
	return y*c.cols + x
}

func (c *Chunks) coord(idx int) ChunkCoord {
	return ChunkCoord{X: idx % c.cols, Y: idx / c.cols}
}
