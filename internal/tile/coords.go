package tile

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

// DefaultWorldSize is the noise-domain extent of the zoom 0 tile.
const DefaultWorldSize = 16.0

// MaxZoom bounds the pyramid depth; deeper tiles would be narrower than
// float64 can resolve across a sensible world size.
const MaxZoom = 30

// Coords represents a tile coordinate in the z/x/y pyramid. Y grows
// downwards, as in slippy map tiles.
type Coords struct {
	Z uint32 // Zoom level
	X uint32 // X coordinate (column)
	Y uint32 // Y coordinate (row)
}

// String returns the tile coordinate as a string in format "z{zoom}_x{x}_y{y}"
func (c Coords) String() string {
	return fmt.Sprintf("z%d_x%d_y%d", c.Z, c.X, c.Y)
}

// Path returns the file path for this tile
func (c Coords) Path(extension string) string {
	return fmt.Sprintf("%s.%s", c.String(), extension)
}

// Tile returns the maptile.Tile for this coordinate
func (c Coords) Tile() maptile.Tile {
	return maptile.New(c.X, c.Y, maptile.Zoom(c.Z))
}

// Valid reports whether X and Y lie inside the zoom level.
func (c Coords) Valid() bool {
	if c.Z > MaxZoom {
		return false
	}
	n := uint32(1) << c.Z
	return c.X < n && c.Y < n
}

// Size returns the noise-domain edge length of a tile at this zoom.
func (c Coords) Size(worldSize float64) float64 {
	return worldSize / float64(uint64(1)<<c.Z)
}

// Bound returns the noise-domain rectangle covered by the tile when the
// zoom 0 tile spans [0, worldSize) on both axes.
func (c Coords) Bound(worldSize float64) orb.Bound {
	s := c.Size(worldSize)
	x0 := float64(c.X) * s
	y0 := float64(c.Y) * s
	return orb.Bound{
		Min: orb.Point{x0, y0},
		Max: orb.Point{x0 + s, y0 + s},
	}
}

// Parent returns the tile one zoom level up. The zoom 0 tile is its own
// parent.
func (c Coords) Parent() Coords {
	if c.Z == 0 {
		return c
	}
	p := c.Tile().Parent()
	return NewCoords(uint32(p.Z), p.X, p.Y)
}

// Children returns the four tiles one zoom level down.
func (c Coords) Children() []Coords {
	kids := c.Tile().Children()
	out := make([]Coords, 0, len(kids))
	for _, k := range kids {
		out = append(out, NewCoords(uint32(k.Z), k.X, k.Y))
	}
	return out
}

// NewCoords creates a new Coords from zoom, x, y values
func NewCoords(z, x, y uint32) Coords {
	return Coords{Z: z, X: x, Y: y}
}

// ParseCoords parses a tile string like "z13_x4297_y2754" into Coords
func ParseCoords(s string) (Coords, error) {
	var c Coords
	_, err := fmt.Sscanf(s, "z%d_x%d_y%d", &c.Z, &c.X, &c.Y)
	if err != nil {
		return c, fmt.Errorf("invalid tile coordinate format: %s", s)
	}
	return c, nil
}

// TileRange represents a range of tiles to render
type TileRange struct {
	MinZ, MaxZ uint32 // Zoom range
	MinX, MaxX uint32 // X range
	MinY, MaxY uint32 // Y range
}

// ForEach calls the given function for each tile in the range
func (r TileRange) ForEach(fn func(Coords)) {
	for z := r.MinZ; z <= r.MaxZ; z++ {
		for x := r.MinX; x <= r.MaxX; x++ {
			for y := r.MinY; y <= r.MaxY; y++ {
				fn(NewCoords(z, x, y))
			}
		}
	}
}

// Count returns the total number of tiles in this range
func (r TileRange) Count() int {
	count := 0
	for z := r.MinZ; z <= r.MaxZ; z++ {
		xCount := r.MaxX - r.MinX + 1
		yCount := r.MaxY - r.MinY + 1
		count += int(xCount * yCount)
	}
	return count
}

// clip intersects b with the world square and reports whether anything
// of positive area is left.
func clip(b orb.Bound, worldSize float64) (orb.Bound, bool) {
	c := orb.Bound{
		Min: orb.Point{math.Max(b.Min.X(), 0), math.Max(b.Min.Y(), 0)},
		Max: orb.Point{math.Min(b.Max.X(), worldSize), math.Min(b.Max.Y(), worldSize)},
	}
	return c, c.Min.X() < c.Max.X() && c.Min.Y() < c.Max.Y()
}

// span returns the tile indices at zoom z that overlap [lo, hi).
func span(lo, hi, size float64, z int) (uint32, uint32) {
	last := float64(uint64(1)<<z) - 1
	first := math.Max(0, math.Floor(lo/size))
	end := math.Min(last, math.Ceil(hi/size)-1)
	if end < first {
		end = first
	}
	return uint32(first), uint32(end)
}

// TilesInBound returns all tiles overlapping a noise-domain rectangle
// across a zoom range. The rectangle is clipped to the world.
func TilesInBound(b orb.Bound, worldSize float64, zoomMin, zoomMax int) []Coords {
	tiles := make([]Coords, 0, TileCount(b, worldSize, zoomMin, zoomMax))
	b, ok := clip(b, worldSize)
	if !ok {
		return tiles
	}

	for z := zoomMin; z <= zoomMax; z++ {
		size := worldSize / float64(uint64(1)<<z)
		minX, maxX := span(b.Min.X(), b.Max.X(), size, z)
		minY, maxY := span(b.Min.Y(), b.Max.Y(), size, z)

		for x := minX; x <= maxX; x++ {
			for y := minY; y <= maxY; y++ {
				tiles = append(tiles, NewCoords(uint32(z), x, y))
			}
		}
	}

	return tiles
}

// TileCount returns the number of tiles TilesInBound would return,
// without allocating them.
func TileCount(b orb.Bound, worldSize float64, zoomMin, zoomMax int) int {
	b, ok := clip(b, worldSize)
	if !ok {
		return 0
	}

	count := 0
	for z := zoomMin; z <= zoomMax; z++ {
		size := worldSize / float64(uint64(1)<<z)
		minX, maxX := span(b.Min.X(), b.Max.X(), size, z)
		minY, maxY := span(b.Min.Y(), b.Max.Y(), size, z)
		count += int(maxX-minX+1) * int(maxY-minY+1)
	}

	return count
}
