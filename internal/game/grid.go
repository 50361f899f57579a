package game

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
)

// Grid is the immutable wall map the simulation runs on. Row-major, with
// (0,0) at the bottom-left. Everything outside the bounds is a wall.
type Grid struct {
	width  int
	height int
	walls  []bool
}

// NewGrid builds a grid from a row-major wall slice. The slice length must
// match width*height.
func NewGrid(width, height int, walls []bool) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid: invalid dimensions %dx%d", width, height)
	}
	if len(walls) != width*height {
		return nil, fmt.Errorf("grid: wall data length %d, want %d", len(walls), width*height)
	}
	return &Grid{width: width, height: height, walls: walls}, nil
}

// Width returns the grid width in cells.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height in cells.
func (g *Grid) Height() int { return g.height }

// IsWall reports whether the cell is impassable. Out-of-bounds cells and
// missing data are walls, never open.
func (g *Grid) IsWall(c Cell) bool {
	if c.X < 0 || c.Y < 0 || c.X >= g.width || c.Y >= g.height {
		return true
	}
	idx := c.Y*g.width + c.X
	if idx < 0 || idx >= len(g.walls) {
		return true
	}
	return g.walls[idx]
}

// Walls returns a copy of the wall data for snapshots.
func (g *Grid) Walls() []bool {
	out := make([]bool, len(g.walls))
	copy(out, g.walls)
	return out
}

// OpenCells counts the passable cells, mostly for stats and sanity checks.
func (g *Grid) OpenCells() int {
	n := 0
	for _, w := range g.walls {
		if !w {
			n++
		}
	}
	return n
}

// LoadGridPNG reads a map image and converts it to a wall grid. Any pixel
// with a non-black color channel is a wall. The image Y axis points down, so
// rows are flipped to keep (0,0) at the bottom-left of the grid.
func LoadGridPNG(path string) (*Grid, error) {
	img, err := gg.LoadPNG(path)
	if err != nil {
		return nil, fmt.Errorf("grid: load %s: %w", path, err)
	}
	return gridFromImage(img)
}

func gridFromImage(img image.Image) (*Grid, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	walls := make([]bool, width*height)
	for py := 0; py < height; py++ {
		gy := height - 1 - py
		for px := 0; px < width; px++ {
			r, g, b, _ := img.At(bounds.Min.X+px, bounds.Min.Y+py).RGBA()
			walls[gy*width+px] = r > 0 || g > 0 || b > 0
		}
	}
	return NewGrid(width, height, walls)
}
