package game

import "math"

// Cell is a discrete grid coordinate.
type Cell struct {
	X int `json:"x" msgpack:"x"`
	Y int `json:"y" msgpack:"y"`
}

// Add returns the cell one step away in the given direction.
func (c Cell) Add(d Dir) Cell {
	return Cell{c.X + d.X, c.Y + d.Y}
}

// DistSq returns the squared Euclidean distance between two cells.
func (c Cell) DistSq(o Cell) int64 {
	dx := int64(c.X - o.X)
	dy := int64(c.Y - o.Y)
	return dx*dx + dy*dy
}

// Dir is a unit-grid step, including diagonals. The zero value means
// stationary.
type Dir struct {
	X int `json:"x" msgpack:"x"`
	Y int `json:"y" msgpack:"y"`
}

// IsZero reports whether the direction is the stationary zero vector.
func (d Dir) IsZero() bool {
	return d.X == 0 && d.Y == 0
}

// Len returns the geometric length of the step (1 for cardinal moves,
// √2 for diagonals).
func (d Dir) Len() float64 {
	return math.Hypot(float64(d.X), float64(d.Y))
}

// Neg returns the opposite direction.
func (d Dir) Neg() Dir {
	return Dir{-d.X, -d.Y}
}

// TurnLeft returns the direction rotated 90° counterclockwise in grid space.
func (d Dir) TurnLeft() Dir {
	return Dir{d.Y, -d.X}
}

// TurnRight returns the direction rotated 90° clockwise in grid space.
func (d Dir) TurnRight() Dir {
	return Dir{-d.Y, d.X}
}

// Clamp limits both components to [-1, 1] so arbitrary client input always
// collapses to one of the 8 unit-grid steps (or zero).
func (d Dir) Clamp() Dir {
	return Dir{clampStep(d.X), clampStep(d.Y)}
}

func clampStep(v int) int {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec2 is a continuous world-space position in pixels.
type Vec2 struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// Scale returns the vector multiplied by f.
func (v Vec2) Scale(f float64) Vec2 {
	return Vec2{v.X * f, v.Y * f}
}

// CardinalDirs are the four orthogonal steps, used for wanderer spawn
// headings.
var CardinalDirs = [4]Dir{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}

// NeighbourDirs are all 8 surrounding steps, used by the adjacency probe.
var NeighbourDirs = [8]Dir{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}
