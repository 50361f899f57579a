package game

import "math/rand"

// GenerateArena builds a deterministic fallback grid for servers started
// without a map file: a solid border, a pillar lattice on even coordinates
// so every open cell stays reachable, and a light scatter of extra walls in
// the corridors.
func GenerateArena(width, height int, seed int64) (*Grid, error) {
	// Odd dimensions keep the pillar lattice symmetric against the border.
	if width%2 == 0 {
		width++
	}
	if height%2 == 0 {
		height++
	}

	rng := rand.New(rand.NewSource(seed))
	walls := make([]bool, width*height)
	set := func(x, y int) { walls[y*width+x] = true }

	for x := 0; x < width; x++ {
		set(x, 0)
		set(x, height-1)
	}
	for y := 0; y < height; y++ {
		set(0, y)
		set(width-1, y)
	}

	for y := 2; y < height-1; y += 2 {
		for x := 2; x < width-1; x += 2 {
			set(x, y)
		}
	}

	// Sparse extra walls between pillars; junction cells (both coords odd)
	// always stay open.
	const scatter = 0.04
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			if x%2 == 0 && y%2 == 0 {
				continue
			}
			if x%2 == 1 && y%2 == 1 {
				continue
			}
			if rng.Float64() < scatter {
				set(x, y)
			}
		}
	}

	return NewGrid(width, height, walls)
}
