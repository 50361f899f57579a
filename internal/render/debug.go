// Package render draws world snapshots as PNG frames for the debug endpoint.
package render

import (
	"image/color"
	"io"

	"gridrush/internal/game"

	"github.com/fogleman/gg"
)

// PixelsPerTile is the debug frame scale. Small on purpose; these frames are
// for eyeballing reservations and motion, not for streaming.
const PixelsPerTile = 12.0

var (
	colorFloor      = color.RGBA{18, 18, 32, 255}
	colorWall       = color.RGBA{70, 70, 95, 255}
	colorPlayer     = color.RGBA{80, 220, 100, 255}
	colorWanderer   = color.RGBA{220, 80, 80, 255}
	colorProjectile = color.RGBA{250, 210, 80, 255}
)

// EncodePNG renders the snapshot over the grid and writes a PNG frame.
func EncodePNG(w io.Writer, grid *game.Grid, snap game.Snapshot) error {
	dc := Frame(grid, snap)
	return dc.EncodePNG(w)
}

// Frame renders the snapshot over the grid into a new drawing context.
func Frame(grid *game.Grid, snap game.Snapshot) *gg.Context {
	width := grid.Width()
	height := grid.Height()
	dc := gg.NewContext(int(float64(width)*PixelsPerTile), int(float64(height)*PixelsPerTile))

	dc.SetColor(colorFloor)
	dc.DrawRectangle(0, 0, float64(dc.Width()), float64(dc.Height()))
	dc.Fill()

	// Grid rows grow upward, image rows grow downward.
	flipY := func(y float64) float64 {
		return float64(dc.Height()) - y
	}

	dc.SetColor(colorWall)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !grid.IsWall(game.Cell{X: x, Y: y}) {
				continue
			}
			px := float64(x) * PixelsPerTile
			py := flipY(float64(y)*PixelsPerTile) - PixelsPerTile
			dc.DrawRectangle(px, py, PixelsPerTile, PixelsPerTile)
			dc.Fill()
		}
	}

	scale := PixelsPerTile / game.TileSize
	for _, a := range snap.Actors {
		switch a.Kind {
		case game.KindPlayer:
			dc.SetColor(colorPlayer)
		case game.KindWanderer:
			dc.SetColor(colorWanderer)
		case game.KindProjectile:
			dc.SetColor(colorProjectile)
		}

		// Pos is the tile origin in world units; center the marker.
		cx := (a.Pos.X + game.TileSize/2) * scale
		cy := flipY((a.Pos.Y + game.TileSize/2) * scale)
		dc.DrawCircle(cx, cy, PixelsPerTile*0.35)
		dc.Fill()
	}

	return dc
}
