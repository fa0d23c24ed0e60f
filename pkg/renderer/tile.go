package renderer

import (
	"image"
)

// Tile is a fixed-size group of pixel invocations. Tiles on the right and
// bottom edges may extend past the frame; those pixels are skipped.
type Tile struct {
	ID     int             // Index into per-tile results
	Bounds image.Rectangle // Pixel bounds (x0,y0,x1,y1)
}

// NewTileGrid creates a grid of tileSize×tileSize tiles covering the entire image
func NewTileGrid(width, height, tileSize int) []Tile {
	var tiles []Tile

	// Ceiling division
	tilesX := (width + tileSize - 1) / tileSize
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			tiles = append(tiles, Tile{
				ID:     len(tiles),
				Bounds: image.Rect(x0, y0, x0+tileSize, y0+tileSize),
			})
		}
	}

	return tiles
}
