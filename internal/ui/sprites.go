package ui

import (
	"bytes"
	"embed"
	"image"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/hailam/fiveplay/internal/board"
)

//go:embed assets/stones/*.svg
var stoneAssets embed.FS

// SpriteManager manages stone sprites.
type SpriteManager struct {
	stones      map[board.Cell]*ebiten.Image
	size        int     // Display size in logical pixels
	renderScale float64 // Render at higher resolution for quality (e.g., 3.0)
	scale       float64 // HiDPI scale factor
}

// NewSpriteManager creates a new sprite manager with stones of the given size.
func NewSpriteManager(size int) *SpriteManager {
	sm := &SpriteManager{
		stones:      make(map[board.Cell]*ebiten.Image),
		size:        size,
		renderScale: 3.0, // Render at 3x resolution for sharp scaling
		scale:       1.0,
	}
	sm.loadStones()
	return sm
}

// stoneFiles maps stone colors to their asset file paths.
var stoneFiles = map[board.Cell]string{
	board.Black: "assets/stones/black.svg",
	board.White: "assets/stones/white.svg",
}

// loadStones rasterizes the embedded SVG stones.
func (sm *SpriteManager) loadStones() {
	renderSize := int(float64(sm.size) * sm.renderScale)

	for c, path := range stoneFiles {
		data, err := stoneAssets.ReadFile(path)
		if err != nil {
			log.Printf("Failed to read stone asset %s: %v", path, err)
			continue
		}

		icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
		if err != nil {
			log.Printf("Failed to parse SVG %s: %v", path, err)
			continue
		}
		icon.SetTarget(0, 0, float64(renderSize), float64(renderSize))

		rgba := image.NewRGBA(image.Rect(0, 0, renderSize, renderSize))
		scanner := rasterx.NewScannerGV(renderSize, renderSize, rgba, rgba.Bounds())
		raster := rasterx.NewDasher(renderSize, renderSize, scanner)
		icon.Draw(raster, 1.0)

		sm.stones[c] = ebiten.NewImageFromImage(rgba)
	}
}

// SetScale sets the HiDPI scale factor used when drawing.
func (sm *SpriteManager) SetScale(scale float64) {
	sm.scale = scale
}

// DrawStoneAt draws a stone with its top-left corner at (x, y) in screen
// pixels. alpha below 1 draws a translucent preview.
func (sm *SpriteManager) DrawStoneAt(screen *ebiten.Image, c board.Cell, x, y int, alpha float32) {
	sprite := sm.stones[c]
	if sprite == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	scale := sm.scale / sm.renderScale
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleAlpha(alpha)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(sprite, op)
}

// Size returns the size of stone sprites.
func (sm *SpriteManager) Size() int {
	return sm.size
}
