package raster

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// DrawTerminal converts a framebuffer's color buffer to terminal cells and
// draws them into scr, one call per finished frame: a one-shot
// presentation call, never an event loop. cmd/raster's -preview flag
// calls it exactly once after a render completes. Each terminal row packs
// two framebuffer rows using ▀ (upper half block), foreground as the top
// pixel and background as the bottom.
func (fb *Framebuffer) DrawTerminal(scr uv.Screen, area uv.Rectangle, which DisplayBuffer) {
	src := fb.Color
	if which == DisplayDepth {
		src = fb.depthColorBuffer()
	}

	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := row * 2
		botY := topY + 1
		if botY >= fb.Height {
			botY = topY
		}

		for col := area.Min.X; col < area.Max.X && col < fb.Width; col++ {
			top := colorToRGBA(src[topY*fb.Width+col])
			bot := colorToRGBA(src[botY*fb.Width+col])

			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: top,
					Bg: bot,
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// colorToRGBA converts a packed Color to Go's color.Color interface.
func colorToRGBA(c Color) color.Color {
	v := vec4FromColor(c)
	return color.RGBA{R: uint8(v.X), G: uint8(v.Y), B: uint8(v.Z), A: uint8(v.W)}
}
