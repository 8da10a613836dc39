package render

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// fillRect fills rect with an opaque color.
func fillRect(img *image.RGBA, rect image.Rectangle, c color.RGBA) {
	draw.Draw(img, rect, image.NewUniform(c), image.Point{}, draw.Src)
}

// blendRect composites a translucent color over rect.
func blendRect(img *image.RGBA, rect image.Rectangle, c color.RGBA) {
	draw.Draw(img, rect, image.NewUniform(c), image.Point{}, draw.Over)
}

// drawHLine draws a horizontal line from x0 to x1 at row y.
func drawHLine(img *image.RGBA, x0, x1, y int, c color.RGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	blendRect(img, image.Rect(x0, y, x1+1, y+1), c)
}

// drawVLine draws a vertical line from y0 to y1 at column x.
func drawVLine(img *image.RGBA, x, y0, y1 int, c color.RGBA) {
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	blendRect(img, image.Rect(x, y0, x+1, y1+1), c)
}

// drawDashedHLine draws a dashed horizontal line with the given dash length.
func drawDashedHLine(img *image.RGBA, x0, x1, y, dash int, c color.RGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if dash < 1 {
		dash = 4
	}
	for x := x0; x <= x1; x += 2 * dash {
		end := min(x+dash-1, x1)
		drawHLine(img, x, end, y, c)
	}
}

// textFace is the fixed bitmap face used for all overlay labels.
var textFace = basicfont.Face7x13

// drawText draws a label with its baseline at (x, y).
func drawText(img *image.RGBA, x, y int, s string, c color.RGBA) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: textFace,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// textWidth returns the advance width of s in pixels.
func textWidth(s string) int {
	d := font.Drawer{Face: textFace}
	return d.MeasureString(s).Ceil()
}
