package image

import (
	"image"
	"image/color"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// lineGap is the extra space between caption lines.
const lineGap = 4

type TextRenderer struct {
	Color color.Color
}

func NewTextRenderer() *TextRenderer {
	return &TextRenderer{Color: color.Black}
}

// DrawCaption draws text line by line. The first line's ascent starts at
// at.Y and each following baseline sits ascent+lineGap lower.
func (tr *TextRenderer) DrawCaption(dc *gg.Context, face font.Face, text string, at image.Point) {
	dc.SetFontFace(face)
	dc.SetColor(tr.Color)

	ascent := face.Metrics().Ascent.Ceil()
	pitch := float64(ascent + lineGap)
	for i, line := range strings.Split(text, lineSeparator) {
		dc.DrawString(line, float64(at.X), float64(at.Y+ascent)+float64(i)*pitch)
	}
}

// DrawFooter draws a single line of text whose ascent starts at at.Y.
func (tr *TextRenderer) DrawFooter(dc *gg.Context, face font.Face, text string, at image.Point) {
	dc.SetFontFace(face)
	dc.SetColor(tr.Color)
	dc.DrawString(text, float64(at.X), float64(at.Y+face.Metrics().Ascent.Ceil()))
}
