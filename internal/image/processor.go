package image

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

type Processor struct{}

// NewCanvas returns a white drawing context covering bounds.
func (p *Processor) NewCanvas(bounds image.Rectangle) *gg.Context {
	dc := gg.NewContext(bounds.Dx(), bounds.Dy())
	dc.SetColor(color.White)
	dc.Clear()
	return dc
}

// Paste copies src onto dst with its top left corner at at.
func (p *Processor) Paste(dst draw.Image, src image.Image, at image.Point) {
	b := src.Bounds()
	draw.Draw(dst, image.Rectangle{Min: at, Max: at.Add(b.Size())}, src, b.Min, draw.Src)
}

// MatchModel converts canvas to the color model of src. Gray sources stay
// gray; anything else is returned as is.
func (p *Processor) MatchModel(canvas image.Image, src image.Image) image.Image {
	switch src.(type) {
	case *image.Gray, *image.Gray16:
		gray := image.NewGray(canvas.Bounds())
		draw.Draw(gray, gray.Bounds(), canvas, canvas.Bounds().Min, draw.Src)
		return gray
	}
	return canvas
}

// FitWidth scales img down to maxWidth keeping its aspect ratio. Images that
// already fit, or a non-positive maxWidth, are returned untouched.
func (p *Processor) FitWidth(img image.Image, maxWidth int) image.Image {
	if maxWidth <= 0 || img.Bounds().Dx() <= maxWidth {
		return img
	}
	return resize.Resize(uint(maxWidth), 0, img, resize.Lanczos3)
}
