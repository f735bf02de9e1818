package image

import "image"

const (
	headerSizeDivisor = 18
	footerSizeRatio   = 0.5
	wrapMarginRatio   = 4.3
	bottomMarginRatio = 0.6
	captionTopRatio   = 0.5
)

// HeaderFontSize derives the caption font size from the source width.
func HeaderFontSize(imageWidth int) int {
	return imageWidth / headerSizeDivisor
}

// FooterFontSize derives the footer font size from the caption font size.
func FooterFontSize(headerSize int) int {
	return int(float64(headerSize) * footerSizeRatio)
}

// WrapWidth is the width available to a caption line.
func WrapWidth(imageWidth, headerSize int) float64 {
	return float64(imageWidth) - float64(headerSize)*wrapMarginRatio
}

// Layout holds the geometry of one composed image.
type Layout struct {
	HeaderSize   int
	HeaderHeight int
	Width        int
	Height       int
	Caption      image.Point
	Footer       image.Point
	Paste        image.Point
}

// NewLayout places header, footer and source image for a source of the given
// size. footerWidth is the measured width of the footer text.
func NewLayout(src image.Rectangle, lines, padding int, footerWidth float64) Layout {
	w, h := src.Dx(), src.Dy()
	size := HeaderFontSize(w)
	headerHeight := size * (lines + 1)

	return Layout{
		HeaderSize:   size,
		HeaderHeight: headerHeight,
		Width:        w + padding,
		Height:       h + headerHeight + int(float64(size)*bottomMarginRatio),
		Caption:      image.Pt(size, int(float64(size)*captionTopRatio)),
		Footer:       image.Pt(int(float64(w)/2-footerWidth/2), h+headerHeight),
		Paste:        image.Pt(padding/2, headerHeight),
	}
}

// Bounds is the canvas rectangle.
func (l Layout) Bounds() image.Rectangle {
	return image.Rect(0, 0, l.Width, l.Height)
}
