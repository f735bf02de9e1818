package image

import (
	"image"
	"testing"

	"github.com/fogleman/gg"
)

// darkRows reports which rows of dc hold at least one dark pixel.
func darkRows(dc *gg.Context) map[int]bool {
	rows := make(map[int]bool)
	img := dc.Image()
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if r, g, bl, _ := img.At(x, y).RGBA(); r < 0x8000 && g < 0x8000 && bl < 0x8000 {
				rows[y] = true
				break
			}
		}
	}
	return rows
}

func TestDrawCaptionAnchorsOnAscent(t *testing.T) {
	face := fixedFace()
	ascent := face.Metrics().Ascent.Ceil()
	pitch := ascent + lineGap

	dc := (&Processor{}).NewCanvas(image.Rect(0, 0, 40, 3*pitch))
	NewTextRenderer().DrawCaption(dc, face, "H\nH", image.Pt(0, 0))
	rows := darkRows(dc)

	tests := []struct {
		name     string
		from, to int
		inked    bool
	}{
		{"first line above its baseline", 0, ascent, true},
		{"gap below the first baseline", ascent, pitch, false},
		{"second line", pitch, pitch + ascent, true},
		{"below the second baseline", pitch + ascent, 3 * pitch, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := false
			for y := tt.from; y < tt.to; y++ {
				got = got || rows[y]
			}
			if got != tt.inked {
				t.Errorf("rows [%d,%d) inked = %v, want %v", tt.from, tt.to, got, tt.inked)
			}
		})
	}
}

func TestDrawFooterMatchesFirstCaptionLine(t *testing.T) {
	face := fixedFace()
	p := &Processor{}
	tr := NewTextRenderer()

	caption := p.NewCanvas(image.Rect(0, 0, 60, 30))
	tr.DrawCaption(caption, face, "t.me", image.Pt(3, 5))

	footer := p.NewCanvas(image.Rect(0, 0, 60, 30))
	tr.DrawFooter(footer, face, "t.me", image.Pt(3, 5))

	a, b := caption.Image().(*image.RGBA), footer.Image().(*image.RGBA)
	if string(a.Pix) != string(b.Pix) {
		t.Error("footer and a one-line caption drawn at the same point differ")
	}
}
