package services

import (
	"fmt"
	img "image"
	"image/draw"

	"go.uber.org/zap"
	"golang.org/x/image/font"

	"textoimagen/internal/files"
	"textoimagen/internal/image"
)

// RenderConfig holds the fixed inputs of every render.
type RenderConfig struct {
	HeaderFont string
	FooterFont string
	FooterText string
	Padding    int

	// MaxImageWidth downscales wider sources before layout. Zero disables it.
	MaxImageWidth int

	// MaxImagePixels rejects sources whose declared size is larger, before
	// they are decoded. Zero disables it.
	MaxImagePixels int64
}

func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		HeaderFont:     "FreeSerif.ttf",
		FooterFont:     "FreeMonoBold.ttf",
		FooterText:     "t.me/textoimagenbot",
		Padding:        20,
		MaxImagePixels: 50_000_000, // about 200 MB once decoded to RGBA
	}
}

type ImageService struct {
	cfg          RenderConfig
	fonts        files.FontLoader
	processor    *image.Processor
	textRenderer *image.TextRenderer
	logger       *zap.Logger
}

func NewImageService(
	cfg RenderConfig,
	fonts files.FontLoader,
	processor *image.Processor,
	textRenderer *image.TextRenderer,
	logger *zap.Logger,
) *ImageService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ImageService{
		cfg:          cfg,
		fonts:        fonts,
		processor:    processor,
		textRenderer: textRenderer,
		logger:       logger,
	}
}

// Render writes inputPath with caption above it and the footer below it to a
// new "edited-" file next to the input and returns that file's path. The
// input file is left in place.
func (s *ImageService) Render(inputPath, caption string) (string, error) {
	src, format, err := files.LoadImage(inputPath, s.cfg.MaxImagePixels)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrImageRead, err)
	}
	src = s.processor.FitWidth(src, s.cfg.MaxImageWidth)

	width := src.Bounds().Dx()
	headerSize := image.HeaderFontSize(width)
	headerFace, footerFace := s.loadFaces(headerSize, image.FooterFontSize(headerSize))

	text := image.WrapParagraphs(
		image.FaceMeasure(headerFace),
		caption,
		image.WrapWidth(width, headerSize),
	)

	lines := image.CountLines(text)
	layout := image.NewLayout(
		src.Bounds(),
		lines,
		s.cfg.Padding,
		image.FaceMeasure(footerFace)(s.cfg.FooterText),
	)

	composed := s.compose(src, layout, text, headerFace, footerFace)

	out := files.EditedPath(inputPath, format)
	if err := files.SaveImage(out, composed, format); err != nil {
		return "", fmt.Errorf("%w: %w", ErrImageWrite, err)
	}

	s.logger.Debug("caption rendered",
		zap.String("input", inputPath),
		zap.String("output", out),
		zap.Int("lines", lines),
		zap.Int("width", layout.Width),
		zap.Int("height", layout.Height),
	)
	return out, nil
}

func (s *ImageService) compose(src img.Image, layout image.Layout, text string, headerFace, footerFace font.Face) img.Image {
	dc := s.processor.NewCanvas(layout.Bounds())

	s.textRenderer.DrawCaption(dc, headerFace, text, layout.Caption)
	s.textRenderer.DrawFooter(dc, footerFace, s.cfg.FooterText, layout.Footer)

	canvas := dc.Image().(draw.Image)
	s.processor.Paste(canvas, src, layout.Paste)

	return s.processor.MatchModel(canvas, src)
}

// loadFaces never fails: if either configured font is missing both faces
// fall back to the built-in one.
func (s *ImageService) loadFaces(headerSize, footerSize int) (font.Face, font.Face) {
	header, err := s.fonts.LoadFace(s.cfg.HeaderFont, float64(headerSize))
	if err == nil {
		var footer font.Face
		footer, err = s.fonts.LoadFace(s.cfg.FooterFont, float64(footerSize))
		if err == nil {
			return header, footer
		}
	}

	s.logger.Warn("failed to load font, using default",
		zap.Error(fmt.Errorf("%w: %w", ErrFontUnavailable, err)),
		zap.String("header_font", s.cfg.HeaderFont),
		zap.String("footer_font", s.cfg.FooterFont),
	)
	return files.DefaultFace(float64(headerSize)), files.DefaultFace(float64(footerSize))
}
