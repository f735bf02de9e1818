package files

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

const EditedPrefix = "edited-"

var ErrTooLarge = errors.New("image exceeds pixel limit")

// LoadImage decodes the image at path and reports its format name. Images
// whose header declares more than maxPixels pixels are rejected before any
// pixel data is decoded; maxPixels <= 0 disables the check.
func LoadImage(path string, maxPixels int64) (image.Image, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	if maxPixels > 0 {
		cfg, _, err := image.DecodeConfig(file)
		if err != nil {
			return nil, "", fmt.Errorf("decode %s header: %w", path, err)
		}
		if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > maxPixels {
			return nil, "", fmt.Errorf("%w: %s is %dx%d, limit %d pixels", ErrTooLarge, path, cfg.Width, cfg.Height, maxPixels)
		}
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return nil, "", err
		}
	}

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", path, err)
	}
	return img, format, nil
}

// EditedPath names the output for inputPath: same directory, "edited-"
// prefix. Formats without an encoder get a .png extension.
func EditedPath(inputPath, format string) string {
	dir, name := filepath.Split(inputPath)
	if !CanEncode(format) {
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ".png"
	}
	return filepath.Join(dir, EditedPrefix+name)
}

// CanEncode reports whether SaveImage can write format natively.
func CanEncode(format string) bool {
	switch format {
	case "jpeg", "png", "gif", "bmp":
		return true
	}
	return false
}

// SaveImage encodes img to path in format, falling back to PNG.
func SaveImage(path string, img image.Image, format string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	switch format {
	case "jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 100})
	case "gif":
		err = gif.Encode(f, img, nil)
	case "bmp":
		err = bmp.Encode(f, img)
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}
