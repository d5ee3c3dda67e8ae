package thumbnail

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

// ErrInvalidEdge is returned when the requested thumbnail edge is not positive.
var ErrInvalidEdge = errors.New("thumbnail edge must be positive")

// Fit returns the size of bounds scaled so its longest edge is at most maxEdge.
// Images already within the limit keep their size.
func Fit(bounds image.Rectangle, maxEdge int) image.Rectangle {
	width, height := bounds.Dx(), bounds.Dy()
	if width <= maxEdge && height <= maxEdge {
		return image.Rect(0, 0, width, height)
	}

	if width >= height {
		return image.Rect(0, 0, maxEdge, max(height*maxEdge/width, 1))
	}
	return image.Rect(0, 0, max(width*maxEdge/height, 1), maxEdge)
}

// Render decodes an image from src and writes a WebP thumbnail to dst.
func Render(src io.Reader, dst io.Writer, maxEdge int) error {
	if maxEdge <= 0 {
		return ErrInvalidEdge
	}

	img, _, err := image.Decode(src)
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	scaled := image.NewRGBA(Fit(bounds, maxEdge))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Src, nil)

	if err := nativewebp.Encode(dst, scaled, nil); err != nil {
		return fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	return nil
}

// RenderFile renders the image at srcPath into dstPath.
// The thumbnail is written to a temporary file first so readers never see a partial image.
func RenderFile(srcPath, dstPath string, maxEdge int) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open source image: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(dstPath), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create thumbnail directory: %w", err)
	}

	temp, err := os.CreateTemp(filepath.Dir(dstPath), "thumb-*.webp")
	if err != nil {
		return fmt.Errorf("failed to create thumbnail file: %w", err)
	}
	tempPath := temp.Name()

	err = Render(src, temp, maxEdge)
	if closeErr := temp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tempPath)
		return err
	}

	if err := os.Rename(tempPath, dstPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to store thumbnail: %w", err)
	}

	return nil
}
