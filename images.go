package blogium

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
)

const (
	maxImageWidth = 800
	jpegQuality   = 80
	maxUploadSize = 10 << 20 // 10MB
	uploadsSubdir = "uploads"
)

// processImage decodes an image from src, downscales it to maxImageWidth
// if wider, and re-encodes it as JPEG.
func processImage(src io.Reader) ([]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// savePostImage stores an optional uploaded post image under the public
// uploads dir and returns its filename, or "" when no file was sent.
// Uploads get a fresh uuid name; the original filename is discarded.
func (a *App) savePostImage(c echo.Context) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", nil // field absent or empty
	}
	if file.Size > maxUploadSize {
		return "", errors.New("image too large (max 10MB)")
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	data, err := processImage(src)
	if err != nil {
		return "", errors.New("invalid image file")
	}

	dir := filepath.Join(a.staticDir, uploadsSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create uploads dir: %w", err)
	}
	filename := uuid.NewString() + ".jpg"
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return filename, nil
}

// removePostImage deletes a stored post image, ignoring a file that is
// already gone.
func (a *App) removePostImage(filename string) {
	if filename == "" {
		return
	}
	_ = os.Remove(filepath.Join(a.staticDir, uploadsSubdir, filepath.Base(filename)))
}

// ImageURL returns the public URL for a stored post image.
func ImageURL(filename string) string {
	return "/public/" + uploadsSubdir + "/" + filename
}
