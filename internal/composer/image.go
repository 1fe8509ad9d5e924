package composer

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
)

// DefaultMaxImageBytes is the upload ceiling when none is configured.
const DefaultMaxImageBytes int64 = 200 << 20

var (
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrImageTooLarge    = errors.New("image too large")
	ErrEmptyImage       = errors.New("empty image")
)

var allowedExt = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

var allowedMIME = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
}

// ValidateImage checks an upload against the PNG/JPG/JPEG whitelist and the
// size ceiling. A missing or generic MIME type is inferred from the file
// extension, then from the content.
func ValidateImage(img Image, maxBytes int64) (Image, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	if len(img.Data) == 0 {
		return Image{}, ErrEmptyImage
	}
	if int64(len(img.Data)) > maxBytes {
		return Image{}, fmt.Errorf("%w: %d bytes (max %d)", ErrImageTooLarge, len(img.Data), maxBytes)
	}

	ext := strings.ToLower(filepath.Ext(img.Name))
	mime := strings.ToLower(strings.TrimSpace(img.MIMEType))
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}

	if mime == "" || mime == "application/octet-stream" {
		if m, ok := allowedExt[ext]; ok {
			mime = m
		} else {
			mime = http.DetectContentType(img.Data)
		}
	}
	if !allowedMIME[mime] {
		return Image{}, fmt.Errorf("%w: %s", ErrUnsupportedImage, mime)
	}
	if ext != "" {
		if _, ok := allowedExt[ext]; !ok {
			return Image{}, fmt.Errorf("%w: %s", ErrUnsupportedImage, ext)
		}
	}

	img.MIMEType = mime
	return img, nil
}
