package viewer

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"diary/internal/entry"
)

var (
	ErrNoImage         = errors.New("entry has no image")
	ErrImageUnreadable = errors.New("could not load image")
)

// Image is a decoded entry attachment ready to be served.
type Image struct {
	Data     []byte
	MIMEType string
	Format   string
	Width    int
	Height   int
}

// DecodeImage decodes the stored base64 and checks the bytes are a PNG or
// JPEG picture. A failure here only affects the image; the rest of the entry
// is still viewable.
func DecodeImage(e entry.Entry) (Image, error) {
	if !e.HasImage() {
		return Image{}, ErrNoImage
	}
	raw, err := base64.StdEncoding.DecodeString(e.Image)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrImageUnreadable, err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrImageUnreadable, err)
	}

	mime := e.ImageType
	if mime == "" {
		mime = "image/" + format
	}
	return Image{
		Data:     raw,
		MIMEType: mime,
		Format:   format,
		Width:    cfg.Width,
		Height:   cfg.Height,
	}, nil
}
