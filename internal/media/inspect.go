package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxBytes     = int64(5 * 1024 * 1024)
	DefaultMaxDimension = 6000
)

var (
	ErrEmptyImage       = errors.New("image file is required")
	ErrImageTooLarge    = errors.New("image exceeds the maximum allowed size")
	ErrUnsupportedImage = errors.New("unsupported image format")
	ErrImageDimensions  = errors.New("image dimensions exceed the allowed maximum")
)

type Upload struct {
	Reader      io.Reader
	Size        int64
	FileName    string
	ContentType string
}

// Image is an upload that decoded cleanly and is ready to be stored.
type Image struct {
	Bytes       []byte
	ContentType string
	Width       int
	Height      int
}

type Limits struct {
	MaxBytes     int64
	MaxDimension int
}

// Inspect reads the upload, sniffs its real format and checks it against
// limits. The content type of the result comes from the decoded format, not
// from what the client claimed.
func Inspect(upload Upload, limits Limits) (*Image, error) {
	if upload.Reader == nil {
		return nil, ErrEmptyImage
	}
	maxBytes := limits.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	maxDim := limits.MaxDimension
	if maxDim <= 0 {
		maxDim = DefaultMaxDimension
	}
	if upload.Size > maxBytes {
		return nil, ErrImageTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(upload.Reader, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("media: read image: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	if int64(len(data)) > maxBytes {
		return nil, ErrImageTooLarge
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrUnsupportedImage, cfg.Width, cfg.Height)
	}
	if cfg.Width > maxDim || cfg.Height > maxDim {
		return nil, fmt.Errorf("%w: %dx%d > %d", ErrImageDimensions, cfg.Width, cfg.Height, maxDim)
	}

	return &Image{
		Bytes:       data,
		ContentType: contentTypeFor(format, upload.ContentType, upload.FileName),
		Width:       cfg.Width,
		Height:      cfg.Height,
	}, nil
}

func contentTypeFor(format, declared, fileName string) string {
	switch format {
	case "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	}
	return normalizeContentType(declared, fileName)
}

func normalizeContentType(value, fileName string) string {
	ct := strings.ToLower(strings.TrimSpace(value))
	if ct != "" {
		if ct == "image/jpg" {
			return "image/jpeg"
		}
		return ct
	}
	ext := strings.ToLower(strings.TrimSpace(filepath.Ext(fileName)))
	if ext != "" {
		if mt := mime.TypeByExtension(ext); mt != "" {
			return strings.ToLower(mt)
		}
	}
	return "application/octet-stream"
}
