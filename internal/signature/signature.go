// Package signature decodes the raster images produced by the signature
// capture canvas so they can be embedded in rendered documents.
package signature

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"
)

// Image formats understood by the PDF renderer
const (
	FormatPNG  = "PNG"
	FormatJPEG = "JPG"
)

// DefaultMaxBytes bounds a decoded signature image
const DefaultMaxBytes = 2 * 1024 * 1024

var (
	// ErrEmpty is returned when no signature was captured
	ErrEmpty = errors.New("signature is empty")
	// ErrUnsupportedFormat is returned for payloads that are neither PNG nor JPEG
	ErrUnsupportedFormat = errors.New("signature must be a PNG or JPEG image")
)

var (
	pngMagic  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	jpegMagic = []byte{0xff, 0xd8, 0xff}
)

// Image is a decoded signature ready for embedding
type Image struct {
	Data   []byte
	Format string
	Width  int
	Height int
}

// Decoder turns captured signature strings into images
type Decoder struct {
	maxBytes int
}

// NewDecoder creates a decoder rejecting images larger than maxBytes
func NewDecoder(maxBytes int) *Decoder {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Decoder{maxBytes: maxBytes}
}

// Decode accepts raw base64 or a data URL such as "data:image/png;base64,..."
func (d *Decoder) Decode(s string) (*Image, error) {
	payload := strings.TrimSpace(s)
	if payload == "" {
		return nil, ErrEmpty
	}

	if strings.HasPrefix(payload, "data:") {
		comma := strings.IndexByte(payload, ',')
		if comma < 0 {
			return nil, fmt.Errorf("malformed data URL")
		}
		header := payload[len("data:"):comma]
		if !strings.HasSuffix(header, ";base64") {
			return nil, fmt.Errorf("data URL must be base64 encoded")
		}
		payload = payload[comma+1:]
	}

	// Canvas libraries sometimes wrap lines or drop padding
	payload = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == ' ' {
			return -1
		}
		return r
	}, payload)

	if base64.StdEncoding.DecodedLen(len(payload)) > d.maxBytes+3 {
		return nil, fmt.Errorf("signature exceeds %d bytes", d.maxBytes)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, fmt.Errorf("invalid base64 signature: %w", err)
		}
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if len(data) > d.maxBytes {
		return nil, fmt.Errorf("signature exceeds %d bytes", d.maxBytes)
	}

	var format string
	var cfg image.Config
	switch {
	case bytes.HasPrefix(data, pngMagic):
		format = FormatPNG
		cfg, err = png.DecodeConfig(bytes.NewReader(data))
	case bytes.HasPrefix(data, jpegMagic):
		format = FormatJPEG
		cfg, err = jpeg.DecodeConfig(bytes.NewReader(data))
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, fmt.Errorf("corrupt %s signature: %w", format, err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("signature has zero size")
	}

	return &Image{
		Data:   data,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}

// Blank reports whether the image contains no strokes: every pixel is
// either fully transparent or near white
func (img *Image) Blank() (bool, error) {
	decoded, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return false, fmt.Errorf("failed to decode signature: %w", err)
	}

	const whiteThreshold = 0xf000
	bounds := decoded.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := decoded.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			if r < whiteThreshold || g < whiteThreshold || b < whiteThreshold {
				return false, nil
			}
		}
	}
	return true, nil
}

// DataURL encodes raw PNG or JPEG bytes as a data URL, the shape the
// capture canvas produces
func DataURL(data []byte) (string, error) {
	var mime string
	switch {
	case bytes.HasPrefix(data, pngMagic):
		mime = "image/png"
	case bytes.HasPrefix(data, jpegMagic):
		mime = "image/jpeg"
	default:
		return "", ErrUnsupportedFormat
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
