package signature

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strokePNG(t *testing.T, w, h int, stroke bool) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	if stroke {
		for x := 2; x < w-2; x++ {
			img.Set(x, h/2, color.NRGBA{A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecoder_Decode(t *testing.T) {
	d := NewDecoder(0)
	pngData := strokePNG(t, 40, 20, true)

	var jpg bytes.Buffer
	require.NoError(t, jpeg.Encode(&jpg, image.NewGray(image.Rect(0, 0, 16, 8)), nil))

	raw := base64.StdEncoding.EncodeToString(pngData)

	tests := []struct {
		name       string
		input      string
		wantFormat string
		wantW      int
		wantErr    error
		anyErr     bool
	}{
		{name: "raw base64 png", input: raw, wantFormat: FormatPNG, wantW: 40},
		{name: "data url png", input: "data:image/png;base64," + raw, wantFormat: FormatPNG, wantW: 40},
		{name: "wrapped base64", input: raw[:10] + "\n" + raw[10:], wantFormat: FormatPNG, wantW: 40},
		{name: "unpadded", input: strings.TrimRight(raw, "="), wantFormat: FormatPNG, wantW: 40},
		{
			name:       "jpeg data url",
			input:      "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpg.Bytes()),
			wantFormat: FormatJPEG,
			wantW:      16,
		},
		{name: "empty", input: "  ", wantErr: ErrEmpty},
		{name: "not an image", input: base64.StdEncoding.EncodeToString([]byte("GIF89a....")), wantErr: ErrUnsupportedFormat},
		{name: "bad base64", input: "!!!!", anyErr: true},
		{name: "data url without base64", input: "data:image/png," + raw, anyErr: true},
		{name: "truncated png", input: base64.StdEncoding.EncodeToString(pngData[:12]), anyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := d.Decode(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			if tt.anyErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFormat, img.Format)
			assert.Equal(t, tt.wantW, img.Width)
		})
	}
}

func TestDecoder_MaxBytes(t *testing.T) {
	d := NewDecoder(64)
	data := strokePNG(t, 200, 200, true)
	_, err := d.Decode(base64.StdEncoding.EncodeToString(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestImage_Blank(t *testing.T) {
	d := NewDecoder(0)

	signed, err := d.Decode(base64.StdEncoding.EncodeToString(strokePNG(t, 30, 10, true)))
	require.NoError(t, err)
	blank, err := signed.Blank()
	require.NoError(t, err)
	assert.False(t, blank)

	untouched, err := d.Decode(base64.StdEncoding.EncodeToString(strokePNG(t, 30, 10, false)))
	require.NoError(t, err)
	blank, err = untouched.Blank()
	require.NoError(t, err)
	assert.True(t, blank)
}

func TestDataURL(t *testing.T) {
	data := strokePNG(t, 10, 10, true)
	url, err := DataURL(data)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))

	img, err := NewDecoder(0).Decode(url)
	require.NoError(t, err)
	assert.Equal(t, 10, img.Height)

	_, err = DataURL([]byte("plain text"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
