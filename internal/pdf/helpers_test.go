package pdf

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/a3tai/fieldforms/internal/forms"
	"github.com/a3tai/fieldforms/internal/signature"
)

func fixedNow() time.Time {
	return time.Date(2024, 3, 18, 14, 30, 0, 0, time.UTC)
}

func newTestService(t *testing.T, mutate ...func(*Options)) *Service {
	t.Helper()
	opts := Options{
		OutputDirectory: t.TempDir(),
		Company:         "Coolfix Ltd",
		Timeout:         time.Minute,
		Workers:         2,
		Now:             fixedNow,
	}
	for _, m := range mutate {
		m(&opts)
	}
	s, err := NewService(opts, zap.NewNop())
	require.NoError(t, err)
	return s
}

func testSignature(t *testing.T) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 120, 40))
	for x := 5; x < 115; x++ {
		img.Set(x, 20+(x%7)-3, color.NRGBA{A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	url, err := signature.DataURL(buf.Bytes())
	require.NoError(t, err)
	return url
}

// blankSignature is an untouched white signature canvas
func blankSignature(t *testing.T) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 120, 40))
	for x := 0; x < 120; x++ {
		for y := 0; y < 40; y++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	url, err := signature.DataURL(buf.Bytes())
	require.NoError(t, err)
	return url
}

func workOrder(t *testing.T, number string, signed bool) *forms.WorkOrder {
	t.Helper()
	wo := &forms.WorkOrder{
		Number:          number,
		Date:            "2024-03-18",
		Client:          forms.Party{Name: "Acme Cold Storage", City: "Porto"},
		Equipment:       forms.Equipment{Type: "Chiller", Serial: "CH-778"},
		ProblemReported: "Compressor trips on high pressure.",
		WorkPerformed:   "Replaced condenser fan motor.",
		Materials:       []forms.Material{{Description: "Fan motor", Quantity: 1, Unit: "pc"}},
		Technician:      forms.Signature{Name: "J. Silva", Image: testSignature(t), SignedAt: "2024-03-18"},
	}
	if signed {
		wo.Customer = forms.Signature{Name: "R. Costa", Image: testSignature(t), SignedAt: "2024-03-18"}
	}
	return wo
}

func envelope(t *testing.T, form forms.Form) *forms.Envelope {
	t.Helper()
	env, err := forms.Wrap(form)
	require.NoError(t, err)
	return env
}
