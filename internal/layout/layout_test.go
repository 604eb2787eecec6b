package layout

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedMeasurer gives every rune the same width
type fixedMeasurer float64

func (f fixedMeasurer) StringWidth(s string) float64 {
	return float64(utf8.RuneCountInString(s)) * float64(f)
}

func TestWrap(t *testing.T) {
	m := fixedMeasurer(1)

	tests := []struct {
		name  string
		text  string
		width float64
		want  []string
	}{
		{name: "empty", text: "", width: 10, want: []string{""}},
		{name: "fits", text: "short text", width: 10, want: []string{"short text"}},
		{name: "greedy", text: "the quick brown fox jumps", width: 10, want: []string{"the quick", "brown fox", "jumps"}},
		{name: "newlines kept", text: "one\n\ntwo", width: 10, want: []string{"one", "", "two"}},
		{name: "long word split", text: "abcdefghijkl xy", width: 5, want: []string{"abcde", "fghij", "kl xy"}},
		{name: "crlf", text: "a\r\nb", width: 5, want: []string{"a", "b"}},
		{name: "unicode", text: "ação técnica", width: 6, want: []string{"ação", "técnic", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Wrap(m, tt.text, tt.width))
		})
	}
}

func TestWrap_LinesNeverExceedWidth(t *testing.T) {
	m := fixedMeasurer(2.1)
	text := strings.Repeat("maintenance of the condenser coil and fan assembly ", 20)
	for _, line := range Wrap(m, text, 60) {
		assert.LessOrEqual(t, m.StringWidth(line), 60.0, line)
	}
}

func TestTruncate(t *testing.T) {
	m := fixedMeasurer(1)
	assert.Equal(t, "hello", Truncate(m, "hello", 5))
	assert.Equal(t, "hel...", Truncate(m, "hello world", 6))
	assert.Equal(t, "", Truncate(m, "hello", 2))
}

func TestDots(t *testing.T) {
	dots := Dots(10, 20, 5, 2, 0.25)
	require.NotEmpty(t, dots)
	assert.InDelta(t, 10.25, dots[0].X, 1e-9)
	for _, d := range dots {
		assert.GreaterOrEqual(t, d.X-0.25, 10.0)
		assert.LessOrEqual(t, d.X+0.25, 20.0+1e-9)
		assert.Equal(t, 5.0, d.Y)
	}
	assert.Len(t, dots, 5)

	assert.Nil(t, Dots(20, 10, 0, 2, 0.25))
	assert.Nil(t, Dots(0, 10, 0, 0, 0.25))
}

func TestDottedField(t *testing.T) {
	m := fixedMeasurer(1)

	lines := DottedField(m, "Client:", "Acme Refrigeration Services", 10, 30, 2)
	require.Len(t, lines, 2)

	first := lines[0]
	assert.Equal(t, "Client:", first.Label)
	assert.Equal(t, 10.0, first.LabelX)
	assert.Equal(t, 19.0, first.DotsX1)
	assert.Equal(t, 40.0, first.DotsX2)
	assert.Equal(t, "Acme Refrigeration", first.Value)

	second := lines[1]
	assert.Empty(t, second.Label)
	assert.Equal(t, 10.0, second.DotsX1)
	assert.Equal(t, "Services", second.Value)

	blank := DottedField(m, "Notes:", "", 0, 40, 2)
	require.Len(t, blank, 1)
	assert.Empty(t, blank[0].Value)
}

func TestCursor(t *testing.T) {
	page, err := NewPage(SizeA4)
	require.NoError(t, err)

	c := NewCursor(page)
	assert.True(t, c.AtTop())
	assert.Equal(t, page.ContentTop(), c.Y())
	assert.Equal(t, 1, c.PageNumber())

	// A block taller than the page does not force a break at the top
	assert.False(t, c.NeedsBreak(page.ContentHeight()+50))

	c.Advance(page.ContentHeight() - 5)
	assert.True(t, c.Fits(5))
	assert.False(t, c.Fits(5.1))
	assert.True(t, c.NeedsBreak(10))
	assert.InDelta(t, 5.0, c.Remaining(), 1e-9)

	c.NewPage()
	assert.Equal(t, 2, c.PageNumber())
	assert.True(t, c.AtTop())
}

func TestNewPage(t *testing.T) {
	a4, err := NewPage("")
	require.NoError(t, err)
	assert.Equal(t, SizeA4, a4.Name)
	assert.Equal(t, 180.0, a4.ContentWidth())
	assert.Less(t, a4.ContentBottom(), a4.Height-a4.Margins.Bottom)

	letter, err := NewPage(SizeLetter)
	require.NoError(t, err)
	assert.InDelta(t, 215.9, letter.Width, 1e-9)

	_, err = NewPage("A3")
	assert.Error(t, err)
}

func TestColumns(t *testing.T) {
	widths := Columns(100, 2, 1, 1)
	assert.Equal(t, []float64{50, 25, 25}, widths)

	widths = Columns(90, 0, 1, -3)
	require.Len(t, widths, 3)
	assert.InDelta(t, 30, widths[2], 1e-9)
	assert.Nil(t, Columns(100))
}

func TestFitImage(t *testing.T) {
	box := Box{X: 0, Y: 0, W: 80, H: 30}

	wide := FitImage(400, 100, box)
	assert.InDelta(t, 80, wide.W, 1e-9)
	assert.InDelta(t, 20, wide.H, 1e-9)
	assert.InDelta(t, 5, wide.Y, 1e-9)

	tall := FitImage(100, 300, box)
	assert.InDelta(t, 10, tall.W, 1e-9)
	assert.InDelta(t, 30, tall.H, 1e-9)
	assert.InDelta(t, 35, tall.X, 1e-9)

	empty := FitImage(0, 10, box)
	assert.Zero(t, empty.W)
}
