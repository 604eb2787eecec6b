// Package layout holds the coordinate arithmetic behind the form templates:
// page geometry, word wrapping, dotted answer blanks, image fitting and the
// vertical cursor that decides page breaks. All units are millimetres and
// nothing here draws; text widths come from a Measurer.
package layout

import "fmt"

// Measurer reports the rendered width of a string in the current font
type Measurer interface {
	StringWidth(s string) float64
}

// Margins in millimetres
type Margins struct {
	Top, Right, Bottom, Left float64
}

// Page describes the printable geometry of one page
type Page struct {
	Name         string
	Width        float64
	Height       float64
	Margins      Margins
	HeaderHeight float64
	FooterHeight float64
}

// Standard page sizes
const (
	SizeA4     = "A4"
	SizeLetter = "Letter"
)

// NewPage returns the page geometry for a named size
func NewPage(size string) (Page, error) {
	p := Page{
		Name:         size,
		Margins:      Margins{Top: 12, Right: 15, Bottom: 12, Left: 15},
		HeaderHeight: 24,
		FooterHeight: 12,
	}
	switch size {
	case SizeA4, "":
		p.Name = SizeA4
		p.Width, p.Height = 210, 297
	case SizeLetter:
		p.Width, p.Height = 215.9, 279.4
	default:
		return Page{}, fmt.Errorf("unsupported page size: %s", size)
	}
	return p, nil
}

// ContentTop is the first y below the header
func (p Page) ContentTop() float64 {
	return p.Margins.Top + p.HeaderHeight
}

// ContentBottom is the last y above the footer
func (p Page) ContentBottom() float64 {
	return p.Height - p.Margins.Bottom - p.FooterHeight
}

// ContentLeft is the left edge of the content area
func (p Page) ContentLeft() float64 {
	return p.Margins.Left
}

// ContentRight is the right edge of the content area
func (p Page) ContentRight() float64 {
	return p.Width - p.Margins.Right
}

// ContentWidth is the usable width between margins
func (p Page) ContentWidth() float64 {
	return p.ContentRight() - p.ContentLeft()
}

// ContentHeight is the usable height between header and footer
func (p Page) ContentHeight() float64 {
	return p.ContentBottom() - p.ContentTop()
}

// FooterY is the baseline area reserved for the footer
func (p Page) FooterY() float64 {
	return p.ContentBottom() + 2
}

// Box is a rectangle with its origin at the top-left corner
type Box struct {
	X, Y, W, H float64
}

// Right edge of the box
func (b Box) Right() float64 { return b.X + b.W }

// Bottom edge of the box
func (b Box) Bottom() float64 { return b.Y + b.H }

// Columns splits total into proportional widths. Non-positive weights count as 1.
func Columns(total float64, weights ...float64) []float64 {
	if len(weights) == 0 {
		return nil
	}
	var sum float64
	norm := make([]float64, len(weights))
	for i, w := range weights {
		if w <= 0 {
			w = 1
		}
		norm[i] = w
		sum += w
	}
	widths := make([]float64, len(weights))
	var used float64
	for i, w := range norm {
		if i == len(norm)-1 {
			widths[i] = total - used
			break
		}
		widths[i] = total * w / sum
		used += widths[i]
	}
	return widths
}

// FitImage scales a srcW x srcH image into box, keeping its aspect ratio
// and centering it
func FitImage(srcW, srcH float64, box Box) Box {
	if srcW <= 0 || srcH <= 0 || box.W <= 0 || box.H <= 0 {
		return Box{X: box.X, Y: box.Y}
	}
	scale := box.W / srcW
	if s := box.H / srcH; s < scale {
		scale = s
	}
	w, h := srcW*scale, srcH*scale
	return Box{
		X: box.X + (box.W-w)/2,
		Y: box.Y + (box.H-h)/2,
		W: w,
		H: h,
	}
}
