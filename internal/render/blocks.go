package render

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/a3tai/fieldforms/internal/forms"
	"github.com/a3tai/fieldforms/internal/layout"
	"github.com/a3tai/fieldforms/internal/signature"
)

// ErrSignature wraps failures to decode a captured signature
var ErrSignature = errors.New("invalid signature")

// baseline returns the text baseline inside a line box starting at y
func baseline(y float64) float64 {
	return y + lineHeight - 1.9
}

// dotline returns the y of the dotted rule inside a line box starting at y
func dotline(y float64) float64 {
	return y + lineHeight - 0.9
}

// Table geometry in millimetres
const (
	tableLine      = 5.0
	tableRowHeight = tableLine + 1
	// minBlockHeight is the least any block needs on the page it starts:
	// a table header with one row, or a labelled paragraph line.
	minBlockHeight = 2 * tableRowHeight
)

// Heading draws an upper-cased section title on a grey band. The heading is
// kept on the same page as the start of the block that follows it.
func (c *Canvas) Heading(title string) {
	const bandHeight = 7.0
	const after = 2.0
	c.cursor.Advance(2)
	c.Ensure(bandHeight + after + minBlockHeight)

	p := c.page
	y := c.cursor.Y()
	c.Gray(200, 230, 0)
	c.Rect(layout.Box{X: p.ContentLeft(), Y: y, W: p.ContentWidth(), H: bandHeight}, "F")
	c.SetFont("B", sizeHeading)
	c.Text(p.ContentLeft()+2, y+bandHeight-2, c.Upper(title))
	c.Gray(0, 235, 0)
	c.cursor.Advance(bandHeight + after)
}

// Field is a labelled value printed over a dotted blank
type Field struct {
	Label  string
	Value  string
	Weight float64
}

// Fields prints one or more dotted fields side by side. The row grows to the
// tallest wrapped value and is never split across pages.
func (c *Canvas) Fields(fields ...Field) {
	if len(fields) == 0 {
		return
	}
	p := c.page
	weights := make([]float64, len(fields))
	for i, f := range fields {
		weights[i] = f.Weight
	}
	const colGap = 4.0
	widths := layout.Columns(p.ContentWidth()-colGap*float64(len(fields)-1), weights...)

	c.SetFont("", sizeBody)
	laid := make([][]layout.FieldLine, len(fields))
	rows := 1
	x := p.ContentLeft()
	for i, f := range fields {
		label := f.Label
		if label != "" {
			label += ":"
		}
		c.SetFont("B", sizeBody)
		labelW := c.StringWidth(label)
		c.SetFont("", sizeBody)
		laid[i] = c.fieldLines(label, labelW, f.Value, x, widths[i])
		if len(laid[i]) > rows {
			rows = len(laid[i])
		}
		x += widths[i] + colGap
	}

	height := float64(rows) * lineHeight
	if height <= c.page.ContentHeight() {
		c.Ensure(height)
	}

	for r := 0; r < rows; r++ {
		if !c.cursor.Fits(lineHeight) {
			c.NewPage()
		}
		y := c.cursor.Y()
		for i := range fields {
			if r >= len(laid[i]) {
				continue
			}
			line := laid[i][r]
			if line.Label != "" {
				c.SetFont("B", sizeBody)
				c.Text(line.LabelX, baseline(y), line.Label)
			}
			c.SetFont("", sizeBody)
			c.Text(line.ValueX+0.5, baseline(y), line.Value)
			c.Dots(line.DotsX1, line.DotsX2, dotline(y))
		}
		c.cursor.Advance(lineHeight)
	}
}

// fieldLines wraps a value measured in the body font next to a bold label
func (c *Canvas) fieldLines(label string, labelW float64, value string, x, width float64) []layout.FieldLine {
	if label == "" {
		return layout.DottedField(c, "", value, x, width, 0)
	}
	return layout.DottedField(fixedLabel{c, label, labelW}, label, value, x, width, labelGap)
}

// fixedLabel measures the label with its bold width and everything else in
// the current font
type fixedLabel struct {
	m     layout.Measurer
	label string
	width float64
}

func (f fixedLabel) StringWidth(s string) float64 {
	if s == f.label {
		return f.width
	}
	return f.m.StringWidth(s)
}

// Paragraph prints a label followed by free text written over full-width
// dotted lines. Blank answers still get minLines empty lines to write on.
func (c *Canvas) Paragraph(label, text string, minLines int) {
	p := c.page
	c.SetFont("", sizeBody)
	lines := layout.Wrap(c, text, p.ContentWidth()-1)
	if text == "" {
		lines = nil
	}
	for len(lines) < minLines {
		lines = append(lines, "")
	}

	if label != "" {
		if !strings.ContainsAny(label[len(label)-1:], "?:.") {
			label += ":"
		}
		c.SetFont("B", sizeBody)
		captions := layout.Wrap(c, label, p.ContentWidth())
		c.Ensure(float64(len(captions)+1) * lineHeight)
		for _, caption := range captions {
			if !c.cursor.Fits(lineHeight) {
				c.NewPage()
				c.SetFont("B", sizeBody)
			}
			c.Text(p.ContentLeft(), baseline(c.cursor.Y()), caption)
			c.cursor.Advance(lineHeight)
		}
	}

	c.SetFont("", sizeBody)
	for _, line := range lines {
		if !c.cursor.Fits(lineHeight) {
			c.NewPage()
			c.SetFont("", sizeBody)
		}
		y := c.cursor.Y()
		c.Text(p.ContentLeft()+0.5, baseline(y), line)
		c.Dots(p.ContentLeft(), p.ContentRight(), dotline(y))
		c.cursor.Advance(lineHeight)
	}
}

// Column describes one table column
type Column struct {
	Header string
	Weight float64
	Align  string // "L", "C" or "R"
}

// Table prints a bordered table. Cells wrap and the header row is repeated
// after every page break. A row that does not fit on the current page moves
// to the next one; a row taller than a whole page is split between lines.
func (c *Canvas) Table(columns []Column, rows [][]string) {
	if len(columns) == 0 {
		return
	}
	p := c.page
	weights := make([]float64, len(columns))
	for i, col := range columns {
		weights[i] = col.Weight
	}
	widths := layout.Columns(p.ContentWidth(), weights...)
	const pad = 1.2

	drawHeader := func() {
		y := c.cursor.Y()
		c.Gray(120, 235, 0)
		c.SetFont("B", sizeSmall+0.5)
		x := p.ContentLeft()
		for i, col := range columns {
			c.Rect(layout.Box{X: x, Y: y, W: widths[i], H: tableRowHeight}, "FD")
			c.alignedText(col.Header, col.Align, x+pad, x+widths[i]-pad, y+tableLine-0.8)
			x += widths[i]
		}
		c.cursor.Advance(tableRowHeight)
		c.SetFont("", sizeBody)
	}
	breakPage := func() {
		c.NewPage()
		drawHeader()
	}

	c.Ensure(minBlockHeight)
	drawHeader()

	if len(rows) == 0 {
		c.SetFont("I", sizeSmall+0.5)
		c.Gray(120, 235, 110)
		y := c.cursor.Y()
		c.Rect(layout.Box{X: p.ContentLeft(), Y: y, W: p.ContentWidth(), H: tableRowHeight}, "D")
		c.Text(p.ContentLeft()+pad, y+tableLine-0.8, "No entries")
		c.cursor.Advance(tableRowHeight)
		c.Gray(0, 235, 0)
		return
	}

	// lines a fresh page holds below the repeated header
	pageLines := int((p.ContentHeight() - tableRowHeight - 1) / tableLine)

	for _, row := range rows {
		cells := make([][]string, len(columns))
		n := 1
		for i := range columns {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			cells[i] = layout.Wrap(c, value, widths[i]-2*pad)
			if len(cells[i]) > n {
				n = len(cells[i])
			}
		}

		if n <= pageLines && !c.cursor.Fits(float64(n)*tableLine+1) {
			breakPage()
		}
		for first := 0; first < n; {
			fit := int((c.cursor.Remaining() - 1) / tableLine)
			if fit < 1 {
				breakPage()
				continue
			}
			last := min(first+fit, n)
			c.tableSlice(columns, widths, cells, first, last, pad)
			first = last
			if first < n {
				breakPage()
			}
		}
	}
}

// tableSlice draws lines [first, last) of one row as a bordered band
func (c *Canvas) tableSlice(columns []Column, widths []float64, cells [][]string, first, last int, pad float64) {
	height := float64(last-first)*tableLine + 1
	y := c.cursor.Y()
	x := c.page.ContentLeft()
	c.Gray(120, 235, 0)
	for i, col := range columns {
		c.Rect(layout.Box{X: x, Y: y, W: widths[i], H: height}, "D")
		for j := first; j < last && j < len(cells[i]); j++ {
			c.alignedText(cells[i][j], col.Align, x+pad, x+widths[i]-pad, y+float64(j-first+1)*tableLine-0.8)
		}
		x += widths[i]
	}
	c.Gray(0, 235, 0)
	c.cursor.Advance(height)
}

func (c *Canvas) alignedText(s, align string, left, right, y float64) {
	switch align {
	case "R":
		c.TextRight(right, y, s)
	case "C":
		c.TextCenter((left+right)/2, y, s)
	default:
		c.Text(left, y, s)
	}
}

// Spacer advances the cursor without drawing, unless that would cross the footer
func (c *Canvas) Spacer(h float64) {
	if c.cursor.Fits(h) {
		c.cursor.Advance(h)
	}
}

// signatureHeight is the full height of the signature block
const signatureHeight = 46.0

// Signatures prints side-by-side signature boxes. The block is always kept
// on a single page; unsigned boxes are left as empty dotted blanks.
func (c *Canvas) Signatures(sigs ...labelledSignature) error {
	if len(sigs) == 0 {
		return nil
	}
	c.cursor.Advance(3)
	c.Ensure(signatureHeight)

	p := c.page
	const gap = 8.0
	width := (p.ContentWidth() - gap*float64(len(sigs)-1)) / float64(len(sigs))
	y := c.cursor.Y()

	for i, s := range sigs {
		x := p.ContentLeft() + float64(i)*(width+gap)
		c.SetFont("B", sizeBody)
		c.Text(x, y+4, s.caption)

		box := layout.Box{X: x, Y: y + 6, W: width, H: 26}
		c.Gray(160, 235, 0)
		c.Rect(box, "D")
		c.Gray(0, 235, 0)

		if s.sig.Signed() {
			img, err := c.opts.Decoder.Decode(s.sig.Image)
			if err != nil {
				return fmt.Errorf("%w (%s): %v", ErrSignature, s.caption, err)
			}
			blank, err := img.Blank()
			if err != nil {
				return fmt.Errorf("%w (%s): %v", ErrSignature, s.caption, err)
			}
			if !blank {
				inner := layout.Box{X: box.X + 2, Y: box.Y + 2, W: box.W - 4, H: box.H - 4}
				if err := c.Image(img, inner); err != nil {
					return fmt.Errorf("%w (%s): %v", ErrSignature, s.caption, err)
				}
			}
		}

		c.SetFont("", sizeBody)
		nameY := box.Bottom() + 1
		c.Text(x, baseline(nameY), "Name:")
		nameX := x + c.StringWidth("Name:") + labelGap
		c.Text(nameX+0.5, baseline(nameY), layout.Truncate(c, s.sig.Name, x+width-nameX-1))
		c.Dots(nameX, x+width, dotline(nameY))

		dateY := nameY + lineHeight
		c.Text(x, baseline(dateY), "Date:")
		dateX := x + c.StringWidth("Date:") + labelGap
		c.Text(dateX+0.5, baseline(dateY), s.sig.SignedAt)
		c.Dots(dateX, x+width, dotline(dateY))
	}
	c.cursor.Advance(signatureHeight)
	return nil
}

type labelledSignature struct {
	caption string
	sig     forms.Signature
}

// number formats quantities without trailing zeros
func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Captured reports whether s holds a drawn signature. An untouched canvas,
// every pixel white or transparent, is not a signature.
func Captured(d *signature.Decoder, s forms.Signature) (bool, error) {
	if !s.Signed() {
		return false, nil
	}
	img, err := d.Decode(s.Image)
	if err != nil {
		return false, err
	}
	blank, err := img.Blank()
	if err != nil {
		return false, err
	}
	return !blank, nil
}
