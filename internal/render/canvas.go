// Package render holds the PDF template functions. Each template issues
// sequential draw calls against go-pdf/fpdf at coordinates computed by the
// layout package.
package render

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/a3tai/fieldforms/internal/layout"
	"github.com/a3tai/fieldforms/internal/signature"
)

// Font families registered on every document
const (
	fontSans = "GoSans"
	fontMono = "GoMono"
)

// Font sizes in points
const (
	sizeBody    = 9.5
	sizeSmall   = 7.5
	sizeHeading = 10.5
	sizeTitle   = 15
)

// Vertical rhythm in millimetres
const (
	lineHeight = 6.0
	dotSpacing = 1.1
	dotRadius  = 0.18
	labelGap   = 1.5
)

// Options control page setup and the printed header/footer
type Options struct {
	PageSize string
	Company  string
	Draft    bool
	Now      func() time.Time
	Decoder  *signature.Decoder
}

func (o Options) withDefaults() Options {
	if o.PageSize == "" {
		o.PageSize = layout.SizeA4
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Decoder == nil {
		o.Decoder = signature.NewDecoder(0)
	}
	return o
}

// header is what every page repeats at the top
type header struct {
	title     string
	reference string
	date      string
}

// Canvas wraps an fpdf document with the cursor that drives pagination
type Canvas struct {
	pdf    *fpdf.Fpdf
	page   layout.Page
	cursor *layout.Cursor
	opts   Options
	header header
	upper  cases.Caser
	images int
}

// NewCanvas creates a document with embedded fonts and opens the first page
func NewCanvas(opts Options, h header) (*Canvas, error) {
	opts = opts.withDefaults()
	page, err := layout.NewPage(opts.PageSize)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: page.Width, Ht: page.Height},
	})
	pdf.SetMargins(page.Margins.Left, page.Margins.Top, page.Margins.Right)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AliasNbPages("{nb}")

	pdf.AddUTF8FontFromBytes(fontSans, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(fontSans, "B", gobold.TTF)
	pdf.AddUTF8FontFromBytes(fontSans, "I", goitalic.TTF)
	pdf.AddUTF8FontFromBytes(fontMono, "", gomono.TTF)

	now := opts.Now()
	pdf.SetTitle(h.title+" "+h.reference, true)
	pdf.SetSubject(h.title, true)
	pdf.SetCreator("fieldforms", true)
	if opts.Company != "" {
		pdf.SetAuthor(opts.Company, true)
	}
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)

	c := &Canvas{
		pdf:    pdf,
		page:   page,
		cursor: layout.NewCursor(page),
		opts:   opts,
		header: h,
		upper:  cases.Upper(language.Und),
	}
	pdf.SetHeaderFuncMode(c.drawHeader, false)
	pdf.SetFooterFunc(c.drawFooter)
	pdf.AddPage()

	if pdf.Err() {
		return nil, fmt.Errorf("failed to initialise document: %w", pdf.Error())
	}
	return c, nil
}

// StringWidth implements layout.Measurer for the current font
func (c *Canvas) StringWidth(s string) float64 {
	return c.pdf.GetStringWidth(s)
}

// Cursor exposes the vertical position
func (c *Canvas) Cursor() *layout.Cursor {
	return c.cursor
}

// Page returns the page geometry
func (c *Canvas) Page() layout.Page {
	return c.page
}

// NewPage starts a new page and moves the cursor to its top
func (c *Canvas) NewPage() {
	c.pdf.AddPage()
	c.cursor.NewPage()
}

// Ensure breaks the page when a block of height h no longer fits
func (c *Canvas) Ensure(h float64) bool {
	if c.cursor.NeedsBreak(h) {
		c.NewPage()
		return true
	}
	return false
}

// SetFont selects the sans family in the given style and size
func (c *Canvas) SetFont(style string, size float64) {
	c.pdf.SetFont(fontSans, style, size)
}

// SetMono selects the monospaced family
func (c *Canvas) SetMono(size float64) {
	c.pdf.SetFont(fontMono, "", size)
}

// Text draws s with its baseline at y
func (c *Canvas) Text(x, y float64, s string) {
	if s == "" {
		return
	}
	c.pdf.Text(x, y, s)
}

// TextRight draws s right-aligned to x
func (c *Canvas) TextRight(x, y float64, s string) {
	c.Text(x-c.StringWidth(s), y, s)
}

// TextCenter draws s centred on x
func (c *Canvas) TextCenter(x, y float64, s string) {
	c.Text(x-c.StringWidth(s)/2, y, s)
}

// Line draws a thin straight line
func (c *Canvas) Line(x1, y1, x2, y2 float64) {
	c.pdf.Line(x1, y1, x2, y2)
}

// Dots draws a dotted answer line from x1 to x2
func (c *Canvas) Dots(x1, x2, y float64) {
	for _, p := range layout.Dots(x1, x2, y, dotSpacing, dotRadius) {
		c.pdf.Circle(p.X, p.Y, dotRadius, "F")
	}
}

// Rect draws a rectangle; style is "D" (outline), "F" (fill) or "FD"
func (c *Canvas) Rect(b layout.Box, style string) {
	c.pdf.Rect(b.X, b.Y, b.W, b.H, style)
}

// Gray sets draw, fill and text colours to a grey level
func (c *Canvas) Gray(draw, fill, text int) {
	c.pdf.SetDrawColor(draw, draw, draw)
	c.pdf.SetFillColor(fill, fill, fill)
	c.pdf.SetTextColor(text, text, text)
}

// Upper upper-cases a heading
func (c *Canvas) Upper(s string) string {
	return c.upper.String(s)
}

// Image embeds a decoded raster image fitted into box
func (c *Canvas) Image(img *signature.Image, box layout.Box) error {
	c.images++
	name := fmt.Sprintf("img-%d", c.images)
	info := c.pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: img.Format}, bytes.NewReader(img.Data))
	if info == nil || c.pdf.Err() {
		return fmt.Errorf("failed to embed image: %w", c.pdf.Error())
	}
	fit := layout.FitImage(float64(img.Width), float64(img.Height), box)
	c.pdf.ImageOptions(name, fit.X, fit.Y, fit.W, fit.H, false, fpdf.ImageOptions{ImageType: img.Format}, 0, "")
	return nil
}

// Output writes the finished document
func (c *Canvas) Output(w io.Writer) error {
	if c.pdf.Err() {
		return fmt.Errorf("document error: %w", c.pdf.Error())
	}
	if err := c.pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// PageCount returns the number of pages emitted so far
func (c *Canvas) PageCount() int {
	return c.pdf.PageCount()
}

func (c *Canvas) drawHeader() {
	p := c.page
	top := p.Margins.Top
	left, right := p.ContentLeft(), p.ContentRight()

	c.Gray(0, 235, 0)
	c.SetFont("B", 11)
	company := c.opts.Company
	if company == "" {
		company = "Field Service"
	}
	c.Text(left, top+5, layout.Truncate(c, company, p.ContentWidth()/2))

	c.SetFont("B", sizeTitle)
	c.TextRight(right, top+6, c.Upper(c.header.title))

	c.SetFont("", sizeBody)
	meta := "No. " + c.header.reference
	if c.header.date != "" {
		meta += "    Date: " + c.header.date
	}
	c.TextRight(right, top+12, meta)

	c.pdf.SetLineWidth(0.4)
	lineY := p.ContentTop() - 4
	c.Line(left, lineY, right, lineY)
	c.pdf.SetLineWidth(0.2)
}

func (c *Canvas) drawFooter() {
	p := c.page
	y := p.FooterY() + 5
	c.pdf.SetLineWidth(0.2)
	c.Gray(120, 235, 90)
	c.Line(p.ContentLeft(), p.FooterY(), p.ContentRight(), p.FooterY())

	c.SetFont("", sizeSmall)
	c.Text(p.ContentLeft(), y, fmt.Sprintf("Page %d of {nb}", c.pdf.PageNo()))
	if c.opts.Draft {
		c.SetFont("B", sizeSmall)
		c.TextCenter(p.Width/2, y, "DRAFT - NOT SIGNED")
		c.SetFont("", sizeSmall)
	}
	c.TextRight(p.ContentRight(), y, "Generated "+c.opts.Now().Format("2006-01-02 15:04"))
	c.Gray(0, 235, 0)
}
