package layout

const epsilon = 1e-6

// Cursor tracks the vertical write position across pages
type Cursor struct {
	page    Page
	y       float64
	pageNum int
}

// NewCursor starts at the top of the content area of page one
func NewCursor(p Page) *Cursor {
	return &Cursor{page: p, y: p.ContentTop(), pageNum: 1}
}

// Y returns the current vertical position
func (c *Cursor) Y() float64 { return c.y }

// Page returns the page geometry
func (c *Cursor) Page() Page { return c.page }

// PageNumber returns the 1-based number of the current page
func (c *Cursor) PageNumber() int { return c.pageNum }

// Remaining returns the height left above the footer
func (c *Cursor) Remaining() float64 {
	return c.page.ContentBottom() - c.y
}

// AtTop reports whether nothing has been placed on the current page yet
func (c *Cursor) AtTop() bool {
	return c.y <= c.page.ContentTop()+epsilon
}

// Fits reports whether a block of height h fits above the footer
func (c *Cursor) Fits(h float64) bool {
	return c.y+h <= c.page.ContentBottom()+epsilon
}

// NeedsBreak reports whether a page break must happen before placing a
// block of height h. A block taller than a whole page never asks for a
// break at the top of a page; callers split such blocks themselves.
func (c *Cursor) NeedsBreak(h float64) bool {
	return !c.Fits(h) && !c.AtTop()
}

// Advance moves the cursor down by h
func (c *Cursor) Advance(h float64) {
	c.y += h
}

// MoveTo sets the cursor to an absolute y
func (c *Cursor) MoveTo(y float64) {
	c.y = y
}

// NewPage moves to the top of the next page
func (c *Cursor) NewPage() {
	c.pageNum++
	c.y = c.page.ContentTop()
}
