package layout

import "strings"

// Wrap breaks text into lines no wider than width. Explicit newlines are
// kept, and words that cannot fit on a line of their own are split by rune.
// Empty text yields a single empty line.
func Wrap(m Measurer, text string, width float64) []string {
	return wrapWidths(m, text, width, width)
}

// wrapWidths wraps with a separate width for the very first line, used when
// a label already occupies the start of it
func wrapWidths(m Measurer, text string, first, rest float64) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var lines []string
	width := first

	for _, paragraph := range strings.Split(text, "\n") {
		line := ""
		for _, word := range strings.Fields(paragraph) {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if m.StringWidth(candidate) <= width {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
				width = rest
			}
			if m.StringWidth(word) <= width {
				line = word
				continue
			}
			// Hard-break an over-long word
			chunk := ""
			for _, r := range word {
				next := chunk + string(r)
				if chunk != "" && m.StringWidth(next) > width {
					lines = append(lines, chunk)
					width = rest
					chunk = string(r)
					continue
				}
				chunk = next
			}
			line = chunk
		}
		lines = append(lines, line)
		width = rest
	}
	return lines
}

// Truncate shortens s with an ellipsis so it fits in width
func Truncate(m Measurer, s string, width float64) string {
	if m.StringWidth(s) <= width {
		return s
	}
	const ellipsis = "..."
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := strings.TrimRight(string(runes), " ") + ellipsis
		if m.StringWidth(candidate) <= width {
			return candidate
		}
	}
	return ""
}

// Point is a position on the page
type Point struct {
	X, Y float64
}

// Dots returns the centres of the small circles that make up a dotted
// answer line between x1 and x2. The circles stay fully inside [x1, x2].
func Dots(x1, x2, y, spacing, radius float64) []Point {
	if spacing <= 0 || x2-x1 < 2*radius {
		return nil
	}
	var dots []Point
	for x := x1 + radius; x <= x2-radius+1e-9; x += spacing {
		dots = append(dots, Point{X: x, Y: y})
	}
	return dots
}

// FieldLine is one printed line of a labelled dotted field
type FieldLine struct {
	Label  string
	LabelX float64
	Value  string
	ValueX float64
	DotsX1 float64
	DotsX2 float64
}

// DottedField lays out "Label: ........" with value written above the dots.
// Only the first line carries the label; continuation lines use the full
// width. gap is the space between the label and the start of the dots.
func DottedField(m Measurer, label, value string, x, width, gap float64) []FieldLine {
	labelW := 0.0
	if label != "" {
		labelW = m.StringWidth(label) + gap
	}
	firstW := width - labelW
	if firstW < 0 {
		firstW = 0
	}

	values := wrapWidths(m, value, firstW, width)
	lines := make([]FieldLine, len(values))
	for i, v := range values {
		if i == 0 {
			lines[i] = FieldLine{
				Label:  label,
				LabelX: x,
				Value:  v,
				ValueX: x + labelW,
				DotsX1: x + labelW,
				DotsX2: x + width,
			}
			continue
		}
		lines[i] = FieldLine{
			Value:  v,
			ValueX: x,
			DotsX1: x,
			DotsX2: x + width,
		}
	}
	return lines
}
