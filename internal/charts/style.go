// Package charts renders one PNG artifact per analysis stage. All rendering
// state lives in an explicit Style passed at construction; nothing mutates
// package-global configuration, so concurrent runs with different styles
// cannot clobber each other.
package charts

import (
	"fmt"
	"os"

	"golang.org/x/image/font/opentype"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/vg"
)

// Style is the rendering configuration for one Renderer.
type Style struct {
	Width  vg.Length
	Height vg.Length
	DPI    int
	// FontPath optionally points at a TTF carrying CJK glyphs; chart labels
	// are Chinese and the bundled Liberation fonts cannot draw them.
	FontPath string
	// Typeface names the face registered from FontPath.
	Typeface string
}

// DefaultStyle is 12x8 inches at 200 DPI.
func DefaultStyle() Style {
	return Style{
		Width:    12 * vg.Inch,
		Height:   8 * vg.Inch,
		DPI:      200,
		Typeface: "Liberation",
	}
}

// loadFont registers the style's TTF under its typeface name and returns the
// font selector to apply per plot. Registration adds a face to the shared
// cache; it never changes which face other renderers resolve.
func (s Style) loadFont() (font.Font, error) {
	fnt := font.Font{Typeface: font.Typeface(s.Typeface)}
	if s.FontPath == "" {
		return fnt, nil
	}
	raw, err := os.ReadFile(s.FontPath)
	if err != nil {
		return fnt, fmt.Errorf("read font: %w", err)
	}
	face, err := opentype.Parse(raw)
	if err != nil {
		return fnt, fmt.Errorf("parse font: %w", err)
	}
	font.DefaultCache.Add([]font.Face{{Font: fnt, Face: face}})
	return fnt, nil
}
