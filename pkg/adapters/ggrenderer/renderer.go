// Package ggrenderer provides a renderer implementation using the gg library.
package ggrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/MuggleFighter/fuckteslacam/pkg/ports"
)

var (
	fontOnce   sync.Once
	parsedFont *truetype.Font
)

// faceFor returns a Go Regular face at the given size. If the bundled font
// cannot be parsed, a fixed-size bitmap face is used instead.
func faceFor(size float64) font.Face {
	fontOnce.Do(func() {
		f, err := truetype.Parse(goregular.TTF)
		if err == nil {
			parsedFont = f
		}
	})
	if parsedFont == nil {
		return basicfont.Face7x13
	}
	return truetype.NewFace(parsedFont, &truetype.Options{Size: size})
}

// Renderer implements ports.Renderer using the gg library.
type Renderer struct{}

// New creates a new Renderer.
func New() *Renderer {
	return &Renderer{}
}

// CreateCanvas creates a new drawing canvas.
func (r *Renderer) CreateCanvas(width, height int, bg color.Color) ports.Canvas {
	dc := gg.NewContext(width, height)
	dc.SetColor(bg)
	dc.Clear()
	return &Canvas{dc: dc}
}

// EncodeImage encodes an image to the specified format.
func (r *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case ports.FormatJPEG:
		opts := &jpeg.Options{Quality: quality}
		if err := jpeg.Encode(&buf, img, opts); err != nil {
			return nil, fmt.Errorf("encode JPEG: %w", err)
		}
	case ports.FormatPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode PNG: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %d", format)
	}

	return buf.Bytes(), nil
}

// Ensure Renderer implements ports.Renderer
var _ ports.Renderer = (*Renderer)(nil)

// Canvas implements ports.Canvas using gg.Context.
type Canvas struct {
	dc       *gg.Context
	faceSize float64
}

func (c *Canvas) setFace(size float64) {
	if size <= 0 {
		size = 13
	}
	if c.faceSize != size {
		c.dc.SetFontFace(faceFor(size))
		c.faceSize = size
	}
}

// DrawImage draws an image at the specified position.
func (c *Canvas) DrawImage(img image.Image, x, y int) {
	c.dc.DrawImage(img, x, y)
}

// DrawRect draws a filled rectangle.
func (c *Canvas) DrawRect(x, y, w, h int, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawRectangle(float64(x), float64(y), float64(w), float64(h))
	c.dc.Fill()
}

// DrawRoundedRect draws a filled rounded rectangle.
func (c *Canvas) DrawRoundedRect(x, y, w, h, radius int, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawRoundedRectangle(float64(x), float64(y), float64(w), float64(h), float64(radius))
	c.dc.Fill()
}

// DrawText draws text at the specified position.
func (c *Canvas) DrawText(text string, x, y int, style ports.TextStyle) {
	c.setFace(style.FontSize)
	c.dc.SetColor(style.Color)

	ax := 0.0
	switch style.Align {
	case ports.AlignCenter:
		ax = 0.5
	case ports.AlignRight:
		ax = 1.0
	}

	c.dc.DrawStringAnchored(text, float64(x), float64(y), ax, 0.5)
}

// MeasureText returns the rendered width and the line height of the text.
func (c *Canvas) MeasureText(text string, style ports.TextStyle) (float64, float64) {
	c.setFace(style.FontSize)
	width, _ := c.dc.MeasureString(text)
	return width, c.dc.FontHeight()
}

// ToImage returns the canvas as an image.Image.
func (c *Canvas) ToImage() image.Image {
	return c.dc.Image()
}

// Ensure Canvas implements ports.Canvas
var _ ports.Canvas = (*Canvas)(nil)
