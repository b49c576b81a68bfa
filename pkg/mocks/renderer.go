package mocks

import (
	"image"
	"image/color"
	"sync"

	"github.com/MuggleFighter/fuckteslacam/pkg/ports"
)

// Renderer is a mock implementation of ports.Renderer. Canvases it creates
// record their drawing calls for verification.
type Renderer struct {
	mu       sync.Mutex
	Canvases []*Canvas

	// TextWidthPerChar controls the width MeasureText reports per character.
	// Defaults to 10 when zero.
	TextWidthPerChar float64
}

func (m *Renderer) CreateCanvas(width, height int, bg color.Color) ports.Canvas {
	perChar := m.TextWidthPerChar
	if perChar == 0 {
		perChar = 10
	}
	c := &Canvas{width: width, height: height, textWidthPerChar: perChar}
	m.mu.Lock()
	m.Canvases = append(m.Canvases, c)
	m.mu.Unlock()
	return c
}

func (m *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	return []byte{}, nil
}

// LastCanvas returns the most recently created canvas, or nil.
func (m *Renderer) LastCanvas() *Canvas {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Canvases) == 0 {
		return nil
	}
	return m.Canvases[len(m.Canvases)-1]
}

var _ ports.Renderer = (*Renderer)(nil)

// Canvas is a mock implementation of ports.Canvas that records calls.
type Canvas struct {
	width            int
	height           int
	textWidthPerChar float64

	ImageCalls []DrawImageCall
	RectCalls  []DrawRectCall
	TextCalls  []DrawTextCall
}

// DrawImageCall records a call to DrawImage.
type DrawImageCall struct {
	X, Y int
}

// DrawRectCall records a call to DrawRect or DrawRoundedRect.
type DrawRectCall struct {
	X, Y, W, H int
	Color      color.Color
}

// DrawTextCall records a call to DrawText.
type DrawTextCall struct {
	Text  string
	X, Y  int
	Style ports.TextStyle
}

func (c *Canvas) DrawImage(img image.Image, x, y int) {
	c.ImageCalls = append(c.ImageCalls, DrawImageCall{X: x, Y: y})
}

func (c *Canvas) DrawRect(x, y, w, h int, col color.Color) {
	c.RectCalls = append(c.RectCalls, DrawRectCall{X: x, Y: y, W: w, H: h, Color: col})
}

func (c *Canvas) DrawRoundedRect(x, y, w, h, radius int, col color.Color) {
	c.RectCalls = append(c.RectCalls, DrawRectCall{X: x, Y: y, W: w, H: h, Color: col})
}

func (c *Canvas) DrawText(text string, x, y int, style ports.TextStyle) {
	c.TextCalls = append(c.TextCalls, DrawTextCall{Text: text, X: x, Y: y, Style: style})
}

func (c *Canvas) MeasureText(text string, style ports.TextStyle) (float64, float64) {
	return float64(len(text)) * c.textWidthPerChar, style.FontSize
}

func (c *Canvas) ToImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, c.width, c.height))
}

var _ ports.Canvas = (*Canvas)(nil)
