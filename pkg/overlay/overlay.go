// Package overlay composites the wall-clock timestamp watermark onto decoded
// frames.
package overlay

import (
	"image"
	"math"
	"time"

	"github.com/MuggleFighter/fuckteslacam/pkg/pipeline"
	"github.com/MuggleFighter/fuckteslacam/pkg/ports"
)

// StampTimeLayout is the format of the rendered watermark text.
const StampTimeLayout = "2006-01-02 15:04:05"

// FontSizeFor derives the watermark font size from the frame width:
// width/FontDivisor rounded, never below MinFontSize.
func FontSizeFor(width int, style pipeline.StampStyle) int {
	size := int(math.Round(float64(width) / float64(style.FontDivisor)))
	if size < style.MinFontSize {
		size = style.MinFontSize
	}
	return size
}

// PaddingFor derives the panel padding and corner margin from the frame width.
func PaddingFor(width int, style pipeline.StampStyle) int {
	return width / style.PadDivisor
}

// Compositor renders frame + watermark into a destination frame buffer.
//
// Font size and padding are computed once from the source's natural width at
// construction time and stay fixed for the whole run, regardless of any
// per-frame dimension jitter.
type Compositor struct {
	renderer ports.Renderer
	style    pipeline.StampStyle
	fontSize float64
	padding  int
}

// NewCompositor creates a compositor sized for a source of the given natural
// width.
func NewCompositor(renderer ports.Renderer, naturalWidth int, style pipeline.StampStyle) *Compositor {
	return &Compositor{
		renderer: renderer,
		style:    style,
		fontSize: float64(FontSizeFor(naturalWidth, style)),
		padding:  PaddingFor(naturalWidth, style),
	}
}

// FontSize returns the fixed watermark font size.
func (c *Compositor) FontSize() float64 { return c.fontSize }

// Stamp draws the frame and the timestamp watermark into dst. The instant
// must already account for the run's time origin plus the frame's playback
// offset. The caller guarantees dst is non-nil and sized to the source's
// natural dimensions.
func (c *Compositor) Stamp(dst *pipeline.FrameBuffer, frame image.Image, at time.Time) {
	w := dst.Width()
	h := dst.Height()

	canvas := c.renderer.CreateCanvas(w, h, c.style.PanelColor)
	canvas.DrawImage(frame, 0, 0)

	text := at.Format(StampTimeLayout)
	textStyle := ports.TextStyle{
		FontSize: c.fontSize,
		Color:    c.style.TextColor,
		Align:    ports.AlignLeft,
	}

	textW, textH := canvas.MeasureText(text, textStyle)
	pad := c.padding

	// Opaque panel sized to the text plus padding, anchored bottom-right
	// with the padding as corner margin.
	panelW := int(math.Ceil(textW)) + pad
	panelH := int(math.Ceil(textH)) + pad
	panelX := w - panelW - pad
	panelY := h - panelH - pad

	canvas.DrawRect(panelX, panelY, panelW, panelH, c.style.PanelColor)
	canvas.DrawText(text, panelX+pad/2, panelY+panelH/2, textStyle)

	dst.Set(canvas.ToImage())
}
