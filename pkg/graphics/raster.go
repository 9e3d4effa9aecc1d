package graphics

import (
	"image"
	"image/png"
	"os"
)

// Framebuffer is a software RGBA8888 canvas the drawing primitives
// rasterize into. Out-of-bounds writes are clipped.
type Framebuffer struct {
	Width  int
	Height int
	Pix    []byte // Width*Height*4 bytes, row-major RGBA
}

func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*4),
	}
}

// SetPixel writes one pixel, silently dropping coordinates outside the
// buffer.
func (fb *Framebuffer) SetPixel(x, y int, r, g, b byte) {
	if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
		return
	}
	i := (y*fb.Width + x) * 4
	fb.Pix[i+0] = r
	fb.Pix[i+1] = g
	fb.Pix[i+2] = b
	fb.Pix[i+3] = 0xFF
}

// Clear fills the whole buffer with one opaque color.
func (fb *Framebuffer) Clear(r, g, b byte) {
	for i := 0; i < len(fb.Pix); i += 4 {
		fb.Pix[i+0] = r
		fb.Pix[i+1] = g
		fb.Pix[i+2] = b
		fb.Pix[i+3] = 0xFF
	}
}

// Rect draws an axis-aligned rectangle, filled or as a one-pixel outline.
func (fb *Framebuffer) Rect(x, y, w, h int, r, g, b byte, filled bool) {
	if w <= 0 || h <= 0 {
		return
	}
	if filled {
		for yy := y; yy < y+h; yy++ {
			for xx := x; xx < x+w; xx++ {
				fb.SetPixel(xx, yy, r, g, b)
			}
		}
		return
	}
	for xx := x; xx < x+w; xx++ {
		fb.SetPixel(xx, y, r, g, b)
		fb.SetPixel(xx, y+h-1, r, g, b)
	}
	for yy := y; yy < y+h; yy++ {
		fb.SetPixel(x, yy, r, g, b)
		fb.SetPixel(x+w-1, yy, r, g, b)
	}
}

// Line draws a line with Bresenham's algorithm.
func (fb *Framebuffer) Line(x1, y1, x2, y2 int, r, g, b byte) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	err := dx + dy

	x, y := x1, y1
	for {
		fb.SetPixel(x, y, r, g, b)
		if x == x2 && y == y2 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// Circle draws a midpoint circle, filled with horizontal spans or as an
// eight-way symmetric outline.
func (fb *Framebuffer) Circle(cx, cy, radius int, r, g, b byte, filled bool) {
	if radius < 0 {
		return
	}
	x := radius
	y := 0
	err := 1 - radius

	for x >= y {
		if filled {
			fb.hspan(cx-x, cx+x, cy+y, r, g, b)
			fb.hspan(cx-x, cx+x, cy-y, r, g, b)
			fb.hspan(cx-y, cx+y, cy+x, r, g, b)
			fb.hspan(cx-y, cx+y, cy-x, r, g, b)
		} else {
			fb.SetPixel(cx+x, cy+y, r, g, b)
			fb.SetPixel(cx-x, cy+y, r, g, b)
			fb.SetPixel(cx+x, cy-y, r, g, b)
			fb.SetPixel(cx-x, cy-y, r, g, b)
			fb.SetPixel(cx+y, cy+x, r, g, b)
			fb.SetPixel(cx-y, cy+x, r, g, b)
			fb.SetPixel(cx+y, cy-x, r, g, b)
			fb.SetPixel(cx-y, cy-x, r, g, b)
		}
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2*(y-x) + 1
		}
	}
}

func (fb *Framebuffer) hspan(x1, x2, y int, r, g, b byte) {
	for x := x1; x <= x2; x++ {
		fb.SetPixel(x, y, r, g, b)
	}
}

// At returns the RGB channels of one pixel; coordinates outside the
// buffer read as black.
func (fb *Framebuffer) At(x, y int) (r, g, b byte) {
	if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
		return 0, 0, 0
	}
	i := (y*fb.Width + x) * 4
	return fb.Pix[i], fb.Pix[i+1], fb.Pix[i+2]
}

// Image returns the buffer as an *image.RGBA sharing the pixel storage.
func (fb *Framebuffer) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    fb.Pix,
		Stride: fb.Width * 4,
		Rect:   image.Rect(0, 0, fb.Width, fb.Height),
	}
}

// SavePNG encodes the buffer as a PNG and writes it to filename.
func (fb *Framebuffer) SavePNG(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, fb.Image())
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
