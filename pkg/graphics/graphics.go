// Package graphics provides the window and 2D drawing collaborator used
// by the interpreter. The Window interface is the full contract; Open
// returns the ebiten-backed implementation and tests use Recorder.
package graphics

// Key identifies a pollable keyboard key.
type Key int

const (
	KeyA Key = iota
	KeyD
	KeyW
	KeyS
	KeySpace
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyEscape

	keyCount
)

var keyNames = [...]string{
	KeyA:      "a",
	KeyD:      "d",
	KeyW:      "w",
	KeyS:      "s",
	KeySpace:  "space",
	KeyLeft:   "left",
	KeyRight:  "right",
	KeyUp:     "up",
	KeyDown:   "down",
	KeyEscape: "escape",
}

func (k Key) String() string {
	if int(k) >= 0 && int(k) < len(keyNames) {
		return keyNames[k]
	}
	return "unknown"
}

// KeyByName resolves the key names exposed to interpreted programs.
func KeyByName(name string) (Key, bool) {
	for k, n := range keyNames {
		if n == name {
			return Key(k), true
		}
	}
	return 0, false
}

// Window is the drawing surface contract the interpreter consumes.
// Color channels are 0-255; filled is 0 for outline, non-zero for filled.
type Window interface {
	// Clear fills the whole back buffer with one color.
	Clear(r, g, b int)
	DrawPixel(x, y, r, g, b int)
	DrawRect(x, y, w, h, r, g, b, filled int)
	DrawLine(x1, y1, x2, y2, r, g, b int)
	DrawCircle(x, y, radius, r, g, b, filled int)

	// HandleEvents drains pending OS events, updating key state and
	// possibly the should-close flag.
	HandleEvents()
	// Present publishes the back buffer as the visible frame.
	Present()
	// IsKeyPressed reports whether the key is currently held.
	IsKeyPressed(k Key) bool
	// ShouldClose reports whether the user asked to close the window.
	ShouldClose() bool
	// Close releases the window and all its resources.
	Close()
}
