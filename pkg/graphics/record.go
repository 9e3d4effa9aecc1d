package graphics

import "fmt"

// Recorder is a Window that records every call as a readable string
// instead of drawing. Tests inject it in place of the ebiten backend.
type Recorder struct {
	Ops     []string
	Held    map[Key]bool // keys reported as pressed
	Closing bool         // value returned by ShouldClose
	Closed  bool
}

func NewRecorder() *Recorder {
	return &Recorder{Held: make(map[Key]bool)}
}

func (r *Recorder) record(format string, args ...any) {
	r.Ops = append(r.Ops, fmt.Sprintf(format, args...))
}

func (r *Recorder) Clear(red, green, blue int) {
	r.record("clear(%d,%d,%d)", red, green, blue)
}

func (r *Recorder) DrawPixel(x, y, red, green, blue int) {
	r.record("pixel(%d,%d,%d,%d,%d)", x, y, red, green, blue)
}

func (r *Recorder) DrawRect(x, y, w, h, red, green, blue, filled int) {
	r.record("rect(%d,%d,%d,%d,%d,%d,%d,%d)", x, y, w, h, red, green, blue, filled)
}

func (r *Recorder) DrawLine(x1, y1, x2, y2, red, green, blue int) {
	r.record("line(%d,%d,%d,%d,%d,%d,%d)", x1, y1, x2, y2, red, green, blue)
}

func (r *Recorder) DrawCircle(x, y, radius, red, green, blue, filled int) {
	r.record("circle(%d,%d,%d,%d,%d,%d,%d)", x, y, radius, red, green, blue, filled)
}

func (r *Recorder) HandleEvents() {
	r.record("events")
}

func (r *Recorder) Present() {
	r.record("present")
}

func (r *Recorder) IsKeyPressed(k Key) bool {
	return r.Held[k]
}

func (r *Recorder) ShouldClose() bool {
	return r.Closing
}

func (r *Recorder) Close() {
	r.Closed = true
	r.record("close")
}
