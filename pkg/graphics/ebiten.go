package graphics

import (
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// ebitenKeys maps our key set onto ebiten's.
var ebitenKeys = [keyCount]ebiten.Key{
	KeyA:      ebiten.KeyA,
	KeyD:      ebiten.KeyD,
	KeyW:      ebiten.KeyW,
	KeyS:      ebiten.KeyS,
	KeySpace:  ebiten.KeySpace,
	KeyLeft:   ebiten.KeyArrowLeft,
	KeyRight:  ebiten.KeyArrowRight,
	KeyUp:     ebiten.KeyArrowUp,
	KeyDown:   ebiten.KeyArrowDown,
	KeyEscape: ebiten.KeyEscape,
}

// ebitenWindow implements Window on top of an ebiten game loop. The
// interpreter draws into the back framebuffer from its own goroutine;
// Present publishes it to the front buffer the game loop blits each
// frame. Key state is sampled once per Update tick.
type ebitenWindow struct {
	mu      sync.Mutex
	back    *Framebuffer
	front   []byte
	keys    [keyCount]bool
	closing bool

	width  int
	height int

	quitOnce sync.Once
	quit     chan struct{}
}

// Open creates a window with its own render loop and returns right after
// starting it, without waiting for the loop to run. The loop lives on a
// background goroutine; on
// platforms that insist on main-thread UI the caller process must be
// started accordingly.
func Open(width, height int, title string) (Window, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid window size %dx%d", width, height)
	}

	w := &ebitenWindow{
		back:   NewFramebuffer(width, height),
		front:  make([]byte, width*height*4),
		width:  width,
		height: height,
		quit:   make(chan struct{}),
	}

	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowClosingHandled(true)

	go func() {
		// RunGame blocks until the window closes or Update returns
		// Termination after Close.
		if err := ebiten.RunGame(&windowGame{w: w}); err != nil {
			w.mu.Lock()
			w.closing = true
			w.mu.Unlock()
		}
	}()

	return w, nil
}

func (w *ebitenWindow) Clear(r, g, b int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.back.Clear(channel(r), channel(g), channel(b))
}

func (w *ebitenWindow) DrawPixel(x, y, r, g, b int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.back.SetPixel(x, y, channel(r), channel(g), channel(b))
}

func (w *ebitenWindow) DrawRect(x, y, width, height, r, g, b, filled int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.back.Rect(x, y, width, height, channel(r), channel(g), channel(b), filled != 0)
}

func (w *ebitenWindow) DrawLine(x1, y1, x2, y2, r, g, b int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.back.Line(x1, y1, x2, y2, channel(r), channel(g), channel(b))
}

func (w *ebitenWindow) DrawCircle(x, y, radius, r, g, b, filled int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.back.Circle(x, y, radius, channel(r), channel(g), channel(b), filled != 0)
}

// HandleEvents is a no-op for this backend: the game loop pumps events
// and samples input every Update tick.
func (w *ebitenWindow) HandleEvents() {}

func (w *ebitenWindow) Present() {
	w.mu.Lock()
	defer w.mu.Unlock()
	copy(w.front, w.back.Pix)
}

func (w *ebitenWindow) IsKeyPressed(k Key) bool {
	if k < 0 || k >= keyCount {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.keys[k]
}

func (w *ebitenWindow) ShouldClose() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closing
}

func (w *ebitenWindow) Close() {
	w.quitOnce.Do(func() { close(w.quit) })
}

// windowGame adapts an ebitenWindow to ebiten's Game interface.
type windowGame struct {
	w *ebitenWindow
}

func (g *windowGame) Update() error {
	select {
	case <-g.w.quit:
		return ebiten.Termination
	default:
	}

	g.w.mu.Lock()
	for k := Key(0); k < keyCount; k++ {
		g.w.keys[k] = ebiten.IsKeyPressed(ebitenKeys[k])
	}
	if ebiten.IsWindowBeingClosed() {
		g.w.closing = true
	}
	g.w.mu.Unlock()
	return nil
}

func (g *windowGame) Draw(screen *ebiten.Image) {
	g.w.mu.Lock()
	screen.WritePixels(g.w.front)
	g.w.mu.Unlock()
}

func (g *windowGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.w.width, g.w.height
}

// channel clamps an int to a 0-255 color channel.
func channel(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
