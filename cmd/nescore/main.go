// Command nescore is a thin ebiten-based presentation driver for the
// emulation core: it owns the window, polls the keyboard into
// controller button state, and blits the core's framebuffer every
// frame. None of this lives in the core packages themselves.
package main

import (
	"context"
	"flag"
	"image"
	"image/color"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/draw"

	"github.com/mjfarner/nescore/nes"
)

var romFile = flag.String("nes_rom", "", "Path to NES ROM to run.")

// keymap binds a host keyboard key to a controller button, matching
// the teacher's single-pad layout.
var keymap = map[ebiten.Key]nes.Button{
	ebiten.KeyZ:         nes.ButtonA,
	ebiten.KeyX:         nes.ButtonB,
	ebiten.KeyBackslash: nes.ButtonSelect,
	ebiten.KeyEnter:     nes.ButtonStart,
	ebiten.KeyUp:        nes.ButtonUp,
	ebiten.KeyDown:      nes.ButtonDown,
	ebiten.KeyLeft:      nes.ButtonLeft,
	ebiten.KeyRight:     nes.ButtonRight,
}

const (
	screenW = 256
	screenH = 240
)

// game adapts a *nes.Console to the ebiten.Game interface. The core
// runs its own frame loop on a separate goroutine via Console.Run;
// Update only samples the keyboard, and Draw only reads the last
// completed framebuffer, so the two never contend over emulation
// state beyond the read-only Framebuffer snapshot.
type game struct {
	console *nes.Console
	frame   *image.RGBA
}

func newGame(c *nes.Console) *game {
	return &game{
		console: c,
		frame:   image.NewRGBA(image.Rect(0, 0, screenW, screenH)),
	}
}

func (g *game) Update() error {
	for key, btn := range keymap {
		g.console.SetButton(btn, ebiten.IsKeyPressed(key))
	}
	return nil
}

// Draw copies the core's packed-RGBA framebuffer pixel by pixel into
// an image.RGBA, then draws that onto the ebiten screen with
// golang.org/x/image/draw.
func (g *game) Draw(screen *ebiten.Image) {
	pixels := g.console.Framebuffer()
	for y := 0; y < screenH; y++ {
		for x := 0; x < screenW; x++ {
			c := pixels[y*screenW+x]
			g.frame.SetRGBA(x, y, color.RGBA{R: c[0], G: c[1], B: c[2], A: c[3]})
		}
	}
	draw.Draw(screen, screen.Bounds(), g.frame, image.Point{}, draw.Src)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenW, screenH
}

func main() {
	flag.Parse()

	f, err := os.Open(*romFile)
	if err != nil {
		log.Fatalf("Invalid ROM: %v", err)
	}
	defer f.Close()

	c := nes.New()
	if err := c.LoadCartridge(f); err != nil {
		log.Fatalf("Couldn't load cartridge: %v", err)
	}
	c.Reset()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := c.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("emulation loop stopped: %v", err)
		}
	}()

	ebiten.SetWindowSize(screenW*2, screenH*2)
	ebiten.SetWindowTitle("nescore")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(newGame(c)); err != nil {
		log.Fatal(err)
	}

	cancel()
}
