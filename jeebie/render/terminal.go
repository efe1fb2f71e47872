// Package render draws an Emulator's framebuffer to a terminal using
// tcell, and maps keyboard input back to joypad presses.
package render

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/corvid-systems/jeebie/jeebie"
	"github.com/corvid-systems/jeebie/jeebie/video"
)

const (
	// Terminal characters are taller than wide, so each pixel is drawn
	// twice as wide as it is tall to approximate a square aspect ratio.
	scaleX = 2
	scaleY = 1

	frameTime = time.Second / 60
)

var keymap = map[tcell.Key]jeebie.Button{
	tcell.KeyRight: jeebie.ButtonRight,
	tcell.KeyLeft:  jeebie.ButtonLeft,
	tcell.KeyUp:    jeebie.ButtonUp,
	tcell.KeyDown:  jeebie.ButtonDown,
}

var runeKeymap = map[rune]jeebie.Button{
	'z': jeebie.ButtonA,
	'x': jeebie.ButtonB,
	'a': jeebie.ButtonSelect,
	's': jeebie.ButtonStart,
}

// TerminalRenderer drives a tcell screen off an Emulator at 60Hz.
type TerminalRenderer struct {
	screen   tcell.Screen
	emulator *jeebie.Emulator
	running  bool
}

// NewTerminalRenderer initializes a tcell screen for emu.
func NewTerminalRenderer(emu *jeebie.Emulator) (*TerminalRenderer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("initializing terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing terminal: %w", err)
	}

	return &TerminalRenderer{
		screen:   screen,
		emulator: emu,
		running:  true,
	}, nil
}

// Run drives the emulator one frame per tick until the user quits or the
// process receives SIGINT/SIGTERM.
func (t *TerminalRenderer) Run() error {
	defer func() {
		slog.Info("terminal renderer stopping")
		t.screen.Fini()
	}()

	t.screen.SetStyle(tcell.StyleDefault.
		Background(tcell.ColorBlack).
		Foreground(tcell.ColorWhite))
	t.screen.Clear()

	go t.handleInput()

	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	for t.running {
		select {
		case <-ticker.C:
			if _, err := t.emulator.StepFrame(); err != nil {
				return fmt.Errorf("running frame: %w", err)
			}
			t.draw()
			t.screen.Show()
		case <-signals:
			t.running = false
			slog.Info("received signal to stop")
		}
	}

	return nil
}

func (t *TerminalRenderer) handleInput() {
	for t.running {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				t.running = false
				return
			}
			if button, ok := keymap[ev.Key()]; ok {
				t.emulator.Press(button)
			} else if button, ok := runeKeymap[ev.Rune()]; ok {
				t.emulator.Press(button)
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

// shadeChars renders the four DMG shades darkest-to-lightest, since a
// terminal cell's perceived brightness runs the opposite way from the
// palette's color-index convention.
var shadeChars = []rune{'█', '▓', '▒', ' '}

func shadeIndex(c video.Color) int {
	switch c {
	case video.ColorFromIndex(0):
		return 3
	case video.ColorFromIndex(1):
		return 2
	case video.ColorFromIndex(2):
		return 1
	default:
		return 0
	}
}

func (t *TerminalRenderer) draw() {
	fb := t.emulator.Framebuffer()

	for y := 0; y < video.FramebufferHeight; y++ {
		for x := 0; x < video.FramebufferWidth; x++ {
			char := shadeChars[shadeIndex(fb.At(x, y))]
			style := tcell.StyleDefault.Foreground(tcell.ColorWhite)

			screenX := x * scaleX
			screenY := y * scaleY
			for sx := 0; sx < scaleX; sx++ {
				t.screen.SetContent(screenX+sx, screenY, char, nil, style)
			}
		}
	}
}
