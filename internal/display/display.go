// Package display draws HUD frames onto a terminal with tcell. One screen
// cell is one HUD pixel.
package display

import (
	"context"
	"math"
	"strconv"

	"github.com/gdamore/tcell/v2"

	"stratux-hud/internal/hud"
)

var (
	styleLevel   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleEdge    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleLadder  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleText    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	styleHeading = tcell.StyleDefault.Foreground(tcell.ColorGreen).Background(tcell.ColorBlack)
	styleTarget  = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleLabel   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleCross   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

// Flip mirrors the whole picture so it reads correctly when reflected off
// a combiner glass.
type Flip struct {
	Horizontal bool
	Vertical   bool
}

type Display struct {
	screen tcell.Screen
	flip   Flip
}

// New wraps an initialized screen.
func New(screen tcell.Screen) *Display {
	screen.SetStyle(tcell.StyleDefault.
		Background(tcell.ColorReset).
		Foreground(tcell.ColorReset))
	return &Display{screen: screen}
}

func (d *Display) SetFlip(f Flip) { d.flip = f }

func (d *Display) Size() hud.Screen {
	w, h := d.screen.Size()
	return hud.Screen{Width: w, Height: h}
}

// Draw replaces the screen contents with f. Order matters: the ladder goes
// first so instrument text overdraws it.
func (d *Display) Draw(f hud.Frame) {
	d.screen.Clear()
	defer d.screen.Show()

	if !f.Available {
		for _, l := range f.Cross {
			d.line(l, 'X', styleCross)
		}
		return
	}

	for i, l := range f.Level {
		style := styleEdge
		if i == 0 {
			style = styleLevel
		}
		d.line(l, '-', style)
	}
	for _, l := range f.Ladder {
		d.line(l.Line, ladderRune(f.RollDeg), styleLadder)
		mid := hud.Point{X: (l.From.X + l.To.X) / 2, Y: (l.From.Y + l.To.Y) / 2}
		d.textCentered(mid, strconv.Itoa(l.Angle), styleText)
	}

	markHeight := max(1, int(float64(f.Screen.Height)*hud.CardinalMarkProportion))
	for _, m := range f.HeadingMarks {
		x := round(m.X)
		for y := 0; y < markHeight; y++ {
			d.set(x, y, '|', styleHeading)
		}
		d.textCentered(hud.Point{X: m.X, Y: float64(markHeight)}, strconv.Itoa(m.Degrees), styleHeading)
	}

	c := f.Screen.Center()
	d.textCentered(hud.Point{X: c.X, Y: float64(markHeight + 1)}, f.HeadingText, styleHeading)

	right := int(0.9 * float64(f.Screen.Width))
	d.textRight(right, round(c.Y), f.AltitudeText, styleText)
	d.textRight(right, round(c.Y)+2, f.GLoadText, styleText)
	d.textCentered(c, f.RollText, styleText)

	x := int(float64(f.Screen.Width) * 0.01)
	for i, row := range f.TrafficRows {
		d.text(x, markHeight+3+i, row, styleText)
	}

	for _, t := range f.Targets {
		d.polygon(t.Reticle, '*', styleTarget)
		d.textCentered(t.Label, t.Identifier, styleLabel)
	}
}

// PollQuit closes the returned channel when the user presses Esc, q or
// Ctrl-C. Polling stops when ctx ends or the screen is finalized.
func (d *Display) PollQuit(ctx context.Context) <-chan struct{} {
	quit := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		_ = d.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	go func() {
		defer stop()
		for {
			ev := d.screen.PollEvent()
			if ev == nil || ctx.Err() != nil {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				d.screen.Sync()
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					close(quit)
					return
				}
			}
		}
	}()
	return quit
}

func (d *Display) polygon(points []hud.Point, ch rune, style tcell.Style) {
	for i := range points {
		next := points[(i+1)%len(points)]
		d.line(hud.Line{From: points[i], To: next}, ch, style)
	}
}

// line draws with Bresenham's algorithm; cells off screen are dropped by
// tcell.
func (d *Display) line(l hud.Line, ch rune, style tcell.Style) {
	x0, y0 := round(l.From.X), round(l.From.Y)
	x1, y1 := round(l.To.X), round(l.To.Y)

	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		d.set(x0, y0, ch, style)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// set writes one cell, mirrored per the flip setting.
func (d *Display) set(x, y int, ch rune, style tcell.Style) {
	w, h := d.screen.Size()
	if d.flip.Horizontal {
		x = w - 1 - x
	}
	if d.flip.Vertical {
		y = h - 1 - y
	}
	// One mirror reverses the slant of diagonal strokes; two cancel out.
	if d.flip.Horizontal != d.flip.Vertical {
		switch ch {
		case '/':
			ch = '\\'
		case '\\':
			ch = '/'
		}
	}
	d.screen.SetContent(x, y, ch, nil, style)
}

func (d *Display) text(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		d.set(x+i, y, r, style)
	}
}

func (d *Display) textCentered(at hud.Point, s string, style tcell.Style) {
	d.text(round(at.X)-len([]rune(s))/2, round(at.Y), s, style)
}

func (d *Display) textRight(right, y int, s string, style tcell.Style) {
	d.text(right-len([]rune(s)), y, s, style)
}

// ladderRune picks the character closest to the ladder's tilt.
func ladderRune(rollDeg float64) rune {
	r := math.Mod(rollDeg, 180)
	if r < 0 {
		r += 180
	}
	switch {
	case r < 22.5 || r >= 157.5:
		return '-'
	case r < 67.5:
		return '/'
	case r < 112.5:
		return '|'
	default:
		return '\\'
	}
}

func round(v float64) int { return int(math.Round(v)) }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
