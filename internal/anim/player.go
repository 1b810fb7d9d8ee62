// Package anim drives layered ASCII animations through the dirty-cell
// renderer.
package anim

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/san-kum/asciimotion/internal/render"
)

// DefaultPollTimeout bounds how long a tick waits for input.
const DefaultPollTimeout = 200 * time.Millisecond

type State int

const (
	Idle State = iota
	Playing
	Stopped
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Stopped:
		return "stopped"
	default:
		return "idle"
	}
}

// Host is what the player needs from a terminal.
type Host interface {
	Size() (rows, cols int)
	Keys() <-chan byte
	Out() io.Writer
}

const ctrlC = 0x03

// IsQuitKey reports whether k ends playback.
func IsQuitKey(k byte) bool {
	return k == 'q' || k == 'Q' || k == ctrlC
}

type Player struct {
	host   Host
	layers []*Layer
	screen *render.Screen
	writer *render.ANSIWriter
	poll   time.Duration
	now    func() time.Time
	status bool
	bg     rune
	state  State
	ticks  int
}

type Option func(*Player)

func WithPollTimeout(d time.Duration) Option {
	return func(p *Player) {
		if d > 0 {
			p.poll = d
		}
	}
}

// WithStatusLine reserves the bottom row for a status line.
func WithStatusLine(on bool) Option {
	return func(p *Player) { p.status = on }
}

// WithBackground sets the glyph treated as transparent in every sprite.
func WithBackground(r rune) Option {
	return func(p *Player) { p.bg = r }
}

func WithClock(now func() time.Time) Option {
	return func(p *Player) { p.now = now }
}

// NewPlayer draws layers in the given order, so the last layer is in front.
func NewPlayer(host Host, layers []*Layer, opts ...Option) *Player {
	p := &Player{
		host:   host,
		layers: layers,
		writer: render.NewANSIWriter(host.Out()),
		poll:   DefaultPollTimeout,
		now:    time.Now,
		status: true,
		bg:     ' ',
	}
	for _, o := range opts {
		o(p)
	}
	rows, cols := host.Size()
	p.screen = render.NewScreen(rows, cols, render.WithBackground(p.bg))
	return p
}

func (p *Player) State() State { return p.state }

func (p *Player) Screen() *render.Screen { return p.screen }

func (p *Player) Ticks() int { return p.ticks }

// Draw composes every layer and the status line, then emits the changed
// cells. It returns the number of cells emitted.
func (p *Player) Draw() int {
	rows, cols := p.screen.Size()
	area := rows
	if p.status && area > 0 {
		area--
	}

	p.screen.Clear()
	for _, l := range p.layers {
		x, y := l.Place(area, cols)
		p.screen.DrawSprite(l.Current(), x, y)
	}
	if p.status && rows > 0 {
		p.screen.DrawText(p.statusLine(cols), 0, rows-1)
	}
	return p.screen.Render(p.writer.Emit)
}

func (p *Player) statusLine(cols int) string {
	var line string
	if len(p.layers) > 0 {
		front := p.layers[len(p.layers)-1]
		label, idx, total := front.Position()
		line = fmt.Sprintf("Size: %-8s | Frame: %d/%d | 'q' to quit", label, idx+1, total)
	}
	line = runewidth.Truncate(line, cols, "")
	return line + strings.Repeat(" ", max(0, cols-runewidth.StringWidth(line)))
}

// Advance moves each layer forward according to its own period.
func (p *Player) Advance(now time.Time) {
	for _, l := range p.layers {
		l.Advance(now)
	}
	p.ticks++
}

// Step runs one tick without waiting for input.
func (p *Player) Step(now time.Time) int {
	n := p.Draw()
	p.Advance(now)
	return n
}

// HandleKey applies one key press and reports whether playback should stop.
func (p *Player) HandleKey(k byte) bool {
	if IsQuitKey(k) {
		p.state = Stopped
		return true
	}
	return false
}

// Run plays until a quit key, a closed key channel or ctx cancellation.
func (p *Player) Run(ctx context.Context) error {
	p.state = Playing
	p.writer.Begin()
	defer p.writer.End()

	keys := p.host.Keys()
	for {
		if rows, cols := p.host.Size(); !p.sameSize(rows, cols) {
			p.screen.Resize(rows, cols)
			p.writer.Clear()
		}
		p.Draw()
		if err := p.writer.Flush(); err != nil {
			p.state = Stopped
			return fmt.Errorf("writing frame: %w", err)
		}

		timer := time.NewTimer(p.poll)
		select {
		case <-ctx.Done():
			timer.Stop()
			p.state = Stopped
			return nil
		case k, ok := <-keys:
			timer.Stop()
			if !ok || p.HandleKey(k) {
				p.state = Stopped
				return nil
			}
		case <-timer.C:
		}
		p.Advance(p.now())
	}
}

func (p *Player) sameSize(rows, cols int) bool {
	r, c := p.screen.Size()
	return r == rows && c == cols
}
