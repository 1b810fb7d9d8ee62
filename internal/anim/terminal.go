package anim

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

const (
	fallbackRows = 24
	fallbackCols = 80
)

// Terminal is a Host backed by a real tty in raw mode.
type Terminal struct {
	mu       sync.Mutex
	in       *os.File
	out      *os.File
	oldState *term.State
	keys     chan byte
}

// OpenTerminal puts in into raw mode and starts reading keys from it.
// The reader goroutine ends when in is closed or returns an error.
func OpenTerminal(in, out *os.File) (*Terminal, error) {
	if !term.IsTerminal(int(in.Fd())) {
		return nil, fmt.Errorf("%s is not a terminal", in.Name())
	}
	state, err := term.MakeRaw(int(in.Fd()))
	if err != nil {
		return nil, fmt.Errorf("entering raw mode: %w", err)
	}
	t := &Terminal{in: in, out: out, oldState: state, keys: make(chan byte, 16)}
	go t.readKeys()
	return t, nil
}

func (t *Terminal) readKeys() {
	defer close(t.keys)
	buf := make([]byte, 64)
	for {
		n, err := t.in.Read(buf)
		for _, b := range buf[:n] {
			select {
			case t.keys <- b:
			default:
			}
		}
		if err != nil {
			return
		}
	}
}

// Size returns the terminal dimensions, or 24×80 when they are unknown.
func (t *Terminal) Size() (rows, cols int) {
	w, h, err := term.GetSize(int(t.out.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return fallbackRows, fallbackCols
	}
	return h, w
}

func (t *Terminal) Keys() <-chan byte { return t.keys }

func (t *Terminal) Out() io.Writer { return t.out }

// Close restores the saved terminal state.
func (t *Terminal) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.oldState == nil {
		return nil
	}
	if err := term.Restore(int(t.in.Fd()), t.oldState); err != nil {
		return fmt.Errorf("exiting raw mode: %w", err)
	}
	t.oldState = nil
	return nil
}
