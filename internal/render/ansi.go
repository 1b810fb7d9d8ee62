package render

import (
	"bufio"
	"io"
	"strconv"
	"unicode/utf8"
)

const (
	clearScreen = "\x1b[2J\x1b[H"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
	enterAltScr = "\x1b[?1049h"
	exitAltScr  = "\x1b[?1049l"
	resetSGR    = "\x1b[0m"
	csi         = "\x1b["
)

// ANSIWriter buffers render instructions as escape sequences. Call Flush
// once per frame.
type ANSIWriter struct {
	w   *bufio.Writer
	buf []byte
}

func NewANSIWriter(w io.Writer) *ANSIWriter {
	return &ANSIWriter{w: bufio.NewWriterSize(w, 32*1024), buf: make([]byte, 0, 32)}
}

// Emit writes one instruction. It has the signature Screen.Render expects.
func (a *ANSIWriter) Emit(in Instruction) {
	a.buf = append(a.buf[:0], csi...)
	a.buf = strconv.AppendInt(a.buf, int64(in.Row+1), 10)
	a.buf = append(a.buf, ';')
	a.buf = strconv.AppendInt(a.buf, int64(in.Col+1), 10)
	a.buf = append(a.buf, 'H')
	a.buf = utf8.AppendRune(a.buf, in.Glyph)
	a.w.Write(a.buf)
}

func (a *ANSIWriter) WriteString(s string) {
	a.w.WriteString(s)
}

// Begin switches to the alternate screen, hides the cursor and clears.
func (a *ANSIWriter) Begin() {
	a.w.WriteString(enterAltScr + hideCursor + clearScreen)
}

// End restores the cursor and the primary screen.
func (a *ANSIWriter) End() error {
	a.w.WriteString(resetSGR + showCursor + exitAltScr)
	return a.Flush()
}

func (a *ANSIWriter) Clear() {
	a.w.WriteString(clearScreen)
}

func (a *ANSIWriter) Flush() error {
	return a.w.Flush()
}
