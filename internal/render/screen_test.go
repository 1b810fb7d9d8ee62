package render

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/asciimotion/internal/frame"
)

type recorder struct {
	got []Instruction
}

func (r *recorder) emit(in Instruction) { r.got = append(r.got, in) }

func settled(rows, cols int) *Screen {
	s := NewScreen(rows, cols)
	s.Render(func(Instruction) {})
	return s
}

var _ = Describe("Screen", func() {
	var rec *recorder

	BeforeEach(func() {
		rec = &recorder{}
	})

	Describe("first paint", func() {
		It("repaints every cell", func() {
			s := NewScreen(3, 4)
			Expect(s.Render(rec.emit)).To(Equal(12))
			Expect(rec.got[0]).To(Equal(Instruction{Row: 0, Col: 0, Glyph: ' '}))
			Expect(rec.got[11]).To(Equal(Instruction{Row: 2, Col: 3, Glyph: ' '}))
		})
	})

	Describe("Render", func() {
		It("emits nothing the second time", func() {
			s := settled(5, 10)
			s.DrawSprite(frame.Frame("ab\ncd"), 1, 1)
			Expect(s.Render(rec.emit)).To(Equal(4))
			Expect(s.Render(rec.emit)).To(Equal(0))
			Expect(rec.got).To(HaveLen(4))
		})

		It("emits one instruction per non-background glyph", func() {
			s := settled(6, 12)
			f := frame.Frame(" .-\n+ #\n   ")
			s.Clear()
			s.DrawSprite(f, 0, 0)
			n := s.Render(rec.emit)

			want := len(f.Rows()[0]) + len(f.Rows()[1]) + len(f.Rows()[2]) - strings.Count(string(f), " ")
			Expect(n).To(Equal(want))
			Expect(n).To(Equal(4))
		})

		It("scans in row-major order", func() {
			s := settled(3, 3)
			s.DrawText("z", 2, 0)
			s.DrawText("a", 0, 2)
			s.DrawText("m", 1, 1)
			s.Render(rec.emit)
			Expect(rec.got).To(Equal([]Instruction{
				{Row: 0, Col: 2, Glyph: 'z'},
				{Row: 1, Col: 1, Glyph: 'm'},
				{Row: 2, Col: 0, Glyph: 'a'},
			}))
		})

		It("only emits cells that changed between frames", func() {
			s := settled(2, 4)
			s.DrawSprite(frame.Frame("####"), 0, 0)
			s.Render(rec.emit)

			rec.got = nil
			s.Clear()
			s.DrawSprite(frame.Frame("##.#"), 0, 0)
			Expect(s.Render(rec.emit)).To(Equal(1))
			Expect(rec.got).To(ConsistOf(Instruction{Row: 0, Col: 2, Glyph: '.'}))
		})

		It("erases cells vacated by a moving sprite", func() {
			s := settled(1, 5)
			s.DrawSprite(frame.Frame("#"), 0, 0)
			s.Render(rec.emit)

			rec.got = nil
			s.Clear()
			s.DrawSprite(frame.Frame("#"), 1, 0)
			s.Render(rec.emit)
			Expect(rec.got).To(Equal([]Instruction{
				{Row: 0, Col: 0, Glyph: ' '},
				{Row: 0, Col: 1, Glyph: '#'},
			}))
		})
	})

	Describe("DrawSprite", func() {
		It("treats background glyphs as transparent", func() {
			s := settled(1, 3)
			s.DrawSprite(frame.Frame("xyz"), 0, 0)
			s.DrawSprite(frame.Frame(" Q "), 0, 0)
			Expect(string([]rune{s.At(0, 0), s.At(1, 0), s.At(2, 0)})).To(Equal("xQz"))
		})

		It("clips out-of-bounds cells", func() {
			s := settled(2, 2)
			Expect(func() {
				s.DrawSprite(frame.Frame("abc\ndef\nghi"), -1, -1)
				s.DrawSprite(frame.Frame("#"), 5, 5)
			}).NotTo(Panic())
			Expect(s.At(0, 0)).To(Equal('e'))
			Expect(s.At(1, 1)).To(Equal('i'))
			Expect(s.At(9, 9)).To(Equal(' '))
		})

		It("lets later draws win", func() {
			s := settled(1, 1)
			s.DrawSprite(frame.Frame("a"), 0, 0)
			s.DrawSprite(frame.Frame("b"), 0, 0)
			Expect(s.At(0, 0)).To(Equal('b'))
		})
	})

	Describe("DrawText", func() {
		It("overwrites with spaces", func() {
			s := settled(1, 3)
			s.DrawText("abc", 0, 0)
			s.DrawText(" ", 1, 0)
			Expect(s.At(1, 0)).To(Equal(' '))
		})
	})

	Describe("Clear", func() {
		It("leaves the previous buffer alone", func() {
			s := settled(1, 2)
			s.DrawText("ab", 0, 0)
			s.Render(rec.emit)
			s.Clear()
			Expect(s.Render(rec.emit)).To(Equal(2))
		})
	})

	Describe("Invalidate and Resize", func() {
		It("repaints everything after Invalidate", func() {
			s := settled(2, 3)
			s.Invalidate()
			Expect(s.Render(rec.emit)).To(Equal(6))
		})

		It("reallocates on Resize", func() {
			s := settled(2, 3)
			s.Resize(4, 5)
			rows, cols := s.Size()
			Expect(rows).To(Equal(4))
			Expect(cols).To(Equal(5))
			Expect(s.Render(rec.emit)).To(Equal(20))
		})

		It("tolerates an empty screen", func() {
			s := NewScreen(0, -2)
			s.DrawSprite(frame.Frame("#"), 0, 0)
			Expect(s.Render(rec.emit)).To(Equal(0))
		})
	})

	Describe("WithBackground", func() {
		It("uses the configured glyph for clearing and transparency", func() {
			s := NewScreen(1, 2, WithBackground('.'))
			s.Render(rec.emit)
			s.DrawSprite(frame.Frame(".#"), 0, 0)
			Expect(s.At(0, 0)).To(Equal('.'))
			Expect(s.At(1, 0)).To(Equal('#'))
		})
	})
})

var _ = Describe("Instruction", func() {
	It("encodes a one-based cursor move", func() {
		Expect(Instruction{Row: 0, Col: 0, Glyph: '#'}.String()).To(Equal("\x1b[1;1H#"))
		Expect(Instruction{Row: 9, Col: 41, Glyph: '▓'}.String()).To(Equal("\x1b[10;42H▓"))
	})
})

var _ = Describe("ANSIWriter", func() {
	It("writes instructions as String does and buffers until Flush", func() {
		var out bytes.Buffer
		w := NewANSIWriter(&out)
		in := Instruction{Row: 2, Col: 7, Glyph: '░'}
		w.Emit(in)
		Expect(out.Len()).To(Equal(0))
		Expect(w.Flush()).To(Succeed())
		Expect(out.String()).To(Equal(in.String()))
	})

	It("wraps output in alternate-screen sequences", func() {
		var out bytes.Buffer
		w := NewANSIWriter(&out)
		w.Begin()
		Expect(w.End()).To(Succeed())
		Expect(out.String()).To(HavePrefix(enterAltScr))
		Expect(out.String()).To(HaveSuffix(exitAltScr))
	})
})
