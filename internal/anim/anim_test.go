package anim

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/asciimotion/internal/frame"
)

type fakeHost struct {
	rows, cols int
	keys       chan byte
	out        bytes.Buffer
}

func newFakeHost(rows, cols int) *fakeHost {
	return &fakeHost{rows: rows, cols: cols, keys: make(chan byte, 4)}
}

func (h *fakeHost) Size() (int, int)  { return h.rows, h.cols }
func (h *fakeHost) Keys() <-chan byte { return h.keys }
func (h *fakeHost) Out() io.Writer    { return &h.out }

func stage(label string, frames ...string) Stage {
	return Stage{Label: label, Frames: frame.FromStrings(frames)}
}

func mustLayer(t *testing.T, name string, stages []Stage, opts ...LayerOption) *Layer {
	t.Helper()
	l, err := NewLayer(name, stages, opts...)
	require.NoError(t, err)
	return l
}

func TestZoomCycle(t *testing.T) {
	far, med, near := stage("far", "a"), stage("medium", "b"), stage("close", "c")

	labels := func(ss []Stage) []string {
		var out []string
		for _, s := range ss {
			out = append(out, s.Label)
		}
		return out
	}
	assert.Equal(t, []string{"far", "medium", "close", "medium"}, labels(ZoomCycle(far, med, near)))
	assert.Equal(t, []string{"far", "medium"}, labels(ZoomCycle(far, med)))
	assert.Equal(t, []string{"far"}, labels(ZoomCycle(far)))
}

func TestZoomStages(t *testing.T) {
	sets := map[int]frame.FrameSet{20: {"a"}, 58: {"bb"}, 100: {"ccc"}}
	stages := ZoomStages(sets, []int{20, 58, 100})
	require.Len(t, stages, 4)
	assert.Equal(t, "far", stages[0].Label)
	assert.Equal(t, frame.FrameSet{"bb"}, stages[3].Frames)

	assert.Equal(t, []string{"far", "close"}, DepthLabels([]int{1, 2}))
	assert.Equal(t, []string{"w58"}, DepthLabels([]int{58}))
	assert.Equal(t, []string{"w1", "w2", "w3", "w4"}, DepthLabels([]int{1, 2, 3, 4}))
}

func TestLayerAdvancesThroughStages(t *testing.T) {
	l := mustLayer(t, "tree", ZoomCycle(
		stage("far", "1", "2"),
		stage("medium", "3"),
		stage("close", "4", "5"),
	))

	var seen []string
	now := time.Unix(0, 0)
	for i := 0; i < 8; i++ {
		seen = append(seen, string(l.Current()))
		l.Advance(now)
	}
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "3", "1", "2"}, seen)
}

func TestLayerPeriodGatesAdvance(t *testing.T) {
	l := mustLayer(t, "bg", []Stage{stage("", "a", "b", "c")}, WithPeriod(time.Second))
	t0 := time.Unix(100, 0)

	assert.False(t, l.Advance(t0))
	assert.False(t, l.Advance(t0.Add(500*time.Millisecond)))
	assert.Equal(t, frame.Frame("a"), l.Current())

	assert.True(t, l.Advance(t0.Add(time.Second)))
	assert.Equal(t, frame.Frame("b"), l.Current())

	assert.False(t, l.Advance(t0.Add(1500*time.Millisecond)))
	assert.True(t, l.Advance(t0.Add(2*time.Second)))
	assert.Equal(t, frame.Frame("c"), l.Current())
}

func TestNewLayerRejectsEmpty(t *testing.T) {
	_, err := NewLayer("x", nil)
	assert.ErrorIs(t, err, frame.ErrConfig)

	_, err = NewLayer("x", []Stage{stage("far")})
	assert.ErrorIs(t, err, frame.ErrConfig)
}

func TestLayerPlace(t *testing.T) {
	f := "abcd\nefgh"
	tests := []struct {
		anchor Anchor
		dx, dy int
		x, y   int
	}{
		{AnchorCenterBottom, 0, 0, 3, 8},
		{AnchorCenter, 0, 0, 3, 4},
		{AnchorTopLeft, 0, 0, 0, 0},
		{AnchorCenterBottom, -2, 1, 1, 9},
	}
	for _, tt := range tests {
		t.Run(tt.anchor.String(), func(t *testing.T) {
			l := mustLayer(t, "s", []Stage{stage("", f)}, WithAnchor(tt.anchor), WithOffset(tt.dx, tt.dy))
			x, y := l.Place(10, 10)
			assert.Equal(t, tt.x, x)
			assert.Equal(t, tt.y, y)
		})
	}
}

func TestLayerPlaceUsesDisplayWidth(t *testing.T) {
	l := mustLayer(t, "wide", []Stage{stage("", "日本")}, WithAnchor(AnchorTopLeft), WithOffset(0, 0))
	assert.Equal(t, 4, displayWidth(l.Current()))
}

func TestParseAnchor(t *testing.T) {
	a, err := ParseAnchor(" Center ")
	require.NoError(t, err)
	assert.Equal(t, AnchorCenter, a)

	_, err = ParseAnchor("left")
	assert.ErrorIs(t, err, frame.ErrConfig)
}

func TestPlayerStepRendersOnlyChanges(t *testing.T) {
	host := newFakeHost(4, 6)
	sprite := mustLayer(t, "fg", []Stage{stage("far", "##", "##")})
	p := NewPlayer(host, []*Layer{sprite}, WithStatusLine(false))

	now := time.Unix(0, 0)
	assert.Equal(t, 24, p.Step(now), "first paint repaints every cell")
	assert.Equal(t, 0, p.Step(now), "identical frame emits nothing")

	rows := []string{}
	for y := 0; y < 4; y++ {
		var b strings.Builder
		for x := 0; x < 6; x++ {
			b.WriteRune(p.Screen().At(x, y))
		}
		rows = append(rows, b.String())
	}
	assert.Equal(t, []string{"      ", "      ", "      ", "  ##  "}, rows)
	assert.Equal(t, 2, p.Ticks())
}

func TestPlayerLayersDrawInZOrder(t *testing.T) {
	host := newFakeHost(3, 3)
	back := mustLayer(t, "bg", []Stage{stage("", "aaa\naaa\naaa")}, WithAnchor(AnchorTopLeft))
	front := mustLayer(t, "fg", []Stage{stage("", " b ")}, WithAnchor(AnchorCenter))
	p := NewPlayer(host, []*Layer{back, front}, WithStatusLine(false))

	p.Draw()
	assert.Equal(t, 'a', p.Screen().At(0, 1))
	assert.Equal(t, 'b', p.Screen().At(1, 1))
	assert.Equal(t, 'a', p.Screen().At(2, 1))
}

func TestPlayerBackgroundIsTransparent(t *testing.T) {
	host := newFakeHost(1, 3)
	back := mustLayer(t, "bg", []Stage{stage("", "aaa")}, WithAnchor(AnchorTopLeft))
	front := mustLayer(t, "fg", []Stage{stage("", ".b.")}, WithAnchor(AnchorTopLeft))
	p := NewPlayer(host, []*Layer{back, front}, WithStatusLine(false), WithBackground('.'))

	p.Draw()
	assert.Equal(t, '.', p.Screen().Background())
	assert.Equal(t, 'a', p.Screen().At(0, 0))
	assert.Equal(t, 'b', p.Screen().At(1, 0))
	assert.Equal(t, 'a', p.Screen().At(2, 0))
}

func TestPlayerStatusLine(t *testing.T) {
	host := newFakeHost(3, 50)
	l := mustLayer(t, "tree", []Stage{stage("far", "#", "#")})
	p := NewPlayer(host, []*Layer{l})

	p.Draw()
	var b strings.Builder
	for x := 0; x < 50; x++ {
		b.WriteRune(p.Screen().At(x, 2))
	}
	assert.Equal(t, "Size: far      | Frame: 1/2 | 'q' to quit", strings.TrimRight(b.String(), " "))
	assert.Equal(t, '#', p.Screen().At(24, 1), "sprite sits above the status line")
}

func TestIsQuitKey(t *testing.T) {
	for _, k := range []byte{'q', 'Q', 0x03} {
		assert.True(t, IsQuitKey(k))
	}
	for _, k := range []byte{'x', ' ', 0x1b} {
		assert.False(t, IsQuitKey(k))
	}
}

func TestPlayerRunStopsOnQuitKey(t *testing.T) {
	host := newFakeHost(5, 10)
	l := mustLayer(t, "fg", []Stage{stage("", "x", "y")})
	p := NewPlayer(host, []*Layer{l}, WithPollTimeout(time.Millisecond))
	assert.Equal(t, Idle, p.State())

	host.keys <- 'z'
	host.keys <- 'q'
	require.NoError(t, p.Run(context.Background()))
	assert.Equal(t, Stopped, p.State())

	out := host.out.String()
	assert.True(t, strings.HasPrefix(out, "\x1b[?1049h"))
	assert.True(t, strings.HasSuffix(out, "\x1b[?1049l"))
}

func TestPlayerRunStopsOnCancel(t *testing.T) {
	host := newFakeHost(5, 10)
	l := mustLayer(t, "fg", []Stage{stage("", "x", "y")})
	p := NewPlayer(host, []*Layer{l}, WithPollTimeout(time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.NoError(t, p.Run(ctx))
	assert.Equal(t, Stopped, p.State())
	assert.Positive(t, p.Ticks())
}

func TestPlayerRunHandlesResize(t *testing.T) {
	host := newFakeHost(5, 10)
	l := mustLayer(t, "fg", []Stage{stage("", "x")})
	p := NewPlayer(host, []*Layer{l}, WithPollTimeout(time.Millisecond))

	host.rows, host.cols = 8, 12
	close(host.keys)
	require.NoError(t, p.Run(context.Background()))

	rows, cols := p.Screen().Size()
	assert.Equal(t, 8, rows)
	assert.Equal(t, 12, cols)
}
