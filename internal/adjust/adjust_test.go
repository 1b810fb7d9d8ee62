package adjust

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/asciimotion/internal/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomRaster(t *testing.T, w, h, channels int, seed int64) *frame.Raster {
	t.Helper()
	r, err := frame.NewRaster(w, h, channels)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(seed))
	for i := range r.Pix {
		r.Pix[i] = uint8(rng.Intn(256))
	}
	return r
}

func TestInvertIsInvolution(t *testing.T) {
	for _, ch := range []int{1, 3} {
		r := randomRaster(t, 17, 9, ch, int64(ch))
		back := Invert(Invert(r))
		assert.True(t, r.Equal(back), "channels=%d", ch)
	}
}

func TestInvertChannelwise(t *testing.T) {
	r, err := frame.NewRaster(1, 1, 3)
	require.NoError(t, err)
	copy(r.Pix, []uint8{0, 100, 255})
	assert.Equal(t, []uint8{255, 155, 0}, Invert(r).Pix)
}

func TestApplyIdentity(t *testing.T) {
	r := randomRaster(t, 8, 8, 3, 7)
	out := Apply(r, DefaultSettings())
	assert.True(t, r.Equal(out))
	assert.NotSame(t, r, out)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	r := randomRaster(t, 8, 8, 3, 11)
	orig := r.Clone()
	_ = Apply(r, Settings{Brightness: 1.4, Contrast: 2, Saturation: 0.5, Invert: true})
	assert.True(t, orig.Equal(r))
}

func TestApplyOrderMatters(t *testing.T) {
	r := randomRaster(t, 16, 16, 3, 3)
	s := Settings{Brightness: 1.8, Contrast: 2.5, Saturation: 1}

	ordered := Apply(r, s)
	swapped := Brighten(Contrast(r, s.Contrast), s.Brightness)
	assert.False(t, ordered.Equal(swapped))
}

func TestBrightenClamps(t *testing.T) {
	r, err := frame.NewRaster(3, 1, 1)
	require.NoError(t, err)
	copy(r.Pix, []uint8{0, 100, 200})
	assert.Equal(t, []uint8{0, 200, 255}, Brighten(r, 2).Pix)
	assert.Equal(t, []uint8{0, 50, 100}, Brighten(r, 0.5).Pix)
}

func TestContrastAroundMean(t *testing.T) {
	r, err := frame.NewRaster(2, 1, 1)
	require.NoError(t, err)
	copy(r.Pix, []uint8{100, 200})
	// mean 150; 150 + 2*(100-150) = 50, 150 + 2*(200-150) = 250
	assert.Equal(t, []uint8{50, 250}, Contrast(r, 2).Pix)
}

func TestSaturateZeroIsGrey(t *testing.T) {
	r := randomRaster(t, 4, 4, 3, 5)
	out := Saturate(r, 1e-9)
	for i := 0; i < len(out.Pix); i += 3 {
		l := frame.Luma(r.Pix[i], r.Pix[i+1], r.Pix[i+2])
		for c := 0; c < 3; c++ {
			assert.InDelta(t, float64(l), float64(out.Pix[i+c]), 1)
		}
	}
}

func TestMirror(t *testing.T) {
	r, err := frame.NewRaster(3, 1, 1)
	require.NoError(t, err)
	copy(r.Pix, []uint8{1, 2, 3})
	assert.Equal(t, []uint8{3, 2, 1}, Mirror(r).Pix)

	rgb := randomRaster(t, 5, 3, 3, 9)
	assert.True(t, rgb.Equal(Mirror(Mirror(rgb))))
}

func TestSettingsValidate(t *testing.T) {
	assert.NoError(t, DefaultSettings().Validate())

	bad := []Settings{
		{Brightness: 0, Contrast: 1, Saturation: 1},
		{Brightness: 1, Contrast: -2, Saturation: 1},
		{Brightness: 1, Contrast: 1, Saturation: math.NaN()},
		{Brightness: math.Inf(1), Contrast: 1, Saturation: 1},
	}
	for _, s := range bad {
		assert.ErrorIs(t, s.Validate(), frame.ErrConfig, "%+v", s)
	}
}
