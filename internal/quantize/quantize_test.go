package quantize

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/san-kum/asciimotion/internal/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustGradient(t *testing.T, s string) frame.Gradient {
	t.Helper()
	g, err := frame.NewGradient(s)
	require.NoError(t, err)
	return g
}

func gradientRaster(t *testing.T, w, h int) *frame.Raster {
	t.Helper()
	r, err := frame.NewRaster(w, h, 3)
	require.NoError(t, err)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8((x * 255) / (w - 1))
			px := r.At(x, y)
			px[0], px[1], px[2] = v, uint8(y%256), 255-v
		}
	}
	return r
}

func TestMapTwoByTwo(t *testing.T) {
	q, err := New(mustGradient(t, " .+#"))
	require.NoError(t, err)

	r, err := frame.GrayFrom(2, 2, []uint8{0, 85, 170, 255})
	require.NoError(t, err)

	assert.Equal(t, frame.Frame(" .\n+#"), q.Map(r))
}

func TestQuantizeDimensions(t *testing.T) {
	q, err := New(frame.PresetStandard.Gradient())
	require.NoError(t, err)

	sources := []struct{ w, h int }{{64, 48}, {33, 100}, {200, 20}, {7, 7}}
	for _, src := range sources {
		r := gradientRaster(t, src.w, src.h)
		for _, w := range []int{1, 5, 20, 58, 100} {
			wantH := OutputHeight(w, src.w, src.h)
			f, err := q.Quantize(r, w)
			if wantH <= 0 {
				assert.ErrorIs(t, err, frame.ErrDimension)
				continue
			}
			require.NoError(t, err)
			rows := f.Rows()
			require.Len(t, rows, wantH, "src %dx%d width %d", src.w, src.h, w)
			for _, row := range rows {
				assert.Equal(t, w, utf8.RuneCountInString(row))
			}
		}
	}
}

func TestOutputHeightRounds(t *testing.T) {
	assert.Equal(t, 15, OutputHeight(20, 40, 60))  // 20*1.5*0.5
	assert.Equal(t, 1, OutputHeight(3, 4, 3))      // 1.125
	assert.Equal(t, 2, OutputHeight(3, 2, 3))      // 2.25
	assert.Equal(t, 29, OutputHeight(58, 100, 100)) // 29
}

func TestQuantizeRejectsNonPositiveWidth(t *testing.T) {
	q, err := New(frame.PresetMinimalist.Gradient())
	require.NoError(t, err)
	r := gradientRaster(t, 10, 10)

	for _, w := range []int{0, -3} {
		_, err := q.Quantize(r, w)
		assert.ErrorIs(t, err, frame.ErrDimension)
	}
}

func TestQuantizeRejectsZeroHeight(t *testing.T) {
	q, err := New(frame.PresetMinimalist.Gradient())
	require.NoError(t, err)
	wide := gradientRaster(t, 400, 2)

	_, err = q.Quantize(wide, 10)
	assert.ErrorIs(t, err, frame.ErrDimension)
}

func TestSingleGlyphGradient(t *testing.T) {
	q, err := New(mustGradient(t, "@"))
	require.NoError(t, err)

	f, err := q.Quantize(gradientRaster(t, 30, 30), 12)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("@", 12), f.Rows()[0])
	assert.Equal(t, 6, f.Height())
}

func TestSpaceDensityWidensBackground(t *testing.T) {
	q, err := New(mustGradient(t, " #"), WithSpaceDensity(3))
	require.NoError(t, err)

	r, err := frame.GrayFrom(3, 1, []uint8{0, 255, 0})
	require.NoError(t, err)
	assert.Equal(t, frame.Frame("   #   "), q.Map(r))
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, frame.ErrConfig)

	_, err = New(mustGradient(t, " #"), WithSpaceDensity(0))
	assert.ErrorIs(t, err, frame.ErrConfig)
}

func TestResampleAreaAveragesBlocks(t *testing.T) {
	q, err := New(mustGradient(t, " #"))
	require.NoError(t, err)

	// Two 2x2 blocks, black then white, downsampled to 2x1.
	r, err := frame.GrayFrom(4, 2, []uint8{
		0, 0, 255, 255,
		0, 0, 255, 255,
	})
	require.NoError(t, err)

	out := q.Resample(r, 2, 1).Gray()
	assert.Equal(t, []uint8{0, 255}, out.Pix)
}

func uniformRaster(t *testing.T, w, h int, v uint8) *frame.Raster {
	t.Helper()
	pix := make([]uint8, w*h)
	for i := range pix {
		pix[i] = v
	}
	out, err := frame.GrayFrom(w, h, pix)
	require.NoError(t, err)
	return out
}

func TestResampleAreaUpscaleStaysUniform(t *testing.T) {
	q, err := New(mustGradient(t, " #"))
	require.NoError(t, err)

	out := q.Resample(uniformRaster(t, 2, 2, 200), 9, 5)
	require.Equal(t, 9*5, len(out.Pix))
	for i, v := range out.Pix {
		assert.Equal(t, uint8(200), v, "sample %d", i)
	}
}

func TestQuantizeUniformUpscaleHasNoGaps(t *testing.T) {
	q, err := New(frame.PresetMinimalist.Gradient())
	require.NoError(t, err)

	out, err := q.Quantize(uniformRaster(t, 4, 4, 255), 10)
	require.NoError(t, err)
	row := strings.Repeat("#", 10)
	assert.Equal(t, strings.Join([]string{row, row, row, row, row}, "\n"), out.String())
}

func TestResampleAreaWeightsPartialCoverage(t *testing.T) {
	q, err := New(mustGradient(t, " #"))
	require.NoError(t, err)

	r, err := frame.GrayFrom(6, 1, []uint8{0, 0, 255, 255, 255, 255})
	require.NoError(t, err)

	// Cell 1 spans half of a black pixel and one whole white pixel.
	out := q.Resample(r, 4, 1)
	assert.Equal(t, []uint8{0, 170, 255, 255}, out.Pix)
}

func TestResampleAreaKeepsChannels(t *testing.T) {
	q, err := New(mustGradient(t, " #"))
	require.NoError(t, err)

	r, err := frame.NewRaster(3, 1, 3)
	require.NoError(t, err)
	copy(r.Pix, []uint8{255, 0, 0, 255, 0, 0, 0, 0, 255})

	out := q.Resample(r, 1, 1)
	assert.Equal(t, 3, out.Channels)
	assert.Equal(t, []uint8{170, 0, 85}, out.Pix)
}

func TestParseFilter(t *testing.T) {
	for _, name := range []string{"area", "CatmullRom", "bilinear"} {
		f, err := ParseFilter(name)
		require.NoError(t, err)
		assert.Equal(t, strings.ToLower(name), f.String())
	}
	_, err := ParseFilter("nearest")
	assert.ErrorIs(t, err, frame.ErrConfig)
}

func TestFilterNamesAllParse(t *testing.T) {
	names := FilterNames()
	assert.Equal(t, []string{"area", "catmullrom", "bilinear"}, names)
	for _, name := range names {
		_, err := ParseFilter(name)
		assert.NoError(t, err, name)
	}
}

func TestFiltersProduceSameShape(t *testing.T) {
	r := gradientRaster(t, 90, 60)
	for _, f := range []Filter{FilterArea, FilterCatmullRom, FilterBiLinear} {
		q, err := New(frame.PresetDetailed.Gradient(), WithFilter(f))
		require.NoError(t, err)
		out, err := q.Quantize(r, 30)
		require.NoError(t, err)
		assert.Equal(t, 10, out.Height(), f.String())
		assert.Equal(t, 30, out.Width(), f.String())
	}
}
