package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/asciimotion/internal/frame"
	"github.com/san-kum/asciimotion/internal/pipeline"
	"github.com/san-kum/asciimotion/internal/storage"
)

type stubExtractor struct {
	calls int
}

func (s *stubExtractor) Extract(context.Context, string, int) ([]*frame.Raster, error) {
	s.calls++
	r, err := frame.NewRaster(40, 40, 1)
	if err != nil {
		return nil, err
	}
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			r.Pix[y*40+x] = uint8(x * 6)
		}
	}
	return []*frame.Raster{r, r.Clone()}, nil
}

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const manifestYAML = `
name: trees
description: tree at three depths plus a mirrored copy
preset: far-medium-close
defaults:
  frames: 4
jobs:
  - source: media/tree.gif
    output: out/tree
  - source: media/tree.gif
    preset: sprite-right
    settings:
      widths: [12]
      gradient: " .:#"
      adjust:
        brightness: 1
        contrast: 1.5
        saturation: 1
        invert: true
sweeps:
  - source: media/tree.gif
    width: 20
    param: contrast
    min: 1
    max: 3
    steps: 3
`

func TestLoadManifestResolvesPaths(t *testing.T) {
	path := writeManifest(t, manifestYAML)
	m, err := LoadManifest(path)
	require.NoError(t, err)

	dir := filepath.Dir(path)
	assert.Equal(t, "trees", m.Name)
	require.Len(t, m.Jobs, 2)
	assert.Equal(t, filepath.Join(dir, "media/tree.gif"), m.Jobs[0].Source)
	assert.Equal(t, filepath.Join(dir, "out/tree"), m.Jobs[0].Output)
	assert.Empty(t, m.Jobs[1].Output)
	require.Len(t, m.Sweeps, 1)
	assert.Equal(t, filepath.Join(dir, "media/tree.gif"), m.Sweeps[0].Source)
}

func TestResolveLayersSettings(t *testing.T) {
	m, err := LoadManifest(writeManifest(t, manifestYAML))
	require.NoError(t, err)

	first, err := m.Resolve(m.Jobs[0])
	require.NoError(t, err)
	assert.Equal(t, []int{20, 58, 100}, first.Widths)
	assert.Equal(t, 4, first.Frames)

	second, err := m.Resolve(m.Jobs[1])
	require.NoError(t, err)
	assert.Equal(t, []int{12}, second.Widths)
	assert.True(t, second.Flip)
	assert.True(t, second.Adjust.Invert)
	assert.Equal(t, 1.5, second.Adjust.Contrast)
	assert.Equal(t, " .:#", second.Gradient)
}

func TestResolveJobPresetKeepsManifestDefaults(t *testing.T) {
	m, err := LoadManifest(writeManifest(t, manifestYAML))
	require.NoError(t, err)

	second, err := m.Resolve(m.Jobs[1])
	require.NoError(t, err)
	assert.Equal(t, 4, second.Frames, "defaults apply over the job preset")
	assert.Equal(t, "area", second.Filter)

	m.Jobs[1].Settings = yaml.Node{}
	bare, err := m.Resolve(m.Jobs[1])
	require.NoError(t, err)
	assert.True(t, bare.Flip, "job preset replaces the manifest preset")
	assert.Equal(t, 4, bare.Frames)
	assert.Equal(t, "minimalist", bare.Gradient)
}

func TestResolveRejectsUnknownPreset(t *testing.T) {
	m := &Manifest{Preset: "nope"}
	_, err := m.Resolve(Job{Source: "x.png"})
	assert.ErrorIs(t, err, frame.ErrConfig)
}

func TestRunWritesOutputs(t *testing.T) {
	m, err := LoadManifest(writeManifest(t, manifestYAML))
	require.NoError(t, err)

	ex := &stubExtractor{}
	runner := NewRunner(pipeline.New(ex), ex, nil)
	results, err := runner.Run(context.Background(), m)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 2, ex.calls)

	meta, err := storage.ReadMetadata(m.Jobs[0].Output)
	require.NoError(t, err)
	assert.Equal(t, []int{20, 58, 100}, meta.Widths)
	assert.Equal(t, 2, meta.Frames)
	assert.Contains(t, meta.Metrics, "w58.coverage")

	set, err := storage.ReadSet(m.Jobs[0].Output, 20)
	require.NoError(t, err)
	assert.Len(t, set, 2)

	assert.Empty(t, results[1].Output)
	assert.Equal(t, []int{12}, results[1].Result.Widths)
}

func TestRunStopsOnFailure(t *testing.T) {
	m := &Manifest{Jobs: []Job{
		{Source: "a.png"},
		{Source: "b.png", Settings: mustNode(t, "widths: [0]")},
		{Source: "c.png"},
	}}
	ex := &stubExtractor{}
	results, err := NewRunner(pipeline.New(ex), ex, nil).Run(context.Background(), m)
	assert.ErrorIs(t, err, frame.ErrDimension)
	assert.Len(t, results, 1)
	assert.Equal(t, 1, ex.calls)
}

func TestSweepDecodesOnce(t *testing.T) {
	m, err := LoadManifest(writeManifest(t, manifestYAML))
	require.NoError(t, err)

	ex := &stubExtractor{}
	results, err := NewRunner(pipeline.New(ex), ex, nil).Sweep(context.Background(), m, m.Sweeps[0])
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, 1, ex.calls)
	assert.Equal(t, []float64{1, 2, 3}, []float64{results[0].Value, results[1].Value, results[2].Value})
	for _, r := range results {
		assert.Equal(t, 20, r.Frame.Width())
	}
}

func TestSweepRejectsBadParam(t *testing.T) {
	ex := &stubExtractor{}
	_, err := NewRunner(pipeline.New(ex), ex, nil).Sweep(context.Background(), &Manifest{},
		Sweep{Source: "x.png", Width: 10, Param: "gamma", Min: 1, Max: 2, Steps: 2})
	assert.ErrorIs(t, err, frame.ErrConfig)

	_, err = NewRunner(pipeline.New(ex), ex, nil).Sweep(context.Background(), &Manifest{},
		Sweep{Source: "x.png", Width: 10, Param: "contrast", Steps: 1})
	assert.ErrorIs(t, err, frame.ErrConfig)
}

func TestDescribe(t *testing.T) {
	m := &Manifest{}
	cfg, err := m.Config()
	require.NoError(t, err)

	res := &pipeline.Result{
		Widths: []int{2},
		Sets:   map[int]frame.FrameSet{2: {"##", "  "}},
	}
	meta := Describe("clip.gif", cfg, res)
	assert.Equal(t, "clip.gif", meta.Source)
	assert.Equal(t, 0.5, meta.Metrics["w2.coverage"])
	assert.Equal(t, 2.0, meta.Metrics["w2.churn"])
}

func mustNode(t *testing.T, src string) yaml.Node {
	t.Helper()
	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))
	return *doc.Content[0]
}
