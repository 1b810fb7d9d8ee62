package extract

import (
	"image"
	"image/gif"
	"os"

	"golang.org/x/image/draw"

	"github.com/san-kum/asciimotion/internal/frame"
)

func (e *Extractor) extractGIF(path string) ([]*frame.Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &frame.DecodeError{Path: path, Wrapped: err}
	}
	defer f.Close()

	g, err := gif.DecodeAll(f)
	if err != nil {
		return nil, &frame.DecodeError{Path: path, Wrapped: err}
	}
	if len(g.Image) == 0 {
		return nil, &frame.DecodeError{Path: path}
	}
	return e.compose(g), nil
}

// compose replays the frames of g on a logical-screen canvas, applying each
// frame's disposal method before the next is drawn.
func (e *Extractor) compose(g *gif.GIF) []*frame.Raster {
	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		for _, p := range g.Image {
			bounds = bounds.Union(p.Bounds())
		}
	}

	canvas := image.NewRGBA(bounds)
	out := make([]*frame.Raster, 0, len(g.Image))
	for i, p := range g.Image {
		disposal := byte(gif.DisposalNone)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}

		var saved *image.RGBA
		if disposal == gif.DisposalPrevious {
			saved = image.NewRGBA(bounds)
			draw.Draw(saved, bounds, canvas, bounds.Min, draw.Src)
		}

		draw.Draw(canvas, p.Bounds(), p, p.Bounds().Min, draw.Over)
		out = append(out, frame.FromImage(canvas, e.background))

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, p.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			draw.Draw(canvas, bounds, saved, bounds.Min, draw.Src)
		}
	}
	return out
}
