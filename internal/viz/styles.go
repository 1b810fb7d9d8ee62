package viz

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true)

	labelStyle = lipgloss.NewStyle().Width(10)
	keyHint    = lipgloss.NewStyle().Italic(true)
)

// GradientText colors each rune of text along a line from start to end.
func GradientText(text string, start, end lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	sr, sg, sb := parseHex(string(start))
	er, eg, eb := parseHex(string(end))

	var b strings.Builder
	n := len(runes)
	for i, c := range runes {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		col := hexColor(
			sr+int(t*float64(er-sr)),
			sg+int(t*float64(eg-sg)),
			sb+int(t*float64(eb-sb)),
		)
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(col)).Render(string(c)))
	}
	return b.String()
}

// ProgressBar renders the playback position as a filled bar.
func ProgressBar(th Theme, percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(percent * float64(width))
	filled = max(0, min(filled, width))

	bar := lipgloss.NewStyle().Foreground(th.Accent).Render(strings.Repeat("█", filled))
	return bar + lipgloss.NewStyle().Foreground(th.Muted).Render(strings.Repeat("░", width-filled))
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline maps values onto block glyphs, one per value, scaled between the
// series min and max. Values beyond width are dropped from the front.
func Sparkline(values []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	out := make([]rune, len(values))
	for i, v := range values {
		idx := int((v - lo) / rng * float64(len(sparkChars)-1))
		out[i] = sparkChars[max(0, min(idx, len(sparkChars)-1))]
	}
	return string(out)
}

// SparklineChart is Sparkline colored by each value's position in the range.
func SparklineChart(th Theme, values []float64, width int) string {
	plain := []rune(Sparkline(values, width))
	if len(values) == 0 {
		return lipgloss.NewStyle().Foreground(th.Muted).Render(string(plain))
	}

	var b strings.Builder
	for _, c := range plain {
		level := indexRune(sparkChars, c)
		style := lipgloss.NewStyle().Foreground(th.Low)
		switch {
		case level >= 5:
			style = style.Foreground(th.High)
		case level >= 2:
			style = style.Foreground(th.Mid)
		}
		b.WriteString(style.Render(string(c)))
	}
	return b.String()
}

func indexRune(rs []rune, r rune) int {
	for i, c := range rs {
		if c == r {
			return i
		}
	}
	return -1
}

func parseHex(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 255, 255, 255
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 255, 255, 255
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}

func hexColor(r, g, b int) string {
	clamp := func(v int) int { return max(0, min(v, 255)) }
	return "#" + hexByte(clamp(r)) + hexByte(clamp(g)) + hexByte(clamp(b))
}

func hexByte(v int) string {
	const hex = "0123456789abcdef"
	return string(hex[v/16]) + string(hex[v%16])
}
