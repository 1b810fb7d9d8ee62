package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/asciimotion/internal/frame"
	"github.com/san-kum/asciimotion/internal/metrics"
	"github.com/san-kum/asciimotion/internal/pipeline"
)

// DefaultPeriod is the playback interval between frames.
const DefaultPeriod = 200 * time.Millisecond

type TickMsg time.Time

// Model is a bubbletea viewer over the frame sets of one conversion.
type Model struct {
	title   string
	widths  []int
	sets    map[int]frame.FrameSet
	reports map[int]metrics.Report

	wi, index int
	playing   bool
	period    time.Duration
	theme     int
	stats     bool
	showHelp  bool

	width, height int
}

type Option func(*Model)

func WithPeriod(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.period = d
		}
	}
}

func WithTheme(name string) Option {
	return func(m *Model) { m.theme = themeIndex(name) }
}

// WithStats opens the viewer with the metrics panel shown.
func WithStats(on bool) Option {
	return func(m *Model) { m.stats = on }
}

// NewModel builds a viewer. Metrics are computed once per width up front.
func NewModel(title string, res *pipeline.Result, background rune, opts ...Option) Model {
	m := Model{
		title:   title,
		widths:  append([]int(nil), res.Widths...),
		sets:    res.Sets,
		reports: make(map[int]metrics.Report, len(res.Widths)),
		playing: true,
		period:  DefaultPeriod,
		width:   80,
		height:  24,
	}
	for _, w := range m.widths {
		m.reports[w] = metrics.Analyze(res.Set(w), background)
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.period, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.playing = !m.playing
		case "right", "l":
			m.playing = false
			m.step(1)
		case "left", "h":
			m.playing = false
			m.step(-1)
		case "home", "0":
			m.index = 0
		case "w", "tab":
			m.cycleWidth(1)
		case "W", "shift+tab":
			m.cycleWidth(-1)
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		case "s":
			m.stats = !m.stats
		case "+", "=":
			m.period = max(m.period/2, 25*time.Millisecond)
		case "-", "_":
			m.period = min(m.period*2, 2*time.Second)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case TickMsg:
		if m.playing {
			m.step(1)
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step(delta int) {
	n := len(m.Set())
	if n == 0 {
		return
	}
	m.index = ((m.index+delta)%n + n) % n
}

// cycleWidth switches width and keeps the frame index when the new set is
// long enough.
func (m *Model) cycleWidth(delta int) {
	if len(m.widths) == 0 {
		return
	}
	n := len(m.widths)
	m.wi = ((m.wi+delta)%n + n) % n
	if m.index >= len(m.Set()) {
		m.index = 0
	}
}

func (m Model) Width() int {
	if len(m.widths) == 0 {
		return 0
	}
	return m.widths[m.wi]
}

func (m Model) Set() frame.FrameSet {
	return m.sets[m.Width()]
}

func (m Model) Index() int { return m.index }

func (m Model) Playing() bool { return m.playing }

func (m Model) Theme() Theme { return Themes[m.theme] }

func (m Model) Stats() bool { return m.stats }

func (m Model) Period() time.Duration { return m.period }

func (m Model) View() string {
	th := m.Theme()
	set := m.Set()

	var s strings.Builder
	header := headerStyle.BorderForeground(th.Muted).Render(GradientText(m.title, th.Ink, th.Accent))
	s.WriteString(header + "\n")

	status := "PLAYING"
	if !m.playing {
		status = "PAUSED"
	}
	text := lipgloss.NewStyle().Foreground(th.Text)
	s.WriteString(text.Render(fmt.Sprintf("width %d | frame %d/%d | %s | %s",
		m.Width(), m.index+1, len(set), status, th.Name)) + "\n")
	if len(set) > 0 {
		s.WriteString(ProgressBar(th, float64(m.index+1)/float64(len(set)), min(40, m.width)) + "\n")
	}

	body := lipgloss.NewStyle().Foreground(th.Ink).Background(th.Paper)
	var art string
	if len(set) > 0 {
		art = body.Render(set[m.index].String())
	}
	art = panelStyle.BorderForeground(th.Muted).Render(art)

	if m.stats {
		art = lipgloss.JoinHorizontal(lipgloss.Top, art, m.statsView(th))
	}
	s.WriteString(art + "\n")

	hint := keyHint.Foreground(th.Muted)
	if m.showHelp {
		s.WriteString(hint.Render(strings.Join([]string{
			"space  play/pause",
			"←/→    step",
			"w/W    next/prev width",
			"+/-    speed",
			"t      theme",
			"s      stats",
			"q      quit",
		}, "\n")))
	} else {
		s.WriteString(hint.Render("space play  ←/→ step  w width  t theme  s stats  ? help  q quit"))
	}
	return s.String()
}

func (m Model) statsView(th Theme) string {
	rep, ok := m.reports[m.Width()]
	if !ok || rep.Frames == 0 {
		return ""
	}
	label := labelStyle.Foreground(th.Muted)
	value := lipgloss.NewStyle().Foreground(th.Text)

	var s strings.Builder
	s.WriteString(label.Render("size") + value.Render(fmt.Sprintf("%dx%d", rep.Width, rep.Height)) + "\n")
	s.WriteString(label.Render("coverage") + value.Render(fmt.Sprintf("%.1f%%", rep.MeanCoverage*100)) + "\n")
	s.WriteString(label.Render("churn") + value.Render(fmt.Sprintf("%.1f cells", rep.MeanChurn)) + "\n")
	s.WriteString(label.Render("ink") + SparklineChart(th, rep.Coverage, 24) + "\n")

	if len(rep.Churn) > 1 {
		series := make([]float64, len(rep.Churn))
		for i, c := range rep.Churn {
			series[i] = float64(c)
		}
		chart := asciigraph.Plot(series, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("churn"))
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(th.Accent).Render(chart) + "\n")
	}

	var glyphs []string
	for _, g := range rep.TopGlyphs(5) {
		glyphs = append(glyphs, fmt.Sprintf("%q %d", g.Glyph, g.Count))
	}
	s.WriteString("\n" + label.Render("glyphs") + value.Render(strings.Join(glyphs, "  ")))

	return panelStyle.BorderForeground(th.Muted).Render(s.String())
}
