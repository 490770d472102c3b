package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/golang/geo/r2"
	"github.com/guptarohit/asciigraph"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/blobsim/internal/dynamo"
	"github.com/san-kum/blobsim/internal/metrics"
	"github.com/san-kum/blobsim/internal/palette"
	"github.com/san-kum/blobsim/internal/physics"
)

const (
	fps             = 60
	panelWidth      = 40
	historyCapacity = 300

	// terminal cells taken by the canvas padding
	padCols = 2
	padRows = 1

	minCols = 10
	minRows = 5
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/fps, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// input is the pointer and viewport the simulator polls once per tick.
type input struct {
	drag   dynamo.Drag
	bounds dynamo.Bounds
}

func (in *input) Drag() dynamo.Drag     { return in.drag }
func (in *input) Bounds() dynamo.Bounds { return in.bounds }

// Builder makes a fresh body, used at start and on reset.
type Builder func(bounds dynamo.Bounds) (*physics.SoftBody, error)

type Options struct {
	Build       Builder
	Dt          float64
	UnitsPerDot float64
	Seed        int64
	Theme       string
	Logger      *log.Logger
}

// Model drives one soft body at a fixed frame rate and draws it on a
// braille canvas next to a status panel.
type Model struct {
	opts   Options
	proj   Projection
	canvas *Canvas
	in     *input
	body   *physics.SoftBody
	sim    *dynamo.Simulator
	theme  Theme
	styles styleSet

	picker *palette.Picker
	fader  *palette.Fader
	flash  *palette.Flash
	color  colorful.Color

	hits   *metrics.WallHits
	energy *metrics.KineticEnergy
	minVol *metrics.MinVolume

	running bool
	tick    int
	t       float64
	last    dynamo.Sample
	heights []float64
	volumes []float64
	err     error
}

func NewModel(opts Options) (Model, error) {
	if opts.UnitsPerDot <= 0 {
		opts.UnitsPerDot = 2
	}
	if opts.Logger == nil {
		opts.Logger = log.New(nopWriter{})
	}

	m := Model{
		opts:    opts,
		proj:    Projection{UnitsPerDot: opts.UnitsPerDot},
		canvas:  NewCanvas(80, 24),
		in:      &input{},
		theme:   GetTheme(opts.Theme),
		picker:  palette.NewPicker(opts.Seed),
		flash:   &palette.Flash{},
		hits:    metrics.NewWallHits("wall_hits", ""),
		minVol:  metrics.NewMinVolume(),
		running: true,
		heights: make([]float64, 0, historyCapacity),
		volumes: make([]float64, 0, historyCapacity),
	}
	m.styles = newStyles(m.theme)
	m.in.bounds = m.proj.Bounds(m.canvas)
	m.color = m.picker.Color()
	m.fader = palette.NewFader(fps, m.color)

	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			if err := m.reset(); err != nil {
				m.err = err
			}
		case "t":
			m.theme = m.theme.next()
			m.styles = newStyles(m.theme)
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.MouseMsg:
		m.mouse(msg)

	case TickMsg:
		if m.running && m.err == nil {
			m.step(time.Time(msg))
		}
		m.color = m.flash.Step(1.0/fps, m.fader.Step(m.picker.Color()))
		return m, tick()
	}
	return m, nil
}

// resize fits the canvas to the terminal. The world box follows, so the
// body is pushed back inside on the next tick if the window shrank.
func (m *Model) resize(w, h int) {
	cols := w - panelWidth - 2*padCols - 4
	rows := h - 2*padRows
	if cols < minCols {
		cols = minCols
	}
	if rows < minRows {
		rows = minRows
	}
	m.canvas = NewCanvas(cols, rows)
	m.in.bounds = m.proj.Bounds(m.canvas)
	m.opts.Logger.Debug("resize", "cols", cols, "rows", rows, "width", m.in.bounds.Width, "height", m.in.bounds.Height)
}

func (m *Model) mouse(msg tea.MouseMsg) {
	target := m.proj.FromCell(msg.X-padCols, msg.Y-padRows)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.in.drag = dynamo.Drag{Active: true, Target: target}
		}
	case tea.MouseActionMotion:
		if m.in.drag.Active {
			m.in.drag.Target = target
		}
	case tea.MouseActionRelease:
		m.in.drag = dynamo.Drag{}
	}
}

func (m *Model) step(now time.Time) {
	sample := m.sim.Tick(m.tick, m.t, m.opts.Dt)
	m.tick++
	m.t = sample.Time

	if !sample.State.IsValid() {
		m.err = &dynamo.SimError{Tick: sample.Tick, Time: sample.Time, Wrapped: dynamo.ErrInvalidState}
		m.running = false
		m.opts.Logger.Error("body went non-finite", "err", m.err)
		return
	}

	m.hits.Observe(sample)
	m.energy.Observe(sample)
	m.minVol.Observe(sample)

	if sample.NewCollision {
		m.flash.Trigger()
	}
	if m.picker.Observe(sample.NewCollision, now) {
		m.opts.Logger.Debug("new color", "wall", sample.Wall, "hex", m.picker.Color().Hex())
	}

	m.heights = append(m.heights, sample.Centroid.Y)
	if len(m.heights) > historyCapacity {
		m.heights = m.heights[1:]
	}
	m.volumes = append(m.volumes, sample.Volume)
	if len(m.volumes) > historyCapacity {
		m.volumes = m.volumes[1:]
	}
	sample.State = nil
	m.last = sample
}

func (m *Model) reset() error {
	body, err := m.opts.Build(m.in.bounds)
	if err != nil {
		return err
	}
	m.body = body
	m.sim = dynamo.New(body, m.in, m.in)
	m.sim.SetLogger(m.opts.Logger)
	m.energy = metrics.NewKineticEnergy(body.Config().Mass)
	m.hits.Reset()
	m.minVol.Reset()
	m.tick = 0
	m.t = 0
	m.heights = m.heights[:0]
	m.volumes = m.volumes[:0]
	m.last = dynamo.Sample{Centroid: body.Centroid(), Wall: physics.WallNone.String()}
	m.err = nil
	m.opts.Logger.Info("reset", "nodes", body.Len())
	return nil
}

func (m *Model) draw() {
	m.canvas.Clear()
	m.canvas.DrawBorder()
	m.proj.DrawOutline(m.canvas, m.body.Positions())
	if m.in.drag.Active {
		m.proj.DrawSegment(m.canvas, m.body.Centroid(), m.in.drag.Target)
	}
	cx, cy := m.proj.ToDot(m.body.Centroid())
	m.canvas.Set(cx, cy)
}

func (m Model) View() string {
	m.draw()

	bodyStyle := lipgloss.NewStyle().
		Padding(padRows, padCols).
		Foreground(lipgloss.Color(m.color.Hex()))
	canvasView := bodyStyle.Render(m.canvas.String())

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.panel())
}

func (m Model) panel() string {
	st := m.styles
	var s strings.Builder

	end, _ := colorful.Hex(string(m.theme.Title))
	s.WriteString(GradientText("BLOBSIM", m.color, end) + "\n\n")

	switch {
	case m.err != nil:
		s.WriteString(st.low.Render("STOPPED: "+m.err.Error()) + "\n\n")
	case m.running:
		s.WriteString(st.running.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(st.paused.Render("PAUSED") + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Tick", fmt.Sprintf("%d", m.tick))
	row("Time", fmt.Sprintf("%.2f", m.t))
	row("Wall", m.last.Wall)
	row("Hits", fmt.Sprintf("%.0f", m.hits.Value()))
	row("Energy", fmt.Sprintf("%.2f", m.energy.Last()))
	row("Volume", fmt.Sprintf("%.1f", m.last.Volume))
	row("Box", fmt.Sprintf("%.0fx%.0f", m.in.bounds.Width, m.in.bounds.Height))
	if m.in.drag.Active {
		row("Drag", fmt.Sprintf("%.0f,%.0f", m.in.drag.Target.X, m.in.drag.Target.Y))
	}

	if peak := m.minVol.Value(); peak > 0 && m.last.Volume > 0 {
		s.WriteString("\n" + st.label.Render("Squash") + st.ProgressBar(peak/m.last.Volume, 20) + "\n")
	}
	if len(m.volumes) > 1 {
		s.WriteString(st.label.Render("Volume") + Sparkline(m.volumes, 20) + "\n")
	}

	if len(m.heights) > 1 {
		chart := asciigraph.Plot(m.heights, asciigraph.Height(4), asciigraph.Width(28), asciigraph.Caption("centroid y"))
		s.WriteString("\n" + chart + "\n")
	}

	s.WriteString(st.hint.Render("drag:pull  space:pause  r:reset\nt:theme  q:quit"))
	return st.panel.Render(s.String())
}

// Centroid is the body's current centroid, exposed for tests and callers
// embedding the model.
func (m Model) Centroid() r2.Point { return m.body.Centroid() }

func (m Model) Bounds() dynamo.Bounds { return m.in.bounds }
func (m Model) Dragging() bool        { return m.in.drag.Active }
func (m Model) Running() bool         { return m.running }
func (m Model) Ticks() int            { return m.tick }
func (m Model) Err() error            { return m.err }
