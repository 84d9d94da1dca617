package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/kazin-kharizma/element-call/pkg/grid"
	"github.com/kazin-kharizma/element-call/pkg/grid/state"
)

// Terminal cells are roughly twice as tall as wide; these factors map cells
// to viewport pixels so tile aspect ratios survive the translation.
const (
	cellPxWidth  = 10.0
	cellPxHeight = 20.0

	// statusRows is the screen space reserved for the header and key hints.
	statusRows = 2

	// wheelStep is the scroll delta per arrow key press, in pixels.
	wheelStep = 40.0
)

var (
	demoHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	demoHintStyle   = lipgloss.NewStyle().Foreground(colorDim)
	demoModeStyle   = lipgloss.NewStyle().Foreground(colorYellow)
)

// demoModel is the bubbletea model driving the grid simulator.
type demoModel struct {
	ctrl  *state.Controller
	items []state.Item

	width  int
	height int

	next int // participant counter for generated keys
	err  error
}

func newDemoModel(ctrl *state.Controller) *demoModel {
	return &demoModel{ctrl: ctrl}
}

func (m *demoModel) Init() tea.Cmd {
	return nil
}

func (m *demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ctrl.SetViewport(
			float64(m.width)*cellPxWidth,
			float64(max(m.height-statusRows, 1))*cellPxHeight,
		)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "a":
			m.addParticipant()
		case "d":
			m.dropParticipant()
		case "m":
			m.toggleMode()
		case "s":
			m.toggleScreenShare()
		case "left":
			m.wheel(wheelStep, 0)
		case "right":
			m.wheel(-wheelStep, 0)
		case "up":
			m.wheel(0, wheelStep)
		case "down":
			m.wheel(0, -wheelStep)
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			m.doubleTap(int(msg.String()[0] - '1'))
		}
	}
	return m, nil
}

func (m *demoModel) addParticipant() {
	m.next++
	key := fmt.Sprintf("user-%d-%s", m.next, uuid.NewString()[:8])
	m.items = append(m.items, state.Item{Key: key})
	m.err = m.ctrl.SetItems(m.items)
}

func (m *demoModel) dropParticipant() {
	if len(m.items) == 0 {
		return
	}
	m.items = m.items[:len(m.items)-1]
	m.err = m.ctrl.SetItems(m.items)
}

func (m *demoModel) toggleMode() {
	mode := grid.ModeSpotlight
	if m.ctrl.Mode() == grid.ModeSpotlight {
		mode = grid.ModeFreedom
	}
	m.err = m.ctrl.SetUserMode(mode)
}

func (m *demoModel) toggleScreenShare() {
	if len(m.items) == 0 {
		return
	}
	m.items[0].Presenter = !m.items[0].Presenter
	m.err = m.ctrl.SetItems(m.items)
}

func (m *demoModel) wheel(dx, dy float64) {
	m.ctrl.Pointer(state.PointerEvent{Kind: state.PointerWheel, DX: dx, DY: dy})
}

// doubleTap sends two tap pairs at the center of the n-th tile.
func (m *demoModel) doubleTap(n int) {
	views := m.ctrl.Tiles()
	if n < 0 || n >= len(views) {
		return
	}
	x := views[n].Rect.X + views[n].Rect.Width/2
	y := views[n].Rect.Y + views[n].Rect.Height/2
	for i := 0; i < 2; i++ {
		m.ctrl.Pointer(state.PointerEvent{Kind: state.PointerDown, X: x, Y: y, Primary: true})
		m.ctrl.Pointer(state.PointerEvent{Kind: state.PointerUp, X: x, Y: y, Primary: true})
	}
}

func (m *demoModel) View() string {
	if m.width == 0 || m.height <= statusRows {
		return "loading..."
	}

	canvas := newCanvas(m.width, m.height-statusRows)
	for i, v := range m.ctrl.Tiles() {
		if v.Rect.ZIndex == 0 {
			m.drawTile(canvas, i, v)
		}
	}
	// Floating tiles paint over the base layer.
	for i, v := range m.ctrl.Tiles() {
		if v.Rect.ZIndex > 0 {
			m.drawTile(canvas, i, v)
		}
	}

	var b strings.Builder
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(canvas.String())
	b.WriteString(demoHintStyle.Render("a add · d drop · m mode · s share · 1-9 focus · arrows scroll · q quit"))
	return b.String()
}

func (m *demoModel) drawTile(c *canvas, index int, v state.TileView) {
	x := int(v.Rect.X / cellPxWidth)
	y := int(v.Rect.Y / cellPxHeight)
	w := int(v.Rect.Width / cellPxWidth)
	h := int(v.Rect.Height / cellPxHeight)

	label := fmt.Sprintf("%d %s", index+1, v.Key)
	if v.Presenter {
		label += " [share]"
	}
	if v.Focused {
		label = "* " + label
	}
	if v.PendingRemoval {
		label = "~ " + label
	}
	c.box(x, y, w, h, label, v.Focused)
}

func (m *demoModel) statusLine() string {
	line := demoHeaderStyle.Render(appName+" demo") +
		"  " + demoModeStyle.Render(string(m.ctrl.Mode())) +
		demoHintStyle.Render(fmt.Sprintf("  %d tiles", len(m.items)))
	if m.err != nil {
		line += "  " + StyleWarning.Render(m.err.Error())
	}
	return line
}

// =============================================================================
// Rune Canvas
// =============================================================================

// canvas is a rune buffer tiles are painted onto before rendering.
type canvas struct {
	w, h  int
	cells [][]rune
}

func newCanvas(w, h int) *canvas {
	cells := make([][]rune, h)
	for i := range cells {
		cells[i] = make([]rune, w)
		for j := range cells[i] {
			cells[i][j] = ' '
		}
	}
	return &canvas{w: w, h: h, cells: cells}
}

func (c *canvas) set(x, y int, r rune) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y][x] = r
}

// box paints a bordered rectangle with a centered label. Focused tiles get a
// double-line border.
func (c *canvas) box(x, y, w, h int, label string, focused bool) {
	if w < 2 || h < 2 {
		return
	}

	horiz, vert := '─', '│'
	tl, tr, bl, br := '┌', '┐', '└', '┘'
	if focused {
		horiz, vert = '═', '║'
		tl, tr, bl, br = '╔', '╗', '╚', '╝'
	}

	for i := 1; i < w-1; i++ {
		c.set(x+i, y, horiz)
		c.set(x+i, y+h-1, horiz)
	}
	for i := 1; i < h-1; i++ {
		c.set(x, y+i, vert)
		c.set(x+w-1, y+i, vert)
	}
	c.set(x, y, tl)
	c.set(x+w-1, y, tr)
	c.set(x, y+h-1, bl)
	c.set(x+w-1, y+h-1, br)

	// Blank the interior so overlapping tiles fully cover what is below.
	for row := 1; row < h-1; row++ {
		for col := 1; col < w-1; col++ {
			c.set(x+col, y+row, ' ')
		}
	}

	if len(label) > w-4 {
		label = label[:max(w-4, 0)]
	}
	lx := x + (w-len(label))/2
	ly := y + h/2
	for i, r := range label {
		c.set(lx+i, ly, r)
	}
}

func (c *canvas) String() string {
	var b strings.Builder
	for _, row := range c.cells {
		b.WriteString(string(row))
		b.WriteString("\n")
	}
	return b.String()
}
