package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/controller"
	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/pipeline"
	"github.com/matzehuels/wordcloud/pkg/screen"
)

// Viewer styles
var (
	wordLargeStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	wordMediumStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	wordSmallStyle    = lipgloss.NewStyle().Foreground(colorGray)
	wordSelectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	footerStyle       = lipgloss.NewStyle().Foreground(colorDim)
	frameStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
)

// chromeRows is the number of terminal rows used by the frame and status lines.
const chromeRows = 5

// =============================================================================
// Grid - Words on a terminal cell grid
// =============================================================================

// grid is a word cloud rasterized onto terminal cells. owner holds the index
// of the word covering each cell, or -1.
type grid struct {
	cols, rows int
	cells      [][]rune
	owner      [][]int
}

// newGrid places words onto a cols×rows grid. Each word is centered on the
// cell its layout position maps to. Cells already taken keep their first
// word, so earlier (larger) words win.
func newGrid(words []cloud.PlacedWord, layoutWidth, layoutHeight float64, cols, rows int) grid {
	g := grid{cols: cols, rows: rows, cells: make([][]rune, rows), owner: make([][]int, rows)}
	for r := range rows {
		g.cells[r] = []rune(strings.Repeat(" ", cols))
		g.owner[r] = make([]int, cols)
		for c := range g.owner[r] {
			g.owner[r][c] = -1
		}
	}

	surface := screen.Size{Width: float64(cols), Height: float64(rows)}
	for i := range words {
		col, row := wordCell(&words[i], surface, layoutWidth, layoutHeight)
		if row < 0 || row >= rows {
			continue
		}
		text := []rune(words[i].Text)
		start := col - len(text)/2
		for j, ch := range text {
			c := start + j
			if c < 0 || c >= cols || g.owner[row][c] >= 0 {
				continue
			}
			g.cells[row][c] = ch
			g.owner[row][c] = i
		}
	}
	return g
}

// wordCell maps w onto a one-cell-per-unit surface.
func wordCell(w *cloud.PlacedWord, surface screen.Surface, layoutWidth, layoutHeight float64) (col, row int) {
	return screen.Cell(screen.MapToScreen(w, surface, layoutWidth, layoutHeight), 1, 1)
}

// lines returns the grid as unstyled text.
func (g grid) lines() []string {
	out := make([]string, g.rows)
	for r, row := range g.cells {
		out[r] = string(row)
	}
	return out
}

// render styles each run of cells by the word that owns it.
func (g grid) render(style func(owner int) lipgloss.Style) string {
	var b strings.Builder
	for r := range g.rows {
		if r > 0 {
			b.WriteByte('\n')
		}
		start := 0
		for c := 1; c <= g.cols; c++ {
			if c < g.cols && g.owner[r][c] == g.owner[r][start] {
				continue
			}
			run := string(g.cells[r][start:c])
			if o := g.owner[r][start]; o >= 0 {
				run = style(o).Render(run)
			}
			b.WriteString(run)
			start = c
		}
	}
	return b.String()
}

// =============================================================================
// watchModel - Live layout viewer
// =============================================================================

type tickMsg time.Time

// watchModel is the bubbletea model for the watch command.
type watchModel struct {
	ctrl *controller.Controller
	load func() (pipeline.Options, error)

	path    string
	modTime time.Time
	opts    pipeline.Options
	offload bool

	state    controller.State
	selected int
	cols     int
	rows     int
	loadErr  error
}

func newWatchModel(ctrl *controller.Controller, opts pipeline.Options, load func() (pipeline.Options, error)) watchModel {
	return watchModel{
		ctrl:     ctrl,
		load:     load,
		opts:     opts,
		selected: -1,
		cols:     80,
		rows:     24 - chromeRows,
	}
}

// submit hands the current options to the controller.
func (m *watchModel) submit() {
	if _, err := m.ctrl.Submit(m.opts.Config()); err != nil {
		m.loadErr = err
	}
}

// reload re-reads the cloud file when its modification time changed.
func (m *watchModel) reload() {
	info, err := os.Stat(m.path)
	if err != nil || !info.ModTime().After(m.modTime) {
		return
	}
	m.modTime = info.ModTime()

	opts, err := m.load()
	if err != nil {
		m.loadErr = err
		return
	}
	// Keep view adjustments made with keys.
	opts.Seed = m.opts.Seed
	opts.Width, opts.Height = m.opts.Width, m.opts.Height
	m.opts = opts
	m.loadErr = nil
	m.selected = -1
	m.submit()
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m watchModel) Init() tea.Cmd {
	return tick()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.state = m.ctrl.State()
		if m.selected >= len(m.state.Words) {
			m.selected = -1
		}
		m.reload()
		return m, tick()
	case tea.WindowSizeMsg:
		m.cols = max(msg.Width-2, 10)
		m.rows = max(msg.Height-chromeRows, 3)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "s":
			m.opts.Seed++
			m.submit()
		case "+", "=":
			m.opts.Width *= 1.25
			m.opts.Height *= 1.25
			m.submit()
		case "-":
			m.opts.Width /= 1.25
			m.opts.Height /= 1.25
			m.submit()
		case "o":
			m.offload = !m.offload
			if err := m.ctrl.SetOffload(m.offload); err != nil {
				m.loadErr = err
			}
		case "tab", "right", "l":
			if n := len(m.state.Words); n > 0 {
				m.selected = (m.selected + 1) % n
			}
		case "shift+tab", "left", "h":
			if n := len(m.state.Words); n > 0 {
				m.selected = (m.selected - 1 + n) % n
			}
		}
	}
	return m, nil
}

func (m watchModel) View() string {
	lw, lh := m.layoutSize()
	g := newGrid(m.state.Words, lw, lh, m.cols, m.rows)
	maxSize := 0.0
	for _, w := range m.state.Words {
		maxSize = max(maxSize, w.Size)
	}
	cloudView := g.render(func(i int) lipgloss.Style {
		if i == m.selected {
			return wordSelectedStyle
		}
		return sizeStyle(m.state.Words[i].Size, maxSize)
	})

	var b strings.Builder
	b.WriteString(StyleTitle.Render(appName+" watch") + "  " + footerStyle.Render(m.path))
	b.WriteString("\n")
	b.WriteString(frameStyle.Render(cloudView))
	b.WriteString("\n")
	b.WriteString(m.status())
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("s seed  +/- size  o offload  tab select  q quit"))
	return b.String()
}

// layoutSize is the canvas the visible words were placed on. It differs from
// the options while a resized layout is still computing.
func (m watchModel) layoutSize() (float64, float64) {
	if m.state.LayoutWidth > 0 && m.state.LayoutHeight > 0 {
		return m.state.LayoutWidth, m.state.LayoutHeight
	}
	return m.opts.Width, m.opts.Height
}

// status describes the controller state and the selected word.
func (m watchModel) status() string {
	switch {
	case m.loadErr != nil:
		return styleIconError.Render(iconError) + " " + errors.UserMessage(m.loadErr)
	case m.state.Err != nil:
		return styleIconError.Render(iconError) + " " + errors.UserMessage(m.state.Err)
	}

	mode := "local"
	if m.state.Offloaded {
		mode = "offloaded"
	}
	line := fmt.Sprintf("%d/%d words  seed %d  %gx%g  %s",
		len(m.state.Words), len(m.opts.Words), m.opts.Seed, m.opts.Width, m.opts.Height, mode)
	if m.state.Loading {
		line = styleIconSpinner.Render("…") + " " + line
	} else {
		line = styleIconSuccess.Render(iconSuccess) + " " + line
	}

	if m.selected >= 0 && m.selected < len(m.state.Words) {
		w := &m.state.Words[m.selected]
		lw, lh := m.layoutSize()
		col, row := wordCell(w, screen.Size{Width: float64(m.cols), Height: float64(m.rows)}, lw, lh)
		line += "  " + StyleHighlight.Render(fmt.Sprintf("%s %s (%g) size %g at %d,%d",
			iconArrow, w.Text, w.Value, w.Size, col, row))
	}
	return footerStyle.Render(line)
}

// sizeStyle picks a style by a word's size relative to the largest word.
func sizeStyle(size, maxSize float64) lipgloss.Style {
	if maxSize <= 0 {
		return wordSmallStyle
	}
	switch r := size / maxSize; {
	case r >= 0.6:
		return wordLargeStyle
	case r >= 0.3:
		return wordMediumStyle
	default:
		return wordSmallStyle
	}
}
