package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"strsym/internal/driver"
)

// unitState is the display state of one unit of a batch.
type unitState uint8

const (
	stateQueued unitState = iota
	stateActive
	stateDone
	stateCached
	stateFailed
)

func (s unitState) final() bool { return s >= stateDone }

// stageWeight is the share of a unit's work finished when stage starts.
var stageWeight = map[driver.Stage]float64{
	driver.StageScan:     0.3,
	driver.StageAssemble: 0.7,
	driver.StageWrite:    0.9,
}

var stageVerb = map[driver.Stage]string{
	driver.StageLoad:     "loading",
	driver.StageScan:     "scanning",
	driver.StageAssemble: "assembling",
	driver.StageWrite:    "writing",
}

var (
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	styleQueued = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleActive = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	styleDone   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleCached = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	styleFailed = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

type unitRow struct {
	path    string
	state   unitState
	stage   driver.Stage
	symbols int
	elapsed time.Duration
	err     error
}

// label is the status column of the row.
func (r *unitRow) label() string {
	switch r.state {
	case stateActive:
		return stageVerb[r.stage]
	case stateDone:
		return "done"
	case stateCached:
		return "cached"
	case stateFailed:
		return "error"
	}
	return "queued"
}

func (r *unitRow) style() lipgloss.Style {
	switch r.state {
	case stateActive:
		return styleActive
	case stateDone:
		return styleDone
	case stateCached:
		return styleCached
	case stateFailed:
		return styleFailed
	}
	return styleQueued
}

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []unitRow
	index   map[string]int
	width   int
	height  int
	done    bool
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders batch progress:
// counters in the header, one row per unit and an overall bar. When the
// terminal is short, failed and active units keep their rows and finished
// ones are folded into a summary line. The model quits once events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styleActive

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	rows := make([]unitRow, len(files))
	index := make(map[string]int, len(files))
	for i, file := range files {
		rows[i] = unitRow{path: file, stage: driver.StageLoad}
		index[file] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		rows:    rows,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(driver.Event(msg)), m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
		m.height = msg.Height
		return m, nil
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	idx, ok := m.index[ev.File]
	if !ok {
		return nil
	}
	row := &m.rows[idx]
	row.stage = ev.Stage
	switch ev.Status {
	case driver.StatusQueued:
		row.state = stateQueued
	case driver.StatusWorking:
		row.state = stateActive
	case driver.StatusDone:
		row.state = stateDone
	case driver.StatusCached:
		row.state = stateCached
	case driver.StatusError:
		row.state = stateFailed
	}
	if ev.Status == driver.StatusDone || ev.Status == driver.StatusCached {
		row.symbols = ev.Symbols
	}
	if ev.Elapsed > 0 {
		row.elapsed = ev.Elapsed
	}
	if ev.Err != nil {
		row.err = ev.Err
	}
	return m.bar.SetPercent(m.percent())
}

// percent: доля завершённой работы по всем файлам.
func (m *progressModel) percent() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	total := 0.0
	for i := range m.rows {
		if m.rows[i].state.final() {
			total++
		} else {
			total += stageWeight[m.rows[i].stage]
		}
	}
	return total / float64(len(m.rows))
}

// counts returns finished, failed and cached units.
func (m *progressModel) counts() (finished, failed, cached int) {
	for i := range m.rows {
		switch m.rows[i].state {
		case stateFailed:
			failed++
		case stateCached:
			cached++
		}
		if m.rows[i].state.final() {
			finished++
		}
	}
	return finished, failed, cached
}

func (m *progressModel) header() string {
	finished, failed, cached := m.counts()
	h := fmt.Sprintf("%s  %d/%d", m.title, finished, len(m.rows))
	if failed > 0 {
		h += fmt.Sprintf(" · %d failed", failed)
	}
	if cached > 0 {
		h += fmt.Sprintf(" · %d cached", cached)
	}
	if m.done {
		return "done: " + h
	}
	return m.spinner.View() + " " + h
}

// visibleRows picks the rows that fit budget lines. Failed and active rows
// come first, then queued ones; the rest is reported as hidden.
func (m *progressModel) visibleRows(budget int) (shown []int, hidden int) {
	if budget <= 0 || budget >= len(m.rows) {
		shown = make([]int, len(m.rows))
		for i := range shown {
			shown[i] = i
		}
		return shown, 0
	}
	for _, want := range []unitState{stateFailed, stateActive, stateQueued} {
		for i := range m.rows {
			if len(shown) == budget {
				break
			}
			if m.rows[i].state == want {
				shown = append(shown, i)
			}
		}
	}
	hidden = len(m.rows) - len(shown)
	// порядок строк должен совпадать с порядком файлов
	for i := 1; i < len(shown); i++ {
		for j := i; j > 0 && shown[j] < shown[j-1]; j-- {
			shown[j], shown[j-1] = shown[j-1], shown[j]
		}
	}
	return shown, hidden
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(styleTitle.Render(m.header()))
	b.WriteString("\n\n")

	nameWidth := max(m.width-32, 20)
	budget := 0
	if m.height > 0 {
		// заголовок, пустые строки, полоса и строка со сводкой
		budget = max(m.height-6, 1)
	}
	shown, hidden := m.visibleRows(budget)
	for _, i := range shown {
		row := &m.rows[i]
		fmt.Fprintf(&b, "  %s %s", row.style().Render(fmt.Sprintf("%10s", row.label())), truncate(row.path, nameWidth))
		if row.state == stateDone || row.state == stateCached {
			fmt.Fprintf(&b, "  %d symbols", row.symbols)
			if row.elapsed > 0 {
				fmt.Fprintf(&b, "  %s", row.elapsed.Round(time.Millisecond))
			}
		}
		b.WriteString("\n")
		if row.err != nil {
			b.WriteString(styleFailed.Render("             " + truncate(row.err.Error(), nameWidth)))
			b.WriteString("\n")
		}
	}
	if hidden > 0 {
		fmt.Fprintf(&b, "  … %d more units\n", hidden)
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1.0))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
