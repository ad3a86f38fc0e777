package shelltui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/shellkit/pkg/shellcmd"
)

// RunModel displays batch progress: a spinner per in-flight command, a
// progress bar, and a check or cross per finished command.
type RunModel struct {
	err               error
	startedCommands   []string
	completedCommands []string
	erroredCommands   []string
	spinner           spinner.Model
	progress          progress.Model
	totalCommands     int
	width             int
	height            int
	mu                sync.RWMutex
	done              bool
}

func NewRunModel() *RunModel {
	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	s := spinner.New()
	s.Style = spinnerStyle

	return &RunModel{
		startedCommands:   []string{},
		completedCommands: []string{},
		erroredCommands:   []string{},
		spinner:           s,
		progress:          p,
		mu:                sync.RWMutex{},
	}
}

func (m *RunModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.progress.SetPercent(0))
}

func finalPause() tea.Cmd {
	return tea.Tick(time.Millisecond*750, func(_ time.Time) tea.Msg {
		return nil
	})
}

//nolint:ireturn // Third-party.
func (m *RunModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.KeyMsg:
		if keyExits(msg) {
			return m, tea.Quit
		}

	case teaMsgWriteLog:
		return m, writeLog(msg, m.width)

	case shellcmd.EventSetTotal:
		m.mu.Lock()
		defer m.mu.Unlock()

		m.totalCommands = int(msg)

	case shellcmd.EventStarted:
		m.mu.Lock()
		defer m.mu.Unlock()

		m.startedCommands = append(m.startedCommands, string(msg))

	case shellcmd.EventFinished:
		m.mu.Lock()
		defer m.mu.Unlock()

		icon := checkMark
		if msg.Err != nil {
			m.erroredCommands = append(m.erroredCommands, msg.Name)
			icon = errorMark
		}

		m.completedCommands = append(m.completedCommands, msg.Name)
		completedCount := len(m.completedCommands)
		progressCmd := m.progress.SetPercent(float64(completedCount) / float64(m.totalCommands))

		if m.totalCommands == completedCount {
			m.done = true

			return m, tea.Sequence(
				tea.Printf("%s %s", icon, msg.Name),
				finalPause(),
				tea.Quit,
			)
		}

		return m, tea.Batch(
			progressCmd,
			tea.Printf("%s %s", icon, msg.Name),
		)

	case shellcmd.EventDone:
		m.mu.Lock()
		defer m.mu.Unlock()

		if msg.Err != nil {
			m.err = msg.Err
			m.done = true

			return m, teaQuit()
		}

		if !m.done {
			m.done = true

			return m, teaQuit()
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case progress.FrameMsg:
		newModel, cmd := m.progress.Update(msg)
		if newModel, ok := newModel.(progress.Model); ok {
			m.progress = newModel
		}

		return m, cmd

	case error:
		m.mu.Lock()
		defer m.mu.Unlock()

		m.err = msg

		return m, tea.Sequence(finalPause(), tea.Quit)
	}

	return m, nil
}

func (m *RunModel) View() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.err != nil {
		return getErrorMessage(m.err, m.width, m.totalCommands)
	}

	completedCount := len(m.completedCommands)

	if m.done {
		failedCount := len(m.erroredCommands)
		if failedCount > 0 {
			return doneStyle.Render(fmt.Sprintf("Done! %d of %d commands failed.\n", failedCount, completedCount))
		}

		return doneStyle.Render(fmt.Sprintf("Done! Ran %d commands.\n", completedCount))
	}

	w := lipgloss.Width(strconv.Itoa(m.totalCommands))
	commandCount := fmt.Sprintf(" %*d/%*d", w, completedCount, w, m.totalCommands)

	prog := m.progress.View()
	progRendered := progressStyle.Render(prog + commandCount)
	progCellsRemaining := max(0, m.width-lipgloss.Width(progRendered))
	gap := strings.Repeat(" ", progCellsRemaining)
	progOut := progRendered + gap + "\n"

	inProgressCommands := differenceStringSlices(m.startedCommands, m.completedCommands)

	spinners := []string{}
	for _, name := range inProgressCommands {
		spin := m.spinner.View() + " "
		cellsAvail := max(0, m.width-lipgloss.Width(spin))

		cmdName := currentNameStyle.Render(name)
		info := lipgloss.NewStyle().MaxWidth(cellsAvail).Render("Running " + cmdName)

		cellsRemaining := max(0, m.width-lipgloss.Width(spin+info))
		gap := strings.Repeat(" ", cellsRemaining)

		spinners = append(spinners, spin+info+gap)
	}

	return strings.Join(spinners, "\n") + "\n" + progOut
}

func differenceStringSlices(a, b []string) []string {
	difference := []string{}

	for _, x := range a {
		if !slices.Contains(b, x) {
			difference = append(difference, x)
		}
	}

	return difference
}
