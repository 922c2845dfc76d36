package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"xymaker/internal/aligner"
	"xymaker/internal/types"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type state int

const (
	stateDatasetPicker state = iota
	stateTargetPicker
	stateColumnSelection
	stateProcessing
	stateComplete
	stateError
)

type Model struct {
	state         state
	filepicker    filepicker.Model
	datasetFile   string
	targetFile    string
	labelColumns  []string
	cursor        int
	keepUnmatched bool
	result        *types.AlignResult
	err           error
	width         int
	height        int
	progress      progress.Model
	progressChan  chan float64
	resultChan    chan alignResultMsg
}

type alignResultMsg struct {
	result *types.AlignResult
	err    error
}

type columnsLoadedMsg struct {
	columns []string
	err     error
}

type alignCompleteMsg struct {
	result *types.AlignResult
	err    error
}

type progressMsg float64

type waitForProgressMsg struct{}

func InitialModel() Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".csv", ".xlsx"}
	fp.CurrentDirectory, _ = os.Getwd()

	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(lipgloss.Color("#4DA8DA"))
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(lipgloss.Color("#80D8FF"))
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(lipgloss.Color("#80D8FF"))
	fp.Styles.File = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(lipgloss.Color("#4DA8DA")).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	prog := progress.New(progress.WithGradient("#4DA8DA", "#80D8FF"))

	return Model{
		state:      stateDatasetPicker,
		filepicker: fp,
		progress:   prog,
	}
}

func (m Model) Init() tea.Cmd {
	return m.filepicker.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Leave room for title, subtitle, and help text
		height := msg.Height - 14
		if height < 5 {
			height = 5
		}
		m.filepicker.SetHeight(height)

		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateDatasetPicker, stateTargetPicker:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			}

		case stateColumnSelection:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "up", "k":
				if m.cursor > 0 {
					m.cursor--
				}
			case "down", "j":
				if m.cursor < len(m.labelColumns)-1 {
					m.cursor++
				}
			case "u":
				m.keepUnmatched = !m.keepUnmatched
			case "enter":
				m.state = stateProcessing
				return m.alignFiles()
			}

		case stateComplete, stateError:
			switch msg.String() {
			case "ctrl+c", "q", "enter", "esc":
				return m, tea.Quit
			}
		}

	case columnsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.labelColumns = msg.columns
		m.state = stateColumnSelection
		return m, nil

	case alignCompleteMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.result = msg.result
		m.state = stateComplete
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case progressMsg:
		if m.state == stateProcessing {
			cmd := m.progress.SetPercent(float64(msg))
			return m, tea.Batch(cmd, waitForProgress(m.progressChan, m.resultChan))
		}
		return m, nil

	case waitForProgressMsg:
		return m, waitForProgress(m.progressChan, m.resultChan)
	}

	// Handle filepicker updates
	if m.state == stateDatasetPicker || m.state == stateTargetPicker {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			if m.state == stateDatasetPicker {
				m.datasetFile = path
				m.state = stateTargetPicker
				return m, cmd
			}
			m.targetFile = path
			return m, m.loadColumns(path)
		}

		return m, cmd
	}

	return m, nil
}

// loadColumns reads the target file and presents its first row as the column
// choices. The tool performs no header detection, so the first row stands in
// for the column names whether or not it is a real header.
func (m Model) loadColumns(path string) tea.Cmd {
	return func() tea.Msg {
		rows, err := aligner.ReadTable(path, ',')
		if err != nil {
			return columnsLoadedMsg{err: err}
		}
		if len(rows) == 0 || len(rows[0]) == 0 {
			return columnsLoadedMsg{err: fmt.Errorf("target file %s has no rows", filepath.Base(path))}
		}
		return columnsLoadedMsg{columns: rows[0]}
	}
}

func (m Model) alignFiles() (Model, tea.Cmd) {
	m.progressChan = make(chan float64, 100)
	m.resultChan = make(chan alignResultMsg, 1)

	opts := aligner.Options{
		FeaturesFile:  m.datasetFile,
		LabelsFile:    m.targetFile,
		Column:        m.cursor + 1,
		KeepUnmatched: m.keepUnmatched,
		XFile:         "x.csv",
		YFile:         "y.csv",
		Delimiter:     ',',
	}

	// Capture channels for the goroutine
	progressChan := m.progressChan
	resultChan := m.resultChan

	cmd := tea.Batch(
		func() tea.Msg {
			go func() {
				result, err := aligner.Run(opts, progressChan)
				resultChan <- alignResultMsg{result: result, err: err}

				close(progressChan)
				close(resultChan)
			}()

			return waitForProgressMsg{}
		},
		waitForProgress(m.progressChan, m.resultChan),
		m.progress.Init(),
	)

	return m, cmd
}

func waitForProgress(progressChan chan float64, resultChan chan alignResultMsg) tea.Cmd {
	return func() tea.Msg {
		if progressChan == nil {
			return nil
		}

		p, ok := <-progressChan
		if !ok {
			// Progress channel closed, check result
			res, ok := <-resultChan
			if ok {
				return alignCompleteMsg(res)
			}
			return nil
		}

		return progressMsg(p)
	}
}

func (m Model) View() string {
	switch m.state {
	case stateDatasetPicker, stateTargetPicker:
		return m.viewFilePicker()
	case stateColumnSelection:
		return m.viewColumnSelection()
	case stateProcessing:
		return m.viewProcessing()
	case stateComplete:
		return m.viewComplete()
	case stateError:
		return m.viewError()
	}
	return ""
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("XY Maker - Aligned X/Y Dataset Builder"))
	s.WriteString("\n")
	if m.state == stateDatasetPicker {
		s.WriteString(SubtitleStyle.Render("Select the dataset (features) file"))
	} else {
		s.WriteString(SubtitleStyle.Render(fmt.Sprintf("Dataset: %s", filepath.Base(m.datasetFile))))
		s.WriteString("\n")
		s.WriteString(SubtitleStyle.Render("Select the target (labels) file"))
	}
	s.WriteString("\n\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press q to quit"))

	return s.String()
}

func (m Model) viewColumnSelection() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Select the Label Column"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("Target: %s", filepath.Base(m.targetFile))))
	s.WriteString("\n\n")

	for i, name := range m.labelColumns {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}

		line := fmt.Sprintf("%s %d: %s", cursor, i+1, name)
		if i == 0 {
			line += " (identifier column)"
		}

		if m.cursor == i {
			line = SelectedStyle.Render(line)
		} else {
			line = UnselectedStyle.Render(line)
		}

		s.WriteString(line)
		s.WriteString("\n")
	}

	s.WriteString("\n")

	keepStatus := "[ ]"
	if m.keepUnmatched {
		keepStatus = "[x]"
	}
	s.WriteString(fmt.Sprintf("Keep unmatched rows (empty label): %s\n", keepStatus))
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("↑/↓: navigate • u: keep unmatched • enter: align • q: quit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewProcessing() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Processing..."))
	s.WriteString("\n\n")
	s.WriteString("Matching dataset rows to target labels...")
	s.WriteString("\n\n")
	s.WriteString(m.progress.View())

	return BoxStyle.Render(s.String())
}

func (m Model) viewComplete() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("✓ Alignment Complete!"))
	s.WriteString("\n\n")

	// Truncate paths if they're too long
	maxPathLen := m.width - 20
	if maxPathLen < 30 {
		maxPathLen = 30
	}

	datasetPath := m.result.FeaturesFile
	if len(datasetPath) > maxPathLen {
		datasetPath = "..." + datasetPath[len(datasetPath)-maxPathLen+3:]
	}

	targetPath := m.result.LabelsFile
	if len(targetPath) > maxPathLen {
		targetPath = "..." + targetPath[len(targetPath)-maxPathLen+3:]
	}

	s.WriteString(fmt.Sprintf("Dataset: %s\n", datasetPath))
	s.WriteString(fmt.Sprintf("Target:  %s (column %d)\n", targetPath, m.result.Column))
	s.WriteString(SuccessStyle.Render(fmt.Sprintf("Output:  %s, %s\n", m.result.XFile, m.result.YFile)))
	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("Records matched: %d\n", m.result.Matched))
	s.WriteString(fmt.Sprintf("Records not matched: %d\n", m.result.Unmatched))
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewError() string {
	var s strings.Builder

	s.WriteString(ErrorStyle.Render("✗ Error"))
	s.WriteString("\n\n")
	s.WriteString(m.err.Error())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}
