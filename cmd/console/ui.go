package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/nsharkey/classquest/pkg/game"
)

type uiState int

const (
	stateGenerating uiState = iota
	statePlaying
	stateAnswered
	stateFinished
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			MarginBottom(1)

	codeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("228"))

	optionStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	correctStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(lipgloss.Color("42")).
			Bold(true)

	wrongStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(lipgloss.Color("196"))

	explanationStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				MarginTop(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)
)

// ConsoleUI is the BubbleTea model that runs a host-led play-through of
// one generated game. The game lives in memory for the session only.
type ConsoleUI struct {
	config  *ConsoleConfig
	client  *http.Client
	content string

	state    uiState
	spinner  spinner.Model
	viewport viewport.Model
	ready    bool
	width    int
	height   int

	game     *game.GameData
	err      error
	index    int
	selected int
	score    int
	copied   bool
}

type gameGeneratedMsg struct {
	game *game.GameData
	err  error
}

// NewConsoleUI creates the UI in its generating state.
func NewConsoleUI(cfg *ConsoleConfig, client *http.Client, content string) *ConsoleUI {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))

	return &ConsoleUI{
		config:   cfg,
		client:   client,
		content:  content,
		state:    stateGenerating,
		spinner:  s,
		selected: -1,
	}
}

func (m *ConsoleUI) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.generateCmd())
}

func (m *ConsoleUI) generateCmd() tea.Cmd {
	return func() tea.Msg {
		gd, err := generateGame(m.client, m.config.APIBaseURL, m.config, m.content)
		return gameGeneratedMsg{game: gd, err: err}
	}
}

func (m *ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = msg.Height - 6
		}
		m.refreshViewport()
		return m, nil

	case spinner.TickMsg:
		if m.state != stateGenerating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case gameGeneratedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.game = msg.game
		m.state = statePlaying
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *ConsoleUI) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "c":
		if m.game != nil {
			if err := clipboard.WriteAll(m.game.Code); err == nil {
				m.copied = true
				m.refreshViewport()
			}
		}
		return m, nil

	case "1", "2", "3", "4":
		if m.state != statePlaying {
			return m, nil
		}
		m.selected = int(msg.String()[0] - '1')
		q := m.game.Questions[m.index]
		if m.selected == q.CorrectIndex {
			m.score++
		}
		m.state = stateAnswered
		m.refreshViewport()
		return m, nil

	case "n", "enter":
		if m.state != stateAnswered {
			return m, nil
		}
		if m.index+1 >= len(m.game.Questions) {
			m.state = stateFinished
		} else {
			m.index++
			m.selected = -1
			m.state = statePlaying
		}
		m.refreshViewport()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *ConsoleUI) refreshViewport() {
	if !m.ready || m.game == nil {
		return
	}
	m.viewport.SetContent(m.renderContent())
}

func (m *ConsoleUI) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n", m.err)
	}

	if m.state == stateGenerating {
		return fmt.Sprintf("\n  %s Creating your game... this can take a minute on large material.\n\n  Press q to give up.\n", m.spinner.View())
	}

	if !m.ready {
		return "\n  Loading..."
	}

	header := titleStyle.Render(m.game.Title) + "  " + codeStyle.Render("["+m.game.Code+"]")
	if m.copied {
		header += helpStyle.Render("  code copied!")
	}

	return fmt.Sprintf("%s\n%s\n%s", header, m.viewport.View(), m.helpLine())
}

func (m *ConsoleUI) helpLine() string {
	switch m.state {
	case statePlaying:
		return helpStyle.Render("1-4: answer  -  c: copy code  -  q: quit")
	case stateAnswered:
		return helpStyle.Render("n: next question  -  c: copy code  -  q: quit")
	default:
		return helpStyle.Render("q: quit")
	}
}

func (m *ConsoleUI) renderContent() string {
	var sb strings.Builder
	width := m.viewport.Width

	if m.state == stateFinished {
		sb.WriteString(fmt.Sprintf("Game over! You scored %d out of %d.\n\n", m.score, len(m.game.Questions)))
		sb.WriteString(wordwrap.String(m.game.Description, width))
		sb.WriteString("\n\nShare the game code with your class: " + codeStyle.Render(m.game.Code) + "\n")
		return sb.String()
	}

	q := m.game.Questions[m.index]
	sb.WriteString(fmt.Sprintf("Question %d of %d", m.index+1, len(m.game.Questions)))
	if q.Concept != "" {
		sb.WriteString(helpStyle.Render("  (" + q.Concept + ")"))
	}
	sb.WriteString("\n\n")
	sb.WriteString(wordwrap.String(q.Prompt, width))
	sb.WriteString("\n\n")

	for i, opt := range q.Options {
		line := fmt.Sprintf("%d. %s", i+1, opt)
		switch {
		case m.state == stateAnswered && i == q.CorrectIndex:
			sb.WriteString(correctStyle.Render(wordwrap.String(line, width-4)))
		case m.state == stateAnswered && i == m.selected:
			sb.WriteString(wrongStyle.Render(wordwrap.String(line, width-4)))
		default:
			sb.WriteString(optionStyle.Render(wordwrap.String(line, width-4)))
		}
		sb.WriteString("\n")
	}

	if m.state == stateAnswered {
		if m.selected == q.CorrectIndex {
			sb.WriteString(correctStyle.Render("\nCorrect!"))
		} else {
			sb.WriteString(wrongStyle.Render("\nNot quite."))
		}
		sb.WriteString(explanationStyle.Render("\n" + wordwrap.String(q.Explanation, width)))
		if q.Misconception != "" && m.selected != q.CorrectIndex {
			sb.WriteString(explanationStyle.Render("\n" + wordwrap.String("Watch out: "+q.Misconception, width)))
		}
	}

	return sb.String()
}
