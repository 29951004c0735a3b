package prompt

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ErrInterrupted is returned when the operator bails out of a prompt
// with ctrl+c instead of answering it.
var ErrInterrupted = errors.New("prompt interrupted")

var (
	descStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)

// TUI is the terminal Prompter.
type TUI struct{}

// NewTUI fails fast when stdin is not a terminal; the checkup flow is
// interactive by nature and has no scripted mode.
func NewTUI() (*TUI, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return nil, errors.New("interactive checkup requires a terminal (TTY)")
	}
	return &TUI{}, nil
}

func (t *TUI) SelectOne(desc string, options []Option, defaultKey string) (string, error) {
	if len(options) < 2 {
		return "", fmt.Errorf("selection needs at least 2 options, got %d", len(options))
	}
	cursor := findOption(options, defaultKey)
	if cursor < 0 {
		cursor = 0
	}
	m := selectModel{desc: desc, options: options, cursor: cursor, defaultKey: defaultKey}
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return "", fmt.Errorf("selection prompt: %w", err)
	}
	fm := final.(selectModel)
	if fm.interrupted {
		return "", ErrInterrupted
	}
	return fm.chosen, nil
}

func (t *TUI) NumberInRange(desc string, min, max float64, def float64, hasDefault, allowFloat bool) (float64, error) {
	in := textinput.New()
	in.Placeholder = rangePlaceholder(min, max, def, hasDefault)
	in.Focus()
	in.CharLimit = 16
	in.Width = 20

	m := numberModel{
		desc:       desc,
		input:      in,
		min:        min,
		max:        max,
		def:        def,
		hasDefault: hasDefault,
		allowFloat: allowFloat,
	}
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return 0, fmt.Errorf("number prompt: %w", err)
	}
	fm := final.(numberModel)
	if fm.interrupted {
		return 0, ErrInterrupted
	}
	return fm.value, nil
}

func (t *TUI) Text(desc, def string) (string, error) {
	in := textinput.New()
	in.Placeholder = def
	in.Focus()
	in.Width = 60

	m := textModel{desc: desc, input: in, def: def}
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return "", fmt.Errorf("text prompt: %w", err)
	}
	fm := final.(textModel)
	if fm.interrupted {
		return "", ErrInterrupted
	}
	return fm.value, nil
}

type selectModel struct {
	desc        string
	options     []Option
	cursor      int
	defaultKey  string
	chosen      string
	done        bool
	interrupted bool
}

func (m selectModel) Init() tea.Cmd { return nil }

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c":
		m.interrupted = true
		m.done = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case "enter":
		m.chosen = m.options[m.cursor].Key
		m.done = true
		return m, tea.Quit
	case "esc":
		// esc takes the default, mirroring an empty line-input.
		if m.defaultKey != "" {
			m.chosen = m.defaultKey
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m selectModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	if m.desc != "" {
		b.WriteString(descStyle.Render(m.desc))
		b.WriteString("\n")
	}
	for i, o := range m.options {
		line := fmt.Sprintf("  %s  %s", o.Key, o.Label)
		if o.Key == m.defaultKey {
			line += mutedStyle.Render("  (default)")
		}
		if i == m.cursor {
			line = selectedStyle.Render(">" + line[1:])
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render("enter select · esc default · ctrl+c abort"))
	b.WriteString("\n")
	return b.String()
}

type numberModel struct {
	desc        string
	input       textinput.Model
	min         float64
	max         float64
	def         float64
	hasDefault  bool
	allowFloat  bool
	value       float64
	errText     string
	done        bool
	interrupted bool
}

func (m numberModel) Init() tea.Cmd { return textinput.Blink }

func (m numberModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c":
			m.interrupted = true
			m.done = true
			return m, tea.Quit
		case "enter":
			v, err := parseNumber(m.input.Value(), m.min, m.max, m.def, m.hasDefault, m.allowFloat)
			if err != nil {
				m.errText = err.Error()
				m.input.SetValue("")
				return m, nil
			}
			m.value = v
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m numberModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	if m.desc != "" {
		b.WriteString(descStyle.Render(m.desc))
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.errText != "" {
		b.WriteString(errorStyle.Render("[ERROR] ") + m.errText)
		b.WriteString("\n")
	}
	return b.String()
}

type textModel struct {
	desc        string
	input       textinput.Model
	def         string
	value       string
	done        bool
	interrupted bool
}

func (m textModel) Init() tea.Cmd { return textinput.Blink }

func (m textModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c":
			m.interrupted = true
			m.done = true
			return m, tea.Quit
		case "enter":
			v := strings.TrimSpace(m.input.Value())
			if v == "" {
				v = m.def
			}
			m.value = v
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m textModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	if m.desc != "" {
		b.WriteString(descStyle.Render(m.desc))
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	return b.String()
}

func rangePlaceholder(min, max, def float64, hasDefault bool) string {
	if hasDefault {
		return fmt.Sprintf("[%g,%g] default=%g", min, max, def)
	}
	return fmt.Sprintf("[%g,%g]", min, max)
}
