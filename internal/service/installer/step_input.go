package installer

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type InputOptions struct {
	Key          string
	Title        string
	Placeholder  string
	DefaultValue string
	Secret       bool
	Required     bool
	// Skip, when set and true, passes over the step without asking.
	Skip     func(*InstallState) bool
	Validate func(string) error
}

// InputStep collects a single free-text value.
type InputStep struct {
	opts  InputOptions
	input textinput.Model
	err   error
}

func NewInputStep(opts InputOptions) Step {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 50
	ti.Placeholder = opts.Placeholder
	if opts.DefaultValue != "" {
		ti.Placeholder = opts.DefaultValue
	}
	if opts.Secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}

	return &InputStep{
		opts:  opts,
		input: ti,
	}
}

func (s *InputStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *InputStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.opts.Skip != nil && s.opts.Skip(state) {
		return nil, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		value := strings.TrimSpace(s.input.Value())
		if value == "" {
			value = s.opts.DefaultValue
		}

		if value == "" && s.opts.Required {
			s.err = fmt.Errorf("a value is required")
			return s, nil
		}
		if value != "" && s.opts.Validate != nil {
			if err := s.opts.Validate(value); err != nil {
				s.err = err
				return s, nil
			}
		}

		state.Set(s.opts.Key, value)
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if _, ok := msg.(tea.KeyMsg); ok {
		s.err = nil
	}
	return s, cmd
}

func (s *InputStep) View(state *InstallState) string {
	hint := "(press enter to confirm)"
	switch {
	case s.opts.DefaultValue != "":
		hint = fmt.Sprintf("(press enter to use %s)", s.opts.DefaultValue)
	case !s.opts.Required:
		hint = "(optional, press enter to skip)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n\n%s\n\n", s.opts.Title, s.input.View())
	if s.err != nil {
		b.WriteString(errorStyle.Render(s.err.Error()) + "\n\n")
	}
	b.WriteString(hintStyle.Render(hint) + "\n")
	return b.String()
}

func fileExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}
