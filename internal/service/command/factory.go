package command

import (
	"github.com/sandevgo/memybot/internal/core"
)

// Deps are what the built-in commands need. Reset may be nil when the
// transport keeps no history.
type Deps struct {
	PersonaName string
	Provider    string
	Model       ModelInfo
	Tools       core.ToolRegistry
	Reset       SessionResetter
}

func NewCommands(deps Deps) []core.Command {
	commands := []core.Command{
		NewStartCommand(deps.PersonaName),
		NewModelCommand(deps.Provider, deps.Model),
		NewToolsCommand(deps.Tools),
	}
	if deps.Reset != nil {
		commands = append(commands, NewResetCommand(deps.Reset))
	}
	return commands
}

// NewRouter builds a router over the built-in commands plus /help.
func NewRouter(deps Deps) *Router {
	r := New(NewCommands(deps))
	help := NewHelpCommand(r)
	r.commands[help.Name()] = help
	return r
}
