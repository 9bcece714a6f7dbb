package main

import (
	"github.com/sandevgo/memybot/internal/service/command"
	"github.com/sandevgo/memybot/internal/transport/cli"
)

func newCLIRouter(d *chatDeps, history *cli.MemoryHistory) *command.Router {
	return command.NewRouter(d.commandDeps(history))
}
