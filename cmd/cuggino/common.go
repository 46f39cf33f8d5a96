package main

import (
	"os"

	"github.com/cuggino/cuggino/internal/agent"
	"github.com/cuggino/cuggino/internal/events"
	"github.com/cuggino/cuggino/internal/storage"
)

// workspace opens (creating if absent) the Storage rooted at the current
// working directory, the way every subcommand here operates: cuggino is
// always run from inside the project it supervises.
func workspace() (*storage.Storage, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return storage.New(cwd)
}

// resolveAgent maps the --agent flag (or configured default) to a
// concrete Adapter for one of the two supported CLI dialects.
func resolveAgent(name string) agent.Adapter {
	switch name {
	case "codex":
		return agent.New(agent.BackendB, "codex")
	case "opencode":
		return agent.New(agent.BackendA, "opencode")
	default:
		return agent.New(agent.BackendA, "claude")
	}
}

// renderAll drains out, rendering every event to stderr, until out closes.
func renderAll(out <-chan events.Event) {
	for e := range out {
		events.Render(os.Stderr, e)
	}
}
