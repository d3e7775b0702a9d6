// Package terminal implements the simulated shell: a fixed command-to-string
// lookup with no real shell semantics.
package terminal

import (
	"strings"

	"github.com/virtuallab/portal/core"
)

// Result of running one command. Clear tells the client to wipe its
// scrollback instead of printing output.
type Result struct {
	Output string `json:"output"`
	Clear  bool   `json:"clear"`
}

var commands = map[string]string{
	"help":  "Available commands: help, clear, about",
	"about": "Virtual Lab Portal - simulated Linux shell",
}

// Run executes a single command line. Unknown commands echo a not-found
// message; there is no state, parsing or piping.
func Run(input string) Result {
	cmd := core.CleanString(input, true /* lower */)
	if cmd == "clear" {
		return Result{Clear: true}
	}
	if out, ok := commands[cmd]; ok {
		return Result{Output: out}
	}
	return Result{Output: "Command not found: " + strings.TrimSpace(input)}
}
