package terminal

import "testing"

func TestRun(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Result
	}{
		{name: "help", input: "help", want: Result{Output: "Available commands: help, clear, about"}},
		{name: "about", input: "about", want: Result{Output: "Virtual Lab Portal - simulated Linux shell"}},
		{name: "clear", input: "clear", want: Result{Clear: true}},
		{name: "case insensitive", input: "HELP", want: Result{Output: "Available commands: help, clear, about"}},
		{name: "surrounding whitespace", input: "  help  ", want: Result{Output: "Available commands: help, clear, about"}},
		{name: "unknown command", input: "ls", want: Result{Output: "Command not found: ls"}},
		{name: "unknown keeps original spelling", input: " SudO ", want: Result{Output: "Command not found: SudO"}},
		{name: "empty input", input: "", want: Result{Output: "Command not found: "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Run(tt.input); got != tt.want {
				t.Errorf("Run(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}
