package documentloaders

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/sevigo/docpipe/schema"
)

// CLILoader runs a command and uses its stdout as the document content.
// Useful for sources reachable only through a tool, e.g. `man` pages or
// `kubectl explain` output.
type CLILoader struct {
	Command string
	Args    []string
}

// NewCLI creates a loader that executes the given command.
func NewCLI(command string, args ...string) *CLILoader {
	return &CLILoader{Command: command, Args: args}
}

// Load executes the command and wraps its output in a single document.
func (l *CLILoader) Load(ctx context.Context) ([]schema.Document, error) {
	cmd := exec.CommandContext(ctx, filepath.Base(l.Command), l.Args...)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("command %q failed: %w\nstderr: %s", l.Command, err, string(exitErr.Stderr))
		}
		return nil, err
	}

	doc := schema.NewDocument(string(output), map[string]any{
		schema.MetaSource: fmt.Sprintf("command: %s", l.Command),
	})
	return []schema.Document{doc}, nil
}
