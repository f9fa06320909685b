// Package shell provides the external tool invoker adapter.
package shell

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"sync"

	"go.trai.ch/signet/internal/core/domain"
	"go.trai.ch/signet/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ToolInvoker = (*Invoker)(nil)

// Invoker implements ports.ToolInvoker using os/exec.
// Tools are looked up by name in the configured tool table.
type Invoker struct {
	logger ports.Logger

	mu    sync.RWMutex
	tools map[string]string
}

// NewInvoker creates a new Invoker with an empty tool table.
func NewInvoker(logger ports.Logger) *Invoker {
	return &Invoker{
		logger: logger,
		tools:  map[string]string{},
	}
}

// Configure replaces the tool table, mapping tool names to executables.
func (i *Invoker) Configure(tools map[string]string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.tools = make(map[string]string, len(tools))
	for name, exe := range tools {
		i.tools[name] = exe
	}
}

// Invoke runs the named tool and returns its combined output.
// Each output line is also logged at debug level.
func (i *Invoker) Invoke(ctx context.Context, tool string, args []string) (string, error) {
	i.mu.RLock()
	executable := i.tools[tool]
	i.mu.RUnlock()

	if executable == "" {
		return "", zerr.With(zerr.Wrap(domain.ErrToolNotConfigured, "no executable for tool"), "tool", tool)
	}

	resolved, err := exec.LookPath(executable)
	if err != nil {
		return "", zerr.With(zerr.Wrap(errors.Join(domain.ErrToolNotConfigured, err), "executable not found"),
			"executable", executable)
	}

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, resolved, args...) //nolint:gosec // executable comes from project configuration
	cmd.Stdout = &out
	cmd.Stderr = &out

	runErr := cmd.Run()
	output := out.String()
	i.logOutput(tool, output)

	if runErr != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return output, zerr.With(zerr.With(zerr.Wrap(errors.Join(domain.ErrToolFailed, runErr), "tool failed"),
			"tool", tool), "exit_code", exitCode)
	}

	return output, nil
}

func (i *Invoker) logOutput(tool, output string) {
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			i.logger.Debug(tool + ": " + line)
		}
	}
}
