// Package executor is the command boundary to the orchestration
// platform. Everything above it speaks in argument lists; nothing above
// it knows whether the command actually ran.
package executor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"

	"github.com/vlt-io/shipctl/internal/logger"
)

// DryRunOutput is the sentinel returned for every command in dry-run
// mode, in place of platform output.
const DryRunOutput = "[dry-run: no output]"

// Command is one imperative change or query against the platform.
type Command struct {
	Args []string
	// AllowFailure downgrades a non-zero exit to a logged warning; the
	// output (possibly empty) is still returned.
	AllowFailure bool
}

// Executor runs a single platform command and surfaces its text output.
type Executor interface {
	Execute(ctx context.Context, cmd Command) (string, error)
}

// ActionError means the platform rejected a command.
type ActionError struct {
	Command string
	Output  string
	Err     error
}

func (e *ActionError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("command %q failed: %v: %s", e.Command, e.Err, e.Output)
	}
	return fmt.Sprintf("command %q failed: %v", e.Command, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// Kubectl shells out to kubectl, scoped to a single namespace.
type Kubectl struct {
	binary    string
	namespace string
	log       *logger.Logger
}

func NewKubectl(binary, namespace string, log *logger.Logger) *Kubectl {
	return &Kubectl{binary: binary, namespace: namespace, log: log}
}

func (k *Kubectl) argv(cmd Command) []string {
	return append([]string{k.binary, "-n", k.namespace}, cmd.Args...)
}

func (k *Kubectl) Execute(ctx context.Context, cmd Command) (string, error) {
	argv := k.argv(cmd)
	line := shellquote.Join(argv...)
	k.log.Info("$ " + line)

	var outBuf, errBuf bytes.Buffer
	c := exec.CommandContext(ctx, argv[0], argv[1:]...)
	c.Stdout, c.Stderr = &outBuf, &errBuf
	err := c.Run()

	stdout := strings.TrimSpace(outBuf.String())
	if err != nil {
		diag := strings.TrimSpace(errBuf.String())
		if cmd.AllowFailure {
			k.log.Warn("command failed (tolerated)",
				zap.String("command", line),
				zap.String("stderr", diag),
				zap.Error(err),
			)
			return stdout, nil
		}
		return stdout, &ActionError{Command: line, Output: diag, Err: err}
	}

	if stdout != "" {
		k.log.Debug(stdout)
	}
	return stdout, nil
}

// DryRun logs the fully-formed command line and never contacts the
// platform.
type DryRun struct {
	binary    string
	namespace string
	log       *logger.Logger
}

func NewDryRun(binary, namespace string, log *logger.Logger) *DryRun {
	return &DryRun{binary: binary, namespace: namespace, log: log}
}

func (d *DryRun) Execute(_ context.Context, cmd Command) (string, error) {
	argv := append([]string{d.binary, "-n", d.namespace}, cmd.Args...)
	d.log.Info("[DRY RUN] $ " + shellquote.Join(argv...))
	return DryRunOutput, nil
}
