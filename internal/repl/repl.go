package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"npsh/internal/builtins"
	"npsh/internal/executor"
	"npsh/internal/jobs"
	"npsh/internal/parser"
)

type REPL struct {
	Shell  *executor.Shell
	Parser *parser.Parser
	Prompt string
}

func New(sh *executor.Shell, p *parser.Parser, prompt string) *REPL {
	if p == nil {
		p = parser.New(parser.DefaultMaxArgs, sh.Err)
	}
	return &REPL{Shell: sh, Parser: p, Prompt: prompt}
}

// Run reads and evaluates lines until end of input or exit, and returns the
// status the shell should exit with. Background jobs are reported before
// each prompt.
func (r *REPL) Run(in io.Reader) int {
	sh := r.Shell
	reader := bufio.NewReader(in)

	for {
		sh.Reap()
		if err := sh.Terminal().Restore(); err != nil {
			sh.Logger().Warn("restore terminal modes", "err", err)
		}

		fmt.Fprint(sh.Out, r.Prompt)

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(sh.Out)
			return sh.Status
		}

		if code, exit := r.Eval(line); exit {
			return code
		}
	}
}

// Eval parses and runs a single line. It reports whether the shell must
// exit, and with which status.
func (r *REPL) Eval(line string) (int, bool) {
	sh := r.Shell

	cmd, err := r.Parser.Parse(line)
	if errors.Is(err, parser.ErrEmpty) {
		return 0, false
	}
	if err != nil {
		fmt.Fprintln(sh.Err, err)
		sh.Status = jobs.StatusSyntax
		return 0, false
	}

	resolved := builtins.Resolve(cmd.Argv[0])
	if resolved.Kind == builtins.InProcess {
		return r.runInProcess(resolved.Builtin, cmd)
	}

	j, err := sh.Jobs.Allocate()
	if err != nil {
		fmt.Fprintln(sh.Err, "Error:", jobs.ErrTableFull)
		sh.Logger().Error("job table exhausted", "err", err, "line", line)
		sh.Status = jobs.StatusFailure
		return 0, false
	}
	j.Argv = cmd.Argv
	j.Foreground = !cmd.Background
	j.Redirect = cmd.Redirect
	j.Line = line

	sh.Launch(j, resolved.Mode())
	return 0, false
}

// runInProcess runs a builtin inside the shell. It takes no job slot, so
// exit, fg and jobs keep working when the table is full.
func (r *REPL) runInProcess(b builtins.Builtin, cmd parser.Command) (int, bool) {
	sh := r.Shell
	if cmd.Background {
		fmt.Fprintf(sh.Err, "%s: cannot run a shell builtin in the background\n", cmd.Argv[0])
		sh.Status = jobs.StatusFailure
		return 0, false
	}

	err := runBuiltin(sh, b, cmd)
	var exit *builtins.ExitRequest
	if errors.As(err, &exit) {
		return exit.Code, true
	}
	if err != nil {
		fmt.Fprintln(sh.Err, err)
		sh.Status = jobs.StatusFailure
	}
	return 0, false
}

// runBuiltin runs b with its output sent to the redirect target, if any.
func runBuiltin(sh *executor.Shell, b builtins.Builtin, cmd parser.Command) error {
	if cmd.Redirect == "" {
		return b.Run(sh, cmd.Argv[1:])
	}

	f, err := os.OpenFile(cmd.Redirect, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o666)
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.Redirect, unwrap(err))
	}
	defer f.Close()

	prevOut := sh.Out
	sh.Out = f
	defer func() { sh.Out = prevOut }()

	return b.Run(sh, cmd.Argv[1:])
}

func unwrap(err error) error {
	var pe *os.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}
