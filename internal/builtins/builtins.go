package builtins

import (
	"fmt"

	"npsh/internal/coreutils"
	"npsh/internal/executor"
)

// Kind says where a command runs.
type Kind int

const (
	External  Kind = iota // exec'd in a child
	InProcess             // runs inside the shell and may change its state
	Forked                // a coreutils utility run in a child
)

func (k Kind) String() string {
	switch k {
	case InProcess:
		return "in-process"
	case Forked:
		return "forked"
	default:
		return "external"
	}
}

// Name enumerates the in-process builtins.
type Name int

const (
	None Name = iota
	CD
	Exit
	FG
	BG
	Jobs
)

var names = map[string]Name{
	"cd":   CD,
	"exit": Exit,
	"fg":   FG,
	"bg":   BG,
	"jobs": Jobs,
}

func (n Name) String() string {
	for s, v := range names {
		if v == n {
			return s
		}
	}
	return "none"
}

// Builtin is a command executed by the shell itself. args excludes the
// command name. Output goes to sh.Out and sh.Err; the outcome is left in
// sh.Status.
type Builtin interface {
	Run(sh *executor.Shell, args []string) error
}

// ExitRequest is returned by exit. The caller terminates the shell with Code
// without waiting for background jobs.
type ExitRequest struct {
	Code int
}

func (e *ExitRequest) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}

// Command is a resolved command name.
type Command struct {
	Kind    Kind
	Name    Name
	Builtin Builtin
}

// Resolve classifies a command name. Only InProcess commands carry a Builtin.
func Resolve(name string) Command {
	if n, ok := names[name]; ok {
		return Command{Kind: InProcess, Name: n, Builtin: n.builtin()}
	}
	if coreutils.Lookup(name) != nil {
		return Command{Kind: Forked}
	}
	return Command{Kind: External}
}

func (n Name) builtin() Builtin {
	switch n {
	case CD:
		return cdBuiltin{}
	case Exit:
		return exitBuiltin{}
	case FG:
		return fgBuiltin{}
	case BG:
		return bgBuiltin{}
	case Jobs:
		return jobsBuiltin{}
	default:
		return nil
	}
}

// Mode maps a child-side command to the launcher's mode.
func (c Command) Mode() executor.Mode {
	if c.Kind == Forked {
		return executor.ModeBuiltin
	}
	return executor.ModeExec
}
