package executor

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"syscall"

	"github.com/moby/sys/reexec"
	"golang.org/x/sys/unix"

	"npsh/internal/jobs"
)

// Mode selects what the child does once it is running in its own group.
type Mode int

const (
	ModeExec    Mode = iota // replace the image with argv[0]
	ModeBuiltin             // run a forked utility
)

func (m Mode) String() string {
	if m == ModeBuiltin {
		return "builtin"
	}
	return "exec"
}

// Shell is the state every component works on: the job table, the last exit
// status and the terminal. It is owned by a single goroutine.
type Shell struct {
	Jobs   *jobs.Table
	Status int

	// Out and Err receive shell messages. Builtins may swap Out for the
	// duration of a redirected call.
	Out io.Writer
	Err io.Writer

	stdio      [3]*os.File
	tty        *Terminal
	interrupts <-chan os.Signal
	log        *slog.Logger
}

type Options struct {
	MaxJobs int

	Out, Err io.Writer

	// Stdio is handed to every child. Defaults to the process's own.
	Stdin, Stdout, Stderr *os.File

	// Terminal is nil when job control over a tty is disabled.
	Terminal   *Terminal
	Interrupts <-chan os.Signal
	Logger     *slog.Logger
}

func New(opts Options) *Shell {
	sh := &Shell{
		Jobs:       jobs.NewTable(opts.MaxJobs),
		Out:        opts.Out,
		Err:        opts.Err,
		stdio:      [3]*os.File{opts.Stdin, opts.Stdout, opts.Stderr},
		tty:        opts.Terminal,
		interrupts: opts.Interrupts,
		log:        opts.Logger,
	}
	if sh.Out == nil {
		sh.Out = os.Stdout
	}
	if sh.Err == nil {
		sh.Err = os.Stderr
	}
	for i, def := range []*os.File{os.Stdin, os.Stdout, os.Stderr} {
		if sh.stdio[i] == nil {
			sh.stdio[i] = def
		}
	}
	if sh.tty == nil {
		sh.tty = DetachedTerminal()
	}
	if sh.log == nil {
		sh.log = slog.New(slog.DiscardHandler)
	}
	return sh
}

func (sh *Shell) Terminal() *Terminal {
	return sh.tty
}

func (sh *Shell) Logger() *slog.Logger {
	return sh.log
}

// Launch starts j in a new process group. A foreground job is supervised
// until it changes state; a background job is acknowledged and left running.
// If the process cannot be started the job is released.
func (sh *Shell) Launch(j *jobs.Job, mode Mode) {
	args := append([]string{childName, mode.String(), j.Redirect, "--"}, j.Argv...)

	cmd := reexec.Command(args...)
	cmd.Stdin = sh.stdio[0]
	cmd.Stdout = sh.stdio[1]
	cmd.Stderr = sh.stdio[2]
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
	if j.Foreground && sh.tty.Enabled() {
		// the child takes the terminal before it runs anything
		cmd.SysProcAttr.Foreground = true
		cmd.SysProcAttr.Ctty = sh.tty.Fd()
	}

	if err := cmd.Start(); err != nil {
		fmt.Fprintln(sh.Err, "fork:", err)
		sh.log.Error("launch failed", "jid", j.UserID(), "argv", j.Argv, "err", err)
		sh.Jobs.Release(j.ID)
		sh.Status = jobs.StatusFailure
		return
	}

	// The child is its own group leader.
	j.Pgid = cmd.Process.Pid
	// wait4 on the group replaces cmd.Wait
	_ = cmd.Process.Release()

	sh.log.Debug("launched job",
		"jid", j.UserID(),
		"pgid", j.Pgid,
		"argv", j.Argv,
		"mode", mode.String(),
		"foreground", j.Foreground,
	)

	if j.Foreground {
		sh.Supervise(j)
		return
	}

	fmt.Fprintf(sh.Out, "[%d] %d\n", j.UserID(), j.Pgid)
	sh.Status = jobs.StatusSuccess
}

// Continue sends SIGCONT to a launched job. In the foreground it is handed the
// terminal and supervised; in the background it is left running.
func (sh *Shell) Continue(j *jobs.Job, foreground bool) {
	j.Foreground = foreground
	j.StopSignal = 0

	if foreground {
		fmt.Fprintf(sh.Out, "[%d] running\t\t%s\n", j.UserID(), j.Text())
		sh.Jobs.SetForeground(j.ID)
		if err := sh.tty.Give(j.Pgid); err != nil {
			sh.log.Warn("hand terminal to job", "jid", j.UserID(), "err", err)
		}
	} else {
		fmt.Fprintf(sh.Out, "[%d] continued\t\t%s\n", j.UserID(), j.Text())
	}

	if err := unix.Kill(-j.Pgid, unix.SIGCONT); err != nil {
		sh.log.Debug("continue job", "jid", j.UserID(), "pgid", j.Pgid, "err", err)
	}

	if foreground {
		sh.Supervise(j)
		return
	}
	sh.Status = jobs.StatusSuccess
}
