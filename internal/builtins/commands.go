package builtins

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"npsh/internal/executor"
	"npsh/internal/jobs"
)

type cdBuiltin struct{}

// Run changes to the canonical form of the target, or to $HOME without one.
func (cdBuiltin) Run(sh *executor.Shell, args []string) error {
	var where string
	switch len(args) {
	case 0:
		where = os.Getenv("HOME")
		if where == "" {
			fmt.Fprintln(sh.Err, "cd: HOME not set")
			sh.Status = jobs.StatusFailure
			return nil
		}
	case 1:
		where = args[0]
	default:
		fmt.Fprintln(sh.Err, "cd: too many arguments")
		sh.Status = jobs.StatusFailure
		return nil
	}

	path, err := canonical(where)
	if err == nil {
		err = os.Chdir(path)
	}
	if err != nil {
		fmt.Fprintf(sh.Err, "cd: %s: %v\n", where, unwrapPath(err))
		sh.Status = jobs.StatusFailure
		return nil
	}

	sh.Status = jobs.StatusSuccess
	return nil
}

func canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// unwrapPath drops the path from *os.PathError, the message names it already.
func unwrapPath(err error) error {
	if pe, ok := err.(*os.PathError); ok {
		return pe.Err
	}
	return err
}

type exitBuiltin struct{}

func (exitBuiltin) Run(sh *executor.Shell, args []string) error {
	switch len(args) {
	case 0:
		return &ExitRequest{Code: jobs.StatusSuccess}
	case 1:
		code, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(sh.Err, "exit: %s: numeric argument required\n", args[0])
			sh.Status = jobs.StatusFailure
			return nil
		}
		return &ExitRequest{Code: code & 0xff}
	default:
		fmt.Fprintln(sh.Err, "exit: too many arguments")
		sh.Status = jobs.StatusFailure
		return nil
	}
}

type fgBuiltin struct{}

// Run resumes a job in the foreground and waits for it.
func (fgBuiltin) Run(sh *executor.Shell, args []string) error {
	j, ok := jobArg(sh, "fg", args)
	if !ok {
		return nil
	}
	sh.Continue(j, true)
	return nil
}

type bgBuiltin struct{}

// Run resumes a stopped job in the background.
func (bgBuiltin) Run(sh *executor.Shell, args []string) error {
	j, ok := jobArg(sh, "bg", args)
	if !ok {
		return nil
	}
	if j.Foreground {
		fmt.Fprintf(sh.Err, "bg: job %d is in the foreground\n", j.UserID())
		sh.Status = jobs.StatusFailure
		return nil
	}
	sh.Continue(j, false)
	return nil
}

// jobArg resolves the single job id argument of fg and bg. Ids are accepted
// as "n" or "%n" and are one more than the table slot. On failure the
// problem is reported and the status set.
func jobArg(sh *executor.Shell, name string, args []string) (*jobs.Job, bool) {
	if len(args) != 1 {
		fmt.Fprintf(sh.Err, "%s: expected a job id\n", name)
		sh.Status = jobs.StatusFailure
		return nil, false
	}

	id, err := strconv.Atoi(strings.TrimPrefix(args[0], "%"))
	if err != nil || id <= 0 {
		fmt.Fprintf(sh.Err, "%s: %s: invalid job id\n", name, args[0])
		sh.Status = jobs.StatusFailure
		return nil, false
	}

	j := sh.Jobs.Lookup(id - 1)
	if j == nil || !j.Launched() {
		fmt.Fprintf(sh.Err, "%s: %d: no such job\n", name, id)
		sh.Status = jobs.StatusFailure
		return nil, false
	}
	return j, true
}

type jobsBuiltin struct{}

// Run polls every background job once and prints its state.
func (jobsBuiltin) Run(sh *executor.Shell, args []string) error {
	if len(args) != 0 {
		fmt.Fprintln(sh.Err, "jobs: no arguments expected")
		sh.Status = jobs.StatusFailure
		return nil
	}

	for _, j := range sh.Jobs.All() {
		if j.Foreground || !j.Launched() {
			continue
		}
		sh.Poll(j)
	}
	sh.Status = jobs.StatusSuccess
	return nil
}
