package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"npsh/internal/config"
	"npsh/internal/executor"
	"npsh/internal/parser"
	"npsh/internal/repl"
)

type options struct {
	configPath   string
	command      string
	maxJobs      int
	maxArgs      int
	logFile      string
	logLevel     string
	noJobControl bool
}

// NewRootCommand builds the npsh command. The shell's exit status is stored
// in *status once it returns.
func NewRootCommand(status *int) *cobra.Command {
	var opts options

	rootCmd := &cobra.Command{
		Use:   "npsh",
		Short: "An interactive shell with job control",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			code, err := run(cfg, opts.command, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			*status = code
			return err
		},
	}

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	flags := rootCmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default $HOME/.npshrc.yaml or $HOME/.npshrc.toml)")
	flags.StringVarP(&opts.command, "command", "c", "", "evaluate one line and exit with its status")
	flags.IntVar(&opts.maxJobs, "max-jobs", 0, "number of jobs the shell can track")
	flags.IntVar(&opts.maxArgs, "max-args", 0, "arguments kept from a single line")
	flags.StringVar(&opts.logFile, "log-file", "", "write diagnostic logs to this file")
	flags.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	flags.BoolVar(&opts.noJobControl, "no-job-control", false, "do not take over the terminal")

	return rootCmd
}

// Execute runs the root command and returns the process exit status.
func Execute() int {
	var status int
	if err := NewRootCommand(&status).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "npsh:", err)
		if status == 0 {
			status = 2
		}
	}
	return status
}

func loadConfig(cmd *cobra.Command, opts options) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("max-jobs") {
		cfg.MaxJobs = opts.maxJobs
	}
	if flags.Changed("max-args") {
		cfg.MaxArgs = opts.maxArgs
	}
	if flags.Changed("log-file") {
		cfg.LogFile = opts.logFile
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if opts.noJobControl {
		cfg.JobControl = false
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg config.Config) (*slog.Logger, func(), error) {
	if cfg.LogFile == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}

	level, err := cfg.Level()
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})).
		With("session", uuid.NewString(), "pid", os.Getpid())
	return logger, func() { _ = f.Close() }, nil
}

func run(cfg config.Config, line string, in io.Reader, out, errOut io.Writer) (int, error) {
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return 0, err
	}
	defer closeLog()

	interactive := line == ""
	shOpts := executor.Options{
		MaxJobs: cfg.MaxJobs,
		Out:     out,
		Err:     errOut,
		Logger:  logger,
	}

	if interactive {
		interrupts, stop := executor.InstallSignals()
		defer stop()
		shOpts.Interrupts = interrupts

		if cfg.JobControl {
			tty, err := executor.OpenTerminal(os.Stdin)
			if err != nil {
				return 0, err
			}
			shOpts.Terminal = tty
		}
	}

	sh := executor.New(shOpts)
	r := repl.New(sh, parser.New(cfg.MaxArgs, errOut), cfg.Prompt)
	logger.Info("shell started",
		"interactive", interactive,
		"job_control", sh.Terminal().Enabled(),
		"max_jobs", cfg.MaxJobs,
	)

	if !interactive {
		if code, exit := r.Eval(line); exit {
			return code, nil
		}
		return sh.Status, nil
	}

	code := r.Run(in)
	logger.Info("shell exiting", "status", code, "jobs", sh.Jobs.Len())
	return code, nil
}
