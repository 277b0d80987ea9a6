package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/aretw0/lienzo"
	"github.com/aretw0/lienzo/internal/config"
	"github.com/aretw0/lienzo/internal/docio"
	"github.com/aretw0/lienzo/internal/logging"
	"github.com/aretw0/lienzo/pkg/validate"
)

// errInvalid marks a run that found validation errors. The findings are
// already printed, so Execute only turns it into exit code 1.
var errInvalid = errors.New("validation failed")

// app holds the state shared by every command of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string
	output     string

	cfg    config.Config
	logger *slog.Logger
}

// Execute runs the CLI and returns the process exit code.
func Execute(args []string) int {
	return execute(args, os.Stdout, os.Stderr)
}

func execute(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errInvalid):
		return 1
	default:
		fmt.Fprintln(stderr, termenv.NewOutput(stderr).String("Error: "+err.Error()).Foreground(termenv.ANSIRed))
		return 1
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lienzo",
		Short: "Lienzo edits, checks and compiles learning-flow canvases",
		Long: `Lienzo works on canvas documents, the graph form of a learning flow, and
compiles them into recorridos, the linear form the runtime executes.
Documents are read from JSON or YAML files ("-" reads stdin).`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", config.DefaultPath, "Configuration file (YAML or JSON)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides the config)")
	flags.StringVarP(&a.output, "output", "o", "", "Output format: json or yaml (defaults to the input format)")

	root.AddCommand(
		a.validateCmd(),
		a.normalizeCmd(),
		a.repairCmd(),
		a.compileCmd(),
		a.liftCmd(),
		a.graphCmd(),
		a.analyzeCmd(),
		a.macroCmd(),
		a.presetCmd(),
		a.draftCmd(),
		a.versionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if a.output != "" {
		if _, err := docio.ParseFormat(a.output); err != nil {
			return err
		}
	}
	a.cfg = cfg
	a.logger = logging.NewWithWriter(a.stderr, level)
	return nil
}

func (a *app) engine(opts ...lienzo.Option) *lienzo.Engine {
	base := []lienzo.Option{
		lienzo.WithLogger(a.logger),
		lienzo.WithPassthroughPolicy(validate.PassthroughPolicy(a.cfg.PassthroughPolicy)),
	}
	if a.cfg.MaxCycles > 0 {
		base = append(base, lienzo.WithMaxCycles(a.cfg.MaxCycles))
	}
	return lienzo.New(append(base, opts...)...)
}

// format resolves --output, falling back to the format of path.
func (a *app) format(path string) docio.Format {
	if a.output != "" {
		f, _ := docio.ParseFormat(a.output)
		return f
	}
	return docio.FormatFor(path)
}

func (a *app) write(v any, f docio.Format) error {
	return docio.Write(a.stdout, v, f)
}
