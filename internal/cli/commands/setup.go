package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pgmp/sql2extension/internal/cli/config"
	"github.com/pgmp/sql2extension/internal/generator"
	"github.com/pgmp/sql2extension/internal/output"
	"github.com/pgmp/sql2extension/internal/source"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Resolver *source.Resolver
	Stdin    io.Reader
	Stdout   io.Writer
}

// NewCommandContext validates the loaded configuration and prepares the
// source resolver. It fails before any input is read if the extension name
// is missing.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := getConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	resolver, err := source.NewResolver(cfg.Include, cmd.InOrStdin())
	if err != nil {
		return nil, err
	}
	if out := outputFile(cfg); out != "" {
		if err := resolver.Exclude(out); err != nil {
			return nil, err
		}
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Resolver: resolver,
		Stdin:    cmd.InOrStdin(),
		Stdout:   cmd.OutOrStdout(),
	}, nil
}

// getConfig returns the current configuration, or defaults when the root
// command did not load one (commands run standalone in tests).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		Output:    config.DefaultOutput,
		Include:   config.DefaultInclude,
		Generator: config.DefaultGenerator,
		Watch:     config.WatchConfig{Debounce: config.DefaultDebounce},
	}
}

// outputFile returns the configured output path, or "" for stdout.
func outputFile(cfg *config.Config) string {
	if cfg.Output == "" || cfg.Output == output.Stdout {
		return ""
	}
	return cfg.Output
}

// inputArgs returns the positional inputs, falling back to the configured
// default inputs.
func (c *CommandContext) inputArgs(args []string) []string {
	if len(args) > 0 {
		return args
	}
	return c.Cfg.Inputs
}

// Generate resolves the inputs and writes one script to the configured
// output. A failed run leaves an existing output file untouched.
func (c *CommandContext) Generate(args []string) (generator.Result, error) {
	sources, err := c.Resolver.Resolve(c.inputArgs(args))
	if err != nil {
		return generator.Result{}, err
	}
	c.hintInteractiveStdin(sources)

	w, err := output.Open(c.Cfg.Output, c.Stdout)
	if err != nil {
		return generator.Result{}, err
	}
	defer func() { _ = w.Close() }()

	gen := &generator.Generator{
		ExtName: c.Cfg.ExtName,
		Program: c.Cfg.Generator,
		Logger:  c.Logger,
	}
	res, err := gen.Run(w, sources)
	if err != nil {
		return generator.Result{}, err
	}
	if err := w.Commit(); err != nil {
		return generator.Result{}, err
	}

	c.Logger.Info("script generated",
		"output", w.Path(),
		"sources", res.Sources,
		"statements", res.Statements)
	return res, nil
}

// hintInteractiveStdin warns when the tool is about to block on a terminal.
func (c *CommandContext) hintInteractiveStdin(sources []source.Source) {
	f, ok := c.Stdin.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return
	}
	for _, s := range sources {
		if s.IsStdin() {
			c.Logger.Warn("reading SQL from standard input, end with Ctrl-D")
			return
		}
	}
}

// summary renders a one-line description of a run for stderr.
func summary(res generator.Result) string {
	return fmt.Sprintf("%d statement(s) from %d source(s)", res.Statements, res.Sources)
}
