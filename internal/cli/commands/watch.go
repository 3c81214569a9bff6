package commands

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pgmp/sql2extension/internal/source"
	"github.com/pgmp/sql2extension/internal/watch"
)

// errWatchStdin is returned when watch is asked to follow standard input.
var errWatchStdin = errors.New("watch needs file or directory inputs, not standard input")

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [inputs...]",
		Short: "Regenerate the script whenever an input changes",
		Long: `Generate the script once, then keep watching the inputs and regenerate it
after every change. Failed runs are logged and leave the previous output in
place. Press Ctrl-C to stop.`,
		Example: `  sql2extension watch -e pgmp -o pgmp--unpackaged--1.0.sql sql/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			paths := cc.inputArgs(args)
			if len(paths) == 0 {
				return errWatchStdin
			}
			for _, p := range paths {
				if p == source.Stdin {
					return errWatchStdin
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd, cc, args, paths)
		},
	}

	cmd.Flags().Duration("debounce", 0, "Wait this long after the last change before regenerating (default 200ms)")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, cc *CommandContext, args, paths []string) error {
	var ignore []string
	if out := outputFile(cc.Cfg); out != "" {
		ignore = append(ignore, out)
	}

	w, err := watch.New(watch.Options{
		Paths:    paths,
		Ignore:   ignore,
		Match:    cc.Resolver.Match,
		Debounce: cc.Cfg.Watch.Debounce,
		Logger:   cc.Logger,
	})
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	regenerate := func() {
		res, err := cc.Generate(args)
		if err != nil {
			cc.Logger.Error("generation failed", "error", err)
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return
		}
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Generated %s\n", summary(res))
	}

	regenerate()
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Watching %d input(s) for changes...\n", len(paths))

	return w.Run(ctx, func(_ context.Context, changed []string) {
		cc.Logger.Debug("inputs changed", "paths", changed)
		regenerate()
	})
}
