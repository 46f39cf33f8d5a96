package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/cuggino/cuggino/internal/watch"
)

var watchAgent string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the backlog and drive the loop over each item as it becomes ready",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := workspace()
		if err != nil {
			return err
		}
		cfg := st.ReadConfig()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		notifier := watch.NewThrottledNotifier(
			watch.NewNotifier(cfg.Notify),
			rate.NewLimiter(rate.Every(time.Minute), 1),
		)

		out, errc := watch.Run(ctx, watch.Options{
			Cwd:           st.Cwd(),
			SpecsPath:     cfg.SpecsPath,
			MaxIterations: cfg.MaxIterations,
			SetupCommand:  cfg.SetupCommand,
			CheckCommand:  cfg.CheckCommand,
			Commit:        cfg.Commit,
			Push:          cfg.Push,
			Audit:         cfg.Audit,
			Adapter:       resolveAgent(watchAgent),
			Storage:       st,
			Notifier:      notifier,
		})
		renderAll(out)
		if err := <-errc; err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchAgent, "agent", "claude", "agent CLI to drive: claude, codex, or opencode")
	rootCmd.AddCommand(watchCmd)
}
