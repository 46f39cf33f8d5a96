package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuggino/cuggino/internal/loop"
)

var (
	runFocus string
	runAgent string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the plan/implement/review loop once for a focus",
	RunE: func(cmd *cobra.Command, args []string) error {
		if runFocus == "" {
			return fmt.Errorf("--focus is required")
		}
		st, err := workspace()
		if err != nil {
			return err
		}
		cfg := st.ReadConfig()

		out, errc := loop.Run(context.Background(), loop.Options{
			Focus:         runFocus,
			Cwd:           st.Cwd(),
			SpecsPath:     cfg.SpecsPath,
			MaxIterations: cfg.MaxIterations,
			SetupCommand:  cfg.SetupCommand,
			CheckCommand:  cfg.CheckCommand,
			Commit:        cfg.Commit,
			Push:          cfg.Push,
			Adapter:       resolveAgent(runAgent),
			Storage:       st,
		})
		renderAll(out)
		if err := <-errc; err != nil {
			return err
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runFocus, "focus", "", "what the loop should accomplish this run")
	runCmd.Flags().StringVar(&runAgent, "agent", "claude", "agent CLI to drive: claude, codex, or opencode")
	rootCmd.AddCommand(runCmd)
}
