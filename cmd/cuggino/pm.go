package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/cuggino/cuggino/internal/agent"
)

var pmAgentName string

const pmSystemPrompt = `You are a product-manager assistant for this repository. Talk with the
human to turn their ideas into well-scoped backlog items. For each item
you agree on, write a markdown file under .cuggino/backlog/ describing
it clearly enough for an autonomous coding loop to implement it without
further clarification.`

var pmCmd = &cobra.Command{
	Use:   "pm",
	Short: "Interactive session for turning conversation into backlog items",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := workspace()
		if err != nil {
			return err
		}
		a := resolveAgent(pmAgentName)
		code, err := a.Interactive(context.Background(), agent.InteractiveOptions{
			Cwd:          st.Cwd(),
			SystemPrompt: pmSystemPrompt,
		})
		if err != nil {
			return err
		}
		if code != 0 {
			os.Exit(code)
		}
		return nil
	},
}

func init() {
	pmCmd.Flags().StringVar(&pmAgentName, "agent", "claude", "agent CLI to drive: claude, codex, or opencode")
	rootCmd.AddCommand(pmCmd)
}
