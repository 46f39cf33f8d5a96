package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan <name> <description...>",
	Short: "Drop a new backlog item for the watcher to pick up",
	Long: `Writes a new markdown file under .cuggino/backlog/ so the next
watch cycle (or a manual run --focus @<path>) can act on it.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := workspace()
		if err != nil {
			return err
		}
		name := args[0]
		if !strings.HasSuffix(name, ".md") {
			name += ".md"
		}
		content := strings.Join(args[1:], " ")
		path := filepath.Join(st.BacklogPath(), name)
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("backlog item %s already exists", name)
		}
		if err := os.WriteFile(path, []byte(content+"\n"), 0o644); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
}
