package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cuggino/cuggino/internal/git"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Initialize the workspace and validate the environment",
	Long: `Creates .cuggino/{wip,spec-issues,backlog,tbd} and .cuggino.json if
missing, then runs a handful of health checks before run/watch would
normally need them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()

		st, err := workspace()
		if err != nil {
			return err
		}
		fmt.Printf("%s workspace initialized at %s\n", green("✓"), st.Root())

		if _, err := os.Stat(st.ConfigPath()); os.IsNotExist(err) {
			cfg := st.ReadConfig() // already default-populated
			if err := st.WriteConfig(cfg); err != nil {
				return err
			}
			fmt.Printf("%s wrote default config at %s\n", green("✓"), st.ConfigPath())
		} else {
			fmt.Printf("%s config already present at %s\n", green("✓"), st.ConfigPath())
		}

		cfg := st.ReadConfig()
		specsInfo, err := os.Stat(cfg.SpecsPath)
		if err != nil || !specsInfo.IsDir() {
			fmt.Printf("%s specs directory %q not found\n", yellow("⚠"), cfg.SpecsPath)
		} else {
			fmt.Printf("%s specs directory %q present\n", green("✓"), cfg.SpecsPath)
		}

		if _, err := git.New(context.Background(), st.Cwd()); err != nil {
			fmt.Printf("%s git unavailable: %v\n", red("✗"), err)
		} else {
			fmt.Printf("%s git available\n", green("✓"))
		}

		for _, bin := range []string{"claude", "codex"} {
			if _, err := exec.LookPath(bin); err != nil {
				fmt.Printf("%s %s not found on PATH\n", yellow("⚠"), bin)
			} else {
				fmt.Printf("%s %s found on PATH\n", green("✓"), bin)
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
