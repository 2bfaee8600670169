// Command parkrl runs agents in the car parking environment.
//
//	parkrl run --config <dir> --steps N --agent random|manual
//	parkrl inspect --config <dir>
//
// The run command tracks the return and length of every episode and
// saves them to disk, optionally rendering the lot every few steps.
// The manual agent reads "steer throttle" axis pairs from standard
// input, one pair per line.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var configDir string

	rootCmd := &cobra.Command{
		Use:          "parkrl",
		Short:        "Car parking reinforcement learning environment",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", "",
		"directory containing parking.cfg.json (defaults if empty)")

	rootCmd.AddCommand(runCmd(&configDir))
	rootCmd.AddCommand(inspectCmd(&configDir))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd(configDir *string) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run an agent online and save episode returns and lengths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.configDir = *configDir
			return run(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(),
				opts)
		},
	}

	cmd.Flags().IntVarP(&opts.steps, "steps", "n", 10_000,
		"number of environment steps to run")
	cmd.Flags().StringVar(&opts.agent, "agent", "random",
		"agent to run: random or manual")
	cmd.Flags().StringVarP(&opts.returns, "out", "o", "returns.bin",
		"file to save episode returns to")
	cmd.Flags().StringVar(&opts.lengths, "lengths", "lengths.bin",
		"file to save episode lengths to")
	cmd.Flags().IntVar(&opts.renderEvery, "render-every", 0,
		"render the lot every K steps of an episode (0 disables)")
	cmd.Flags().StringVar(&opts.frames, "frames", "frames",
		"directory to render frames into")
	return cmd
}

func inspectCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Print the resolved configuration and environment specs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return inspect(cmd.OutOrStdout(), *configDir)
		},
	}
}
