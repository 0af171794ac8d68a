package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jlewi/gcputil/config"
	"github.com/jlewi/gcputil/helpers"
)

// NewConfigCommand prints the resolved configuration.
func NewConfigCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the configuration resolved from the environment",
		Run: func(cmd *cobra.Command, args []string) {
			err := func() error {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				return helpers.Print(os.Stdout, cfg, helpers.OutputFormat(output))
			}()
			exitOnError(err)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", string(helpers.YAMLFormat), "Output format; yaml or json")
	return cmd
}
