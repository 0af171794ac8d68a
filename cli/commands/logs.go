package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/jlewi/gcputil/config"
	"github.com/jlewi/gcputil/gcp/logging"
	"github.com/jlewi/gcputil/helpers"
)

// NewLogsCommands creates commands for working with Cloud Logging.
func NewLogsCommands() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Commands for working with the configured Cloud Logging log",
	}

	cmd.AddCommand(newWriteCommand())
	cmd.AddCommand(newLinkCommand())
	return cmd
}

func newWriteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "write <message>",
		Short: "Write a message to Cloud Logging and print a link to it",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			err := func() error {
				ctx := context.Background()
				c, err := newClient(ctx)
				if err != nil {
					return err
				}
				defer helpers.DeferIgnoreError(c.Close)

				start := time.Now()
				err = c.WithLogger(ctx, func(log logr.Logger) error {
					log.Info(strings.Join(args, " "))
					return nil
				})
				if err != nil {
					return err
				}
				cfg := c.Config()
				filters := map[string]string{"logName": logging.LogName(cfg.ProjectID, cfg.LoggerName)}
				fmt.Fprintln(os.Stdout, logging.GetLinkAroundTime(cfg.ProjectID, filters, start, 5*time.Minute))
				return nil
			}()
			exitOnError(err)
		},
	}
}

func newLinkCommand() *cobra.Command {
	var open bool
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Print a link to the configured log in the Cloud Console",
		Run: func(cmd *cobra.Command, args []string) {
			err := func() error {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				link := logging.LogLink(cfg.ProjectID, cfg.LoggerName, nil)
				fmt.Fprintln(os.Stdout, link)
				if open {
					return browser.OpenURL(link)
				}
				return nil
			}()
			exitOnError(err)
		},
	}
	cmd.Flags().BoolVarP(&open, "open", "", false, "Open the link in a browser.")
	return cmd
}
