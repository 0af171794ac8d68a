package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jlewi/gcputil/helpers"
)

// NewGCSCommands creates commands for working with directories in the configured bucket.
func NewGCSCommands() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gcs",
		Short: "Commands for working with directories and files in the configured GCS bucket",
	}

	cmd.AddCommand(newExistsCommand())
	cmd.AddCommand(newMkdirCommand())
	cmd.AddCommand(newUploadCommand())
	return cmd
}

func newExistsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "exists <directory>",
		Short: "Report whether the directory exists in the bucket",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			err := func() error {
				ctx := context.Background()
				c, err := newClient(ctx)
				if err != nil {
					return err
				}
				defer helpers.DeferIgnoreError(c.Close)

				exists, err := c.DirectoryExists(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stdout, "%v\n", exists)
				return nil
			}()
			exitOnError(err)
		},
	}
}

func newMkdirCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir <directory>",
		Short: "Create the directory marker if the directory doesn't exist",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			err := func() error {
				ctx := context.Background()
				c, err := newClient(ctx)
				if err != nil {
					return err
				}
				defer helpers.DeferIgnoreError(c.Close)

				_, err = c.AddDirectory(ctx, args[0])
				return err
			}()
			exitOnError(err)
		},
	}
}

func newUploadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file> <directory>",
		Short: "Upload a local file into a directory of the bucket and print its URI",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			err := func() error {
				ctx := context.Background()
				c, err := newClient(ctx)
				if err != nil {
					return err
				}
				defer helpers.DeferIgnoreError(c.Close)

				uri, err := c.AddFile(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintln(os.Stdout, uri)
				return nil
			}()
			exitOnError(err)
		},
	}
}
