package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/go-logr/zapr"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jlewi/gcputil/gcp/bq"
	"github.com/jlewi/gcputil/helpers"
)

// NewBQCommands creates commands for working with BigQuery.
func NewBQCommands() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bq",
		Short: "Commands for working with BigQuery tables in the configured dataset",
	}

	cmd.AddCommand(newLoadCommand())
	return cmd
}

func newLoadCommand() *cobra.Command {
	var table string
	var file string
	var format string
	var write string
	var create string
	var schema string
	var skipRows int64

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load a local file into a table and wait for the job to finish",
		Run: func(cmd *cobra.Command, args []string) {
			log := zapr.NewLogger(zap.L())
			err := func() error {
				opts := bq.LoadOptions{SkipLeadingRows: skipRows}
				var err error
				if opts.Format, err = bq.ParseSourceFormat(format); err != nil {
					return err
				}
				if opts.Write, err = bq.ParseWriteDisposition(write); err != nil {
					return err
				}
				if opts.Create, err = bq.ParseCreateDisposition(create); err != nil {
					return err
				}
				if opts.Schema, err = bq.ParseSchema(schema); err != nil {
					return err
				}

				ctx := context.Background()
				c, err := newClient(ctx)
				if err != nil {
					return err
				}
				defer helpers.DeferIgnoreError(c.Close)

				log.Info("Loading table", "table", bq.TableID(c.Table(table)), "schema", helpers.PrettyString(opts.Schema))
				if _, err := c.LoadTable(ctx, table, file, opts); err != nil {
					return err
				}
				fmt.Fprintf(os.Stdout, "Loaded %v into %v\n", file, bq.TableID(c.Table(table)))
				return nil
			}()
			exitOnError(err)
		},
	}

	cmd.Flags().StringVarP(&table, "table", "t", "", "The table in the configured dataset to load into.")
	cmd.Flags().StringVarP(&file, "file", "f", "", "The local file to load.")
	cmd.Flags().StringVarP(&format, "format", "", string(bq.SourceFormatCSV), fmt.Sprintf("The source format; one of %v.", bq.SourceFormats))
	cmd.Flags().StringVarP(&write, "write", "", string(bq.WriteDispositionAppend), fmt.Sprintf("The write disposition; one of %v.", bq.WriteDispositions))
	cmd.Flags().StringVarP(&create, "create", "", string(bq.CreateDispositionCreate), fmt.Sprintf("The create disposition; one of %v.", bq.CreateDispositions))
	cmd.Flags().StringVarP(&schema, "schema", "", "", "Comma separated name:TYPE[:MODE] columns. If empty the schema is autodetected.")
	cmd.Flags().Int64VarP(&skipRows, "skip-leading-rows", "", 0, "Number of header rows to skip when loading CSV.")
	helpers.IgnoreError(cmd.MarkFlagRequired("table"))
	helpers.IgnoreError(cmd.MarkFlagRequired("file"))
	return cmd
}
