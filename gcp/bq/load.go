package bq

import (
	"context"
	"fmt"
	"io"
	"regexp"

	"cloud.google.com/go/bigquery"
	"github.com/go-logr/zapr"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/jlewi/gcputil/files"
	"github.com/jlewi/gcputil/util"
)

const jobIDPrefix = "gcputil_load_"

// invalidJobIDChars matches the characters BigQuery doesn't allow in a job id.
var invalidJobIDChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// LoadOptions configures a load job.
type LoadOptions struct {
	Format SourceFormat
	Write  WriteDisposition
	Create CreateDisposition
	// Schema of the destination table. When empty BigQuery infers the schema.
	Schema Schema
	// SkipLeadingRows is the number of header rows to skip. Only used for CSV.
	SkipLeadingRows int64
}

// LoadError is returned when a load job can't be submitted or doesn't succeed.
type LoadError struct {
	Table string
	File  string
	// JobID is empty if the job was never created.
	JobID string
	Err   error
}

func (e *LoadError) Error() string {
	if e.JobID == "" {
		return fmt.Sprintf("load of %v into %v failed: %v", e.File, e.Table, e.Err)
	}
	return fmt.Sprintf("load job %v of %v into %v failed: %v", e.JobID, e.File, e.Table, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Runner runs a load job and blocks until it is done.
type Runner interface {
	// Run returns the id of the job (if one was created) and the error that caused it to fail.
	Run(ctx context.Context, loader *bigquery.Loader) (string, error)
}

// JobRunner runs load jobs in BigQuery.
type JobRunner struct{}

func (r *JobRunner) Run(ctx context.Context, loader *bigquery.Loader) (string, error) {
	job, err := loader.Run(ctx)
	if err != nil {
		return "", errors.Wrapf(err, "Failed to submit load job")
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return job.ID(), errors.Wrapf(err, "Failed waiting for load job")
	}
	if err := status.Err(); err != nil {
		return job.ID(), err
	}
	return job.ID(), nil
}

// TableID returns the fully qualified project.dataset.table name.
func TableID(t *bigquery.Table) string {
	return fmt.Sprintf("%s.%s.%s", t.ProjectID, t.DatasetID, t.TableID)
}

// NewLoader configures a loader that reads r into table.
func NewLoader(table *bigquery.Table, r io.Reader, opts LoadOptions) (*bigquery.Loader, error) {
	format, err := opts.Format.BigQuery()
	if err != nil {
		return nil, err
	}
	write, err := opts.Write.BigQuery()
	if err != nil {
		return nil, err
	}
	create, err := opts.Create.BigQuery()
	if err != nil {
		return nil, err
	}
	schema, err := opts.Schema.ToBigQuery()
	if err != nil {
		return nil, err
	}

	src := bigquery.NewReaderSource(r)
	src.SourceFormat = format
	if len(schema) == 0 {
		src.AutoDetect = true
	} else {
		src.Schema = schema
	}
	if format == bigquery.CSV {
		src.SkipLeadingRows = opts.SkipLeadingRows
	}

	loader := table.LoaderFrom(src)
	loader.WriteDisposition = write
	loader.CreateDisposition = create
	loader.JobID = jobIDFor(table.TableID)
	loader.AddJobIDSuffix = true
	return loader, nil
}

// jobIDFor returns the job id prefix for loads into tableName. Table names may contain characters such as
// partition decorators ("events$20240101"), spaces or non ASCII letters that aren't valid in a job id; those
// are replaced with "_".
func jobIDFor(tableName string) string {
	return jobIDPrefix + invalidJobIDChars.ReplaceAllString(tableName, "_")
}

// Load loads the local file at filePath into table and blocks until the job completes.
// Any failure is logged and returned as a *LoadError.
func Load(ctx context.Context, runner Runner, table *bigquery.Table, filePath string, opts LoadOptions) error {
	log := zapr.NewLogger(zap.L())
	tableID := TableID(table)

	fail := func(jobID string, err error) error {
		log.Error(err, "Load job failed", "table", tableID, "file", filePath, "jobID", jobID)
		return &LoadError{
			Table: tableID,
			File:  filePath,
			JobID: jobID,
			Err:   err,
		}
	}

	fHelper := &files.LocalFileHelper{}
	reader, err := fHelper.NewReader(filePath)
	if err != nil {
		return fail("", err)
	}
	defer util.MaybeClose(reader)

	loader, err := NewLoader(table, reader, opts)
	if err != nil {
		return fail("", err)
	}

	log.Info("Submitting load job", "table", tableID, "file", filePath, "format", opts.Format, "write", opts.Write, "create", opts.Create)
	jobID, err := runner.Run(ctx, loader)
	if err != nil {
		return fail(jobID, err)
	}
	log.Info("Load job completed", "table", tableID, "file", filePath, "jobID", jobID)
	return nil
}
