package gcp

import (
	"context"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/logging"
	"cloud.google.com/go/storage"
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/jlewi/gcputil/config"
	"github.com/jlewi/gcputil/gcp/bq"
	"github.com/jlewi/gcputil/gcp/gcs"
	gcplogging "github.com/jlewi/gcputil/gcp/logging"
	"github.com/jlewi/gcputil/helpers"
)

// RunIDLabel is attached to every entry sent by a logging handle so the entries of one handle can be
// found together.
const RunIDLabel = "runID"

// sinkFactory creates the sink attached by Logger.
type sinkFactory func(labels map[string]string) (zap.Sink, error)

// Client bundles the storage, BigQuery and Cloud Logging clients for one project, bucket and dataset.
// The client holds no mutable state beyond the SDK clients so it is safe for concurrent use, but
// directory creation and uploads to the same key from several callers are last-writer-wins.
type Client struct {
	cfg config.Config

	dirs    *gcs.Helper
	bq      *bigquery.Client
	runner  bq.Runner
	newSink sinkFactory

	// closers are closed by Close, in order.
	closers []func() error
}

// NewClient creates the clients described by cfg. Values in cfg aren't validated; problems are reported by
// the SDKs. If any client can't be created the ones already created are closed and the error is returned.
func NewClient(ctx context.Context, cfg config.Config) (*Client, error) {
	log := zapr.NewLogger(zap.L())
	log.V(1).Info("Creating GCP clients", helpers.StructToKeysAndValues(cfg)...)

	opts, err := ClientOptions(ctx, cfg.CredentialsFile)
	if err != nil {
		return nil, err
	}

	c := &Client{
		cfg:    cfg,
		runner: &bq.JobRunner{},
	}

	sClient, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to create storage client")
	}
	c.closers = append(c.closers, sClient.Close)
	c.dirs = &gcs.Helper{Bucket: gcs.NewBucket(sClient, cfg.BucketName)}

	bqClient, err := bigquery.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		helpers.IgnoreError(c.Close())
		return nil, errors.Wrapf(err, "Failed to create BigQuery client for project %v", cfg.ProjectID)
	}
	c.closers = append(c.closers, bqClient.Close)
	c.bq = bqClient

	lClient, err := logging.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		helpers.IgnoreError(c.Close())
		return nil, errors.Wrapf(err, "Failed to create Cloud Logging client for project %v", cfg.ProjectID)
	}
	c.closers = append(c.closers, lClient.Close)
	c.newSink = func(labels map[string]string) (zap.Sink, error) {
		return gcplogging.NewCloudSink(lClient, cfg.ProjectID, cfg.LoggerName, labels), nil
	}

	return c, nil
}

// Close closes the underlying clients. Handles returned by Logger should be closed first.
func (c *Client) Close() error {
	var err error
	for _, closer := range c.closers {
		err = multierr.Append(err, closer())
	}
	c.closers = nil
	return err
}

// Config returns the configuration the client was built from.
func (c *Client) Config() config.Config {
	return c.cfg
}

// DirectoryExists reports whether the directory exists in the bucket.
func (c *Client) DirectoryExists(ctx context.Context, name string) (bool, error) {
	return c.dirs.DirectoryExists(ctx, name)
}

// AddDirectory creates the directory if it doesn't exist. It returns true on success regardless of whether
// the directory was created or already existed.
func (c *Client) AddDirectory(ctx context.Context, name string) (bool, error) {
	return c.dirs.AddDirectory(ctx, name)
}

// AddFile uploads the local file into the directory, creating the directory if needed, and returns the
// gs:// URI of the uploaded object.
func (c *Client) AddFile(ctx context.Context, filePath string, directoryName string) (string, error) {
	return c.dirs.AddFile(ctx, filePath, directoryName)
}

// Table returns the handle for a table in the configured dataset.
func (c *Client) Table(tableName string) *bigquery.Table {
	return c.bq.DatasetInProject(c.cfg.ProjectID, c.cfg.DatasetID).Table(tableName)
}

// LoadTableFromFile loads the local file into the table and waits for the job to finish.
// It returns true on success. On failure it returns false and a *bq.LoadError describing the table, file
// and job; the failure is also logged.
func (c *Client) LoadTableFromFile(ctx context.Context, tableName string, filePath string, sourceFormat bq.SourceFormat, writeDisposition bq.WriteDisposition, createDisposition bq.CreateDisposition, schema bq.Schema) (bool, error) {
	return c.LoadTable(ctx, tableName, filePath, bq.LoadOptions{
		Format: sourceFormat,
		Write:  writeDisposition,
		Create: createDisposition,
		Schema: schema,
	})
}

// LoadTable is LoadTableFromFile with the full set of load options.
func (c *Client) LoadTable(ctx context.Context, tableName string, filePath string, opts bq.LoadOptions) (bool, error) {
	if err := bq.Load(ctx, c.runner, c.Table(tableName), filePath, opts); err != nil {
		return false, err
	}
	return true, nil
}

// Logger returns a handle whose logger also sends entries at or above INFO to Cloud Logging.
// The caller must Close the handle to flush and detach the Cloud Logging sink; prefer WithLogger which
// does that automatically.
func (c *Client) Logger(ctx context.Context) (*gcplogging.Handle, error) {
	labels := map[string]string{
		RunIDLabel: uuid.NewString(),
	}
	sink, err := c.newSink(labels)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to create Cloud Logging sink for %v", c.cfg.LoggerName)
	}
	h := gcplogging.NewHandle(zap.L(), c.cfg.LoggerName)
	h.Attach(sink)
	return h, nil
}

// WithLogger calls fn with a logger attached to Cloud Logging. The handle is closed when fn returns or
// panics. The error from fn takes precedence over an error closing the handle.
func (c *Client) WithLogger(ctx context.Context, fn func(log logr.Logger) error) (err error) {
	h, err := c.Logger(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := h.Close(); closeErr != nil && err == nil {
			err = errors.Wrapf(closeErr, "Failed to flush logs for %v", c.cfg.LoggerName)
		}
	}()
	return fn(h.Logger())
}
