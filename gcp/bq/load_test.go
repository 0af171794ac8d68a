package bq

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"cloud.google.com/go/bigquery"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

// fakeRunner records the loader instead of running it.
type fakeRunner struct {
	jobID  string
	err    error
	loader *bigquery.Loader
}

func (r *fakeRunner) Run(_ context.Context, loader *bigquery.Loader) (string, error) {
	r.loader = loader
	return r.jobID, r.err
}

func newTestTable(t *testing.T) *bigquery.Table {
	t.Helper()
	client, err := bigquery.NewClient(context.Background(), "project-id", option.WithoutAuthentication())
	if err != nil {
		t.Fatalf("Failed to create BigQuery client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client.Dataset("dataset").Table("test_table")
}

func writeFile(t *testing.T, name string, contents string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(contents), 0600); err != nil {
		t.Fatalf("Error writing file: %v", err)
	}
	return p
}

func Test_NewLoaderMappings(t *testing.T) {
	expectedFormats := map[SourceFormat]bigquery.DataFormat{
		SourceFormatAvro:            bigquery.Avro,
		SourceFormatCSV:             bigquery.CSV,
		SourceFormatJSON:            bigquery.JSON,
		SourceFormatParquet:         bigquery.Parquet,
		SourceFormatDatastoreBackup: bigquery.DatastoreBackup,
		SourceFormatORC:             bigquery.ORC,
	}
	expectedWrites := map[WriteDisposition]bigquery.TableWriteDisposition{
		WriteDispositionAppend:   bigquery.WriteAppend,
		WriteDispositionEmpty:    bigquery.WriteEmpty,
		WriteDispositionTruncate: bigquery.WriteTruncate,
	}
	expectedCreates := map[CreateDisposition]bigquery.TableCreateDisposition{
		CreateDispositionCreate:      bigquery.CreateIfNeeded,
		CreateDispositionDoNotCreate: bigquery.CreateNever,
	}

	table := newTestTable(t)
	schema := Schema{{Name: "col", Type: "STRING", Mode: "NULLABLE"}}

	count := 0
	for _, format := range SourceFormats {
		for _, write := range WriteDispositions {
			for _, create := range CreateDispositions {
				count++
				name := fmt.Sprintf("%v-%v-%v", format, write, create)
				t.Run(name, func(t *testing.T) {
					loader, err := NewLoader(table, strings.NewReader(""), LoadOptions{
						Format: format,
						Write:  write,
						Create: create,
						Schema: schema,
					})
					if err != nil {
						t.Fatalf("NewLoader() error: %v", err)
					}
					src, ok := loader.Src.(*bigquery.ReaderSource)
					if !ok {
						t.Fatalf("Src is %T; want *bigquery.ReaderSource", loader.Src)
					}
					if src.SourceFormat != expectedFormats[format] {
						t.Errorf("SourceFormat = %v; want %v", src.SourceFormat, expectedFormats[format])
					}
					if loader.WriteDisposition != expectedWrites[write] {
						t.Errorf("WriteDisposition = %v; want %v", loader.WriteDisposition, expectedWrites[write])
					}
					if loader.CreateDisposition != expectedCreates[create] {
						t.Errorf("CreateDisposition = %v; want %v", loader.CreateDisposition, expectedCreates[create])
					}
					if loader.Dst.TableID != "test_table" || loader.Dst.DatasetID != "dataset" || loader.Dst.ProjectID != "project-id" {
						t.Errorf("Dst = %v", TableID(loader.Dst))
					}
					if len(src.Schema) != 1 || src.Schema[0].Name != "col" {
						t.Errorf("Schema wasn't set on the source")
					}
					if src.AutoDetect {
						t.Errorf("AutoDetect should be off when a schema is supplied")
					}
				})
			}
		}
	}
	if count != 6*3*2 {
		t.Errorf("Tested %d combinations; want %d", count, 6*3*2)
	}
}

func Test_NewLoaderAutodetectAndCSV(t *testing.T) {
	table := newTestTable(t)
	loader, err := NewLoader(table, strings.NewReader(""), LoadOptions{
		Format:          SourceFormatCSV,
		Write:           WriteDispositionAppend,
		Create:          CreateDispositionCreate,
		SkipLeadingRows: 1,
	})
	if err != nil {
		t.Fatalf("NewLoader() error: %v", err)
	}
	src := loader.Src.(*bigquery.ReaderSource)
	if !src.AutoDetect {
		t.Errorf("AutoDetect should be on without a schema")
	}
	if src.SkipLeadingRows != 1 {
		t.Errorf("SkipLeadingRows = %d; want 1", src.SkipLeadingRows)
	}
	if loader.JobID != jobIDPrefix+"test_table" || !loader.AddJobIDSuffix {
		t.Errorf("Unexpected job id config %+v", loader.JobIDConfig)
	}
}

func Test_jobIDFor(t *testing.T) {
	type testCase struct {
		table    string
		expected string
	}

	cases := []testCase{
		{table: "test_table", expected: "gcputil_load_test_table"},
		{table: "events-2024", expected: "gcputil_load_events-2024"},
		{table: "events$20240101", expected: "gcputil_load_events_20240101"},
		{table: "my table", expected: "gcputil_load_my_table"},
		{table: "données", expected: "gcputil_load_donn_es"},
	}

	valid := regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	client, err := bigquery.NewClient(context.Background(), "project-id", option.WithoutAuthentication())
	if err != nil {
		t.Fatalf("Failed to create BigQuery client: %v", err)
	}
	defer client.Close()

	for _, c := range cases {
		t.Run(c.table, func(t *testing.T) {
			loader, err := NewLoader(client.Dataset("dataset").Table(c.table), strings.NewReader(""), LoadOptions{
				Format: SourceFormatCSV,
				Write:  WriteDispositionAppend,
				Create: CreateDispositionCreate,
			})
			if err != nil {
				t.Fatalf("NewLoader() error: %v", err)
			}
			if loader.JobID != c.expected {
				t.Errorf("JobID = %v; want %v", loader.JobID, c.expected)
			}
			if !valid.MatchString(loader.JobID) {
				t.Errorf("JobID %v contains characters BigQuery rejects", loader.JobID)
			}
			if loader.Dst.TableID != c.table {
				t.Errorf("Destination table = %v; want %v", loader.Dst.TableID, c.table)
			}
		})
	}
}

func Test_Load(t *testing.T) {
	table := newTestTable(t)
	filePath := writeFile(t, "file.json", `{"col": "value"}`)
	opts := LoadOptions{
		Format: SourceFormatJSON,
		Write:  WriteDispositionEmpty,
		Create: CreateDispositionCreate,
		Schema: Schema{{Name: "col", Type: "STRING", Mode: "NULLABLE"}},
	}

	runner := &fakeRunner{jobID: "job-1"}
	if err := Load(context.Background(), runner, table, filePath, opts); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if runner.loader == nil {
		t.Fatalf("Runner wasn't invoked")
	}
}

func Test_LoadFailure(t *testing.T) {
	table := newTestTable(t)
	filePath := writeFile(t, "file.json", `{"col": "value"}`)
	opts := LoadOptions{
		Format: SourceFormatJSON,
		Write:  WriteDispositionEmpty,
		Create: CreateDispositionCreate,
	}

	type testCase struct {
		name   string
		file   string
		opts   LoadOptions
		runner *fakeRunner
		jobID  string
	}

	cause := errors.New("job failed: invalid schema")
	cases := []testCase{
		{
			name:   "job-failed",
			file:   filePath,
			opts:   opts,
			runner: &fakeRunner{jobID: "job-123", err: cause},
			jobID:  "job-123",
		},
		{
			name:   "submit-failed",
			file:   filePath,
			opts:   opts,
			runner: &fakeRunner{err: cause},
		},
		{
			name:   "missing-file",
			file:   filepath.Join(t.TempDir(), "missing.json"),
			opts:   opts,
			runner: &fakeRunner{},
		},
		{
			name:   "bad-format",
			file:   filePath,
			opts:   LoadOptions{Format: "xml", Write: WriteDispositionEmpty, Create: CreateDispositionCreate},
			runner: &fakeRunner{},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := Load(context.Background(), c.runner, table, c.file, c.opts)
			if err == nil {
				t.Fatalf("Expected Load to fail")
			}
			var loadErr *LoadError
			if !errors.As(err, &loadErr) {
				t.Fatalf("Error is %T; want *LoadError", err)
			}
			if loadErr.Table != "project-id.dataset.test_table" {
				t.Errorf("Table = %v", loadErr.Table)
			}
			if loadErr.File != c.file {
				t.Errorf("File = %v; want %v", loadErr.File, c.file)
			}
			if loadErr.JobID != c.jobID {
				t.Errorf("JobID = %v; want %v", loadErr.JobID, c.jobID)
			}
			if c.runner.err != nil && !errors.Is(err, cause) {
				t.Errorf("Error %v doesn't wrap the cause", err)
			}
		})
	}
}
