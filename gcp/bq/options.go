// Package bq loads local files into BigQuery tables.
package bq

import (
	"fmt"
	"strings"

	"cloud.google.com/go/bigquery"
	"github.com/pkg/errors"
)

// SourceFormat is the format of the file being loaded.
type SourceFormat string

const (
	SourceFormatAvro            SourceFormat = "avro"
	SourceFormatCSV             SourceFormat = "csv"
	SourceFormatJSON            SourceFormat = "json"
	SourceFormatParquet         SourceFormat = "parquet"
	SourceFormatDatastoreBackup SourceFormat = "datastore_backup"
	SourceFormatORC             SourceFormat = "orc"
)

// WriteDisposition controls what happens to rows already in the destination table.
type WriteDisposition string

const (
	WriteDispositionAppend   WriteDisposition = "append"
	WriteDispositionEmpty    WriteDisposition = "empty"
	WriteDispositionTruncate WriteDisposition = "truncate"
)

// CreateDisposition controls whether the load job may create the destination table.
type CreateDisposition string

const (
	CreateDispositionCreate      CreateDisposition = "create"
	CreateDispositionDoNotCreate CreateDisposition = "do_not_create"
)

var (
	SourceFormats      = []SourceFormat{SourceFormatAvro, SourceFormatCSV, SourceFormatJSON, SourceFormatParquet, SourceFormatDatastoreBackup, SourceFormatORC}
	WriteDispositions  = []WriteDisposition{WriteDispositionAppend, WriteDispositionEmpty, WriteDispositionTruncate}
	CreateDispositions = []CreateDisposition{CreateDispositionCreate, CreateDispositionDoNotCreate}
)

var sourceFormats = map[SourceFormat]bigquery.DataFormat{
	SourceFormatAvro:            bigquery.Avro,
	SourceFormatCSV:             bigquery.CSV,
	SourceFormatJSON:            bigquery.JSON,
	SourceFormatParquet:         bigquery.Parquet,
	SourceFormatDatastoreBackup: bigquery.DatastoreBackup,
	SourceFormatORC:             bigquery.ORC,
}

var writeDispositions = map[WriteDisposition]bigquery.TableWriteDisposition{
	WriteDispositionAppend:   bigquery.WriteAppend,
	WriteDispositionEmpty:    bigquery.WriteEmpty,
	WriteDispositionTruncate: bigquery.WriteTruncate,
}

var createDispositions = map[CreateDisposition]bigquery.TableCreateDisposition{
	CreateDispositionCreate:      bigquery.CreateIfNeeded,
	CreateDispositionDoNotCreate: bigquery.CreateNever,
}

func init() {
	if err := checkMappings(); err != nil {
		panic(err)
	}
}

// checkMappings verifies every enum value has exactly one BigQuery counterpart.
func checkMappings() error {
	if err := checkMapping(SourceFormats, sourceFormats); err != nil {
		return err
	}
	if err := checkMapping(WriteDispositions, writeDispositions); err != nil {
		return err
	}
	return checkMapping(CreateDispositions, createDispositions)
}

func checkMapping[K ~string, V comparable](keys []K, m map[K]V) error {
	if len(keys) != len(m) {
		return errors.Errorf("%T has %d values but %d mappings", keys, len(keys), len(m))
	}
	seen := map[V]K{}
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			return errors.Errorf("%T value %v has no BigQuery mapping", k, k)
		}
		if other, ok := seen[v]; ok {
			return errors.Errorf("%T values %v and %v map to the same BigQuery value %v", k, other, k, v)
		}
		seen[v] = k
	}
	return nil
}

// BigQuery returns the BigQuery data format.
func (f SourceFormat) BigQuery() (bigquery.DataFormat, error) {
	v, ok := sourceFormats[f]
	if !ok {
		return "", errors.Errorf("unknown source format %q", string(f))
	}
	return v, nil
}

// BigQuery returns the BigQuery write disposition.
func (d WriteDisposition) BigQuery() (bigquery.TableWriteDisposition, error) {
	v, ok := writeDispositions[d]
	if !ok {
		return "", errors.Errorf("unknown write disposition %q", string(d))
	}
	return v, nil
}

// BigQuery returns the BigQuery create disposition.
func (d CreateDisposition) BigQuery() (bigquery.TableCreateDisposition, error) {
	v, ok := createDispositions[d]
	if !ok {
		return "", errors.Errorf("unknown create disposition %q", string(d))
	}
	return v, nil
}

func ParseSourceFormat(s string) (SourceFormat, error) {
	return parseEnum(s, SourceFormats)
}

func ParseWriteDisposition(s string) (WriteDisposition, error) {
	return parseEnum(s, WriteDispositions)
}

func ParseCreateDisposition(s string) (CreateDisposition, error) {
	return parseEnum(s, CreateDispositions)
}

func parseEnum[K ~string](s string, values []K) (K, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for _, v := range values {
		if string(v) == normalized {
			return v, nil
		}
	}
	var zero K
	return zero, errors.Errorf("%q is not one of %v", s, joinValues(values))
}

func joinValues[K ~string](values []K) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, string(v))
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
}
