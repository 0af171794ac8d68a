package bq

import (
	"strings"

	"cloud.google.com/go/bigquery"
	"github.com/pkg/errors"
)

const (
	ModeNullable = "NULLABLE"
	ModeRequired = "REQUIRED"
	ModeRepeated = "REPEATED"
)

// Field describes a column of the destination table.
type Field struct {
	Name string `json:"name"`
	// Type is a BigQuery type name e.g. STRING, INTEGER, TIMESTAMP.
	Type string `json:"type"`
	// Mode is one of NULLABLE, REQUIRED or REPEATED. Empty means NULLABLE.
	Mode string `json:"mode,omitempty"`
}

// Schema is an ordered list of fields.
type Schema []Field

// ToBigQuery converts the schema into the form the BigQuery client expects.
func (s Schema) ToBigQuery() (bigquery.Schema, error) {
	result := make(bigquery.Schema, 0, len(s))
	for _, f := range s {
		if f.Name == "" {
			return nil, errors.Errorf("schema field with type %v has no name", f.Type)
		}
		fs := &bigquery.FieldSchema{
			Name: f.Name,
			Type: bigquery.FieldType(strings.ToUpper(f.Type)),
		}
		switch strings.ToUpper(f.Mode) {
		case "", ModeNullable:
		case ModeRequired:
			fs.Required = true
		case ModeRepeated:
			fs.Repeated = true
		default:
			return nil, errors.Errorf("field %v has unknown mode %q", f.Name, f.Mode)
		}
		result = append(result, fs)
	}
	return result, nil
}

// ParseSchema parses a comma separated list of name:TYPE[:MODE] entries.
func ParseSchema(columns string) (Schema, error) {
	columns = strings.TrimSpace(columns)
	if columns == "" {
		return nil, nil
	}
	var s Schema
	for _, entry := range strings.Split(columns, ",") {
		parts := strings.Split(strings.TrimSpace(entry), ":")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, errors.Errorf("schema entry %q should be name:TYPE[:MODE]", entry)
		}
		f := Field{Name: parts[0], Type: strings.ToUpper(parts[1])}
		if len(parts) == 3 {
			f.Mode = strings.ToUpper(parts[2])
		}
		s = append(s, f)
	}
	return s, nil
}
