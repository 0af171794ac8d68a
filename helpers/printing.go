package helpers

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// OutputFormat is the format CLI commands print results in.
type OutputFormat string

const (
	YAMLFormat OutputFormat = "yaml"
	JSONFormat OutputFormat = "json"
)

// Print writes v to w in the given format.
func Print(w io.Writer, v interface{}, format OutputFormat) error {
	switch format {
	case YAMLFormat, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrapf(err, "Failed to encode %T as yaml", v)
		}
		return enc.Close()
	case JSONFormat:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrapf(enc.Encode(v), "Failed to encode %T as json", v)
	default:
		return errors.Errorf("Unsupported output format %q; supported formats are %v and %v", format, YAMLFormat, JSONFormat)
	}
}

// PrettyString returns v as indented JSON. It's meant for log messages so errors are returned in the string.
func PrettyString(v interface{}) string {
	p, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("PrettyString returned error; %v", err)
	}
	return string(p)
}
