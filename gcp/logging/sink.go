// Package logging sends zap logs to Cloud Logging.
package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"time"

	"cloud.google.com/go/logging"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"google.golang.org/genproto/googleapis/api/monitoredres"
)

const (
	SeverityField = "severity"
	TimeField     = "time"
	MessageField  = "message"

	// TraceField is the field Google Cloud Logging looks for the
	// trace https://cloud.google.com/logging/docs/structured-logging
	TraceField = "logging.googleapis.com/trace"
)

// EntryLogger is the part of *logging.Logger used by Sink.
type EntryLogger interface {
	Log(e logging.Entry)
	Flush() error
}

var _ EntryLogger = &logging.Logger{}

// Sink implements the zap.Sink interface. It parses the JSON lines written by a zap core and sends them to
// Cloud Logging as structured entries.
type Sink struct {
	Logger EntryLogger
	// Set Client if you want the sink to take ownership of the client and close it in Close.
	// Otherwise Close only flushes the logger and the owner of the client must close it.
	Client io.Closer
}

// NewCloudSink creates a sink writing to the log name in project. labels are added to every entry.
func NewCloudSink(client *logging.Client, project string, name string, labels map[string]string) *Sink {
	logger := client.Logger(name,
		logging.CommonLabels(labels),
		logging.CommonResource(&monitoredres.MonitoredResource{
			Type: "global",
			Labels: map[string]string{
				"project_id": project,
			},
		}),
	)
	return &Sink{
		Logger: logger,
	}
}

func (s *Sink) Write(in []byte) (n int, err error) {
	scanner := bufio.NewScanner(bytes.NewReader(in))

	bytesRead := 0

	for scanner.Scan() {
		line := scanner.Bytes()
		// N.B. The newline gets stripped so we need to add 1
		bytesRead += len(line) + 1
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		s.Logger.Log(toEntry(line))
	}

	if bytesRead > len(in) {
		// The last line wasn't terminated by a newline.
		bytesRead = len(in)
	}

	if err := scanner.Err(); err != nil {
		return bytesRead, err
	}

	if bytesRead != len(in) {
		return bytesRead, errors.Errorf("Unexpected number of bytes read. Expected to read %d bytes but only read %d", len(in), bytesRead)
	}

	return bytesRead, nil
}

// toEntry converts a line of JSON into an entry. Lines that aren't JSON are sent as text payloads.
func toEntry(line []byte) logging.Entry {
	payload := map[string]interface{}{}
	entry := logging.Entry{}

	if err := json.Unmarshal(line, &payload); err != nil {
		entry.Payload = string(line)
		return entry
	}

	// Fields Cloud Logging treats specially have to be copied out of the payload into the entry otherwise
	// they won't show up in the UI e.g. you couldn't filter by severity.
	if severityVal, ok := payload[SeverityField]; ok {
		if severity, ok := severityVal.(string); ok {
			entry.Severity = logging.ParseSeverity(severity)
		}
	}

	if timeInterface, ok := payload[TimeField]; ok {
		if timeVal, ok := timeInterface.(float64); ok {
			seconds := int64(timeVal)
			fractional := timeVal - float64(seconds)
			entry.Timestamp = time.Unix(seconds, int64(fractional*1e9))
		}
	}

	if traceVal, ok := payload[TraceField]; ok {
		if trace, ok := traceVal.(string); ok {
			entry.Trace = trace
		}
		delete(payload, TraceField)
	}
	entry.Payload = payload
	return entry
}

// Close flushes the logger and closes the client if the sink owns it.
func (s *Sink) Close() error {
	err := s.Logger.Flush()
	if s.Client != nil {
		err = multierr.Append(err, s.Client.Close())
	}
	return err
}

// Sync flushes any buffered entries.
func (s *Sink) Sync() error {
	return s.Logger.Flush()
}
