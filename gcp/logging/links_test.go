package logging

import (
	"strings"
	"testing"
	"time"
)

func Test_roundDuration(t *testing.T) {
	type testCase struct {
		input time.Duration
		size  float64
		units string
	}

	cases := []testCase{
		{input: 2 * time.Hour, size: 2, units: "H"},
		{input: 10 * time.Minute, size: 10, units: "M"},
		{input: 30 * time.Second, size: 30, units: "S"},
	}
	for _, c := range cases {
		t.Run(c.input.String(), func(t *testing.T) {
			size, units := roundDuration(c.input)
			if size != c.size || units != c.units {
				t.Errorf("got (%v, %v); want (%v, %v)", size, units, c.size, c.units)
			}
		})
	}
}

func Test_LogLink(t *testing.T) {
	labels := map[string]string{"runID": "abc"}
	link := LogLink("project-id", "logger", labels)

	if !strings.HasPrefix(link, consoleQueryURL+";query=") {
		t.Errorf("Unexpected link %v", link)
	}
	if !strings.HasSuffix(link, "?project=project-id") {
		t.Errorf("Link %v doesn't select the project", link)
	}
	for _, want := range []string{"labels.runID", "logName", "projects%2Fproject-id%2Flogs%2Flogger"} {
		if !strings.Contains(link, want) {
			t.Errorf("Link %v doesn't contain %v", link, want)
		}
	}
	if len(labels) != 1 {
		t.Errorf("LogLink modified its input")
	}
	if link != LogLink("project-id", "logger", labels) {
		t.Errorf("Link isn't deterministic")
	}
}

func Test_GetLinkAroundTime(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	link := GetLinkAroundTime("project-id", map[string]string{}, at, 10*time.Minute)
	for _, want := range []string{";cursorTimestamp=2024-01-02T03:04:05Z", ";aroundTime=2024-01-02T03:04:05Z", ";duration=PT10M"} {
		if !strings.Contains(link, want) {
			t.Errorf("Link %v doesn't contain %v", link, want)
		}
	}
}
