package logging

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"
)

const consoleQueryURL = "https://console.cloud.google.com/logs/query"

// LogName returns the full resource name of a log.
func LogName(project string, name string) string {
	return fmt.Sprintf("projects/%s/logs/%s", project, url.PathEscape(name))
}

// GetLink returns a link to the Cloud Logging console that shows logs matching the given filters.
// The link isn't stable because it doesn't pin the time.
func GetLink(project string, filters map[string]string) string {
	return consoleQueryURL + ";query=" + buildQuery(project, filters) + "?" + projectQuery(project)
}

// GetLinkAroundTime returns a link to the logs query pinned at the specified time.
// It will show a time window specified by the duration around the time.
// Duration is rounded to the nearest second, minute or hour depending on its size.
func GetLinkAroundTime(project string, filters map[string]string, t time.Time, duration time.Duration) string {
	path := consoleQueryURL + ";query=" + buildQuery(project, filters)

	size, units := roundDuration(duration)
	window := fmt.Sprintf("PT%.0f%s", size, units)

	// Without cursorTimestamp the console complains the query is invalid when you scroll down.
	path += ";cursorTimestamp=" + t.UTC().Format(time.RFC3339)
	path += ";aroundTime=" + t.UTC().Format(time.RFC3339)
	path += ";duration=" + url.QueryEscape(window)

	return path + "?" + projectQuery(project)
}

// LogLink returns a link showing the entries of the named log, optionally restricted to entries with the
// given labels.
func LogLink(project string, name string, labels map[string]string) string {
	filters := map[string]string{
		"logName": LogName(project, name),
	}
	for k, v := range labels {
		filters["labels."+k] = v
	}
	return GetLink(project, filters)
}

func projectQuery(project string) string {
	return url.Values{"project": []string{project}}.Encode()
}

// buildQuery joins the filters into a logging query. Filters are sorted so the link is deterministic.
func buildQuery(project string, filters map[string]string) string {
	all := make(map[string]string, len(filters)+1)
	for k, v := range filters {
		all[k] = v
	}
	all["resource.labels.project_id"] = project

	names := make([]string, 0, len(all))
	for n := range all {
		names = append(names, n)
	}
	sort.Strings(names)

	clauses := make([]string, 0, len(names))
	for _, n := range names {
		clauses = append(clauses, fmt.Sprintf(`%s="%s"`, n, all[n]))
	}
	return url.QueryEscape(strings.Join(clauses, "\n"))
}

// roundDuration rounds the duration to the size and units used in cloud logging queries.
func roundDuration(duration time.Duration) (float64, string) {
	switch {
	case duration >= time.Hour:
		return duration.Round(time.Hour).Hours(), "H"
	case duration >= 5*time.Minute:
		return duration.Round(time.Minute).Minutes(), "M"
	default:
		return duration.Round(time.Second).Seconds(), "S"
	}
}
