package types

import "time"

// LogEntry is a sanitized copy of a request and its response, queued for the request log
type LogEntry struct {
	Method          string
	URL             string
	Route           string
	Actor           string
	RequestBody     string
	ResponseBody    string
	RequestHeaders  string
	ResponseHeaders string
	StatusCode      int
	CreatedAt       time.Time
}
