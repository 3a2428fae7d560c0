package clientcli

import (
	"io"
	"time"
)

// PushOptions configures a single image push.
type PushOptions struct {
	LocalPath   string    // file to send; ignored when Reader is set
	Reader      io.Reader // optional body, e.g. stdin
	Site        string
	Camera      string
	ContentType string // defaults to image/jpeg
}

// PushResult represents the result of pushing a single image.
type PushResult struct {
	LocalPath  string `json:"local_path"`
	Site       string `json:"site"`
	Camera     string `json:"camera"`
	Size       int64  `json:"size_bytes"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Err        error  `json:"-"` // nil on success
}

// PingResult represents the outcome of a readiness check.
type PingResult struct {
	Endpoint   string        `json:"endpoint"`
	StatusCode int           `json:"status_code"`
	Message    string        `json:"message"`
	Latency    time.Duration `json:"latency_ns"`
}
