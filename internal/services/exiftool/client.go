// Package exiftool shells out to the exiftool binary for metadata
// extraction. It is the primary extractor; the in-process EXIF reader
// backstops it when the binary is unavailable.
package exiftool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"shuttersort/internal/mediameta"
	"shuttersort/internal/services"
)

// Client invokes exiftool with a per-call timeout.
type Client struct {
	Binary  string
	Timeout time.Duration
}

// NewClient builds a Client. An empty binary means "exiftool" from PATH;
// a non-positive timeout disables the deadline.
func NewClient(binary string, timeout time.Duration) *Client {
	return &Client{Binary: binary, Timeout: timeout}
}

func (c *Client) binary() string {
	if binary := strings.TrimSpace(c.Binary); binary != "" {
		return binary
	}
	return "exiftool"
}

// Name implements mediameta.Extractor.
func (c *Client) Name() string { return "exiftool" }

// Available reports whether the configured binary can be resolved.
func (c *Client) Available() bool {
	_, err := exec.LookPath(c.binary())
	return err == nil
}

// Extract implements mediameta.Extractor by running
// exiftool -json against the file and flattening the response.
func (c *Client) Extract(ctx context.Context, path string) (mediameta.Record, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return mediameta.Record{}, errors.New("exiftool extract: empty path")
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.binary(),
		"-json",
		"-charset", "UTF8",
		"-api", "largefilesupport=1",
		"--", path)
	output, err := cmd.Output()
	if err != nil {
		detail := commandDetail(err)
		return mediameta.Record{}, services.Wrap(services.ErrExternalTool, "exiftool", "extract", detail, err)
	}

	var payload []map[string]any
	if err := json.Unmarshal(output, &payload); err != nil {
		return mediameta.Record{}, services.Wrap(services.ErrExternalTool, "exiftool", "extract", "parse output", err)
	}
	if len(payload) == 0 {
		return mediameta.Record{}, mediameta.ErrNoMetadata
	}

	fields := make(map[string]string, len(payload[0]))
	for key, value := range payload[0] {
		if text := stringify(value); text != "" {
			fields[key] = text
		}
	}
	record := mediameta.NewRecord(fields)
	if record.Empty() {
		return mediameta.Record{}, mediameta.ErrNoMetadata
	}
	return record, nil
}

func commandDetail(err error) string {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if stderr := strings.TrimSpace(string(exitErr.Stderr)); stderr != "" {
			return stderr
		}
	}
	return "run binary"
}

// stringify flattens exiftool JSON values into the string form the date
// parsers expect. Numeric sub-second values like 7 keep their exact digits.
func stringify(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case json.Number:
		return typed.String()
	case float64:
		if typed == float64(int64(typed)) {
			return strconv.FormatInt(int64(typed), 10)
		}
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(typed)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", typed)
	}
}
