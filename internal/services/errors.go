package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCopy marks a failed byte copy into the destination tree.
	ErrCopy = errors.New("copy failure")
	// ErrStorePersistence marks a failed durable write of the fingerprint
	// artifact. The in-memory store stays authoritative for the session.
	ErrStorePersistence = errors.New("store persistence failure")
	// ErrConfiguration marks unusable configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrPreflight marks a failed environment check before a run.
	ErrPreflight = errors.New("preflight failure")
	// ErrExternalTool marks a failed external process invocation.
	ErrExternalTool = errors.New("external tool error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification via errors.Is.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
