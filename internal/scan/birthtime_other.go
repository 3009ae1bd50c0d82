//go:build !linux

package scan

import "time"

// birthTime is unavailable off Linux; the resolver treats a zero time as
// "no birth time recorded".
func birthTime(string) time.Time {
	return time.Time{}
}
