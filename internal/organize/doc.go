// Package organize runs the per-file pipeline: fingerprint, duplicate
// check, date resolution, destination planning, and verified copy.
package organize
