// Package plan computes destination paths in the organized tree and
// resolves filename conflicts.
package plan
