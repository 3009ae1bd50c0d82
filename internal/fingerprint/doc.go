// Package fingerprint provides content hashing and the persistent
// fingerprint store used for duplicate detection across sessions.
package fingerprint
