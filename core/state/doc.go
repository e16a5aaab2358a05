// Package state keeps per-user conversation sessions in memory and
// serializes event processing for a single user.
package state
