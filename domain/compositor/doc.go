// Package compositor builds mirrored mosaics from selection patches. Its actor
// serves preview requests gated by the selection actor and save requests that
// bypass the gate.
package compositor
