// Package actor provides the bounded mailbox and receive loop shared by the
// selection and compositor actors.
//
// Each actor owns its state privately and mutates it only from its own loop.
// Values crossing actors travel inside messages and are never touched by the
// sender again.
package actor
