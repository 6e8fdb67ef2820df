// Package cmd is the transport-agnostic command core: a command has a name,
// a description, and Run(ctx, invocation). Registration and dispatch live in
// adapters (Discord slash commands here, but nothing in this package knows
// about Discord).
package cmd

import (
	"context"
	"fmt"
)

// Invocation is the minimal input a runner passes to a command: positional
// arguments plus an opaque payload set by the adapter (for Discord, the
// interaction context).
type Invocation struct {
	Args []string
	Data interface{}
}

// Command is the universal contract. Permissions, option schemas, and
// transport-specific registration belong to adapters.
type Command interface {
	Name() string
	Description() string
	Run(ctx context.Context, inv *Invocation) error
}

// Middleware wraps a command with extra behavior (logging, gating, metrics).
type Middleware func(Command) Command

// Apply applies middlewares in order; the first listed is the outermost.
func Apply(c Command, mws ...Middleware) Command {
	for _, mw := range mws {
		c = mw(c)
	}
	return c
}

// RejectionError refuses an invocation with a user-visible message. Gating
// middleware returns it instead of a plain error so the dispatcher can reply
// with the message rather than the generic failure notice.
type RejectionError struct {
	Message string
}

func (e *RejectionError) Error() string { return e.Message }

// Reject builds a RejectionError.
func Reject(format string, args ...interface{}) error {
	return &RejectionError{Message: fmt.Sprintf(format, args...)}
}
