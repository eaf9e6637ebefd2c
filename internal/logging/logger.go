// Package logging defines the structured-logging interface every engine
// component receives through its constructor.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are key–value pairs:
//
//	log.Info(ctx, "qr code ready", "path", path, "uuid", uuid)
type Logger interface {
	// Debug logs protocol chatter: URLs, raw status codes.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs state transitions of the handshake and sync loop.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs unusual but survivable conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures that stop a task.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}
