package util

import (
	"log/slog"

	"github.com/thejerf/suture/v4"
)

// EventHook forwards supervisor events to the default logger. Backoff
// chatter stays at debug; a panicking guest is a bug and logs as an
// error.
func EventHook(e suture.Event) {
	var args []any
	for k, v := range e.Map() {
		args = append(args, k, v)
	}

	switch e.Type() {
	case suture.EventTypeBackoff:
		slog.Debug(e.String(), args...)

	case suture.EventTypeResume:
		slog.Info(e.String(), args...)

	case suture.EventTypeServiceTerminate:
		slog.Warn(e.String(), args...)

	case suture.EventTypeServicePanic:
		slog.Error(e.String(), args...)

	case suture.EventTypeStopTimeout:
		slog.Error(e.String(), args...)

	default:
		panic(e) // unhandled event
	}
}
