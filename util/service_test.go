package util_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thejerf/suture/v4"

	"github.com/errcode/go/util"
)

type fakeEvent struct {
	typ suture.EventType
}

func (e fakeEvent) Type() suture.EventType { return e.typ }
func (e fakeEvent) String() string         { return "fake event" }

func (e fakeEvent) Map() map[string]interface{} {
	return map[string]interface{}{"service": "frob"}
}

// Swaps the default logger; must not run in parallel.
func TestEventHook(t *testing.T) {
	var buf bytes.Buffer
	old := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))
	defer slog.SetDefault(old)

	for _, typ := range []suture.EventType{
		suture.EventTypeBackoff,
		suture.EventTypeResume,
		suture.EventTypeServicePanic,
		suture.EventTypeServiceTerminate,
		suture.EventTypeStopTimeout,
	} {
		util.EventHook(fakeEvent{typ: typ})
	}

	out := buf.String()
	require.Contains(t, out, "fake event")
	require.Contains(t, out, "service=frob")

	require.Panics(t, func() {
		util.EventHook(fakeEvent{typ: suture.EventType(99)})
	})
}
