package events

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// syncBuffer guards the log buffer against the drain goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestLogAll_LogsEvents(t *testing.T) {
	bus := NewBus(testLogger())
	t.Cleanup(func() { _ = bus.Close() })

	var buf syncBuffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		LogAll(ctx, bus, logger)
	}()

	bus.Publish(&SessionStarted{
		BaseEvent: NewBaseEvent(EventSessionStarted, EntitySession, "s-1"),
		ContentID: "42",
	})

	assert.Eventually(t, func() bool {
		return strings.Contains(buf.String(), "session.started")
	}, 2*time.Second, 5*time.Millisecond, "event never logged")
	assert.Contains(t, buf.String(), "entity_id=s-1")

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("LogAll did not return after cancel")
	}
}

func TestLogAll_ReturnsOnBusClose(t *testing.T) {
	bus := NewBus(testLogger())

	done := make(chan struct{})
	go func() {
		defer close(done)
		LogAll(context.Background(), bus, testLogger())
	}()

	_ = bus.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("LogAll did not return after bus close")
	}
}
