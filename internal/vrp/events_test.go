package vrp

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopSink_DiscardsSilently(t *testing.T) {
	var sink EventSink = NoopSink{}
	assert.NotPanics(t, func() { sink.Emit("topic", map[string]any{"k": "v"}) })
}

func TestChannelSink_DeliversEvents(t *testing.T) {
	var mu sync.Mutex
	var received []string

	sink := NewChannelSink(4, func(topic string, payload map[string]any) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, topic)
	})
	defer sink.Close()

	sink.Emit("a", nil)
	sink.Emit("b", nil)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestChannelSink_DropsOnOverflowWithoutBlocking(t *testing.T) {
	block := make(chan struct{})
	sink := NewChannelSink(1, func(topic string, payload map[string]any) {
		<-block // first event blocks the drain goroutine indefinitely
	})
	defer close(block)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			sink.Emit("topic", nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Emit blocked; a full ChannelSink must drop events, not stall the caller")
	}

	assert.Greater(t, sink.Dropped(), 0)
}

func TestEmitProgress_MergesExtraFields(t *testing.T) {
	var got map[string]any
	sink := NewChannelSink(4, func(topic string, payload map[string]any) {
		got = payload
	})
	defer sink.Close()

	emitProgress(sink, "genetic", 3, 99.5, 12.0, map[string]any{"temperature": 500.0})

	require.Eventually(t, func() bool { return got != nil }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "genetic", got["algorithm"])
	assert.Equal(t, 3, got["iteration"])
	assert.Equal(t, 500.0, got["temperature"])
}
