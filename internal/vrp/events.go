package vrp

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/fleetcore/vrp-solver/internal/common/logging"
)

// EventSink is the single collaborator every engine reports progress
// through (spec §6, §9): "route.optimization.progress" during a solve and
// "route.optimization.completed" at the end. A solve that's given no sink
// uses NoopSink.
type EventSink interface {
	Emit(topic string, payload map[string]any)
}

// NoopSink discards every event. It's the zero-value default so callers
// that don't care about progress reporting pay nothing for it.
type NoopSink struct{}

// Emit implements EventSink.
func (NoopSink) Emit(string, map[string]any) {}

// ChannelSink is an in-process, bounded-queue sink: one buffered channel
// and one drain goroutine. Emit never blocks the solve — a full queue
// drops the event rather than stalling the caller (spec §9: "keep
// emission on a non-blocking path; a slow subscriber must never stall a
// solve"). Grounded on websocket_hub.go's register/unregister/broadcast
// channel triad, reduced to the single broadcast channel this package
// needs.
type ChannelSink struct {
	events  chan sinkEvent
	drain   func(topic string, payload map[string]any)
	dropped chan struct{} // not used; droppedCount under mu is the drop counter
	mu      sync.Mutex
	droppedCount int
}

type sinkEvent struct {
	topic   string
	payload map[string]any
}

// NewChannelSink builds a ChannelSink with the given queue depth, invoking
// onEvent for every event it accepts. onEvent runs on the sink's own
// drain goroutine, never on the emitting goroutine.
func NewChannelSink(queueDepth int, onEvent func(topic string, payload map[string]any)) *ChannelSink {
	if queueDepth <= 0 {
		queueDepth = 64
	}
	s := &ChannelSink{
		events: make(chan sinkEvent, queueDepth),
		drain:  onEvent,
	}
	go s.run()
	return s
}

func (s *ChannelSink) run() {
	for ev := range s.events {
		if s.drain != nil {
			s.drain(ev.topic, ev.payload)
		}
	}
}

// Emit implements EventSink.
func (s *ChannelSink) Emit(topic string, payload map[string]any) {
	select {
	case s.events <- sinkEvent{topic: topic, payload: payload}:
	default:
		s.mu.Lock()
		s.droppedCount++
		s.mu.Unlock()
	}
}

// Dropped returns how many events have been discarded because the queue
// was full.
func (s *ChannelSink) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.droppedCount
}

// Close stops the drain goroutine. Emit must not be called after Close:
// sending on the closed queue panics, so callers should stop emitting
// before closing.
func (s *ChannelSink) Close() {
	close(s.events)
}

// RedisSink publishes events to a Redis pub/sub channel for cross-instance
// fan-out, grounded on websocket_hub.go's startRedisPubSub. Publication is
// rate-limited (golang.org/x/time/rate, following the teacher's own
// limiter-construction idiom) so a tight solver loop cannot flood Redis
// with per-iteration progress events; an event that doesn't clear the
// limiter is dropped, not queued.
type RedisSink struct {
	client  *redis.Client
	channel string
	limiter *rate.Limiter
	logger  *logging.Logger
}

// NewRedisSink builds a RedisSink publishing to channel, allowing at most
// eventsPerSecond published events per second.
func NewRedisSink(client *redis.Client, channel string, eventsPerSecond int, logger *logging.Logger) *RedisSink {
	if eventsPerSecond <= 0 {
		eventsPerSecond = 10
	}
	return &RedisSink{
		client:  client,
		channel: channel,
		limiter: rate.NewLimiter(rate.Limit(eventsPerSecond), eventsPerSecond),
		logger:  logger,
	}
}

// Emit implements EventSink.
func (s *RedisSink) Emit(topic string, payload map[string]any) {
	if !s.limiter.Allow() {
		return
	}

	msg := map[string]any{
		"topic":     topic,
		"payload":   payload,
		"timestamp": time.Now().UTC(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		if s.logger != nil {
			s.logger.LogError(err, "marshal event for redis sink", map[string]any{"topic": topic})
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.client.Publish(ctx, s.channel, data).Err(); err != nil {
		if s.logger != nil {
			s.logger.LogError(err, "publish event to redis sink", map[string]any{"topic": topic})
		}
	}
}

// ProgressHub broadcasts solve progress to WebSocket subscribers. It's a
// thin adaptation of websocket_hub.go's register/unregister/broadcast
// shape, stripped of the company/user multi-tenancy the source system
// needed and this one doesn't.
type ProgressHub struct {
	clients    map[*progressClient]bool
	register   chan *progressClient
	unregister chan *progressClient
	broadcast  chan []byte
	mu         sync.RWMutex
}

type progressClient struct {
	conn *websocket.Conn
	send chan []byte
}

// NewProgressHub builds and starts a ProgressHub. Run its event loop in
// the background for as long as the process needs to serve subscribers.
func NewProgressHub() *ProgressHub {
	h := &ProgressHub{
		clients:    make(map[*progressClient]bool),
		register:   make(chan *progressClient),
		unregister: make(chan *progressClient),
		broadcast:  make(chan []byte, 256),
	}
	go h.run()
	return h
}

func (h *ProgressHub) run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					close(c.send)
					delete(h.clients, c)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Emit implements EventSink, letting a ProgressHub double as a sink: every
// solve event is fanned out to connected WebSocket subscribers verbatim.
func (h *ProgressHub) Emit(topic string, payload map[string]any) {
	data, err := json.Marshal(map[string]any{
		"topic":     topic,
		"payload":   payload,
		"timestamp": time.Now().UTC(),
	})
	if err != nil {
		return
	}
	select {
	case h.broadcast <- data:
	default:
	}
}

var progressUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeHTTP upgrades the connection to a WebSocket and registers it as a
// progress subscriber.
func (h *ProgressHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := progressUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	client := &progressClient{conn: conn, send: make(chan []byte, 32)}
	h.register <- client

	go client.writePump()
	go client.readPump(h)
}

func (c *progressClient) readPump(h *ProgressHub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *progressClient) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// emitProgress is the shape every engine uses to report an iteration
// (spec §6): fields beyond algorithm/iteration/bestFitness/bestCost are
// algorithm-specific and passed through extra.
func emitProgress(sink EventSink, algorithm string, iteration int, bestFitness, bestCost float64, extra map[string]any) {
	payload := map[string]any{
		"algorithm":    algorithm,
		"iteration":    iteration,
		"best_fitness": bestFitness,
		"best_cost":    bestCost,
	}
	for k, v := range extra {
		payload[k] = v
	}
	sink.Emit("route.optimization.progress", payload)
}

// emitCompleted reports a solve's terminal state (spec §4.11, §6):
// "algorithm, location count, vehicles used, total distance, and
// duration".
func emitCompleted(sink EventSink, result *Result) {
	sink.Emit("route.optimization.completed", map[string]any{
		"algorithm":       result.Algorithm,
		"locationsCount":  result.Summary.LocationsTotal,
		"vehiclesUsed":    result.Summary.VehiclesUsed,
		"totalDistance":   result.Summary.TotalDistanceKm,
		"computationTime": result.ComputationTimeSec,
	})
}
