package hub

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"vaxslots/pkg/types"
)

// Defaults applied when corresponding Config fields are unset.
const (
	defaultClientBuffer = 64
	defaultWriteWait    = 10 * time.Second
	defaultPongWait     = 60 * time.Second
	defaultMaxMessage   = 64 << 10
)

// ErrClosed is returned by Register after Close.
var ErrClosed = errors.New("registry closed")

var (
	connectedClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "vaxslots",
		Subsystem: "ws",
		Name:      "connected_clients",
		Help:      "Currently registered observer connections",
	})
	framesSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vaxslots",
		Subsystem: "ws",
		Name:      "frames_queued_total",
		Help:      "Frames queued to observer connections, by source",
	}, []string{"source"})
	sendFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "vaxslots",
		Subsystem: "ws",
		Name:      "send_failures_total",
		Help:      "Connections dropped because a send failed or their queue was full",
	})
	resyncsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "vaxslots",
		Subsystem: "ws",
		Name:      "resyncs_total",
		Help:      "Times the event subscription was lost and all clients were dropped",
	})
)

func init() {
	prometheus.MustRegister(connectedClients, framesSent, sendFailures, resyncsTotal)
}

// Config tunes the registry. Zero values select defaults.
type Config struct {
	// ClientBuffer bounds each client's outbound queue.
	ClientBuffer int
	WriteWait    time.Duration
	PongWait     time.Duration
	// MaxMessage caps inbound frame size in bytes.
	MaxMessage int64
	Logger     zerolog.Logger
}

// Registry is the set of live observer connections.
type Registry struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	closed  bool

	buffer     int
	writeWait  time.Duration
	pongWait   time.Duration
	pingPeriod time.Duration
	maxMessage int64
	log        zerolog.Logger

	resyncs atomic.Uint64
}

// New constructs a Registry.
func New(cfg Config) *Registry {
	r := &Registry{
		clients:    make(map[*Client]struct{}),
		buffer:     cfg.ClientBuffer,
		writeWait:  cfg.WriteWait,
		pongWait:   cfg.PongWait,
		maxMessage: cfg.MaxMessage,
		log:        cfg.Logger.With().Str("component", "hub").Logger(),
	}
	if r.buffer <= 0 {
		r.buffer = defaultClientBuffer
	}
	if r.writeWait <= 0 {
		r.writeWait = defaultWriteWait
	}
	if r.pongWait <= 0 {
		r.pongWait = defaultPongWait
	}
	if r.maxMessage <= 0 {
		r.maxMessage = defaultMaxMessage
	}
	r.pingPeriod = r.pongWait * 9 / 10
	return r
}

// Register adds conn to the live set and starts its read and write pumps.
func (r *Registry) Register(conn Conn) (*Client, error) {
	c := newClient(conn, r.buffer)
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		_ = conn.Close()
		return nil, ErrClosed
	}
	r.clients[c] = struct{}{}
	n := len(r.clients)
	r.mu.Unlock()
	connectedClients.Inc()
	r.log.Info().Str("client", c.id).Int("clients", n).Msg("connected")
	go r.writePump(c)
	go r.readPump(c)
	return c, nil
}

// Deregister removes c and closes its socket. Safe to call more than once.
func (r *Registry) Deregister(c *Client) {
	r.mu.Lock()
	_, ok := r.clients[c]
	delete(r.clients, c)
	n := len(r.clients)
	r.mu.Unlock()
	c.shutdown()
	if ok {
		connectedClients.Dec()
		r.log.Info().Str("client", c.id).Int("clients", n).Msg("disconnected")
	}
}

// Broadcast queues payload to every open client and returns how many
// accepted it. A client that cannot accept is marked Closing and removed in
// the background; it never stops delivery to the rest.
func (r *Registry) Broadcast(payload []byte) int {
	return r.broadcast(payload, "broadcast")
}

func (r *Registry) broadcast(payload []byte, source string) int {
	r.mu.RLock()
	snapshot := make([]*Client, 0, len(r.clients))
	for c := range r.clients {
		if c.State() == StateOpen {
			snapshot = append(snapshot, c)
		}
	}
	r.mu.RUnlock()

	delivered := 0
	for _, c := range snapshot {
		if c.enqueue(payload) {
			delivered++
			continue
		}
		if c.markClosing() {
			sendFailures.Inc()
			r.log.Warn().Str("client", c.id).Msg("client queue full; dropping connection")
			go r.Deregister(c)
		}
	}
	framesSent.WithLabelValues(source).Add(float64(delivered))
	return delivered
}

// HandleEvent pushes a committed change event to all open clients. It is the
// bus handler for the registry.
func (r *Registry) HandleEvent(ev types.ChangeEvent) {
	b, err := json.Marshal(ev.Message())
	if err != nil {
		r.log.Error().Err(err).Str("kind", string(ev.Kind)).Msg("encode event")
		return
	}
	n := r.broadcast(b, "event")
	r.log.Debug().Str("kind", string(ev.Kind)).Int64("center_id", ev.CenterID).Uint64("seq", ev.Seq).Int("delivered", n).Msg("event fan-out")
}

// Relay echoes a client message to every open client, including the sender.
// The message must be JSON; it is forwarded with insignificant whitespace
// removed and member order preserved.
func (r *Registry) Relay(raw []byte) error {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return fmt.Errorf("relay: message is not valid JSON: %w", err)
	}
	r.broadcast(buf.Bytes(), "relay")
	return nil
}

// Len returns the number of registered clients.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Close disconnects every client and rejects new registrations.
func (r *Registry) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.DisconnectAll()
}

// DisconnectAll drops every current client and returns how many were
// dropped. The registry stays open for new connections.
func (r *Registry) DisconnectAll() int {
	r.mu.RLock()
	all := make([]*Client, 0, len(r.clients))
	for c := range r.clients {
		all = append(all, c)
	}
	r.mu.RUnlock()
	for _, c := range all {
		c.markClosing()
		r.Deregister(c)
	}
	return len(all)
}
