package logging

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// LogstashWriter is a zapcore.WriteSyncer that ships JSON entries to a
// Logstash TCP input from a background goroutine. Write only enqueues, so a
// request never waits on the network. Entries that cannot be queued or sent
// are counted, and the count is reported as its own entry once a connection
// is available again.
type LogstashWriter struct {
	addr          string
	dialTimeout   time.Duration
	writeTimeout  time.Duration
	retryInterval time.Duration
	queueSize     int
	dial          func(network, addr string, timeout time.Duration) (net.Conn, error)

	queue chan shipment
	done  chan struct{}

	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64

	// owned by the shipping goroutine
	conn      net.Conn
	nextRetry time.Time
}

// shipment is either one encoded entry or, when flushed is set, a marker that
// Sync waits on.
type shipment struct {
	line    []byte
	flushed chan struct{}
}

type Option func(*LogstashWriter)

// WithDialTimeout overrides the TCP dial timeout. Defaults to 2 seconds.
func WithDialTimeout(d time.Duration) Option {
	return func(w *LogstashWriter) { w.dialTimeout = d }
}

// WithWriteTimeout overrides the TCP write timeout. Defaults to 1 second.
func WithWriteTimeout(d time.Duration) Option {
	return func(w *LogstashWriter) { w.writeTimeout = d }
}

// WithRetryInterval sets how long to wait after a failed dial or write before
// dialing again. Defaults to 5 seconds.
func WithRetryInterval(d time.Duration) Option {
	return func(w *LogstashWriter) { w.retryInterval = d }
}

// WithQueueSize bounds the entries held while the shipper catches up.
// Defaults to 1024.
func WithQueueSize(n int) Option {
	return func(w *LogstashWriter) { w.queueSize = n }
}

func withDial(dial func(network, addr string, timeout time.Duration) (net.Conn, error)) Option {
	return func(w *LogstashWriter) { w.dial = dial }
}

func NewLogstashWriter(addr string, opts ...Option) (*LogstashWriter, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, errors.New("logstash: empty address")
	}
	w := &LogstashWriter{
		addr:          addr,
		dialTimeout:   2 * time.Second,
		writeTimeout:  time.Second,
		retryInterval: 5 * time.Second,
		queueSize:     1024,
		dial:          net.DialTimeout,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.queueSize < 1 {
		w.queueSize = 1
	}
	w.queue = make(chan shipment, w.queueSize)
	w.done = make(chan struct{})
	go w.ship()
	return w, nil
}

func (w *LogstashWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	line := make([]byte, len(p), len(p)+1)
	copy(line, p)
	if line[len(line)-1] != '\n' {
		line = append(line, '\n')
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return 0, io.ErrClosedPipe
	}
	select {
	case w.queue <- shipment{line: line}:
	default:
		w.countDrop()
	}
	return len(p), nil
}

// Sync waits until everything queued before the call has been sent or
// dropped, bounded by one dial plus one write timeout.
func (w *LogstashWriter) Sync() error {
	flushed := make(chan struct{})
	w.mu.RLock()
	if w.closed {
		w.mu.RUnlock()
		return nil
	}
	w.queue <- shipment{flushed: flushed}
	w.mu.RUnlock()

	select {
	case <-flushed:
		return nil
	case <-time.After(w.dialTimeout + w.writeTimeout):
		return errors.New("logstash: sync timed out")
	}
}

// Close stops accepting entries, sends what is already queued and closes the
// connection.
func (w *LogstashWriter) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.queue)
	w.mu.Unlock()

	<-w.done
	return nil
}

func (w *LogstashWriter) ship() {
	defer close(w.done)
	for s := range w.queue {
		if s.flushed != nil {
			close(s.flushed)
			continue
		}
		w.send(s.line)
	}
	if w.conn != nil {
		_ = w.conn.Close()
		w.conn = nil
	}
}

func (w *LogstashWriter) send(line []byte) {
	if !w.connect() {
		w.countDrop()
		return
	}
	if n := w.takeDrops(); n > 0 {
		notice := fmt.Sprintf("{\"level\":\"warn\",\"timestamp\":%q,\"msg\":\"logstash entries dropped\",\"dropped\":%d}\n",
			time.Now().UTC().Format(time.RFC3339), n)
		if !w.write([]byte(notice)) {
			w.restoreDrops(n)
			w.countDrop()
			return
		}
	}
	if !w.write(line) {
		w.countDrop()
	}
}

func (w *LogstashWriter) connect() bool {
	if w.conn != nil {
		return true
	}
	if !w.nextRetry.IsZero() && time.Now().Before(w.nextRetry) {
		return false
	}
	conn, err := w.dial("tcp", w.addr, w.dialTimeout)
	if err != nil {
		w.nextRetry = time.Now().Add(w.retryInterval)
		return false
	}
	w.conn = conn
	w.nextRetry = time.Time{}
	return true
}

func (w *LogstashWriter) write(data []byte) bool {
	if w.writeTimeout > 0 {
		_ = w.conn.SetWriteDeadline(time.Now().Add(w.writeTimeout))
	}
	if _, err := w.conn.Write(data); err != nil {
		_ = w.conn.Close()
		w.conn = nil
		w.nextRetry = time.Now().Add(w.retryInterval)
		return false
	}
	return true
}

func (w *LogstashWriter) countDrop() {
	w.dropped.Add(1)
}

func (w *LogstashWriter) takeDrops() int64 {
	return w.dropped.Swap(0)
}

func (w *LogstashWriter) restoreDrops(n int64) {
	w.dropped.Add(n)
}
