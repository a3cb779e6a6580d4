package hub

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var errBrokenPipe = errors.New("broken pipe")

// fakeConn is an in-memory Conn. Inbound frames are fed through in; written
// text frames are recorded.
type fakeConn struct {
	in       chan []byte
	closed   chan struct{}
	once     sync.Once
	writeErr error

	mu      sync.Mutex
	written [][]byte
}

func newFakeConn() *fakeConn {
	return &fakeConn{in: make(chan []byte, 16), closed: make(chan struct{})}
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case msg := <-f.in:
		return websocket.TextMessage, msg, nil
	case <-f.closed:
		return 0, nil, &websocket.CloseError{Code: websocket.CloseNormalClosure}
	}
}

func (f *fakeConn) WriteMessage(mt int, data []byte) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	select {
	case <-f.closed:
		return websocket.ErrCloseSent
	default:
	}
	if mt == websocket.TextMessage {
		f.mu.Lock()
		f.written = append(f.written, append([]byte(nil), data...))
		f.mu.Unlock()
	}
	return nil
}

func (f *fakeConn) SetReadDeadline(time.Time) error   { return nil }
func (f *fakeConn) SetWriteDeadline(time.Time) error  { return nil }
func (f *fakeConn) SetPongHandler(func(string) error) {}
func (f *fakeConn) SetReadLimit(int64)                {}
func (f *fakeConn) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeConn) frames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.written))
	for i, b := range f.written {
		out[i] = string(b)
	}
	return out
}

func (f *fakeConn) isClosed() bool {
	select {
	case <-f.closed:
		return true
	default:
		return false
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
