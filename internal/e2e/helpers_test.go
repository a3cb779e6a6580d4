package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"vaxslots/internal/booking"
	"vaxslots/internal/httpapi"
	"vaxslots/internal/hub"
	"vaxslots/internal/notify"
	"vaxslots/internal/store"
	"vaxslots/pkg/types"
)

type testEnv struct {
	srv   *httptest.Server
	store *store.Store
	hub   *hub.Registry
	bus   *notify.Bus
}

// newEnv wires the full service the same way the serve command does, on an
// in-memory database.
func newEnv(t *testing.T) *testEnv {
	return newEnvWithBus(t, 0)
}

// newEnvWithBus is newEnv with a custom bus mailbox size; zero keeps the
// default.
func newEnvWithBus(t *testing.T, busBuffer int) *testEnv {
	t.Helper()
	st, err := store.Open(fmt.Sprintf("file:e2e_%d?mode=memory&cache=shared", time.Now().UnixNano()))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	bus := notify.NewBus(notify.Config{Buffer: busBuffer, Logger: zerolog.Nop()})
	reg := hub.New(hub.Config{Logger: zerolog.Nop()})
	ctx, cancel := context.WithCancel(context.Background())
	go reg.Follow(ctx, bus)
	waitFor(t, func() bool { return bus.Len() == 1 })
	auth := booking.New(booking.Config{Store: st, Publisher: bus, LockTimeout: 2 * time.Second, Logger: zerolog.Nop()})

	srv := httptest.NewServer(httpapi.NewMux(auth, st, reg))
	t.Cleanup(func() {
		srv.Close()
		cancel()
		reg.Close()
		bus.Close()
		_ = st.Close()
	})
	return &testEnv{srv: srv, store: st, hub: reg, bus: bus}
}

func (e *testEnv) post(t *testing.T, path, body string) []byte {
	t.Helper()
	b, err := e.postRaw(path, body)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

// postRaw is safe to call from goroutines other than the test's.
func (e *testEnv) postRaw(path, body string) ([]byte, error) {
	resp, err := http.Post(e.srv.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("POST %s status=%d body=%s", path, resp.StatusCode, b)
	}
	return b, nil
}

func (e *testEnv) put(t *testing.T, path, body string) []byte {
	t.Helper()
	req, _ := http.NewRequest(http.MethodPut, e.srv.URL+path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT %s: %v", path, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return b
}

func (e *testEnv) list(t *testing.T) []types.Center {
	t.Helper()
	resp, err := http.Get(e.srv.URL + "/getVaccinationCenters")
	if err != nil {
		t.Fatalf("GET centers: %v", err)
	}
	defer resp.Body.Close()
	var out []types.Center
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode centers: %v", err)
	}
	return out
}

// dial opens an observer connection and waits until the hub counts it.
func (e *testEnv) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	want := e.hub.Len() + 1
	url := "ws" + strings.TrimPrefix(e.srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	waitFor(t, func() bool { return e.hub.Len() >= want })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) types.EventMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read event: %v", err)
	}
	var msg types.EventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode event %q: %v", data, err)
	}
	return msg
}

// expectSilence fails if conn receives any frame within d.
func expectSilence(t *testing.T, conn *websocket.Conn, d time.Duration) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(d))
	if _, data, err := conn.ReadMessage(); err == nil {
		t.Fatalf("unexpected frame: %s", data)
	}
}

func decodeAction(t *testing.T, b []byte) (ok bool, msg string) {
	t.Helper()
	var v struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(b), &v); err != nil {
		t.Fatalf("decode %q: %v", b, err)
	}
	if v.Success {
		return true, v.Message
	}
	return false, v.Error
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
