package stream

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/porthole-sh/porthole/internal/api"
	"github.com/porthole-sh/porthole/internal/errors"
)

// fakeOpener records opens and closes in order.
type fakeOpener struct {
	mu     sync.Mutex
	log    []string
	failOn string
}

func (f *fakeOpener) open(ctx context.Context, sessionID string) (*Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if sessionID == f.failOn {
		return nil, errors.StreamOpenFailed(sessionID, errors.StreamClosed(sessionID))
	}

	f.log = append(f.log, "open:"+sessionID)

	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		sessionID: sessionID,
		events:    make(chan Event),
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	go func() {
		<-ctx.Done()
		f.mu.Lock()
		f.log = append(f.log, "closed:"+sessionID)
		f.mu.Unlock()
		close(h.events)
		close(h.done)
	}()
	return h, nil
}

func (f *fakeOpener) events() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.log))
	copy(out, f.log)
	return out
}

func TestManager_EnsureOpen_SameSessionIsNoOp(t *testing.T) {
	opener := &fakeOpener{}
	m := NewManager(opener.open)

	h1, err := m.EnsureOpen(context.Background(), "s1")
	if err != nil {
		t.Fatalf("EnsureOpen() error = %v", err)
	}
	h2, err := m.EnsureOpen(context.Background(), "s1")
	if err != nil {
		t.Fatalf("EnsureOpen() error = %v", err)
	}

	if h1 != h2 {
		t.Error("EnsureOpen for the same session should return the existing handle")
	}
	if got := opener.events(); len(got) != 1 {
		t.Errorf("open log = %v, want a single open", got)
	}
}

func TestManager_EnsureOpen_ClosesBeforeOpening(t *testing.T) {
	opener := &fakeOpener{}
	m := NewManager(opener.open)

	if _, err := m.EnsureOpen(context.Background(), "s1"); err != nil {
		t.Fatalf("EnsureOpen(s1) error = %v", err)
	}
	if _, err := m.EnsureOpen(context.Background(), "s2"); err != nil {
		t.Fatalf("EnsureOpen(s2) error = %v", err)
	}

	got := opener.events()
	want := []string{"open:s1", "closed:s1", "open:s2"}
	if len(got) != len(want) {
		t.Fatalf("event log = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event log = %v, want %v", got, want)
		}
	}

	if m.CurrentSessionID() != "s2" {
		t.Errorf("CurrentSessionID() = %q, want %q", m.CurrentSessionID(), "s2")
	}
}

func TestManager_OpenFailureLeavesNoHandle(t *testing.T) {
	opener := &fakeOpener{failOn: "bad"}
	m := NewManager(opener.open)

	if _, err := m.EnsureOpen(context.Background(), "s1"); err != nil {
		t.Fatalf("EnsureOpen(s1) error = %v", err)
	}

	_, err := m.EnsureOpen(context.Background(), "bad")
	if !errors.Is(err, errors.KindStream) {
		t.Errorf("error kind = %v, want KindStream", errors.GetKind(err))
	}

	// The old handle was closed first; the failed open installed nothing
	if m.Current() != nil {
		t.Error("failed open should leave no current handle")
	}
}

func TestManager_CloseCurrent(t *testing.T) {
	opener := &fakeOpener{}
	m := NewManager(opener.open)

	h, err := m.EnsureOpen(context.Background(), "s1")
	if err != nil {
		t.Fatalf("EnsureOpen() error = %v", err)
	}

	m.CloseCurrent()

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("CloseCurrent should wait for the handle to finish")
	}
	if m.Current() != nil {
		t.Error("CloseCurrent should clear the current handle")
	}

	// Idempotent
	m.CloseCurrent()
}

func TestHandle_CloseIdempotent(t *testing.T) {
	opener := &fakeOpener{}
	m := NewManager(opener.open)

	h, err := m.EnsureOpen(context.Background(), "s1")
	if err != nil {
		t.Fatalf("EnsureOpen() error = %v", err)
	}

	h.Close()
	h.Close() // must not panic or deadlock
}

func TestHTTPOpener_ReadsEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions/s1/stream" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		fmt.Fprintf(w, "data: hello\n\n")
		fmt.Fprintf(w, "data: line1\ndata: line2\n\n")
		flusher.Flush()
	}))
	defer server.Close()

	open := NewHTTPOpener(api.NewClient(server.URL))
	h, err := open(context.Background(), "s1")
	if err != nil {
		t.Fatalf("open error = %v", err)
	}
	defer h.Close()

	var got []string
	timeout := time.After(2 * time.Second)
	for len(got) < 2 {
		select {
		case ev, ok := <-h.Events():
			if !ok {
				t.Fatalf("stream ended early, got %v", got)
			}
			got = append(got, ev.Data)
		case <-timeout:
			t.Fatalf("timed out, got %v", got)
		}
	}

	if got[0] != "hello" {
		t.Errorf("first event = %q, want %q", got[0], "hello")
	}
	if got[1] != "line1\nline2" {
		t.Errorf("second event = %q, want multi-line data joined", got[1])
	}
}

func TestHTTPOpener_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	open := NewHTTPOpener(api.NewClient(server.URL))
	_, err := open(context.Background(), "s1")
	if !errors.Is(err, errors.KindUnauthorized) {
		t.Errorf("error kind = %v, want KindUnauthorized", errors.GetKind(err))
	}
}

func TestHTTPOpener_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	open := NewHTTPOpener(api.NewClient(server.URL))
	_, err := open(context.Background(), "gone")
	if !errors.Is(err, errors.KindStream) {
		t.Errorf("error kind = %v, want KindStream", errors.GetKind(err))
	}
}
