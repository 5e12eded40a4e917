// Package stream manages the live output subscription for the focused
// session. The server exposes each session's output as an SSE endpoint;
// at most one subscription is ever open at a time.
package stream

import (
	"bufio"
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/porthole-sh/porthole/internal/api"
	"github.com/porthole-sh/porthole/internal/errors"
	"github.com/porthole-sh/porthole/internal/logger"
)

// Event is one chunk of session output from the stream.
type Event struct {
	Data string
}

// Handle is one live subscription to a session's output stream.
type Handle struct {
	sessionID string
	events    chan Event
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

// SessionID returns the session this handle streams.
func (h *Handle) SessionID() string {
	return h.sessionID
}

// Events returns the channel output events arrive on. The channel is
// closed when the stream ends for any reason.
func (h *Handle) Events() <-chan Event {
	return h.events
}

// Done is closed once the stream's reader has fully stopped.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Close tears the subscription down and waits for the reader to stop.
// Safe to call more than once.
func (h *Handle) Close() {
	h.closeOnce.Do(func() {
		h.cancel()
	})
	<-h.done
}

// OpenFunc opens a subscription for a session. Injected into the
// Manager so tests can substitute a fake.
type OpenFunc func(ctx context.Context, sessionID string) (*Handle, error)

// NewHTTPOpener returns an OpenFunc that subscribes over the client's
// SSE endpoint.
func NewHTTPOpener(client *api.Client) OpenFunc {
	httpClient := client.StreamClient()

	return func(ctx context.Context, sessionID string) (*Handle, error) {
		ctx, cancel := context.WithCancel(ctx)

		req, err := client.NewStreamRequest(ctx, sessionID)
		if err != nil {
			cancel()
			return nil, errors.StreamOpenFailed(sessionID, err)
		}

		resp, err := httpClient.Do(req)
		if err != nil {
			cancel()
			return nil, errors.StreamOpenFailed(sessionID, err)
		}
		if resp.StatusCode == http.StatusUnauthorized {
			resp.Body.Close()
			cancel()
			return nil, errors.Unauthorized(errors.Op("stream.Open"))
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			cancel()
			return nil, errors.StreamOpenFailed(sessionID, errors.StreamClosed(sessionID))
		}

		h := &Handle{
			sessionID: sessionID,
			events:    make(chan Event, 64),
			cancel:    cancel,
			done:      make(chan struct{}),
		}

		log := logger.WithSession(sessionID)
		log.Debug("Stream opened")

		go func() {
			defer close(h.done)
			defer close(h.events)
			defer resp.Body.Close()

			scanner := bufio.NewScanner(resp.Body)
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			var data []string

			for scanner.Scan() {
				line := scanner.Text()

				// Blank line terminates one SSE event
				if line == "" {
					if len(data) > 0 {
						ev := Event{Data: strings.Join(data, "\n")}
						data = data[:0]
						select {
						case h.events <- ev:
						case <-ctx.Done():
							return
						}
					}
					continue
				}

				if rest, ok := strings.CutPrefix(line, "data:"); ok {
					data = append(data, strings.TrimPrefix(rest, " "))
				}
				// Comment and other SSE fields are ignored
			}

			if err := scanner.Err(); err != nil && ctx.Err() == nil {
				log.Warn("Stream read failed", "error", err)
			}
			log.Debug("Stream closed")
		}()

		return h, nil
	}
}
