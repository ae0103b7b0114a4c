// Package notify pushes loop progress to an authoring UI over socket.io.
package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/playtraversal/internal/ctxlog"
	"github.com/vk/playtraversal/internal/play"
)

// Event names.
const (
	EventPlayBuilt   = "play.built"
	EventPlayBatch   = "play.batch"
	EventPlayStopped = "play.stopped"
)

const connectTimeout = 15 * time.Second

// Emitter is the part of a socket.io client the notifier uses.
type Emitter interface {
	Emit(ev string, args ...any) error
}

// Notifier implements loop.Observer by emitting events. A Notifier without
// an emitter does nothing.
type Notifier struct {
	emitter Emitter
	close   func()
}

// New wraps an emitter.
func New(e Emitter) *Notifier {
	return &Notifier{emitter: e}
}

// Options configure Dial.
type Options struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
}

// Dial connects to a socket.io server and waits for the handshake. An empty
// URL returns a no-op notifier.
func Dial(ctx context.Context, opts Options) (*Notifier, error) {
	if opts.URL == "" {
		return &Notifier{}, nil
	}
	logger := ctxlog.FromContext(ctx).With("notify_url", opts.URL)

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	sopts := socket.DefaultOptions()
	sopts.SetPath(parsedURL.Path)
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		sopts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sopts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)
	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, sopts)
	io := manager.Socket(opts.Namespace, sopts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Notifier connected", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err, _ := errs[0].(error)
		if err == nil {
			err = fmt.Errorf("%v", errs[0])
		}
		connectChan <- err
	})
	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return &Notifier{emitter: io, close: func() { io.Disconnect() }}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection")
	case <-time.After(connectTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", connectTimeout)
	}
}

// Close disconnects a dialed notifier.
func (n *Notifier) Close() {
	if n.close != nil {
		n.close()
	}
}

func (n *Notifier) emit(ctx context.Context, event string, payload map[string]any) {
	if n.emitter == nil {
		return
	}
	if err := n.emitter.Emit(event, payload); err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to emit event.", slog.String("event", event), slog.Any("error", err))
	}
}

func (n *Notifier) PlayBuilt(ctx context.Context, p *play.Play, q play.SequenceQueue) {
	n.emit(ctx, EventPlayBuilt, map[string]any{
		"title":        p.Title,
		"batches":      q.Len(),
		"frames_count": p.FramesCount,
	})
}

func (n *Notifier) Iteration(ctx context.Context, b *play.Batch, remaining int) {
	n.emit(ctx, EventPlayBatch, map[string]any{
		"index_play":   b.IndexPlay,
		"filename":     b.Filename,
		"frames_first": b.FramesFirst,
		"frames_last":  b.FramesLast,
		"frames_count": b.FramesCount,
		"remaining":    remaining,
	})
}

func (n *Notifier) Stopped(ctx context.Context, p *play.Play) {
	title := ""
	if p != nil {
		title = p.Title
	}
	n.emit(ctx, EventPlayStopped, map[string]any{"title": title})
}
