package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/areaselector/internal/core/domain"
	"github.com/samirrijal/areaselector/internal/pkg/metrics"
)

// wsMessage is sent from client to dispatch input or manage subscriptions.
type wsMessage struct {
	Action  string             `json:"action"`  // "event" | "subscribe" | "unsubscribe"
	Channel string             `json:"channel"` // "polygons" | "collection" | "exports"
	Event   *domain.InputEvent `json:"event,omitempty"`
}

// wsChannels maps client channel names to NATS subjects. "surface" is the
// default subscription. Subscribing to a channel that overlaps an active one
// replaces it, so no message is relayed twice.
var wsChannels = map[string]string{
	"surface":    wsDefaultSubject,
	"polygons":   "areaselector.surface.polygon.>",
	"collection": "areaselector.surface.collection",
	"exports":    "areaselector.exports.>",
}

const wsDefaultSubject = "areaselector.surface.>"

// subjectCovers reports whether every subject matched by narrow is also
// matched by wide. Only the trailing ">" wildcard is considered.
func subjectCovers(wide, narrow string) bool {
	if wide == narrow {
		return true
	}
	prefix, ok := strings.CutSuffix(wide, ">")
	return ok && strings.HasPrefix(narrow, prefix)
}

// overlappingSubjects returns the active subjects that share messages with
// subject, in sorted order.
func overlappingSubjects(subject string, active []string) []string {
	var out []string
	for _, a := range active {
		if a != subject && (subjectCovers(a, subject) || subjectCovers(subject, a)) {
			out = append(out, a)
		}
	}
	slices.Sort(out)
	return out
}

// dispatchInput hands a client event to the shared input consumer when a
// broker is configured, and to the local dispatcher otherwise.
func dispatchInput(ctx context.Context, deps *Dependencies, ev *domain.InputEvent) (fiber.Map, error) {
	if deps.Input != nil {
		if err := deps.Input.PublishInput(ctx, ev); err != nil {
			return nil, err
		}
		return fiber.Map{"status": "queued"}, nil
	}
	res, err := deps.Dispatcher.Dispatch(ctx, ev)
	if err != nil {
		return nil, err
	}
	return fiber.Map{"result": res}, nil
}

// WebSocketHandler returns a handler that upgrades to WebSocket, relays
// surface commands from NATS and dispatches input events sent by the client.
// Clients send JSON such as {"action":"event","event":{"kind":"key_down","key":16}}
// or {"action":"subscribe","channel":"exports"}. With an input publisher,
// events are queued for the durable input consumer and their results arrive
// as surface commands. Without NATS only event dispatch is available.
func WebSocketHandler(deps *Dependencies) func(*websocket.Conn) {
	nc := deps.NATS

	return func(c *websocket.Conn) {
		defer c.Close()

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		remoteAddr := c.RemoteAddr().String()
		slog.Info("ws client connected", "remote", remoteAddr)

		var mu sync.Mutex
		subs := make(map[string]*nats.Subscription) // subject -> subscription

		// Helper: thread-safe write
		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		subscribe := func(subject string) error {
			s, err := nc.Subscribe(subject, func(msg *nats.Msg) {
				_ = writeJSON(json.RawMessage(msg.Data))
			})
			if err != nil {
				return err
			}
			subs[subject] = s
			return nil
		}

		// Every surface command by default
		if nc != nil {
			if err := subscribe(wsDefaultSubject); err != nil {
				slog.Error("ws default subscribe", "error", err)
				return
			}
		}

		// Keep-alive ping
		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}

			if m.Action == "event" {
				if m.Event == nil {
					_ = writeJSON(map[string]string{"error": "event is required"})
					continue
				}
				ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
				reply, err := dispatchInput(ctx, deps, m.Event)
				cancel()
				if err != nil {
					_ = writeJSON(map[string]string{"error": err.Error()})
					continue
				}
				_ = writeJSON(reply)
				continue
			}

			if nc == nil {
				_ = writeJSON(map[string]string{"error": "relay not available"})
				continue
			}

			subject, ok := wsChannels[m.Channel]
			if !ok {
				_ = writeJSON(map[string]string{"error": "unknown channel: " + m.Channel})
				continue
			}

			switch m.Action {
			case "subscribe":
				if _, exists := subs[subject]; exists {
					_ = writeJSON(map[string]string{"status": "already subscribed", "subject": subject})
					continue
				}
				if err := subscribe(subject); err != nil {
					_ = writeJSON(map[string]string{"error": "subscribe failed: " + err.Error()})
					continue
				}
				replaced := overlappingSubjects(subject, slices.Collect(maps.Keys(subs)))
				for _, old := range replaced {
					_ = subs[old].Unsubscribe()
					delete(subs, old)
				}
				_ = writeJSON(fiber.Map{"status": "subscribed", "subject": subject, "replaced": replaced})

			case "unsubscribe":
				if s, exists := subs[subject]; exists {
					_ = s.Unsubscribe()
					delete(subs, subject)
					_ = writeJSON(map[string]string{"status": "unsubscribed", "subject": subject})
				} else {
					_ = writeJSON(map[string]string{"error": "not subscribed to " + subject})
				}

			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		// Cleanup
		close(done)
		for _, s := range subs {
			_ = s.Unsubscribe()
		}
		slog.Info("ws client disconnected", "remote", remoteAddr)
	}
}
