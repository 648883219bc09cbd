package http

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/planora/backoffice/internal/adapters/nats"
	"github.com/planora/backoffice/internal/core/domain"
	"github.com/planora/backoffice/internal/pkg/metrics"
)

// WebSocketUpgrade upgrades an authenticated request and relays the
// caller's own trip and dashboard events.
func WebSocketUpgrade(nc *nats.Conn) fiber.Handler {
	return websocket.New(WebSocketHandler(nc))
}

// WebSocketHandler relays NATS events for the connected owner. Each
// message is the JSON event as published. Client frames are ignored
// apart from close.
func WebSocketHandler(nc *nats.Conn) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		user, ok := c.Locals(userLocalsKey).(domain.User)
		if !ok || user.ID == "" {
			_ = c.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unauthorized"))
			return
		}
		if nc == nil {
			_ = c.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "events unavailable"))
			return
		}

		log := slog.Default().With("owner", user.ID, "remote", c.RemoteAddr().String())
		log.Info("ws client connected")
		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		var mu sync.Mutex
		writeJSON := func(data []byte) error {
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		var subs []*nats.Subscription
		defer func() {
			for _, s := range subs {
				_ = s.Unsubscribe()
			}
		}()
		for _, subject := range []string{
			natsadapter.OwnerTripSubjects(user.ID),
			natsadapter.DashboardSubject(user.ID),
		} {
			sub, err := nc.Subscribe(subject, func(msg *nats.Msg) {
				if !json.Valid(msg.Data) {
					return
				}
				_ = writeJSON(msg.Data)
			})
			if err != nil {
				log.Error("ws subscribe", "subject", subject, "error", err)
				return
			}
			subs = append(subs, sub)
		}

		// Keep-alive ping
		done := make(chan struct{})
		defer close(done)
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
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
		log.Info("ws client disconnected")
	}
}
