package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/canteenhq/restro/internal/broadcast"
)

// keepaliveInterval paces SSE comments that keep idle connections open
// through proxies.
const keepaliveInterval = 30 * time.Second

// Handler streams order lifecycle events to staff displays over SSE.
type Handler struct {
	broadcaster *broadcast.Broadcaster
	logger      *zap.Logger
}

// NewHandler constructs an events Handler.
func NewHandler(b *broadcast.Broadcaster, logger *zap.Logger) *Handler {
	return &Handler{broadcaster: b, logger: logger}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	e.GET("/api/events", h.stream)
}

func (h *Handler) stream(c echo.Context) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.Header().Set("X-Accel-Buffering", "no")
	res.WriteHeader(200)

	id, ch := h.broadcaster.Subscribe()
	defer h.broadcaster.Unsubscribe(id)

	if h.logger != nil {
		h.logger.Info("sse client connected", zap.String("subscriber_id", id.String()))
	}

	// Reconnection interval for EventSource clients.
	fmt.Fprintf(res, "retry: 2000\n\n")
	res.Flush()

	ticker := time.NewTicker(keepaliveInterval)
	defer ticker.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			if h.logger != nil {
				h.logger.Info("sse client disconnected", zap.String("subscriber_id", id.String()))
			}
			return nil

		case <-ticker.C:
			fmt.Fprintf(res, ": keepalive\n\n")
			res.Flush()

		case evt, ok := <-ch:
			if !ok {
				return nil
			}
			data, err := json.Marshal(evt.Payload)
			if err != nil {
				if h.logger != nil {
					h.logger.Error("marshal sse event", zap.Error(err))
				}
				continue
			}
			fmt.Fprintf(res, "event: %s\ndata: %s\n\n", evt.Kind, data)
			res.Flush()
		}
	}
}
