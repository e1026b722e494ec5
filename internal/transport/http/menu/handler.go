package menu

import (
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"

	"github.com/canteenhq/restro/internal/entity"
	"github.com/canteenhq/restro/internal/presentation/http/response"
	service "github.com/canteenhq/restro/internal/service/menu"
	"github.com/canteenhq/restro/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/canteenhq/restro/transport/http/menu")

// Handler exposes the dish catalog over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a menu Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	e.GET("/api/menu", h.list)
	e.PUT("/api/menu", h.replace)
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "menu.list")
	defer span.End()

	items, err := h.svc.List(ctx)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(items).Build()
}

func (h *Handler) replace(c echo.Context) error {
	b := response.New(c)

	var items []entity.MenuItem
	if err := c.Bind(&items); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "menu.replace")
	defer span.End()

	if err := h.svc.Replace(ctx, items); err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(map[string]bool{"success": true}).Build()
}
