package dashboard

import (
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/canteenhq/restro/internal/presentation/http/response"
	"github.com/canteenhq/restro/internal/service/reporting"
)

var httpTracer = otel.Tracer("github.com/canteenhq/restro/transport/http/dashboard")

// Handler exposes the analytical dashboard endpoints.
type Handler struct {
	svc *reporting.Service
}

// NewHandler constructs a dashboard Handler.
func NewHandler(svc *reporting.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/api/dashboard")
	g.GET("/sales", h.sales)
	g.GET("/peakhour", h.peakHour)
	g.GET("/topdish", h.topDish)
	g.GET("/repeatcustomers", h.repeatCustomers)
}

func (h *Handler) sales(c echo.Context) error {
	b := response.New(c)
	period := c.QueryParam("period")
	date := c.QueryParam("date")

	ctx, span := httpTracer.Start(c.Request().Context(), "dashboard.sales", trace.WithAttributes(
		attribute.String("reporting.period", period),
		attribute.String("reporting.date", date),
	))
	defer span.End()

	summary, err := h.svc.Sales(ctx, period, date)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(summary).Build()
}

func (h *Handler) peakHour(c echo.Context) error {
	b := response.New(c)
	date := c.QueryParam("date")

	ctx, span := httpTracer.Start(c.Request().Context(), "dashboard.peakHour", trace.WithAttributes(attribute.String("reporting.date", date)))
	defer span.End()

	peak, err := h.svc.PeakHour(ctx, date)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(peak).Build()
}

func (h *Handler) topDish(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "dashboard.topDish")
	defer span.End()

	top, err := h.svc.TopDish(ctx, c.QueryParam("date"), c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return b.WithError(err).Build()
	}
	// Nil marshals to JSON null when nothing was sold in the window.
	return b.WithData(top).Build()
}

func (h *Handler) repeatCustomers(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "dashboard.repeatCustomers")
	defer span.End()

	ranked, err := h.svc.RepeatCustomers(ctx,
		c.QueryParam("date"),
		c.QueryParam("from"),
		c.QueryParam("to"),
		c.QueryParam("name"),
	)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(ranked).Build()
}
