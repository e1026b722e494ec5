package payments

import (
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/canteenhq/restro/internal/dto"
	"github.com/canteenhq/restro/internal/entity"
	paysvc "github.com/canteenhq/restro/internal/payments"
	"github.com/canteenhq/restro/internal/presentation/http/response"
	ordersvc "github.com/canteenhq/restro/internal/service/order"
	"github.com/canteenhq/restro/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/canteenhq/restro/transport/http/payments")

// Handler exposes the payment endpoints: intent creation and the
// verify-then-create-order gate.
type Handler struct {
	provider *paysvc.Provider
	orders   *ordersvc.Service
}

// NewHandler constructs a payments Handler.
func NewHandler(provider *paysvc.Provider, orders *ordersvc.Service) *Handler {
	return &Handler{provider: provider, orders: orders}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/api/payments")
	g.POST("/create-order", h.createIntent)
	g.POST("/verify-and-create-order", h.verifyAndCreate)
}

func (h *Handler) createIntent(c echo.Context) error {
	b := response.New(c)

	var payload dto.CreateIntentRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "payments.createIntent", trace.WithAttributes(attribute.Float64("payment.amount", payload.Amount)))
	defer span.End()

	intent, err := h.provider.CreateIntent(ctx, payload.Amount)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(intent).Build()
}

// verifyAndCreateResponse is the success body of the verified-order path.
type verifyAndCreateResponse struct {
	Success           bool          `json:"success"`
	Order             *entity.Order `json:"order"`
	RazorpayPaymentID string        `json:"razorpay_payment_id"`
	RazorpayOrderID   string        `json:"razorpay_order_id"`
}

func (h *Handler) verifyAndCreate(c echo.Context) error {
	b := response.New(c)

	var payload dto.VerifyAndCreateRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}
	if payload.RazorpayOrderID == "" || payload.RazorpayPaymentID == "" || payload.RazorpaySignature == "" {
		return b.WithError(errorbank.BadRequest("Missing payment details")).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "payments.verifyAndCreate", trace.WithAttributes(attribute.String("payment.ref", payload.RazorpayPaymentID)))
	defer span.End()

	order, err := h.orders.PlaceVerified(ctx, payload.OrderPayload, payload)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(verifyAndCreateResponse{
		Success:           true,
		Order:             order,
		RazorpayPaymentID: payload.RazorpayPaymentID,
		RazorpayOrderID:   payload.RazorpayOrderID,
	}).Build()
}
