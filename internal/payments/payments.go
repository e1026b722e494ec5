// Package payments wraps the payment provider: intent creation via the
// Razorpay SDK and HMAC signature verification of completed payments.
package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	razorpay "github.com/razorpay/razorpay-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/canteenhq/restro/internal/config"
	"github.com/canteenhq/restro/internal/observability"
	"github.com/canteenhq/restro/pkg/errorbank"
)

var tracer = otel.Tracer("github.com/canteenhq/restro/payments")

// Intent is a provider-issued handle for an authorized amount. Amount is in
// minor currency units.
type Intent struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// IntentCreator is the outbound provider capability.
type IntentCreator interface {
	CreateIntent(ctx context.Context, amountMinor int64, currency, receipt string) (Intent, error)
}

// Provider creates payment intents and verifies completion signatures.
type Provider struct {
	creator  IntentCreator
	secret   string
	currency string
	logger   *zap.Logger
}

// Params defines dependencies for constructing Provider.
type Params struct {
	fx.In

	Config config.Config
	Logger *zap.Logger
}

// Module wires the payment provider.
var Module = fx.Provide(NewProvider)

// NewProvider builds a Provider backed by the Razorpay client.
func NewProvider(p Params) *Provider {
	client := razorpay.NewClient(p.Config.Payments.KeyID, p.Config.Payments.KeySecret)
	return New(razorpayCreator{client: client}, p.Config.Payments, p.Logger)
}

// New builds a Provider with an explicit creator, used by tests.
func New(creator IntentCreator, cfg config.Payments, logger *zap.Logger) *Provider {
	return &Provider{
		creator:  creator,
		secret:   cfg.KeySecret,
		currency: cfg.Currency,
		logger:   logger,
	}
}

// CreateIntent validates the amount (major units), converts it to minor
// units, and asks the provider for an intent. A non-positive amount is
// rejected before any provider call.
func (p *Provider) CreateIntent(ctx context.Context, amount float64) (Intent, error) {
	ctx, span := tracer.Start(ctx, "Payments.CreateIntent", trace.WithAttributes(attribute.Float64("payment.amount", amount)))
	defer span.End()

	if amount <= 0 {
		span.SetStatus(codes.Error, "invalid amount")
		return Intent{}, errorbank.BadRequest("invalid amount")
	}

	minor := int64(math.Round(amount * 100))
	receipt := fmt.Sprintf("mh_%d", time.Now().UnixMilli())

	intent, err := p.creator.CreateIntent(ctx, minor, p.currency, receipt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider call failed")
		if p.logger != nil {
			p.logger.Error("create payment intent failed", zap.Error(err))
		}
		return Intent{}, errorbank.Internal("failed to create payment order", errorbank.WithCause(err))
	}

	return intent, nil
}

// Verify recomputes the HMAC-SHA256 hex digest of "orderRef|payRef" with the
// provider secret and compares it against the claimed signature. A mismatch
// is a plain false, not an error.
func (p *Provider) Verify(orderRef, payRef, signature string) bool {
	mac := hmac.New(sha256.New, []byte(p.secret))
	mac.Write([]byte(orderRef + "|" + payRef))
	expected := hex.EncodeToString(mac.Sum(nil))
	ok := hmac.Equal([]byte(expected), []byte(signature))
	if ok {
		observability.PaymentVerifications.WithLabelValues("ok").Inc()
	} else {
		observability.PaymentVerifications.WithLabelValues("rejected").Inc()
	}
	return ok
}

// razorpayCreator adapts the Razorpay SDK to IntentCreator.
type razorpayCreator struct {
	client *razorpay.Client
}

func (r razorpayCreator) CreateIntent(_ context.Context, amountMinor int64, currency, receipt string) (Intent, error) {
	data := map[string]interface{}{
		"amount":          amountMinor,
		"currency":        currency,
		"receipt":         receipt,
		"payment_capture": 1,
	}

	body, err := r.client.Order.Create(data, nil)
	if err != nil {
		return Intent{}, fmt.Errorf("razorpay order create: %w", err)
	}

	intent := Intent{Amount: amountMinor, Currency: currency}
	if id, ok := body["id"].(string); ok {
		intent.ID = id
	}
	if amt, ok := body["amount"].(float64); ok {
		intent.Amount = int64(amt)
	}
	if cur, ok := body["currency"].(string); ok {
		intent.Currency = cur
	}
	return intent, nil
}
