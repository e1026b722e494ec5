package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/canteenhq/restro/internal/broadcast"
	"github.com/canteenhq/restro/internal/cache"
	"github.com/canteenhq/restro/internal/config"
	"github.com/canteenhq/restro/internal/dto"
	"github.com/canteenhq/restro/internal/entity"
	"github.com/canteenhq/restro/internal/messaging"
	"github.com/canteenhq/restro/internal/observability"
	repo "github.com/canteenhq/restro/internal/repository/order"
	"github.com/canteenhq/restro/internal/timewindow"
	"github.com/canteenhq/restro/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/canteenhq/restro/service/order")

// Repository is the ledger's persistence capability.
type Repository interface {
	Create(ctx context.Context, o *entity.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	GetByPaymentRef(ctx context.Context, ref string) (*entity.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*entity.Order, error)
	FindByWindow(ctx context.Context, w timewindow.Window, extra bson.M, sortDesc bool) ([]entity.Order, error)
}

// Verifier authenticates completed-payment proofs.
type Verifier interface {
	Verify(orderRef, payRef, signature string) bool
}

// Broadcaster pushes lifecycle events to connected observers.
type Broadcaster interface {
	Publish(kind string, payload any)
}

// Service is the order ledger: creation, status transitions, and window
// queries, with live fan-out after every successful write.
type Service struct {
	repo        Repository
	verifier    Verifier
	broadcaster Broadcaster
	cache       cache.Store
	cacheTTL    time.Duration
	logger      *zap.Logger
	publisher   messaging.Client
	messaging   messagingConfig
	statuses    map[string]struct{}
}

// messagingConfig contains messaging specific knobs we care about.
type messagingConfig struct {
	enabled bool
	topic   string
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository  Repository
	Verifier    Verifier
	Broadcaster Broadcaster
	Cache       cache.Store
	Config      config.Config
	Logger      *zap.Logger
	Publisher   messaging.Client
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	statuses := make(map[string]struct{}, len(p.Config.Orders.AllowedStatuses))
	for _, s := range p.Config.Orders.AllowedStatuses {
		statuses[s] = struct{}{}
	}

	return &Service{
		repo:        p.Repository,
		verifier:    p.Verifier,
		broadcaster: p.Broadcaster,
		cache:       p.Cache,
		cacheTTL:    p.Config.Cache.DefaultTTL,
		logger:      p.Logger,
		publisher:   p.Publisher,
		messaging: messagingConfig{
			enabled: p.Config.Messaging.Enabled,
			topic:   p.Config.Messaging.Kafka.Topic,
		},
		statuses: statuses,
	}
}

// Place creates an order from the payload: total is computed once here,
// creation time is stamped by the ledger, status starts as incoming. The
// broadcast happens only after the write succeeded.
func (s *Service) Place(ctx context.Context, payload dto.OrderPayload) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Place", trace.WithAttributes(attribute.String("order.type", payload.OrderType)))
	defer span.End()

	order := s.buildOrder(payload)

	if err := s.repo.Create(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to create order", errorbank.WithCause(err))
	}

	observability.OrdersPlaced.Inc()
	s.afterWrite(ctx, broadcast.KindNewOrder, order)
	return order, nil
}

// PlaceVerified authenticates the payment proof first; on a signature
// mismatch nothing is persisted. A payment reference that already produced
// an order is rejected rather than creating a duplicate.
func (s *Service) PlaceVerified(ctx context.Context, payload dto.OrderPayload, proof dto.VerifyAndCreateRequest) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.PlaceVerified", trace.WithAttributes(attribute.String("payment.ref", proof.RazorpayPaymentID)))
	defer span.End()

	if !s.verifier.Verify(proof.RazorpayOrderID, proof.RazorpayPaymentID, proof.RazorpaySignature) {
		span.SetStatus(codes.Error, "signature mismatch")
		if s.logger != nil {
			s.logger.Warn("payment signature mismatch", zap.String("payment_ref", proof.RazorpayPaymentID))
		}
		return nil, errorbank.PaymentRejected("invalid payment signature")
	}

	existing, err := s.repo.GetByPaymentRef(ctx, proof.RazorpayPaymentID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to check payment reference", errorbank.WithCause(err))
	}
	if existing != nil {
		span.SetStatus(codes.Error, "duplicate payment")
		return nil, errorbank.Conflict("payment already used",
			errorbank.WithDetail("order_id", existing.ID.String()))
	}

	order := s.buildOrder(payload)
	order.PaymentRef = proof.RazorpayPaymentID

	if err := s.repo.Create(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to create order", errorbank.WithCause(err))
	}

	observability.OrdersPlaced.Inc()
	s.afterWrite(ctx, broadcast.KindNewOrder, order)
	return order, nil
}

// Get retrieves an order by id, consulting cache when available.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Get", trace.WithAttributes(attribute.String("order.id", id.String())))
	defer span.End()

	if order, err := s.getFromCache(ctx, id); err == nil {
		return order, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		if s.logger != nil {
			s.logger.Warn("orders cache read failed", zap.String("id", id.String()), zap.Error(err))
		}
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("order not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}

	if err := s.storeInCache(ctx, order); err != nil {
		if s.logger != nil {
			s.logger.Warn("orders cache write failed", zap.String("id", id.String()), zap.Error(err))
		}
	}

	return order, nil
}

// UpdateStatus overwrites the status field of an existing order. The new
// status must be on the configured allow-list; any value there is accepted
// regardless of the current status. No event is emitted when the order does
// not exist.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.UpdateStatus", trace.WithAttributes(
		attribute.String("order.id", id.String()),
		attribute.String("order.status", status),
	))
	defer span.End()

	if _, ok := s.statuses[status]; !ok {
		span.SetStatus(codes.Error, "invalid status")
		return nil, errorbank.BadRequest("invalid status: " + status)
	}

	order, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("order not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to update order", errorbank.WithCause(err))
	}

	observability.StatusUpdates.Inc()
	s.afterWrite(ctx, broadcast.KindOrderUpdated, order)
	return order, nil
}

// ListByDay returns all non-deleted orders of the given civil date, newest
// first. An empty date means the current civil date.
func (s *Service) ListByDay(ctx context.Context, date string) ([]entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.ListByDay", trace.WithAttributes(attribute.String("orders.date", date)))
	defer span.End()

	window, err := timewindow.Day(date)
	if err != nil {
		return nil, err
	}

	orders, err := s.repo.FindByWindow(ctx, window, nil, true)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list orders", errorbank.WithCause(err))
	}
	return orders, nil
}

func (s *Service) buildOrder(payload dto.OrderPayload) *entity.Order {
	items := make([]entity.OrderItem, 0, len(payload.Items))
	for _, it := range payload.Items {
		items = append(items, entity.OrderItem{Name: it.Name, Price: it.Price, Qty: it.Qty})
	}

	return &entity.Order{
		ID:                 uuid.New(),
		OrderType:          payload.OrderType,
		CustomerName:       payload.CustomerName,
		RegistrationNumber: payload.RegistrationNumber,
		Mobile:             payload.Mobile,
		TableNumber:        payload.TableNumber,
		Address:            payload.Address,
		Items:              items,
		Total:              entity.ItemsTotal(items),
		Status:             entity.StatusIncoming,
		CreatedAt:          time.Now().UTC(),
	}
}

// afterWrite runs the post-persistence fan-out: cache refresh, live
// broadcast, and the bus event. Persistence has already succeeded.
func (s *Service) afterWrite(ctx context.Context, kind string, order *entity.Order) {
	if err := s.storeInCache(ctx, order); err != nil {
		if s.logger != nil {
			s.logger.Warn("orders cache write failed", zap.String("id", order.ID.String()), zap.Error(err))
		}
	}

	if s.broadcaster != nil {
		s.broadcaster.Publish(kind, order)
	}

	s.publishEvent(ctx, kind, order)
}

func (s *Service) publishEvent(ctx context.Context, kind string, order *entity.Order) {
	if !s.messaging.enabled || s.publisher == nil {
		return
	}
	event := OrderEvent{
		Kind:      kind,
		ID:        order.ID,
		OrderType: order.OrderType,
		Status:    order.Status,
		Total:     order.Total,
		CreatedAt: order.CreatedAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("marshal order event", zap.Error(err))
		}
		return
	}
	if err := s.publisher.Publish(ctx, []byte(fmt.Sprintf("order-%s", order.ID)), payload); err != nil {
		if s.logger != nil {
			s.logger.Error("publish order event", zap.Error(err))
		}
	}
}

func (s *Service) cacheKey(id uuid.UUID) string {
	return cache.Key("orders", id.String())
}

func (s *Service) getFromCache(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	if s.cache == nil {
		return nil, cache.ErrCacheMiss
	}
	bytes, err := s.cache.Get(ctx, s.cacheKey(id))
	if err != nil {
		return nil, err
	}
	var order entity.Order
	if err := json.Unmarshal(bytes, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Service) storeInCache(ctx context.Context, order *entity.Order) error {
	if s.cache == nil || order == nil {
		return nil
	}
	bytes, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, s.cacheKey(order.ID), bytes, s.cacheTTL)
}

// OrderEvent is emitted on the bus after an order is created or updated.
type OrderEvent struct {
	Kind      string    `json:"kind"`
	ID        uuid.UUID `json:"id"`
	OrderType string    `json:"orderType"`
	Status    string    `json:"status"`
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"createdAt"`
}
