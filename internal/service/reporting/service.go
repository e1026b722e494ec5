package reporting

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/canteenhq/restro/internal/cache"
	"github.com/canteenhq/restro/internal/config"
	"github.com/canteenhq/restro/internal/entity"
	"github.com/canteenhq/restro/internal/timewindow"
	"github.com/canteenhq/restro/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/canteenhq/restro/service/reporting")

// Ledger is the read capability the dashboards pull from.
type Ledger interface {
	FindByWindow(ctx context.Context, w timewindow.Window, extra bson.M, sortDesc bool) ([]entity.Order, error)
}

// Service answers time-windowed analytical queries over the order history.
// Results are read-committed snapshots cached briefly.
type Service struct {
	ledger   Ledger
	cache    cache.Store
	cacheTTL time.Duration
	logger   *zap.Logger
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Ledger Ledger
	Cache  cache.Store
	Config config.Config
	Logger *zap.Logger
}

// NewService wires a new reporting Service.
func NewService(p Params) *Service {
	return &Service{
		ledger:   p.Ledger,
		cache:    p.Cache,
		cacheTTL: p.Config.Reporting.CacheTTL,
		logger:   p.Logger,
	}
}

// Sales returns total revenue and order count for the period anchored at
// the given date (day when the period tag is empty).
func (s *Service) Sales(ctx context.Context, period, date string) (SalesSummary, error) {
	ctx, span := serviceTracer.Start(ctx, "ReportingService.Sales", trace.WithAttributes(
		attribute.String("reporting.period", period),
		attribute.String("reporting.date", date),
	))
	defer span.End()

	window, err := timewindow.ForPeriod(period, date)
	if err != nil {
		return SalesSummary{}, err
	}

	var summary SalesSummary
	key := cacheKey("sales", period, date)
	if s.fromCache(ctx, key, &summary) {
		return summary, nil
	}

	orders, err := s.query(ctx, span, window, nil)
	if err != nil {
		return SalesSummary{}, err
	}

	summary = SalesTotal(orders)
	s.toCache(ctx, key, summary)
	return summary, nil
}

// PeakHour returns the busiest civil hour of the given date.
func (s *Service) PeakHour(ctx context.Context, date string) (PeakHour, error) {
	ctx, span := serviceTracer.Start(ctx, "ReportingService.PeakHour", trace.WithAttributes(attribute.String("reporting.date", date)))
	defer span.End()

	window, err := timewindow.Day(date)
	if err != nil {
		return PeakHour{}, err
	}

	var peak PeakHour
	key := cacheKey("peakhour", date)
	if s.fromCache(ctx, key, &peak) {
		return peak, nil
	}

	orders, err := s.query(ctx, span, window, nil)
	if err != nil {
		return PeakHour{}, err
	}

	peak = BusiestHour(orders)
	s.toCache(ctx, key, peak)
	return peak, nil
}

// TopDish returns the best-selling dish for a single date or an arbitrary
// from/to range; nil when nothing was sold.
func (s *Service) TopDish(ctx context.Context, date, from, to string) (*DishCount, error) {
	ctx, span := serviceTracer.Start(ctx, "ReportingService.TopDish")
	defer span.End()

	window, err := resolveRange(date, from, to)
	if err != nil {
		return nil, err
	}

	var top *DishCount
	key := cacheKey("topdish", date, from, to)
	if s.fromCache(ctx, key, &top) {
		return top, nil
	}

	orders, err := s.query(ctx, span, window, nil)
	if err != nil {
		return nil, err
	}

	top = TopDish(orders)
	s.toCache(ctx, key, top)
	return top, nil
}

// RepeatCustomers ranks customers by order count over a date or range. When
// a name is given the result is that single customer's count, zero included.
func (s *Service) RepeatCustomers(ctx context.Context, date, from, to, name string) ([]CustomerOrders, error) {
	ctx, span := serviceTracer.Start(ctx, "ReportingService.RepeatCustomers")
	defer span.End()

	window, err := resolveRange(date, from, to)
	if err != nil {
		return nil, err
	}

	var extra bson.M
	if name != "" {
		extra = bson.M{"customer_name": name}
	}

	var ranked []CustomerOrders
	key := cacheKey("repeatcustomers", date, from, to, name)
	if s.fromCache(ctx, key, &ranked) {
		return ranked, nil
	}

	orders, err := s.query(ctx, span, window, extra)
	if err != nil {
		return nil, err
	}

	ranked = RepeatCustomers(orders)
	if name != "" {
		count := 0
		if len(ranked) > 0 {
			count = ranked[0].Orders
		}
		ranked = []CustomerOrders{{Name: name, Orders: count}}
	}

	s.toCache(ctx, key, ranked)
	return ranked, nil
}

func (s *Service) query(ctx context.Context, span trace.Span, window timewindow.Window, extra bson.M) ([]entity.Order, error) {
	orders, err := s.ledger.FindByWindow(ctx, window, extra, false)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ledger error")
		return nil, errorbank.Internal("failed to query orders", errorbank.WithCause(err))
	}
	return orders, nil
}

// resolveRange prefers an explicit from/to pair and falls back to a single
// civil day.
func resolveRange(date, from, to string) (timewindow.Window, error) {
	if from != "" && to != "" {
		return timewindow.Range(from, to)
	}
	return timewindow.Day(date)
}

func cacheKey(parts ...string) string {
	return cache.Key(append([]string{"dashboard"}, parts...)...)
}

func (s *Service) fromCache(ctx context.Context, key string, out any) bool {
	if s.cache == nil || s.cacheTTL <= 0 {
		return false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) && s.logger != nil {
			s.logger.Warn("dashboard cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false
	}
	return true
}

func (s *Service) toCache(ctx context.Context, key string, value any) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil && s.logger != nil {
		s.logger.Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}
