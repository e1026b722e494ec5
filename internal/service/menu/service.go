package menu

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/canteenhq/restro/internal/entity"
	repo "github.com/canteenhq/restro/internal/repository/menu"
	"github.com/canteenhq/restro/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/canteenhq/restro/service/menu")

// Catalog is the persistence capability behind the menu.
type Catalog interface {
	List(ctx context.Context) ([]entity.MenuItem, error)
	Replace(ctx context.Context, items []entity.MenuItem) error
}

// Service manages the dish catalog.
type Service struct {
	repo   Catalog
	logger *zap.Logger
}

// Module provides the menu service to Fx.
var Module = fx.Options(
	fx.Provide(NewService),
	fx.Provide(func(r *repo.Repository) Catalog { return r }),
)

// NewService wires a new menu Service.
func NewService(r Catalog, logger *zap.Logger) *Service {
	return &Service{repo: r, logger: logger}
}

// List returns the current catalog.
func (s *Service) List(ctx context.Context) ([]entity.MenuItem, error) {
	ctx, span := serviceTracer.Start(ctx, "MenuService.List")
	defer span.End()

	items, err := s.repo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load menu", errorbank.WithCause(err))
	}
	return items, nil
}

// Replace swaps the entire catalog. Every item needs a name and a
// non-negative price.
func (s *Service) Replace(ctx context.Context, items []entity.MenuItem) error {
	ctx, span := serviceTracer.Start(ctx, "MenuService.Replace")
	defer span.End()

	now := time.Now().UTC()
	for i := range items {
		if items[i].Name == "" {
			return errorbank.BadRequest("menu item name is required")
		}
		if items[i].Price < 0 {
			return errorbank.BadRequest("menu item price must not be negative")
		}
		items[i].CreatedAt = now
		items[i].UpdatedAt = now
	}

	if err := s.repo.Replace(ctx, items); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to save menu", errorbank.WithCause(err))
	}

	if s.logger != nil {
		s.logger.Info("menu replaced", zap.Int("items", len(items)))
	}
	return nil
}
