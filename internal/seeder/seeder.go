package seeder

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/canteenhq/restro/internal/database"
	"github.com/canteenhq/restro/internal/entity"
)

// Seeder performs database seeding for local/dev setups.
type Seeder struct {
	db     *bun.DB
	logger *zap.Logger
}

// New constructs a Seeder backed by the primary database connection.
func New(conns *database.Connections, logger *zap.Logger) *Seeder {
	return &Seeder{db: conns.Writer, logger: logger}
}

// Menu seeds a starter menu catalog if the items are missing.
func (s *Seeder) Menu(ctx context.Context) error {
	now := time.Now().UTC()
	samples := []entity.MenuItem{
		{Name: "Masala Dosa", Category: "South Indian", Price: 80, Available: true, CreatedAt: now, UpdatedAt: now},
		{Name: "Veg Biryani", Category: "Rice", Price: 120, Available: true, CreatedAt: now, UpdatedAt: now},
		{Name: "Paneer Roll", Category: "Snacks", Price: 90, Available: true, CreatedAt: now, UpdatedAt: now},
		{Name: "Filter Coffee", Category: "Beverages", Price: 30, Available: true, CreatedAt: now, UpdatedAt: now},
	}

	for _, sample := range samples {
		item := sample
		_, err := s.db.NewInsert().Model(&item).
			On("CONFLICT (name) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
	}

	if s.logger != nil {
		s.logger.Info("seeded menu items", zap.Int("count", len(samples)))
	}
	return nil
}
