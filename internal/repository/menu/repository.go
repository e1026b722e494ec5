package menu

import (
	"context"
	"errors"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/canteenhq/restro/internal/database"
	"github.com/canteenhq/restro/internal/entity"
)

var repoTracer = otel.Tracer("github.com/canteenhq/restro/repository/menu")

// Repository encapsulates read/write access to the menu catalog.
type Repository struct {
	writer *bun.DB
	reader *bun.DB
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{
		writer: conns.Writer,
		reader: conns.Reader,
	}
}

// List returns the full catalog using the read replica when available.
func (r *Repository) List(ctx context.Context) ([]entity.MenuItem, error) {
	ctx, span := repoTracer.Start(ctx, "MenuRepository.List")
	defer span.End()

	var items []entity.MenuItem
	err := r.reader.NewSelect().Model(&items).Order("category", "name").Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return items, nil
}

// Replace swaps the whole catalog for the provided items in one transaction.
func (r *Repository) Replace(ctx context.Context, items []entity.MenuItem) error {
	if items == nil {
		return errors.New("nil menu items")
	}
	ctx, span := repoTracer.Start(ctx, "MenuRepository.Replace")
	defer span.End()

	err := r.writer.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*entity.MenuItem)(nil)).Where("TRUE").Exec(ctx); err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		_, err := tx.NewInsert().Model(&items).Exec(ctx)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "replace failed")
	}
	return err
}
