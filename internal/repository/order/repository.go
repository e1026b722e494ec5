package order

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/canteenhq/restro/internal/entity"
	"github.com/canteenhq/restro/internal/store"
	"github.com/canteenhq/restro/internal/timewindow"
)

var repoTracer = otel.Tracer("github.com/canteenhq/restro/repository/order")

// ErrNotFound is returned when an order is missing.
var ErrNotFound = errors.New("order not found")

// Repository encapsulates read/write access to the orders collection.
type Repository struct {
	collection *mongo.Collection
}

// NewRepository wires a repository backed by the document store.
func NewRepository(st *store.Store) *Repository {
	return &Repository{
		collection: st.Database.Collection("orders"),
	}
}

// EnsureIndexes creates the unique sparse index tying a payment reference to
// at most one order. Called once on startup.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "payment_ref", Value: 1}},
		Options: options.Index().SetUnique(true).SetSparse(true),
	})
	return err
}

// Create persists a new order.
func (r *Repository) Create(ctx context.Context, o *entity.Order) error {
	if o == nil {
		return errors.New("nil order")
	}
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Create", trace.WithAttributes(attribute.String("order.id", o.ID.String())))
	defer span.End()

	if _, err := r.collection.InsertOne(ctx, o); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return err
	}
	return nil
}

// GetByID fetches an order by its id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.GetByID", trace.WithAttributes(attribute.String("order.id", id.String())))
	defer span.End()

	var o entity.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "find failed")
		return nil, err
	}
	return &o, nil
}

// GetByPaymentRef fetches the order created for a given payment reference.
func (r *Repository) GetByPaymentRef(ctx context.Context, ref string) (*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.GetByPaymentRef")
	defer span.End()

	var o entity.Order
	err := r.collection.FindOne(ctx, bson.M{"payment_ref": ref}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "find failed")
		return nil, err
	}
	return &o, nil
}

// UpdateStatus atomically overwrites the status field and returns the
// updated document.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.UpdateStatus", trace.WithAttributes(
		attribute.String("order.id", id.String()),
		attribute.String("order.status", status),
	))
	defer span.End()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	res := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
		opts,
	)

	var o entity.Order
	err := res.Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return nil, err
	}
	return &o, nil
}

// FindByWindow returns all non-deleted orders created inside the inclusive
// window, merged with any extra equality filter. When sortDesc is set the
// result is ordered by creation time descending (listing use case);
// aggregations are order-independent and skip the sort.
func (r *Repository) FindByWindow(ctx context.Context, w timewindow.Window, extra bson.M, sortDesc bool) ([]entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.FindByWindow")
	defer span.End()

	filter := bson.M{
		"created_at": bson.M{"$gte": w.Start, "$lte": w.End},
		"status":     bson.M{"$ne": entity.StatusDeleted},
	}
	for k, v := range extra {
		filter[k] = v
	}

	opts := options.Find()
	if sortDesc {
		opts.SetSort(bson.D{{Key: "created_at", Value: -1}})
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "find failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var result []entity.Order
	if err := cursor.All(ctx, &result); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode failed")
		return nil, err
	}
	return result, nil
}
