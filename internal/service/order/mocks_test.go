package order

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/canteenhq/restro/internal/entity"
	repo "github.com/canteenhq/restro/internal/repository/order"
	"github.com/canteenhq/restro/internal/timewindow"
)

// MockRepository is a mock implementation of Repository for testing.
type MockRepository struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*entity.Order

	CreateFunc          func(ctx context.Context, o *entity.Order) error
	GetByIDFunc         func(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	GetByPaymentRefFunc func(ctx context.Context, ref string) (*entity.Order, error)
	UpdateStatusFunc    func(ctx context.Context, id uuid.UUID, status string) (*entity.Order, error)
	FindByWindowFunc    func(ctx context.Context, w timewindow.Window, extra bson.M, sortDesc bool) ([]entity.Order, error)
}

func NewMockRepository() *MockRepository {
	return &MockRepository{orders: make(map[uuid.UUID]*entity.Order)}
}

func (m *MockRepository) Create(ctx context.Context, o *entity.Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, o)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID] = o
	return nil
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return o, nil
}

func (m *MockRepository) GetByPaymentRef(ctx context.Context, ref string) (*entity.Order, error) {
	if m.GetByPaymentRefFunc != nil {
		return m.GetByPaymentRefFunc(ctx, ref)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, o := range m.orders {
		if o.PaymentRef == ref {
			return o, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *MockRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*entity.Order, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	o.Status = status
	return o, nil
}

func (m *MockRepository) FindByWindow(ctx context.Context, w timewindow.Window, extra bson.M, sortDesc bool) ([]entity.Order, error) {
	if m.FindByWindowFunc != nil {
		return m.FindByWindowFunc(ctx, w, extra, sortDesc)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []entity.Order
	for _, o := range m.orders {
		if w.Contains(o.CreatedAt) && !o.Deleted() {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *MockRepository) Stored(id uuid.UUID) *entity.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.orders[id]
}

func (m *MockRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.orders)
}

// MockVerifier is a mock implementation of Verifier for testing.
type MockVerifier struct {
	VerifyFunc func(orderRef, payRef, signature string) bool
	calls      int
}

func (m *MockVerifier) Verify(orderRef, payRef, signature string) bool {
	m.calls++
	if m.VerifyFunc != nil {
		return m.VerifyFunc(orderRef, payRef, signature)
	}
	return true
}

// MockBroadcaster records published events for testing.
type MockBroadcaster struct {
	mu     sync.Mutex
	events []broadcastEvent
}

type broadcastEvent struct {
	kind    string
	payload any
}

func (m *MockBroadcaster) Publish(kind string, payload any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, broadcastEvent{kind: kind, payload: payload})
}

func (m *MockBroadcaster) Events() []broadcastEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]broadcastEvent(nil), m.events...)
}
