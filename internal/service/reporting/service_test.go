package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/canteenhq/restro/internal/config"
	"github.com/canteenhq/restro/internal/entity"
	"github.com/canteenhq/restro/internal/timewindow"
	"github.com/canteenhq/restro/pkg/errorbank"
)

// MockLedger is a mock implementation of Ledger for testing.
type MockLedger struct {
	FindByWindowFunc func(ctx context.Context, w timewindow.Window, extra bson.M, sortDesc bool) ([]entity.Order, error)

	lastWindow timewindow.Window
	lastExtra  bson.M
}

func (m *MockLedger) FindByWindow(ctx context.Context, w timewindow.Window, extra bson.M, sortDesc bool) ([]entity.Order, error) {
	m.lastWindow = w
	m.lastExtra = extra
	if m.FindByWindowFunc != nil {
		return m.FindByWindowFunc(ctx, w, extra, sortDesc)
	}
	return nil, nil
}

func newTestService(ledger Ledger) *Service {
	return NewService(Params{
		Ledger: ledger,
		Cache:  nil,
		Config: config.Config{},
		Logger: zap.NewNop(),
	})
}

func TestSales(t *testing.T) {
	ledger := &MockLedger{
		FindByWindowFunc: func(context.Context, timewindow.Window, bson.M, bool) ([]entity.Order, error) {
			return []entity.Order{{Total: 100}, {Total: 250}, {Total: 150}}, nil
		},
	}
	svc := newTestService(ledger)

	got, err := svc.Sales(context.Background(), "day", "2024-03-15")
	if err != nil {
		t.Fatalf("Sales() error = %v", err)
	}
	if got.Total != 500 || got.Count != 3 {
		t.Errorf("Sales() = %+v, want total 500 count 3", got)
	}

	wantStart := time.Date(2024, 3, 15, 0, 0, 0, 0, timewindow.Location)
	if !ledger.lastWindow.Start.Equal(wantStart) {
		t.Errorf("queried window start = %v, want %v", ledger.lastWindow.Start, wantStart)
	}
}

func TestSalesInvalidPeriod(t *testing.T) {
	svc := newTestService(&MockLedger{})

	_, err := svc.Sales(context.Background(), "quarter", "2024-03-15")
	if err == nil {
		t.Fatal("Sales() expected error for unknown period")
	}
	var appErr *errorbank.AppError
	if !errors.As(err, &appErr) || appErr.Kind() != errorbank.KindBadRequest {
		t.Errorf("Sales() error = %v, want bad request", err)
	}
}

func TestSalesLedgerFailure(t *testing.T) {
	ledger := &MockLedger{
		FindByWindowFunc: func(context.Context, timewindow.Window, bson.M, bool) ([]entity.Order, error) {
			return nil, errors.New("connection reset")
		},
	}
	svc := newTestService(ledger)

	_, err := svc.Sales(context.Background(), "", "2024-03-15")
	if err == nil {
		t.Fatal("Sales() expected error")
	}
	var appErr *errorbank.AppError
	if !errors.As(err, &appErr) || appErr.Kind() != errorbank.KindInternal {
		t.Errorf("Sales() error = %v, want internal", err)
	}
}

func TestPeakHourEmptyDay(t *testing.T) {
	svc := newTestService(&MockLedger{})

	got, err := svc.PeakHour(context.Background(), "2024-03-15")
	if err != nil {
		t.Fatalf("PeakHour() error = %v", err)
	}
	if got.Hour != "-" || got.Count != 0 {
		t.Errorf("PeakHour() = %+v, want {- 0}", got)
	}
}

func TestTopDishRangeBeatsDate(t *testing.T) {
	ledger := &MockLedger{}
	svc := newTestService(ledger)

	if _, err := svc.TopDish(context.Background(), "2024-03-15", "2024-03-01", "2024-03-10"); err != nil {
		t.Fatalf("TopDish() error = %v", err)
	}

	wantStart := time.Date(2024, 3, 1, 0, 0, 0, 0, timewindow.Location)
	if !ledger.lastWindow.Start.Equal(wantStart) {
		t.Errorf("queried window start = %v, want range start %v", ledger.lastWindow.Start, wantStart)
	}
}

func TestTopDishEmptyIsNil(t *testing.T) {
	svc := newTestService(&MockLedger{})

	got, err := svc.TopDish(context.Background(), "2024-03-15", "", "")
	if err != nil {
		t.Fatalf("TopDish() error = %v", err)
	}
	if got != nil {
		t.Errorf("TopDish() = %+v, want nil", got)
	}
}

func TestRepeatCustomersFiltersByName(t *testing.T) {
	ledger := &MockLedger{
		FindByWindowFunc: func(_ context.Context, _ timewindow.Window, extra bson.M, _ bool) ([]entity.Order, error) {
			return []entity.Order{
				{CustomerName: "Asha"},
				{CustomerName: "Asha"},
			}, nil
		},
	}
	svc := newTestService(ledger)

	got, err := svc.RepeatCustomers(context.Background(), "2024-03-15", "", "", "Asha")
	if err != nil {
		t.Fatalf("RepeatCustomers() error = %v", err)
	}

	if ledger.lastExtra == nil || ledger.lastExtra["customer_name"] != "Asha" {
		t.Errorf("query filter = %v, want customer_name Asha", ledger.lastExtra)
	}
	if len(got) != 1 || got[0].Name != "Asha" || got[0].Orders != 2 {
		t.Errorf("RepeatCustomers() = %+v, want single Asha with 2", got)
	}
}

func TestRepeatCustomersNamedWithNoOrders(t *testing.T) {
	svc := newTestService(&MockLedger{})

	got, err := svc.RepeatCustomers(context.Background(), "2024-03-15", "", "", "Nobody")
	if err != nil {
		t.Fatalf("RepeatCustomers() error = %v", err)
	}
	if len(got) != 1 || got[0].Name != "Nobody" || got[0].Orders != 0 {
		t.Errorf("RepeatCustomers() = %+v, want single Nobody with 0", got)
	}
}

func TestRepeatCustomersUnfiltered(t *testing.T) {
	ledger := &MockLedger{
		FindByWindowFunc: func(context.Context, timewindow.Window, bson.M, bool) ([]entity.Order, error) {
			return []entity.Order{
				{CustomerName: "Asha"},
				{CustomerName: "Ravi"},
				{CustomerName: "Asha"},
			}, nil
		},
	}
	svc := newTestService(ledger)

	got, err := svc.RepeatCustomers(context.Background(), "2024-03-15", "", "", "")
	if err != nil {
		t.Fatalf("RepeatCustomers() error = %v", err)
	}
	if ledger.lastExtra != nil {
		t.Errorf("query filter = %v, want nil", ledger.lastExtra)
	}
	if len(got) != 2 || got[0].Name != "Asha" {
		t.Errorf("RepeatCustomers() = %+v, want Asha ranked first", got)
	}
}
