package order

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/canteenhq/restro/internal/broadcast"
	"github.com/canteenhq/restro/internal/config"
	"github.com/canteenhq/restro/internal/dto"
	"github.com/canteenhq/restro/internal/entity"
	"github.com/canteenhq/restro/pkg/errorbank"
)

func testConfig() config.Config {
	return config.Config{
		Orders: config.Orders{
			AllowedStatuses: []string{"incoming", "preparing", "ready", "completed", "deleted"},
		},
	}
}

func newTestService(repo Repository, verifier Verifier, bc Broadcaster) *Service {
	return NewService(Params{
		Repository:  repo,
		Verifier:    verifier,
		Broadcaster: bc,
		Cache:       nil,
		Config:      testConfig(),
		Logger:      zap.NewNop(),
		Publisher:   nil,
	})
}

func samplePayload() dto.OrderPayload {
	return dto.OrderPayload{
		OrderType:    entity.TypeDineIn,
		CustomerName: "Asha",
		TableNumber:  "7",
		Items: []dto.ItemPayload{
			{Name: "Dosa", Price: 80, Qty: 2},
			{Name: "Coffee", Price: 30, Qty: 1},
		},
	}
}

func sampleProof() dto.VerifyAndCreateRequest {
	return dto.VerifyAndCreateRequest{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_abc",
		RazorpaySignature: "sig_abc",
	}
}

func TestPlace(t *testing.T) {
	repo := NewMockRepository()
	bc := &MockBroadcaster{}
	svc := newTestService(repo, &MockVerifier{}, bc)

	order, err := svc.Place(context.Background(), samplePayload())
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}

	if order.ID == uuid.Nil {
		t.Error("Place() should assign an id")
	}
	if order.Status != entity.StatusIncoming {
		t.Errorf("Place() status = %q, want %q", order.Status, entity.StatusIncoming)
	}
	if order.Total != 190 {
		t.Errorf("Place() total = %v, want 190", order.Total)
	}
	if order.CreatedAt.IsZero() {
		t.Error("Place() should stamp CreatedAt")
	}
	if repo.Stored(order.ID) == nil {
		t.Error("Place() should persist the order")
	}

	events := bc.Events()
	if len(events) != 1 || events[0].kind != broadcast.KindNewOrder {
		t.Errorf("broadcast events = %+v, want single newOrder", events)
	}
}

func TestPlaceIgnoresClientTotal(t *testing.T) {
	repo := NewMockRepository()
	svc := newTestService(repo, &MockVerifier{}, &MockBroadcaster{})

	payload := samplePayload()
	payload.Items = []dto.ItemPayload{{Name: "Dosa", Price: 80, Qty: 1}}

	order, err := svc.Place(context.Background(), payload)
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	if order.Total != 80 {
		t.Errorf("Place() total = %v, want computed 80", order.Total)
	}
}

func TestPlaceRepositoryFailure(t *testing.T) {
	repo := NewMockRepository()
	repo.CreateFunc = func(context.Context, *entity.Order) error {
		return errors.New("write concern failed")
	}
	bc := &MockBroadcaster{}
	svc := newTestService(repo, &MockVerifier{}, bc)

	_, err := svc.Place(context.Background(), samplePayload())
	if err == nil {
		t.Fatal("Place() expected error")
	}
	var appErr *errorbank.AppError
	if !errors.As(err, &appErr) || appErr.Kind() != errorbank.KindInternal {
		t.Errorf("Place() error = %v, want internal", err)
	}
	if len(bc.Events()) != 0 {
		t.Error("no broadcast should happen when persistence fails")
	}
}

func TestPlaceVerified(t *testing.T) {
	repo := NewMockRepository()
	bc := &MockBroadcaster{}
	verifier := &MockVerifier{
		VerifyFunc: func(orderRef, payRef, signature string) bool {
			return orderRef == "order_abc" && payRef == "pay_abc" && signature == "sig_abc"
		},
	}
	svc := newTestService(repo, verifier, bc)

	order, err := svc.PlaceVerified(context.Background(), samplePayload(), sampleProof())
	if err != nil {
		t.Fatalf("PlaceVerified() error = %v", err)
	}

	if order.PaymentRef != "pay_abc" {
		t.Errorf("PaymentRef = %q, want pay_abc", order.PaymentRef)
	}
	if repo.Stored(order.ID) == nil {
		t.Error("PlaceVerified() should persist the order")
	}
	if events := bc.Events(); len(events) != 1 || events[0].kind != broadcast.KindNewOrder {
		t.Errorf("broadcast events = %+v, want single newOrder", events)
	}
}

func TestPlaceVerifiedRejectsTamperedSignature(t *testing.T) {
	repo := NewMockRepository()
	bc := &MockBroadcaster{}
	verifier := &MockVerifier{
		VerifyFunc: func(string, string, string) bool { return false },
	}
	svc := newTestService(repo, verifier, bc)

	_, err := svc.PlaceVerified(context.Background(), samplePayload(), sampleProof())
	if err == nil {
		t.Fatal("PlaceVerified() expected error")
	}
	var appErr *errorbank.AppError
	if !errors.As(err, &appErr) || appErr.Kind() != errorbank.KindPaymentRejected {
		t.Errorf("PlaceVerified() error = %v, want payment rejected", err)
	}
	if repo.Count() != 0 {
		t.Error("nothing should be persisted on signature mismatch")
	}
	if len(bc.Events()) != 0 {
		t.Error("nothing should be broadcast on signature mismatch")
	}
}

func TestPlaceVerifiedRejectsReusedPaymentRef(t *testing.T) {
	repo := NewMockRepository()
	svc := newTestService(repo, &MockVerifier{}, &MockBroadcaster{})

	first, err := svc.PlaceVerified(context.Background(), samplePayload(), sampleProof())
	if err != nil {
		t.Fatalf("PlaceVerified() error = %v", err)
	}

	_, err = svc.PlaceVerified(context.Background(), samplePayload(), sampleProof())
	if err == nil {
		t.Fatal("PlaceVerified() expected conflict for reused payment ref")
	}
	var appErr *errorbank.AppError
	if !errors.As(err, &appErr) || appErr.Kind() != errorbank.KindConflict {
		t.Errorf("PlaceVerified() error = %v, want conflict", err)
	}
	if got := appErr.Details()["order_id"]; got != first.ID.String() {
		t.Errorf("conflict detail order_id = %v, want %v", got, first.ID)
	}
	if repo.Count() != 1 {
		t.Errorf("repository holds %d orders, want 1", repo.Count())
	}
}

func TestGet(t *testing.T) {
	repo := NewMockRepository()
	svc := newTestService(repo, &MockVerifier{}, &MockBroadcaster{})

	placed, err := svc.Place(context.Background(), samplePayload())
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}

	got, err := svc.Get(context.Background(), placed.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ID != placed.ID {
		t.Errorf("Get() id = %v, want %v", got.ID, placed.ID)
	}
}

func TestGetUnknownID(t *testing.T) {
	svc := newTestService(NewMockRepository(), &MockVerifier{}, &MockBroadcaster{})

	_, err := svc.Get(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("Get() expected error")
	}
	var appErr *errorbank.AppError
	if !errors.As(err, &appErr) || appErr.Kind() != errorbank.KindNotFound {
		t.Errorf("Get() error = %v, want not found", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	repo := NewMockRepository()
	bc := &MockBroadcaster{}
	svc := newTestService(repo, &MockVerifier{}, bc)

	placed, err := svc.Place(context.Background(), samplePayload())
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), placed.ID, entity.StatusReady)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if updated.Status != entity.StatusReady {
		t.Errorf("UpdateStatus() status = %q, want %q", updated.Status, entity.StatusReady)
	}

	events := bc.Events()
	if len(events) != 2 || events[1].kind != broadcast.KindOrderUpdated {
		t.Errorf("broadcast events = %+v, want newOrder then orderUpdated", events)
	}
}

func TestUpdateStatusSoftDelete(t *testing.T) {
	repo := NewMockRepository()
	svc := newTestService(repo, &MockVerifier{}, &MockBroadcaster{})

	placed, err := svc.Place(context.Background(), samplePayload())
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), placed.ID, entity.StatusDeleted)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if !updated.Deleted() {
		t.Error("order should be soft-deleted")
	}
	if repo.Stored(placed.ID) == nil {
		t.Error("soft-deleted order must stay in the repository")
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	repo := NewMockRepository()
	bc := &MockBroadcaster{}
	svc := newTestService(repo, &MockVerifier{}, bc)

	placed, err := svc.Place(context.Background(), samplePayload())
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}

	_, err = svc.UpdateStatus(context.Background(), placed.ID, "vaporized")
	if err == nil {
		t.Fatal("UpdateStatus() expected error")
	}
	var appErr *errorbank.AppError
	if !errors.As(err, &appErr) || appErr.Kind() != errorbank.KindBadRequest {
		t.Errorf("UpdateStatus() error = %v, want bad request", err)
	}
	if got := repo.Stored(placed.ID).Status; got != entity.StatusIncoming {
		t.Errorf("status = %q, should remain incoming", got)
	}
	if len(bc.Events()) != 1 {
		t.Error("no orderUpdated broadcast for a rejected status")
	}
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	bc := &MockBroadcaster{}
	svc := newTestService(NewMockRepository(), &MockVerifier{}, bc)

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), entity.StatusReady)
	if err == nil {
		t.Fatal("UpdateStatus() expected error")
	}
	var appErr *errorbank.AppError
	if !errors.As(err, &appErr) || appErr.Kind() != errorbank.KindNotFound {
		t.Errorf("UpdateStatus() error = %v, want not found", err)
	}
	if len(bc.Events()) != 0 {
		t.Error("no broadcast for a missing order")
	}
}

func TestListByDayMalformedDate(t *testing.T) {
	svc := newTestService(NewMockRepository(), &MockVerifier{}, &MockBroadcaster{})

	_, err := svc.ListByDay(context.Background(), "garbage")
	if err == nil {
		t.Fatal("ListByDay() expected error")
	}
	var appErr *errorbank.AppError
	if !errors.As(err, &appErr) || appErr.Kind() != errorbank.KindBadRequest {
		t.Errorf("ListByDay() error = %v, want bad request", err)
	}
}
