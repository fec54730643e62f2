package subscriptions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/media2net-app/bloemenvandegier-sub001/internal/activity"
	"github.com/media2net-app/bloemenvandegier-sub001/internal/orders"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/config"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/db/models"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/enums"
	pkgerrors "github.com/media2net-app/bloemenvandegier-sub001/pkg/errors"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/outbox"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/outbox/payloads"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/pagination"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/types"
)

type stubSubRepo struct {
	sub     *models.Subscription
	created *models.Subscription
	updated *models.Subscription
	due     []models.Subscription
}

func (s *stubSubRepo) WithTx(*gorm.DB) SubscriptionRepository { return s }

func (s *stubSubRepo) Create(_ context.Context, sub *models.Subscription) error {
	sub.ID = uuid.New()
	s.created = sub
	return nil
}

func (s *stubSubRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Subscription, error) {
	if s.sub != nil && s.sub.ID == id {
		return s.sub, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubSubRepo) List(context.Context, ListFilters, pagination.Params) ([]models.Subscription, int64, error) {
	return nil, 0, nil
}

func (s *stubSubRepo) ListDue(context.Context, time.Time) ([]models.Subscription, error) {
	return s.due, nil
}

func (s *stubSubRepo) Update(_ context.Context, sub *models.Subscription) error {
	s.updated = sub
	return nil
}

type stubOrdersRepo struct {
	created *models.Order
}

func (s *stubOrdersRepo) WithTx(*gorm.DB) orders.Repository { return s }

func (s *stubOrdersRepo) Create(_ context.Context, order *models.Order) (*models.Order, error) {
	order.ID = uuid.New()
	s.created = order
	return order, nil
}

func (s *stubOrdersRepo) FindByID(context.Context, uuid.UUID) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) FindByNumber(context.Context, string) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) FindByIDForCustomer(context.Context, uuid.UUID, uuid.UUID) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) List(context.Context, orders.ListFilters, pagination.Params) ([]models.Order, int64, error) {
	return nil, 0, nil
}

func (s *stubOrdersRepo) ListForCustomer(context.Context, uuid.UUID, pagination.Params) ([]models.Order, int64, error) {
	return nil, 0, nil
}

func (s *stubOrdersRepo) UpdateStatus(context.Context, uuid.UUID, enums.OrderStatus) error {
	return nil
}

type stubNumbers struct{ number string }

func (s stubNumbers) Next(context.Context) (string, error) { return s.number, nil }

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type stubOutbox struct {
	events []outbox.DomainEvent
}

func (s *stubOutbox) Emit(_ context.Context, _ *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

type stubRecorder struct {
	entries []activity.RecordInput
}

func (s *stubRecorder) Record(_ context.Context, _ *gorm.DB, input activity.RecordInput) error {
	s.entries = append(s.entries, input)
	return nil
}

var testConfig = config.CheckoutConfig{DeliveryFeeCents: 495, InsuranceFeeCents: 750}

func testAddress() types.Address {
	return types.Address{Street: "Herengracht", HouseNo: "120", PostalCode: "1015 BT", City: "Amsterdam", Country: "NL"}
}

func newTestService(t *testing.T, repo SubscriptionRepository, ordersRepo orders.Repository, publisher *stubOutbox, recorder *stubRecorder) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{}, ordersRepo, stubNumbers{number: "ORD-2026-000042"}, publisher, recorder, testConfig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc
}

func TestCreateSubscriptionValidates(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubSubRepo{}, &stubOrdersRepo{}, &stubOutbox{}, &stubRecorder{})

	_, err := svc.Create(context.Background(), CreateSubscriptionInput{
		CustomerID:     uuid.New(),
		ProductID:      uuid.New(),
		IntervalWeeks:  0,
		PriceCents:     1500,
		NextDeliveryAt: time.Now(),
		Address:        testAddress(),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for zero interval, got %v", err)
	}

	sub, err := svc.Create(context.Background(), CreateSubscriptionInput{
		CustomerID:     uuid.New(),
		ProductID:      uuid.New(),
		IntervalWeeks:  2,
		PriceCents:     1500,
		NextDeliveryAt: time.Now().AddDate(0, 0, 7),
		Address:        testAddress(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.Status != enums.SubscriptionStatusActive {
		t.Fatalf("expected active status, got %s", sub.Status)
	}
}

func TestSubscriptionStatusTransitions(t *testing.T) {
	t.Parallel()

	sub := &models.Subscription{ID: uuid.New(), Status: enums.SubscriptionStatusActive}
	svc := newTestService(t, &stubSubRepo{sub: sub}, &stubOrdersRepo{}, &stubOutbox{}, &stubRecorder{})

	paused, err := svc.UpdateStatus(context.Background(), sub.ID, enums.SubscriptionStatusPaused, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if paused.Status != enums.SubscriptionStatusPaused {
		t.Fatalf("expected paused, got %s", paused.Status)
	}

	resumed, err := svc.UpdateStatus(context.Background(), sub.ID, enums.SubscriptionStatusActive, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resumed.Status != enums.SubscriptionStatusActive {
		t.Fatalf("expected active, got %s", resumed.Status)
	}

	canceled, err := svc.UpdateStatus(context.Background(), sub.ID, enums.SubscriptionStatusCanceled, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if canceled.CanceledAt == nil {
		t.Fatal("expected canceled timestamp")
	}

	_, err = svc.UpdateStatus(context.Background(), sub.ID, enums.SubscriptionStatusActive, nil)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected canceled to be terminal, got %v", err)
	}
}

func TestRenewCreatesOrderAndAdvancesSchedule(t *testing.T) {
	t.Parallel()

	next := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	address := testAddress()
	sub := &models.Subscription{
		ID:             uuid.New(),
		CustomerID:     uuid.New(),
		ProductID:      uuid.New(),
		Status:         enums.SubscriptionStatusActive,
		IntervalWeeks:  2,
		PriceCents:     1500,
		NextDeliveryAt: next,
		Address:        &address,
	}
	repo := &stubSubRepo{sub: sub}
	ordersRepo := &stubOrdersRepo{}
	publisher := &stubOutbox{}
	svc := newTestService(t, repo, ordersRepo, publisher, &stubRecorder{})

	order, err := svc.Renew(context.Background(), sub.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Number != "ORD-2026-000042" {
		t.Fatalf("unexpected order number %s", order.Number)
	}
	if order.TotalCents != 1500+495 {
		t.Fatalf("expected total 1995, got %d", order.TotalCents)
	}
	if len(order.Items) != 1 || order.Items[0].ProductID != sub.ProductID {
		t.Fatalf("expected one subscription line, got %+v", order.Items)
	}

	want := next.AddDate(0, 0, 14)
	if !sub.NextDeliveryAt.Equal(want) {
		t.Fatalf("expected next delivery %s, got %s", want, sub.NextDeliveryAt)
	}

	if len(publisher.events) != 1 || publisher.events[0].EventType != enums.EventSubscriptionRenewed {
		t.Fatalf("expected renewal event, got %+v", publisher.events)
	}
	payload, ok := publisher.events[0].Data.(payloads.SubscriptionRenewedEvent)
	if !ok || payload.OrderID != order.ID || !payload.NextDeliveryAt.Equal(want) {
		t.Fatalf("unexpected payload: %+v", publisher.events[0].Data)
	}
}

func TestRenewRejectsInactive(t *testing.T) {
	t.Parallel()

	sub := &models.Subscription{ID: uuid.New(), Status: enums.SubscriptionStatusPaused}
	svc := newTestService(t, &stubSubRepo{sub: sub}, &stubOrdersRepo{}, &stubOutbox{}, &stubRecorder{})

	_, err := svc.Renew(context.Background(), sub.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}
