package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/media2net-app/bloemenvandegier-sub001/internal/activity"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/db/models"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/enums"
	pkgerrors "github.com/media2net-app/bloemenvandegier-sub001/pkg/errors"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/outbox"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/outbox/payloads"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service exposes order read and transition operations.
type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	GetByNumber(ctx context.Context, number string) (*OrderDTO, error)
	GetForCustomer(ctx context.Context, id, customerID uuid.UUID) (*OrderDTO, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) (*OrderListResult, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*OrderListResult, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, target enums.OrderStatus, actorID *uuid.UUID) (*OrderDTO, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	outbox   outboxPublisher
	activity activity.Recorder
}

// NewService builds the orders service.
func NewService(repo Repository, tx txRunner, publisher outboxPublisher, recorder activity.Recorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("activity recorder required")
	}
	return &service{repo: repo, tx: tx, outbox: publisher, activity: recorder}, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, orderLoadError(err)
	}
	return NewOrderDTO(order), nil
}

func (s *service) GetByNumber(ctx context.Context, number string) (*OrderDTO, error) {
	order, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		return nil, orderLoadError(err)
	}
	return NewOrderDTO(order), nil
}

func (s *service) GetForCustomer(ctx context.Context, id, customerID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByIDForCustomer(ctx, id, customerID)
	if err != nil {
		return nil, orderLoadError(err)
	}
	return NewOrderDTO(order), nil
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) (*OrderListResult, error) {
	rows, total, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return buildListResult(rows, total, params), nil
}

func (s *service) ListForCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*OrderListResult, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	rows, total, err := s.repo.ListForCustomer(ctx, customerID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return buildListResult(rows, total, params), nil
}

// UpdateStatus applies one lifecycle transition. Transitions outside the
// allowed table fail with a state conflict and leave the order untouched.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, target enums.OrderStatus, actorID *uuid.UUID) (*OrderDTO, error) {
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, orderLoadError(err)
	}
	if !order.Status.CanTransitionTo(target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot transition order from %s to %s", order.Status, target))
	}

	from := order.Status
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpdateStatus(ctx, orderID, target); err != nil {
			return err
		}
		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   orderID,
			Data: payloads.OrderStatusChangedEvent{
				OrderID:    orderID,
				FromStatus: from.String(),
				ToStatus:   target.String(),
				ChangedAt:  time.Now().UTC(),
			},
		}); err != nil {
			return err
		}
		return s.activity.Record(ctx, tx, activity.RecordInput{
			EntityType: "order",
			EntityID:   orderID,
			Action:     enums.ActivityActionStatusChanged,
			ActorID:    actorID,
			Note:       fmt.Sprintf("%s -> %s", from, target),
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order status")
	}

	order.Status = target
	return NewOrderDTO(order), nil
}

func buildListResult(rows []models.Order, total int64, params pagination.Params) *OrderListResult {
	items := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *NewOrderDTO(&rows[i]))
	}
	return &OrderListResult{
		Items: items,
		Page:  pagination.Describe(params, int(total)),
	}
}

func orderLoadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
}
