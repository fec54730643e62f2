package deliveries

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
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/types"
)

// DeliveryRepository defines the persistence surface the service needs.
type DeliveryRepository interface {
	WithTx(tx *gorm.DB) DeliveryRepository
	Create(ctx context.Context, delivery *models.Delivery) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Delivery, error)
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Delivery, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Delivery, int64, error)
	Update(ctx context.Context, delivery *models.Delivery) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// TransitionInput carries the optional data of one delivery transition.
type TransitionInput struct {
	FailureReason *string
	ActorID       *uuid.UUID
}

// DeliveryListResult is one page of the planning list.
type DeliveryListResult struct {
	Items []models.Delivery `json:"items"`
	Page  pagination.Page   `json:"page"`
}

// Service exposes delivery planning operations.
type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Delivery, error)
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Delivery, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) (*DeliveryListResult, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, target enums.DeliveryStatus, input TransitionInput) (*models.Delivery, error)
	Reschedule(ctx context.Context, id uuid.UUID, date time.Time, address *types.Address, actorID *uuid.UUID) (*models.Delivery, error)
}

type service struct {
	repo     DeliveryRepository
	tx       txRunner
	outbox   outboxPublisher
	activity activity.Recorder
}

// NewService builds the deliveries service.
func NewService(repo DeliveryRepository, tx txRunner, publisher outboxPublisher, recorder activity.Recorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("deliveries repository required")
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

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Delivery, error) {
	delivery, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, deliveryLoadError(err)
	}
	return delivery, nil
}

func (s *service) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Delivery, error) {
	delivery, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, deliveryLoadError(err)
	}
	return delivery, nil
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) (*DeliveryListResult, error) {
	rows, total, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing deliveries")
	}
	return &DeliveryListResult{
		Items: rows,
		Page:  pagination.Describe(params, int(total)),
	}, nil
}

// UpdateStatus applies one lifecycle transition. A transition to failed on an
// insured delivery flags the refund and stages the delivery_failed event.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, target enums.DeliveryStatus, input TransitionInput) (*models.Delivery, error) {
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid delivery status")
	}

	delivery, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, deliveryLoadError(err)
	}
	if !delivery.Status.CanTransitionTo(target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot transition delivery from %s to %s", delivery.Status, target))
	}
	if target == enums.DeliveryStatusFailed && (input.FailureReason == nil || *input.FailureReason == "") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "failure reason required")
	}

	from := delivery.Status
	delivery.Status = target
	if target == enums.DeliveryStatusFailed {
		delivery.FailureReason = input.FailureReason
		if delivery.Insured {
			delivery.RefundIssued = true
		}
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Update(ctx, delivery); err != nil {
			return err
		}
		if target == enums.DeliveryStatusFailed {
			if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventDeliveryFailed,
				AggregateType: enums.AggregateDelivery,
				AggregateID:   delivery.ID,
				Data: payloads.DeliveryFailedEvent{
					DeliveryID:    delivery.ID,
					OrderID:       delivery.OrderID,
					Insured:       delivery.Insured,
					FailureReason: derefString(input.FailureReason),
					FailedAt:      time.Now().UTC(),
				},
			}); err != nil {
				return err
			}
		}
		return s.activity.Record(ctx, tx, activity.RecordInput{
			EntityType: "delivery",
			EntityID:   delivery.ID,
			Action:     enums.ActivityActionStatusChanged,
			ActorID:    input.ActorID,
			Note:       fmt.Sprintf("%s -> %s", from, target),
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating delivery status")
	}
	return delivery, nil
}

// Reschedule moves a failed delivery back to scheduled with a new date.
func (s *service) Reschedule(ctx context.Context, id uuid.UUID, date time.Time, address *types.Address, actorID *uuid.UUID) (*models.Delivery, error) {
	if date.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery date required")
	}

	delivery, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, deliveryLoadError(err)
	}
	if !delivery.Status.CanTransitionTo(enums.DeliveryStatusScheduled) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot reschedule delivery from %s", delivery.Status))
	}

	from := delivery.Status
	delivery.Status = enums.DeliveryStatusScheduled
	delivery.DeliveryDate = date
	delivery.FailureReason = nil
	if address != nil {
		if !address.IsComplete() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is incomplete")
		}
		delivery.Address = address
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Update(ctx, delivery); err != nil {
			return err
		}
		return s.activity.Record(ctx, tx, activity.RecordInput{
			EntityType: "delivery",
			EntityID:   delivery.ID,
			Action:     enums.ActivityActionStatusChanged,
			ActorID:    actorID,
			Note:       fmt.Sprintf("%s -> %s", from, enums.DeliveryStatusScheduled),
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rescheduling delivery")
	}
	return delivery, nil
}

func deliveryLoadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "delivery not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading delivery")
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
