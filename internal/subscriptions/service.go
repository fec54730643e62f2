package subscriptions

import (
	"context"
	"errors"
	"fmt"
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

// SubscriptionRepository defines the persistence surface the service needs.
type SubscriptionRepository interface {
	WithTx(tx *gorm.DB) SubscriptionRepository
	Create(ctx context.Context, sub *models.Subscription) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Subscription, int64, error)
	ListDue(ctx context.Context, cutoff time.Time) ([]models.Subscription, error)
	Update(ctx context.Context, sub *models.Subscription) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// CreateSubscriptionInput is the payload to start a recurring delivery.
type CreateSubscriptionInput struct {
	CustomerID     uuid.UUID
	ProductID      uuid.UUID
	IntervalWeeks  int
	PriceCents     int
	NextDeliveryAt time.Time
	Address        types.Address
}

// SubscriptionListResult is one page of subscriptions.
type SubscriptionListResult struct {
	Items []models.Subscription `json:"items"`
	Page  pagination.Page       `json:"page"`
}

// Service exposes recurring delivery operations.
type Service interface {
	Create(ctx context.Context, input CreateSubscriptionInput) (*models.Subscription, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) (*SubscriptionListResult, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, target enums.SubscriptionStatus, actorID *uuid.UUID) (*models.Subscription, error)
	ListDue(ctx context.Context, cutoff time.Time) ([]models.Subscription, error)
	Renew(ctx context.Context, subscriptionID uuid.UUID) (*models.Order, error)
}

type service struct {
	repo       SubscriptionRepository
	tx         txRunner
	ordersRepo orders.Repository
	numbers    orders.NumberGenerator
	outbox     outboxPublisher
	activity   activity.Recorder
	cfg        config.CheckoutConfig
}

// NewService builds the subscriptions service.
func NewService(
	repo SubscriptionRepository,
	tx txRunner,
	ordersRepo orders.Repository,
	numbers orders.NumberGenerator,
	publisher outboxPublisher,
	recorder activity.Recorder,
	cfg config.CheckoutConfig,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("subscriptions repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if numbers == nil {
		return nil, fmt.Errorf("number generator required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("activity recorder required")
	}
	return &service{
		repo:       repo,
		tx:         tx,
		ordersRepo: ordersRepo,
		numbers:    numbers,
		outbox:     publisher,
		activity:   recorder,
		cfg:        cfg,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateSubscriptionInput) (*models.Subscription, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.IntervalWeeks < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "interval must be at least one week")
	}
	if input.PriceCents < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if input.NextDeliveryAt.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "next delivery date is required")
	}
	if !input.Address.IsComplete() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is incomplete")
	}

	address := input.Address
	sub := &models.Subscription{
		CustomerID:     input.CustomerID,
		ProductID:      input.ProductID,
		Status:         enums.SubscriptionStatusActive,
		IntervalWeeks:  input.IntervalWeeks,
		PriceCents:     input.PriceCents,
		NextDeliveryAt: input.NextDeliveryAt,
		Address:        &address,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, sub); err != nil {
			return err
		}
		return s.activity.Record(ctx, tx, activity.RecordInput{
			EntityType: "subscription",
			EntityID:   sub.ID,
			Action:     enums.ActivityActionCreated,
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating subscription")
	}
	return sub, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, subscriptionLoadError(err)
	}
	return sub, nil
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) (*SubscriptionListResult, error) {
	rows, total, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing subscriptions")
	}
	return &SubscriptionListResult{
		Items: rows,
		Page:  pagination.Describe(params, int(total)),
	}, nil
}

// UpdateStatus pauses, resumes or cancels a subscription.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, target enums.SubscriptionStatus, actorID *uuid.UUID) (*models.Subscription, error) {
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid subscription status")
	}

	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, subscriptionLoadError(err)
	}
	if !sub.Status.CanTransitionTo(target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot transition subscription from %s to %s", sub.Status, target))
	}

	from := sub.Status
	sub.Status = target
	if target == enums.SubscriptionStatusCanceled {
		now := time.Now().UTC()
		sub.CanceledAt = &now
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Update(ctx, sub); err != nil {
			return err
		}
		return s.activity.Record(ctx, tx, activity.RecordInput{
			EntityType: "subscription",
			EntityID:   sub.ID,
			Action:     enums.ActivityActionStatusChanged,
			ActorID:    actorID,
			Note:       fmt.Sprintf("%s -> %s", from, target),
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating subscription status")
	}
	return sub, nil
}

func (s *service) ListDue(ctx context.Context, cutoff time.Time) ([]models.Subscription, error) {
	rows, err := s.repo.ListDue(ctx, cutoff)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing due subscriptions")
	}
	return rows, nil
}

// Renew creates the next order for a due subscription and advances its
// schedule, all in one transaction.
func (s *service) Renew(ctx context.Context, subscriptionID uuid.UUID) (*models.Order, error) {
	sub, err := s.repo.FindByID(ctx, subscriptionID)
	if err != nil {
		return nil, subscriptionLoadError(err)
	}
	if sub.Status != enums.SubscriptionStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "subscription is not active")
	}

	number, err := s.numbers.Next(ctx)
	if err != nil {
		return nil, err
	}

	var order *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ordersRepo := s.ordersRepo.WithTx(tx)

		placedAt := time.Now().UTC()
		country := "NL"
		if sub.Address != nil {
			country = sub.Address.CountryCode()
		}
		total := sub.PriceCents + s.cfg.DeliveryFeeCents

		created, err := ordersRepo.Create(ctx, &models.Order{
			Number:           number,
			CustomerID:       sub.CustomerID,
			Status:           enums.OrderStatusPending,
			Currency:         enums.CurrencyEUR,
			Country:          country,
			SubtotalCents:    sub.PriceCents,
			DeliveryFeeCents: s.cfg.DeliveryFeeCents,
			TotalCents:       total,
			ShippingAddress:  sub.Address,
			PlacedAt:         placedAt,
			Items: []models.OrderLineItem{
				{
					ProductID:      sub.ProductID,
					Name:           "Abonnementslevering",
					UnitPriceCents: sub.PriceCents,
					Quantity:       1,
					TotalCents:     sub.PriceCents,
				},
			},
		})
		if err != nil {
			return err
		}
		order = created

		sub.NextDeliveryAt = sub.NextDeliveryAt.AddDate(0, 0, 7*sub.IntervalWeeks)
		if err := repo.Update(ctx, sub); err != nil {
			return err
		}

		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventSubscriptionRenewed,
			AggregateType: enums.AggregateSubscription,
			AggregateID:   sub.ID,
			Data: payloads.SubscriptionRenewedEvent{
				SubscriptionID: sub.ID,
				OrderID:        created.ID,
				NextDeliveryAt: sub.NextDeliveryAt,
			},
		}); err != nil {
			return err
		}
		return s.activity.Record(ctx, tx, activity.RecordInput{
			EntityType: "subscription",
			EntityID:   sub.ID,
			Action:     enums.ActivityActionUpdated,
			Note:       "renewed as " + created.Number,
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "renewing subscription")
	}
	return order, nil
}

func subscriptionLoadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "subscription not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading subscription")
}
