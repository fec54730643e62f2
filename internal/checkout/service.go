package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/media2net-app/bloemenvandegier-sub001/internal/cart"
	"github.com/media2net-app/bloemenvandegier-sub001/internal/orders"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/config"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/db/models"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/enums"
	pkgerrors "github.com/media2net-app/bloemenvandegier-sub001/pkg/errors"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/outbox"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/outbox/payloads"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type stockDecrementer interface {
	DecrementStockTx(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error
}

type deliveryCreator interface {
	CreateTx(ctx context.Context, tx *gorm.DB, delivery *models.Delivery) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service executes checkout orchestration.
type Service interface {
	Execute(ctx context.Context, customerID, cartID uuid.UUID, input CheckoutInput) (*orders.OrderDTO, error)
}

// CheckoutInput captures the customer's checkout choices.
type CheckoutInput struct {
	ShippingAddress types.Address
	DeliveryDate    time.Time
	Insured         bool
}

type service struct {
	tx         txRunner
	cartRepo   cart.CartRepository
	ordersRepo orders.Repository
	numbers    orders.NumberGenerator
	stock      stockDecrementer
	deliveries deliveryCreator
	outbox     outboxPublisher
	cfg        config.CheckoutConfig
}

// NewService builds the checkout service.
func NewService(
	tx txRunner,
	cartRepo cart.CartRepository,
	ordersRepo orders.Repository,
	numbers orders.NumberGenerator,
	stock stockDecrementer,
	deliveries deliveryCreator,
	publisher outboxPublisher,
	cfg config.CheckoutConfig,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if numbers == nil {
		return nil, fmt.Errorf("number generator required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock decrementer required")
	}
	if deliveries == nil {
		return nil, fmt.Errorf("delivery creator required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		tx:         tx,
		cartRepo:   cartRepo,
		ordersRepo: ordersRepo,
		numbers:    numbers,
		stock:      stock,
		deliveries: deliveries,
		outbox:     publisher,
		cfg:        cfg,
	}, nil
}

// Execute converts the active cart into a placed order in one transaction:
// stock is decremented per line, the order and its delivery are created, the
// cart is marked converted and the order_created event is staged.
func (s *service) Execute(ctx context.Context, customerID, cartID uuid.UUID, input CheckoutInput) (*orders.OrderDTO, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if cartID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart id required")
	}
	if !input.ShippingAddress.IsComplete() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is incomplete")
	}
	if input.DeliveryDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery date required")
	}

	number, err := s.numbers.Next(ctx)
	if err != nil {
		return nil, err
	}

	var result *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		ordersRepo := s.ordersRepo.WithTx(tx)

		record, err := cartRepo.FindByIDAndCustomer(ctx, cartID, customerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
			}
			return err
		}
		if record.Status != enums.CartStatusActive {
			return pkgerrors.New(pkgerrors.CodeConflict, "cart already processed")
		}
		if len(record.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart contains no items")
		}

		for _, item := range record.Items {
			if err := s.stock.DecrementStockTx(ctx, tx, stockProductID(item), item.Quantity); err != nil {
				return err
			}
		}

		totals := ComputeTotals(record.Items, s.cfg, input.Insured)
		placedAt := time.Now().UTC()
		address := input.ShippingAddress

		order := &models.Order{
			Number:            number,
			CustomerID:        customerID,
			Status:            enums.OrderStatusPending,
			Currency:          record.Currency,
			Country:           address.CountryCode(),
			SubtotalCents:     totals.SubtotalCents,
			DeliveryFeeCents:  totals.DeliveryFeeCents,
			InsuredDelivery:   input.Insured,
			InsuranceFeeCents: totals.InsuranceFeeCents,
			TotalCents:        totals.TotalCents,
			ShippingAddress:   &address,
			PlacedAt:          placedAt,
			Items:             buildLineItems(record.Items),
		}
		created, err := ordersRepo.Create(ctx, order)
		if err != nil {
			return err
		}

		if err := s.deliveries.CreateTx(ctx, tx, &models.Delivery{
			OrderID:      created.ID,
			Status:       enums.DeliveryStatusScheduled,
			DeliveryDate: input.DeliveryDate,
			Address:      &address,
			Insured:      input.Insured,
		}); err != nil {
			return err
		}

		if err := cartRepo.UpdateStatus(ctx, record.ID, customerID, enums.CartStatusConverted); err != nil {
			return err
		}

		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   created.ID,
			Data: payloads.OrderCreatedEvent{
				OrderID:     created.ID,
				OrderNumber: created.Number,
				CustomerID:  customerID,
				TotalCents:  created.TotalCents,
				Currency:    created.Currency.String(),
				Country:     created.Country,
				PlacedAt:    placedAt,
			},
		}); err != nil {
			return err
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return orders.NewOrderDTO(result), nil
}

func buildLineItems(items []models.CartItem) []models.OrderLineItem {
	lines := make([]models.OrderLineItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, models.OrderLineItem{
			ProductID:      item.ProductID,
			Name:           item.Name,
			SKU:            item.SKU,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			Addons:         item.Addons,
			CardMessage:    item.CardMessage,
			RibbonText:     item.RibbonText,
			RibbonColor:    item.RibbonColor,
			TotalCents:     item.UnitPriceCents * item.Quantity,
		})
	}
	return lines
}

// stockProductID picks the row whose stock is decremented. Variant lines
// consume variant stock, not base product stock.
func stockProductID(item models.CartItem) uuid.UUID {
	if item.VariantID != nil {
		return *item.VariantID
	}
	return item.ProductID
}
