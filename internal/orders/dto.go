package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/media2net-app/bloemenvandegier-sub001/pkg/db/models"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/pagination"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/types"
)

// OrderDTO is the API projection of a placed order.
type OrderDTO struct {
	ID                uuid.UUID          `json:"id"`
	Number            string             `json:"number"`
	CustomerID        uuid.UUID          `json:"customer_id"`
	Status            string             `json:"status"`
	Currency          string             `json:"currency"`
	Country           string             `json:"country"`
	SubtotalCents     int                `json:"subtotal_cents"`
	DeliveryFeeCents  int                `json:"delivery_fee_cents"`
	InsuredDelivery   bool               `json:"insured_delivery"`
	InsuranceFeeCents int                `json:"insurance_fee_cents"`
	TotalCents        int                `json:"total_cents"`
	ShippingAddress   *types.Address     `json:"shipping_address,omitempty"`
	PlacedAt          time.Time          `json:"placed_at"`
	Items             []OrderLineItemDTO `json:"items"`
}

// OrderLineItemDTO is one priced snapshot line.
type OrderLineItemDTO struct {
	ID             uuid.UUID              `json:"id"`
	ProductID      uuid.UUID              `json:"product_id"`
	Name           string                 `json:"name"`
	SKU            string                 `json:"sku,omitempty"`
	UnitPriceCents int                    `json:"unit_price_cents"`
	Quantity       int                    `json:"quantity"`
	Addons         []models.CartItemAddon `json:"addons,omitempty"`
	CardMessage    *string                `json:"card_message,omitempty"`
	RibbonText     *string                `json:"ribbon_text,omitempty"`
	RibbonColor    *string                `json:"ribbon_color,omitempty"`
	TotalCents     int                    `json:"total_cents"`
}

// OrderListResult is one page of the admin order list.
type OrderListResult struct {
	Items []OrderDTO      `json:"items"`
	Page  pagination.Page `json:"page"`
}

// NewOrderDTO builds a DTO from the persisted model.
func NewOrderDTO(order *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:                order.ID,
		Number:            order.Number,
		CustomerID:        order.CustomerID,
		Status:            order.Status.String(),
		Currency:          order.Currency.String(),
		Country:           order.Country,
		SubtotalCents:     order.SubtotalCents,
		DeliveryFeeCents:  order.DeliveryFeeCents,
		InsuredDelivery:   order.InsuredDelivery,
		InsuranceFeeCents: order.InsuranceFeeCents,
		TotalCents:        order.TotalCents,
		ShippingAddress:   order.ShippingAddress,
		PlacedAt:          order.PlacedAt,
		Items:             make([]OrderLineItemDTO, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		dto.Items = append(dto.Items, OrderLineItemDTO{
			ID:             item.ID,
			ProductID:      item.ProductID,
			Name:           item.Name,
			SKU:            item.SKU,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			Addons:         item.Addons,
			CardMessage:    item.CardMessage,
			RibbonText:     item.RibbonText,
			RibbonColor:    item.RibbonColor,
			TotalCents:     item.TotalCents,
		})
	}
	return dto
}
