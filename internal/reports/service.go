package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/media2net-app/bloemenvandegier-sub001/internal/activity"
	"github.com/media2net-app/bloemenvandegier-sub001/internal/leads"
	"github.com/media2net-app/bloemenvandegier-sub001/internal/orders"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/csvexport"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/db/models"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/enums"
	pkgerrors "github.com/media2net-app/bloemenvandegier-sub001/pkg/errors"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/pagination"
)

type revenueRepository interface {
	RevenueRows(ctx context.Context, filters RevenueFilters) ([]RevenueRow, error)
}

type orderLister interface {
	List(ctx context.Context, filters orders.ListFilters, params pagination.Params) ([]models.Order, int64, error)
}

type leadLister interface {
	List(ctx context.Context, filters leads.ListFilters, params pagination.Params) ([]models.Lead, int64, error)
}

// CountryRevenueDTO is the per-country slice of the revenue report.
type CountryRevenueDTO struct {
	Country      string `json:"country"`
	OrderCount   int64  `json:"order_count"`
	RevenueCents int64  `json:"revenue_cents"`
	Revenue      string `json:"revenue"`
}

// RevenueReportDTO is the aggregated revenue report. Amounts carry both the
// integer cent value and a major-unit string so API consumers never have to
// divide.
type RevenueReportDTO struct {
	Currency               string              `json:"currency"`
	OrderCount             int64               `json:"order_count"`
	TotalRevenueCents      int64               `json:"total_revenue_cents"`
	TotalRevenue           string              `json:"total_revenue"`
	AverageOrderValueCents int64               `json:"average_order_value_cents"`
	AverageOrderValue      string              `json:"average_order_value"`
	Countries              []CountryRevenueDTO `json:"countries"`
}

// Service builds the revenue report and the admin CSV exports.
type Service interface {
	Revenue(ctx context.Context, filters RevenueFilters) (*RevenueReportDTO, error)
	ExportOrders(ctx context.Context, filters orders.ListFilters, opts csvexport.Options, actorID *uuid.UUID) ([]byte, error)
	ExportLeads(ctx context.Context, filters leads.ListFilters, opts csvexport.Options, actorID *uuid.UUID) ([]byte, error)
}

type service struct {
	repo     revenueRepository
	orders   orderLister
	leads    leadLister
	recorder activity.Recorder
}

// NewService constructs the reports service.
func NewService(repo revenueRepository, ordersRepo orderLister, leadsRepo leadLister, recorder activity.Recorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if leadsRepo == nil {
		return nil, fmt.Errorf("leads repository required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("activity recorder required")
	}
	return &service{repo: repo, orders: ordersRepo, leads: leadsRepo, recorder: recorder}, nil
}

var oneHundred = decimal.NewFromInt(100)

func major(cents int64) string {
	return decimal.NewFromInt(cents).Div(oneHundred).StringFixed(2)
}

func (s *service) Revenue(ctx context.Context, filters RevenueFilters) (*RevenueReportDTO, error) {
	rows, err := s.repo.RevenueRows(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregating revenue")
	}

	report := &RevenueReportDTO{
		Currency:  string(enums.CurrencyEUR),
		Countries: make([]CountryRevenueDTO, 0, len(rows)),
	}
	for _, row := range rows {
		report.OrderCount += row.OrderCount
		report.TotalRevenueCents += row.RevenueCents
		report.Countries = append(report.Countries, CountryRevenueDTO{
			Country:      row.Country,
			OrderCount:   row.OrderCount,
			RevenueCents: row.RevenueCents,
			Revenue:      major(row.RevenueCents),
		})
	}

	report.TotalRevenue = major(report.TotalRevenueCents)
	if report.OrderCount > 0 {
		avg := decimal.NewFromInt(report.TotalRevenueCents).
			Div(decimal.NewFromInt(report.OrderCount)).
			Round(0)
		report.AverageOrderValueCents = avg.IntPart()
	}
	report.AverageOrderValue = major(report.AverageOrderValueCents)
	return report, nil
}

var orderExportHeader = []string{
	"number", "placed_at", "customer_id", "country", "status",
	"insured", "subtotal", "delivery_fee", "insurance_fee", "total",
}

func (s *service) ExportOrders(ctx context.Context, filters orders.ListFilters, opts csvexport.Options, actorID *uuid.UUID) ([]byte, error) {
	w := csvexport.NewWriter(orderExportHeader, opts)

	count, err := s.forEachPage(func(params pagination.Params) (int, int64, error) {
		rows, total, err := s.orders.List(ctx, filters, params)
		if err != nil {
			return 0, 0, err
		}
		for _, order := range rows {
			w.Append([]string{
				order.Number,
				order.PlacedAt.UTC().Format(time.RFC3339),
				order.CustomerID.String(),
				order.Country,
				string(order.Status),
				fmt.Sprintf("%t", order.InsuredDelivery),
				w.Amount(int64(order.SubtotalCents)),
				w.Amount(int64(order.DeliveryFeeCents)),
				w.Amount(int64(order.InsuranceFeeCents)),
				w.Amount(int64(order.TotalCents)),
			})
		}
		return len(rows), total, nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "exporting orders")
	}

	return s.render(ctx, w, "orders", count, actorID)
}

var leadExportHeader = []string{
	"company", "contact", "email", "phone", "status", "source", "notes", "created_at",
}

func (s *service) ExportLeads(ctx context.Context, filters leads.ListFilters, opts csvexport.Options, actorID *uuid.UUID) ([]byte, error) {
	w := csvexport.NewWriter(leadExportHeader, opts)

	count, err := s.forEachPage(func(params pagination.Params) (int, int64, error) {
		rows, total, err := s.leads.List(ctx, filters, params)
		if err != nil {
			return 0, 0, err
		}
		for _, lead := range rows {
			w.Append([]string{
				lead.CompanyName,
				lead.ContactName,
				lead.Email,
				lead.Phone,
				string(lead.Status),
				lead.Source,
				lead.Notes,
				lead.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
		return len(rows), total, nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "exporting leads")
	}

	return s.render(ctx, w, "leads", count, actorID)
}

// forEachPage walks every page of a listing so exports are never truncated to
// the first page. fetch returns the rows appended and the total row count.
func (s *service) forEachPage(fetch func(params pagination.Params) (int, int64, error)) (int, error) {
	var seen int
	for page := 1; ; page++ {
		fetched, total, err := fetch(pagination.Params{Page: page, PageSize: pagination.MaxPageSize})
		if err != nil {
			return 0, err
		}
		seen += fetched
		if fetched == 0 || int64(seen) >= total {
			return seen, nil
		}
	}
}

func (s *service) render(ctx context.Context, w *csvexport.Writer, kind string, count int, actorID *uuid.UUID) ([]byte, error) {
	data, err := w.Render()
	if err != nil {
		return nil, err
	}
	err = s.recorder.Record(ctx, nil, activity.RecordInput{
		EntityType: "export",
		EntityID:   uuid.New(),
		Action:     enums.ActivityActionExported,
		ActorID:    actorID,
		Note:       fmt.Sprintf("%s (%d rows)", kind, count),
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}
