package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/media2net-app/bloemenvandegier-sub001/pkg/db/models"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/logger"
)

// subscriptionRenewer is the slice of the subscriptions service the renewal
// job needs.
type subscriptionRenewer interface {
	ListDue(ctx context.Context, cutoff time.Time) ([]models.Subscription, error)
	Renew(ctx context.Context, subscriptionID uuid.UUID) (*models.Order, error)
}

// SubscriptionRenewalJobParams configures the renewal cron job.
type SubscriptionRenewalJobParams struct {
	Logger        *logger.Logger
	Subscriptions subscriptionRenewer
	Now           func() time.Time
}

// NewSubscriptionRenewalJob builds the job that turns due subscriptions into
// orders.
func NewSubscriptionRenewalJob(params SubscriptionRenewalJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Subscriptions == nil {
		return nil, fmt.Errorf("subscriptions service required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &subscriptionRenewalJob{
		logg: params.Logger,
		subs: params.Subscriptions,
		now:  now,
	}, nil
}

type subscriptionRenewalJob struct {
	logg *logger.Logger
	subs subscriptionRenewer
	now  func() time.Time
}

func (j *subscriptionRenewalJob) Name() string { return "subscription-renewal" }

func (j *subscriptionRenewalJob) Run(ctx context.Context) error {
	due, err := j.subs.ListDue(ctx, j.now().UTC())
	if err != nil {
		return fmt.Errorf("list due subscriptions: %w", err)
	}

	var errs error
	renewed := 0
	for i := range due {
		sub := &due[i]
		subCtx := j.logg.WithField(ctx, "subscription_id", sub.ID)
		order, err := j.subs.Renew(subCtx, sub.ID)
		if err != nil {
			j.logg.Error(subCtx, "subscription renewal failed", err)
			errs = multierr.Append(errs, fmt.Errorf("renew %s: %w", sub.ID, err))
			continue
		}
		j.logg.Info(j.logg.WithField(subCtx, "order_number", order.Number), "subscription renewed")
		renewed++
	}

	reportCtx := j.logg.WithFields(ctx, map[string]any{
		"due":     len(due),
		"renewed": renewed,
	})
	j.logg.Info(reportCtx, "subscription renewal loop complete")
	return errs
}
