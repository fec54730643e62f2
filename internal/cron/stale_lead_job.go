package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/media2net-app/bloemenvandegier-sub001/internal/activity"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/db/models"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/enums"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/logger"
)

const defaultStaleLeadDays = 14

type staleLeadLister interface {
	ListStale(ctx context.Context, cutoff time.Time) ([]models.Lead, error)
}

// StaleLeadJobParams configures the stale-lead flagging job.
type StaleLeadJobParams struct {
	Logger   *logger.Logger
	Leads    staleLeadLister
	Recorder activity.Recorder
	Days     int
	Now      func() time.Time
}

// NewStaleLeadJob builds the job that flags pipeline leads nobody has touched.
func NewStaleLeadJob(params StaleLeadJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Leads == nil {
		return nil, fmt.Errorf("leads repository required")
	}
	if params.Recorder == nil {
		return nil, fmt.Errorf("activity recorder required")
	}
	days := params.Days
	if days <= 0 {
		days = defaultStaleLeadDays
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &staleLeadJob{
		logg:     params.Logger,
		leads:    params.Leads,
		recorder: params.Recorder,
		days:     days,
		now:      now,
	}, nil
}

type staleLeadJob struct {
	logg     *logger.Logger
	leads    staleLeadLister
	recorder activity.Recorder
	days     int
	now      func() time.Time
}

func (j *staleLeadJob) Name() string { return "stale-lead-flagging" }

func (j *staleLeadJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.days) * 24 * time.Hour)
	stale, err := j.leads.ListStale(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("list stale leads: %w", err)
	}

	var errs error
	flagged := 0
	for i := range stale {
		lead := &stale[i]
		err := j.recorder.Record(ctx, nil, activity.RecordInput{
			EntityType: "lead",
			EntityID:   lead.ID,
			Action:     enums.ActivityActionUpdated,
			Note:       fmt.Sprintf("flagged stale: no follow-up for %d days (%s)", j.days, lead.CompanyName),
		})
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("flag lead %s: %w", lead.ID, err))
			continue
		}
		flagged++
	}

	reportCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":  cutoff,
		"stale":   len(stale),
		"flagged": flagged,
	})
	j.logg.Info(reportCtx, "stale lead sweep complete")
	return errs
}
