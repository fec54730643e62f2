package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/media2net-app/bloemenvandegier-sub001/pkg/logger"
)

const activityRetentionDays = 90

type activityRetentionRepo interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// ActivityRetentionJobParams configures the activity-log retention job.
type ActivityRetentionJobParams struct {
	Logger     *logger.Logger
	Repository activityRetentionRepo
	Retention  int
}

// NewActivityRetentionJob builds the job that trims old activity entries.
func NewActivityRetentionJob(params ActivityRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("activity repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = activityRetentionDays
	}
	return &activityRetentionJob{
		logg:      params.Logger,
		repo:      params.Repository,
		retention: retention,
		now:       time.Now,
	}, nil
}

type activityRetentionJob struct {
	logg      *logger.Logger
	repo      activityRetentionRepo
	retention int
	now       func() time.Time
}

func (j *activityRetentionJob) Name() string { return "activity-retention" }

func (j *activityRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.retention) * 24 * time.Hour)
	deleted, err := j.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("activity retention: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"retention_days": j.retention,
		"rows_deleted":   deleted,
	})
	j.logg.Info(logCtx, "activity retention complete")
	return nil
}
