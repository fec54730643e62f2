package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/media2net-app/bloemenvandegier-sub001/internal/activity"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/db/models"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test"})
}

type fakeRenewer struct {
	due        []models.Subscription
	renewed    []uuid.UUID
	failFor    uuid.UUID
	lastCutoff time.Time
}

func (f *fakeRenewer) ListDue(_ context.Context, cutoff time.Time) ([]models.Subscription, error) {
	f.lastCutoff = cutoff
	return f.due, nil
}

func (f *fakeRenewer) Renew(_ context.Context, id uuid.UUID) (*models.Order, error) {
	if id == f.failFor {
		return nil, errors.New("boom")
	}
	f.renewed = append(f.renewed, id)
	return &models.Order{ID: uuid.New(), Number: "ORD-2026-000099"}, nil
}

func TestSubscriptionRenewalJobRenewsDue(t *testing.T) {
	now := time.Date(2026, 8, 30, 6, 0, 0, 0, time.UTC)
	renewer := &fakeRenewer{due: []models.Subscription{
		{ID: uuid.New()},
		{ID: uuid.New()},
	}}

	jobIface, err := NewSubscriptionRenewalJob(SubscriptionRenewalJobParams{
		Logger:        testLogger(),
		Subscriptions: renewer,
		Now:           func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("NewSubscriptionRenewalJob: %v", err)
	}

	if err := jobIface.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !renewer.lastCutoff.Equal(now) {
		t.Fatalf("expected cutoff %s, got %s", now, renewer.lastCutoff)
	}
	if len(renewer.renewed) != 2 {
		t.Fatalf("expected 2 renewals, got %d", len(renewer.renewed))
	}
}

func TestSubscriptionRenewalJobContinuesPastFailures(t *testing.T) {
	failing := uuid.New()
	renewer := &fakeRenewer{
		due:     []models.Subscription{{ID: failing}, {ID: uuid.New()}},
		failFor: failing,
	}

	jobIface, err := NewSubscriptionRenewalJob(SubscriptionRenewalJobParams{
		Logger:        testLogger(),
		Subscriptions: renewer,
	})
	if err != nil {
		t.Fatalf("NewSubscriptionRenewalJob: %v", err)
	}

	if err := jobIface.Run(context.Background()); err == nil {
		t.Fatal("expected aggregated error")
	}
	if len(renewer.renewed) != 1 {
		t.Fatalf("expected the healthy subscription to renew, got %d", len(renewer.renewed))
	}
}

type fakeLeadLister struct {
	stale      []models.Lead
	lastCutoff time.Time
}

func (f *fakeLeadLister) ListStale(_ context.Context, cutoff time.Time) ([]models.Lead, error) {
	f.lastCutoff = cutoff
	return f.stale, nil
}

type fakeRecorder struct {
	entries []activity.RecordInput
	err     error
}

func (f *fakeRecorder) Record(_ context.Context, _ *gorm.DB, input activity.RecordInput) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, input)
	return nil
}

func TestStaleLeadJobFlagsByCutoff(t *testing.T) {
	now := time.Date(2026, 8, 30, 6, 0, 0, 0, time.UTC)
	lister := &fakeLeadLister{stale: []models.Lead{
		{ID: uuid.New(), CompanyName: "Hotel Krasnapolsky"},
	}}
	recorder := &fakeRecorder{}

	jobIface, err := NewStaleLeadJob(StaleLeadJobParams{
		Logger:   testLogger(),
		Leads:    lister,
		Recorder: recorder,
		Days:     14,
		Now:      func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("NewStaleLeadJob: %v", err)
	}

	if err := jobIface.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	expectedCutoff := now.Add(-14 * 24 * time.Hour)
	if !lister.lastCutoff.Equal(expectedCutoff) {
		t.Fatalf("expected cutoff %s, got %s", expectedCutoff, lister.lastCutoff)
	}
	if len(recorder.entries) != 1 || recorder.entries[0].EntityType != "lead" {
		t.Fatalf("expected one lead entry, got %+v", recorder.entries)
	}
}

func TestStaleLeadJobPropagatesRecorderErrors(t *testing.T) {
	lister := &fakeLeadLister{stale: []models.Lead{{ID: uuid.New()}}}
	jobIface, err := NewStaleLeadJob(StaleLeadJobParams{
		Logger:   testLogger(),
		Leads:    lister,
		Recorder: &fakeRecorder{err: errors.New("boom")},
	})
	if err != nil {
		t.Fatalf("NewStaleLeadJob: %v", err)
	}
	if err := jobIface.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

type fakeActivityRepo struct {
	lastCutoff  time.Time
	deletedRows int64
	err         error
	called      int
}

func (f *fakeActivityRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.called++
	f.lastCutoff = cutoff
	if f.err != nil {
		return 0, f.err
	}
	return f.deletedRows, nil
}

func TestActivityRetentionJobDeletesOldEntries(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	repo := &fakeActivityRepo{deletedRows: 42}

	jobIface, err := NewActivityRetentionJob(ActivityRetentionJobParams{
		Logger:     testLogger(),
		Repository: repo,
	})
	if err != nil {
		t.Fatalf("NewActivityRetentionJob: %v", err)
	}
	job, ok := jobIface.(*activityRetentionJob)
	if !ok {
		t.Fatalf("expected activityRetentionJob, got %T", jobIface)
	}
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	expectedCutoff := now.Add(-activityRetentionDays * 24 * time.Hour)
	if !repo.lastCutoff.Equal(expectedCutoff) {
		t.Fatalf("expected cutoff %s, got %s", expectedCutoff, repo.lastCutoff)
	}
	if repo.called != 1 {
		t.Fatalf("expected repo called once, got %d", repo.called)
	}
}

func TestActivityRetentionJobPropagatesErrors(t *testing.T) {
	jobIface, err := NewActivityRetentionJob(ActivityRetentionJobParams{
		Logger:     testLogger(),
		Repository: &fakeActivityRepo{err: errors.New("boom")},
	})
	if err != nil {
		t.Fatalf("NewActivityRetentionJob: %v", err)
	}
	if err := jobIface.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
