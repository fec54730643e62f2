package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/media2net-app/bloemenvandegier-sub001/pkg/config"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/db/models"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/logger"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/outbox/registry"
)

const (
	defaultBatchSize      = 50
	defaultPollMs         = 500
	defaultMaxAttempts    = 10
	defaultPublishTimeout = 15 * time.Second
)

type outboxRepository interface {
	FetchUnpublished(limit int) ([]models.OutboxEvent, error)
	MarkPublished(id uuid.UUID) error
	MarkFailed(id uuid.UUID, err error) error
}

type registryResolver interface {
	Resolve(models.OutboxEvent) (*registry.ResolvedEvent, error)
}

type publisher interface {
	Publish(context.Context, *gcppubsub.Message) publishResult
}

type publishResult interface {
	Get(context.Context) (string, error)
}

type publisherFactory func(topic string) publisher

// ServiceParams wires the publisher loop's collaborators.
type ServiceParams struct {
	Config           *config.Config
	Logger           *logger.Logger
	Repository       outboxRepository
	Registry         registryResolver
	PublisherFactory publisherFactory
}

// Service drains the outbox table to Pub/Sub.
type Service struct {
	logg         *logger.Logger
	repo         outboxRepository
	registry     registryResolver
	publishers   publisherFactory
	batchSize    int
	maxAttempts  int
	pollInterval time.Duration
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Config == nil {
		return nil, errors.New("config is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if params.Repository == nil {
		return nil, errors.New("outbox repository is required")
	}
	if params.Registry == nil {
		return nil, errors.New("event registry is required")
	}
	if params.PublisherFactory == nil {
		return nil, errors.New("publisher factory is required")
	}

	batchSize := params.Config.Outbox.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	maxAttempts := params.Config.Outbox.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	pollMs := params.Config.Outbox.PollIntervalMS
	if pollMs <= 0 {
		pollMs = defaultPollMs
	}

	return &Service{
		logg:         params.Logger,
		repo:         params.Repository,
		registry:     params.Registry,
		publishers:   params.PublisherFactory,
		batchSize:    batchSize,
		maxAttempts:  maxAttempts,
		pollInterval: time.Duration(pollMs) * time.Millisecond,
	}, nil
}

// Run polls until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		if err := s.drainOnce(ctx); err != nil {
			s.logg.Error(ctx, "outbox drain cycle failed", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// drainOnce publishes one batch of unpublished rows.
func (s *Service) drainOnce(ctx context.Context) error {
	rows, err := s.repo.FetchUnpublished(s.batchSize)
	if err != nil {
		return fmt.Errorf("fetching unpublished events: %w", err)
	}

	for _, row := range rows {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.publishRow(ctx, row)
	}
	return nil
}

func (s *Service) publishRow(ctx context.Context, row models.OutboxEvent) {
	rowCtx := s.logg.WithFields(ctx, map[string]any{
		"event_id":   row.ID.String(),
		"event_type": string(row.EventType),
		"attempts":   row.AttemptCount,
	})

	if row.AttemptCount >= s.maxAttempts {
		s.logg.Warn(rowCtx, "outbox event exceeded max attempts, leaving for inspection")
		return
	}

	resolved, err := s.registry.Resolve(row)
	if err != nil {
		s.logg.Error(rowCtx, "outbox event resolution failed", err)
		if markErr := s.repo.MarkFailed(row.ID, err); markErr != nil {
			s.logg.Error(rowCtx, "marking event failed", markErr)
		}
		return
	}

	pub := s.publishers(resolved.Descriptor.Topic)
	if pub == nil {
		s.logg.Error(rowCtx, "no publisher for topic", fmt.Errorf("topic %s", resolved.Descriptor.Topic))
		return
	}

	publishCtx, cancel := context.WithTimeout(ctx, defaultPublishTimeout)
	defer cancel()

	result := pub.Publish(publishCtx, &gcppubsub.Message{
		Data: row.Payload,
		Attributes: map[string]string{
			"event_id":       row.ID.String(),
			"event_type":     string(row.EventType),
			"aggregate_type": string(row.AggregateType),
			"aggregate_id":   row.AggregateID.String(),
		},
	})
	if _, err := result.Get(publishCtx); err != nil {
		s.logg.Error(rowCtx, "publishing outbox event failed", err)
		if markErr := s.repo.MarkFailed(row.ID, err); markErr != nil {
			s.logg.Error(rowCtx, "marking event failed", markErr)
		}
		return
	}

	if err := s.repo.MarkPublished(row.ID); err != nil {
		s.logg.Error(rowCtx, "marking event published failed", err)
		return
	}
	s.logg.Info(rowCtx, "outbox event published")
}
